package trafsim

import (
	"math"
	"math/rand"
	"time"
)

// Distributor splits vehicle counts across weighted destinations.
// Integer parts are assigned deterministically, leftover units are drawn at random proportionally to fractional remainders.
type Distributor struct {
	rnd *rand.Rand
}

// NewDistributor returns distributor drawing from given source. Nil source means time-seeded one.
func NewDistributor(source rand.Source) *Distributor {
	if source == nil {
		source = rand.NewSource(time.Now().UnixNano())
	}
	return &Distributor{
		rnd: rand.New(source),
	}
}

type allocation struct {
	locationName string
	count        int
	remainder    float64
}

// Allocate returns movements summing exactly to count. Journeys with non-positive weight are ignored.
func (distributor *Distributor) Allocate(count int, journeys []Journey) Movements {
	movements := make(Movements)
	if count <= 0 {
		return movements
	}
	total := 0.0
	for _, journey := range journeys {
		if journey.Weight > 0 {
			total += journey.Weight
		}
	}
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return movements
	}

	allocations := make([]allocation, 0, len(journeys))
	assigned := 0
	for _, journey := range journeys {
		if !(journey.Weight > 0) {
			continue
		}
		share := float64(count) * journey.Weight / total
		base := math.Floor(share)
		allocations = append(allocations, allocation{
			locationName: journey.LocationName,
			count:        int(base),
			remainder:    share - base,
		})
		assigned += int(base)
	}

	unassigned := count - assigned
	for i := 0; i < unassigned; i++ {
		mass := 0.0
		for j := range allocations {
			mass += allocations[j].remainder
		}
		distributor.award(allocations, distributor.rnd.Float64()*mass)
	}

	for _, a := range allocations {
		if a.count > 0 {
			movements[a.locationName] += a.count
		}
	}
	return movements
}

// award gives one unit to the allocation whose remainder bracket holds r
func (distributor *Distributor) award(allocations []allocation, r float64) {
	accum := 0.0
	last := -1
	for j := range allocations {
		if allocations[j].remainder <= 0 {
			continue
		}
		last = j
		if r >= accum && r < accum+allocations[j].remainder {
			allocations[j].count++
			allocations[j].remainder = 0
			return
		}
		accum += allocations[j].remainder
	}
	if last < 0 {
		// No remainder mass left because of float rounding; fall back to the largest allocation
		last = 0
		for j := range allocations {
			if allocations[j].count > allocations[last].count {
				last = j
			}
		}
	}
	allocations[last].count++
	allocations[last].remainder = 0
}
