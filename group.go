package trafsim

import (
	"fmt"
	"sort"
	"strings"
)

// Journey is a weighted destination inside a group
type Journey struct {
	LocationName string
	// Weight is relative; weights of a group need not sum to 1
	Weight float64
}

// Group is a named demand pattern: where vehicles of an origin go and in which proportion
type Group struct {
	Name     string
	journeys []Journey
}

func NewGroup(name string) *Group {
	return &Group{
		Name:     name,
		journeys: make([]Journey, 0),
	}
}

// AddJourney appends weighted destination
func (group *Group) AddJourney(locationName string, weight float64) {
	group.journeys = append(group.journeys, Journey{LocationName: locationName, Weight: weight})
}

// Journeys returns destinations in insertion order
func (group *Group) Journeys() []Journey {
	return group.journeys
}

// Movements maps destination location name to allocated vehicle count
type Movements map[string]int

// Total returns number of allocated vehicles
func (movements Movements) Total() int {
	total := 0
	for _, count := range movements {
		total += count
	}
	return total
}

// String returns movements sorted by location name
func (movements Movements) String() string {
	names := make([]string, 0, len(movements))
	for name := range movements {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %d", name, movements[name])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
