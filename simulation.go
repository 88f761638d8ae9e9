package trafsim

import (
	"github.com/paulmach/orb"
)

const (
	DEFAULT_SRS_NAME = "EPSG:25831"
)

// Simulation is the whole scenario: road network, places, vehicles, demand patterns and results of the last pass
type Simulation struct {
	Title   string
	SrsName string
	// Duration of the simulated period in hours
	Duration   float64
	RoadGraph  *RoadGraph
	Locations  *Locations
	Vehicles   *Vehicles
	Groups     map[string]*Group
	Indicators Indicators
}

// NewSimulation returns empty simulation
func NewSimulation(options ...func(*Simulation)) *Simulation {
	simulation := &Simulation{
		SrsName:   DEFAULT_SRS_NAME,
		RoadGraph: NewRoadGraph(),
		Locations: NewLocations(),
		Vehicles:  NewVehicles(),
		Groups:    make(map[string]*Group),
	}
	for _, option := range options {
		option(simulation)
	}
	return simulation
}

func WithTitle(title string) func(*Simulation) {
	return func(simulation *Simulation) {
		simulation.Title = title
	}
}

func WithSrsName(srsName string) func(*Simulation) {
	return func(simulation *Simulation) {
		simulation.SrsName = srsName
	}
}

// WithDuration sets simulated period in hours
func WithDuration(hours float64) func(*Simulation) {
	return func(simulation *Simulation) {
		simulation.Duration = hours
	}
}

// WithRoadGraph replaces default empty road network
func WithRoadGraph(graph *RoadGraph) func(*Simulation) {
	return func(simulation *Simulation) {
		if graph != nil {
			simulation.RoadGraph = graph
		}
	}
}

// AddGroup registers demand pattern replacing any group with the same name
func (simulation *Simulation) AddGroup(group *Group) {
	if group == nil {
		return
	}
	simulation.Groups[group.Name] = group
}

// Group returns demand pattern by name
func (simulation *Simulation) Group(name string) (*Group, bool) {
	group, ok := simulation.Groups[name]
	return group, ok
}

// Layers returns road graph, locations and vehicles in drawing order
func (simulation *Simulation) Layers() []Layer {
	return []Layer{simulation.RoadGraph, simulation.Locations, simulation.Vehicles}
}

// ResolveMovements recomputes allocations of every vehicle group with a known group and a positive count
func (simulation *Simulation) ResolveMovements(distributor *Distributor) {
	for _, vehicleGroup := range simulation.Vehicles.Groups() {
		group, ok := simulation.Groups[vehicleGroup.Group]
		if !ok || vehicleGroup.Count <= 0 {
			continue
		}
		vehicleGroup.Movements = distributor.Allocate(vehicleGroup.Count, group.Journeys())
	}
}

// Bound returns extent of every feature of every layer. Second value is false for an empty simulation.
func (simulation *Simulation) Bound() (orb.Bound, bool) {
	bound := orb.Bound{}
	found := false
	for _, layer := range simulation.Layers() {
		for _, feature := range layer.Features() {
			for _, pt := range feature.Geometry() {
				if !found {
					bound = orb.Bound{Min: pt.Orb(), Max: pt.Orb()}
					found = true
					continue
				}
				bound = bound.Extend(pt.Orb())
			}
		}
	}
	return bound, found
}
