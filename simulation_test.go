package trafsim

import (
	"math/rand"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicatorsUpdate(t *testing.T) {
	indicators := Indicators{}
	indicators.UpdateGroup(&GroupIndicators{JourneyCount: 4, RoutedCount: 3, UnroutedCount: 1, Distance: 300, Time: 0.3})
	// Groups without journeys don't count
	indicators.UpdateGroup(&GroupIndicators{RoutedCount: 100, Distance: 1000})
	indicators.UpdateEdge(&EdgeIndicators{VehicleCount: 7})
	indicators.UpdateEdge(&EdgeIndicators{VehicleCount: 2})
	indicators.UpdateAverages()

	assert.Equal(t, 4, indicators.TotalJourneyCount)
	assert.Equal(t, 3, indicators.TotalRoutedCount)
	assert.Equal(t, 1, indicators.TotalUnroutedCount)
	assert.InDelta(t, 100, indicators.JourneyAvgDistance, 1e-9)
	assert.InDelta(t, 0.1, indicators.JourneyAvgTime, 1e-9)
	assert.Equal(t, 7, indicators.MaxVehiclesPerEdge)

	indicators.Reset()
	assert.Equal(t, Indicators{}, indicators)
	indicators.UpdateAverages()
	assert.Equal(t, 0.0, indicators.JourneyAvgTime)

	indicators.Evaluate(nil)
	assert.Equal(t, Indicators{}, indicators)
}

func TestGroupIndicatorsAverages(t *testing.T) {
	group := GroupIndicators{JourneyCount: 2, UnroutedCount: 2}
	assert.Equal(t, 0.0, group.JourneyAvgTime())
	assert.Equal(t, 0.0, group.JourneyAvgDistance())
	group = GroupIndicators{JourneyCount: 2, RoutedCount: 2, Distance: 50, Time: 1}
	assert.Equal(t, 25.0, group.JourneyAvgDistance())
	assert.Equal(t, 0.5, group.JourneyAvgTime())
	group.Reset()
	assert.Equal(t, GroupIndicators{}, group)
}

func TestSimulationDefaults(t *testing.T) {
	simulation := NewSimulation()
	assert.Equal(t, DEFAULT_SRS_NAME, simulation.SrsName)
	_, ok := simulation.Bound()
	assert.False(t, ok)

	layers := simulation.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, "RoadGraph", layers[0].Name())
	assert.Equal(t, "Locations", layers[1].Name())
	assert.Equal(t, "Vehicles", layers[2].Name())
}

func TestSimulationBound(t *testing.T) {
	simulation := prepareTestSimulation()
	bound, ok := simulation.Bound()
	require.True(t, ok)
	assert.Equal(t, orb.Bound{Min: orb.Point{-500, 0}, Max: orb.Point{2000, 0}}, bound)
}

func TestSimulationResolveMovements(t *testing.T) {
	simulation := prepareTestSimulation()
	simulation.ResolveMovements(NewDistributor(rand.NewSource(1)))
	vehicleGroups := simulation.Vehicles.Groups()
	assert.Equal(t, 10, vehicleGroups[0].Movements.Total())
	// Unknown group and empty group are left as they are
	assert.Nil(t, vehicleGroups[1].Movements)
	assert.Nil(t, vehicleGroups[2].Movements)
}

func TestLocationsLayer(t *testing.T) {
	locations := NewLocations()
	first := &Location{Name: "A", Point: Point{X: 1}}
	second := &Location{Name: "A", Point: Point{X: 2}}
	locations.AddLocation(first)
	locations.AddLocation(second)
	assert.Equal(t, 1, locations.Len())
	found, ok := locations.Location("A")
	require.True(t, ok)
	assert.Equal(t, second, found)

	require.NoError(t, locations.Transform(second, Scaling(2, 2, 1)))
	assert.Equal(t, Point{X: 4}, second.Point)

	assert.ErrorIs(t, locations.Add(&VehicleGroup{}), ErrFeatureKind)
	require.NoError(t, locations.Remove(second))
	assert.Equal(t, 0, locations.Len())
	_, ok = locations.Location("A")
	assert.False(t, ok)
}

func TestVehiclesLayer(t *testing.T) {
	vehicles := NewVehicles()
	vehicleGroup := &VehicleGroup{Point: Point{X: 1}, Count: 3, Group: "G", Movements: Movements{"A": 3}}
	vehicles.AddGroup(vehicleGroup)
	vehicles.AddGroup(vehicleGroup)
	assert.Equal(t, 1, vehicles.Len())

	duplicate := vehicleGroup.Duplicate()
	duplicate.Movements["A"] = 1
	assert.Equal(t, 3, vehicleGroup.Movements["A"])
	require.NoError(t, vehicles.Add(duplicate))
	assert.Len(t, vehicles.Features(), 2)

	require.NoError(t, vehicles.Transform(duplicate, Translation(1, 1, 0)))
	assert.Equal(t, Point{X: 2, Y: 1}, duplicate.Point)

	assert.ErrorIs(t, vehicles.Remove(&Location{}), ErrFeatureKind)
	vehicles.RemoveGroup(vehicleGroup)
	assert.Equal(t, []*VehicleGroup{duplicate}, vehicles.Groups())
	vehicles.Clear()
	assert.Equal(t, 0, vehicles.Len())
}
