package trafsim

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// prepareTestSimulation returns A -> B -> C road with one commuting vehicle group
func prepareTestSimulation() *Simulation {
	simulation := NewSimulation(WithTitle("test"), WithDuration(1))
	graph := simulation.RoadGraph
	graph.AddEdge(graph.NewEdge([]Point{{X: 0}, {X: 1000}}, 60, 1, 0))
	graph.AddEdge(graph.NewEdge([]Point{{X: 1000}, {X: 2000}}, 60, 1, 0))

	simulation.Locations.AddLocation(&Location{Name: "home", Point: Point{X: 100}, Origin: true})
	simulation.Locations.AddLocation(&Location{Name: "work", Point: Point{X: 1500}})
	simulation.Locations.AddLocation(&Location{Name: "far", Point: Point{X: -500}})

	group := NewGroup("commute")
	group.AddJourney("work", 3)
	group.AddJourney("far", 1)
	group.AddJourney("home", 1)
	simulation.AddGroup(group)

	simulation.Vehicles.AddGroup(&VehicleGroup{
		Point:     Point{X: 100},
		Count:     10,
		Group:     "commute",
		Movements: Movements{"work": 6, "far": 4, "home": 0},
	})
	simulation.Vehicles.AddGroup(&VehicleGroup{Point: Point{X: 100}, Count: 5, Group: "ghost"})
	simulation.Vehicles.AddGroup(&VehicleGroup{Point: Point{X: 100}, Count: 0, Group: "commute"})
	return simulation
}

func checkTestIndicators(t *testing.T, simulation *Simulation) {
	indicators := simulation.Indicators
	assert.Equal(t, 10, indicators.TotalJourneyCount)
	assert.Equal(t, 6, indicators.TotalRoutedCount)
	assert.Equal(t, 4, indicators.TotalUnroutedCount)
	assert.InDelta(t, 8400, indicators.TotalDistance, 1e-6)
	assert.InDelta(t, 0.14, indicators.TotalTime, 1e-9)
	assert.InDelta(t, 1400, indicators.JourneyAvgDistance, 1e-6)
	assert.InDelta(t, 1400.0/60000, indicators.JourneyAvgTime, 1e-9)
	assert.Equal(t, 6, indicators.MaxVehiclesPerEdge)
}

func TestRouterRun(t *testing.T) {
	simulation := prepareTestSimulation()
	router := NewRouter(simulation, WithLogger(zap.NewNop()), WithDistributor(NewDistributor(rand.NewSource(1))))
	require.NoError(t, router.Run(context.Background()))
	checkTestIndicators(t, simulation)

	groupIndicators := simulation.Vehicles.Groups()[0].Indicators()
	assert.Equal(t, 10, groupIndicators.JourneyCount)
	assert.Equal(t, 6, groupIndicators.RoutedCount)
	assert.Equal(t, 4, groupIndicators.UnroutedCount)
	assert.InDelta(t, 1400, groupIndicators.JourneyAvgDistance(), 1e-6)

	for _, edge := range simulation.RoadGraph.Edges() {
		assert.Equal(t, 6, edge.Indicators().VehicleCount)
	}
	assert.Equal(t, 0, simulation.Vehicles.Groups()[1].Indicators().JourneyCount)
	assert.NotNil(t, simulation.Vehicles.Groups()[2].Movements)

	// Second pass starts from scratch
	require.NoError(t, router.Run(context.Background()))
	checkTestIndicators(t, simulation)

	// Totals can be rebuilt from the accumulators
	simulation.Indicators.Evaluate(simulation)
	checkTestIndicators(t, simulation)
}

func TestRouterProgress(t *testing.T) {
	simulation := prepareTestSimulation()
	router := NewRouter(simulation)
	require.NoError(t, router.Run(context.Background()))

	notifications := make([]Progress, 0)
	for len(router.Progress()) > 0 {
		notifications = append(notifications, <-router.Progress())
	}
	require.Len(t, notifications, 3)
	assert.Equal(t, Progress{Processed: 3, Total: 3}, notifications[2])
	assert.Equal(t, Progress{Processed: 3, Total: 3}, router.Status())

	sparse := NewRouter(simulation, WithProgressInterval(2))
	require.NoError(t, sparse.Run(context.Background()))
	assert.Len(t, sparse.Progress(), 2)
}

func TestRouterAbort(t *testing.T) {
	simulation := prepareTestSimulation()
	router := NewRouter(simulation)
	router.Abort()
	err := router.runPass(context.Background())
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, 0, router.Status().Processed)

	// Run clears previous abort request
	require.NoError(t, router.Run(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = router.Run(ctx)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestRouterAbortBetweenJourneys(t *testing.T) {
	simulation := prepareTestSimulation()
	group := NewGroup("commute")
	group.AddJourney("work", 3)
	group.AddJourney("nowhere", 1)
	group.AddJourney("far", 1)
	simulation.AddGroup(group)

	// Unknown location warning is logged in the middle of the first vehicle group
	var router *Router
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core, zap.Hooks(func(entry zapcore.Entry) error {
		if entry.Level == zap.WarnLevel {
			router.Abort()
		}
		return nil
	}))
	router = NewRouter(simulation, WithLogger(logger))
	err := router.Run(context.Background())
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, 1, logs.FilterMessage("Routing pass aborted").Len())

	// Only the journey before the abort is accounted
	groupIndicators := simulation.Vehicles.Groups()[0].Indicators()
	assert.Equal(t, 6, groupIndicators.JourneyCount)
	assert.Equal(t, 6, groupIndicators.RoutedCount)
	assert.Equal(t, 0, groupIndicators.UnroutedCount)
	assert.Equal(t, 0, simulation.Indicators.TotalJourneyCount)
	assert.Equal(t, 0, router.Status().Processed)
	assert.Empty(t, router.Progress())
}

func TestRouterStart(t *testing.T) {
	simulation := prepareTestSimulation()
	router := NewRouter(simulation)
	assert.Nil(t, router.Done())
	assert.NoError(t, router.Wait())

	router.Start(context.Background())
	require.NoError(t, router.Wait())
	<-router.Done()
	checkTestIndicators(t, simulation)
}

func TestRouterNilSimulation(t *testing.T) {
	router := NewRouter(nil)
	err := router.Run(context.Background())
	assert.ErrorIs(t, err, ErrNilSimulation)
}
