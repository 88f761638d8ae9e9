package trafsim

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrAborted is returned by a routing pass stopped with Abort or by context cancellation
	ErrAborted = errors.New("routing pass aborted")
	// ErrNilSimulation is returned when router has nothing to route
	ErrNilSimulation = errors.New("simulation is nil")
)

const (
	progressBufferSize = 16
)

// Progress reports how many vehicle groups have been routed
type Progress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// Router runs a full routing pass over a simulation: every vehicle group to every destination of its group.
// A pass owns the simulation exclusively until it returns.
type Router struct {
	simulation       *Simulation
	meter            RouteMeter
	distributor      *Distributor
	logger           *zap.Logger
	progressInterval int
	progress         chan Progress
	aborted          int32
	processed        int64
	total            int64
	done             chan struct{}
	err              error
}

// NewRouter returns router for given simulation
func NewRouter(simulation *Simulation, options ...func(*Router)) *Router {
	router := &Router{
		simulation:       simulation,
		logger:           zap.NewNop(),
		progressInterval: 1,
		progress:         make(chan Progress, progressBufferSize),
	}
	for _, option := range options {
		option(router)
	}
	if router.distributor == nil {
		router.distributor = NewDistributor(nil)
	}
	return router
}

// WithLogger sets logger. Nil is ignored.
func WithLogger(logger *zap.Logger) func(*Router) {
	return func(router *Router) {
		if logger != nil {
			router.logger = logger
		}
	}
}

func WithMeter(meter RouteMeter) func(*Router) {
	return func(router *Router) {
		router.meter = meter
	}
}

// WithDistributor sets distributor used for vehicle groups without resolved movements
func WithDistributor(distributor *Distributor) func(*Router) {
	return func(router *Router) {
		router.distributor = distributor
	}
}

// WithProgressInterval publishes progress every n vehicle groups. The last group is always published.
func WithProgressInterval(n int) func(*Router) {
	return func(router *Router) {
		if n > 0 {
			router.progressInterval = n
		}
	}
}

// Progress returns channel receiving progress notifications. Notifications are dropped when nobody listens.
func (router *Router) Progress() <-chan Progress {
	return router.progress
}

// Status returns last known progress
func (router *Router) Status() Progress {
	return Progress{
		Processed: int(atomic.LoadInt64(&router.processed)),
		Total:     int(atomic.LoadInt64(&router.total)),
	}
}

// Abort asks running pass to stop. It is checked between vehicle groups and between journeys.
func (router *Router) Abort() {
	atomic.StoreInt32(&router.aborted, 1)
}

// Run executes a routing pass on the calling goroutine
func (router *Router) Run(ctx context.Context) error {
	atomic.StoreInt32(&router.aborted, 0)
	return router.runPass(ctx)
}

// Start executes a routing pass on its own goroutine. Use Wait to get its result.
func (router *Router) Start(ctx context.Context) {
	atomic.StoreInt32(&router.aborted, 0)
	done := make(chan struct{})
	router.done = done
	go func() {
		defer close(done)
		router.err = router.runPass(ctx)
	}()
}

// Wait blocks until the pass launched by Start finishes
func (router *Router) Wait() error {
	if router.done == nil {
		return nil
	}
	<-router.done
	return router.err
}

// Done returns channel closed when the pass launched by Start finishes. Nil before Start.
func (router *Router) Done() <-chan struct{} {
	return router.done
}

func (router *Router) isAborted(ctx context.Context) bool {
	if atomic.LoadInt32(&router.aborted) == 1 {
		return true
	}
	return ctx.Err() != nil
}

func (router *Router) runPass(ctx context.Context) error {
	simulation := router.simulation
	if simulation == nil {
		return ErrNilSimulation
	}
	indicators := &simulation.Indicators
	indicators.Reset()
	graph := simulation.RoadGraph
	for _, edge := range graph.Edges() {
		edge.indicators.Reset()
	}
	vehicleGroups := simulation.Vehicles.Groups()
	for _, vehicleGroup := range vehicleGroups {
		vehicleGroup.indicators.Reset()
	}
	atomic.StoreInt64(&router.processed, 0)
	atomic.StoreInt64(&router.total, int64(len(vehicleGroups)))

	finder := NewRouteFinder(graph, router.meter)
	router.logger.Info("Routing pass started",
		zap.Int("vehicle_groups", len(vehicleGroups)),
		zap.Int("edges", graph.EdgeCount()),
		zap.Int("nodes", graph.NodeCount()),
	)
	st := time.Now()
	for idx, vehicleGroup := range vehicleGroups {
		if router.isAborted(ctx) {
			router.logger.Info("Routing pass aborted", zap.Int("processed", idx), zap.Duration("elapsed", time.Since(st)))
			return ErrAborted
		}
		if err := router.routeGroup(ctx, finder, vehicleGroup); err != nil {
			router.logger.Info("Routing pass aborted", zap.Int("processed", idx), zap.Duration("elapsed", time.Since(st)))
			return err
		}
		indicators.UpdateGroup(&vehicleGroup.indicators)
		indicators.UpdateAverages()
		processed := idx + 1
		atomic.StoreInt64(&router.processed, int64(processed))
		if processed%router.progressInterval == 0 || processed == len(vehicleGroups) {
			router.publish(Progress{Processed: processed, Total: len(vehicleGroups)})
		}
	}
	router.logger.Info("Routing pass done",
		zap.Int("journeys", indicators.TotalJourneyCount),
		zap.Int("routed", indicators.TotalRoutedCount),
		zap.Int("unrouted", indicators.TotalUnroutedCount),
		zap.Int("max_vehicles_per_edge", indicators.MaxVehiclesPerEdge),
		zap.Duration("elapsed", time.Since(st)),
	)
	return nil
}

// routeGroup routes every destination of the vehicle group and accumulates indicators
func (router *Router) routeGroup(ctx context.Context, finder *RouteFinder, vehicleGroup *VehicleGroup) error {
	simulation := router.simulation
	finder.Clear()
	group, ok := simulation.Groups[vehicleGroup.Group]
	if !ok {
		router.logger.Warn("Vehicle group refers to unknown group", zap.String("group", vehicleGroup.Group))
		return nil
	}
	if vehicleGroup.Movements == nil {
		vehicleGroup.Movements = router.distributor.Allocate(vehicleGroup.Count, group.Journeys())
	}
	originSet := finder.SetOrigin(vehicleGroup.Point, math.Inf(1))

	groupIndicators := &vehicleGroup.indicators
	globalIndicators := &simulation.Indicators
	seen := make(map[string]struct{}, len(group.Journeys()))
	for _, journey := range group.Journeys() {
		if router.isAborted(ctx) {
			return ErrAborted
		}
		if _, ok := seen[journey.LocationName]; ok {
			// Movements of repeated locations are already accumulated
			continue
		}
		seen[journey.LocationName] = struct{}{}
		location, ok := simulation.Locations.Location(journey.LocationName)
		if !ok {
			router.logger.Warn("Journey refers to unknown location",
				zap.String("group", group.Name),
				zap.String("location", journey.LocationName),
			)
			continue
		}
		if !location.IsDestination() {
			continue
		}
		journeyCount := vehicleGroup.Movements[journey.LocationName]
		if journeyCount <= 0 {
			continue
		}
		var route *Route
		if originSet && finder.SetDestination(location.Point, math.Inf(1)) {
			route = finder.Route()
		}
		groupIndicators.JourneyCount += journeyCount
		if route == nil || route.IsEmpty() {
			groupIndicators.UnroutedCount += journeyCount
			continue
		}
		groupIndicators.RoutedCount += journeyCount
		groupIndicators.Distance += route.Length() * float64(journeyCount)
		groupIndicators.Time += router.meter.RouteTime(route) * float64(journeyCount)
		for _, section := range route.Sections() {
			edgeIndicators := &section.edge.indicators
			edgeIndicators.VehicleCount += journeyCount
			globalIndicators.UpdateEdge(edgeIndicators)
		}
	}
	return nil
}

// publish sends progress without blocking. A stale notification is dropped to make room for the newest one.
func (router *Router) publish(progress Progress) {
	select {
	case router.progress <- progress:
		return
	default:
	}
	select {
	case <-router.progress:
	default:
	}
	select {
	case router.progress <- progress:
	default:
	}
}
