package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/santfeliu/trafsim"
	"go.uber.org/zap"
)

const (
	finderCacheSize = 256
)

// server exposes routing and simulation passes over HTTP.
// busy is held by a routing query or by a whole simulation pass, so the graph is never used concurrently.
type server struct {
	busy       sync.Mutex
	state      sync.Mutex
	simulation *trafsim.Simulation
	meter      trafsim.RouteMeter
	logger     *zap.Logger
	router     *trafsim.Router
	passID     uuid.UUID
	// finders keeps shortest time trees by origin query; the host never edits the graph
	finders *lru.Cache[string, *trafsim.RouteFinder]
}

func newServer(simulation *trafsim.Simulation, logger *zap.Logger) *server {
	finders, _ := lru.New[string, *trafsim.RouteFinder](finderCacheSize)
	return &server{
		simulation: simulation,
		logger:     logger,
		finders:    finders,
	}
}

func (srv *server) engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"*"}
	r.Use(cors.New(config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/route", srv.handleRoute)
	r.POST("/simulate", srv.handleSimulateStart)
	r.DELETE("/simulate", srv.handleSimulateAbort)
	r.GET("/progress", srv.handleProgress)
	r.GET("/indicators", srv.handleIndicators)
	r.GET("/edges", srv.handleEdges)
	return r
}

// run serves until context is done
func (srv *server) run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.engine(),
	}
	errCh := make(chan error, 1)
	go func() {
		srv.logger.Info("HTTP host starting", zap.String("addr", addr))
		errCh <- httpServer.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		srv.abortPass()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (srv *server) handleRoute(c *gin.Context) {
	from, err := parsePoint(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errors.Wrap(err, "Bad 'from'").Error()})
		return
	}
	to, err := parsePoint(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errors.Wrap(err, "Bad 'to'").Error()})
		return
	}
	tolerance := math.Inf(1)
	if toleranceStr := c.Query("tolerance"); toleranceStr != "" {
		tolerance, err = strconv.ParseFloat(toleranceStr, 64)
		if err != nil || tolerance < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bad 'tolerance'"})
			return
		}
	}

	if !srv.busy.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "simulation pass in progress"})
		return
	}
	defer srv.busy.Unlock()

	finder, ok := srv.finderFrom(from, tolerance)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no road near origin"})
		return
	}
	if !finder.SetDestination(to, tolerance) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no road near destination"})
		return
	}
	c.JSON(http.StatusOK, trafsim.RouteFeature(finder.Route(), srv.meter))
}

// finderFrom returns finder with origin set, reusing the tree of a previous query from the same point
func (srv *server) finderFrom(from trafsim.Point, tolerance float64) (*trafsim.RouteFinder, bool) {
	key := fmt.Sprintf("%v;%v;%v;%v", from.X, from.Y, from.Z, tolerance)
	if finder, ok := srv.finders.Get(key); ok {
		return finder, true
	}
	finder := trafsim.NewRouteFinder(srv.simulation.RoadGraph, srv.meter)
	if !finder.SetOrigin(from, tolerance) {
		return nil, false
	}
	srv.finders.Add(key, finder)
	return finder, true
}

func (srv *server) handleSimulateStart(c *gin.Context) {
	if !srv.busy.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "simulation pass in progress"})
		return
	}
	passID := uuid.New()
	logger := srv.logger.With(zap.String("pass_id", passID.String()))
	router := trafsim.NewRouter(srv.simulation, trafsim.WithLogger(logger), trafsim.WithMeter(srv.meter))
	router.Start(context.Background())
	srv.state.Lock()
	srv.router = router
	srv.passID = passID
	srv.state.Unlock()

	go func() {
		defer srv.busy.Unlock()
		err := router.Wait()
		if err != nil {
			logger.Warn("Simulation pass finished with error", zap.Error(err))
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "started", "pass_id": passID.String(), "vehicle_groups": srv.simulation.Vehicles.Len()})
}

func (srv *server) handleSimulateAbort(c *gin.Context) {
	if !srv.abortPass() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no simulation pass"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "aborting"})
}

func (srv *server) abortPass() bool {
	srv.state.Lock()
	defer srv.state.Unlock()
	if srv.router == nil {
		return false
	}
	srv.router.Abort()
	return true
}

func (srv *server) handleProgress(c *gin.Context) {
	srv.state.Lock()
	router := srv.router
	passID := srv.passID
	srv.state.Unlock()
	if router == nil {
		c.JSON(http.StatusOK, gin.H{"running": false, "processed": 0, "total": 0})
		return
	}
	status := router.Status()
	response := gin.H{"pass_id": passID.String(), "running": true, "processed": status.Processed, "total": status.Total}
	select {
	case <-router.Done():
		response["running"] = false
		if err := router.Wait(); err != nil {
			response["error"] = err.Error()
		}
	default:
	}
	c.JSON(http.StatusOK, response)
}

func (srv *server) handleIndicators(c *gin.Context) {
	if !srv.busy.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "simulation pass in progress"})
		return
	}
	defer srv.busy.Unlock()
	c.JSON(http.StatusOK, srv.simulation.Indicators)
}

func (srv *server) handleEdges(c *gin.Context) {
	if !srv.busy.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "simulation pass in progress"})
		return
	}
	defer srv.busy.Unlock()
	c.JSON(http.StatusOK, trafsim.EdgesFeatureCollection(srv.simulation.RoadGraph, srv.meter, srv.simulation.Duration))
}

// parsePoint parses "x,y" or "x,y,z"
func parsePoint(str string) (trafsim.Point, error) {
	parts := strings.Split(str, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return trafsim.Point{}, errors.Errorf("expected 'x,y' got '%s'", str)
	}
	coords := make([]float64, 3)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return trafsim.Point{}, errors.Wrapf(err, "Can't parse coordinate '%s'", part)
		}
		coords[i] = value
	}
	return trafsim.Point{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}
