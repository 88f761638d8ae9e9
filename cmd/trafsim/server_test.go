package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/santfeliu/trafsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func prepareTestServer() *server {
	simulation := trafsim.NewSimulation(trafsim.WithDuration(1))
	graph := simulation.RoadGraph
	graph.AddEdge(graph.NewEdge([]trafsim.Point{{X: 0}, {X: 1000}}, 60, 1, 0))
	graph.AddEdge(graph.NewEdge([]trafsim.Point{{X: 1000}, {X: 2000}}, 60, 1, 0))
	simulation.Locations.AddLocation(&trafsim.Location{Name: "work", Point: trafsim.Point{X: 1500}})
	group := trafsim.NewGroup("commute")
	group.AddJourney("work", 1)
	simulation.AddGroup(group)
	simulation.Vehicles.AddGroup(&trafsim.VehicleGroup{Point: trafsim.Point{X: 100}, Count: 4, Group: "commute"})
	return newServer(simulation, zap.NewNop())
}

func doRequest(engine *gin.Engine, method, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	body := make(map[string]interface{})
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := prepareTestServer().engine()
	w, body := doRequest(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestRouteHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := prepareTestServer()
	engine := srv.engine()

	w, body := doRequest(engine, http.MethodGet, "/route?from=100,5&to=1500,-5")
	require.Equal(t, http.StatusOK, w.Code)
	properties, ok := body["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, properties["found"])
	assert.InDelta(t, 1400, properties["length"], 1e-6)

	// Same origin reuses cached tree
	w, body = doRequest(engine, http.MethodGet, "/route?from=100,5&to=1800,0")
	require.Equal(t, http.StatusOK, w.Code)
	properties = body["properties"].(map[string]interface{})
	assert.InDelta(t, 1700, properties["length"], 1e-6)
	assert.Equal(t, 1, srv.finders.Len())

	w, _ = doRequest(engine, http.MethodGet, "/route?from=100&to=1500,0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = doRequest(engine, http.MethodGet, "/route?from=100,0&to=1500,0&tolerance=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = doRequest(engine, http.MethodGet, "/route?from=100,500&to=1500,0&tolerance=10")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSimulateHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := prepareTestServer()
	engine := srv.engine()

	w, body := doRequest(engine, http.MethodGet, "/progress")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["running"])
	w, _ = doRequest(engine, http.MethodDelete, "/simulate")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = doRequest(engine, http.MethodPost, "/simulate")
	require.Equal(t, http.StatusAccepted, w.Code)
	passID, ok := body["pass_id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, passID)

	require.Eventually(t, func() bool {
		_, body := doRequest(engine, http.MethodGet, "/progress")
		return body["running"] == false && body["pass_id"] == passID
	}, 5*time.Second, 10*time.Millisecond)

	// Busy lock is released right after the pass goroutine finishes
	var indicators map[string]interface{}
	require.Eventually(t, func() bool {
		w, body := doRequest(engine, http.MethodGet, "/indicators")
		indicators = body
		return w.Code == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 4.0, indicators["total_journey_count"])
	assert.Equal(t, 4.0, indicators["total_routed_count"])
	assert.Equal(t, 4.0, indicators["max_vehicles_per_edge"])

	w, body = doRequest(engine, http.MethodGet, "/edges")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "FeatureCollection", body["type"])
}

func TestParsePoint(t *testing.T) {
	pt, err := parsePoint("1.5, 2,3")
	require.NoError(t, err)
	assert.Equal(t, trafsim.Point{X: 1.5, Y: 2, Z: 3}, pt)
	_, err = parsePoint("1")
	assert.Error(t, err)
	_, err = parsePoint("a,b")
	assert.Error(t, err)
}
