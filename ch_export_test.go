package trafsim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractionGraph(t *testing.T) {
	graph := NewRoadGraph()
	points := []Point{{X: 0}, {X: 1000}, {X: 2000}, {X: 1000, Y: 1000}, {X: 0, Y: 1000}}
	connect := func(from, to int, speed float64) {
		graph.AddEdge(graph.NewEdge([]Point{points[from], points[to]}, speed, 1, 0))
	}
	connect(0, 1, 50)
	connect(1, 2, 50)
	connect(2, 3, 30)
	connect(3, 0, 80)
	connect(1, 3, 20)
	connect(3, 4, 50)
	connect(4, 0, 50)
	// Parallel slower edge and impassable edge are ignored
	graph.AddEdge(graph.NewEdge([]Point{points[0], {X: 500, Y: -300}, points[1]}, 10, 1, 0))
	connect(4, 3, 0)

	meter := RouteMeter{}
	chGraph, err := ContractionGraph(graph, meter)
	require.NoError(t, err)
	assert.Len(t, chGraph.Vertices, graph.NodeCount())
	chGraph.PrepareContractionHierarchies()

	finder := NewRouteFinder(graph, meter)
	for _, source := range graph.Nodes() {
		require.True(t, finder.SetOriginNode(source.ID))
		for _, target := range graph.Nodes() {
			if source.ID == target.ID {
				continue
			}
			expected := finder.TimeTo(target.ID)
			cost, path := chGraph.ShortestPath(int64(source.ID), int64(target.ID))
			if math.IsInf(expected, 1) {
				assert.Equal(t, -1.0, cost, "path %d -> %d must not exist", source.ID, target.ID)
				continue
			}
			assert.InDelta(t, expected, cost, 1e-9, "path %d -> %d", source.ID, target.ID)
			assert.Equal(t, int64(source.ID), path[0])
			assert.Equal(t, int64(target.ID), path[len(path)-1])
		}
	}
}
