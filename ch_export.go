package trafsim

import (
	"math"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

type nodePair struct {
	from NodeID
	to   NodeID
}

// ContractionGraph converts road graph into contraction hierarchies graph.
// Vertex labels are NodeIDs and weights are edge times in hours. Parallel edges keep the fastest one.
// Call PrepareContractionHierarchies on the result before querying it.
func ContractionGraph(graph *RoadGraph, meter RouteMeter) (*ch.Graph, error) {
	chGraph := ch.Graph{}
	for _, node := range graph.Nodes() {
		err := chGraph.CreateVertex(int64(node.ID))
		if err != nil {
			return nil, errors.Wrapf(err, "Can not create vertex %d", node.ID)
		}
	}
	weights := make(map[nodePair]float64)
	order := make([]nodePair, 0, graph.EdgeCount())
	for _, edge := range graph.Edges() {
		if edge.sourceNodeID == edge.targetNodeID {
			continue
		}
		weight := meter.EdgeTime(edge)
		if !(weight >= 0) || math.IsInf(weight, 1) {
			continue
		}
		pair := nodePair{from: edge.sourceNodeID, to: edge.targetNodeID}
		current, ok := weights[pair]
		if !ok {
			order = append(order, pair)
			weights[pair] = weight
			continue
		}
		if weight < current {
			weights[pair] = weight
		}
	}
	for _, pair := range order {
		err := chGraph.AddEdge(int64(pair.from), int64(pair.to), weights[pair])
		if err != nil {
			return nil, errors.Wrapf(err, "Can not wrap vertices %d and %d as edge", pair.from, pair.to)
		}
	}
	return &chGraph, nil
}
