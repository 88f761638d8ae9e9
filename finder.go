package trafsim

import (
	"math"
)

// Pick describes the edge found near a query point
type Pick struct {
	Edge *Edge
	// Point is the projection of the query point onto the edge
	Point Point
	// SegmentIndex is the index of the polyline segment holding Point
	SegmentIndex int
	// Distance between query point and Point (planar)
	Distance float64
}

// FindNearestEdge returns the edge closest to pt within tolerance.
// Edges are scanned in registration order and only a strictly closer candidate replaces the current one.
func FindNearestEdge(graph *RoadGraph, pt Point, tolerance float64) (Pick, bool) {
	best := Pick{
		Distance: math.Inf(1),
	}
	for _, edge := range graph.edges {
		if edge == nil {
			continue
		}
		for i := 0; i < len(edge.geom)-1; i++ {
			onEdge, distance := projectOnSegment(pt, edge.geom[i], edge.geom[i+1])
			if distance <= tolerance && distance < best.Distance {
				best.Edge = edge
				best.Point = onEdge
				best.SegmentIndex = i
				best.Distance = distance
			}
		}
	}
	return best, best.Edge != nil
}
