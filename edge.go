package trafsim

import (
	"fmt"
)

type EdgeID int64

// Edge is a directed road segment. Geometry runs from source to target.
type Edge struct {
	geom         []Point
	indicators   EdgeIndicators
	ID           EdgeID
	sourceNodeID NodeID
	targetNodeID NodeID
	linked       bool
	// Speed in km/h
	Speed float64
	Lanes int
	// Delay is a fixed penalty in seconds (traffic lights, stops)
	Delay float64
}

// Geometry returns polyline of the edge. Callers must not modify it; use RoadGraph.SetEdgeGeometry.
func (edge *Edge) Geometry() []Point {
	return edge.geom
}

// Length returns polyline length in meters
func (edge *Edge) Length() float64 {
	return getLength(edge.geom)
}

// IsLinked returns true while the edge is part of a graph
func (edge *Edge) IsLinked() bool {
	return edge.linked
}

// SourceNodeID returns junction at the first vertex. Meaningful only while linked.
func (edge *Edge) SourceNodeID() NodeID {
	return edge.sourceNodeID
}

// TargetNodeID returns junction at the last vertex. Meaningful only while linked.
func (edge *Edge) TargetNodeID() NodeID {
	return edge.targetNodeID
}

// Indicators returns accumulator of the last routing pass
func (edge *Edge) Indicators() *EdgeIndicators {
	return &edge.indicators
}

func (edge *Edge) firstVertex() Point {
	return edge.geom[0]
}

func (edge *Edge) lastVertex() Point {
	return edge.geom[len(edge.geom)-1]
}

func (edge *Edge) String() string {
	if !edge.linked {
		return fmt.Sprintf("Edge(%d, unlinked)", edge.ID)
	}
	return fmt.Sprintf("Edge(%d, source: %d, target: %d)", edge.ID, edge.sourceNodeID, edge.targetNodeID)
}
