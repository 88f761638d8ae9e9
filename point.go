package trafsim

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Point is a position in planar metres. Z is carried along but ignored by snapping.
type Point struct {
	X float64
	Y float64
	Z float64
}

// String returns pretty printed value for Point
func (p Point) String() string {
	return fmt.Sprintf("X: %f | Y: %f | Z: %f", p.X, p.Y, p.Z)
}

// Distance returns euclidean 3D distance between two points
func (p Point) Distance(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Snap returns point rounded to the nearest multiple of gridSize on every axis
func (p Point) Snap(gridSize float64) Point {
	return Point{
		X: roundToStep(p.X, gridSize),
		Y: roundToStep(p.Y, gridSize),
		Z: roundToStep(p.Z, gridSize),
	}
}

// Orb returns 2D orb representation of the point
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// PointFromOrb builds Point from orb.Point with zero elevation
func PointFromOrb(pt orb.Point) Point {
	return Point{X: pt[0], Y: pt[1]}
}

// LineToOrb converts polyline to orb.LineString
func LineToOrb(pts []Point) orb.LineString {
	line := make(orb.LineString, len(pts))
	for i := range pts {
		line[i] = pts[i].Orb()
	}
	return line
}

// roundToStep rounds half up like the editor did, so -0.5 goes to 0
func roundToStep(v, step float64) float64 {
	return math.Floor(v/step+0.5) * step
}

// nodeKey is the identity of a junction: endpoint coordinates rounded to graph precision
type nodeKey struct {
	x int64
	y int64
	z int64
}

func keyOf(p Point, precision float64) nodeKey {
	return nodeKey{
		x: int64(math.Floor(p.X/precision + 0.5)),
		y: int64(math.Floor(p.Y/precision + 0.5)),
		z: int64(math.Floor(p.Z/precision + 0.5)),
	}
}

func (k nodeKey) point(precision float64) Point {
	return Point{
		X: float64(k.x) * precision,
		Y: float64(k.y) * precision,
		Z: float64(k.z) * precision,
	}
}
