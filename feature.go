package trafsim

import (
	"github.com/pkg/errors"
)

var (
	// ErrFeatureKind is returned when a layer receives a feature it does not store
	ErrFeatureKind = errors.New("feature kind does not match layer")
)

// Feature is anything drawn on the map: edges, locations and vehicle groups
type Feature interface {
	Geometry() []Point
}

// Layer stores features of a single kind and keeps its own invariants on edits
type Layer interface {
	Name() string
	Add(feature Feature) error
	Remove(feature Feature) error
	Transform(feature Feature, m Matrix) error
	Features() []Feature
}

// Matrix is an affine transformation: rows are x, y, z; last column is translation
type Matrix [3][4]float64

// Identity returns transformation which does nothing
func Identity() Matrix {
	return Matrix{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
}

// Translation returns transformation moving points by given offsets
func Translation(dx, dy, dz float64) Matrix {
	m := Identity()
	m[0][3] = dx
	m[1][3] = dy
	m[2][3] = dz
	return m
}

// Scaling returns transformation scaling points around the origin
func Scaling(sx, sy, sz float64) Matrix {
	return Matrix{
		{sx, 0, 0, 0},
		{0, sy, 0, 0},
		{0, 0, sz, 0},
	}
}

// Apply returns transformed point
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}
