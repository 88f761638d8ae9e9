package trafsim

import (
	"math"
)

// findDistance returns planar distance between two points (elevation is ignored)
func findDistance(p, q Point) float64 {
	xdistance := p.X - q.X
	ydistance := p.Y - q.Y
	return math.Sqrt(xdistance*xdistance + ydistance*ydistance)
}

// getLength returns length for given line (meters, elevation included)
func getLength(line []Point) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += line[i-1].Distance(line[i])
	}
	return totalLength
}

// pointOnSegmentByFraction returns a point on given segment using fraction of its length
func pointOnSegmentByFraction(p, q Point, fraction float64) Point {
	return Point{
		X: (1-fraction)*p.X + (fraction * q.X),
		Y: (1-fraction)*p.Y + (fraction * q.Y),
		Z: (1-fraction)*p.Z + (fraction * q.Z),
	}
}

// projectOnSegment returns the point of segment [p, q] closest to pt and the planar distance to it.
// Projections falling outside of the segment are clamped to the nearest end.
func projectOnSegment(pt, p, q Point) (Point, float64) {
	vx := q.X - p.X
	vy := q.Y - p.Y
	segLenSquared := vx*vx + vy*vy
	if segLenSquared == 0 {
		return p, findDistance(pt, p)
	}
	t := ((pt.X-p.X)*vx + (pt.Y-p.Y)*vy) / segLenSquared
	if t <= 0 {
		return p, findDistance(pt, p)
	}
	if t >= 1 {
		return q, findDistance(pt, q)
	}
	onSegment := pointOnSegmentByFraction(p, q, t)
	return onSegment, findDistance(pt, onSegment)
}

// reverseLine reverses order of points in given line. Returns new slice
func reverseLine(pts []Point) []Point {
	inputLen := len(pts)
	output := make([]Point, inputLen)
	for i, n := range pts {
		j := inputLen - i - 1
		output[j] = n
	}
	return output
}

// copyLine returns copy of given line
func copyLine(pts []Point) []Point {
	output := make([]Point, len(pts))
	copy(output, pts)
	return output
}

// reverseLineInPlace reverses order of points in given line
func reverseLineInPlace(pts []Point) {
	inputLen := len(pts)
	inputMid := inputLen / 2
	for i := 0; i < inputMid; i++ {
		j := inputLen - i - 1
		pts[i], pts[j] = pts[j], pts[i]
	}
}
