package trafsim

import (
	"math"
	"testing"
)

func TestGetLength(t *testing.T) {
	line := []Point{
		{X: 0, Y: 0},
		{X: 3, Y: 4},
		{X: 3, Y: 10},
	}
	res := 11.0
	length := getLength(line)
	if math.Abs(length-res) > 1e-9 {
		t.Errorf("Length must be %f, but got %f", res, length)
	}
	if getLength(line[:1]) != 0 {
		t.Errorf("Single point line must have zero length")
	}
}

func TestProjectOnSegment(t *testing.T) {
	p := Point{X: 0, Y: 0}
	q := Point{X: 10, Y: 0}
	cases := []struct {
		pt       Point
		onEdge   Point
		distance float64
	}{
		{pt: Point{X: 4, Y: 3}, onEdge: Point{X: 4, Y: 0}, distance: 3},
		{pt: Point{X: -3, Y: 4}, onEdge: p, distance: 5},
		{pt: Point{X: 13, Y: -4}, onEdge: q, distance: 5},
		{pt: Point{X: 10, Y: 0}, onEdge: q, distance: 0},
	}
	for i, c := range cases {
		onEdge, distance := projectOnSegment(c.pt, p, q)
		if onEdge.Distance(c.onEdge) > 1e-9 {
			t.Errorf("Case #%d: projection must be %v, but got %v", i, c.onEdge, onEdge)
		}
		if math.Abs(distance-c.distance) > 1e-9 {
			t.Errorf("Case #%d: distance must be %f, but got %f", i, c.distance, distance)
		}
	}
	// Degenerate segment
	onEdge, distance := projectOnSegment(Point{X: 3, Y: 4}, p, p)
	if onEdge != p || math.Abs(distance-5) > 1e-9 {
		t.Errorf("Degenerate segment must project onto its point, but got %v (%f)", onEdge, distance)
	}
}

func TestReverseLine(t *testing.T) {
	line := []Point{{X: 1}, {X: 2}, {X: 3}}
	reversed := reverseLine(line)
	for i := range line {
		if reversed[i] != line[len(line)-1-i] {
			t.Errorf("Point #%d must be %v, but got %v", i, line[len(line)-1-i], reversed[i])
		}
	}
	reverseLineInPlace(line)
	for i := range line {
		if reversed[i] != line[i] {
			t.Errorf("In place reverse differs at #%d: %v vs %v", i, reversed[i], line[i])
		}
	}
}

func TestSnap(t *testing.T) {
	cases := []struct {
		pt       Point
		gridSize float64
		res      Point
	}{
		{pt: Point{X: 12.4, Y: 12.6, Z: 0}, gridSize: 1, res: Point{X: 12, Y: 13, Z: 0}},
		{pt: Point{X: 7.5, Y: -7.5, Z: 1}, gridSize: 5, res: Point{X: 10, Y: -5, Z: 0}},
		{pt: Point{X: -0.5, Y: 0.5}, gridSize: 1, res: Point{X: 0, Y: 1}},
	}
	for i, c := range cases {
		snapped := c.pt.Snap(c.gridSize)
		if snapped != c.res {
			t.Errorf("Case #%d: snapped point must be %v, but got %v", i, c.res, snapped)
		}
	}
}
