package trafsim

import (
	"math"
)

// Section is the part of an edge actually traversed by a route
type Section struct {
	edge *Edge
	geom []Point
}

// Edge returns traversed edge
func (section *Section) Edge() *Edge {
	return section.edge
}

// Geometry returns traversed slice of the edge polyline
func (section *Section) Geometry() []Point {
	return section.geom
}

// Length returns traversed length in meters
func (section *Section) Length() float64 {
	return getLength(section.geom)
}

// Route is an ordered sequence of sections. Consecutive sections share their connecting point.
// Empty route means there is no path.
type Route struct {
	sections []*Section
}

func NewRoute() *Route {
	return &Route{
		sections: make([]*Section, 0),
	}
}

// AddSection appends the whole edge
func (route *Route) AddSection(edge *Edge) *Section {
	return route.appendSection(edge, copyLine(edge.geom))
}

// AddInitialSection appends the part of the edge from point (lying on segment index) to the edge end
func (route *Route) AddInitialSection(edge *Edge, point Point, index int) *Section {
	geom := make([]Point, 0, len(edge.geom)-index)
	geom = append(geom, point)
	geom = append(geom, edge.geom[index+1:]...)
	return route.appendSection(edge, geom)
}

// AddEndingSection appends the part of the edge from its start to point (lying on segment index)
func (route *Route) AddEndingSection(edge *Edge, point Point, index int) *Section {
	geom := make([]Point, 0, index+2)
	geom = append(geom, edge.geom[:index+1]...)
	geom = append(geom, point)
	return route.appendSection(edge, geom)
}

// AddPartialSection appends the part of the edge between two points lying on segments index1 <= index2
func (route *Route) AddPartialSection(edge *Edge, p1 Point, index1 int, p2 Point, index2 int) *Section {
	geom := make([]Point, 0, index2-index1+2)
	geom = append(geom, p1)
	geom = append(geom, edge.geom[index1+1:index2+1]...)
	geom = append(geom, p2)
	return route.appendSection(edge, geom)
}

func (route *Route) appendSection(edge *Edge, geom []Point) *Section {
	section := &Section{
		edge: edge,
		geom: geom,
	}
	route.sections = append(route.sections, section)
	return section
}

func (route *Route) IsEmpty() bool {
	return len(route.sections) == 0
}

func (route *Route) Sections() []*Section {
	return route.sections
}

// Length returns total length in meters, +Inf for empty route
func (route *Route) Length() float64 {
	if route.IsEmpty() {
		return math.Inf(1)
	}
	length := 0.0
	for _, section := range route.sections {
		length += section.Length()
	}
	return length
}

// Origin returns first point of the route
func (route *Route) Origin() (Point, bool) {
	if route.IsEmpty() {
		return Point{}, false
	}
	return route.sections[0].geom[0], true
}

// Destination returns last point of the route
func (route *Route) Destination() (Point, bool) {
	if route.IsEmpty() {
		return Point{}, false
	}
	geom := route.sections[len(route.sections)-1].geom
	return geom[len(geom)-1], true
}

// Geometry returns whole route as a single polyline
func (route *Route) Geometry() []Point {
	geom := make([]Point, 0)
	lastSection := len(route.sections) - 1
	for i, section := range route.sections {
		geom = append(geom, section.geom...)
		if i < lastSection {
			geom = geom[:len(geom)-1]
		}
	}
	return geom
}
