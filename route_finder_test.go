package trafsim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RouteFinderSuite struct {
	suite.Suite
	graph  *RoadGraph
	finder *RouteFinder
	meter  RouteMeter
	ab     *Edge
	bc     *Edge
	ac     *Edge
	da     *Edge
}

// SetupTest builds D -> A -> B -> C with a slow detour A -> C
func (s *RouteFinderSuite) SetupTest() {
	s.graph = NewRoadGraph()
	s.da = s.graph.NewEdge([]Point{{X: -1000}, {X: 0}}, 60, 1, 0)
	s.ab = s.graph.NewEdge([]Point{{X: 0}, {X: 1000}}, 60, 1, 0)
	s.bc = s.graph.NewEdge([]Point{{X: 1000}, {X: 2000}}, 60, 1, 0)
	s.ac = s.graph.NewEdge([]Point{{X: 0}, {X: 1000, Y: 1000}, {X: 2000}}, 10, 1, 0)
	for _, edge := range []*Edge{s.da, s.ab, s.bc, s.ac} {
		s.graph.AddEdge(edge)
	}
	s.finder = NewRouteFinder(s.graph, s.meter)
}

func (s *RouteFinderSuite) nodeAt(pt Point) NodeID {
	node, ok := s.graph.NodeAt(pt)
	s.Require().True(ok)
	return node.ID
}

func (s *RouteFinderSuite) TestShortestTimes() {
	s.Require().True(s.finder.SetOriginNode(s.nodeAt(Point{X: 0})))
	s.InDelta(0.0, s.finder.TimeTo(s.nodeAt(Point{X: 0})), 1e-12)
	s.InDelta(1.0/60, s.finder.TimeTo(s.nodeAt(Point{X: 1000})), 1e-12)
	s.InDelta(2.0/60, s.finder.TimeTo(s.nodeAt(Point{X: 2000})), 1e-12)
	s.True(math.IsInf(s.finder.TimeTo(s.nodeAt(Point{X: -1000})), 1))
	s.True(math.IsInf(s.finder.TimeTo(NodeID(1000)), 1))
}

func (s *RouteFinderSuite) TestNodeRoute() {
	s.Require().True(s.finder.SetOriginNode(s.nodeAt(Point{X: 0})))
	s.Require().True(s.finder.SetDestinationNode(s.nodeAt(Point{X: 2000})))
	route := s.finder.Route()
	s.Require().NotNil(route)
	s.Require().Len(route.Sections(), 2)
	s.Equal(s.ab, route.Sections()[0].Edge())
	s.Equal(s.bc, route.Sections()[1].Edge())
	s.InDelta(2.0/60, s.meter.RouteTime(route), 1e-12)
	s.InDelta(2000, route.Length(), 1e-9)
}

func (s *RouteFinderSuite) TestUnreachable() {
	s.Require().True(s.finder.SetOriginNode(s.nodeAt(Point{X: 0})))
	s.Require().True(s.finder.SetDestinationNode(s.nodeAt(Point{X: -1000})))
	route := s.finder.Route()
	s.Require().NotNil(route)
	s.True(route.IsEmpty())
	s.True(math.IsInf(s.meter.RouteTime(route), 1))
}

func (s *RouteFinderSuite) TestImpassableEdge() {
	s.bc.Speed = 0
	s.Require().True(s.finder.SetOriginNode(s.nodeAt(Point{X: 0})))
	s.Require().True(s.finder.SetDestinationNode(s.nodeAt(Point{X: 2000})))
	route := s.finder.Route()
	s.Require().Len(route.Sections(), 1)
	s.Equal(s.ac, route.Sections()[0].Edge())
	s.InDelta(2*math.Sqrt2*1000/10000, s.finder.TimeTo(s.nodeAt(Point{X: 2000})), 1e-9)
}

func (s *RouteFinderSuite) TestPointRoute() {
	s.Require().True(s.finder.SetOrigin(Point{X: 250, Y: 10}, 50))
	s.Require().True(s.finder.SetDestination(Point{X: 1500, Y: -10}, 50))
	origin, ok := s.finder.Origin()
	s.True(ok)
	s.Equal(Point{X: 250}, origin)

	route := s.finder.Route()
	s.Require().Len(route.Sections(), 2)
	s.Equal([]Point{{X: 250}, {X: 1000}, {X: 1500}}, route.Geometry())
	s.InDelta(1250, route.Length(), 1e-9)
}

func (s *RouteFinderSuite) TestSameEdgeForward() {
	s.Require().True(s.finder.SetOrigin(Point{X: 200, Y: 5}, 50))
	s.Require().True(s.finder.SetDestination(Point{X: 800, Y: 5}, 50))
	route := s.finder.Route()
	s.Require().Len(route.Sections(), 1)
	s.Equal(s.ab, route.Sections()[0].Edge())
	s.Equal([]Point{{X: 200}, {X: 800}}, route.Geometry())
	s.InDelta(600, route.Length(), 1e-9)
}

func (s *RouteFinderSuite) TestSameEdgeBackward() {
	// Nothing leads back to A once B is reached
	s.Require().True(s.finder.SetOrigin(Point{X: 800, Y: 5}, 50))
	s.Require().True(s.finder.SetDestination(Point{X: 200, Y: 5}, 50))
	route := s.finder.Route()
	s.Require().NotNil(route)
	s.True(route.IsEmpty())
}

func (s *RouteFinderSuite) TestSameEdgeBackwardWithLoop() {
	back := s.graph.NewEdge([]Point{{X: 1000}, {X: 500, Y: -500}, {X: 0}}, 60, 1, 0)
	s.graph.AddEdge(back)
	s.Require().True(s.finder.SetOrigin(Point{X: 800, Y: 5}, 50))
	s.Require().True(s.finder.SetDestination(Point{X: 200, Y: 5}, 50))
	route := s.finder.Route()
	s.Require().Len(route.Sections(), 3)
	s.Equal(s.ab, route.Sections()[0].Edge())
	s.Equal(back, route.Sections()[1].Edge())
	s.Equal(s.ab, route.Sections()[2].Edge())
}

func (s *RouteFinderSuite) TestStates() {
	s.Equal(FINDER_IDLE, s.finder.State())
	s.Nil(s.finder.Route())

	s.False(s.finder.SetOrigin(Point{X: 500, Y: 5000}, 10))
	s.Equal(FINDER_IDLE, s.finder.State())

	s.Require().True(s.finder.SetOrigin(Point{X: 500}, 10))
	s.Equal(FINDER_ORIGIN_SET, s.finder.State())
	s.Nil(s.finder.Route())

	s.Require().True(s.finder.SetDestination(Point{X: 1500}, 10))
	s.Equal(FINDER_DESTINATION_SET, s.finder.State())
	s.Equal("destination_set", s.finder.State().String())

	s.False(s.finder.SetDestinationNode(NodeID(1000)))
	s.Equal(FINDER_ORIGIN_SET, s.finder.State())

	s.finder.Clear()
	s.Equal(FINDER_IDLE, s.finder.State())
	_, ok := s.finder.Origin()
	s.False(ok)
}

func TestRouteFinderSuite(t *testing.T) {
	suite.Run(t, new(RouteFinderSuite))
}

func TestFindNearestEdge(t *testing.T) {
	graph := NewRoadGraph()
	first := graph.NewEdge([]Point{{X: 0}, {X: 100}}, 50, 1, 0)
	second := graph.NewEdge([]Point{{X: 100}, {X: 0}}, 50, 1, 0)
	graph.AddEdge(first)
	graph.AddEdge(second)

	pick, ok := FindNearestEdge(graph, Point{X: 40, Y: 3}, 5)
	if !ok {
		t.Fatalf("Edge must be found")
	}
	// Equal distances keep the first registered edge
	if pick.Edge != first {
		t.Errorf("Pick must be %v, but got %v", first, pick.Edge)
	}
	if pick.Point != (Point{X: 40}) || pick.Distance != 3 || pick.SegmentIndex != 0 {
		t.Errorf("Unexpected pick %+v", pick)
	}
	if _, ok := FindNearestEdge(graph, Point{X: 40, Y: 30}, 5); ok {
		t.Errorf("Nothing must be found outside of tolerance")
	}
	if _, ok := FindNearestEdge(NewRoadGraph(), Point{}, math.Inf(1)); ok {
		t.Errorf("Nothing must be found in empty graph")
	}
}
