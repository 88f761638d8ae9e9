package trafsim

import (
	"container/heap"
	"math"
)

type FinderState uint16

const (
	FINDER_IDLE = FinderState(iota + 1)
	FINDER_ORIGIN_SET
	FINDER_DESTINATION_SET
)

func (iotaIdx FinderState) String() string {
	return [...]string{"idle", "origin_set", "destination_set"}[iotaIdx-1]
}

// nodeInfo is the state of a junction in the shortest time tree
type nodeInfo struct {
	time     float64
	previous *Edge
}

// RouteFinder computes least time routes from a single origin.
// Setting the origin builds the whole shortest time tree, so any number of destinations can be queried cheaply.
type RouteFinder struct {
	graph             *RoadGraph
	meter             RouteMeter
	infos             map[NodeID]*nodeInfo
	startPick         *Pick
	endPick           *Pick
	originNodeID      NodeID
	destinationNodeID NodeID
}

func NewRouteFinder(graph *RoadGraph, meter RouteMeter) *RouteFinder {
	return &RouteFinder{
		graph: graph,
		meter: meter,
		infos: make(map[NodeID]*nodeInfo),
	}
}

// SetOrigin snaps pt to the nearest edge within tolerance and computes the tree from the end of that edge.
// Returns false (and the finder becomes idle) when no edge is close enough.
func (finder *RouteFinder) SetOrigin(pt Point, tolerance float64) bool {
	finder.startPick = nil
	finder.originNodeID = 0
	pick, ok := FindNearestEdge(finder.graph, pt, tolerance)
	if !ok {
		finder.infos = make(map[NodeID]*nodeInfo)
		return false
	}
	finder.startPick = &pick
	finder.findRoutesFrom(pick.Edge.targetNodeID)
	return true
}

// SetOriginNode computes the tree from given junction
func (finder *RouteFinder) SetOriginNode(id NodeID) bool {
	finder.startPick = nil
	finder.originNodeID = 0
	if _, ok := finder.graph.nodes[id]; !ok {
		finder.infos = make(map[NodeID]*nodeInfo)
		return false
	}
	finder.findRoutesFrom(id)
	return true
}

// SetDestination snaps pt to the nearest edge within tolerance. The route has to reach the start of that edge.
func (finder *RouteFinder) SetDestination(pt Point, tolerance float64) bool {
	finder.endPick = nil
	finder.destinationNodeID = 0
	pick, ok := FindNearestEdge(finder.graph, pt, tolerance)
	if !ok {
		return false
	}
	finder.endPick = &pick
	finder.destinationNodeID = pick.Edge.sourceNodeID
	return true
}

// SetDestinationNode sets destination junction directly
func (finder *RouteFinder) SetDestinationNode(id NodeID) bool {
	finder.endPick = nil
	finder.destinationNodeID = 0
	if _, ok := finder.graph.nodes[id]; !ok {
		return false
	}
	finder.destinationNodeID = id
	return true
}

// Clear forgets origin and destination
func (finder *RouteFinder) Clear() {
	finder.startPick = nil
	finder.endPick = nil
	finder.originNodeID = 0
	finder.destinationNodeID = 0
}

func (finder *RouteFinder) State() FinderState {
	if finder.originNodeID == 0 {
		return FINDER_IDLE
	}
	if finder.destinationNodeID == 0 {
		return FINDER_ORIGIN_SET
	}
	return FINDER_DESTINATION_SET
}

func (finder *RouteFinder) OriginNodeID() NodeID {
	return finder.originNodeID
}

func (finder *RouteFinder) DestinationNodeID() NodeID {
	return finder.destinationNodeID
}

// Origin returns snapped origin point, or origin junction position
func (finder *RouteFinder) Origin() (Point, bool) {
	if finder.startPick != nil {
		return finder.startPick.Point, true
	}
	if node, ok := finder.graph.nodes[finder.originNodeID]; ok {
		return node.position, true
	}
	return Point{}, false
}

// Destination returns snapped destination point, or destination junction position
func (finder *RouteFinder) Destination() (Point, bool) {
	if finder.endPick != nil {
		return finder.endPick.Point, true
	}
	if node, ok := finder.graph.nodes[finder.destinationNodeID]; ok {
		return node.position, true
	}
	return Point{}, false
}

// TimeTo returns hours from origin junction to given junction, +Inf when unreachable
func (finder *RouteFinder) TimeTo(id NodeID) float64 {
	if info, ok := finder.infos[id]; ok {
		return info.time
	}
	return math.Inf(1)
}

// Route returns nil until both origin and destination are set.
// An unreachable destination gives an empty route.
func (finder *RouteFinder) Route() *Route {
	if finder.originNodeID == 0 || finder.destinationNodeID == 0 {
		return nil
	}
	route := NewRoute()
	if finder.isRouteInFirstEdge() && finder.isForwardRoute() {
		route.AddPartialSection(
			finder.startPick.Edge,
			finder.startPick.Point,
			finder.startPick.SegmentIndex,
			finder.endPick.Point,
			finder.endPick.SegmentIndex,
		)
		return route
	}
	info, ok := finder.infos[finder.destinationNodeID]
	if !ok || math.IsInf(info.time, 1) {
		return route
	}
	if finder.startPick != nil {
		route.AddInitialSection(finder.startPick.Edge, finder.startPick.Point, finder.startPick.SegmentIndex)
	}
	reversedEdges := make([]*Edge, 0)
	for info != nil && info.previous != nil && len(reversedEdges) <= len(finder.infos) {
		reversedEdges = append(reversedEdges, info.previous)
		info = finder.infos[info.previous.sourceNodeID]
	}
	for i := len(reversedEdges) - 1; i >= 0; i-- {
		route.AddSection(reversedEdges[i])
	}
	if finder.endPick != nil {
		route.AddEndingSection(finder.endPick.Edge, finder.endPick.Point, finder.endPick.SegmentIndex)
	}
	return route
}

func (finder *RouteFinder) isRouteInFirstEdge() bool {
	return finder.startPick != nil && finder.endPick != nil && finder.startPick.Edge == finder.endPick.Edge
}

// isForwardRoute tells whether destination lies after origin on the shared edge
func (finder *RouteFinder) isForwardRoute() bool {
	start := finder.startPick
	end := finder.endPick
	if start.SegmentIndex < end.SegmentIndex {
		return true
	}
	if start.SegmentIndex == end.SegmentIndex {
		segmentStart := start.Edge.geom[start.SegmentIndex]
		return segmentStart.Distance(start.Point) < segmentStart.Distance(end.Point)
	}
	return false
}

// findRoutesFrom builds shortest time tree rooted at origin junction
func (finder *RouteFinder) findRoutesFrom(originID NodeID) {
	finder.originNodeID = originID
	finder.infos = make(map[NodeID]*nodeInfo, len(finder.graph.nodes))
	for id := range finder.graph.nodes {
		finder.infos[id] = &nodeInfo{
			time: math.Inf(1),
		}
	}
	finder.infos[originID].time = 0

	settled := make(map[NodeID]bool, len(finder.graph.nodes))
	pq := make(nodeQueue, 0, len(finder.graph.nodes))
	heap.Init(&pq)
	seq := int64(0)
	heap.Push(&pq, &queueItem{id: originID, time: 0, seq: seq})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*queueItem)
		if settled[item.id] {
			continue
		}
		settled[item.id] = true
		node, ok := finder.graph.nodes[item.id]
		if !ok {
			continue
		}
		current := finder.infos[item.id]
		for _, edgeID := range node.outgoingEdges {
			edge, ok := finder.graph.edgeAt(edgeID)
			if !ok {
				continue
			}
			weight := finder.meter.EdgeTime(edge)
			// Non-positive speeds give infinite or undefined times: such edges can't be traversed
			if !(weight >= 0) || math.IsInf(weight, 1) {
				continue
			}
			next, ok := finder.infos[edge.targetNodeID]
			if !ok {
				continue
			}
			time := current.time + weight
			if time < next.time {
				next.time = time
				next.previous = edge
				seq++
				heap.Push(&pq, &queueItem{id: edge.targetNodeID, time: time, seq: seq})
			}
		}
	}
}

type queueItem struct {
	id   NodeID
	time float64
	seq  int64
}

// nodeQueue is a min-heap ordered by time. Equal times pop in push order.
type nodeQueue []*queueItem

func (pq nodeQueue) Len() int { return len(pq) }

func (pq nodeQueue) Less(i, j int) bool {
	if pq[i].time == pq[j].time {
		return pq[i].seq < pq[j].seq
	}
	return pq[i].time < pq[j].time
}

func (pq nodeQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodeQueue) Push(x interface{}) { *pq = append(*pq, x.(*queueItem)) }

func (pq *nodeQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
