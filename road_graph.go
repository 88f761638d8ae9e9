package trafsim

import (
	"sort"

	"github.com/pkg/errors"
)

const (
	// DEFAULT_PRECISION is the rounding step (meters) which decides whether two endpoints are the same junction
	DEFAULT_PRECISION = 0.001
)

// RoadGraph owns nodes and edges of the directed road network.
// Junction identity is derived from rounded endpoint coincidence only.
// It is not safe for concurrent use: editing and routing must be serialized by the host.
type RoadGraph struct {
	nodes      map[NodeID]*Node
	nodeIndex  map[nodeKey]NodeID
	edges      []*Edge
	edgeIndex  map[EdgeID]int
	holes      int
	precision  float64
	nextNodeID NodeID
	nextEdgeID EdgeID
}

// NewRoadGraph returns empty graph
func NewRoadGraph(options ...func(*RoadGraph)) *RoadGraph {
	graph := &RoadGraph{
		nodes:     make(map[NodeID]*Node),
		nodeIndex: make(map[nodeKey]NodeID),
		edges:     make([]*Edge, 0),
		edgeIndex: make(map[EdgeID]int),
		precision: DEFAULT_PRECISION,
	}
	for _, option := range options {
		option(graph)
	}
	return graph
}

// WithPrecision sets node rounding step. Non-positive values are ignored.
func WithPrecision(precision float64) func(*RoadGraph) {
	return func(graph *RoadGraph) {
		if precision > 0 {
			graph.precision = precision
		}
	}
}

// Precision returns node rounding step
func (graph *RoadGraph) Precision() float64 {
	return graph.precision
}

// NewEdge allocates an unlinked edge. Geometry is copied.
func (graph *RoadGraph) NewEdge(geom []Point, speed float64, lanes int, delay float64) *Edge {
	graph.nextEdgeID++
	return &Edge{
		ID:    graph.nextEdgeID,
		geom:  copyLine(geom),
		Speed: speed,
		Lanes: lanes,
		Delay: delay,
	}
}

// AddEdge links edge into the graph creating junctions as needed.
// Does nothing for nil, already linked or degenerate (less than 2 vertices) edges.
func (graph *RoadGraph) AddEdge(edge *Edge) {
	if edge == nil || edge.linked || len(edge.geom) < 2 {
		return
	}
	if other, ok := graph.edgeAt(edge.ID); ok && other != edge {
		// Edge was created by another graph
		graph.nextEdgeID++
		edge.ID = graph.nextEdgeID
	}
	if edge.ID > graph.nextEdgeID {
		graph.nextEdgeID = edge.ID
	}
	graph.linkNodes(edge)
	graph.edgeIndex[edge.ID] = len(graph.edges)
	graph.edges = append(graph.edges, edge)
}

// RemoveEdge detaches edge from its junctions. Junctions left without edges are deleted.
func (graph *RoadGraph) RemoveEdge(edge *Edge) {
	if !graph.owns(edge) {
		return
	}
	idx := graph.edgeIndex[edge.ID]
	graph.unlinkNodes(edge)
	delete(graph.edgeIndex, edge.ID)
	graph.edges[idx] = nil
	graph.holes++
	if graph.holes > len(graph.edges)/2 {
		graph.compact()
	}
}

// ReverseEdge swaps direction of the edge. Edges linked into another graph are left untouched.
func (graph *RoadGraph) ReverseEdge(edge *Edge) {
	if edge == nil {
		return
	}
	if !edge.linked {
		reverseLineInPlace(edge.geom)
		return
	}
	if !graph.owns(edge) {
		return
	}
	graph.unlinkNodes(edge)
	reverseLineInPlace(edge.geom)
	graph.linkNodes(edge)
}

// SetEdgeGeometry replaces polyline of the edge keeping topology consistent.
// A linked edge which becomes degenerate is removed from the graph.
// Edges linked into another graph are left untouched.
func (graph *RoadGraph) SetEdgeGeometry(edge *Edge, geom []Point) {
	if edge == nil {
		return
	}
	if !edge.linked {
		edge.geom = copyLine(geom)
		return
	}
	if !graph.owns(edge) {
		return
	}
	if len(geom) < 2 {
		graph.RemoveEdge(edge)
		edge.geom = copyLine(geom)
		return
	}
	graph.unlinkNodes(edge)
	edge.geom = copyLine(geom)
	graph.linkNodes(edge)
}

// TransformEdge applies affine transformation to every vertex of the edge
func (graph *RoadGraph) TransformEdge(edge *Edge, m Matrix) {
	if edge == nil || (edge.linked && !graph.owns(edge)) {
		return
	}
	geom := make([]Point, len(edge.geom))
	for i := range edge.geom {
		geom[i] = m.Apply(edge.geom[i])
	}
	graph.SetEdgeGeometry(edge, geom)
}

// SnapToGrid rounds every edge endpoint to the nearest multiple of gridSize and rebuilds all junctions.
// Edges whose endpoints collapse into a single junction are dropped.
func (graph *RoadGraph) SnapToGrid(gridSize float64) {
	if gridSize <= 0 {
		return
	}
	edges := graph.Edges()
	graph.reset()
	for _, edge := range edges {
		edge.linked = false
		last := len(edge.geom) - 1
		edge.geom[0] = edge.geom[0].Snap(gridSize)
		edge.geom[last] = edge.geom[last].Snap(gridSize)
		if keyOf(edge.geom[0], graph.precision) == keyOf(edge.geom[last], graph.precision) {
			continue
		}
		graph.AddEdge(edge)
	}
}

// Clear unlinks every edge and drops all junctions
func (graph *RoadGraph) Clear() {
	for _, edge := range graph.edges {
		if edge != nil {
			edge.linked = false
		}
	}
	graph.reset()
}

// Edges returns linked edges in registration order
func (graph *RoadGraph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(graph.edges)-graph.holes)
	for _, edge := range graph.edges {
		if edge != nil {
			edges = append(edges, edge)
		}
	}
	return edges
}

// Nodes returns junctions sorted by identifier
func (graph *RoadGraph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(graph.nodes))
	for _, node := range graph.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

func (graph *RoadGraph) NodeCount() int {
	return len(graph.nodes)
}

func (graph *RoadGraph) EdgeCount() int {
	return len(graph.edgeIndex)
}

func (graph *RoadGraph) Node(id NodeID) (*Node, bool) {
	node, ok := graph.nodes[id]
	return node, ok
}

func (graph *RoadGraph) Edge(id EdgeID) (*Edge, bool) {
	return graph.edgeAt(id)
}

// NodeAt returns junction located at given position (after rounding)
func (graph *RoadGraph) NodeAt(pt Point) (*Node, bool) {
	id, ok := graph.nodeIndex[keyOf(pt, graph.precision)]
	if !ok {
		return nil, false
	}
	return graph.nodes[id], true
}

// Source returns junction at the first vertex of a linked edge
func (graph *RoadGraph) Source(edge *Edge) *Node {
	if edge == nil || !edge.linked {
		return nil
	}
	return graph.nodes[edge.sourceNodeID]
}

// Target returns junction at the last vertex of a linked edge
func (graph *RoadGraph) Target(edge *Edge) *Node {
	if edge == nil || !edge.linked {
		return nil
	}
	return graph.nodes[edge.targetNodeID]
}

// OutEdges returns edges starting at given junction
func (graph *RoadGraph) OutEdges(node *Node) []*Edge {
	return graph.resolveEdges(node.outgoingEdges)
}

// InEdges returns edges ending at given junction
func (graph *RoadGraph) InEdges(node *Node) []*Edge {
	return graph.resolveEdges(node.incomingEdges)
}

// IsConnected returns true if some edge goes directly from one junction to another
func (graph *RoadGraph) IsConnected(from, to NodeID) bool {
	node, ok := graph.nodes[from]
	if !ok {
		return false
	}
	for _, id := range node.outgoingEdges {
		if edge, ok := graph.edgeAt(id); ok && edge.targetNodeID == to {
			return true
		}
	}
	return false
}

// Name implements Layer
func (graph *RoadGraph) Name() string {
	return "RoadGraph"
}

// Add implements Layer
func (graph *RoadGraph) Add(feature Feature) error {
	edge, ok := feature.(*Edge)
	if !ok {
		return errors.Wrapf(ErrFeatureKind, "%s can't hold %T", graph.Name(), feature)
	}
	graph.AddEdge(edge)
	return nil
}

// Remove implements Layer
func (graph *RoadGraph) Remove(feature Feature) error {
	edge, ok := feature.(*Edge)
	if !ok {
		return errors.Wrapf(ErrFeatureKind, "%s can't hold %T", graph.Name(), feature)
	}
	graph.RemoveEdge(edge)
	return nil
}

// Transform implements Layer
func (graph *RoadGraph) Transform(feature Feature, m Matrix) error {
	edge, ok := feature.(*Edge)
	if !ok {
		return errors.Wrapf(ErrFeatureKind, "%s can't hold %T", graph.Name(), feature)
	}
	graph.TransformEdge(edge, m)
	return nil
}

// Features implements Layer
func (graph *RoadGraph) Features() []Feature {
	edges := graph.Edges()
	features := make([]Feature, len(edges))
	for i := range edges {
		features[i] = edges[i]
	}
	return features
}

// owns returns true when the edge is linked into this very graph
func (graph *RoadGraph) owns(edge *Edge) bool {
	if edge == nil || !edge.linked {
		return false
	}
	idx, ok := graph.edgeIndex[edge.ID]
	return ok && graph.edges[idx] == edge
}

func (graph *RoadGraph) edgeAt(id EdgeID) (*Edge, bool) {
	idx, ok := graph.edgeIndex[id]
	if !ok {
		return nil, false
	}
	return graph.edges[idx], true
}

func (graph *RoadGraph) resolveEdges(ids []EdgeID) []*Edge {
	edges := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if edge, ok := graph.edgeAt(id); ok {
			edges = append(edges, edge)
		}
	}
	return edges
}

// nodeAt returns junction for given position creating it when it is missing
func (graph *RoadGraph) nodeAt(pt Point) *Node {
	key := keyOf(pt, graph.precision)
	if id, ok := graph.nodeIndex[key]; ok {
		return graph.nodes[id]
	}
	graph.nextNodeID++
	node := &Node{
		incomingEdges: make([]EdgeID, 0, 1),
		outgoingEdges: make([]EdgeID, 0, 1),
		key:           key,
		position:      key.point(graph.precision),
		ID:            graph.nextNodeID,
	}
	graph.nodes[node.ID] = node
	graph.nodeIndex[key] = node.ID
	return node
}

func (graph *RoadGraph) linkNodes(edge *Edge) {
	source := graph.nodeAt(edge.firstVertex())
	if !containsEdgeID(source.outgoingEdges, edge.ID) {
		source.outgoingEdges = append(source.outgoingEdges, edge.ID)
	}
	target := graph.nodeAt(edge.lastVertex())
	if !containsEdgeID(target.incomingEdges, edge.ID) {
		target.incomingEdges = append(target.incomingEdges, edge.ID)
	}
	edge.sourceNodeID = source.ID
	edge.targetNodeID = target.ID
	edge.linked = true
}

func (graph *RoadGraph) unlinkNodes(edge *Edge) {
	if source, ok := graph.nodes[edge.sourceNodeID]; ok {
		source.outgoingEdges = removeEdgeID(source.outgoingEdges, edge.ID)
		graph.dropIfIsolated(source)
	}
	if target, ok := graph.nodes[edge.targetNodeID]; ok {
		target.incomingEdges = removeEdgeID(target.incomingEdges, edge.ID)
		graph.dropIfIsolated(target)
	}
	edge.sourceNodeID = 0
	edge.targetNodeID = 0
	edge.linked = false
}

func (graph *RoadGraph) dropIfIsolated(node *Node) {
	if !node.IsIsolated() {
		return
	}
	delete(graph.nodes, node.ID)
	delete(graph.nodeIndex, node.key)
}

// compact removes holes left by RemoveEdge preserving registration order
func (graph *RoadGraph) compact() {
	edges := graph.Edges()
	graph.edges = edges
	graph.holes = 0
	for i, edge := range edges {
		graph.edgeIndex[edge.ID] = i
	}
}

func (graph *RoadGraph) reset() {
	graph.nodes = make(map[NodeID]*Node)
	graph.nodeIndex = make(map[nodeKey]NodeID)
	graph.edges = make([]*Edge, 0)
	graph.edgeIndex = make(map[EdgeID]int)
	graph.holes = 0
}
