package trafsim

import (
	"fmt"
)

type NodeID int64

// Node is a junction. It exists only while at least one edge starts or ends at its position.
type Node struct {
	incomingEdges []EdgeID
	outgoingEdges []EdgeID
	key           nodeKey
	position      Point
	ID            NodeID
}

// Position returns rounded position of the junction
func (node *Node) Position() Point {
	return node.position
}

// InEdges returns copy of identifiers of edges ending at the node, in link order
func (node *Node) InEdges() []EdgeID {
	return copyEdgeIDs(node.incomingEdges)
}

// OutEdges returns copy of identifiers of edges starting at the node, in link order
func (node *Node) OutEdges() []EdgeID {
	return copyEdgeIDs(node.outgoingEdges)
}

// IsIsolated returns true when no edge is attached to the node
func (node *Node) IsIsolated() bool {
	return len(node.incomingEdges) == 0 && len(node.outgoingEdges) == 0
}

func (node *Node) String() string {
	return fmt.Sprintf("Node(%d, %s, in: %d, out: %d)", node.ID, node.position, len(node.incomingEdges), len(node.outgoingEdges))
}

func copyEdgeIDs(ids []EdgeID) []EdgeID {
	cp := make([]EdgeID, len(ids))
	copy(cp, ids)
	return cp
}

func removeEdgeID(ids []EdgeID, id EdgeID) []EdgeID {
	for i := range ids {
		if ids[i] == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func containsEdgeID(ids []EdgeID, id EdgeID) bool {
	for i := range ids {
		if ids[i] == id {
			return true
		}
	}
	return false
}
