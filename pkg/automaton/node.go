package automaton

import "github.com/streamsed/streamsed/pkg/types"

// nodeIndex is a stable index into Automaton.nodes. The root is always
// index 0. Failure links and goto edges are indices rather than
// pointers so the node graph is trivially shareable across cloned
// automaton handles.
type nodeIndex int

const rootIndex nodeIndex = 0

// payload is attached to a node whose path from the root spells a
// needle exactly.
type payload struct {
	needleIndex int // index into Automaton.needles, for RunStats attribution
	patternLen  int
	action      types.Action
}

// node is one vertex of the trie plus its failure link, computed after
// construction. The edges table is sparse: most bytes have no edge.
type node struct {
	edges   map[byte]nodeIndex
	fail    nodeIndex
	depth   int
	payload *payload
}

func newNode(depth int) *node {
	return &node{
		edges: make(map[byte]nodeIndex),
		depth: depth,
	}
}
