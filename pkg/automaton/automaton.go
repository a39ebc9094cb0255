// Package automaton builds the immutable Aho-Corasick trie that
// pkg/matcher drives one byte at a time. Construction (this package) and
// streaming traversal (pkg/matcher) are deliberately split: the node
// graph built here is never mutated again, so sharing it across many
// concurrent streaming sessions needs no synchronization, only a fresh
// cursor (see matcher.Session).
package automaton

import "github.com/streamsed/streamsed/pkg/types"

// Automaton is the built, immutable node graph. The zero value is not
// usable; construct with Build.
type Automaton struct {
	nodes   []*node
	needles []types.Needle
}

// Cursor identifies a node by its stable index. It is exported so
// pkg/matcher can hold one as session state without reaching into this
// package's internals.
type Cursor nodeIndex

// Root returns the cursor for the automaton's root node.
func (a *Automaton) Root() Cursor { return Cursor(rootIndex) }

// Step returns, from cur, the child reached by the goto edge labeled b,
// and whether that edge exists.
func (a *Automaton) Step(cur Cursor, b byte) (Cursor, bool) {
	child, ok := a.nodes[nodeIndex(cur)].edges[b]
	return Cursor(child), ok
}

// Failure returns the failure link of the node at cur.
func (a *Automaton) Failure(cur Cursor) Cursor {
	return Cursor(a.nodes[nodeIndex(cur)].fail)
}

// Depth returns a node's depth, i.e. the pending-buffer length implied
// by a cursor resting there.
func (a *Automaton) Depth(cur Cursor) int {
	return a.nodes[nodeIndex(cur)].depth
}

// IsRoot reports whether cur is the root.
func (a *Automaton) IsRoot(cur Cursor) bool {
	return nodeIndex(cur) == rootIndex
}

// MatchAt reports the payload committed by reaching cur, if any.
func (a *Automaton) MatchAt(cur Cursor) (needleIndex, patternLen int, action types.Action, ok bool) {
	p := a.nodes[nodeIndex(cur)].payload
	if p == nil {
		return 0, 0, types.Action{}, false
	}
	return p.needleIndex, p.patternLen, p.action, true
}

// MaxPatternLen returns the length of the longest needle, which bounds
// a streaming session's pending-buffer size.
func (a *Automaton) MaxPatternLen() int {
	max := 0
	for _, n := range a.needles {
		if len(n.Pattern) > max {
			max = len(n.Pattern)
		}
	}
	return max
}

// NeedleCount returns the number of needles the automaton was built
// from, for callers sizing per-needle statistics.
func (a *Automaton) NeedleCount() int {
	return len(a.needles)
}

// Clone returns a new handle sharing this automaton's node storage, no
// deep copy. Since the node graph is never mutated after Build, sharing
// it is always safe.
func (a *Automaton) Clone() *Automaton {
	return &Automaton{nodes: a.nodes, needles: a.needles}
}
