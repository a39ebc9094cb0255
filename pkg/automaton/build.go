package automaton

import (
	"fmt"

	"github.com/streamsed/streamsed/pkg/types"
)

// Build constructs an immutable Automaton from an ordered needle set.
// An empty needle set is valid and produces the identity transformer.
// Build rejects an empty pattern and rejects a duplicate pattern rather
// than silently overwriting the earlier one.
func Build(needles []types.Needle) (*Automaton, error) {
	nodes := []*node{newNode(0)}

	seen := make(map[string]int) // pattern -> needle index, for duplicate error messages

	for i, needle := range needles {
		if len(needle.Pattern) == 0 {
			return nil, fmt.Errorf("streamsed: empty pattern at needle index %d", i)
		}

		cur := rootIndex
		for _, b := range needle.Pattern {
			child, ok := nodes[cur].edges[b]
			if !ok {
				child = nodeIndex(len(nodes))
				nodes = append(nodes, newNode(nodes[cur].depth+1))
				nodes[cur].edges[b] = child
			}
			cur = child
		}

		if nodes[cur].payload != nil {
			if prev, ok := seen[string(needle.Pattern)]; ok {
				return nil, fmt.Errorf("streamsed: duplicate pattern %q at needle indices %d and %d", needle.Pattern, prev, i)
			}
			return nil, fmt.Errorf("streamsed: duplicate pattern %q at needle index %d", needle.Pattern, i)
		}

		nodes[cur].payload = &payload{
			needleIndex: i,
			patternLen:  len(needle.Pattern),
			action:      needle.Action,
		}
		seen[string(needle.Pattern)] = i
	}

	computeFailureLinks(nodes)

	a := &Automaton{
		nodes:   nodes,
		needles: append([]types.Needle(nil), needles...),
	}
	return a, nil
}
