// Package ptree implements the arena-backed prefix tree used to record
// capture histories during TDFA simulation without per-step copying.
package ptree

// Ref is an index into a Tree's arena. The zero value, Nil, denotes "no
// history" — it refers to the tree's root node.
type Ref int32

// Nil is the null marker / root reference.
const Nil Ref = 0

type node struct {
	pred   Ref
	offset int
}

// Tree is a persistent list of nodes; walking predecessors from any Ref back
// to Nil and reversing yields an offset sequence. The whole arena is
// truncated between lex calls — individual nodes are never freed.
type Tree struct {
	nodes []node
}

// New returns a Tree with only the root node (index 0, "no history").
func New() *Tree {
	return &Tree{nodes: []node{{pred: Nil, offset: -1}}}
}

// Reset truncates the arena back to just the root node, for reuse across lex
// calls.
func (t *Tree) Reset() {
	t.nodes = t.nodes[:1]
}

// Append allocates a new node chained onto pred recording offset, and
// returns its Ref.
func (t *Tree) Append(pred Ref, offset int) Ref {
	t.nodes = append(t.nodes, node{pred: pred, offset: offset})
	return Ref(len(t.nodes) - 1)
}

// Offsets walks from ref back to the root, collecting offsets, and returns
// them in forward (recording) order.
func (t *Tree) Offsets(ref Ref) []int {
	var rev []int
	for ref != Nil {
		n := t.nodes[ref]
		rev = append(rev, n.offset)
		ref = n.pred
	}
	out := make([]int, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}
