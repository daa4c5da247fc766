// Package pqtree implements the Booth-Lueker (1976) PQ-tree reduction
// engine: a data structure representing every permutation of a ground
// set that keeps a growing collection of "these elements must be
// consecutive" constraints satisfied, and the two-pass algorithm
// (bubble, then reduce) that folds a new constraint in.
package pqtree

import (
	"fmt"
	"slices"

	"github.com/Gregable/pq-trees/internal/orderedset"
	"github.com/Gregable/pq-trees/pqerr"
)

// Tree is a PQ-tree over a fixed ground set, built by NewTree and
// refined by successive calls to Reduce or SafeReduce.
//
// Tree is not safe for concurrent use: every operation mutates
// transient fields on the node graph, and a reduction has no
// suspension point to synchronize around.
type Tree struct {
	root *node

	// transient bubble-pass counters, valid only during a Reduce call
	blockCount   int
	blockedNodes int
	offTheTop    int
	pseudoNode   *node

	leafIndex  map[int]*node
	reductions [][]int
	invalid    bool
	lastErr    error
}

// NewTree builds a PQ-tree over universe, with every value an
// unconstrained child of a single root P-node. Returns an error if
// universe contains a duplicate value.
func NewTree(universe []int) (*Tree, error) {
	if err := pqerr.ValidateUniverse(universe); err != nil {
		return nil, err
	}

	root := newPNode()
	t := &Tree{
		root:      root,
		leafIndex: make(map[int]*node, len(universe)),
	}
	for _, v := range universe {
		leaf := newLeaf(v)
		leaf.parent = root
		root.addToCircularLink(leaf)
		t.leafIndex[v] = leaf
	}
	return t, nil
}

// LastError returns the structured reason the most recent Reduce/
// SafeReduce call failed, or nil if the last call succeeded (or none
// has been made). It is overwritten on every call, successful or not.
func (t *Tree) LastError() error {
	return t.lastErr
}

// Reduce folds constraint set s into the tree: every leaf whose value
// is in s becomes consecutive in the Frontier, at the cost of
// collapsing some of the tree's Q/P structure. Reports whether the
// reduction succeeded.
//
// A failed Reduce marks the tree invalid; every subsequent call to
// Reduce or ReduceAll with a set of two or more values returns false
// without attempting anything (sets of size < 2 still succeed),
// until the tree is rebuilt or restored via SafeReduce's rollback. Use
// SafeReduce instead if the tree must remain usable after a failure.
func (t *Tree) Reduce(s []int) bool {
	t.lastErr = nil
	if len(s) < 2 {
		t.reductions = append(t.reductions, slices.Clone(s))
		return true
	}
	if t.invalid {
		t.lastErr = newInternalError("tree is invalid from a prior failed reduction")
		return false
	}

	known := make(map[int]struct{}, len(t.leafIndex))
	for v := range t.leafIndex {
		known[v] = struct{}{}
	}
	if err := pqerr.ValidateConstraintSet(s, known); err != nil {
		t.invalid = true
		t.lastErr = err
		return false
	}

	if !t.bubble(s) {
		t.invalid = true
		t.lastErr = pqerr.New(pqerr.ErrInconsistentConstraint, "constraint set %v cannot be made consecutive", s)
		return false
	}
	if !t.reduceStep(s) {
		t.invalid = true
		t.lastErr = pqerr.New(pqerr.ErrInconsistentConstraint, "constraint set %v matches no rewrite template", s)
		return false
	}

	// reduceStep's cleanPseudo already disposed of any pseudo-node built
	// by bubble, on both the success and failure paths above.
	t.root.reset()
	t.reductions = append(t.reductions, slices.Clone(s))
	return true
}

// ReduceAll applies each constraint set in l in order, short-circuiting
// on the first failure.
func (t *Tree) ReduceAll(l [][]int) bool {
	for _, s := range l {
		if !t.Reduce(s) {
			return false
		}
	}
	return true
}

// SafeReduce behaves like Reduce, but snapshots the tree first and
// restores the snapshot if the reduction fails, so the tree remains
// usable (and is never marked invalid by this call) afterward. It also
// recovers an internal-invariant panic raised by the templates, rolling
// back and reporting it through LastError rather than propagating it.
func (t *Tree) SafeReduce(s []int) bool {
	snapshot := t.Clone()
	ok, err := t.tryReduce(s)
	if !ok {
		t.restoreFrom(snapshot)
		t.lastErr = err
	}
	return ok
}

// SafeReduceAll behaves like ReduceAll, but snapshots the tree first and
// restores the snapshot if any reduction in l fails.
func (t *Tree) SafeReduceAll(l [][]int) bool {
	snapshot := t.Clone()
	var ok bool
	var err error
	for _, s := range l {
		ok, err = t.tryReduce(s)
		if !ok {
			break
		}
	}
	if !ok {
		t.restoreFrom(snapshot)
		t.lastErr = err
	}
	return ok
}

// tryReduce runs Reduce under recover, converting an internal-invariant
// panic into a (false, error) result instead of letting it escape.
func (t *Tree) tryReduce(s []int) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if e, isErr := r.(error); isErr {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	ok = t.Reduce(s)
	err = t.lastErr
	return ok, err
}

// restoreFrom overwrites t's mutable state with snapshot's, as if
// snapshot's Reduce history were t's own. Used by SafeReduce/
// SafeReduceAll to roll back a failed attempt.
func (t *Tree) restoreFrom(snapshot *Tree) {
	t.root = snapshot.root
	t.blockCount = snapshot.blockCount
	t.blockedNodes = snapshot.blockedNodes
	t.offTheTop = snapshot.offTheTop
	t.invalid = snapshot.invalid
	t.reductions = snapshot.reductions
	t.leafIndex = make(map[int]*node)
	t.root.findLeaves(t.leafIndex)
}

// Clone returns a deep copy of t, independent of further mutation to
// either tree.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		root:         cloneSubtree(t.root),
		blockCount:   t.blockCount,
		blockedNodes: t.blockedNodes,
		offTheTop:    t.offTheTop,
		invalid:      t.invalid,
		reductions:   make([][]int, len(t.reductions)),
	}
	for i, r := range t.reductions {
		c.reductions[i] = slices.Clone(r)
	}
	c.leafIndex = make(map[int]*node, len(t.leafIndex))
	c.root.findLeaves(c.leafIndex)
	return c
}

// Frontier returns one ordering of the ground set consistent with
// every reduction applied so far, read left to right off the tree.
func (t *Tree) Frontier() []int {
	var out []int
	t.root.findFrontier(&out)
	return out
}

// ReducedFrontier returns the Frontier filtered down to values that
// have participated in at least one reduction.
func (t *Tree) ReducedFrontier() []int {
	contained := orderedset.New[int]()
	for _, r := range t.reductions {
		contained = orderedset.Union(contained, orderedset.New(r...))
	}

	var all []int
	t.root.findFrontier(&all)
	out := make([]int, 0, len(all))
	for _, v := range all {
		if contained.Has(v) {
			out = append(out, v)
		}
	}
	return out
}

// GetReductions returns every constraint set successfully reduced so
// far, in application order.
func (t *Tree) GetReductions() [][]int {
	out := make([][]int, len(t.reductions))
	for i, r := range t.reductions {
		out[i] = slices.Clone(r)
	}
	return out
}

// GetContained returns the union of every constraint set successfully
// reduced so far.
func (t *Tree) GetContained() []int {
	contained := orderedset.New[int]()
	for _, r := range t.reductions {
		contained = orderedset.Union(contained, orderedset.New(r...))
	}
	return contained.Slice()
}

// Print renders the tree's structure: leaves as their decimal value,
// P-nodes as `(c1 c2 … cn)`, Q-nodes as `[c1 c2 … cn]` in chain order
// from endmost[0]. Intended for debugging, not for round-tripping.
func (t *Tree) Print() string {
	var sb []byte
	sb = printNode(sb, t.root)
	return string(sb)
}

func printNode(out []byte, n *node) []byte {
	switch n.kind {
	case leafNode:
		return fmt.Appendf(out, "%d", n.value)
	case pNode:
		out = append(out, '(')
		for i, c := range n.circularLink {
			if i > 0 {
				out = append(out, ' ')
			}
			out = printNode(out, c)
		}
		out = append(out, ')')
		return out
	default: // qNode
		out = append(out, '[')
		first := true
		forEachQChild(n, func(c *node) {
			if !first {
				out = append(out, ' ')
			}
			first = false
			out = printNode(out, c)
		})
		out = append(out, ']')
		return out
	}
}
