package pqtree

import (
	"slices"
	"testing"

	"github.com/Gregable/pq-trees/pqerr"
)

// isConsecutive reports whether every value in set appears consecutively
// (as a contiguous block, in either direction) within frontier.
func isConsecutive(frontier []int, set []int) bool {
	if len(set) == 0 {
		return true
	}
	want := make(map[int]struct{}, len(set))
	for _, v := range set {
		want[v] = struct{}{}
	}
	start := -1
	for i, v := range frontier {
		if _, ok := want[v]; ok {
			start = i
			break
		}
	}
	if start == -1 {
		return false
	}
	count := 0
	for i := start; i < len(frontier) && count < len(want); i++ {
		if _, ok := want[frontier[i]]; !ok {
			return false
		}
		count++
	}
	return count == len(want)
}

func universe(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// TestReduceScenario reproduces the walkthrough of an 8-element
// universe folding in a sequence of constraints, ending in one that is
// inconsistent with what came before and must fail.
func TestReduceScenario(t *testing.T) {
	tree, err := NewTree(universe(8))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}

	steps := []struct {
		set    []int
		wantOK bool
	}{
		{[]int{4, 3}, true},
		{[]int{6, 4, 3}, true},
		{[]int{4, 3, 5}, true},
		{[]int{4, 5}, true},
		{[]int{2, 6}, true},
		{[]int{1, 2}, true},
		{[]int{4, 5}, true},
		{[]int{5, 3}, false},
	}

	for _, step := range steps {
		got := tree.Reduce(step.set)
		if got != step.wantOK {
			t.Fatalf("Reduce(%v) = %v, want %v (Print=%s)", step.set, got, step.wantOK, tree.Print())
		}
		if got {
			frontier := tree.Frontier()
			if !isConsecutive(frontier, step.set) {
				t.Fatalf("Reduce(%v) succeeded but frontier %v is not consecutive", step.set, frontier)
			}
		}
	}

	if !tree.invalid {
		t.Fatal("tree should be invalid after a failed non-safe reduction")
	}
	if tree.Reduce([]int{1, 2}) {
		t.Fatal("Reduce on an invalid tree should always fail")
	}
}

func TestNewTreeRejectsDuplicates(t *testing.T) {
	if _, err := NewTree([]int{1, 2, 2}); err == nil {
		t.Fatal("NewTree with duplicate values should error")
	}
}

func TestReduceUnknownLeaf(t *testing.T) {
	tree, err := NewTree(universe(4))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if tree.Reduce([]int{1, 99}) {
		t.Fatal("Reduce with an unknown value should fail")
	}
	if !pqerr.Is(tree.LastError(), pqerr.ErrUnknownLeaf) {
		t.Errorf("LastError code = %v, want %v", tree.LastError(), pqerr.ErrUnknownLeaf)
	}
}

func TestTrivialReduceIsNoop(t *testing.T) {
	tree, err := NewTree(universe(4))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	before := tree.Print()
	if !tree.Reduce(nil) || !tree.Reduce([]int{1}) {
		t.Fatal("trivial reductions (size < 2) should always succeed")
	}
	if tree.Print() != before {
		t.Fatalf("trivial reduction changed the tree: %s -> %s", before, tree.Print())
	}
}

func TestSafeReduceRollsBackOnFailure(t *testing.T) {
	tree, err := NewTree(universe(8))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	if !tree.SafeReduce([]int{4, 3}) {
		t.Fatal("SafeReduce({4,3}) should succeed")
	}
	if !tree.SafeReduce([]int{6, 4, 3}) {
		t.Fatal("SafeReduce({6,4,3}) should succeed")
	}
	before := tree.Print()

	if tree.SafeReduce([]int{5, 3}) {
		t.Fatal("SafeReduce({5,3}) should fail given the prior constraints")
	}
	if tree.invalid {
		t.Fatal("SafeReduce must never leave the tree invalid")
	}
	if tree.Print() != before {
		t.Fatalf("SafeReduce did not roll back: %s -> %s", before, tree.Print())
	}

	// The tree must still be usable for further reductions.
	if !tree.SafeReduce([]int{1, 2}) {
		t.Fatal("tree should remain usable after a rolled-back SafeReduce")
	}
}

func TestReduceAllShortCircuits(t *testing.T) {
	tree, err := NewTree(universe(8))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	ok := tree.ReduceAll([][]int{{4, 3}, {6, 4, 3}, {5, 3}, {1, 2}})
	if ok {
		t.Fatal("ReduceAll should fail on the third, inconsistent set")
	}
	reductions := tree.GetReductions()
	if len(reductions) != 2 {
		t.Fatalf("GetReductions() has %d entries, want 2 (short-circuit after failure)", len(reductions))
	}
}

func TestSafeReduceAllRollsBackEntireBatch(t *testing.T) {
	tree, err := NewTree(universe(8))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	before := tree.Print()
	if tree.SafeReduceAll([][]int{{4, 3}, {5, 3}}) {
		t.Fatal("SafeReduceAll should fail given an inconsistent second set")
	}
	if tree.Print() != before {
		t.Fatalf("SafeReduceAll did not roll back the whole batch: %s -> %s", before, tree.Print())
	}
	if len(tree.GetReductions()) != 0 {
		t.Fatal("a rolled-back SafeReduceAll should leave no trace in GetReductions")
	}
}

func TestReducedFrontierAndGetContained(t *testing.T) {
	tree, err := NewTree(universe(8))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	tree.Reduce([]int{4, 3})
	tree.Reduce([]int{6, 4, 3})

	contained := tree.GetContained()
	slices.Sort(contained)
	if want := []int{3, 4, 6}; !slices.Equal(contained, want) {
		t.Errorf("GetContained() = %v, want %v", contained, want)
	}

	reduced := tree.ReducedFrontier()
	slices.Sort(reduced)
	if !slices.Equal(reduced, []int{3, 4, 6}) {
		t.Errorf("ReducedFrontier() = %v, want [3 4 6]", reduced)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tree, err := NewTree(universe(6))
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	tree.Reduce([]int{1, 2})

	clone := tree.Clone()
	clone.Reduce([]int{3, 4})

	if len(tree.GetReductions()) == len(clone.GetReductions()) {
		t.Fatal("mutating a clone should not affect the original tree's reduction log")
	}
}

func TestPrintShape(t *testing.T) {
	tree, err := NewTree([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("NewTree: %v", err)
	}
	got := tree.Print()
	if len(got) != len("(1 2 3)") {
		t.Fatalf("Print() = %q, want a 3-child P-node rendering", got)
	}
}
