package pqtree

// consecutiveFullPartialChildren reports, for a Q-node qn, whether its
// full and partial children form a single contiguous run in the
// sibling chain, and whether every partial child in that run sits at
// one of the run's two ends (as opposed to being sandwiched between
// full children, which no template can rewrite).
//
// The reference (TemplateQ2/TemplateQ3) answers this by walking the
// whole sibling chain with a QNodeChildrenIterator and checking
// run-started/run-finished flags as it goes — O(n) in the Q-node's
// total child count. Since every full/partial child already carries
// up to two sibling pointers, the same answer is derivable in O(k)
// where k = |full ∪ partial|: let NE be that set, and for x in NE let
// deg(x) be the number of x's immediate siblings that are also in NE.
// Summing deg(x) over NE double-counts every "internal" edge of the
// induced subgraph of the sibling chain (a path graph), so
// sum(deg) == 2*(k - runs), where runs is the number of maximal
// contiguous stretches of NE within the chain. NE forms one run iff
// runs == 1, i.e. iff sum(deg) == 2*(k-1). A partial child sits at a
// run's end iff it has at most one sibling in NE.
func consecutiveFullPartialChildren(qn *node) (consecutive, partialsAtEnds bool) {
	k := len(qn.fullChildren) + len(qn.partialChildren)
	if k == 0 {
		return true, true
	}

	inRun := func(x *node) bool {
		if _, ok := qn.fullChildren[x]; ok {
			return true
		}
		_, ok := qn.partialChildren[x]
		return ok
	}

	degreeInRun := func(x *node) int {
		d := 0
		for _, s := range x.sibling {
			if s != nil && inRun(s) {
				d++
			}
		}
		return d
	}

	internalSlots := 0
	for x := range qn.fullChildren {
		internalSlots += degreeInRun(x)
	}
	for x := range qn.partialChildren {
		internalSlots += degreeInRun(x)
	}
	consecutive = internalSlots == 2*(k-1)

	partialsAtEnds = true
	for p := range qn.partialChildren {
		if degreeInRun(p) > 1 {
			partialsAtEnds = false
			break
		}
	}
	return consecutive, partialsAtEnds
}
