package pqtree

// reduceStep is the reduction's second pass: given the marks and
// pertinentChildCount the bubble pass left behind, it processes
// pertinent nodes bottom-up, matching each against the rewrite
// templates in order until one applies. It returns false, leaving the
// tree's shape however far the templates got, the first time a
// pertinent node matches none of them.
func (t *Tree) reduceStep(s []int) bool {
	queue := make([]*node, 0, len(s))
	for _, v := range s {
		candidate := t.leafIndex[v]
		candidate.pertinentLeafCount = 1
		queue = append(queue, candidate)
	}

	for len(queue) > 0 {
		candidate := queue[0]
		queue = queue[1:]

		if candidate.pertinentLeafCount < len(s) {
			parent := candidate.parent
			parent.pertinentLeafCount += candidate.pertinentLeafCount
			parent.pertinentChildCount--
			if parent.pertinentChildCount == 0 {
				queue = append(queue, parent)
			}

			switch {
			case templateL1(candidate):
			case templateP1(candidate, false):
			case templateP3(candidate):
			case templateP5(candidate):
			case templateQ1(candidate):
			case templateQ2(candidate):
			default:
				t.cleanPseudo()
				return false
			}
		} else {
			// candidate is the root of the pertinent subtree.
			switch {
			case templateL1(candidate):
			case templateP1(candidate, true):
			case templateP2(candidate):
			case templateP4(candidate):
			case templateP6(t, candidate):
			case templateQ1(candidate):
			case templateQ2(candidate):
			case templateQ3(candidate):
			default:
				t.cleanPseudo()
				return false
			}
		}
	}
	t.cleanPseudo()
	return true
}

// cleanPseudo reattaches a bubble-built pseudo-node's two exposed ends
// to the real-tree neighbors it borrowed them from, then discards the
// pseudo-node itself. A no-op if no pseudo-node was built for this
// reduction.
func (t *Tree) cleanPseudo() {
	p := t.pseudoNode
	if p == nil {
		return
	}
	for i := 0; i < 2; i++ {
		p.endmost[i].addSibling(p.pseudoNeighbor[i])
		p.pseudoNeighbor[i].addSibling(p.endmost[i])
	}
	p.forgetChildren()
	t.pseudoNode = nil
}
