package pqtree

// bubble is the reduction's first pass: it walks from the pertinent
// leaves of s up toward the root, assigning every node on the way a
// mark (queued, blocked, or unblocked) and a pertinentChildCount, so
// the second pass (reduceStep) knows which nodes to visit and in what
// order. It also builds a pseudo-node, if the pertinent leaves form a
// block wholly inside a Q-node whose parent isn't itself pertinent.
//
// Returns false if s's leaves don't converge to a single pertinent
// root (the queue runs dry first, more than one unresolved block
// remains, or the walk reaches the top while a block is unresolved).
func (t *Tree) bubble(s []int) bool {
	t.blockCount = 0
	t.blockedNodes = 0
	t.offTheTop = 0

	queue := make([]*node, 0, len(s))
	for _, v := range s {
		queue = append(queue, t.leafIndex[v])
	}

	blockedList := make(map[*node]struct{})

	for len(queue)+t.blockCount+t.offTheTop > 1 {
		if len(queue) == 0 {
			return false
		}

		candidate := queue[0]
		queue = queue[1:]
		candidate.mark = blocked

		var unblockedSiblings, blockedSiblings []*node
		for _, sib := range candidate.sibling {
			if sib == nil {
				continue
			}
			switch sib.mark {
			case blocked:
				blockedSiblings = append(blockedSiblings, sib)
			case unblocked:
				unblockedSiblings = append(unblockedSiblings, sib)
			}
		}

		switch {
		case len(unblockedSiblings) > 0:
			candidate.parent = unblockedSiblings[0].parent
			candidate.mark = unblocked
		case candidate.siblingCount() < 2:
			candidate.mark = unblocked
		}

		if candidate.mark == unblocked {
			listSize := 0
			if len(blockedSiblings) > 0 {
				candidate.mark = blocked
				listSize = t.unblockSiblings(candidate, candidate.parent, nil)
				candidate.parent.pertinentChildCount += listSize - 1
			}

			if candidate.parent == nil {
				t.offTheTop = 1
			} else {
				candidate.parent.pertinentChildCount++
				if candidate.parent.mark == unmarked {
					queue = append(queue, candidate.parent)
					candidate.parent.mark = queued
				}
			}
			t.blockCount -= len(blockedSiblings)
			t.blockedNodes -= listSize
		} else {
			t.blockCount += 1 - len(blockedSiblings)
			t.blockedNodes++
			blockedList[candidate] = struct{}{}
		}
	}

	if t.blockCount > 1 || (t.offTheTop == 1 && t.blockCount != 0) {
		return false
	}

	correctBlockedCount := 0
	for n := range blockedList {
		if n.mark == blocked {
			correctBlockedCount++
		}
	}

	// A block survives wholly inside a Q-node whose parent was never
	// reached: stand a pseudo-node in for it so the second pass has a
	// single pertinent root to template against.
	if t.blockCount == 1 && correctBlockedCount > 1 {
		t.buildPseudoNode(blockedList)
	}
	return true
}

// unblockSiblings recursively unblocks candidate and every blocked
// sibling reachable through it without crossing last, reparenting each
// to parent. Returns the count of nodes unblocked.
func (t *Tree) unblockSiblings(candidate, parent, last *node) int {
	if candidate.mark != blocked {
		return 0
	}
	unblockedCount := 1
	candidate.mark = unblocked
	candidate.parent = parent

	for _, sib := range candidate.sibling {
		if sib != nil && sib != last {
			unblockedCount += t.unblockSiblings(sib, parent, candidate)
		}
	}
	return unblockedCount
}

// buildPseudoNode constructs the transient Q-shaped stand-in for a
// blocked run of siblings, borrowing the run's exposed ends'
// siblings as pseudoNeighbor so cleanPseudo can reattach them once the
// reduce pass is done with the pseudo-node.
func (t *Tree) buildPseudoNode(blockedList map[*node]struct{}) {
	p := newQNode()
	p.pseudoNode = true
	t.pseudoNode = p

	side := 0
	for blk := range blockedList {
		if blk.mark != blocked {
			continue
		}
		p.pertinentChildCount++
		p.pertinentLeafCount += blk.pertinentLeafCount

		count := 0
		for _, sib := range blk.sibling {
			if sib == nil {
				continue
			}
			if sib.mark == blocked {
				count++
			} else {
				blk.removeSibling(sib)
				sib.removeSibling(blk)
				p.pseudoNeighbor[side] = sib
			}
		}
		blk.parent = p
		blk.pseudoChild = true
		if count < 2 {
			p.endmost[side] = blk
			side++
		}
	}
}
