package pqtree

// The nine rewrite templates of the Booth-Lueker reduce pass. Each
// method checks whether candidate matches its pattern; if so it
// rewrites the subtree in place and returns true. If not, it makes no
// changes and returns false. reduceStep tries them in a fixed order
// (see reduce.go) and stops at the first match.
//
// Naming and ordering follow the Booth & Lueker paper: L1 for leaves,
// P1-P6 for P-nodes, Q1-Q3 for Q-nodes.

// templateL1 labels a leaf full. Leaves always match.
func templateL1(candidate *node) bool {
	if candidate.kind != leafNode {
		return false
	}
	candidate.labelAsFull()
	return true
}

// templateQ1 matches a Q-node whose children are all full, and labels
// it full in turn.
func templateQ1(candidate *node) bool {
	if candidate.kind != qNode {
		return false
	}
	for it := newQChildIterator(candidate, nil); !it.IsDone(); it.Next() {
		if it.Current().label != fullLabel {
			return false
		}
	}
	candidate.labelAsFull()
	return true
}

// templateQ2 matches a non-pseudo Q-node with at most one partial
// child, whose full (and that partial) children form a single run
// touching one end of the chain. It merges the partial child's two
// endmost children directly into candidate and labels candidate
// partial.
func templateQ2(candidate *node) bool {
	if candidate.kind != qNode || candidate.pseudoNode || len(candidate.partialChildren) > 1 {
		return false
	}

	if len(candidate.fullChildren) > 0 {
		numFullEnd := 0
		for _, e := range candidate.endmost {
			if e != nil && e.label == fullLabel {
				numFullEnd++
			}
		}
		if numFullEnd != 1 {
			return false
		}
		consecutive, partialsAtEnds := consecutiveFullPartialChildren(candidate)
		if !consecutive || !partialsAtEnds {
			return false
		}
	} else if candidate.endmostChildWithLabel(partialLabel) == nil {
		return false
	}

	if len(candidate.partialChildren) > 0 {
		var toMerge *node
		for p := range candidate.partialChildren {
			toMerge = p
		}

		fullChild := toMerge.endmostChildWithLabel(fullLabel)
		emptyChild := toMerge.endmostChildWithLabel(emptyLabel)

		if fullSibling := toMerge.siblingWithLabel(fullLabel); fullSibling != nil {
			fullSibling.replaceSibling(toMerge, fullChild)
		} else {
			candidate.replaceEndmostChild(toMerge, fullChild)
			fullChild.parent = candidate
		}

		if emptySibling := toMerge.siblingWithLabel(emptyLabel); emptySibling != nil {
			emptySibling.replaceSibling(toMerge, emptyChild)
		} else {
			candidate.replaceEndmostChild(toMerge, emptyChild)
			emptyChild.parent = candidate
		}

		toMerge.forgetChildren()
	}

	candidate.label = partialLabel
	if candidate.parent != nil {
		candidate.parent.partialChildren[candidate] = struct{}{}
	}
	return true
}

// templateQ3 matches a Q-node (pseudo or not) with at most two partial
// children, whose full/partial children form a single run anywhere in
// the chain (not necessarily touching an end), with any partial
// children at the run's own ends. It splices each partial child's two
// endmost children directly into the chain in its place.
func templateQ3(candidate *node) bool {
	if candidate.kind != qNode || len(candidate.partialChildren) > 2 {
		return false
	}

	// A pseudo-node whose exposed edge has no second endmost child is
	// a degenerate one-sided fragment with nothing left to check.
	if candidate.pseudoNode && candidate.endmost[1] == nil {
		return true
	}

	consecutive, partialsAtEnds := consecutiveFullPartialChildren(candidate)
	if !consecutive || !partialsAtEnds {
		return false
	}

	for toMerge := range candidate.partialChildren {
		emptyChild := toMerge.endmostChildWithLabel(emptyLabel)
		fullChild := toMerge.endmostChildWithLabel(fullLabel)

		var cs *node
		for _, sib := range toMerge.sibling {
			if sib == nil {
				continue
			}
			if sib.label == emptyLabel {
				sib.replaceSibling(toMerge, emptyChild)
				cs = fullChild
			} else {
				sib.replaceSibling(toMerge, fullChild)
				cs = emptyChild
			}
		}
		if candidate.pseudoNode {
			cs = emptyChild
		}
		if toMerge.siblingCount() == 1 || candidate.pseudoNode {
			cs.parent = candidate
			candidate.replaceEndmostChild(toMerge, cs)
		}
		toMerge.forgetChildren()
	}
	return true
}

// templateP1 matches a P-node all of whose children are full.
// isReductionRoot must be true when candidate is the pertinent
// subtree's root: the Booth & Lueker paper's own statement of this
// template omits that case, and inserting candidate into a parent's
// fullChildren when candidate IS the reduction root reaches through a
// parent pointer that may no longer be valid.
func templateP1(candidate *node, isReductionRoot bool) bool {
	if candidate.kind != pNode || len(candidate.fullChildren) != candidate.childCount() {
		return false
	}
	candidate.label = fullLabel
	if !isReductionRoot {
		candidate.parent.fullChildren[candidate] = struct{}{}
	}
	return true
}

// templateP2 matches a P-node with no partial children (the reduction
// root only): it gathers the full children into their own P-node and
// labels candidate partial.
func templateP2(candidate *node) bool {
	if candidate.kind != pNode || len(candidate.partialChildren) != 0 {
		return false
	}
	if len(candidate.fullChildren) >= 2 {
		newP := newPNode()
		newP.parent = candidate
		candidate.moveFullChildren(newP)
		candidate.addToCircularLink(newP)
	}
	candidate.label = partialLabel
	return true
}

// templateP3 matches a P-node with no partial children, not the
// reduction root: it splits candidate into a two-child Q-node — one
// side holding the full children, the other the empty ones — and
// replaces candidate with that Q-node in the parent.
func templateP3(candidate *node) bool {
	if candidate.kind != pNode || len(candidate.partialChildren) != 0 {
		return false
	}

	var fullChild *node
	if len(candidate.fullChildren) == 1 {
		for f := range candidate.fullChildren {
			fullChild = f
		}
		candidate.removeFromCircularLink(fullChild)
	} else {
		fullChild = newPNode()
		fullChild.label = fullLabel
		candidate.moveFullChildren(fullChild)
	}

	newQ := newQNode()
	candidate.parent.replacePartialChild(candidate, newQ)

	fullChild.parent = newQ
	newQ.endmost[0] = fullChild
	newQ.fullChildren[fullChild] = struct{}{}

	var emptyChild *node
	if candidate.childCount() == 1 {
		emptyChild = candidate.circularLink[0]
		candidate.circularLink = nil
	} else {
		emptyChild = candidate
	}
	emptyChild.parent = newQ
	emptyChild.label = emptyLabel
	newQ.endmost[1] = emptyChild

	emptyChild.sibling = [2]*node{}
	emptyChild.addSibling(fullChild)
	fullChild.sibling = [2]*node{}
	fullChild.addSibling(emptyChild)

	newQ.label = partialLabel
	return true
}

// templateP4 matches a P-node with exactly one partial child (a
// Q-node), the reduction root only: it folds candidate's full children
// into the partial Q-node's full end, then — if candidate is left with
// no other children and has a parent — splices the Q-node into
// candidate's place. When candidate has no parent, the Q-node is not
// spliced up: it stays as candidate's only child, with its parent
// pointer set to nil.
func templateP4(candidate *node) bool {
	if candidate.kind != pNode || len(candidate.partialChildren) != 1 {
		return false
	}
	var partialQ *node
	for p := range candidate.partialChildren {
		partialQ = p
	}
	emptyChild := partialQ.endmostChildWithLabel(emptyLabel)
	fullChild := partialQ.endmostChildWithLabel(fullLabel)
	if emptyChild == nil || fullChild == nil {
		return false
	}

	if len(candidate.fullChildren) > 0 {
		var fullChildrenRoot *node
		if len(candidate.fullChildren) == 1 {
			for f := range candidate.fullChildren {
				fullChildrenRoot = f
			}
			candidate.removeFromCircularLink(fullChildrenRoot)
		} else {
			fullChildrenRoot = newPNode()
			fullChildrenRoot.label = fullLabel
			candidate.moveFullChildren(fullChildrenRoot)
		}
		fullChildrenRoot.parent = partialQ
		partialQ.replaceEndmostChild(fullChild, fullChildrenRoot)
		partialQ.fullChildren[fullChildrenRoot] = struct{}{}
		fullChild.addSibling(fullChildrenRoot)
		fullChildrenRoot.addSibling(fullChild)
	}

	if candidate.childCount() == 1 {
		theParent := candidate.parent
		partialQ.parent = candidate.parent
		if theParent != nil {
			if candidate.siblingCount() == 0 {
				theParent.removeFromCircularLink(candidate)
				theParent.addToCircularLink(partialQ)
			} else {
				for _, sib := range candidate.sibling {
					if sib != nil {
						sib.replaceSibling(candidate, partialQ)
					}
				}
				if candidate.siblingCount() == 1 {
					theParent.replaceEndmostChild(candidate, partialQ)
				}
			}
		}
	}
	return true
}

// templateP5 matches a P-node with exactly one partial child, not the
// reduction root (it requires a parent): the partial Q-node is promoted to
// candidate's position, absorbing candidate's full and empty children
// onto its two ends.
func templateP5(candidate *node) bool {
	if candidate.kind != pNode || len(candidate.partialChildren) != 1 {
		return false
	}
	var partialQ *node
	for p := range candidate.partialChildren {
		partialQ = p
	}
	emptyChild := partialQ.endmostChildWithLabel(emptyLabel)
	fullChild := partialQ.endmostChildWithLabel(fullLabel)
	emptySibling := candidate.circularChildWithLabel(emptyLabel)
	if emptyChild == nil || fullChild == nil {
		return false
	}

	theParent := candidate.parent
	partialQ.parent = candidate.parent
	partialQ.pertinentLeafCount = candidate.pertinentLeafCount
	partialQ.label = partialLabel
	theParent.partialChildren[partialQ] = struct{}{}
	candidate.removeFromCircularLink(partialQ)
	delete(candidate.partialChildren, partialQ)

	if candidate.siblingCount() == 0 {
		theParent.replaceCircularLink(candidate, partialQ)
	} else {
		for _, sib := range candidate.sibling {
			if sib != nil {
				sib.replaceSibling(candidate, partialQ)
			}
		}
		theParent.replaceEndmostChild(candidate, partialQ)
	}

	if len(candidate.fullChildren) > 0 {
		var fullChildrenRoot *node
		if len(candidate.fullChildren) == 1 {
			for f := range candidate.fullChildren {
				fullChildrenRoot = f
			}
			candidate.removeFromCircularLink(fullChildrenRoot)
		} else {
			fullChildrenRoot = newPNode()
			fullChildrenRoot.label = fullLabel
			candidate.moveFullChildren(fullChildrenRoot)
		}
		candidate.fullChildren = make(map[*node]struct{})
		fullChildrenRoot.parent = partialQ
		fullChild.addSibling(fullChildrenRoot)
		fullChildrenRoot.addSibling(fullChild)
		partialQ.replaceEndmostChild(fullChild, fullChildrenRoot)
	}

	if candidate.childCount() > 0 {
		var emptyChildrenRoot *node
		if candidate.childCount() == 1 {
			emptyChildrenRoot = emptySibling
		} else {
			emptyChildrenRoot = candidate
			emptyChildrenRoot.label = emptyLabel
			emptyChildrenRoot.sibling = [2]*node{}
		}
		emptyChildrenRoot.parent = partialQ
		emptyChild.addSibling(emptyChildrenRoot)
		emptyChildrenRoot.addSibling(emptyChild)
		partialQ.replaceEndmostChild(emptyChild, emptyChildrenRoot)
	}
	return true
}

// templateP6 matches a P-node with exactly two partial children
// (necessarily the reduction root): it joins the two Q-fragments end
// to end through candidate's full children, leaving a single partial
// Q-node that replaces candidate if nothing else remains.
func templateP6(t *Tree, candidate *node) bool {
	if candidate.kind != pNode || len(candidate.partialChildren) != 2 {
		return false
	}
	var partial1, partial2 *node
	i := 0
	for p := range candidate.partialChildren {
		if i == 0 {
			partial1 = p
		} else {
			partial2 = p
		}
		i++
	}
	empty1 := partial1.endmostChildWithLabel(emptyLabel)
	full1 := partial1.endmostChildWithLabel(fullLabel)
	if empty1 == nil || full1 == nil {
		return false
	}
	empty2 := partial2.endmostChildWithLabel(emptyLabel)
	full2 := partial2.endmostChildWithLabel(fullLabel)
	if empty2 == nil || full2 == nil {
		return false
	}

	if len(candidate.fullChildren) > 0 {
		var fullChildrenRoot *node
		if len(candidate.fullChildren) == 1 {
			for f := range candidate.fullChildren {
				fullChildrenRoot = f
			}
			candidate.removeFromCircularLink(fullChildrenRoot)
		} else {
			fullChildrenRoot = newPNode()
			fullChildrenRoot.label = fullLabel
			candidate.moveFullChildren(fullChildrenRoot)
		}
		fullChildrenRoot.parent = partial1
		full2.parent = partial1
		full1.addSibling(fullChildrenRoot)
		full2.addSibling(fullChildrenRoot)
		fullChildrenRoot.addSibling(full1)
		fullChildrenRoot.addSibling(full2)
	} else {
		full1.addSibling(full2)
		full2.addSibling(full1)
	}

	partial1.replaceEndmostChild(full1, empty2)
	empty2.parent = partial1

	candidate.removeFromCircularLink(partial2)
	partial2.forgetChildren()

	if candidate.childCount() == 1 {
		partial1.parent = candidate.parent
		partial1.pertinentLeafCount = candidate.pertinentLeafCount
		partial1.label = partialLabel
		if candidate.parent != nil {
			candidate.parent.partialChildren[partial1] = struct{}{}
			if candidate.parent.kind == pNode {
				candidate.parent.replaceCircularLink(candidate, partial1)
			} else {
				for _, sib := range candidate.sibling {
					if sib != nil {
						sib.replaceSibling(candidate, partial1)
					}
				}
				candidate.parent.replaceEndmostChild(candidate, partial1)
			}
		} else {
			t.root = partial1
			partial1.parent = nil
			candidate.circularLink = nil
		}
	}
	return true
}
