package tree

// In-order and post-order walking over parent links, no auxiliary stack.

func (core *rbCore[P]) first(root rbNodeID) rbNodeID {
	if root == rbNilID {
		return rbNilID
	}
	id := root
	for n := core.node(id); n.left != rbNilID; n = core.node(id) {
		id = n.left
	}
	return id
}

func (core *rbCore[P]) last(root rbNodeID) rbNodeID {
	if root == rbNilID {
		return rbNilID
	}
	id := root
	for n := core.node(id); n.right != rbNilID; n = core.node(id) {
		id = n.right
	}
	return id
}

// The succ node of the current node is its next node in sorted order.
func (core *rbCore[P]) next(id rbNodeID) rbNodeID {
	if id == rbNilID {
		return rbNilID
	}
	if n := core.node(id); n.right != rbNilID {
		return core.first(n.right)
	}
	// Backtrack until we come up from a left subtree.
	parent := core.node(id).parent
	for parent != rbNilID && id == core.node(parent).right {
		id, parent = parent, core.node(parent).parent
	}
	return parent
}

// The pred node of the current node is its previous node in sorted order.
func (core *rbCore[P]) prev(id rbNodeID) rbNodeID {
	if id == rbNilID {
		return rbNilID
	}
	if n := core.node(id); n.left != rbNilID {
		return core.last(n.left)
	}
	parent := core.node(id).parent
	for parent != rbNilID && id == core.node(parent).left {
		id, parent = parent, core.node(parent).parent
	}
	return parent
}

// successor is the left-most node of the right subtree, nil if there
// is no right child. Only erase relies on it.
func (core *rbCore[P]) successor(id rbNodeID) rbNodeID {
	return core.first(core.node(id).right)
}

// leftDeepest descends preferring left, then right, until a leaf.
func (core *rbCore[P]) leftDeepest(id rbNodeID) rbNodeID {
	for {
		n := core.node(id)
		if n.left != rbNilID {
			id = n.left
		} else if n.right != rbNilID {
			id = n.right
		} else {
			return id
		}
	}
}

func (core *rbCore[P]) firstPostorder(root rbNodeID) rbNodeID {
	if root == rbNilID {
		return rbNilID
	}
	return core.leftDeepest(root)
}

func (core *rbCore[P]) lastPostorder(root rbNodeID) rbNodeID {
	return root
}

func (core *rbCore[P]) nextPostorder(id rbNodeID) rbNodeID {
	if id == rbNilID {
		return rbNilID
	}
	parent := core.node(id).parent
	if parent != rbNilID {
		if p := core.node(parent); id == p.left && p.right != rbNilID {
			return core.leftDeepest(p.right)
		}
	}
	return parent
}

// prevPostorder walks the post-order sequence backwards starting
// from lastPostorder.
func (core *rbCore[P]) prevPostorder(id rbNodeID) rbNodeID {
	if id == rbNilID {
		return rbNilID
	}
	n := core.node(id)
	if n.right != rbNilID {
		return n.right
	} else if n.left != rbNilID {
		return n.left
	}
	// Leaf: climb until we come up from a right subtree that has a left sibling.
	for parent := n.parent; parent != rbNilID; id, parent = parent, core.node(parent).parent {
		if p := core.node(parent); id == p.right && p.left != rbNilID {
			return p.left
		}
	}
	return rbNilID
}
