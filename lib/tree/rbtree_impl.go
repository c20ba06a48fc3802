package tree

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
)

// rbCore is the linked structure shared by RBTree and OrderedMap.
// Nodes live in the arena and are linked by handles, P is the payload
// ordered by less.
type rbCore[P any] struct {
	arena           *rbArena[P]
	root            rbNodeID
	count           int64
	less            infra.OrderedKeyLess[P]
	logger          RBLogger
	checkInvariants bool
}

func newRBCore[P any](less infra.OrderedKeyLess[P], opts *rbOptions) *rbCore[P] {
	if less == nil {
		panic("[rbtree] nil less function")
	}
	if opts.isDesc {
		less = infra.ReverseLess(less)
	}
	return &rbCore[P]{
		arena:           newRBArena[P](opts.capacity),
		root:            rbNilID,
		less:            less,
		logger:          opts.logger,
		checkInvariants: opts.checkInvariants,
	}
}

func (core *rbCore[P]) len() int64 {
	return atomic.LoadInt64(&core.count)
}

func (core *rbCore[P]) node(id rbNodeID) *rbNode[P] {
	return core.arena.node(id)
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. The root is black.
// p3. All NIL nodes are considered black.
// p4. A red node does not have a red child. (red-violation)
// p5. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)

// changeChild replaces the link from parent to cur with nxt.
// A nil parent means cur was the root.
func (core *rbCore[P]) changeChild(cur, nxt, parent rbNodeID) {
	if parent == rbNilID {
		core.root = nxt
		return
	}
	p := core.node(parent)
	if cur == p.left {
		p.left = nxt
	} else {
		p.right = nxt
	}
}

/*
Lowercase is red, uppercase is black.

im1: node has no parent, it becomes the black root.
im2: parent is black, nothing to do.
im3: parent and uncle are both red, flip colors and continue from grandparent.

	      G              g
	     / \            / \
	    p   u   ==>    P   U
	   /              /
	  n              n

im4: node is the inner grandchild, rotate at parent to turn it into im5.

	      G              G
	     / \            / \
	    p   U   ==>    n   U
	     \            /
	      n          p

im5: node is the outer grandchild, rotate at grandparent and repaint.

	      G              P
	     / \            / \
	    p   U   ==>    n   g
	   /                    \
	  n                      U
*/
func (core *rbCore[P]) insertRebalance(id rbNodeID) {
	var (
		node    = id
		parent  = core.node(id).parent
		gparent rbNodeID
		tmp     rbNodeID
	)
	for {
		if /* im1 */ parent == rbNilID {
			core.node(node).setParentColor(rbNilID, Black)
			core.root = node
			break
		}
		p := core.node(parent)
		if /* im2 */ p.isBlack() {
			break
		}

		// A red parent is never the root.
		gparent = p.parent
		g := core.node(gparent)
		if tmp = g.right; parent != tmp {
			if /* im3 */ tmp != rbNilID && core.node(tmp).isRed() {
				p.color = Black
				core.node(tmp).color = Black
				g.color = Red
				node = gparent
				parent = g.parent
				continue
			}

			if /* im4 */ tmp = p.right; node == tmp {
				n := core.node(node)
				tmp = n.left
				p.right = tmp
				if tmp != rbNilID {
					core.node(tmp).parent = parent
				}
				n.left = parent
				n.parent = gparent
				p.parent = node
				core.changeChild(parent, node, gparent)
				parent, p = node, n
				tmp = p.right
			}

			/* im5 */
			g.left = tmp
			if tmp != rbNilID {
				core.node(tmp).parent = gparent
			}
			p.right = gparent
			core.changeChild(gparent, parent, g.parent)
			p.setParentColor(g.parent, Black)
			g.setParentColor(parent, Red)
			break
		}

		if /* im3 */ tmp = g.left; tmp != rbNilID && core.node(tmp).isRed() {
			p.color = Black
			core.node(tmp).color = Black
			g.color = Red
			node = gparent
			parent = g.parent
			continue
		}

		if /* im4 */ tmp = p.left; node == tmp {
			n := core.node(node)
			tmp = n.right
			p.left = tmp
			if tmp != rbNilID {
				core.node(tmp).parent = parent
			}
			n.right = parent
			n.parent = gparent
			p.parent = node
			core.changeChild(parent, node, gparent)
			parent, p = node, n
			tmp = p.left
		}

		/* im5 */
		g.right = tmp
		if tmp != rbNilID {
			core.node(tmp).parent = gparent
		}
		p.left = gparent
		core.changeChild(gparent, parent, g.parent)
		p.setParentColor(g.parent, Black)
		g.setParentColor(parent, Red)
		break
	}
}

// eraseNode unlinks node and returns the parent under which one black
// level is missing, or nil when no rebalance is required.
//
// r1: no children. A black leaf leaves a deficit under its parent.
// r2: exactly one child. The child must be red, it takes the node's
// place and is painted black.
// r3: two children and the successor is the right child. The successor
// is lifted into place and adopts the node's left subtree and color.
//
//	    N              S
//	   / \            / \
//	  L   S    ==>   L   R
//	       \
//	        R
//
// r4: two children and the successor sits deeper on the left spine of
// the right subtree. The successor's right child takes its old place,
// then the successor replaces the node.
//
//	    N              S
//	   / \            / \
//	  L   R    ==>   L   R
//	     /              /
//	   ...            ...
//	   /              /
//	  S              C
//	   \
//	    C
func (core *rbCore[P]) eraseNode(id rbNodeID) rbNodeID {
	var (
		rebalance rbNodeID
		child     rbNodeID
		n         = core.node(id)
		parent    = n.parent
	)
	switch {
	case /* r1 */ n.left == rbNilID && n.right == rbNilID:
		if n.isBlack() {
			rebalance = parent
		}
		core.changeChild(id, rbNilID, parent)
	case /* r2 */ n.left != rbNilID && n.right == rbNilID:
		child = n.left
		c := core.node(child)
		c.parent = parent
		core.changeChild(id, child, parent)
		c.color = Black
	case /* r2 */ n.left == rbNilID && n.right != rbNilID:
		child = n.right
		c := core.node(child)
		c.parent = parent
		core.changeChild(id, child, parent)
		c.color = Black
	default:
		successor := core.successor(id)
		s := core.node(successor)
		if /* r3 */ successor == n.right {
			s.left = n.left
			core.node(s.left).parent = successor
			s.parent = parent
			core.changeChild(id, successor, parent)
			color := s.color
			s.color = n.color
			if s.right != rbNilID {
				core.node(s.right).color = Black
			} else if color == Black {
				rebalance = successor
			}
			break
		}

		/* r4 */
		parent = s.parent
		child = s.right
		core.node(parent).left = child
		s.parent = n.parent
		core.changeChild(id, successor, n.parent)
		color := s.color
		s.color = n.color
		s.left = n.left
		core.node(s.left).parent = successor
		s.right = n.right
		core.node(s.right).parent = successor
		if child != rbNilID {
			c := core.node(child)
			c.parent = parent
			c.color = Black
		} else if color == Black {
			rebalance = parent
		}
	}

	n.parent, n.left, n.right = rbNilID, rbNilID, rbNilID
	n.color = Red
	return rebalance
}

/*
Lowercase is red, uppercase is black, (p) is either color.
N carries the missing black level, it may be nil on the first round.

rm1: sibling is red, rotate at parent so that N gets a black sibling.

	      P               S
	     / \             / \
	    N   s    ==>    p   D
	       / \         / \
	      C   D       N   C

rm2: sibling and both nephews are black, parent is red. Swap colors.

	      p               P
	     / \             / \
	    N   S    ==>    N   s
	       / \             / \
	      C   D           C   D

rm3: sibling, both nephews and parent are black. Paint sibling red
and push the deficit one level up.

	      P               P'
	     / \             / \
	    N   S    ==>    N   s
	       / \             / \
	      C   D           C   D

rm4: near nephew is red, far nephew is black. Rotate at sibling.

	     (p)             (p)
	     / \             / \
	    N   S    ==>    N   C
	       / \               \
	      c   D               s
	                           \
	                            D

rm5: far nephew is red. Rotate at parent and repaint, terminal.

	     (p)             (s)
	     / \             / \
	    N   S    ==>    P   D
	       / \         / \
	     (c)  d       N  (c)
*/
func (core *rbCore[P]) eraseRebalance(id rbNodeID) {
	var (
		node    rbNodeID
		parent  = id
		sibling rbNodeID
		tmp1    rbNodeID
		tmp2    rbNodeID
	)
	for {
		p := core.node(parent)
		if sibling = p.right; node != sibling {
			// N is the left child, possibly nil.
			s := core.node(sibling)
			if /* rm1 */ s.isRed() {
				tmp1 = s.left
				p.right = tmp1
				core.node(tmp1).parent = parent
				core.changeChild(parent, sibling, p.parent)
				s.parent = p.parent
				s.left = parent
				p.parent = sibling
				s.color = Black
				p.color = Red
				sibling, s = tmp1, core.node(tmp1)
			}

			if tmp1 = s.right; tmp1 == rbNilID || core.node(tmp1).isBlack() {
				if tmp2 = s.left; tmp2 == rbNilID || core.node(tmp2).isBlack() {
					if /* rm2 */ p.isRed() {
						p.color = Black
						s.color = Red
					} else /* rm3 */ {
						s.color = Red
						node = parent
						if parent = p.parent; parent != rbNilID {
							continue
						}
					}
					break
				}

				/* rm4 */
				c := core.node(tmp2)
				s.left = c.right
				if c.right != rbNilID {
					core.node(c.right).parent = sibling
				}
				s.parent = tmp2
				c.right = sibling
				c.parent = parent
				p.right = tmp2
				c.color = Black
				s.color = Red
				tmp1 = sibling
				sibling, s = tmp2, c
			}

			/* rm5 */
			tmp2 = s.left
			core.changeChild(parent, sibling, p.parent)
			s.parent = p.parent
			s.left = parent
			p.parent = sibling
			p.right = tmp2
			if tmp2 != rbNilID {
				core.node(tmp2).parent = parent
			}
			s.color = p.color
			p.color = Black
			core.node(tmp1).color = Black
			break
		}

		// N is the right child, possibly nil.
		sibling = p.left
		s := core.node(sibling)
		if /* rm1 */ s.isRed() {
			tmp1 = s.right
			p.left = tmp1
			core.node(tmp1).parent = parent
			core.changeChild(parent, sibling, p.parent)
			s.parent = p.parent
			s.right = parent
			p.parent = sibling
			s.color = Black
			p.color = Red
			sibling, s = tmp1, core.node(tmp1)
		}

		if tmp1 = s.left; tmp1 == rbNilID || core.node(tmp1).isBlack() {
			if tmp2 = s.right; tmp2 == rbNilID || core.node(tmp2).isBlack() {
				if /* rm2 */ p.isRed() {
					p.color = Black
					s.color = Red
				} else /* rm3 */ {
					s.color = Red
					node = parent
					if parent = p.parent; parent != rbNilID {
						continue
					}
				}
				break
			}

			/* rm4 */
			c := core.node(tmp2)
			s.right = c.left
			if c.left != rbNilID {
				core.node(c.left).parent = sibling
			}
			s.parent = tmp2
			c.left = sibling
			c.parent = parent
			p.left = tmp2
			c.color = Black
			s.color = Red
			tmp1 = sibling
			sibling, s = tmp2, c
		}

		/* rm5 */
		tmp2 = s.right
		core.changeChild(parent, sibling, p.parent)
		s.parent = p.parent
		s.right = parent
		p.parent = sibling
		p.left = tmp2
		if tmp2 != rbNilID {
			core.node(tmp2).parent = parent
		}
		s.color = p.color
		p.color = Black
		core.node(tmp1).color = Black
		break
	}
}

// search returns the node equivalent to val or nil.
func (core *rbCore[P]) search(val P) rbNodeID {
	for id := core.root; id != rbNilID; {
		n := core.node(id)
		if core.less(val, n.payload) {
			id = n.left
		} else if core.less(n.payload, val) {
			id = n.right
		} else {
			return id
		}
	}
	return rbNilID
}

// lowerBound returns the first node not less than val.
func (core *rbCore[P]) lowerBound(val P) rbNodeID {
	res := rbNilID
	for id := core.root; id != rbNilID; {
		n := core.node(id)
		if !core.less(n.payload, val) {
			res, id = id, n.left
		} else {
			id = n.right
		}
	}
	return res
}

// upperBound returns the first node greater than val.
func (core *rbCore[P]) upperBound(val P) rbNodeID {
	res := rbNilID
	for id := core.root; id != rbNilID; {
		n := core.node(id)
		if core.less(val, n.payload) {
			res, id = id, n.left
		} else {
			id = n.right
		}
	}
	return res
}

// insert links a new red leaf for val unless an equivalent node exists.
func (core *rbCore[P]) insert(val P) (rbNodeID, bool) {
	var (
		parent = rbNilID
		isLeft bool
	)
	for id := core.root; id != rbNilID; {
		n := core.node(id)
		parent = id
		if core.less(val, n.payload) {
			id, isLeft = n.left, true
		} else if core.less(n.payload, val) {
			id, isLeft = n.right, false
		} else {
			return id, false
		}
	}

	id := core.arena.alloc(val)
	if parent != rbNilID {
		if isLeft {
			core.node(parent).left = id
		} else {
			core.node(parent).right = id
		}
	}
	core.node(id).setParentColor(parent, Red)
	core.insertRebalance(id)
	atomic.AddInt64(&core.count, 1)
	core.verify("insert")
	return id, true
}

// erase unlinks id, rebalances and releases the slot.
func (core *rbCore[P]) erase(id rbNodeID) P {
	payload := core.node(id).payload
	if rebalance := core.eraseNode(id); rebalance != rbNilID {
		core.eraseRebalance(rebalance)
	}
	core.arena.release(id)
	atomic.AddInt64(&core.count, -1)
	core.verify("erase")
	return payload
}

// clear releases children before parents without extra space.
func (core *rbCore[P]) clear() {
	released := int64(0)
	for id := core.firstPostorder(core.root); id != rbNilID; {
		next := core.nextPostorder(id)
		core.arena.release(id)
		released++
		id = next
	}
	core.root = rbNilID
	atomic.StoreInt64(&core.count, 0)
	if core.logger != nil {
		core.logger.Debug("[rbtree] released",
			zap.Int64("nodes", released),
			zap.Int("arenaCap", core.arena.capacity()),
		)
	}
}

func (core *rbCore[P]) verify(op string) {
	if core.logger == nil && !core.checkInvariants {
		return
	}
	err := ValidateRBTree[P](core.view(core.root), core.less)
	if err == nil {
		return
	}
	if core.logger != nil {
		core.logger.Error(err, "[rbtree] invariant violated",
			zap.String("op", op),
			zap.Int64("len", core.len()),
		)
	}
	if core.checkInvariants {
		panic(err)
	}
}
