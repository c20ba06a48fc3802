package tree

import "fmt"

var _ RBNode[int] = rbNodeRef[int]{}

// rbNodeRef exposes a live node as RBNode. Comparable, so two refs to
// the same node are equal through the interface as well.
type rbNodeRef[P any] struct {
	core *rbCore[P]
	id   rbNodeID
}

func (core *rbCore[P]) view(id rbNodeID) RBNode[P] {
	if id == rbNilID {
		return nil
	}
	return rbNodeRef[P]{core: core, id: id}
}

func (ref rbNodeRef[P]) Val() P            { return ref.core.node(ref.id).payload }
func (ref rbNodeRef[P]) Color() RBColor    { return ref.core.node(ref.id).color }
func (ref rbNodeRef[P]) Left() RBNode[P]   { return ref.core.view(ref.core.node(ref.id).left) }
func (ref rbNodeRef[P]) Right() RBNode[P]  { return ref.core.view(ref.core.node(ref.id).right) }
func (ref rbNodeRef[P]) Parent() RBNode[P] { return ref.core.view(ref.core.node(ref.id).parent) }

// rbCursor is a position in the in-order sequence of a core.
// The nil handle is the end position. gen pins the node generation
// so that a cursor to an erased node is detected as stale.
type rbCursor[P any] struct {
	core *rbCore[P]
	id   rbNodeID
	gen  uint32
}

func (core *rbCore[P]) cursor(id rbNodeID) rbCursor[P] {
	if id == rbNilID {
		return rbCursor[P]{core: core}
	}
	return rbCursor[P]{core: core, id: id, gen: core.node(id).gen}
}

func (c rbCursor[P]) isEnd() bool {
	return c.id == rbNilID
}

func (c rbCursor[P]) isLive() bool {
	return c.core != nil && c.core.arena.isLive(c.id, c.gen)
}

// isValid reports whether c is an end position or points to a live node.
func (c rbCursor[P]) isValid() bool {
	return c.core != nil && (c.isEnd() || c.isLive())
}

func (c rbCursor[P]) node() *rbNode[P] {
	if !c.isLive() {
		panic(fmt.Errorf("[rbtree] dereference: %w", ErrRBTreeInvalidIterator))
	}
	return c.core.node(c.id)
}

func (c rbCursor[P]) next() rbCursor[P] {
	if !c.isLive() {
		return rbCursor[P]{core: c.core}
	}
	return c.core.cursor(c.core.next(c.id))
}

func (c rbCursor[P]) prev() rbCursor[P] {
	if !c.isLive() {
		return rbCursor[P]{core: c.core}
	}
	return c.core.cursor(c.core.prev(c.id))
}

func (c rbCursor[P]) equal(o rbCursor[P]) bool {
	return c.core == o.core && c.id == o.id && c.gen == o.gen
}

// RBTreeIter is an in-order position of an RBTree.
// Next and Prev move one step, moving from End stays at End.
// Val panics on End or on an iterator whose node was erased.
type RBTreeIter[T any] struct {
	cur rbCursor[T]
}

func (it RBTreeIter[T]) Val() T {
	return it.cur.node().payload
}

func (it RBTreeIter[T]) Color() RBColor {
	return it.cur.node().color
}

func (it RBTreeIter[T]) IsEnd() bool {
	return it.cur.isEnd()
}

// IsValid is false once the pointed node has been erased or released.
func (it RBTreeIter[T]) IsValid() bool {
	return it.cur.isValid()
}

func (it RBTreeIter[T]) Next() RBTreeIter[T] {
	return RBTreeIter[T]{cur: it.cur.next()}
}

func (it RBTreeIter[T]) Prev() RBTreeIter[T] {
	return RBTreeIter[T]{cur: it.cur.prev()}
}

func (it RBTreeIter[T]) Equal(other RBTreeIter[T]) bool {
	return it.cur.equal(other.cur)
}
