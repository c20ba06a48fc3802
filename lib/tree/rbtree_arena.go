package tree

import (
	"fmt"
	"math"
)

// rbNodeID is an index into the node arena of one tree.
// The zero value is the nil handle; slot 0 is never handed out.
type rbNodeID uint32

const rbNilID rbNodeID = 0

const (
	rbArenaPageShift = 9
	rbArenaPageSize  = 1 << rbArenaPageShift
	rbArenaPageMask  = rbArenaPageSize - 1
	rbArenaMaxID     = math.MaxUint32
)

type rbNode[P any] struct {
	parent  rbNodeID
	left    rbNodeID
	right   rbNodeID
	gen     uint32
	color   RBColor
	inUse   bool
	payload P
}

func (node *rbNode[P]) isRed() bool {
	return node.color == Red
}

func (node *rbNode[P]) isBlack() bool {
	return node.color == Black
}

func (node *rbNode[P]) setParentColor(parent rbNodeID, color RBColor) {
	node.parent = parent
	node.color = color
}

// rbArena owns every node slot of a tree.
// Pages are never moved or shrunk, so a *rbNode stays addressable
// for the whole lifetime of the arena. Released slots are recycled
// LIFO through the free list and their generation is bumped, which
// is how stale iterators are told apart from live ones.
//
//	page 0                    page 1
//	+-----+-----+-----+---    +-----+-----+---
//	| nil |  1  |  2  | ...   | 512 | 513 | ...
//	+-----+-----+-----+---    +-----+-----+---
type rbArena[P any] struct {
	pages [][]rbNode[P]
	free  []rbNodeID
	next  rbNodeID
	used  int64
}

func newRBArena[P any](capacity int) *rbArena[P] {
	arena := &rbArena[P]{
		next: 1,
	}
	if capacity > 0 {
		pages := (capacity + 1 + rbArenaPageMask) >> rbArenaPageShift
		arena.pages = make([][]rbNode[P], 0, pages)
		for i := 0; i < pages; i++ {
			arena.grow()
		}
	}
	return arena
}

func (arena *rbArena[P]) grow() {
	arena.pages = append(arena.pages, make([]rbNode[P], rbArenaPageSize))
}

func (arena *rbArena[P]) capacity() int {
	return len(arena.pages) << rbArenaPageShift
}

func (arena *rbArena[P]) len() int64 {
	return arena.used
}

// node returns the slot of id. It must not be called with the nil handle.
func (arena *rbArena[P]) node(id rbNodeID) *rbNode[P] {
	if id == rbNilID {
		panic( /* debug assertion */ "[rbtree] arena access through nil handle")
	}
	return &arena.pages[id>>rbArenaPageShift][id&rbArenaPageMask]
}

// alloc hands out a red, unlinked node that carries payload.
func (arena *rbArena[P]) alloc(payload P) rbNodeID {
	var id rbNodeID
	if l := len(arena.free); l > 0 {
		id = arena.free[l-1]
		arena.free = arena.free[:l-1]
	} else {
		if uint64(arena.next) >= rbArenaMaxID {
			panic(fmt.Sprintf("[rbtree] arena exhausted, %d nodes in use", arena.used))
		}
		id = arena.next
		arena.next++
		if int(id) >= arena.capacity() {
			arena.grow()
		}
	}
	node := arena.node(id)
	node.parent, node.left, node.right = rbNilID, rbNilID, rbNilID
	node.color = Red
	node.inUse = true
	node.payload = payload
	arena.used++
	return id
}

func (arena *rbArena[P]) release(id rbNodeID) {
	node := arena.node(id)
	if !node.inUse {
		panic( /* debug assertion */ "[rbtree] arena double release")
	}
	var zero P
	node.payload = zero
	node.parent, node.left, node.right = rbNilID, rbNilID, rbNilID
	node.color = Red
	node.inUse = false
	node.gen++
	arena.free = append(arena.free, id)
	arena.used--
}

// isLive reports whether id still refers to the node that was live
// when gen was observed.
func (arena *rbArena[P]) isLive(id rbNodeID, gen uint32) bool {
	if id == rbNilID || int(id) >= arena.capacity() || id >= arena.next {
		return false
	}
	node := arena.node(id)
	return node.inUse && node.gen == gen
}
