package tree

import (
	"errors"
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	ErrRBTreeEmpty           = errors.New("[rbtree] empty tree")
	ErrRBTreeNotFound        = errors.New("[rbtree] key not found")
	ErrRBTreeInvalidIterator = errors.New("[rbtree] invalid iterator")
)

var _ RBTree[int] = (*rbTree[int])(nil)

// rbTree is a set of T without equivalent duplicates.
type rbTree[T any] struct {
	core *rbCore[T]
}

func (tree *rbTree[T]) Len() int64 {
	return tree.core.len()
}

func (tree *rbTree[T]) Root() RBNode[T] {
	return tree.core.view(tree.core.root)
}

func (tree *rbTree[T]) Begin() RBTreeIter[T] {
	return RBTreeIter[T]{cur: tree.core.cursor(tree.core.first(tree.core.root))}
}

func (tree *rbTree[T]) End() RBTreeIter[T] {
	return RBTreeIter[T]{cur: tree.core.cursor(rbNilID)}
}

func (tree *rbTree[T]) Last() RBTreeIter[T] {
	return RBTreeIter[T]{cur: tree.core.cursor(tree.core.last(tree.core.root))}
}

func (tree *rbTree[T]) Find(val T) RBTreeIter[T] {
	return RBTreeIter[T]{cur: tree.core.cursor(tree.core.search(val))}
}

// Insert returns the node holding an equivalent value and false
// if there is one, the tree is left untouched in that case.
func (tree *rbTree[T]) Insert(val T) (RBTreeIter[T], bool) {
	id, ok := tree.core.insert(val)
	return RBTreeIter[T]{cur: tree.core.cursor(id)}, ok
}

func (tree *rbTree[T]) Remove(val T) (T, error) {
	var zero T
	if tree.core.root == rbNilID {
		return zero, ErrRBTreeEmpty
	}
	id := tree.core.search(val)
	if id == rbNilID {
		return zero, fmt.Errorf("remove %v: %w", val, ErrRBTreeNotFound)
	}
	return tree.core.erase(id), nil
}

func (tree *rbTree[T]) RemoveMin() (T, error) {
	var zero T
	if tree.core.root == rbNilID {
		return zero, ErrRBTreeEmpty
	}
	return tree.core.erase(tree.core.first(tree.core.root)), nil
}

// Erase removes the node at it and returns its in-order successor.
func (tree *rbTree[T]) Erase(it RBTreeIter[T]) (RBTreeIter[T], error) {
	if it.cur.core != tree.core || !it.cur.isLive() {
		return tree.End(), ErrRBTreeInvalidIterator
	}
	next := tree.core.next(it.cur.id)
	tree.core.erase(it.cur.id)
	return RBTreeIter[T]{cur: tree.core.cursor(next)}, nil
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[T]) Foreach(action func(idx int64, color RBColor, val T) bool) {
	idx := int64(0)
	for id := tree.core.first(tree.core.root); id != rbNilID; id = tree.core.next(id) {
		n := tree.core.node(id)
		if !action(idx, n.color, n.payload) {
			return
		}
		idx++
	}
}

// ForeachPostorder visits children before parents.
func (tree *rbTree[T]) ForeachPostorder(action func(idx int64, color RBColor, val T) bool) {
	idx := int64(0)
	for id := tree.core.firstPostorder(tree.core.root); id != rbNilID; id = tree.core.nextPostorder(id) {
		n := tree.core.node(id)
		if !action(idx, n.color, n.payload) {
			return
		}
		idx++
	}
}

// Release drops every node. All iterators except End become invalid.
func (tree *rbTree[T]) Release() {
	tree.core.clear()
}

func NewRBTree[T infra.OrderedKey](opts ...RBTreeOpt) RBTree[T] {
	return NewRBTreeFunc[T](infra.DefaultLess[T], opts...)
}

// NewRBTreeFunc orders the values by less, which must be a strict weak order.
func NewRBTreeFunc[T any](less infra.OrderedKeyLess[T], opts ...RBTreeOpt) RBTree[T] {
	return &rbTree[T]{
		core: newRBCore[T](less, newRBOptions(opts...)),
	}
}
