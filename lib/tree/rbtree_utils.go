package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	ErrRBTreeRootViolation  = errors.New("[rbtree] root violation")
	ErrRBTreeRedViolation   = errors.New("[rbtree] red violation")
	ErrRBTreeBlackViolation = errors.New("[rbtree] black violation")
	ErrRBTreeOrderViolation = errors.New("[rbtree] order violation")
	ErrRBTreeLinkViolation  = errors.New("[rbtree] link violation")
)

func isBlack[P any](node RBNode[P]) bool {
	return node == nil || node.Color() == Black
}

func isRed[P any](node RBNode[P]) bool {
	return node != nil && node.Color() == Red
}

func blackDepthTo[P any](target, to RBNode[P]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack[P](aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func RootViolationValidate[P any](root RBNode[P]) error {
	if root == nil {
		return nil
	}
	if root.Parent() != nil {
		return fmt.Errorf("%w: root %v has a parent", ErrRBTreeRootViolation, root.Val())
	}
	if isRed[P](root) {
		return fmt.Errorf("%w: root %v is red", ErrRBTreeRootViolation, root.Val())
	}
	return nil
}

// Inorder traversal to validate the rbtree properties.
func RedViolationValidate[P any](root RBNode[P]) error {
	var aux RBNode[P] = root
	if aux == nil {
		return nil
	}

	stack := make([]RBNode[P], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; isRed[P](aux) {
			if isRed[P](aux.Left()) || isRed[P](aux.Right()) {
				return fmt.Errorf("%w: red node %v has a red child", ErrRBTreeRedViolation, aux.Val())
			}
		}

		stack = stack[:size-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// BFS traversal to load all nodes owning at least one nil child.
func bfsLeaves[P any](root RBNode[P]) []RBNode[P] {
	if root == nil {
		return nil
	}

	leaves := make([]RBNode[P], 0, 32)
	queue := make([]RBNode[P], 0, 32)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, root)

	for len(queue) > 0 {
		aux := queue[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[P any](root RBNode[P]) error {
	leaves := bfsLeaves[P](root)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[P](leaves[0], nil)
	for i := 1; i < len(leaves); i++ {
		if depth := blackDepthTo[P](leaves[i], nil); depth != blackDepth {
			return fmt.Errorf("%w: node %v black depth %d, expected %d",
				ErrRBTreeBlackViolation, leaves[i].Val(), depth, blackDepth)
		}
	}
	return nil
}

// OrderViolationValidate requires a strictly increasing inorder sequence.
func OrderViolationValidate[P any](root RBNode[P], less infra.OrderedKeyLess[P]) error {
	aux := root
	var prev RBNode[P]
	stack := make([]RBNode[P], 0, 32)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		if prev != nil && !less(prev.Val(), aux.Val()) {
			return fmt.Errorf("%w: %v is not less than %v", ErrRBTreeOrderViolation, prev.Val(), aux.Val())
		}
		prev = aux

		stack = stack[:size-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// LinkViolationValidate checks every child points back to its parent.
func LinkViolationValidate[P any](root RBNode[P]) error {
	if root == nil {
		return nil
	}
	queue := []RBNode[P]{root}
	for len(queue) > 0 {
		aux := queue[0]
		queue = queue[1:]
		for _, child := range [2]RBNode[P]{aux.Left(), aux.Right()} {
			if child == nil {
				continue
			}
			if child.Parent() != aux {
				return fmt.Errorf("%w: parent of %v is not %v", ErrRBTreeLinkViolation, child.Val(), aux.Val())
			}
			queue = append(queue, child)
		}
	}
	return nil
}

// ValidateRBTree reports every violated property at once.
func ValidateRBTree[P any](root RBNode[P], less infra.OrderedKeyLess[P]) error {
	return multierr.Combine(
		RootViolationValidate[P](root),
		RedViolationValidate[P](root),
		BlackViolationValidate[P](root),
		OrderViolationValidate[P](root, less),
		LinkViolationValidate[P](root),
	)
}
