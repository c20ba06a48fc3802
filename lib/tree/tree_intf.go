package tree

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

// RBNode is a read-only view of a live node.
// It is only valid until the next mutation of its tree.
type RBNode[T any] interface {
	Val() T
	Color() RBColor
	Left() RBNode[T]
	Right() RBNode[T]
	Parent() RBNode[T]
}

type RBTree[T any] interface {
	Len() int64
	Root() RBNode[T]
	Begin() RBTreeIter[T]
	End() RBTreeIter[T]
	Last() RBTreeIter[T]
	Find(val T) RBTreeIter[T]
	Insert(val T) (RBTreeIter[T], bool)
	Remove(val T) (T, error)
	RemoveMin() (T, error)
	Erase(it RBTreeIter[T]) (RBTreeIter[T], error)
	Foreach(action func(idx int64, color RBColor, val T) bool)
	ForeachPostorder(action func(idx int64, color RBColor, val T) bool)
	Release()
}

type OrderedMap[K, V any] interface {
	Len() int64
	IsEmpty() bool
	Root() RBNode[Pair[K, V]]

	At(key K) (V, error)
	Ref(key K) *V
	Insert(pair Pair[K, V]) (MapIter[K, V], bool)
	Emplace(key K, val V) (MapIter[K, V], bool)
	Erase(it MapIter[K, V]) (MapIter[K, V], error)
	Remove(key K) (V, error)
	Clear()

	Find(key K) MapIter[K, V]
	Count(key K) int
	LowerBound(key K) MapIter[K, V]
	UpperBound(key K) MapIter[K, V]

	Begin() MapIter[K, V]
	End() MapIter[K, V]
	CBegin() MapConstIter[K, V]
	CEnd() MapConstIter[K, V]
	RBegin() MapReverseIter[K, V]
	REnd() MapReverseIter[K, V]
	CRBegin() MapConstReverseIter[K, V]
	CREnd() MapConstReverseIter[K, V]

	Foreach(action func(idx int64, key K, val V) bool)
	Keys() []K
	Values() []V
}
