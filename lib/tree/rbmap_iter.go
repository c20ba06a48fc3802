package tree

// mapCursor carries the read accessors shared by every map iterator.
// Key and Val return copies, mutation goes through Ref or SetVal of
// the non-const iterators.
type mapCursor[K, V any] struct {
	cur rbCursor[Pair[K, V]]
}

func (c mapCursor[K, V]) Key() K {
	return c.cur.node().payload.Key
}

func (c mapCursor[K, V]) Val() V {
	return c.cur.node().payload.Val
}

func (c mapCursor[K, V]) Pair() Pair[K, V] {
	return c.cur.node().payload
}

func (c mapCursor[K, V]) IsEnd() bool {
	return c.cur.isEnd()
}

// IsValid is false once the entry has been erased or the map cleared.
func (c mapCursor[K, V]) IsValid() bool {
	return c.cur.isValid()
}

func (c mapCursor[K, V]) ref() *V {
	return &c.cur.node().payload.Val
}

// MapIter walks keys in ascending order.
type MapIter[K, V any] struct {
	mapCursor[K, V]
}

func (it MapIter[K, V]) Ref() *V {
	return it.ref()
}

func (it MapIter[K, V]) SetVal(val V) {
	*it.ref() = val
}

func (it MapIter[K, V]) Next() MapIter[K, V] {
	return MapIter[K, V]{mapCursor[K, V]{it.cur.next()}}
}

func (it MapIter[K, V]) Prev() MapIter[K, V] {
	return MapIter[K, V]{mapCursor[K, V]{it.cur.prev()}}
}

func (it MapIter[K, V]) Equal(other MapIter[K, V]) bool {
	return it.cur.equal(other.cur)
}

func (it MapIter[K, V]) Const() MapConstIter[K, V] {
	return MapConstIter[K, V]{it.mapCursor}
}

// MapConstIter walks keys in ascending order without write access.
type MapConstIter[K, V any] struct {
	mapCursor[K, V]
}

func (it MapConstIter[K, V]) Next() MapConstIter[K, V] {
	return MapConstIter[K, V]{mapCursor[K, V]{it.cur.next()}}
}

func (it MapConstIter[K, V]) Prev() MapConstIter[K, V] {
	return MapConstIter[K, V]{mapCursor[K, V]{it.cur.prev()}}
}

func (it MapConstIter[K, V]) Equal(other MapConstIter[K, V]) bool {
	return it.cur.equal(other.cur)
}

// MapReverseIter walks keys in descending order, Next moves to the
// previous key.
type MapReverseIter[K, V any] struct {
	mapCursor[K, V]
}

func (it MapReverseIter[K, V]) Ref() *V {
	return it.ref()
}

func (it MapReverseIter[K, V]) SetVal(val V) {
	*it.ref() = val
}

func (it MapReverseIter[K, V]) Next() MapReverseIter[K, V] {
	return MapReverseIter[K, V]{mapCursor[K, V]{it.cur.prev()}}
}

func (it MapReverseIter[K, V]) Prev() MapReverseIter[K, V] {
	return MapReverseIter[K, V]{mapCursor[K, V]{it.cur.next()}}
}

func (it MapReverseIter[K, V]) Equal(other MapReverseIter[K, V]) bool {
	return it.cur.equal(other.cur)
}

// Base converts to the forward iterator at the same entry.
func (it MapReverseIter[K, V]) Base() MapIter[K, V] {
	return MapIter[K, V]{it.mapCursor}
}

func (it MapReverseIter[K, V]) Const() MapConstReverseIter[K, V] {
	return MapConstReverseIter[K, V]{it.mapCursor}
}

type MapConstReverseIter[K, V any] struct {
	mapCursor[K, V]
}

func (it MapConstReverseIter[K, V]) Next() MapConstReverseIter[K, V] {
	return MapConstReverseIter[K, V]{mapCursor[K, V]{it.cur.prev()}}
}

func (it MapConstReverseIter[K, V]) Prev() MapConstReverseIter[K, V] {
	return MapConstReverseIter[K, V]{mapCursor[K, V]{it.cur.next()}}
}

func (it MapConstReverseIter[K, V]) Equal(other MapConstReverseIter[K, V]) bool {
	return it.cur.equal(other.cur)
}
