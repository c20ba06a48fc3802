package tree

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	ErrOrderedMapOutOfRange      = errors.New("[rbmap] key out of range")
	ErrOrderedMapKeyNotFound     = errors.New("[rbmap] key not found")
	ErrOrderedMapInvalidIterator = errors.New("[rbmap] invalid iterator")
)

type Pair[K, V any] struct {
	Key K
	Val V
}

func MakePair[K, V any](key K, val V) Pair[K, V] {
	return Pair[K, V]{Key: key, Val: val}
}

var _ OrderedMap[int, int] = (*rbMap[int, int])(nil)

// rbMap keys are unique under the key less function.
// Values are stored in place, a *V returned by Ref stays valid until
// its entry is erased.
type rbMap[K, V any] struct {
	core *rbCore[Pair[K, V]]
}

func (m *rbMap[K, V]) probe(key K) Pair[K, V] {
	return Pair[K, V]{Key: key}
}

func (m *rbMap[K, V]) iter(id rbNodeID) MapIter[K, V] {
	return MapIter[K, V]{mapCursor[K, V]{m.core.cursor(id)}}
}

func (m *rbMap[K, V]) Len() int64 {
	return m.core.len()
}

func (m *rbMap[K, V]) IsEmpty() bool {
	return m.core.len() == 0
}

func (m *rbMap[K, V]) Root() RBNode[Pair[K, V]] {
	return m.core.view(m.core.root)
}

func (m *rbMap[K, V]) At(key K) (V, error) {
	if id := m.core.search(m.probe(key)); id != rbNilID {
		return m.core.node(id).payload.Val, nil
	}
	var zero V
	return zero, fmt.Errorf("at %v: %w", key, ErrOrderedMapOutOfRange)
}

// Ref inserts the zero value when key is absent and returns the
// address of the stored value.
func (m *rbMap[K, V]) Ref(key K) *V {
	id, _ := m.core.insert(m.probe(key))
	return &m.core.node(id).payload.Val
}

func (m *rbMap[K, V]) Insert(pair Pair[K, V]) (MapIter[K, V], bool) {
	id, ok := m.core.insert(pair)
	return m.iter(id), ok
}

func (m *rbMap[K, V]) Emplace(key K, val V) (MapIter[K, V], bool) {
	return m.Insert(MakePair(key, val))
}

// Erase removes the entry at it and returns its in-order successor.
func (m *rbMap[K, V]) Erase(it MapIter[K, V]) (MapIter[K, V], error) {
	if it.cur.core != m.core || !it.cur.isLive() {
		return m.End(), ErrOrderedMapInvalidIterator
	}
	next := m.core.next(it.cur.id)
	m.core.erase(it.cur.id)
	return m.iter(next), nil
}

func (m *rbMap[K, V]) Remove(key K) (V, error) {
	id := m.core.search(m.probe(key))
	if id == rbNilID {
		var zero V
		return zero, fmt.Errorf("remove %v: %w", key, ErrOrderedMapKeyNotFound)
	}
	return m.core.erase(id).Val, nil
}

func (m *rbMap[K, V]) Clear() {
	m.core.clear()
}

func (m *rbMap[K, V]) Find(key K) MapIter[K, V] {
	return m.iter(m.core.search(m.probe(key)))
}

func (m *rbMap[K, V]) Count(key K) int {
	if m.core.search(m.probe(key)) != rbNilID {
		return 1
	}
	return 0
}

// LowerBound returns the first entry whose key is not less than key.
func (m *rbMap[K, V]) LowerBound(key K) MapIter[K, V] {
	return m.iter(m.core.lowerBound(m.probe(key)))
}

// UpperBound returns the first entry whose key is greater than key.
func (m *rbMap[K, V]) UpperBound(key K) MapIter[K, V] {
	return m.iter(m.core.upperBound(m.probe(key)))
}

func (m *rbMap[K, V]) Begin() MapIter[K, V] {
	return m.iter(m.core.first(m.core.root))
}

func (m *rbMap[K, V]) End() MapIter[K, V] {
	return m.iter(rbNilID)
}

func (m *rbMap[K, V]) CBegin() MapConstIter[K, V] {
	return m.Begin().Const()
}

func (m *rbMap[K, V]) CEnd() MapConstIter[K, V] {
	return m.End().Const()
}

func (m *rbMap[K, V]) RBegin() MapReverseIter[K, V] {
	return MapReverseIter[K, V]{mapCursor[K, V]{m.core.cursor(m.core.last(m.core.root))}}
}

func (m *rbMap[K, V]) REnd() MapReverseIter[K, V] {
	return MapReverseIter[K, V]{mapCursor[K, V]{m.core.cursor(rbNilID)}}
}

func (m *rbMap[K, V]) CRBegin() MapConstReverseIter[K, V] {
	return m.RBegin().Const()
}

func (m *rbMap[K, V]) CREnd() MapConstReverseIter[K, V] {
	return m.REnd().Const()
}

func (m *rbMap[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	idx := int64(0)
	for id := m.core.first(m.core.root); id != rbNilID; id = m.core.next(id) {
		n := m.core.node(id)
		if !action(idx, n.payload.Key, n.payload.Val) {
			return
		}
		idx++
	}
}

func (m *rbMap[K, V]) Keys() []K {
	keys := make([]K, 0, m.core.len())
	m.Foreach(func(_ int64, key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (m *rbMap[K, V]) Values() []V {
	vals := make([]V, 0, m.core.len())
	m.Foreach(func(_ int64, _ K, val V) bool {
		vals = append(vals, val)
		return true
	})
	return vals
}

func NewOrderedMap[K infra.OrderedKey, V any](opts ...RBTreeOpt) OrderedMap[K, V] {
	return NewOrderedMapFunc[K, V](infra.DefaultLess[K], opts...)
}

// NewOrderedMapFunc orders the keys by less, which must be a strict weak order.
func NewOrderedMapFunc[K, V any](less infra.OrderedKeyLess[K], opts ...RBTreeOpt) OrderedMap[K, V] {
	if less == nil {
		panic("[rbmap] nil less function")
	}
	return &rbMap[K, V]{
		core: newRBCore[Pair[K, V]](func(i, j Pair[K, V]) bool {
			return less(i.Key, j.Key)
		}, newRBOptions(opts...)),
	}
}

// NewOrderedMapFrom keeps the first occurrence of every key.
func NewOrderedMapFrom[K infra.OrderedKey, V any](entries []lo.Entry[K, V], opts ...RBTreeOpt) OrderedMap[K, V] {
	if len(entries) > 0 {
		opts = append([]RBTreeOpt{WithRBArenaCapacity(len(entries))}, opts...)
	}
	m := NewOrderedMap[K, V](opts...)
	for _, e := range entries {
		m.Emplace(e.Key, e.Value)
	}
	return m
}
