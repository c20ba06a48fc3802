package kv

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

var ErrThreadSafeMapKeyNotFound = errors.New("[kv] key not found")

type threadSafeMap[K infra.OrderedKey, V any] struct {
	lock           sync.RWMutex
	items          tree.OrderedMap[K, V]
	initCap        int
	isClosableItem bool
}

func (t *threadSafeMap[K, V]) newItems() tree.OrderedMap[K, V] {
	return tree.NewOrderedMap[K, V](tree.WithRBArenaCapacity(t.initCap))
}

// AddOrUpdate closes the replaced item if closable item check is enabled.
func (t *threadSafeMap[K, V]) AddOrUpdate(key K, obj V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	it, ok := t.items.Emplace(key, obj)
	if ok {
		return nil
	}
	old := it.Val()
	it.SetVal(obj)
	if t.isClosableItem {
		if err := closeItem(old); err != nil {
			return fmt.Errorf("close replaced item %v: %w", key, err)
		}
	}
	return nil
}

func (t *threadSafeMap[K, V]) Replace(items map[K]V) {
	newItems := t.newItems()
	for key, item := range items {
		newItems.Emplace(key, item)
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	t.items = newItems
}

func (t *threadSafeMap[K, V]) Delete(key K) (V, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	item, err := t.items.Remove(key)
	if err != nil {
		return item, fmt.Errorf("delete %v: %w", key, ErrThreadSafeMapKeyNotFound)
	}
	return item, nil
}

func (t *threadSafeMap[K, V]) Get(key K) (item V, exists bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	item, err := t.items.At(key)
	return item, err == nil
}

func (t *threadSafeMap[K, V]) Len() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Len()
}

// ListKeys returns keys matching any of the filters.
func (t *threadSafeMap[K, V]) ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K {
	realFilters := lo.Filter(filters, func(filter SafeStoreKeyFilterFunc[K], _ int) bool {
		return filter != nil
	})
	if len(realFilters) == 0 {
		realFilters = append(realFilters, defaultAllKeysFilter[K])
	}

	t.lock.RLock()
	defer t.lock.RUnlock()

	keys := make([]K, 0, t.items.Len())
	t.items.Foreach(func(_ int64, key K, _ V) bool {
		if lo.ContainsBy(realFilters, func(filter SafeStoreKeyFilterFunc[K]) bool {
			return filter(key)
		}) {
			keys = append(keys, key)
		}
		return true
	})
	return keys
}

// ListKeysBetween returns keys in [from, to).
func (t *threadSafeMap[K, V]) ListKeysBetween(from, to K) []K {
	t.lock.RLock()
	defer t.lock.RUnlock()

	keys := make([]K, 0, 16)
	for it := t.items.LowerBound(from); !it.IsEnd() && it.Key() < to; it = it.Next() {
		keys = append(keys, it.Key())
	}
	return keys
}

// ListValues returns the values of keys, or of every key if none given.
func (t *threadSafeMap[K, V]) ListValues(keys ...K) (items []V) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if len(keys) == 0 {
		return t.items.Values()
	}
	realKeys := lo.Uniq(keys)
	values := make([]V, 0, len(realKeys))
	for it := t.items.Begin(); !it.IsEnd(); it = it.Next() {
		if lo.Contains(realKeys, it.Key()) {
			values = append(values, it.Val())
		}
	}
	return values
}

// Purge closes every closable item and drops all of them.
func (t *threadSafeMap[K, V]) Purge() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	var merr error
	if t.isClosableItem {
		t.items.Foreach(func(_ int64, key K, item V) bool {
			if err := closeItem(item); err != nil {
				merr = multierr.Append(merr, fmt.Errorf("close item %v: %w", key, err))
			}
			return true
		})
	}
	t.items.Clear()
	return merr
}

func closeItem(item any) error {
	closer, ok := item.(io.Closer)
	if !ok || closer == nil {
		return nil
	}
	if v := reflect.ValueOf(closer); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return closer.Close()
}

type ThreadSafeMapOption[K infra.OrderedKey, V any] func(*threadSafeMap[K, V])

func WithThreadSafeMapInitCap[K infra.OrderedKey, V any](capacity uint32) ThreadSafeMapOption[K, V] {
	return func(t *threadSafeMap[K, V]) {
		t.initCap = int(capacity)
	}
}

// WithThreadSafeMapCloseableItemCheck closes io.Closer items on Purge
// and when they are replaced.
func WithThreadSafeMapCloseableItemCheck[K infra.OrderedKey, V any]() ThreadSafeMapOption[K, V] {
	return func(t *threadSafeMap[K, V]) {
		t.isClosableItem = true
	}
}

func NewThreadSafeMap[K infra.OrderedKey, V any](opts ...ThreadSafeMapOption[K, V]) ThreadSafeStorer[K, V] {
	m := &threadSafeMap[K, V]{}
	for _, o := range opts {
		if o != nil {
			o(m)
		}
	}
	m.items = m.newItems()
	return m
}
