package kv

import (
	"io"

	"github.com/benz9527/xtree/lib/infra"
)

type SafeStoreKeyFilterFunc[K any] func(key K) bool

func defaultAllKeysFilter[K any](key K) bool {
	return true
}

type Closable interface {
	io.Closer
}

// ThreadSafeStorer is an ordered store guarded by a RWMutex.
// Every listing comes back in ascending key order.
type ThreadSafeStorer[K infra.OrderedKey, V any] interface {
	Purge() error
	AddOrUpdate(key K, obj V) error
	Replace(items map[K]V)
	Delete(key K) (V, error)
	Get(key K) (item V, exists bool)
	Len() int64
	ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K
	ListKeysBetween(from, to K) []K
	ListValues(keys ...K) (items []V)
}
