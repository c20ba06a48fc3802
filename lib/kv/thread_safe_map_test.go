package kv

import (
	"errors"
	"fmt"
	randv2 "math/rand/v2"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func genStrKeys(strLen, count int) (keys []string) {
	src := randv2.New(randv2.NewPCG(uint64(strLen), uint64(count)))
	letters := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	l := len(letters)
	r := make([]rune, strLen*count)
	for i := range r {
		r[i] = letters[src.IntN(l)]
	}
	keys = make([]string, count)
	for i := range keys {
		keys[i] = string(r[:strLen])
		r = r[strLen:]
	}
	return lo.Uniq(keys)
}

func TestThreadSafeMap_SimpleCRUD(t *testing.T) {
	keys := genStrKeys(8, 10000)
	vals := make([]int, 0, len(keys))
	m := make(map[string]int, len(keys))
	_m := NewThreadSafeMap[string, int](WithThreadSafeMapInitCap[string, int](10_000),
		WithThreadSafeMapCloseableItemCheck[string, int](),
	)
	for i, key := range keys {
		m[key] = i
		vals = append(vals, i)
	}
	_m.Replace(m)
	require.Equal(t, int64(len(keys)), _m.Len())

	_keys := _m.ListKeys()
	require.Equal(t, len(keys), len(_keys))
	require.ElementsMatch(t, keys, _keys)
	require.True(t, sort.StringsAreSorted(_keys))

	_vals := _m.ListValues()
	require.ElementsMatch(t, vals, _vals)

	i := 1001
	res, exists := _m.Get(keys[i])
	require.True(t, exists)
	require.Equal(t, i, res)

	res, err := _m.Delete(keys[i])
	require.NoError(t, err)
	require.Equal(t, i, res)
	_, exists = _m.Get(keys[i])
	require.False(t, exists)
	_, err = _m.Delete(keys[i])
	require.ErrorIs(t, err, ErrThreadSafeMapKeyNotFound)

	err = _m.AddOrUpdate(keys[i], i)
	require.NoError(t, err)

	_keys = _m.ListKeys()
	require.Equal(t, len(keys), len(_keys))
	require.ElementsMatch(t, keys, _keys)

	_vals = _m.ListValues()
	require.ElementsMatch(t, vals, _vals)

	err = _m.Purge()
	require.NoError(t, err)
	require.Equal(t, int64(0), _m.Len())
	require.Empty(t, _m.ListKeys())
}

func TestThreadSafeMap_OrderedListing(t *testing.T) {
	m := NewThreadSafeMap[int, string]()
	for _, k := range []int{50, 10, 40, 20, 30, 60} {
		require.NoError(t, m.AddOrUpdate(k, strconv.Itoa(k)))
	}
	require.NoError(t, m.AddOrUpdate(30, "thirty"))
	require.Equal(t, int64(6), m.Len())

	require.Equal(t, []int{10, 20, 30, 40, 50, 60}, m.ListKeys())
	require.Equal(t, []string{"10", "20", "thirty", "40", "50", "60"}, m.ListValues())

	even := func(key int) bool { return key%20 == 0 }
	big := func(key int) bool { return key > 45 }
	require.Equal(t, []int{20, 40, 60}, m.ListKeys(even))
	require.Equal(t, []int{20, 40, 50, 60}, m.ListKeys(even, big))
	require.Equal(t, []int{10, 20, 30, 40, 50, 60}, m.ListKeys(nil))

	require.Equal(t, []string{"10", "50"}, m.ListValues(50, 10, 50, 99))

	require.Equal(t, []int{20, 30, 40}, m.ListKeysBetween(20, 50))
	require.Equal(t, []int{20, 30, 40}, m.ListKeysBetween(15, 41))
	require.Equal(t, []int{10, 20, 30, 40, 50, 60}, m.ListKeysBetween(0, 100))
	require.Empty(t, m.ListKeysBetween(61, 100))
	require.Empty(t, m.ListKeysBetween(30, 30))
	require.Empty(t, m.ListKeysBetween(50, 20))
}

type closableItem struct {
	id     int
	closed *atomic.Int32
	err    error
}

func (c *closableItem) Close() error {
	c.closed.Add(1)
	return c.err
}

func TestThreadSafeMap_CloseableItems(t *testing.T) {
	closed := &atomic.Int32{}
	m := NewThreadSafeMap[int, *closableItem](
		WithThreadSafeMapCloseableItemCheck[int, *closableItem](),
	)
	for i := 0; i < 10; i++ {
		require.NoError(t, m.AddOrUpdate(i, &closableItem{id: i, closed: closed}))
	}
	require.NoError(t, m.AddOrUpdate(10, nil))

	// Replacing an item closes the previous one.
	require.NoError(t, m.AddOrUpdate(3, &closableItem{id: 33, closed: closed}))
	require.Equal(t, int32(1), closed.Load())
	item, ok := m.Get(3)
	require.True(t, ok)
	require.Equal(t, 33, item.id)

	errClose := errors.New("close failed")
	require.NoError(t, m.AddOrUpdate(5, &closableItem{id: 55, closed: closed, err: errClose}))
	require.Equal(t, int32(2), closed.Load())
	require.NoError(t, m.AddOrUpdate(6, &closableItem{id: 66, closed: closed, err: errClose}))
	require.Equal(t, int32(3), closed.Load())

	err := m.Purge()
	require.ErrorIs(t, err, errClose)
	require.Contains(t, err.Error(), "close item 5")
	require.Contains(t, err.Error(), "close item 6")
	require.Equal(t, int32(13), closed.Load())
	require.Equal(t, int64(0), m.Len())

	// Without the check nothing gets closed.
	closed.Store(0)
	plain := NewThreadSafeMap[int, *closableItem]()
	require.NoError(t, plain.AddOrUpdate(1, &closableItem{closed: closed}))
	require.NoError(t, plain.AddOrUpdate(1, &closableItem{closed: closed}))
	require.NoError(t, plain.Purge())
	require.Equal(t, int32(0), closed.Load())
}

func TestThreadSafeMap_ConcurrentAccess(t *testing.T) {
	const workers, perWorker = 8, 500
	m := NewThreadSafeMap[int, int](WithThreadSafeMapInitCap[int, int](workers * perWorker))
	wg := sync.WaitGroup{}
	wg.Add(workers * 2)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := w*perWorker + i
				assert.NoError(t, m.AddOrUpdate(key, key*2))
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				keys := m.ListKeysBetween(0, workers*perWorker)
				if !sort.IntsAreSorted(keys) {
					t.Errorf("unsorted keys")
					return
				}
				m.Get(randv2.IntN(workers * perWorker))
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(workers*perWorker), m.Len())
	keys := m.ListKeys()
	require.Len(t, keys, workers*perWorker)
	for i, key := range keys {
		require.Equal(t, i, key)
		v, ok := m.Get(key)
		require.True(t, ok)
		require.Equal(t, key*2, v)
	}
}

func BenchmarkThreadSafeMapReadWrite(b *testing.B) {
	value := []byte(`abc`)
	for i := 0; i <= 10; i += 5 {
		b.Run(fmt.Sprintf("ThreadSafeMap frac_%d", i), func(bb *testing.B) {
			readFrac := float32(i) / 10.0
			tsm := NewThreadSafeMap[int, []byte](
				WithThreadSafeMapInitCap[int, []byte](4096),
			)
			bb.ResetTimer()
			count := atomic.Int32{}
			bb.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if randv2.Float32() < readFrac {
						v, exists := tsm.Get(randv2.IntN(1 << 16))
						if exists && v != nil {
							count.Add(1)
						}
					} else {
						_ = tsm.AddOrUpdate(randv2.IntN(1<<16), value)
					}
				}
			})
		})
		b.Run(fmt.Sprintf("SyncMap frac_%d", i), func(bb *testing.B) {
			readFrac := float32(i) / 10.0
			tsm := sync.Map{}
			bb.ResetTimer()
			count := atomic.Int32{}
			bb.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if randv2.Float32() < readFrac {
						v, exists := tsm.Load(randv2.IntN(1 << 16))
						if exists && v != nil {
							count.Add(1)
						}
					} else {
						tsm.Store(randv2.IntN(1<<16), value)
					}
				}
			})
		})
	}
}
