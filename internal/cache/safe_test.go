package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSafeCache_SameSemantics(t *testing.T) {
	c := NewSafe[string, int](Config{CountLimit: 3})
	fill(c, "a", "b", "c")
	c.Get("a")
	c.Set("d", 4)

	assert.False(t, c.Contains("b"))
	assert.Equal(t, []string{"d", "a", "c"}, c.Keys())
	assert.Equal(t, Stats{Hits: 1, Misses: 0, Evictions: 1, Count: 3, CountLimit: 3}, c.Stats())

	c.SetCountLimit(1)
	assert.Equal(t, 1, c.CountLimit())
	assert.Equal(t, []string{"d"}, c.Keys())
	assert.Equal(t, uint64(3), c.EvictionCount())

	c.RemoveMany([]string{"d", "x"})
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, uint64(1), c.HitCount())
	assert.Equal(t, uint64(0), c.MissCount())
}

func TestSafeCache_ConcurrentDisjointWriters(t *testing.T) {
	const (
		workers   = 8
		perWorker = 500
	)

	c := NewSafe[CollectionKey, int](Config{})

	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			collection := fmt.Sprintf("worker-%d", w)
			for i := range perWorker {
				key := NewCollectionKey(collection, fmt.Sprint(i))
				c.Set(key, i)
				v, ok := c.Get(key)
				if !ok || v != i {
					return fmt.Errorf("%s: got (%d, %v), want (%d, true)", key, v, ok, i)
				}
				c.Get(NewCollectionKey(collection, "absent"))
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// Matches any serial execution of the same calls.
	assert.Equal(t, Stats{
		Hits:       workers * perWorker,
		Misses:     workers * perWorker,
		Evictions:  0,
		Count:      workers * perWorker,
		CountLimit: 0,
	}, c.Stats())
}

func TestSafeCache_ConcurrentWithLimit(t *testing.T) {
	const (
		workers   = 8
		perWorker = 300
		limit     = 50
	)

	c := NewSafe[CollectionKey, int](Config{CountLimit: limit})

	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			collection := fmt.Sprintf("worker-%d", w)
			for i := range perWorker {
				c.Set(NewCollectionKey(collection, fmt.Sprint(i)), i)
				if n := c.Count(); n > limit {
					return fmt.Errorf("count %d exceeds limit %d", n, limit)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// Every insert was of a new key, so all but the last limit were evicted.
	assert.Equal(t, limit, c.Count())
	assert.Equal(t, uint64(workers*perWorker-limit), c.EvictionCount())
}

func TestSafeCache_KeysMatchingUnderContention(t *testing.T) {
	c := NewSafe[int, int](Config{})
	for i := range 100 {
		c.Set(i, i)
	}

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 100; i < 200; i++ {
				c.Set(i, i)
			}
		}()
	}

	for range 10 {
		keys := c.KeysMatching(func(k, v int) (bool, bool) {
			return k < 100 && v%10 == 0, false
		})
		assert.Len(t, keys, 10)
	}
	wg.Wait()

	assert.Equal(t, 200, c.Count())
	assert.Equal(t, uint64(0), c.HitCount()+c.MissCount())
}
