package cache

import "sync"

// Store is the operation set shared by Cache and SafeCache.
type Store[K comparable, V any] interface {
	Set(key K, value V)
	Get(key K) (V, bool)
	Contains(key K) bool
	Count() int
	Remove(key K)
	RemoveMany(keys []K)
	RemoveAll()
	KeysMatching(fn func(key K, value V) (match, stop bool)) []K
	Keys() []K
	CountLimit() int
	SetCountLimit(n int)
	HitCount() uint64
	MissCount() uint64
	EvictionCount() uint64
	Stats() Stats
}

var (
	_ Store[string, any] = (*Cache[string, any])(nil)
	_ Store[string, any] = (*SafeCache[string, any])(nil)
)

// SafeCache is a Cache guarded by a single mutex.
//
// Get moves entries in the recency list, so every operation is a write and
// there is no read lock. All calls on one SafeCache are serialized.
type SafeCache[K comparable, V any] struct {
	mu    sync.Mutex
	inner *Cache[K, V]
}

// NewSafe constructs a cache that is safe for concurrent use.
func NewSafe[K comparable, V any](cfg Config) *SafeCache[K, V] {
	return &SafeCache[K, V]{inner: New[K, V](cfg)}
}

func (c *SafeCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Set(key, value)
}

func (c *SafeCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Get(key)
}

func (c *SafeCache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Contains(key)
}

func (c *SafeCache[K, V]) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Count()
}

func (c *SafeCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.Remove(key)
}

// RemoveMany removes all keys under one lock acquisition.
func (c *SafeCache[K, V]) RemoveMany(keys []K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.RemoveMany(keys)
}

func (c *SafeCache[K, V]) RemoveAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.RemoveAll()
}

// KeysMatching runs fn while holding the cache lock.
//
// fn must not call back into the same SafeCache (it would deadlock) and
// should return quickly, since every other caller waits for it.
func (c *SafeCache[K, V]) KeysMatching(fn func(key K, value V) (match, stop bool)) []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.KeysMatching(fn)
}

func (c *SafeCache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Keys()
}

func (c *SafeCache[K, V]) CountLimit() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.CountLimit()
}

func (c *SafeCache[K, V]) SetCountLimit(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner.SetCountLimit(n)
}

func (c *SafeCache[K, V]) HitCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.HitCount()
}

func (c *SafeCache[K, V]) MissCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.MissCount()
}

func (c *SafeCache[K, V]) EvictionCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.EvictionCount()
}

// Stats returns a snapshot taken under a single lock acquisition, so the
// counters, Count and CountLimit are mutually consistent.
func (c *SafeCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Stats()
}
