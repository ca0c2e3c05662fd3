package cache

import "container/list"

// DefaultCountLimit is the count limit used by DefaultConfig.
const DefaultCountLimit = 40

// Config controls cache capacity.
//
//   - CountLimit == 0 means "unlimited" (no LRU eviction)
//   - CapacityHint sizes the internal map up front; it never limits anything
//
// A zero Config is an unlimited cache. Use DefaultConfig for the usual limit.
type Config struct {
	CapacityHint int
	CountLimit   int
}

// DefaultConfig returns a Config with CountLimit set to DefaultCountLimit.
func DefaultConfig() Config {
	return Config{CountLimit: DefaultCountLimit}
}

// Stats is a point-in-time view of a cache's counters.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Count      int
	CountLimit int
}

// Cache is a strict-capacity LRU cache.
//
// A map gives O(1) key lookup, and a doubly-linked list maintains recency
// ordering. The count limit is enforced before Set or SetCountLimit returns,
// not at some later point.
//
// Cache is not safe for concurrent use. Callers must serialize access
// themselves (one goroutine, or an outer lock); otherwise use SafeCache.
type Cache[K comparable, V any] struct {
	countLimit int
	items      map[K]*list.Element
	lru        *list.List // Front = least recently used (LRU), Back = most recently used (MRU)

	hits      uint64
	misses    uint64
	evictions uint64
}

// entry is the value stored in the LRU list elements.
// We keep the key here because eviction starts from list nodes.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// New constructs an unsynchronized cache.
//
// Negative CountLimit or CapacityHint values are treated as zero.
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	return &Cache[K, V]{
		countLimit: max(cfg.CountLimit, 0),
		items:      make(map[K]*list.Element, max(cfg.CapacityHint, 0)),
		lru:        list.New(),
	}
}

// Set inserts or overwrites a key and makes it the most recently used entry.
//
// Overwriting an existing key never evicts. Inserting a new key into a full
// cache evicts exactly one entry, the least recently used one.
//
// The value must be present: storing a nil pointer, map, slice or interface
// is a caller error and is not checked.
func (c *Cache[K, V]) Set(key K, value V) {
	if el, ok := c.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		c.lru.MoveToBack(el)
		return
	}

	c.items[key] = c.lru.PushBack(&entry[K, V]{key: key, value: value})

	if c.countLimit != 0 && len(c.items) > c.countLimit {
		c.evictOldest()
	}
}

// Get returns the value for key and promotes it to most recently used.
//
// A hit increments HitCount, a miss increments MissCount.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	el, ok := c.items[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}

	c.hits++
	c.lru.MoveToBack(el)
	return el.Value.(*entry[K, V]).value, true
}

// Contains reports whether key is cached without touching recency or counters.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Count returns the number of cached entries.
func (c *Cache[K, V]) Count() int {
	return len(c.items)
}

// Remove deletes key if present. A missing key is a no-op.
func (c *Cache[K, V]) Remove(key K) {
	el, ok := c.items[key]
	if !ok {
		return
	}
	delete(c.items, key)
	c.lru.Remove(el)
}

// RemoveMany removes each key in turn; missing keys are skipped.
func (c *Cache[K, V]) RemoveMany(keys []K) {
	for _, key := range keys {
		c.Remove(key)
	}
}

// RemoveAll drops every entry. Counters are left untouched.
func (c *Cache[K, V]) RemoveAll() {
	clear(c.items)
	c.lru.Init()
}

// KeysMatching returns the keys whose entries satisfy fn, ordered from least
// to most recently used.
//
// The scan is read-only: recency and counters are unchanged. Returning
// stop == true ends the scan after the current entry, which is still included
// when match is true.
func (c *Cache[K, V]) KeysMatching(fn func(key K, value V) (match, stop bool)) []K {
	var out []K
	for el := c.lru.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry[K, V])
		match, stop := fn(e.key, e.value)
		if match {
			out = append(out, e.key)
		}
		if stop {
			break
		}
	}
	return out
}

// Keys returns keys in MRU -> LRU order without promoting any of them.
func (c *Cache[K, V]) Keys() []K {
	out := make([]K, 0, c.lru.Len())
	for el := c.lru.Back(); el != nil; el = el.Prev() {
		out = append(out, el.Value.(*entry[K, V]).key)
	}
	return out
}

// CountLimit returns the current count limit; 0 means unlimited.
func (c *Cache[K, V]) CountLimit() int {
	return c.countLimit
}

// SetCountLimit changes the count limit immediately.
//
// Lowering the limit below Count evicts least recently used entries, one
// eviction per removed entry, until the cache fits. Raising it, or setting
// it to 0 (unlimited), evicts nothing. Negative values are treated as zero.
func (c *Cache[K, V]) SetCountLimit(n int) {
	c.countLimit = max(n, 0)
	if c.countLimit == 0 {
		return
	}
	for len(c.items) > c.countLimit {
		c.evictOldest()
	}
}

// HitCount returns the number of Get calls that found their key.
func (c *Cache[K, V]) HitCount() uint64 { return c.hits }

// MissCount returns the number of Get calls that did not find their key.
func (c *Cache[K, V]) MissCount() uint64 { return c.misses }

// EvictionCount returns the number of entries dropped to honor the count limit.
func (c *Cache[K, V]) EvictionCount() uint64 { return c.evictions }

// Stats returns all counters together with Count and CountLimit.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:       c.hits,
		Misses:     c.misses,
		Evictions:  c.evictions,
		Count:      len(c.items),
		CountLimit: c.countLimit,
	}
}

func (c *Cache[K, V]) evictOldest() {
	el := c.lru.Front()
	if el == nil {
		return
	}
	c.lru.Remove(el)
	delete(c.items, el.Value.(*entry[K, V]).key)
	c.evictions++
}
