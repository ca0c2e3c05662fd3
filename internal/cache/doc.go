// Package cache implements the in-process object cache that sits in front of
// the key-value store.
//
// Goals for this package:
//   - Strict count limit: eviction happens inside the call that overflows the cache
//   - Exact LRU order, where both reads and writes count as use
//   - O(1) Set/Get/Remove via map index + LRU list pointers
//   - One algorithm, two concurrency contracts
//
// Cache assumes the caller already serializes access (a single goroutine or
// an outer lock) and takes no locks itself. SafeCache wraps a Cache with one
// mutex and may be shared freely between goroutines. Both satisfy Store, so
// higher-level caches (rows, metadata, indexes) pick a variant at
// construction and otherwise use the same calls.
//
// CollectionKey lets one flat cache hold several namespaces of string keys.
package cache
