package cache

import "github.com/cespare/xxhash/v2"

// CollectionKey namespaces a key inside a collection so several logical
// key spaces can share one flat cache.
//
// The fields are unexported: a CollectionKey cannot change after
// construction, which keeps it safe to use as a map key. It is comparable,
// and == compares both components exactly (case-sensitive).
type CollectionKey struct {
	collection string
	key        string
}

// NewCollectionKey returns the key for (collection, key).
func NewCollectionKey(collection, key string) CollectionKey {
	return CollectionKey{collection: collection, key: key}
}

func (k CollectionKey) Collection() string { return k.collection }

func (k CollectionKey) Key() string { return k.key }

// Equal reports whether both components match exactly.
func (k CollectionKey) Equal(other CollectionKey) bool {
	return k == other
}

// Hash combines the xxhash digests of both components.
//
// Equal keys always hash equal. The combination is order-sensitive.
func (k CollectionKey) Hash() uint64 {
	const prime = 1099511628211
	return xxhash.Sum64String(k.collection)*prime ^ xxhash.Sum64String(k.key)
}

// String renders the key as "collection/key" for logs.
func (k CollectionKey) String() string {
	return k.collection + "/" + k.key
}
