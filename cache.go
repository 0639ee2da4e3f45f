package cloudsync

import (
	"sync"

	"github.com/MKhiriev/go-cloud-sync/models"
)

// cacheEntry holds the last-known remote state of one document: the
// fingerprint of the document as last written or loaded, and the revision
// the store reported for it. The entry mutex serializes all mutation for
// its key (single writer per key), so concurrent verbs cannot lose
// revision updates.
type cacheEntry struct {
	mu          sync.Mutex
	fingerprint string
	revision    models.Revision
}

func (e *cacheEntry) set(fingerprint string, revision models.Revision) {
	e.fingerprint = fingerprint
	e.revision = revision
}

// revisionCache is the engine's optional read-through cache, keyed by
// (collection, key). It lets Save skip redundant writes of unchanged
// documents and supplies the last-known revision for optimistic saves.
type revisionCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

func newRevisionCache() *revisionCache {
	return &revisionCache{
		entries: make(map[string]*cacheEntry),
	}
}

func cacheKey(collection, key string) string {
	// '/' cannot appear in a valid document key, so the join is unambiguous.
	return collection + "/" + key
}

// entry returns the cache entry for (collection, key), creating it on
// first use. The caller must hold the entry's own mutex while reading or
// mutating its fields.
func (c *revisionCache) entry(collection, key string) *cacheEntry {
	ck := cacheKey(collection, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[ck]
	if !ok {
		e = &cacheEntry{}
		c.entries[ck] = e
	}

	return e
}

// drop forgets the cached state for (collection, key). Called after a
// successful delete so a later save reports Created again.
func (c *revisionCache) drop(collection, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(collection, key))
}
