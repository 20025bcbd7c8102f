package store

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/roach88/itemdata/internal/tag"
)

// cachedAttachment is a private copy of a stored attachment and its hash.
type cachedAttachment struct {
	attachment tag.Compound
	hash       string
	revision   int64
}

// instanceCache is an LRU of decoded attachments keyed by instance ID.
// A nil lru disables caching.
type instanceCache struct {
	lru *lru.Cache[uuid.UUID, cachedAttachment]
}

func newInstanceCache(size int) *instanceCache {
	if size <= 0 {
		return &instanceCache{}
	}
	c, err := lru.New[uuid.UUID, cachedAttachment](size)
	if err != nil {
		return &instanceCache{}
	}
	return &instanceCache{lru: c}
}

// get returns a fresh copy of the cached attachment.
func (c *instanceCache) get(id uuid.UUID) (cachedAttachment, bool) {
	if c.lru == nil {
		return cachedAttachment{}, false
	}
	entry, ok := c.lru.Get(id)
	if !ok {
		return cachedAttachment{}, false
	}
	entry.attachment = entry.attachment.Copy()
	return entry, true
}

// set stores a copy of entry.
func (c *instanceCache) set(id uuid.UUID, entry cachedAttachment) {
	if c.lru == nil {
		return
	}
	entry.attachment = entry.attachment.Copy()
	c.lru.Add(id, entry)
}

func (c *instanceCache) invalidate(id uuid.UUID) {
	if c.lru != nil {
		c.lru.Remove(id)
	}
}

func (c *instanceCache) clear() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

func (c *instanceCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
