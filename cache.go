package stubdns

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jroosing/stubdns/wire"
)

// maxCacheLifetime caps how long any response stays cached, whatever
// its records claim.
const maxCacheLifetime = time.Hour

// cacheKey identifies a cached response by its question. The name is
// lowercased so lookups are case-insensitive; the transaction ID is
// deliberately not part of the key.
type cacheKey struct {
	name   string
	qtype  wire.QType
	qclass wire.QClass
}

func newCacheKey(q wire.Question) cacheKey {
	return cacheKey{
		name:   strings.ToLower(q.Name.String()),
		qtype:  q.Type,
		qclass: q.Class,
	}
}

// String renders the key for the persistent store.
func (k cacheKey) String() string {
	return fmt.Sprintf("%s|%d|%d", k.name, uint16(k.qtype), uint16(k.qclass))
}

type cacheEntry struct {
	resp      []byte // transaction ID normalized to 0
	storedAt  time.Time
	expiresAt time.Time
}

// answerCache is the in-memory response cache. The LRU bounds both
// entry count and worst-case lifetime; per-entry TTLs are enforced on
// read since they vary per response.
type answerCache struct {
	lru *expirable.LRU[cacheKey, cacheEntry]
}

func newAnswerCache(maxEntries int) *answerCache {
	return &answerCache{
		lru: expirable.NewLRU[cacheKey, cacheEntry](maxEntries, nil, maxCacheLifetime),
	}
}

// Get returns the cached response bytes and their age in cache.
func (c *answerCache) Get(key cacheKey) (resp []byte, age time.Duration, ok bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, 0, false
	}
	now := time.Now()
	if now.After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, 0, false
	}
	return e.resp, now.Sub(e.storedAt), true
}

// Put stores a response for ttl. Entries with a non-positive ttl are
// not cached.
func (c *answerCache) Put(key cacheKey, resp []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := time.Now()
	c.lru.Add(key, cacheEntry{
		resp:      resp,
		storedAt:  now,
		expiresAt: now.Add(ttl),
	})
}

// Len returns the number of live entries, expired ones included until
// their next touch.
func (c *answerCache) Len() int { return c.lru.Len() }
