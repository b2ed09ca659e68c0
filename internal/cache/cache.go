// Package cache stores completed analysis bundles under opaque tokens
// for later export. The cache is injected into its consumers, guarded
// by a mutex, and bounded by both capacity and TTL.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-deal-recon/internal/model"
)

// Entry is one cached analysis bundle. Entries are read-only after
// insertion.
type Entry struct {
	Token     string
	CreatedAt time.Time
	Merged    []model.MergedDeal
	Costs     []model.CostColumn
	Payload   *model.AnalysisPayload
}

// Cache is a concurrency-safe token -> analysis mapping with FIFO
// capacity eviction and TTL expiry.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	order    []string // insertion order, oldest first
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// Default bounds applied when a non-positive capacity or TTL is given.
const (
	DefaultCapacity = 64
	DefaultTTL      = time.Hour
)

// New builds a cache with the given capacity and TTL.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries:  make(map[string]*Entry, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewToken mints a fresh opaque token: a 128-bit UUID rendered as hex.
func NewToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Put stores an entry under its token, evicting expired entries first
// and then the oldest entry when at capacity.
func (c *Cache) Put(entry *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictExpiredLocked()
	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	entry.CreatedAt = c.now()
	c.entries[entry.Token] = entry
	c.order = append(c.order, entry.Token)
}

// Get returns the entry for a token, or model.ErrNotFound when the
// token is unknown, evicted, or expired.
func (c *Cache) Get(token string) (*Entry, error) {
	c.mu.RLock()
	entry, ok := c.entries[token]
	c.mu.RUnlock()
	if !ok {
		return nil, model.ErrNotFound
	}
	if c.now().Sub(entry.CreatedAt) > c.ttl {
		c.mu.Lock()
		c.removeLocked(token)
		c.mu.Unlock()
		return nil, model.ErrNotFound
	}
	return entry, nil
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) evictExpiredLocked() {
	cutoff := c.now().Add(-c.ttl)
	kept := c.order[:0]
	for _, token := range c.order {
		if entry, ok := c.entries[token]; ok && entry.CreatedAt.Before(cutoff) {
			delete(c.entries, token)
			continue
		}
		kept = append(kept, token)
	}
	c.order = kept
}

func (c *Cache) removeLocked(token string) {
	if _, ok := c.entries[token]; !ok {
		return
	}
	delete(c.entries, token)
	for i, t := range c.order {
		if t == token {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
