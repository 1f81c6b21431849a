// Package cache holds ingested record sets keyed by the identity of their source.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pable/go-hero-metrics/internal/model"
)

// Key identifies a raw record source: where it lives and which sheet of it.
type Key struct {
	Location string
	Sheet    string
}

func (k Key) String() string {
	if k.Sheet == "" {
		return k.Location
	}
	return fmt.Sprintf("%s#%s", k.Location, k.Sheet)
}

// flightKey identifies key unambiguously for duplicate-load suppression.
func (k Key) flightKey() string {
	return fmt.Sprintf("%q|%q", k.Location, k.Sheet)
}

// Loader produces a fresh record set for a key.
type Loader func(ctx context.Context) ([]model.MatchRecord, error)

type entry struct {
	records  []model.MatchRecord
	loadedAt time.Time
}

// Cache maps source keys to ingested record sets. A zero TTL never expires entries.
// Safe for concurrent use; concurrent loads of one key share a single Loader call.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[Key]entry
	group   singleflight.Group
}

// New returns an empty cache.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[Key]entry),
	}
}

// Get returns a copy of the cached records for key, if present and fresh.
func (c *Cache) Get(key Key) ([]model.MatchRecord, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.expired(e) {
		return nil, false
	}
	return clone(e.records), true
}

// Put stores a copy of records under key.
func (c *Cache) Put(key Key, records []model.MatchRecord) {
	c.mu.Lock()
	c.entries[key] = entry{records: clone(records), loadedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate drops the entry for key.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Key]entry)
	c.mu.Unlock()
}

// Len returns the number of stored entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Load returns the cached records for key, calling load on a miss.
// hit reports whether the records came from the cache.
func (c *Cache) Load(ctx context.Context, key Key, load Loader) (records []model.MatchRecord, hit bool, err error) {
	if recs, ok := c.Get(key); ok {
		return recs, true, nil
	}
	recs, err := c.fill(ctx, key, load)
	return recs, false, err
}

// Refresh reloads key unconditionally and replaces the cached entry.
// On failure the previous entry is left untouched.
func (c *Cache) Refresh(ctx context.Context, key Key, load Loader) ([]model.MatchRecord, error) {
	return c.fill(ctx, key, load)
}

func (c *Cache) fill(ctx context.Context, key Key, load Loader) ([]model.MatchRecord, error) {
	v, err, _ := c.group.Do(key.flightKey(), func() (any, error) {
		recs, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.Put(key, recs)
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]model.MatchRecord)), nil
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && c.now().Sub(e.loadedAt) > c.ttl
}

func clone(in []model.MatchRecord) []model.MatchRecord {
	if in == nil {
		return nil
	}
	return append([]model.MatchRecord(nil), in...)
}
