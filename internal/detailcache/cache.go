package detailcache

import (
	"context"
	"sync"
	"time"

	"moviesense/internal/catalog"
	"moviesense/internal/store"
)

// DefaultTTL bounds how stale cached catalog metadata can get even when no
// local mutation ever touches the entry.
const DefaultTTL = 24 * time.Hour

// DetailView is the enriched aggregate served for one catalog item: the
// upstream metadata snapshot joined with the locally stored reviews at
// population time. Views are stored whole and never patched in place, so a
// reader either sees one complete snapshot or a miss.
type DetailView struct {
	Movie       *catalog.Movie `json:"movie"`
	Reviews     []store.Review `json:"reviews"`
	PopulatedAt time.Time      `json:"populated_at"`
}

// PopulateFunc builds a fresh view on a cache miss.
type PopulateFunc func(ctx context.Context) (*DetailView, error)

// Service is the cache contract the handlers depend on. Invalidate reports an
// error so that backends that can fail fit the same interface; the in-memory
// implementation always succeeds.
type Service interface {
	GetOrPopulate(ctx context.Context, itemID string, populate PopulateFunc) (*DetailView, error)
	Invalidate(ctx context.Context, itemID string) error
}

type entry struct {
	view      *DetailView
	expiresAt time.Time
}

// Cache is a thread-safe in-memory Service with per-entry TTL expiry.
// Per-key generation counters make invalidation stick: a population that was
// in flight when Invalidate ran is discarded instead of stored, so an
// already-invalidated snapshot can never reappear.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewWithClock injects a clock for deterministic expiry in tests.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := New(ttl)
	c.now = now
	return c
}

// GetOrPopulate returns the live entry for itemID if one exists, otherwise
// runs populate and stores the result with a fresh TTL. Populate failures
// (including not-found) are returned to the caller and never cached.
func (c *Cache) GetOrPopulate(ctx context.Context, itemID string, populate PopulateFunc) (*DetailView, error) {
	c.mu.RLock()
	e, ok := c.entries[itemID]
	gen := c.gens[itemID]
	c.mu.RUnlock()

	if ok && c.now().Before(e.expiresAt) {
		return e.view, nil
	}

	view, err := populate(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gens[itemID] == gen {
		c.entries[itemID] = entry{view: view, expiresAt: c.now().Add(c.ttl)}
	}
	c.mu.Unlock()

	return view, nil
}

// Invalidate removes any entry for itemID. Removing a missing key is a no-op.
func (c *Cache) Invalidate(_ context.Context, itemID string) error {
	c.mu.Lock()
	delete(c.entries, itemID)
	c.gens[itemID]++
	c.mu.Unlock()
	return nil
}
