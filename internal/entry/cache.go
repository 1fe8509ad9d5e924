package entry

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long a listed snapshot is served from memory.
const DefaultCacheTTL = 60 * time.Second

type cached struct {
	entries []Entry
	expires time.Time
}

// CachedStore keeps List results per user key for a fixed TTL. Successful
// writes drop the key, so a session always reads its own writes.
type CachedStore struct {
	next Store
	ttl  time.Duration
	now  func() time.Time

	mu    sync.Mutex
	items map[string]cached
	// gen counts invalidations per key; a List that raced a write does not
	// repopulate the cache with what it read.
	gen map[string]uint64
}

func NewCachedStore(next Store, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{
		next:  next,
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]cached),
		gen:   make(map[string]uint64),
	}
}

func (c *CachedStore) Create(ctx context.Context, userKey string, e Entry) error {
	if err := c.next.Create(ctx, userKey, e); err != nil {
		return err
	}
	c.Invalidate(userKey)
	return nil
}

func (c *CachedStore) Delete(ctx context.Context, userKey, entryID string) error {
	if err := c.next.Delete(ctx, userKey, entryID); err != nil {
		return err
	}
	c.Invalidate(userKey)
	return nil
}

func (c *CachedStore) List(ctx context.Context, userKey string) ([]Entry, error) {
	c.mu.Lock()
	it, ok := c.items[userKey]
	if ok && !c.now().Before(it.expires) {
		delete(c.items, userKey)
		ok = false
	}
	gen := c.gen[userKey]
	c.mu.Unlock()
	if ok {
		return clone(it.entries), nil
	}

	entries, err := c.next.List(ctx, userKey)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen[userKey] == gen {
		c.items[userKey] = cached{entries: entries, expires: c.now().Add(c.ttl)}
	}
	c.mu.Unlock()
	return clone(entries), nil
}

// Invalidate drops the cached listing of userKey.
func (c *CachedStore) Invalidate(userKey string) {
	c.mu.Lock()
	delete(c.items, userKey)
	c.gen[userKey]++
	c.mu.Unlock()
}

func clone(in []Entry) []Entry {
	out := make([]Entry, len(in))
	copy(out, in)
	return out
}
