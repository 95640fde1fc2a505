package insights

import (
	"context"
	"sync"
	"time"
)

// CachedSource keeps the LoadInsights snapshot in memory for ttl.
// Email search and per-user analytics always go to the wrapped source.
type CachedSource struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	snapshot *Snapshot
	storedAt time.Time
}

// NewCachedSource wraps source. A ttl <= 0 disables caching.
func NewCachedSource(source Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *CachedSource) LoadInsights(ctx context.Context) (*Snapshot, error) {
	if snap, ok := c.get(); ok {
		return snap, nil
	}

	snap, err := c.source.LoadInsights(ctx)
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.snapshot = snap
		c.storedAt = c.now()
		c.mu.Unlock()
	}
	return snap, nil
}

func (c *CachedSource) SearchEmails(ctx context.Context, query string) ([]EmailRecord, error) {
	return c.source.SearchEmails(ctx, query)
}

func (c *CachedSource) FetchUserAnalytics(ctx context.Context, id ID) (*UserAnalytics, error) {
	return c.source.FetchUserAnalytics(ctx, id)
}

// Refresh drops the cached snapshot; the next LoadInsights hits the source.
func (c *CachedSource) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.storedAt = time.Time{}
}

// CleanExpired drops the snapshot once it is older than ttl (call periodically).
func (c *CachedSource) CleanExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot != nil && c.now().Sub(c.storedAt) > c.ttl {
		c.snapshot = nil
	}
}

func (c *CachedSource) get() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil, false
	}
	if c.now().Sub(c.storedAt) > c.ttl {
		return nil, false
	}
	return c.snapshot, true
}
