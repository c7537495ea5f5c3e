package friction

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/leo-marida/l-cast-smart-tourism-platform/internal/domain"
)

// Entry is one cached weather lookup for a coordinate bucket. Observation
// is nil when the fetch failed or never ran; Source then says
// "simulated" so downstream logic falls back without retrying inside the
// staleness window.
type Entry struct {
	Observation *domain.Observation
	FetchedAt   time.Time
	Source      domain.Source
}

// Cache is a bucketed, time-expiring store of weather observations.
// Entries are replaced whole under the lock, so a reader never observes a
// partially written entry. Nothing is evicted: the bucket space is
// bounded by the service's operating region (one entry per ~11 km cell),
// and stale entries are simply ignored at read time.
//
// Constructed once per process and shared by the warmer (writer) and the
// friction calculator (reader). Concurrent writers to the same bucket
// race benignly: last write wins, observations are idempotent refreshes
// of the same external fact.
type Cache struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu      sync.RWMutex
	entries map[domain.Bucket]Entry
}

// NewCache creates a cache whose entries go stale after ttl.
func NewCache(ttl time.Duration, clock clockwork.Clock) *Cache {
	return &Cache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[domain.Bucket]Entry),
	}
}

// Get returns the entry for a bucket, fresh or stale.
func (c *Cache) Get(bucket domain.Bucket) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[bucket]
	return e, ok
}

// Put atomically replaces the bucket's entry, stamping it with the
// current time.
func (c *Cache) Put(bucket domain.Bucket, obs *domain.Observation, source domain.Source) {
	e := Entry{
		Observation: obs,
		FetchedAt:   c.clock.Now(),
		Source:      source,
	}

	c.mu.Lock()
	c.entries[bucket] = e
	c.mu.Unlock()
}

// Fresh reports whether the entry is still inside the staleness window.
func (c *Cache) Fresh(e Entry) bool {
	return c.clock.Now().Sub(e.FetchedAt) < c.ttl
}
