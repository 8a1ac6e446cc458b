package cache

import (
	"sync"

	"github.com/dennisdiepolder/monti/recovery/internal/types"
)

type entry struct {
	started   uint64 // newest generation begun for the key
	committed uint64
	report    types.Report
	ok        bool
}

// ReportCache holds the newest report per query key and guards writes with
// generations: a computation may only commit while it is still the newest
// one begun for its key, so a slow stale run never overwrites fresher state.
type ReportCache struct {
	mu      sync.RWMutex
	next    uint64
	entries map[string]*entry
	latest  string
}

// NewReportCache creates an empty report cache
func NewReportCache() *ReportCache {
	return &ReportCache{entries: make(map[string]*entry)}
}

// Begin registers a new computation for key and returns its generation
func (c *ReportCache) Begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.next++
	e := c.entry(key)
	e.started = c.next
	return c.next
}

// Commit stores the report if gen is still the newest generation begun for
// key. It reports whether the report was stored.
func (c *ReportCache) Commit(key string, gen uint64, report types.Report) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(key)
	if gen != e.started || gen <= e.committed {
		return false
	}
	e.committed = gen
	e.report = report
	e.ok = true
	c.latest = key
	return true
}

// Get returns the committed report for key
func (c *ReportCache) Get(key string) (types.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !e.ok {
		return types.Report{}, false
	}
	return e.report, true
}

// Latest returns the most recently committed report of any key
func (c *ReportCache) Latest() (types.Report, bool) {
	c.mu.RLock()
	key := c.latest
	c.mu.RUnlock()
	if key == "" {
		return types.Report{}, false
	}
	return c.Get(key)
}

// entry must be called with the lock held
func (c *ReportCache) entry(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}
