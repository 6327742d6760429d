package httpapi

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/edirooss/schedsim/internal/host/session"
	"github.com/edirooss/schedsim/internal/schedcore"
)

// StatusOptions controls the coalesced-read cache policy. Same shape as
// the teacher's SummaryOptions.
type StatusOptions struct {
	// TTL controls how long a cached status snapshot is served without
	// re-entering the session's lock. Default 100ms.
	TTL time.Duration
}

func (o *StatusOptions) setDefaults() {
	if o.TTL <= 0 {
		o.TTL = 100 * time.Millisecond
	}
}

type statusEntry struct {
	snapshots []schedcore.Snapshot
	forked    int
	expires   time.Time
}

// StatusCache coalesces concurrent HTTP pollers of the same session's
// status into a single list() call, the way the teacher's SummaryService
// coalesces concurrent channel-summary requests with a singleflight.Group
// keyed by a constant; here the key is the session ID so distinct
// sessions never block one another.
type StatusCache struct {
	opts StatusOptions
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]statusEntry

	sg singleflight.Group
}

func NewStatusCache(opts StatusOptions) *StatusCache {
	opts.setDefaults()
	return &StatusCache{
		opts:    opts,
		now:     time.Now,
		entries: make(map[string]statusEntry),
	}
}

// StatusResult is what a caller gets back from Get.
type StatusResult struct {
	Snapshots   []schedcore.Snapshot
	TotalForked int
	CacheHit    bool
}

// Get returns a coalesced, briefly-cached status snapshot for s.
func (c *StatusCache) Get(s *session.Session) (StatusResult, error) {
	if cached, ok := c.fresh(s.ID); ok {
		return cached, nil
	}

	v, err, _ := c.sg.Do(s.ID, func() (any, error) {
		if cached, ok := c.fresh(s.ID); ok {
			return cached, nil
		}

		var snaps []schedcore.Snapshot
		var forked int
		s.Do(func(sch *schedcore.Scheduler) {
			snaps = sch.List()
			forked = sch.TotalForked()
		})

		c.mu.Lock()
		c.entries[s.ID] = statusEntry{snapshots: snaps, forked: forked, expires: c.now().Add(c.opts.TTL)}
		c.mu.Unlock()

		return StatusResult{Snapshots: snaps, TotalForked: forked, CacheHit: false}, nil
	})
	if err != nil {
		return StatusResult{}, err
	}
	return v.(StatusResult), nil
}

// Invalidate drops the cached entry for id, if any. Called after a
// mutating next()/stop() call so the following status read is fresh.
func (c *StatusCache) Invalidate(id string) {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
}

func (c *StatusCache) fresh(id string) (StatusResult, bool) {
	c.mu.Lock()
	e, ok := c.entries[id]
	c.mu.Unlock()
	if !ok || c.now().After(e.expires) {
		return StatusResult{}, false
	}
	return StatusResult{Snapshots: e.snapshots, TotalForked: e.forked, CacheHit: true}, true
}
