// Package schedule caches daily schedules fetched from the prayer-times
// provider, one entry per (location, date).
package schedule

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"prayer_bot/internal/model"
)

// Provider fetches a schedule for a location and date.
type Provider interface {
	Fetch(ctx context.Context, loc model.Location, date time.Time) (model.DailySchedule, error)
}

// Cache is a read-mostly in-memory schedule cache. Concurrent misses for
// the same key coalesce into a single outbound fetch. Failures are never
// cached; the caller's polling interval is the retry throttle.
type Cache struct {
	provider Provider

	mu      sync.RWMutex
	entries map[string]model.DailySchedule

	group singleflight.Group
}

// NewCache creates a Cache over the given provider.
func NewCache(provider Provider) *Cache {
	return &Cache{
		provider: provider,
		entries:  make(map[string]model.DailySchedule),
	}
}

// Get returns the schedule for loc on day's calendar date, fetching it on
// first need. Entries older than the retention window are dropped as a side
// effect of successful fetches.
func (c *Cache) Get(ctx context.Context, loc model.Location, day time.Time) (model.DailySchedule, error) {
	date := day.Format(model.DateLayout)
	key := loc.Key() + "|" + date

	c.mu.RLock()
	sched, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return sched, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check: a coalesced waiter may arrive after the winner stored.
		c.mu.RLock()
		sched, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return sched, nil
		}

		sched, err := c.provider.Fetch(ctx, loc, day)
		if err != nil {
			return model.DailySchedule{}, err
		}

		c.mu.Lock()
		c.entries[key] = sched
		c.evictBefore(day.AddDate(0, 0, -1).Format(model.DateLayout))
		c.mu.Unlock()
		return sched, nil
	})
	if err != nil {
		return model.DailySchedule{}, err
	}
	return v.(model.DailySchedule), nil
}

// evictBefore drops entries for dates earlier than cutoff. Callers hold mu.
// DateLayout sorts lexicographically, so string comparison is enough.
func (c *Cache) evictBefore(cutoff string) {
	for key, sched := range c.entries {
		if sched.Date < cutoff {
			delete(c.entries, key)
		}
	}
}
