// Package scheduler drives periodic evaluation passes.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Pass is one tick evaluation over the window (prev, now].
type Pass interface {
	RunTick(ctx context.Context, prev, now time.Time)
}

// Scheduler invokes the evaluator at a fixed polling interval.
type Scheduler struct {
	pass Pass
	log  *slog.Logger
	tick time.Duration
}

// New creates a Scheduler with the default 1-minute polling interval.
func New(pass Pass, log *slog.Logger) *Scheduler {
	return &Scheduler{
		pass: pass,
		log:  log,
		tick: 1 * time.Minute,
	}
}

// SetTickInterval overrides the default polling interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	if d > 0 {
		s.tick = d
	}
}

// Run starts the polling loop, blocking until ctx is cancelled. The first
// pass runs immediately with a window of one interval; each later pass
// covers exactly the span since the previous one, so a due time falling
// between two polls is never skipped.
func (s *Scheduler) Run(ctx context.Context) {
	prev := time.Now().Add(-s.tick)

	now := time.Now()
	s.pass.RunTick(ctx, prev, now)
	prev = now

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			now := time.Now()
			s.pass.RunTick(ctx, prev, now)
			prev = now
		}
	}
}
