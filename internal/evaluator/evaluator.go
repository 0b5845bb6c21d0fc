// Package evaluator implements the tick evaluation pass: matching rule due
// times against the polling window and delivering each occurrence exactly once.
package evaluator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"prayer_bot/internal/delivery"
	"prayer_bot/internal/model"
	"prayer_bot/internal/rules"
	"prayer_bot/internal/storage"
)

// Retention window for ledger entries, in calendar days.
const retentionDays = 2

// ScheduleSource resolves the daily schedule for a location.
type ScheduleSource interface {
	Get(ctx context.Context, loc model.Location, day time.Time) (model.DailySchedule, error)
}

// Evaluator runs one evaluation pass per tick over all active users.
type Evaluator struct {
	store     storage.Storage
	ledger    storage.Ledger
	schedules ScheduleSource
	sender    delivery.Sender
	catalog   []rules.Rule
	log       *slog.Logger

	workers     int
	callTimeout time.Duration
}

// New creates an Evaluator over the given collaborators.
func New(store storage.Storage, ledger storage.Ledger, schedules ScheduleSource, sender delivery.Sender, catalog []rules.Rule, log *slog.Logger) *Evaluator {
	return &Evaluator{
		store:       store,
		ledger:      ledger,
		schedules:   schedules,
		sender:      sender,
		catalog:     catalog,
		log:         log,
		workers:     8,
		callTimeout: 10 * time.Second,
	}
}

// SetWorkerPoolSize bounds per-user parallelism within a pass.
func (e *Evaluator) SetWorkerPoolSize(n int) {
	if n > 0 {
		e.workers = n
	}
}

// RunTick evaluates every active user against the window (prev, now].
// Users are independent: one user's failure never aborts the pass.
func (e *Evaluator) RunTick(ctx context.Context, prev, now time.Time) {
	users, err := e.store.ListActiveUsers(ctx)
	if err != nil {
		e.log.Error("list active users", "error", err)
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(e.workers)

	for _, u := range users {
		// Shutdown stops new users; users already started run to completion.
		if ctx.Err() != nil {
			break
		}
		u := u
		g.Go(func() error {
			e.evaluateUser(ctx, u, prev, now)
			return nil
		})
	}
	_ = g.Wait()

	if err := e.ledger.Purge(context.WithoutCancel(ctx), now.AddDate(0, 0, -retentionDays)); err != nil {
		e.log.Warn("purge ledger", "error", err)
	}
}

// evaluateUser resolves today's schedule and fires every due, unrecorded
// occurrence for one user. Once begun, the user's rule set completes even
// during shutdown; per-call timeouts still bound each external call.
func (e *Evaluator) evaluateUser(ctx context.Context, u model.User, prev, now time.Time) {
	ctx = context.WithoutCancel(ctx)

	fetchCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	sched, err := e.schedules.Get(fetchCtx, u.Location(), now)
	cancel()
	if err != nil {
		// No schedule, no rules due this tick; the next tick retries.
		e.log.Debug("schedule unavailable", "chat_id", u.ChatID, "error", err)
		return
	}

	prevMin := prev.Truncate(time.Minute)
	nowMin := now.Truncate(time.Minute)
	date := now.Format(model.DateLayout)

	for _, rule := range e.catalog {
		for _, occ := range rule.DueTimes(now, sched) {
			// Due within (prev, now]: the match window is the polling
			// interval, so a due time between two polls is never missed.
			if !occ.At.After(prevMin) || occ.At.After(nowMin) {
				continue
			}

			key := model.OccurrenceKey{ChatID: u.ChatID, RuleID: rule.ID, Date: date, Slot: occ.Slot}

			recorded, err := e.ledger.IsRecorded(ctx, key)
			if err != nil {
				e.log.Error("check ledger", "chat_id", u.ChatID, "rule", rule.ID, "error", err)
				continue
			}
			if recorded {
				continue
			}

			if done := e.deliver(ctx, u, rule, occ, key); done {
				continue
			}
			// Unreachable: stop evaluating this user entirely.
			return
		}
	}
}

// deliver sends one occurrence and does the bookkeeping. Returns false when
// the user turned out to be unreachable and was deactivated.
func (e *Evaluator) deliver(ctx context.Context, u model.User, rule rules.Rule, occ rules.Occurrence, key model.OccurrenceKey) bool {
	sendCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	err := e.sender.Send(sendCtx, u.ChatID, rule.Message(occ.At))
	cancel()

	switch {
	case err == nil:
		// Record only after a successful send; of two racing ticks the
		// ledger lets exactly one win.
		if _, err := e.ledger.Record(ctx, key, time.Now().UTC()); err != nil {
			e.log.Error("record occurrence", "chat_id", u.ChatID, "rule", rule.ID, "error", err)
		}
		e.log.Info("notification sent", "chat_id", u.ChatID, "rule", rule.ID, "due", occ.At.Format("15:04"))
		return true

	case errors.Is(err, delivery.ErrUnreachable):
		e.log.Info("deactivating unreachable user", "chat_id", u.ChatID, "error", err)
		if err := e.store.SetUserActive(ctx, u.ChatID, false); err != nil {
			e.log.Error("deactivate user", "chat_id", u.ChatID, "error", err)
		}
		return false

	default:
		// Rate-limited or transient: leave unrecorded so a later tick
		// inside the due window retries; after the window closes the
		// occurrence is permanently missed.
		e.log.Warn("delivery failed, will retry within window",
			"chat_id", u.ChatID, "rule", rule.ID, "error", err)
		return true
	}
}
