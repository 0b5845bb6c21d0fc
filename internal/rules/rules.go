// Package rules implements the notification trigger catalog: declarative
// rule definitions and the resolution of their due times for one calendar day.
package rules

import (
	"fmt"
	"time"

	"prayer_bot/internal/model"
)

// Kind defines the type of trigger rule.
type Kind string

// Supported rule kinds.
const (
	KindOnEvent      Kind = "on_event"
	KindBeforeEvent  Kind = "before_event"
	KindDailyClock   Kind = "daily_clock"
	KindWeeklyWindow Kind = "weekly_window"
)

// MessageFunc renders the notification text for an occurrence due at the
// given local time.
type MessageFunc func(at time.Time) string

// Rule is a single declarative trigger definition. Rules are static
// per-deployment configuration shared by all users; only the resolved
// times differ per user via their schedule.
type Rule struct {
	ID   string
	Kind Kind

	// OnEvent / BeforeEvent.
	Event         string
	OffsetMinutes int

	// DailyClock: fixed wall-clock time "HH:MM".
	At string

	// WeeklyWindow: repeats every IntervalMinutes within [From, To]
	// on the given weekday.
	Weekday         time.Weekday
	From            string
	To              string
	IntervalMinutes int

	Message MessageFunc
}

// Occurrence is one resolved firing of a rule on one calendar day.
type Occurrence struct {
	At   time.Time // minute resolution, in day's location
	Slot int
}

// DueTimes resolves the rule's occurrences for the calendar day of `day`.
// For schedule-relative kinds a missing or malformed event time means the
// rule is simply never due that day.
func (r Rule) DueTimes(day time.Time, sched model.DailySchedule) []Occurrence {
	switch r.Kind {
	case KindOnEvent:
		m, ok := sched.EventMinutes(r.Event)
		if !ok {
			return nil
		}
		return []Occurrence{{At: clockAt(day, m)}}

	case KindBeforeEvent:
		m, ok := sched.EventMinutes(r.Event)
		if !ok {
			return nil
		}
		m -= r.OffsetMinutes
		if m < 0 {
			// The offset lands before local midnight: never due,
			// not a wrap to the previous day.
			return nil
		}
		return []Occurrence{{At: clockAt(day, m)}}

	case KindDailyClock:
		m, err := model.ParseClock(r.At)
		if err != nil {
			return nil
		}
		return []Occurrence{{At: clockAt(day, m)}}

	case KindWeeklyWindow:
		if day.Weekday() != r.Weekday || r.IntervalMinutes <= 0 {
			return nil
		}
		from, err := model.ParseClock(r.From)
		if err != nil {
			return nil
		}
		to, err := model.ParseClock(r.To)
		if err != nil {
			return nil
		}
		var occs []Occurrence
		for m := from; m <= to; m += r.IntervalMinutes {
			occs = append(occs, Occurrence{
				At: clockAt(day, m),
				// Slot is the interval index within the day, so
				// re-polls inside one slot dedup while distinct
				// boundaries stay distinct occurrences.
				Slot: m / r.IntervalMinutes,
			})
		}
		return occs
	}
	return nil
}

// clockAt returns the given minutes-since-midnight on day's calendar date,
// in day's location.
func clockAt(day time.Time, minutes int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

// Validate checks a rule catalog for configuration errors. It is meant to
// run once at startup; a non-nil error is fatal.
func Validate(catalog []Rule) error {
	if len(catalog) == 0 {
		return fmt.Errorf("rule catalog is empty")
	}
	seen := make(map[string]bool, len(catalog))
	for i, r := range catalog {
		if r.ID == "" {
			return fmt.Errorf("rule %d: empty ID", i)
		}
		if seen[r.ID] {
			return fmt.Errorf("rule %q: duplicate ID", r.ID)
		}
		seen[r.ID] = true
		if r.Message == nil {
			return fmt.Errorf("rule %q: nil message func", r.ID)
		}
		if err := validateKind(r); err != nil {
			return fmt.Errorf("rule %q: %w", r.ID, err)
		}
	}
	return nil
}

func validateKind(r Rule) error {
	switch r.Kind {
	case KindOnEvent:
		if r.Event == "" {
			return fmt.Errorf("empty event name")
		}
	case KindBeforeEvent:
		if r.Event == "" {
			return fmt.Errorf("empty event name")
		}
		if r.OffsetMinutes <= 0 || r.OffsetMinutes >= 24*60 {
			return fmt.Errorf("offset must be within (0, 1440), got %d", r.OffsetMinutes)
		}
	case KindDailyClock:
		if _, err := model.ParseClock(r.At); err != nil {
			return err
		}
	case KindWeeklyWindow:
		from, err := model.ParseClock(r.From)
		if err != nil {
			return fmt.Errorf("from: %w", err)
		}
		to, err := model.ParseClock(r.To)
		if err != nil {
			return fmt.Errorf("to: %w", err)
		}
		if from > to {
			return fmt.Errorf("window start %s is after end %s", r.From, r.To)
		}
		if r.IntervalMinutes <= 0 {
			return fmt.Errorf("interval must be positive, got %d", r.IntervalMinutes)
		}
	default:
		return fmt.Errorf("unknown kind %q", r.Kind)
	}
	return nil
}
