// Package model defines the domain types used across the application.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for schedule and ledger keys.
const DateLayout = "2006-01-02"

// Schedule event names as returned by the prayer-times provider.
const (
	EventFajr    = "Fajr"
	EventSunrise = "Sunrise"
	EventDhuhr   = "Dhuhr"
	EventAsr     = "Asr"
	EventMaghrib = "Maghrib"
	EventIsha    = "Isha"
)

// PrayerEvents lists the five daily prayers, in order.
var PrayerEvents = []string{EventFajr, EventDhuhr, EventAsr, EventMaghrib, EventIsha}

// ScheduleEvents lists all events shown to users, in display order.
var ScheduleEvents = []string{EventFajr, EventSunrise, EventDhuhr, EventAsr, EventMaghrib, EventIsha}

// User represents a subscribed Telegram chat.
type User struct {
	ChatID    int64
	City      string
	Lat       float64
	Lon       float64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location returns the user's stored coordinates.
func (u *User) Location() Location {
	return Location{City: u.City, Lat: u.Lat, Lon: u.Lon}
}

// Location is a geographic point with an optional display label.
type Location struct {
	City string
	Lat  float64
	Lon  float64
}

// Key returns the cache key for this location. Coordinates are rounded to
// four decimals so that nearby GPS fixes share one schedule.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lon)
}

// DailySchedule holds the named event times for one location on one date.
// It is immutable once fetched.
type DailySchedule struct {
	LocationKey string
	Date        string            // DateLayout
	Times       map[string]string // event name -> "HH:MM"
}

// EventMinutes returns the minutes-since-midnight for a named event,
// or false if the schedule does not contain it.
func (s DailySchedule) EventMinutes(event string) (int, bool) {
	raw, ok := s.Times[event]
	if !ok {
		return 0, false
	}
	m, err := ParseClock(raw)
	if err != nil {
		return 0, false
	}
	return m, true
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// OccurrenceKey identifies one scheduled firing of a rule for one user on
// one calendar date. Slot distinguishes repeated same-day firings.
type OccurrenceKey struct {
	ChatID int64
	RuleID string
	Date   string // DateLayout
	Slot   int
}

// DedupRecord marks an occurrence as delivered.
type DedupRecord struct {
	Key         OccurrenceKey
	DeliveredAt time.Time
}
