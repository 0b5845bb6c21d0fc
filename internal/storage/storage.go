// Package storage defines the persistence interfaces and their implementations.
package storage

import (
	"context"
	"time"

	"prayer_bot/internal/model"
)

// Storage is the interface for the user roster.
type Storage interface {
	UpsertUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, chatID int64) (*model.User, error)
	ListActiveUsers(ctx context.Context) ([]model.User, error)
	SetUserActive(ctx context.Context, chatID int64, active bool) error

	Close() error
}

// Ledger records delivered occurrences. Record must be atomic with respect
// to concurrent ticks for the same key: exactly one caller wins.
type Ledger interface {
	// IsRecorded reports whether the occurrence was already delivered.
	IsRecorded(ctx context.Context, key model.OccurrenceKey) (bool, error)

	// Record marks the occurrence delivered. Returns false when a record
	// for the key already existed.
	Record(ctx context.Context, key model.OccurrenceKey, deliveredAt time.Time) (bool, error)

	// Purge drops records with an occurrence date before the cutoff.
	// Best effort: same-day dedup never depends on it.
	Purge(ctx context.Context, before time.Time) error
}
