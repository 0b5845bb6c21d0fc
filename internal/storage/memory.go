package storage

import (
	"context"
	"sync"
	"time"

	"prayer_bot/internal/model"
)

// MemoryLedger is an in-process Ledger for deployments that accept
// at-most-once-per-process-lifetime semantics.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[model.OccurrenceKey]time.Time
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[model.OccurrenceKey]time.Time)}
}

// IsRecorded checks whether an occurrence has already been delivered.
func (l *MemoryLedger) IsRecorded(_ context.Context, key model.OccurrenceKey) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.records[key]
	return ok, nil
}

// Record marks an occurrence delivered; false when it already was.
func (l *MemoryLedger) Record(_ context.Context, key model.OccurrenceKey, deliveredAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[key]; ok {
		return false, nil
	}
	l.records[key] = deliveredAt
	return true, nil
}

// Purge drops records with an occurrence date before the cutoff.
func (l *MemoryLedger) Purge(_ context.Context, before time.Time) error {
	cutoff := before.Format(model.DateLayout)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.records {
		if key.Date < cutoff {
			delete(l.records, key)
		}
	}
	return nil
}
