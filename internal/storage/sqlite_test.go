package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"prayer_bot/internal/model"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertAndGetUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := model.User{
		ChatID:   100,
		City:     "Казань",
		Lat:      55.7963,
		Lon:      49.1088,
		IsActive: true,
	}
	if err := s.UpsertUser(ctx, &u); err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := s.GetUser(ctx, 100)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if diff := cmp.Diff(&u, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("user mismatch (-want +got):\n%s", diff)
	}

	// Location change overwrites coordinates, keeps identity.
	u.City = "Москва"
	u.Lat, u.Lon = 55.7558, 37.6173
	if err := s.UpsertUser(ctx, &u); err != nil {
		t.Fatalf("upsert user again: %v", err)
	}
	got, err = s.GetUser(ctx, 100)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if diff := cmp.Diff("Москва", got.City); diff != "" {
		t.Errorf("city mismatch (-want +got):\n%s", diff)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetUser(context.Background(), 999); err == nil {
		t.Fatal("expected error for missing user, got nil")
	}
}

func TestListActiveUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, u := range []model.User{
		{ChatID: 1, City: "Казань", IsActive: true},
		{ChatID: 2, City: "Уфа", IsActive: true},
		{ChatID: 3, City: "Грозный", IsActive: false},
	} {
		u := u
		if err := s.UpsertUser(ctx, &u); err != nil {
			t.Fatalf("upsert user %d: %v", u.ChatID, err)
		}
	}

	users, err := s.ListActiveUsers(ctx)
	if err != nil {
		t.Fatalf("list active users: %v", err)
	}

	var ids []int64
	for _, u := range users {
		ids = append(ids, u.ChatID)
	}
	if diff := cmp.Diff([]int64{1, 2}, ids); diff != "" {
		t.Errorf("active user IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestSetUserActive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := model.User{ChatID: 1, City: "Казань", IsActive: true}
	if err := s.UpsertUser(ctx, &u); err != nil {
		t.Fatalf("upsert user: %v", err)
	}

	if err := s.SetUserActive(ctx, 1, false); err != nil {
		t.Fatalf("set user active: %v", err)
	}
	got, err := s.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.IsActive {
		t.Error("expected user to be inactive")
	}
	if diff := cmp.Diff("Казань", got.City); diff != "" {
		t.Errorf("deactivation must not touch location (-want +got):\n%s", diff)
	}
}

func testKey(slot int) model.OccurrenceKey {
	return model.OccurrenceKey{ChatID: 100, RuleID: "prayer.fajr", Date: "2025-03-03", Slot: slot}
}

func TestLedgerRecordAndIsRecorded(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	ledgers := map[string]Ledger{
		"sqlite": newTestStore(t),
		"memory": NewMemoryLedger(),
	}

	for name, ledger := range ledgers {
		t.Run(name, func(t *testing.T) {
			key := testKey(0)

			recorded, err := ledger.IsRecorded(ctx, key)
			if err != nil {
				t.Fatalf("is recorded: %v", err)
			}
			if recorded {
				t.Fatal("fresh key must not be recorded")
			}

			ok, err := ledger.Record(ctx, key, now)
			if err != nil {
				t.Fatalf("record: %v", err)
			}
			if !ok {
				t.Fatal("first record must win")
			}

			ok, err = ledger.Record(ctx, key, now)
			if err != nil {
				t.Fatalf("record again: %v", err)
			}
			if ok {
				t.Fatal("second record must report already-exists")
			}

			recorded, err = ledger.IsRecorded(ctx, key)
			if err != nil {
				t.Fatalf("is recorded: %v", err)
			}
			if !recorded {
				t.Fatal("key must be recorded after Record")
			}

			// A different slot is a distinct occurrence.
			ok, err = ledger.Record(ctx, testKey(1), now)
			if err != nil {
				t.Fatalf("record slot 1: %v", err)
			}
			if !ok {
				t.Fatal("distinct slot must record independently")
			}
		})
	}
}

func TestLedgerRecordConcurrent(t *testing.T) {
	ctx := context.Background()
	ledgers := map[string]Ledger{
		"sqlite": newTestStore(t),
		"memory": NewMemoryLedger(),
	}

	for name, ledger := range ledgers {
		t.Run(name, func(t *testing.T) {
			key := testKey(0)
			var wins int32
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, err := ledger.Record(ctx, key, time.Now().UTC())
					if err != nil {
						t.Errorf("record: %v", err)
						return
					}
					if ok {
						atomic.AddInt32(&wins, 1)
					}
				}()
			}
			wg.Wait()
			if wins != 1 {
				t.Errorf("expected exactly 1 winning Record, got %d", wins)
			}
		})
	}
}

func TestLedgerPurge(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	ledgers := map[string]Ledger{
		"sqlite": newTestStore(t),
		"memory": NewMemoryLedger(),
	}

	for name, ledger := range ledgers {
		t.Run(name, func(t *testing.T) {
			old := model.OccurrenceKey{ChatID: 1, RuleID: "r", Date: "2025-02-20"}
			fresh := model.OccurrenceKey{ChatID: 1, RuleID: "r", Date: "2025-03-03"}
			for _, k := range []model.OccurrenceKey{old, fresh} {
				if _, err := ledger.Record(ctx, k, now); err != nil {
					t.Fatalf("record: %v", err)
				}
			}

			cutoff := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
			if err := ledger.Purge(ctx, cutoff); err != nil {
				t.Fatalf("purge: %v", err)
			}

			recorded, err := ledger.IsRecorded(ctx, old)
			if err != nil {
				t.Fatalf("is recorded: %v", err)
			}
			if recorded {
				t.Error("expected old record purged")
			}
			recorded, err = ledger.IsRecorded(ctx, fresh)
			if err != nil {
				t.Fatalf("is recorded: %v", err)
			}
			if !recorded {
				t.Error("expected fresh record kept")
			}
		})
	}
}
