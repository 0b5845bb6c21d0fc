package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"prayer_bot/internal/model"
	"prayer_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage and Ledger backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection: serializes writers and keeps :memory: databases
	// from splitting across pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// UpsertUser inserts a user or updates their location and activity state.
func (s *SQLite) UpsertUser(ctx context.Context, u *model.User) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (chat_id, city, lat, lon, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET
		   city = excluded.city,
		   lat = excluded.lat,
		   lon = excluded.lon,
		   is_active = excluded.is_active,
		   updated_at = excluded.updated_at`,
		u.ChatID, u.City, u.Lat, u.Lon, boolToInt(u.IsActive), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt, _ = time.Parse(timeLayout, now)
	}
	u.UpdatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// GetUser returns a single user by chat ID.
func (s *SQLite) GetUser(ctx context.Context, chatID int64) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT chat_id, city, lat, lon, is_active, created_at, updated_at
		 FROM users WHERE chat_id = ?`, chatID,
	)
	return scanUser(row)
}

// ListActiveUsers returns every user who should receive notifications.
func (s *SQLite) ListActiveUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT chat_id, city, lat, lon, is_active, created_at, updated_at
		 FROM users WHERE is_active = 1 ORDER BY chat_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query active users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// SetUserActive flips a user's subscription state without touching location.
func (s *SQLite) SetUserActive(ctx context.Context, chatID int64, active bool) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET is_active = ?, updated_at = ? WHERE chat_id = ?`,
		boolToInt(active), now, chatID,
	)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return nil
}

// IsRecorded checks whether an occurrence has already been delivered.
func (s *SQLite) IsRecorded(ctx context.Context, key model.OccurrenceKey) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sent_log WHERE chat_id = ? AND rule_id = ? AND day = ? AND slot = ?`,
		key.ChatID, key.RuleID, key.Date, key.Slot,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check recorded: %w", err)
	}
	return count > 0, nil
}

// Record marks an occurrence delivered. The INSERT OR IGNORE makes the
// check-and-set atomic: of two racing ticks, exactly one sees true.
func (s *SQLite) Record(ctx context.Context, key model.OccurrenceKey, deliveredAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sent_log (chat_id, rule_id, day, slot, delivered_at)
		 VALUES (?, ?, ?, ?, ?)`,
		key.ChatID, key.RuleID, key.Date, key.Slot, deliveredAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("record occurrence: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// Purge drops ledger entries with an occurrence date before the cutoff.
func (s *SQLite) Purge(ctx context.Context, before time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sent_log WHERE day < ?`, before.Format(model.DateLayout),
	)
	if err != nil {
		return fmt.Errorf("purge sent_log: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scannable interface {
	Scan(dest ...any) error
}

func scanUser(row scannable) (*model.User, error) {
	var u model.User
	var isActive int
	var created, updated sql.NullString
	err := row.Scan(&u.ChatID, &u.City, &u.Lat, &u.Lon, &isActive, &created, &updated)
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.IsActive = isActive == 1
	if created.Valid {
		u.CreatedAt, _ = time.Parse(timeLayout, created.String)
	}
	if updated.Valid {
		u.UpdatedAt, _ = time.Parse(timeLayout, updated.String)
	}
	return &u, nil
}
