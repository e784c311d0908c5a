package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/csg33k/vessel-reports/internal/domain"
)

// schema mirrors db/migrations; EnsureSchema applies it for AUTO_MIGRATE.
const schema = `
CREATE TABLE IF NOT EXISTS trips (
	id          TEXT PRIMARY KEY,
	start_date  TEXT NOT NULL,
	end_date    TEXT NOT NULL,
	purpose     TEXT NOT NULL DEFAULT '',
	vessel_code TEXT NOT NULL DEFAULT '',
	costs       TEXT NOT NULL DEFAULT '{}',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS trips_updated_at ON trips (updated_at);`

type Repository struct {
	db *sql.DB
}

// New opens the SQLite database. Schema migrations are managed by dbmate;
// run `dbmate up` before starting the server, or call EnsureSchema.
func New(dsn string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// EnsureSchema creates the trips table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *Repository) Close() error { return r.db.Close() }

// ── Trips ─────────────────────────────────────────────────────────────────────

// SaveTrip inserts the trip or replaces the one stored under the same id.
// CreatedAt of an existing row is kept.
func (r *Repository) SaveTrip(ctx context.Context, t *domain.Trip) error {
	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		return domain.ErrTripIDRequired
	}
	costs, err := json.Marshal(t.Costs)
	if err != nil {
		return fmt.Errorf("encoding costs: %w", err)
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO trips (id, start_date, end_date, purpose, vessel_code, costs, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			start_date=excluded.start_date,
			end_date=excluded.end_date,
			purpose=excluded.purpose,
			vessel_code=excluded.vessel_code,
			costs=excluded.costs,
			updated_at=excluded.updated_at`,
		t.ID,
		t.StartDate.Format(domain.StoredDate), t.EndDate.Format(domain.StoredDate),
		t.Purpose, t.VesselCode, string(costs),
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	// Report the stored creation time when the row already existed.
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM trips WHERE id=?`, t.ID).Scan(&t.CreatedAt)
}

func (r *Repository) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, start_date, end_date, purpose, vessel_code, costs, created_at, updated_at
		FROM trips WHERE id=?`, strings.TrimSpace(id))
	t, err := scanTrip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repository) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, start_date, end_date, purpose, vessel_code, costs, created_at, updated_at
		FROM trips ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func (r *Repository) DeleteTrip(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id=?`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrTripNotFound
	}
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (*domain.Trip, error) {
	var (
		t          domain.Trip
		start, end string
		costs      string
	)
	if err := s.Scan(&t.ID, &start, &end, &t.Purpose, &t.VesselCode, &costs, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if t.StartDate, err = parseStoredDate(start); err != nil {
		return nil, fmt.Errorf("trip %s: start_date: %w", t.ID, err)
	}
	if t.EndDate, err = parseStoredDate(end); err != nil {
		return nil, fmt.Errorf("trip %s: end_date: %w", t.ID, err)
	}
	// Lines missing from older rows read as "0", like a fresh form.
	t.Costs = domain.DefaultExpenseAmounts()
	if err := json.Unmarshal([]byte(costs), &t.Costs); err != nil {
		return nil, fmt.Errorf("trip %s: costs: %w", t.ID, err)
	}
	return &t, nil
}

func parseStoredDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(domain.StoredDate, s)
}
