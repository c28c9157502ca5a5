package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS activity (
    id         UUID PRIMARY KEY,
    kind       TEXT NOT NULL,
    topic      TEXT NOT NULL DEFAULT '',
    reference  TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL DEFAULT '',
    amount     BIGINT NOT NULL DEFAULT 0,
    payload    TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS activity_created_at_idx ON activity (created_at DESC, id DESC);`

// Repository persists the activity trail.
type Repository interface {
	Record(ctx context.Context, activity Activity) error
	Recent(ctx context.Context, limit int) ([]Activity, error)
}

// PostgresRepository stores activity in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL and makes sure
// the activity table exists.
func NewPostgresRepository(ctx context.Context, db *pgxpool.Pool) (*PostgresRepository, error) {
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure activity schema: %w", err)
	}
	return &PostgresRepository{db: db}, nil
}

// Record inserts an activity row, assigning an id and timestamp when missing.
func (r *PostgresRepository) Record(ctx context.Context, a Activity) error {
	a = withDefaults(a)
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO activity (id, kind, topic, reference, status, amount, payload, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, a.Kind, a.Topic, a.Reference, a.Status, a.Amount, a.Payload, a.CreatedAt.UTC())
	return err
}

// Recent returns the newest activity first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]Activity, error) {
	rows, err := r.db.Query(ctx, `SELECT id, kind, topic, reference, status, amount, payload, created_at
        FROM activity ORDER BY created_at DESC, id DESC LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Activity, 0)
	for rows.Next() {
		var (
			a         Activity
			id        uuid.UUID
			createdAt time.Time
		)
		if err := rows.Scan(&id, &a.Kind, &a.Topic, &a.Reference, &a.Status, &a.Amount, &a.Payload, &createdAt); err != nil {
			return nil, err
		}
		a.ID = id.String()
		a.CreatedAt = createdAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func withDefaults(a Activity) Activity {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return a
}

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultRecentLimit
	case limit > maxRecentLimit:
		return maxRecentLimit
	default:
		return limit
	}
}
