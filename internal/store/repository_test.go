package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Set TEST_DATABASE_URL to run against a real PostgreSQL.
func newTestPostgres(t *testing.T) (*PostgresRepository, *pgxpool.Pool) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	repo, err := NewPostgresRepository(ctx, pool)
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	return repo, pool
}

func TestPostgresRepositoryRecentOrdersTiesByID(t *testing.T) {
	repo, pool := newTestPostgres(t)
	ctx := context.Background()
	topic := "test-" + uuid.NewString()
	t.Cleanup(func() { _, _ = pool.Exec(context.Background(), `DELETE FROM activity WHERE topic = $1`, topic) })

	// Far in the future so these rows sort ahead of anything already stored.
	at := time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{
		"00000000-0000-0000-0000-000000000001",
		"00000000-0000-0000-0000-000000000003",
		"00000000-0000-0000-0000-000000000002",
	}
	for _, id := range ids {
		if _, err := pool.Exec(ctx, `DELETE FROM activity WHERE id = $1`, uuid.MustParse(id)); err != nil {
			t.Fatalf("clear: %v", err)
		}
		if err := repo.Record(ctx, Activity{ID: id, Kind: KindWebhook, Topic: topic, Reference: id, Status: "completed", Amount: 100, CreatedAt: at}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := repo.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	want := []string{ids[1], ids[2], ids[0]}
	for i, a := range got {
		if a.ID != want[i] || a.Topic != topic || a.Amount != 100 || !a.CreatedAt.Equal(at) {
			t.Fatalf("row %d: unexpected %+v, want id %s", i, a, want[i])
		}
	}
}
