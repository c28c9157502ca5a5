package infra

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/payout_demo/internal/config"
	"github.com/congo-pay/payout_demo/internal/store"
)

const connectTimeout = 10 * time.Second

// Resources holds the optional backing services. Nil fields mean the service
// is not configured and the in-memory fallback is used.
type Resources struct {
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Activity store.Repository
}

// Connect dials PostgreSQL and Redis when their URLs are set. Without a
// database the activity trail is kept in memory.
func Connect(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Resources, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	r := &Resources{}
	if cfg.DatabaseURL != "" {
		db, err := NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		r.DB = db
		repo, err := store.NewPostgresRepository(ctx, db)
		if err != nil {
			r.Close(logger)
			return nil, err
		}
		r.Activity = repo
	} else {
		logger.Warn("DATABASE_URL not set, keeping activity in memory")
		r.Activity = store.NewMemoryRepository()
	}

	if cfg.RedisURL != "" {
		cache, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			r.Close(logger)
			return nil, err
		}
		r.Cache = cache
	} else {
		logger.Warn("REDIS_URL not set, Idempotency-Key is ignored")
	}
	return r, nil
}

// Close releases every connected service.
func (r *Resources) Close(logger *slog.Logger) {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			logger.Warn("close redis", "error", err)
		}
	}
	if r.DB != nil {
		r.DB.Close()
	}
}
