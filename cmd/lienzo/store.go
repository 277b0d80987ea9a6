package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/aretw0/lienzo/internal/config"
	"github.com/aretw0/lienzo/pkg/adapters/file"
	"github.com/aretw0/lienzo/pkg/adapters/memory"
	"github.com/aretw0/lienzo/pkg/adapters/postgres"
	"github.com/aretw0/lienzo/pkg/adapters/redis"
	"github.com/aretw0/lienzo/pkg/persistence/middleware"
	"github.com/aretw0/lienzo/pkg/ports"
)

// backend is an opened persistence collaborator.
type backend struct {
	store  ports.Store
	locker ports.DistributedLocker
	close  func()
}

// openStore opens the configured backend and wraps it with store logging
// and metadata masking.
func openStore(ctx context.Context, cfg config.Store, logger *slog.Logger) (*backend, error) {
	b, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
	if len(cfg.MaskMetaKeys) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.MaskMetaKeys)
		if err != nil {
			b.close()
			return nil, fmt.Errorf("invalid mask_meta_keys: %w", err)
		}
		mws = append(mws, pii)
	}
	b.store = middleware.Chain(b.store, mws...)
	return b, nil
}

func open(ctx context.Context, cfg config.Store) (*backend, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return &backend{store: file.New(cfg.Dir), locker: memory.NewLocker(), close: func() {}}, nil

	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		return &backend{
			store:  redis.NewFromClient(client, redis.WithPrefix(cfg.RedisPrefix)),
			locker: redis.NewLocker(client, cfg.RedisPrefix),
			close:  func() { _ = client.Close() },
		}, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		store := postgres.New(pool)
		if err := store.CreateSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &backend{store: store, locker: memory.NewLocker(), close: pool.Close}, nil

	default:
		return &backend{store: memory.NewStore(), locker: memory.NewLocker(), close: func() {}}, nil
	}
}
