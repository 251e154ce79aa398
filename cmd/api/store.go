package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/techhive/internal/cache"
	"github.com/geocoder89/techhive/internal/config"
	"github.com/geocoder89/techhive/internal/db"
	"github.com/geocoder89/techhive/internal/observability"
	"github.com/geocoder89/techhive/internal/repo/memory"
	"github.com/geocoder89/techhive/internal/repo/postgres"
	"github.com/geocoder89/techhive/internal/repo/sqlite"
)

type usersStore interface {
	cache.UsersBackend
	Ping(ctx context.Context) error
}

// openStore returns the configured user store, with its schema in place,
// and a func releasing its connections.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (usersStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.EnsurePostgresSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("store ready", "driver", cfg.StoreDriver)
		return postgres.NewUsersRepo(pool, prom), pool.Close, nil

	case config.StoreSQLite:
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.EnsureSQLiteSchema(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		log.Info("store ready", "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return sqlite.NewUsersRepo(sqlDB, prom), func() { _ = sqlDB.Close() }, nil

	default:
		log.Info("store ready", "driver", config.StoreMemory)
		return memory.NewUsersRepo(), func() {}, nil
	}
}

// openCache returns nil when caching is off.
func openCache(ctx context.Context, cfg config.Config, log *slog.Logger) (cache.Store, func(), error) {
	switch cfg.CacheDriver {
	case config.CacheRedis:
		rdb := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info("cache ready", "driver", cfg.CacheDriver, "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		return cache.NewRedis(rdb, cfg.CacheTTL), func() { _ = rdb.Close() }, nil

	case config.CacheMemory:
		log.Info("cache ready", "driver", cfg.CacheDriver, "ttl", cfg.CacheTTL)
		return cache.New(cfg.CacheTTL), func() {}, nil

	default:
		return nil, func() {}, nil
	}
}
