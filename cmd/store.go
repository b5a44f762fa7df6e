package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msomdec/rolecall/internal/cache"
	"github.com/msomdec/rolecall/internal/config"
	"github.com/msomdec/rolecall/internal/domain"
	"github.com/msomdec/rolecall/internal/repository/memory"
	"github.com/msomdec/rolecall/internal/repository/sqlite"
)

// openUsers returns the configured user repository and a function releasing it.
func openUsers(ctx context.Context, cfg config.Config) (domain.UserRepository, func() error, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database migrations applied", "path", cfg.DatabasePath)
		return db.Users(), db.Close, nil
	default:
		slog.Info("using in-memory user store")
		return memory.NewUserRepository(), func() error { return nil }, nil
	}
}

// openUserCache returns redis when a URL is configured and an in-process
// cache otherwise.
func openUserCache(ctx context.Context, cfg config.Config) (domain.Cache[domain.User], func() error, error) {
	if cfg.Cache.RedisURL == "" {
		return cache.NewLocal[domain.User](), func() error { return nil }, nil
	}

	client, err := cache.NewRedisClient(cfg.Cache.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("using redis user cache", "prefix", cfg.Cache.Prefix, "ttl", cfg.Cache.TTL)
	return cache.NewRedis[domain.User](client, cfg.Cache.Prefix, cfg.Cache.TTL), client.Close, nil
}

// defaultUsers is the roster seeded into an empty store.
func defaultUsers() []domain.User {
	return []domain.User{
		*domain.NewUser(1, "Alice", "alice@example.com", domain.RoleAdmin),
		*domain.NewUser(2, "Bob", "bob@example.com", domain.RoleEditor),
		*domain.NewUser(3, "Charlie", "charlie@example.com", domain.RoleViewer),
	}
}
