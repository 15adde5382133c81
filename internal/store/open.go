package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/julianshen/ratiocalc/internal/config"
)

// Open builds the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (KV, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite, config.DriverMySQL, config.DriverPostgres:
		return NewSQLStore(ctx, cfg.Driver, cfg.DSN)
	case config.DriverRedis:
		password, err := config.ResolveSecret(cfg.RedisPasswordSource, cfg.RedisPassword, "RATIOCALC_REDIS_PASSWORD")
		if err != nil {
			return nil, fmt.Errorf("resolving redis password: %w", err)
		}
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: password,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisStore(client, cfg.KeyPrefix), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}
