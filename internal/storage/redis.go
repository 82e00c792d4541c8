package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"geobot/internal/config"
	"geobot/internal/logger"
	"log/slog"
)

const connectTimeout = 5 * time.Second

// Connect opens the Redis connection and verifies connectivity.
func Connect(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	start := time.Now()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.STORE.Error("redis ping failed",
			slog.String("event", "store.connect"),
			slog.String("addr", cfg.Addr),
			slog.Int("db", cfg.DB),
			slog.String("err", err.Error()),
		)
		_ = client.Close()
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	logger.STORE.Info("redis connected",
		slog.String("event", "store.connect"),
		slog.String("addr", cfg.Addr),
		slog.Int("db", cfg.DB),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	return client, nil
}
