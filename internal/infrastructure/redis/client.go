package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultPingTimeout = 3 * time.Second

// ClientConfig holds the Redis connection settings. Values set in the URL
// (pool_size, dial_timeout, ...) are overridden only by positive fields.
type ClientConfig struct {
	URL         string
	PoolSize    int
	PingTimeout time.Duration
	Logger      zerolog.Logger
}

// NewClient connects to Redis and pings it. The client backs the party
// cache and the idempotency store, so startup fails when it is unreachable.
func NewClient(ctx context.Context, cfg ClientConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	client := redis.NewClient(opts)

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	cfg.Logger.Info().
		Str("addr", opts.Addr).
		Int("db", opts.DB).
		Int("pool_size", opts.PoolSize).
		Msg("connected to redis")

	return client, nil
}
