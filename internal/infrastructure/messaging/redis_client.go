package messaging

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dizzycode.xyz/strategy-runtime/pkg/logger"
)

// RedisOptions connection settings
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// RedisClient wraps redis.Client with logging and health check
type RedisClient struct {
	rdb    *redis.Client
	logger logger.Logger
}

// NewRedisClient creates a new Redis client with connection validation
func NewRedisClient(ctx context.Context, opts RedisOptions, log logger.Logger) (*RedisClient, error) {
	if opts.PoolSize <= 0 {
		opts.PoolSize = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: opts.PoolSize,
	})

	// Ping to verify connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	log.Info("Redis client connected", map[string]any{
		"addr":     opts.Addr,
		"db":       opts.DB,
		"poolSize": opts.PoolSize,
	})

	return &RedisClient{
		rdb:    rdb,
		logger: log,
	}, nil
}

// Client returns the underlying redis.Client for direct access
func (c *RedisClient) Client() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	c.logger.Info("Closing Redis connection", nil)
	return c.rdb.Close()
}

// Ping checks if the connection is alive
func (c *RedisClient) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
