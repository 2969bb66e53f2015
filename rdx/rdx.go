package rdx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the Redis client used for product-list caching, session token
// bookkeeping and the order-events pub/sub channel. Built once in main and
// passed in explicitly.
type Cache struct {
	Conn *redis.Client
}

// Connect opens a Redis connection and pings it.
func Connect(ctx context.Context, addr string) (*Cache, error) {
	conn := redis.NewClient(&redis.Options{Addr: addr})
	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Cache{Conn: conn}, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Conn.Set(ctx, key, value, ttl).Err()
}

// Get returns "" (and no error) for a missing key.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.Conn.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	return c.Conn.Del(ctx, keys...).Err()
}

func (c *Cache) HSet(ctx context.Context, key, field, value string) error {
	return c.Conn.HSet(ctx, key, field, value).Err()
}

func (c *Cache) HDel(ctx context.Context, key, field string) error {
	return c.Conn.HDel(ctx, key, field).Err()
}

func (c *Cache) Close() error {
	return c.Conn.Close()
}
