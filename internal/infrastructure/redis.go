package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient is the subset of redis used by the credential cache.
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

var _ RedisClient = (*redisClient)(nil)

type redisClient struct {
	cli *redis.Client
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (RedisClient, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &redisClient{cli: c}, nil
}

func (c *redisClient) Get(ctx context.Context, key string) (string, error) {
	return c.cli.Get(ctx, key).Result()
}

func (c *redisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.cli.Set(ctx, key, value, expiration).Err()
}

func (c *redisClient) Del(ctx context.Context, keys ...string) error {
	return c.cli.Del(ctx, keys...).Err()
}

func (c *redisClient) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }

func (c *redisClient) Close() error { return c.cli.Close() }

// IsCacheMiss reports whether err is redis' "key does not exist".
func IsCacheMiss(err error) bool {
	return err == redis.Nil
}
