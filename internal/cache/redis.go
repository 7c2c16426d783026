// Package cache wraps the Redis client used for advisory caching and the
// latest-reading snapshot.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sebasr/ecosense-service/internal/metrics"
	"github.com/sebasr/ecosense-service/internal/models"
)

// RedisCache is a thin wrapper around a Redis client
type RedisCache struct {
	client     *redis.Client
	prefix     string
	readingTTL time.Duration
}

// Options configures a RedisCache
type Options struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	ReadingTTL  time.Duration
	DialTimeout time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, opts Options) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     20,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  opts.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "ecosense"
	}
	return &RedisCache{client: client, prefix: prefix, readingTTL: opts.ReadingTTL}, nil
}

func (r *RedisCache) key(k string) string {
	return r.prefix + ":" + k
}

// Get returns the value stored at key. A missing key is not an error.
func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
		return "", false, nil
	case err != nil:
		metrics.CacheOperations.WithLabelValues("get", "error").Inc()
		return "", false, err
	}
	metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
	return val, true, nil
}

// Set stores value at key with the given expiry
func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		metrics.CacheOperations.WithLabelValues("set", "error").Inc()
		return err
	}
	metrics.CacheOperations.WithLabelValues("set", "success").Inc()
	return nil
}

// Name implements simulation.Sink
func (r *RedisCache) Name() string { return "redis" }

// Publish stores the reading as the latest snapshot for other consumers
func (r *RedisCache) Publish(ctx context.Context, reading models.Reading) error {
	data, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}
	return r.Set(ctx, LatestReadingKey, string(data), r.readingTTL)
}

// LatestReadingKey holds the most recent reading, without the prefix
const LatestReadingKey = "reading:latest"

// Close closes the connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}
