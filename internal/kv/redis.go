// ABOUTME: Redis-backed key-value store with namespaced keys.
// ABOUTME: All calls run through a circuit breaker so a dead server fails fast.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// BreakerSettings tunes the Redis circuit breaker.
type BreakerSettings struct {
	FailureThreshold uint32        // consecutive failures before opening
	Timeout          time.Duration // how long the breaker stays open
}

// DefaultBreakerSettings trips after 3 consecutive failures and retries after 30s.
var DefaultBreakerSettings = BreakerSettings{FailureThreshold: 3, Timeout: 30 * time.Second}

// RedisStore stores values under {namespace}:{key}.
type RedisStore struct {
	client    *redis.Client
	namespace string
	breaker   *gobreaker.CircuitBreaker[any]
}

// OpenRedis parses rawURL and creates a store on a new client.
func OpenRedis(rawURL, namespace string, logger hclog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return NewRedisStore(redis.NewClient(opt), namespace, DefaultBreakerSettings, logger), nil
}

// NewRedisStore wraps an existing client. The store owns the client and closes it.
func NewRedisStore(client *redis.Client, namespace string, bs BreakerSettings, logger hclog.Logger) *RedisStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	settings := gobreaker.Settings{
		Name:    "redis:" + namespace,
		Timeout: bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &RedisStore{
		client:    client,
		namespace: namespace,
		breaker:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

// namespaceKey creates the fully-qualified Redis key.
func (s *RedisStore) namespaceKey(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

// execute runs fn with circuit breaker protection.
func (s *RedisStore) execute(fn func() (any, error)) (any, error) {
	result, err := s.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result, err
}

// Get returns the value under key. A missing key counts as a success for the breaker.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	result, err := s.execute(func() (any, error) {
		val, err := s.client.Get(ctx, s.namespaceKey(key)).Result()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	val, ok := result.(string)
	return val, ok, nil
}

// Set overwrites the value under key without expiration.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.client.Set(ctx, s.namespaceKey(key), value, 0).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.client.Del(ctx, s.namespaceKey(key)).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Ping checks the server connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	_, err := s.execute(func() (any, error) {
		return nil, s.client.Ping(ctx).Err()
	})
	return err
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
