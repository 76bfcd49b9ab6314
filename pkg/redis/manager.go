// Package redis implements the shared cache store client: a key to
// serialized-value store with per-entry TTL backed by a single external
// Redis instance. The store is a derived, disposable projection of the
// database; every operation here is best-effort and bounded by a short
// timeout so a cache outage degrades latency, never availability.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Manager manages the Redis connection and cache store operations
type Manager struct {
	config  *Config
	client  *redis.Client
	metrics *Metrics
}

// NewManager creates a new cache store manager
func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid redis config: %w", err)
	}

	manager := &Manager{
		config:  config,
		metrics: NewMetrics(),
	}

	if config.Enabled {
		manager.client = redis.NewClient(&redis.Options{
			Addr:            config.GetAddr(),
			Password:        config.Password,
			DB:              config.Database,
			PoolSize:        config.PoolSize,
			MinIdleConns:    config.MinIdleConns,
			ConnMaxLifetime: config.MaxConnAge,
			PoolTimeout:     config.PoolTimeout,
			ConnMaxIdleTime: config.IdleTimeout,
			DialTimeout:     config.DialTimeout,
			ReadTimeout:     config.ReadTimeout,
			WriteTimeout:    config.WriteTimeout,
		})
	}

	return manager, nil
}

// Config returns the manager's configuration
func (m *Manager) Config() *Config {
	return m.config
}

// Close closes the Redis connection
func (m *Manager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// Ping tests the Redis connection.
// Returns nil if the cache is disabled (a valid configuration state).
func (m *Manager) Ping(ctx context.Context) error {
	if !m.config.Enabled {
		return nil
	}
	if m.client == nil {
		return ErrClientNotInitialized
	}

	ctx, cancel := m.withOpTimeout(ctx)
	defer cancel()

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	return nil
}

// checkClient validates that the cache is enabled and the client is initialized
func (m *Manager) checkClient() error {
	if !m.config.Enabled {
		return ErrCacheDisabled
	}
	if m.client == nil {
		return ErrClientNotInitialized
	}
	return nil
}

// withOpTimeout bounds a single store call with the configured operation timeout
func (m *Manager) withOpTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.config.OpTimeout > 0 {
		return context.WithTimeout(ctx, m.config.OpTimeout)
	}
	return ctx, func() {}
}

// Get retrieves a value from the store.
// Returns ErrKeyNotFound when the key does not exist.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, error) {
	if err := m.checkClient(); err != nil {
		return nil, err
	}

	ctx, cancel := m.withOpTimeout(ctx)
	defer cancel()

	start := time.Now()
	result := m.client.Get(ctx, key)
	m.metrics.RecordGet(time.Since(start))

	if result.Err() == redis.Nil {
		m.metrics.RecordCacheMiss()
		return nil, ErrKeyNotFound
	}
	if result.Err() != nil {
		m.metrics.RecordCacheError()
		return nil, fmt.Errorf("redis get error: %w", result.Err())
	}

	m.metrics.RecordCacheHit()
	return []byte(result.Val()), nil
}

// Set stores a value with the given TTL
func (m *Manager) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := m.checkClient(); err != nil {
		return err
	}

	ctx, cancel := m.withOpTimeout(ctx)
	defer cancel()

	start := time.Now()
	err := m.client.Set(ctx, key, value, ttl).Err()
	m.metrics.RecordSet(time.Since(start))

	if err != nil {
		m.metrics.RecordCacheError()
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

// Delete removes keys from the store. Missing keys are not an error.
func (m *Manager) Delete(ctx context.Context, keys ...string) error {
	if err := m.checkClient(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := m.withOpTimeout(ctx)
	defer cancel()

	start := time.Now()
	err := m.client.Del(ctx, keys...).Err()
	m.metrics.RecordDelete(time.Since(start))

	if err != nil {
		m.metrics.RecordCacheError()
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}

// DeleteByPattern removes keys matching a pattern using SCAN instead of KEYS.
// SCAN is non-blocking and production-safe, unlike KEYS which blocks the Redis
// server. Used for wholesale namespace invalidation where the key space is
// unbounded (search-result caches).
func (m *Manager) DeleteByPattern(ctx context.Context, pattern string) error {
	if err := m.checkClient(); err != nil {
		return err
	}

	const scanBatchSize = 100

	var cursor uint64
	for {
		var batch []string
		var err error

		scanCtx, cancel := m.withOpTimeout(ctx)
		batch, cursor, err = m.client.Scan(scanCtx, cursor, pattern, scanBatchSize).Result()
		cancel()
		if err != nil {
			m.metrics.RecordCacheError()
			return fmt.Errorf("failed to scan keys with pattern %s: %w", pattern, err)
		}

		// Delete each batch as we go to avoid one large atomic delete
		if len(batch) > 0 {
			delCtx, cancel := m.withOpTimeout(ctx)
			err = m.client.Del(delCtx, batch...).Err()
			cancel()
			if err != nil {
				m.metrics.RecordCacheError()
				return fmt.Errorf("failed to delete batch: %w", err)
			}
			m.metrics.RecordInvalidation()
		}

		if cursor == 0 {
			break
		}
	}

	return nil
}

// FlushAll removes every key in the configured database. The store is a
// disposable projection, so a full flush only costs latency on rebuild.
func (m *Manager) FlushAll(ctx context.Context) error {
	if err := m.checkClient(); err != nil {
		return err
	}

	ctx, cancel := m.withOpTimeout(ctx)
	defer cancel()

	if err := m.client.FlushDB(ctx).Err(); err != nil {
		m.metrics.RecordCacheError()
		return fmt.Errorf("redis flushdb error: %w", err)
	}
	m.metrics.RecordFlush()
	return nil
}

// GetMetrics returns current cache performance metrics
func (m *Manager) GetMetrics() MetricsSnapshot {
	if m.metrics == nil {
		return MetricsSnapshot{}
	}
	return m.metrics.GetSnapshot()
}

// ResetMetrics resets all performance metrics counters
func (m *Manager) ResetMetrics() {
	if m.metrics != nil {
		m.metrics.Reset()
	}
}
