// Package cache implements the cache policy engine: the single component
// that decides what gets cached, under which namespace and key, for how
// long, and which entries a mutation must invalidate.
//
// The engine is deliberately table-driven. Every namespace, key rule and
// TTL lives in one registry (namespaces.go), and every invalidation a
// domain service issues goes through Invalidate/InvalidateNamespace here,
// so the combined effect of a mutation is auditable in one place.
//
// The cache store is never authoritative. Every store failure degrades to
// the loader path (reads) or to a logged no-op (invalidations/primes):
// a cache outage costs latency, never correctness or availability.
package cache

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"storefront/pkg/redis"
)

// Store is the key->serialized-value contract the engine writes through.
// *redis.Manager satisfies it; tests inject in-memory fakes.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	FlushAll(ctx context.Context) error
}

// Engine orchestrates cache store calls around the persistence gateway.
// It is the only component that writes to the shared store.
type Engine struct {
	store    Store
	policies map[Namespace]Policy
	logger   zerolog.Logger
}

// NewEngine creates a policy engine over the given store with the default
// namespace registry.
func NewEngine(store Store, logger zerolog.Logger) *Engine {
	return &Engine{
		store:    store,
		policies: defaultPolicies(),
		logger:   logger,
	}
}

// TTL returns the configured TTL for a namespace, or the default for a
// namespace without a registered policy. Never zero: a zero TTL would
// store the entry without an expiry.
func (e *Engine) TTL(ns Namespace) time.Duration {
	if policy, ok := e.policies[ns]; ok && policy.TTL > 0 {
		return policy.TTL
	}
	return defaultTTL
}

// CachedRead returns the cached value under (ns, key) if present and
// unexpired; otherwise it invokes loader, stores the result with the
// namespace's TTL, and returns it.
//
// Absent results (nil pointers, nil slices from a typed loader returning
// nothing) are returned but never cached, so a later create is visible
// immediately. Store failures on either side are logged and degrade to
// direct loader execution.
func CachedRead[T any](ctx context.Context, e *Engine, ns Namespace, key string, loader func(context.Context) (T, error)) (T, error) {
	fullKey := storeKey(ns, key)

	data, err := e.store.Get(ctx, fullKey)
	if err == nil {
		var value T
		if err := unmarshalValue(data, &value); err == nil {
			PolicyHits.WithLabelValues(string(ns)).Inc()
			e.logger.Debug().Str("namespace", string(ns)).Str("key", key).Msg("cache hit")
			return value, nil
		}
		// Corrupt entry: drop it and fall through to the loader
		PolicyErrors.WithLabelValues("get").Inc()
		e.logger.Warn().Str("namespace", string(ns)).Str("key", key).Msg("dropping undecodable cache entry")
		_ = e.store.Delete(ctx, fullKey)
	} else if !redis.IsKeyNotFound(err) && !redis.IsCacheDisabled(err) {
		PolicyErrors.WithLabelValues("get").Inc()
		e.logger.Warn().Err(err).Str("namespace", string(ns)).Str("key", key).Msg("cache read degraded to loader")
	}

	PolicyMisses.WithLabelValues(string(ns)).Inc()

	value, err := loader(ctx)
	if err != nil {
		return value, err
	}

	if isAbsent(value) {
		return value, nil
	}

	if data, err := marshalValue(value); err == nil {
		if err := e.store.Set(ctx, fullKey, data, e.TTL(ns)); err != nil && !redis.IsCacheDisabled(err) {
			PolicyErrors.WithLabelValues("set").Inc()
			e.logger.Warn().Err(err).Str("namespace", string(ns)).Str("key", key).Msg("cache store write failed")
		}
	}

	return value, nil
}

// Prime writes a known-fresh value directly under (ns, key), so the next
// read after a create/update is a hit. Best-effort: failures are logged.
func (e *Engine) Prime(ctx context.Context, ns Namespace, key string, value interface{}) {
	if isAbsent(value) {
		return
	}

	data, err := marshalValue(value)
	if err != nil {
		PolicyErrors.WithLabelValues("prime").Inc()
		e.logger.Warn().Err(err).Str("namespace", string(ns)).Str("key", key).Msg("cache prime failed")
		return
	}

	if err := e.store.Set(ctx, storeKey(ns, key), data, e.TTL(ns)); err != nil && !redis.IsCacheDisabled(err) {
		PolicyErrors.WithLabelValues("prime").Inc()
		e.logger.Warn().Err(err).Str("namespace", string(ns)).Str("key", key).Msg("cache prime failed")
		return
	}

	PolicyPrimes.WithLabelValues(string(ns)).Inc()
	e.logger.Debug().Str("namespace", string(ns)).Str("key", key).Msg("cache primed")
}

// Invalidate deletes specific entries. Absent keys are a no-op, not an
// error; store failures are logged and swallowed (TTL bounds the staleness).
func (e *Engine) Invalidate(ctx context.Context, ns Namespace, keys ...string) {
	if len(keys) == 0 {
		return
	}

	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = storeKey(ns, key)
	}

	if err := e.store.Delete(ctx, fullKeys...); err != nil && !redis.IsCacheDisabled(err) {
		PolicyErrors.WithLabelValues("delete").Inc()
		e.logger.Warn().Err(err).Str("namespace", string(ns)).Strs("keys", keys).Msg("cache invalidation failed")
		return
	}

	PolicyInvalidations.WithLabelValues(string(ns)).Inc()
	e.logger.Debug().Str("namespace", string(ns)).Strs("keys", keys).Msg("cache entries invalidated")
}

// InvalidateNamespace clears an entire region. Used for search-result
// caches, where any write to the underlying entity type can change result
// membership and the key space is not enumerable.
func (e *Engine) InvalidateNamespace(ctx context.Context, ns Namespace) {
	if err := e.store.DeleteByPattern(ctx, namespacePattern(ns)); err != nil && !redis.IsCacheDisabled(err) {
		PolicyErrors.WithLabelValues("delete_namespace").Inc()
		e.logger.Warn().Err(err).Str("namespace", string(ns)).Msg("cache namespace invalidation failed")
		return
	}

	PolicyInvalidations.WithLabelValues(string(ns)).Inc()
	e.logger.Debug().Str("namespace", string(ns)).Msg("cache namespace cleared")
}

// FlushAll clears every namespace. Admin-facing; the error is surfaced so
// the operator learns the flush did not happen.
func (e *Engine) FlushAll(ctx context.Context) error {
	if err := e.store.FlushAll(ctx); err != nil && !redis.IsCacheDisabled(err) {
		e.logger.Error().Err(err).Msg("cache flush failed")
		return err
	}
	e.logger.Info().Msg("all caches flushed")
	return nil
}

// isAbsent reports whether a value represents "nothing found" and must not
// be cached: nil interfaces, nil pointers, and nil slices/maps.
func isAbsent(value interface{}) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
		return rv.IsNil()
	default:
		return false
	}
}
