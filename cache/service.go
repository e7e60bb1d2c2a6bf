package cache

import (
	"context"
	"errors"
)

// ErrInvalidResultType is returned when a cached value cannot be converted
// back to the type the caller asked for. This indicates a key collision or a
// serializer bug, never normal operation.
var ErrInvalidResultType = errors.New("cache: result does not match requested type")

// KeySerializer builds a cache key from a method name + arbitrary args.
// It must produce stable keys across calls within a process.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn is the function signature CacheService expects when fetching from
// the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the read-through and invalidation operations the
// cached repository needs. Implementations live behind this interface so the
// backend can be swapped without touching the decorator.
type CacheService interface {
	// GetOrFetch returns the cached value for key, calling fetchFn on a
	// miss. fetchFn must be a FetchFn[T] for some T; only one fetch per key
	// is in flight at a time.
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)

	// Delete removes a single entry.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every entry whose key starts with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// GetOrFetch is the type-safe wrapper around CacheService.GetOrFetch.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T

	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		return zero, err
	}
	if result == nil {
		// A nil interface result maps to the zero value of T (covers
		// interface and pointer Ts that legitimately cache nil).
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return typed, nil
}
