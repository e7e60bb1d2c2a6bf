// Package cacheinfra adapts the sturdyc in-memory cache to the CacheService
// contract in package cache. sturdyc gives us sharded storage, TTL-based
// expiry and in-flight request de-duplication per key.
package cacheinfra

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds the sturdyc adapter configuration.
type Config struct {
	// Capacity is the maximum number of entries. Must be > 0.
	Capacity int

	// NumShards controls concurrent access; more shards, less contention.
	// Must be > 0.
	NumShards int

	// TTL is the default time-to-live for entries. Must be > 0.
	TTL time.Duration

	// EvictionPercentage is the share of entries evicted when capacity is
	// reached. Must be in [1,100].
	EvictionPercentage int

	// MissingRecordStorage remembers keys that resolved to nothing so
	// repeated lookups of absent records skip the database.
	MissingRecordStorage bool

	// EvictionInterval overrides how often expired entries are collected.
	// Zero keeps the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns settings that suit a single-instance dashboard
// backend.
func DefaultConfig() Config {
	return Config{
		Capacity:             10000,
		NumShards:            64,
		TTL:                  5 * time.Minute,
		EvictionPercentage:   10,
		MissingRecordStorage: true,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("cache config: capacity must be greater than 0")
	case c.NumShards <= 0:
		return fmt.Errorf("cache config: num shards must be greater than 0")
	case c.TTL <= 0:
		return fmt.Errorf("cache config: ttl must be greater than 0")
	case c.EvictionPercentage < 1 || c.EvictionPercentage > 100:
		return fmt.Errorf("cache config: eviction percentage must be between 1 and 100")
	}
	return nil
}

func (c Config) options() []sturdyc.Option {
	var opts []sturdyc.Option
	if c.MissingRecordStorage {
		opts = append(opts, sturdyc.WithMissingRecordStorage())
	}
	if c.EvictionInterval > 0 {
		opts = append(opts, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return opts
}

// Service wraps a sturdyc client behind the cache.CacheService contract.
type Service struct {
	client *sturdyc.Client[any]
}

// NewSturdycService validates cfg and builds the adapter.
func NewSturdycService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.options()...,
	)
	return &Service{client: client}, nil
}

// GetOrFetch implements cache.CacheService. fetchFn must have the shape
// func(context.Context) (T, error); the reflection bridge below erases T so
// sturdyc can store heterogeneous values in one client.
func (s *Service) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	return s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return callFetchFn(ctx, fetchFn)
	})
}

// Delete implements cache.CacheService.
func (s *Service) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix implements cache.CacheService. It scans the key space, so
// invalidation cost is proportional to the number of live entries; fine for
// an in-process cache, revisit if the backend ever goes remote.
func (s *Service) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

func validateFetchFn(fetchFn any) error {
	if fetchFn == nil {
		return fmt.Errorf("cacheinfra: fetchFn cannot be nil")
	}

	t := reflect.TypeOf(fetchFn)
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 2 {
		return fmt.Errorf("cacheinfra: fetchFn must have signature func(context.Context) (T, error)")
	}
	if !t.In(0).Implements(contextType) {
		return fmt.Errorf("cacheinfra: fetchFn first parameter must be context.Context")
	}
	if !t.Out(1).Implements(errorType) {
		return fmt.Errorf("cacheinfra: fetchFn second return value must be error")
	}
	return nil
}

// callFetchFn invokes a pre-validated fetch function. The direct assertion
// covers the untyped case; everything else goes through reflection.
func callFetchFn(ctx context.Context, fetchFn any) (any, error) {
	if fn, ok := fetchFn.(func(context.Context) (any, error)); ok {
		return fn(ctx)
	}

	results := reflect.ValueOf(fetchFn).Call([]reflect.Value{reflect.ValueOf(ctx)})

	var result any
	if rv := results[0]; rv.IsValid() && rv.CanInterface() {
		result = rv.Interface()
	}

	var err error
	if ev := results[1]; ev.IsValid() && !ev.IsNil() {
		err = ev.Interface().(error)
	}
	return result, err
}
