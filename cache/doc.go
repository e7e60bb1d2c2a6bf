// Package cache defines the caching contracts used by the cached posts
// repository.
//
// Two interfaces live here:
//
//   - CacheService: read-through cache with key and prefix invalidation
//   - KeySerializer: builds stable cache keys from method names and arguments
//
// The default backend is the sturdyc adapter in internal/cacheinfra; the
// decorator in package postcache consumes both interfaces and never touches
// the backend directly.
//
// # Key structure
//
// Keys are method name plus serialized arguments, joined by KeySeparator:
//
//	List::owner-1::struct:{Page:1,PageSize:10,Q:}
//	GetByID::owner-1::2f1c...
//
// The owner identity always appears as the first argument segment, which is
// what makes owner-targeted prefix invalidation possible after mutations.
//
// # Type safety
//
// CacheService.GetOrFetch is deliberately untyped so one backend instance can
// serve values of different shapes (single posts and list pages share one
// cache). The generic wrapper restores type safety at the call site:
//
//	post, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) (model.Post, error) {
//		return repo.GetByID(ctx, owner, id)
//	})
//
// A cached value that does not match the requested type surfaces as
// ErrInvalidResultType rather than a panic.
package cache
