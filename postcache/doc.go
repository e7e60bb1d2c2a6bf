// Package postcache provides the caching decorator for the posts
// repository.
//
// # Overview
//
// CachedPosts wraps a repository.PostRepository and intercepts the read
// operations (List, GetByID) with a read-through cache while delegating
// writes to the base repository. It is a drop-in replacement: the service
// layer holds a PostRepository and never knows whether it is cached.
//
// # Caching behavior
//
//  1. Serialize (method, owner, args) into a key
//  2. On hit, return the cached result
//  3. On miss, call the base repository, store, return
//
// List results cache items and total count as a single unit so pagination
// metadata can never contradict the page contents. The backend de-duplicates
// concurrent fetches per key, so at most one database query is in flight for
// any distinct (owner, query) pair.
//
// # Invalidation
//
// After a successful mutation the decorator drops exactly the entries the
// mutation could have affected, always scoped to the mutating owner:
//
//   - Create: every cached list page of the owner
//   - Update: the post's detail entry + every list page of the owner
//   - Delete: same as Update
//
// Other owners' entries survive mutations untouched. Invalidation errors are
// swallowed: the write has already succeeded and stale entries die with
// their TTL.
//
// # Consistency caveats
//
// The cache is per-process. Concurrent writers to the same post race at the
// storage layer (last write wins, no version token); the decorator does not
// change that, it only guarantees that reads after a local mutation refetch.
package postcache
