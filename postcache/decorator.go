package postcache

import (
	"context"

	"github.com/Abhijit47/blog-api/cache"
	"github.com/Abhijit47/blog-api/internal/model"
	"github.com/Abhijit47/blog-api/internal/repository"
)

// Interface assertion to ensure CachedPosts stays a drop-in replacement.
var _ repository.PostRepository = (*CachedPosts)(nil)

// listResult wraps the tuple result from List so it caches as one unit;
// items and total must never come from different snapshots.
type listResult struct {
	Items []model.Post `json:"items"`
	Total int          `json:"total"`
}

// CachedPosts decorates a base posts repository with read-through caching.
// Reads (List, GetByID) are cached; writes pass through and invalidate the
// affected entries for the owner who mutated.
type CachedPosts struct {
	base repository.PostRepository
	svc  cache.CacheService
	keys cache.KeySerializer
}

// New wraps base with caching.
func New(base repository.PostRepository, svc cache.CacheService, keys cache.KeySerializer) *CachedPosts {
	return &CachedPosts{base: base, svc: svc, keys: keys}
}

// List retrieves one page of the owner's posts, cached per (owner, query).
func (c *CachedPosts) List(ctx context.Context, ownerID string, q repository.ListQuery) ([]model.Post, int, error) {
	key := c.keys.SerializeKey("List", ownerID, q)
	res, err := cache.GetOrFetch(ctx, c.svc, key, func(ctx context.Context) (listResult, error) {
		items, total, err := c.base.List(ctx, ownerID, q)
		return listResult{Items: items, Total: total}, err
	})
	if err != nil {
		return nil, 0, err
	}
	return res.Items, res.Total, nil
}

// GetByID retrieves a single post, cached per (owner, id).
func (c *CachedPosts) GetByID(ctx context.Context, ownerID, id string) (model.Post, error) {
	key := c.keys.SerializeKey("GetByID", ownerID, id)
	return cache.GetOrFetch(ctx, c.svc, key, func(ctx context.Context) (model.Post, error) {
		return c.base.GetByID(ctx, ownerID, id)
	})
}

// Create passes through; on success the owner's list pages go stale and are
// dropped.
func (c *CachedPosts) Create(ctx context.Context, post model.Post) (model.Post, error) {
	created, err := c.base.Create(ctx, post)
	if err == nil {
		c.invalidateLists(ctx, created.AuthorID)
	}
	return created, err
}

// Update passes through; on success both the detail entry and the owner's
// list pages are dropped.
func (c *CachedPosts) Update(ctx context.Context, ownerID, id string, patch repository.PostPatch) error {
	err := c.base.Update(ctx, ownerID, id, patch)
	if err == nil {
		c.invalidateDetail(ctx, ownerID, id)
		c.invalidateLists(ctx, ownerID)
	}
	return err
}

// Delete passes through; invalidation mirrors Update.
func (c *CachedPosts) Delete(ctx context.Context, ownerID, id string) error {
	err := c.base.Delete(ctx, ownerID, id)
	if err == nil {
		c.invalidateDetail(ctx, ownerID, id)
		c.invalidateLists(ctx, ownerID)
	}
	return err
}

// invalidateLists drops every cached list page for one owner. The trailing
// separator keeps "owner-1" from matching "owner-10".
func (c *CachedPosts) invalidateLists(ctx context.Context, ownerID string) {
	prefix := c.keys.SerializeKey("List", ownerID) + cache.KeySeparator
	// Invalidation failures are not surfaced: the write already succeeded
	// and a stale entry expires with its TTL anyway.
	_ = c.svc.DeleteByPrefix(ctx, prefix)
}

func (c *CachedPosts) invalidateDetail(ctx context.Context, ownerID, id string) {
	_ = c.svc.Delete(ctx, c.keys.SerializeKey("GetByID", ownerID, id))
}
