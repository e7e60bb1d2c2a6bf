package di

import (
	"context"
	"testing"
	"time"

	"github.com/Abhijit47/blog-api/internal/cacheinfra"
	"github.com/Abhijit47/blog-api/internal/model"
	"github.com/Abhijit47/blog-api/internal/repository"
)

type countingRepo struct {
	lists int
}

func (c *countingRepo) List(ctx context.Context, ownerID string, q repository.ListQuery) ([]model.Post, int, error) {
	c.lists++
	return []model.Post{}, 0, nil
}

func (c *countingRepo) GetByID(ctx context.Context, ownerID, id string) (model.Post, error) {
	return model.Post{ID: id, AuthorID: ownerID}, nil
}

func (c *countingRepo) Create(ctx context.Context, post model.Post) (model.Post, error) {
	return post, nil
}

func (c *countingRepo) Update(ctx context.Context, ownerID, id string, patch repository.PostPatch) error {
	return nil
}

func (c *countingRepo) Delete(ctx context.Context, ownerID, id string) error {
	return nil
}

func TestNewContainer_RejectsInvalidConfig(t *testing.T) {
	cfg := cacheinfra.DefaultConfig()
	cfg.Capacity = 0

	if _, err := NewContainer(cfg); err == nil {
		t.Error("expected error for invalid cache config")
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	c, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults failed: %v", err)
	}
	if c.CacheService() == nil {
		t.Error("expected a cache service instance")
	}
	if c.KeySerializer() == nil {
		t.Error("expected a key serializer instance")
	}
	if c.Config().Capacity != cacheinfra.DefaultConfig().Capacity {
		t.Errorf("unexpected config: %+v", c.Config())
	}
}

func TestCachedPosts_SharesCacheService(t *testing.T) {
	c, err := NewContainer(cacheinfra.Config{
		Capacity:           100,
		NumShards:          4,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	})
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}

	base := &countingRepo{}
	cached := c.CachedPosts(base)
	ctx := context.Background()
	q := repository.ListQuery{Page: 1, PageSize: 10}

	for i := 0; i < 3; i++ {
		if _, _, err := cached.List(ctx, "owner-1", q); err != nil {
			t.Fatalf("List failed: %v", err)
		}
	}
	if base.lists != 1 {
		t.Errorf("expected repeated reads to hit the cache, got %d base calls", base.lists)
	}
}
