// Package di wires the cache components together so the composition root
// and the tests build cached repositories the same way.
package di

import (
	"github.com/Abhijit47/blog-api/cache"
	"github.com/Abhijit47/blog-api/internal/cacheinfra"
	"github.com/Abhijit47/blog-api/internal/repository"
	"github.com/Abhijit47/blog-api/postcache"
)

// Container manages singleton instances of the cache service and key
// serializer and builds cached repositories from them.
type Container struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	config        cacheinfra.Config
}

// NewContainer validates the cache configuration and initializes the
// sturdyc-backed service plus the default key serializer.
func NewContainer(config cacheinfra.Config) (*Container, error) {
	cacheService, err := cacheinfra.NewSturdycService(config)
	if err != nil {
		return nil, err
	}

	return &Container{
		cacheService:  cacheService,
		keySerializer: cache.NewDefaultKeySerializer(),
		config:        config,
	}, nil
}

// NewContainerWithDefaults is NewContainer with the default configuration.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(cacheinfra.DefaultConfig())
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the cache configuration.
func (c *Container) Config() cacheinfra.Config {
	return c.config
}

// CachedPosts wraps the base repository with the container's cache service
// and key serializer.
func (c *Container) CachedPosts(base repository.PostRepository) *postcache.CachedPosts {
	return postcache.New(base, c.cacheService, c.keySerializer)
}
