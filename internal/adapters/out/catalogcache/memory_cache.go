// Package catalogcache puts a staleness-bounded product cache in front of the
// catalog. Entries live for the configured TTL; a categorization invalidates
// the SKU it changed so the change is visible at once.
package catalogcache

import (
	"context"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/cache"
)

// MemoryProductCache is a process-local ProductCache.
type MemoryProductCache struct {
	entries *cache.TTLCache[string, catalog.Product]
}

func NewMemoryProductCache(cfg cache.Config) *MemoryProductCache {
	return &MemoryProductCache{entries: cache.New[string, catalog.Product](cfg)}
}

var _ ports.ProductCache = (*MemoryProductCache)(nil)

func (c *MemoryProductCache) Get(_ context.Context, sku string) (catalog.Product, bool) {
	return c.entries.Get(sku)
}

func (c *MemoryProductCache) Set(_ context.Context, product catalog.Product) {
	c.entries.Set(product.SKU, product)
}

func (c *MemoryProductCache) Invalidate(_ context.Context, skus ...string) error {
	c.entries.Invalidate(skus...)
	return nil
}

func (c *MemoryProductCache) Stats() cache.Stats {
	return c.entries.Stats()
}
