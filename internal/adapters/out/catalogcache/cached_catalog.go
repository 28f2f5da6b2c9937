package catalogcache

import (
	"context"
	"fmt"
	"sync"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// CachedCatalog serves Lookup from the cache and falls through to the
// backing catalog on a miss. Variant and kit lookups are not cached.
//
// Every SKU carries a generation that Invalidate bumps. A lookup only keeps
// what it read from the backing catalog when the generation it started with
// is still current after the write, so a read that raced a categorization
// cannot put the old product back.
type CachedCatalog struct {
	catalog ports.Catalog
	cache   ports.ProductCache

	mu          sync.Mutex
	generations map[string]uint64
}

func NewCachedCatalog(catalog ports.Catalog, cache ports.ProductCache) *CachedCatalog {
	return &CachedCatalog{
		catalog:     catalog,
		cache:       cache,
		generations: make(map[string]uint64),
	}
}

var (
	_ ports.Catalog            = (*CachedCatalog)(nil)
	_ ports.CatalogInvalidator = (*CachedCatalog)(nil)
)

func (c *CachedCatalog) Lookup(ctx context.Context, sku string) (catalog.Product, error) {
	if product, ok := c.cache.Get(ctx, sku); ok {
		metrics.CatalogCacheLookupsTotal.WithLabelValues("hit").Inc()
		return product, nil
	}
	metrics.CatalogCacheLookupsTotal.WithLabelValues("miss").Inc()

	gen := c.generation(sku)
	product, err := c.catalog.Lookup(ctx, sku)
	if err != nil {
		return catalog.Product{}, err
	}
	if c.generation(sku) != gen {
		return product, nil
	}

	c.cache.Set(ctx, product)
	if c.generation(sku) != gen {
		// Invalidated while the entry was written; its own delete may have
		// run before the write landed.
		_ = c.cache.Invalidate(ctx, sku)
	}
	return product, nil
}

// Invalidate drops the cached products for skus. Lookups already in flight
// for those SKUs will not cache what they read.
func (c *CachedCatalog) Invalidate(ctx context.Context, skus ...string) error {
	c.mu.Lock()
	for _, sku := range skus {
		c.generations[sku]++
	}
	c.mu.Unlock()

	if err := c.cache.Invalidate(ctx, skus...); err != nil {
		return fmt.Errorf("invalidate cached products: %w", err)
	}
	return nil
}

func (c *CachedCatalog) ParentSKU(ctx context.Context, sku string) (string, bool, error) {
	return c.catalog.ParentSKU(ctx, sku)
}

func (c *CachedCatalog) Explode(ctx context.Context, orderNumber, sku string) ([]catalog.KitComponent, error) {
	return c.catalog.Explode(ctx, orderNumber, sku)
}

func (c *CachedCatalog) generation(sku string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[sku]
}
