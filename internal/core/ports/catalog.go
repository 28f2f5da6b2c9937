package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
)

// Catalog is the read side of the product catalog and kit mapping.
type Catalog interface {
	// Lookup resolves a SKU. Unknown SKUs resolve to a Product carrying only
	// the SKU, which hydrates into an uncategorized item.
	Lookup(ctx context.Context, sku string) (catalog.Product, error)

	// ParentSKU returns the canonical SKU of a variant.
	ParentSKU(ctx context.Context, sku string) (string, bool, error)

	// Explode returns the components of a kit line for one order, or nothing
	// when sku is not a kit in that order.
	Explode(ctx context.Context, orderNumber, sku string) ([]catalog.KitComponent, error)
}

// CatalogWriter changes SKU to collection mappings.
type CatalogWriter interface {
	// AssignCollection maps sku to collectionID, or removes the mapping when nil.
	AssignCollection(ctx context.Context, sku string, collectionID *kernel.UUID) error
}

// ProductCache holds resolved products for a bounded staleness window.
type ProductCache interface {
	Get(ctx context.Context, sku string) (catalog.Product, bool)
	Set(ctx context.Context, product catalog.Product)
	Invalidate(ctx context.Context, skus ...string) error
}

// CatalogInvalidator makes a catalog change visible to cached lookups.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context, skus ...string) error
}
