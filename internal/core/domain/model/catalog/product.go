// Package catalog holds the read model of the product catalog used by hydration.
package catalog

import (
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Product is the resolved catalog record for one SKU. Weight and CollectionID
// are nil while the product is uncategorized.
type Product struct {
	SKU          string
	Category     string
	Weight       *kernel.Weight
	CollectionID *kernel.UUID
	// Excluded products (inserts, gift cards) never become QC items.
	Excluded bool
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.SKU) == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	return nil
}

// KitComponent is one product unit a kit SKU explodes into for a given order.
type KitComponent struct {
	SKU      string
	Quantity int
}
