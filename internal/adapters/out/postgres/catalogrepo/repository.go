package catalogrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const lookupQuery = `
SELECT p.sku, p.category, p.weight_value, p.weight_unit, p.excluded, sc.collection_id
FROM products p
LEFT JOIN sku_collections sc ON sc.sku = p.sku
WHERE p.sku = ?`

// GormCatalog implements ports.Catalog and ports.CatalogWriter on the local
// catalog tables. It is used outside of any unit of work.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

var (
	_ ports.Catalog       = (*GormCatalog)(nil)
	_ ports.CatalogWriter = (*GormCatalog)(nil)
)

// Lookup resolves sku. A SKU missing from products still reports a
// collection mapped directly in sku_collections.
func (c *GormCatalog) Lookup(ctx context.Context, sku string) (catalog.Product, error) {
	if sku == "" {
		return catalog.Product{}, errs.NewValueIsRequiredError("sku")
	}

	var rows []productRow
	if err := c.db.WithContext(ctx).Raw(lookupQuery, sku).Scan(&rows).Error; err != nil {
		return catalog.Product{}, err
	}
	if len(rows) == 0 {
		return c.unlisted(ctx, sku)
	}
	return rowToProduct(rows[0])
}

func (c *GormCatalog) unlisted(ctx context.Context, sku string) (catalog.Product, error) {
	product := catalog.Product{SKU: sku}

	var dto SkuCollectionDTO
	err := c.db.WithContext(ctx).Take(&dto, "sku = ?", sku).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return product, nil
	case err != nil:
		return catalog.Product{}, err
	}

	id, err := kernel.UUIDFromBytes(dto.CollectionID[:])
	if err != nil {
		return catalog.Product{}, err
	}
	product.CollectionID = &id
	return product, nil
}

func (c *GormCatalog) ParentSKU(ctx context.Context, sku string) (string, bool, error) {
	var parents []string
	err := c.db.WithContext(ctx).
		Table("product_variants").
		Where("variant_sku = ?", sku).
		Limit(1).
		Pluck("parent_sku", &parents).Error
	if err != nil {
		return "", false, err
	}
	if len(parents) == 0 {
		return "", false, nil
	}
	return parents[0], true, nil
}

func (c *GormCatalog) Explode(ctx context.Context, orderNumber, sku string) ([]catalog.KitComponent, error) {
	var dtos []KitComponentDTO
	err := c.db.WithContext(ctx).
		Where("order_number = ? AND kit_sku = ?", orderNumber, sku).
		Order("component_sku").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	components := make([]catalog.KitComponent, 0, len(dtos))
	for _, dto := range dtos {
		components = append(components, catalog.KitComponent{SKU: dto.ComponentSKU, Quantity: dto.Quantity})
	}
	return components, nil
}

// AssignCollection upserts the mapping, or removes it when collectionID is nil.
// Assigning a collection that does not exist fails on the foreign key.
func (c *GormCatalog) AssignCollection(ctx context.Context, sku string, collectionID *kernel.UUID) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}

	db := c.db.WithContext(ctx)
	if collectionID == nil {
		return db.Delete(&SkuCollectionDTO{}, "sku = ?", sku).Error
	}

	dto := SkuCollectionDTO{
		SKU:          sku,
		CollectionID: collectionID.Bytes(),
		UpdatedAt:    time.Now().UTC(),
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sku"}},
		DoUpdates: clause.AssignmentColumns([]string{"collection_id", "updated_at"}),
	}).Create(&dto).Error
}

func rowToProduct(row productRow) (catalog.Product, error) {
	product := catalog.Product{
		SKU:      row.SKU,
		Category: row.Category,
		Excluded: row.Excluded,
	}

	// A stored zero weight is as good as none.
	if row.WeightValue.Valid && row.WeightValue.Decimal.IsPositive() && row.WeightUnit != nil {
		unit, err := kernel.ParseWeightUnit(*row.WeightUnit)
		if err != nil {
			return catalog.Product{}, err
		}
		weight, err := kernel.NewWeight(row.WeightValue.Decimal, unit)
		if err != nil {
			return catalog.Product{}, err
		}
		product.Weight = &weight
	}

	if row.CollectionID != nil {
		id, err := kernel.UUIDFromBytes(row.CollectionID[:])
		if err != nil {
			return catalog.Product{}, err
		}
		product.CollectionID = &id
	}
	return product, nil
}
