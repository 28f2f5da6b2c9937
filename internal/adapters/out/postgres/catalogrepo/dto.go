// Package catalogrepo reads the product catalog, variant and kit tables and
// writes SKU to collection mappings.
package catalogrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// productRow is the joined view of a product and its collection mapping.
type productRow struct {
	SKU          string
	Category     string
	WeightValue  decimal.NullDecimal
	WeightUnit   *string
	Excluded     bool
	CollectionID *uuid.UUID
}

type SkuCollectionDTO struct {
	SKU          string    `gorm:"column:sku;type:varchar(128);primaryKey"`
	CollectionID uuid.UUID `gorm:"type:uuid;not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (SkuCollectionDTO) TableName() string {
	return "sku_collections"
}

type KitComponentDTO struct {
	OrderNumber  string `gorm:"type:varchar(64);primaryKey"`
	KitSKU       string `gorm:"column:kit_sku;type:varchar(128);primaryKey"`
	ComponentSKU string `gorm:"column:component_sku;type:varchar(128);primaryKey"`
	Quantity     int    `gorm:"not null"`
}

func (KitComponentDTO) TableName() string {
	return "kit_components"
}
