package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCategorizeSkuCommandIsNotConstructed = errors.New(
	"CategorizeSkuCommand must be created via NewCategorizeSkuCommand constructor",
)

// CategorizeSkuCommand maps a SKU to a geometry collection (or removes the
// mapping when collectionID is nil) and re-runs the pipeline for every
// shipment holding that SKU.
type CategorizeSkuCommand struct {
	sku          string
	collectionID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewCategorizeSkuCommand(sku string, collectionID *kernel.UUID) (CategorizeSkuCommand, error) {
	if strings.TrimSpace(sku) == "" {
		return CategorizeSkuCommand{}, errs.NewValueIsRequiredError("sku")
	}
	if collectionID != nil {
		if err := collectionID.Validate(); err != nil {
			return CategorizeSkuCommand{}, err
		}
	}

	return CategorizeSkuCommand{
		sku:          sku,
		collectionID: collectionID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CategorizeSkuCommand) SKU() string                { return c.sku }
func (c CategorizeSkuCommand) CollectionID() *kernel.UUID { return c.collectionID }

func (c CategorizeSkuCommand) Validate() error {
	return c.guard.Validate(ErrCategorizeSkuCommandIsNotConstructed)
}
