package shipment

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// QcItemSpec describes one canonical product unit produced by hydration.
type QcItemSpec struct {
	SKU            string
	Quantity       int
	Weight         *kernel.Weight
	Category       string
	CollectionID   *kernel.UUID
	IsKitComponent bool
	ParentSKU      string
}

// QcItem is a hydrated line the packing station checks against. Items are
// owned by their shipment and are replaced as a whole on every hydration.
type QcItem struct {
	id   kernel.UUID
	spec QcItemSpec
}

// NewQcItem builds the item at index within a shipment's hydrated item list.
// Its id depends only on the shipment, the index and the SKU, so hydrating an
// unchanged shipment again produces identical ids.
func NewQcItem(shipmentID kernel.UUID, index int, spec QcItemSpec) (QcItem, error) {
	if err := errors.Join(shipmentID.Validate(), validateSpec(spec)); err != nil {
		return QcItem{}, err
	}

	return QcItem{
		id:   kernel.NewNameBasedUUID(shipmentID, fmt.Sprintf("%d:%s", index, spec.SKU)),
		spec: spec,
	}, nil
}

// RestoreQcItem rebuilds a persisted item.
func RestoreQcItem(id kernel.UUID, spec QcItemSpec) (QcItem, error) {
	if err := errors.Join(id.Validate(), validateSpec(spec)); err != nil {
		return QcItem{}, err
	}
	return QcItem{id: id, spec: spec}, nil
}

func validateSpec(spec QcItemSpec) error {
	var errList []error
	if strings.TrimSpace(spec.SKU) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("sku"))
	}
	if spec.Quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", spec.Quantity)))
	}
	if spec.IsKitComponent && spec.ParentSKU == "" {
		errList = append(errList, errs.NewValueIsRequiredError("parent sku"))
	}
	return errors.Join(errList...)
}

func (q QcItem) ID() kernel.UUID            { return q.id }
func (q QcItem) SKU() string                { return q.spec.SKU }
func (q QcItem) Quantity() int              { return q.spec.Quantity }
func (q QcItem) Weight() *kernel.Weight     { return q.spec.Weight }
func (q QcItem) Category() string           { return q.spec.Category }
func (q QcItem) CollectionID() *kernel.UUID { return q.spec.CollectionID }
func (q QcItem) IsKitComponent() bool       { return q.spec.IsKitComponent }
func (q QcItem) ParentSKU() string          { return q.spec.ParentSKU }
func (q QcItem) Spec() QcItemSpec           { return q.spec }
func (q QcItem) HasCollection() bool        { return q.spec.CollectionID != nil }
func (q QcItem) HasWeight() bool            { return q.spec.Weight != nil }

// IsEqual compares identity and every hydrated attribute.
func (q QcItem) IsEqual(other QcItem) bool {
	a, b := q.spec, other.spec
	return q.id.IsEqual(other.id) &&
		a.SKU == b.SKU &&
		a.Quantity == b.Quantity &&
		a.Category == b.Category &&
		a.IsKitComponent == b.IsKitComponent &&
		a.ParentSKU == b.ParentSKU &&
		equalIDs(a.CollectionID, b.CollectionID) &&
		equalWeights(a.Weight, b.Weight)
}

func equalIDs(a, b *kernel.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsEqual(*b)
}

func equalWeights(a, b *kernel.Weight) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsEqual(*b)
}
