// Package queries contains read operations for operator worklists.
// Queries bypass the aggregates and read straight from the database.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const DefaultUnmappedLimit = 100

var ErrListUnmappedFingerprintsQueryIsNotConstructed = errors.New(
	"ListUnmappedFingerprintsQuery must be created via NewListUnmappedFingerprintsQuery constructor",
)

// ListUnmappedFingerprintsQuery lists fingerprints that editable shipments
// reference but that have no packaging model yet, busiest first.
type ListUnmappedFingerprintsQuery struct {
	limit int
	guard guard.ConstructorGuard
}

// NewListUnmappedFingerprintsQuery uses DefaultUnmappedLimit when limit is 0.
func NewListUnmappedFingerprintsQuery(limit int) (ListUnmappedFingerprintsQuery, error) {
	if limit < 0 {
		return ListUnmappedFingerprintsQuery{}, errs.NewValueIsInvalidError("limit")
	}
	if limit == 0 {
		limit = DefaultUnmappedLimit
	}
	return ListUnmappedFingerprintsQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListUnmappedFingerprintsQuery) Validate() error {
	return q.guard.Validate(ErrListUnmappedFingerprintsQueryIsNotConstructed)
}

func (q ListUnmappedFingerprintsQuery) Limit() int { return q.limit }

type UnmappedFingerprint struct {
	FingerprintID kernel.UUID
	Hash          string
	DisplayName   string
	TotalItems    int
	TotalWeightOz decimal.Decimal
	ShipmentCount int
}
