package queries

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrDiagnoseReadinessQueryIsNotConstructed = errors.New(
	"DiagnoseReadinessQuery must be created via NewDiagnoseReadinessQuery constructor",
)

// ReadinessReason is the machine-readable answer to "why is this order not in a session yet".
type ReadinessReason string

const (
	ReasonNeedsCategorization ReadinessReason = "needs_categorization"
	ReasonMissingWeight       ReadinessReason = "missing_weight"
	ReasonNeedsPackaging      ReadinessReason = "needs_packaging"
	ReasonNeedsStation        ReadinessReason = "needs_station"
	ReasonReady               ReadinessReason = "ready"
	ReasonNotEligible         ReadinessReason = "not_eligible"
)

type DiagnoseReadinessQuery struct {
	orderNumber string
	guard       guard.ConstructorGuard
}

func NewDiagnoseReadinessQuery(orderNumber string) (DiagnoseReadinessQuery, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return DiagnoseReadinessQuery{}, errs.NewValueIsRequiredError("orderNumber")
	}
	return DiagnoseReadinessQuery{orderNumber: orderNumber, guard: guard.NewConstructorGuard()}, nil
}

func (q DiagnoseReadinessQuery) Validate() error {
	return q.guard.Validate(ErrDiagnoseReadinessQueryIsNotConstructed)
}

func (q DiagnoseReadinessQuery) OrderNumber() string { return q.orderNumber }

// Readiness explains where a shipment stands. MissingSKUs lists the QC item
// SKUs without a collection (needs_categorization) or without a weight
// (missing_weight).
type Readiness struct {
	ShipmentID      kernel.UUID
	OrderNumber     string
	Reason          ReadinessReason
	Lifecycle       lifecycle.State
	FingerprintID   *kernel.UUID
	PackagingTypeID *kernel.UUID
	MissingSKUs     []string
}
