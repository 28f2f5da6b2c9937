package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiagnoseReadinessQueryHandler struct {
	db *gorm.DB
}

func NewDiagnoseReadinessQueryHandler(db *gorm.DB) DiagnoseReadinessQueryHandler {
	return DiagnoseReadinessQueryHandler{db: db}
}

type readinessRow struct {
	ID                uuid.UUID
	OrderNumber       string
	LifecyclePhase    string
	LifecycleSubphase string
	FingerprintID     *uuid.UUID
	PackagingTypeID   *uuid.UUID
}

// Handle reads the stored lifecycle state. Run the lifecycle repair first
// when the stored state may be stale.
func (h DiagnoseReadinessQueryHandler) Handle(ctx context.Context, query DiagnoseReadinessQuery) (Readiness, error) {
	if err := query.Validate(); err != nil {
		return Readiness{}, err
	}

	db := h.db.WithContext(ctx)

	var row readinessRow
	err := db.Raw(`
		SELECT id, order_number, lifecycle_phase, lifecycle_subphase, fingerprint_id, packaging_type_id
		FROM shipments
		WHERE order_number = ?
	`, query.OrderNumber()).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Readiness{}, errs.NewObjectNotFoundError("orderNumber", query.OrderNumber())
		}
		return Readiness{}, err
	}

	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return Readiness{}, err
	}
	result := Readiness{
		ShipmentID:  id,
		OrderNumber: row.OrderNumber,
		Lifecycle: lifecycle.State{
			Phase:    lifecycle.Phase(row.LifecyclePhase),
			Subphase: row.LifecycleSubphase,
		},
		FingerprintID:   optionalID(row.FingerprintID),
		PackagingTypeID: optionalID(row.PackagingTypeID),
	}

	var missing string
	switch phase := result.Lifecycle.Phase; {
	case !phase.IsPreSession():
		result.Reason = ReasonNotEligible
	case phase == lifecycle.PhasePendingCategorization:
		if result.Lifecycle.Subphase == shipment.FingerprintMissingWeight.String() {
			result.Reason = ReasonMissingWeight
			missing = "weight_value IS NULL"
		} else {
			result.Reason = ReasonNeedsCategorization
			missing = "collection_id IS NULL"
		}
	case phase == lifecycle.PhaseNeedsPackaging:
		result.Reason = ReasonNeedsPackaging
	case phase == lifecycle.PhaseNeedsStation:
		result.Reason = ReasonNeedsStation
	default:
		result.Reason = ReasonReady
	}

	result.MissingSKUs = make([]string, 0)
	if missing != "" {
		err = db.Table("qc_items").
			Where("shipment_id = ?", row.ID).
			Where(missing).
			Distinct("sku").
			Order("sku").
			Pluck("sku", &result.MissingSKUs).Error
		if err != nil {
			return Readiness{}, err
		}
	}

	return result, nil
}

func optionalID(id *uuid.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	converted, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil
	}
	return &converted
}
