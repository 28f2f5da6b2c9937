// Package ports defines the contracts between the fulfillment domain and its
// infrastructure: repositories, the unit of work, the product catalog and the
// event publisher.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
)

// SessionCandidateFilter narrows the shipments considered by a session build.
type SessionCandidateFilter struct {
	// StationType limits candidates to shipments assigned to a station of this type.
	StationType *packaging.StationType
	// OrderNumbers limits candidates to these orders when not empty.
	OrderNumbers []string
}

// ShipmentRepository defines the persistence contract for shipment aggregates,
// including their line items and hydrated QC items.
type ShipmentRepository interface {
	// Add persists a new shipment.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists changes to an existing shipment. QC items are rewritten
	// only when the aggregate reports that they changed. The write only applies
	// while the stored session link equals the aggregate's; otherwise it returns
	// shipment.ErrSessionLinkChanged and changes nothing.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// ReleaseFromSession persists a shipment that was unlinked from sessionID,
	// only while the stored row is still linked to that session.
	ReleaseFromSession(ctx context.Context, aggregate *shipment.Shipment, sessionID kernel.UUID) error

	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	GetByOrderNumber(ctx context.Context, orderNumber string) (*shipment.Shipment, error)

	// GetEditableByFingerprint returns the shipments referencing a fingerprint
	// whose packaging decision may still change.
	GetEditableByFingerprint(ctx context.Context, fingerprintID kernel.UUID) ([]*shipment.Shipment, error)

	// GetBySession returns the shipments linked to a session ordered by spot.
	GetBySession(ctx context.Context, sessionID kernel.UUID) ([]*shipment.Shipment, error)

	// GetSessionCandidates returns ready_to_session shipments without a session.
	GetSessionCandidates(ctx context.Context, filter SessionCandidateFilter) ([]services.SessionCandidate, error)

	// FindEditableIDsBySKU returns editable shipments whose raw or hydrated
	// items reference sku.
	FindEditableIDsBySKU(ctx context.Context, sku string) ([]kernel.UUID, error)

	// FindIDsPendingFingerprint pages, by id, through editable shipments whose
	// fingerprint is not complete. after is exclusive; nil starts from the beginning.
	FindIDsPendingFingerprint(ctx context.Context, after *kernel.UUID, limit int) ([]kernel.UUID, error)

	// GetPage pages through all shipments by id. after is exclusive.
	GetPage(ctx context.Context, after *kernel.UUID, limit int) ([]*shipment.Shipment, error)

	// LinkToSession stores the session link only if the row is still unlinked
	// and ready_to_session. It reports false when the re-check fails.
	LinkToSession(ctx context.Context, aggregate *shipment.Shipment) (bool, error)
}
