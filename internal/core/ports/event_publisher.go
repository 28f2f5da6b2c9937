package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/shipment"
)

// EventPublisher delivers lifecycle events after their transaction committed.
type EventPublisher interface {
	PublishPhaseChanged(ctx context.Context, events []shipment.PhaseChanged) error
}
