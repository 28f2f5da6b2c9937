package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrHydrateShipmentCommandIsNotConstructed = errors.New(
	"HydrateShipmentCommand must be created via NewHydrateShipmentCommand constructor",
)

// HydrateShipmentCommand rebuilds a shipment's QC items from its raw line
// items and re-resolves its fingerprint.
type HydrateShipmentCommand struct {
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewHydrateShipmentCommand(shipmentID kernel.UUID) (HydrateShipmentCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return HydrateShipmentCommand{}, err
	}

	return HydrateShipmentCommand{
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c HydrateShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c HydrateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrHydrateShipmentCommandIsNotConstructed)
}
