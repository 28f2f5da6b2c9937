package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCalculateFingerprintCommandIsNotConstructed = errors.New(
	"CalculateFingerprintCommand must be created via NewCalculateFingerprintCommand constructor",
)

// CalculateFingerprintCommand re-resolves the fingerprint of a shipment from
// its current QC items without re-hydrating them.
type CalculateFingerprintCommand struct {
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCalculateFingerprintCommand(shipmentID kernel.UUID) (CalculateFingerprintCommand, error) {
	if err := shipmentID.Validate(); err != nil {
		return CalculateFingerprintCommand{}, err
	}

	return CalculateFingerprintCommand{
		shipmentID: shipmentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CalculateFingerprintCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c CalculateFingerprintCommand) Validate() error {
	return c.guard.Validate(ErrCalculateFingerprintCommandIsNotConstructed)
}
