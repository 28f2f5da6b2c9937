package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignPackagingCommandIsNotConstructed = errors.New(
	"AssignPackagingCommand must be created via NewAssignPackagingCommand constructor",
)

// AssignPackagingCommand records an operator's packaging decision for a
// fingerprint and applies it to every shipment carrying that fingerprint.
type AssignPackagingCommand struct {
	fingerprintID   kernel.UUID
	packagingTypeID kernel.UUID
	actor           string
	notes           string

	guard guard.ConstructorGuard
}

func NewAssignPackagingCommand(fingerprintID, packagingTypeID kernel.UUID, actor, notes string) (AssignPackagingCommand, error) {
	if err := errors.Join(fingerprintID.Validate(), packagingTypeID.Validate()); err != nil {
		return AssignPackagingCommand{}, err
	}

	return AssignPackagingCommand{
		fingerprintID:   fingerprintID,
		packagingTypeID: packagingTypeID,
		actor:           actor,
		notes:           notes,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c AssignPackagingCommand) FingerprintID() kernel.UUID   { return c.fingerprintID }
func (c AssignPackagingCommand) PackagingTypeID() kernel.UUID { return c.packagingTypeID }
func (c AssignPackagingCommand) Actor() string                { return c.actor }
func (c AssignPackagingCommand) Notes() string                { return c.notes }

func (c AssignPackagingCommand) Validate() error {
	return c.guard.Validate(ErrAssignPackagingCommandIsNotConstructed)
}
