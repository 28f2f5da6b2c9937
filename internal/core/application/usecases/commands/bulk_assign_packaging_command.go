package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrBulkAssignPackagingCommandIsNotConstructed = errors.New(
	"BulkAssignPackagingCommand must be created via NewBulkAssignPackagingCommand constructor",
)

// BulkAssignPackagingCommand applies several fingerprint packaging decisions.
type BulkAssignPackagingCommand struct {
	assignments []AssignPackagingCommand

	guard guard.ConstructorGuard
}

func NewBulkAssignPackagingCommand(assignments []AssignPackagingCommand) (BulkAssignPackagingCommand, error) {
	if len(assignments) == 0 {
		return BulkAssignPackagingCommand{}, errs.NewValueIsRequiredError("assignments")
	}

	return BulkAssignPackagingCommand{
		assignments: assignments,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c BulkAssignPackagingCommand) Assignments() []AssignPackagingCommand {
	return c.assignments
}

func (c BulkAssignPackagingCommand) Validate() error {
	return c.guard.Validate(ErrBulkAssignPackagingCommandIsNotConstructed)
}
