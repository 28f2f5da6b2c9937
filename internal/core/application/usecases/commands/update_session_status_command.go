package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/session"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateSessionStatusCommandIsNotConstructed = errors.New(
	"UpdateSessionStatusCommand must be created via NewUpdateSessionStatusCommand constructor",
)

// UpdateSessionStatusCommand moves a session to a new status.
type UpdateSessionStatusCommand struct {
	sessionID kernel.UUID
	status    session.Status

	guard guard.ConstructorGuard
}

func NewUpdateSessionStatusCommand(sessionID kernel.UUID, status session.Status) (UpdateSessionStatusCommand, error) {
	if err := errors.Join(sessionID.Validate(), status.Validate()); err != nil {
		return UpdateSessionStatusCommand{}, err
	}

	return UpdateSessionStatusCommand{
		sessionID: sessionID,
		status:    status,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateSessionStatusCommand) SessionID() kernel.UUID { return c.sessionID }
func (c UpdateSessionStatusCommand) Status() session.Status { return c.status }

func (c UpdateSessionStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateSessionStatusCommandIsNotConstructed)
}

var ErrBulkUpdateSessionStatusCommandIsNotConstructed = errors.New(
	"BulkUpdateSessionStatusCommand must be created via NewBulkUpdateSessionStatusCommand constructor",
)

// BulkUpdateSessionStatusCommand moves several sessions to the same status.
type BulkUpdateSessionStatusCommand struct {
	updates []UpdateSessionStatusCommand

	guard guard.ConstructorGuard
}

func NewBulkUpdateSessionStatusCommand(sessionIDs []kernel.UUID, status session.Status) (BulkUpdateSessionStatusCommand, error) {
	updates := make([]UpdateSessionStatusCommand, 0, len(sessionIDs))
	var errList []error
	for _, id := range sessionIDs {
		cmd, err := NewUpdateSessionStatusCommand(id, status)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		updates = append(updates, cmd)
	}
	if err := errors.Join(errList...); err != nil {
		return BulkUpdateSessionStatusCommand{}, err
	}

	return BulkUpdateSessionStatusCommand{
		updates: updates,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c BulkUpdateSessionStatusCommand) Updates() []UpdateSessionStatusCommand { return c.updates }

func (c BulkUpdateSessionStatusCommand) Validate() error {
	return c.guard.Validate(ErrBulkUpdateSessionStatusCommandIsNotConstructed)
}
