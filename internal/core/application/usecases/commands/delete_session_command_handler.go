package commands

import (
	"context"
)

type DeleteSessionResult struct {
	ShipmentsReleased int
}

// DeleteSessionCommandHandler removes a session that is not completed. Its
// members are unlinked and re-derived before the session row is deleted.
type DeleteSessionCommandHandler struct {
	uowFactory UoWFactory
}

func NewDeleteSessionCommandHandler(uowFactory UoWFactory) DeleteSessionCommandHandler {
	return DeleteSessionCommandHandler{uowFactory: uowFactory}
}

func (h DeleteSessionCommandHandler) Handle(ctx context.Context, command DeleteSessionCommand) (DeleteSessionResult, error) {
	if err := command.Validate(); err != nil {
		return DeleteSessionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DeleteSessionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sessionRepo := uow.SessionRepository()
	shipmentRepo := uow.ShipmentRepository()

	sess, err := sessionRepo.Get(ctx, command.SessionID())
	if err != nil {
		return DeleteSessionResult{}, err
	}
	if err = sess.CanDelete(); err != nil {
		return DeleteSessionResult{}, err
	}

	members, err := shipmentRepo.GetBySession(ctx, sess.ID())
	if err != nil {
		return DeleteSessionResult{}, err
	}
	for _, s := range members {
		s.UnlinkSession()
		s.RecomputeLifecycle()
		if err = shipmentRepo.ReleaseFromSession(ctx, s, sess.ID()); err != nil {
			return DeleteSessionResult{}, err
		}
	}

	if err = sessionRepo.Delete(ctx, sess.ID()); err != nil {
		return DeleteSessionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DeleteSessionResult{}, err
	}

	return DeleteSessionResult{ShipmentsReleased: len(members)}, nil
}
