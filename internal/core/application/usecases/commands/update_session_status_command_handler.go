package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/session"
)

type UpdateSessionStatusResult struct {
	SessionID        kernel.UUID
	Status           session.Status
	ShipmentsUpdated int
}

// UpdateSessionStatusCommandHandler applies a status transition to a session
// and re-derives its members. Cancelling releases every member back to
// ready_to_session and zeroes the order count.
type UpdateSessionStatusCommandHandler struct {
	uowFactory UoWFactory
	now        func() time.Time
}

func NewUpdateSessionStatusCommandHandler(uowFactory UoWFactory) UpdateSessionStatusCommandHandler {
	return UpdateSessionStatusCommandHandler{
		uowFactory: uowFactory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (h UpdateSessionStatusCommandHandler) Handle(
	ctx context.Context,
	command UpdateSessionStatusCommand,
) (UpdateSessionStatusResult, error) {
	if err := command.Validate(); err != nil {
		return UpdateSessionStatusResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return UpdateSessionStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sessionRepo := uow.SessionRepository()
	shipmentRepo := uow.ShipmentRepository()

	sess, err := sessionRepo.Get(ctx, command.SessionID())
	if err != nil {
		return UpdateSessionStatusResult{}, err
	}
	if err = sess.TransitionTo(command.Status(), h.now()); err != nil {
		return UpdateSessionStatusResult{}, err
	}

	members, err := shipmentRepo.GetBySession(ctx, sess.ID())
	if err != nil {
		return UpdateSessionStatusResult{}, err
	}

	for _, s := range members {
		if sess.Status() == session.Cancelled {
			s.UnlinkSession()
			s.RecomputeLifecycle()
			err = shipmentRepo.ReleaseFromSession(ctx, s, sess.ID())
		} else {
			s.SyncSessionStatus(sess.Status().String())
			s.RecomputeLifecycle()
			err = shipmentRepo.Update(ctx, s)
		}
		if err != nil {
			return UpdateSessionStatusResult{}, err
		}
	}

	if sess.Status() == session.Cancelled {
		if err = sess.SetOrderCount(0); err != nil {
			return UpdateSessionStatusResult{}, err
		}
	}
	if err = sessionRepo.Update(ctx, sess); err != nil {
		return UpdateSessionStatusResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return UpdateSessionStatusResult{}, err
	}

	return UpdateSessionStatusResult{
		SessionID:        sess.ID(),
		Status:           sess.Status(),
		ShipmentsUpdated: len(members),
	}, nil
}

type BulkUpdateSessionStatusItem struct {
	SessionID kernel.UUID
	Result    UpdateSessionStatusResult
	Err       error
}

type BulkUpdateSessionStatusResult struct {
	Succeeded int
	Failed    int
	Items     []BulkUpdateSessionStatusItem
}

// BulkUpdateSessionStatusCommandHandler transitions each session in its own
// transaction and continues past failures.
type BulkUpdateSessionStatusCommandHandler struct {
	single UpdateSessionStatusCommandHandler
}

func NewBulkUpdateSessionStatusCommandHandler(single UpdateSessionStatusCommandHandler) BulkUpdateSessionStatusCommandHandler {
	return BulkUpdateSessionStatusCommandHandler{single: single}
}

func (h BulkUpdateSessionStatusCommandHandler) Handle(
	ctx context.Context,
	command BulkUpdateSessionStatusCommand,
) (BulkUpdateSessionStatusResult, error) {
	if err := command.Validate(); err != nil {
		return BulkUpdateSessionStatusResult{}, err
	}

	var out BulkUpdateSessionStatusResult
	for _, update := range command.Updates() {
		res, err := h.single.Handle(ctx, update)
		out.Items = append(out.Items, BulkUpdateSessionStatusItem{SessionID: update.SessionID(), Result: res, Err: err})
		if err != nil {
			out.Failed++
			continue
		}
		out.Succeeded++
	}
	return out, nil
}
