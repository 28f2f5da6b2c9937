package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/metrics"
)

// RepairLifecycleResult reports one page of the repair pass. Callers continue
// from LastID until Done.
type RepairLifecycleResult struct {
	Scanned  int
	Repaired int
	LastID   *kernel.UUID
	Done     bool
}

// RepairLifecycleCommandHandler rewrites the stored lifecycle state of every
// shipment in the page whose stored state differs from the derived one.
type RepairLifecycleCommandHandler struct {
	uowFactory ShipmentUoWFactory
}

func NewRepairLifecycleCommandHandler(uowFactory ShipmentUoWFactory) RepairLifecycleCommandHandler {
	return RepairLifecycleCommandHandler{uowFactory: uowFactory}
}

func (h RepairLifecycleCommandHandler) Handle(ctx context.Context, command RepairLifecycleCommand) (RepairLifecycleResult, error) {
	if err := command.Validate(); err != nil {
		return RepairLifecycleResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RepairLifecycleResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShipmentRepository()
	page, err := repo.GetPage(ctx, command.After(), command.BatchSize())
	if err != nil {
		return RepairLifecycleResult{}, err
	}

	out := RepairLifecycleResult{
		Scanned: len(page),
		LastID:  command.After(),
		Done:    len(page) < command.BatchSize(),
	}
	for _, s := range page {
		out.LastID = ptr(s.ID())
		if !s.RecomputeLifecycle() {
			continue
		}
		err = repo.Update(ctx, s)
		if errors.Is(err, shipment.ErrSessionLinkChanged) {
			// Linked since the page was read; the link wrote a fresh state.
			continue
		}
		if err != nil {
			return RepairLifecycleResult{}, err
		}
		out.Repaired++
	}

	if err = uow.Commit(ctx); err != nil {
		return RepairLifecycleResult{}, err
	}

	metrics.LifecycleRepairsTotal.Add(float64(out.Repaired))
	return out, nil
}
