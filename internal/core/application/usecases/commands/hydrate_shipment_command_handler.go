package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// HydrateShipmentResult reports the outcome of one hydration.
type HydrateShipmentResult struct {
	ItemsCreated      int
	FingerprintStatus shipment.FingerprintStatus
	FingerprintID     *kernel.UUID
}

// HydrateShipmentCommandHandler runs hydration and fingerprinting for one
// shipment in a single transaction.
//
// Running it twice on an unchanged shipment produces the same item ids and
// the same fingerprint, and the second run does not rewrite the items.
type HydrateShipmentCommandHandler struct {
	uowFactory UoWFactory
	pipeline   shipmentPipeline
}

func NewHydrateShipmentCommandHandler(uowFactory UoWFactory, catalog ports.Catalog) HydrateShipmentCommandHandler {
	return HydrateShipmentCommandHandler{
		uowFactory: uowFactory,
		pipeline:   newShipmentPipeline(catalog),
	}
}

func (h HydrateShipmentCommandHandler) Handle(ctx context.Context, command HydrateShipmentCommand) (HydrateShipmentResult, error) {
	if err := command.Validate(); err != nil {
		return HydrateShipmentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return HydrateShipmentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	result, err := hydrateInTx(ctx, uow, h.pipeline, command.ShipmentID())
	if err != nil {
		return HydrateShipmentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return HydrateShipmentResult{}, err
	}

	metrics.HydrationsTotal.WithLabelValues(result.FingerprintStatus.String()).Inc()
	return result, nil
}

// hydrateInTx loads, rebuilds and stores one shipment inside uow's open transaction.
func hydrateInTx(ctx context.Context, uow UoW, pipeline shipmentPipeline, id kernel.UUID) (HydrateShipmentResult, error) {
	repo := uow.ShipmentRepository()

	s, err := repo.Get(ctx, id)
	if err != nil {
		return HydrateShipmentResult{}, err
	}

	count, err := pipeline.hydrate(ctx, s)
	if err != nil {
		return HydrateShipmentResult{}, err
	}
	if err = pipeline.fingerprint(ctx, uow, s); err != nil {
		return HydrateShipmentResult{}, err
	}

	if err = repo.Update(ctx, s); err != nil {
		return HydrateShipmentResult{}, err
	}

	return HydrateShipmentResult{
		ItemsCreated:      count,
		FingerprintStatus: s.FingerprintStatus(),
		FingerprintID:     s.FingerprintID(),
	}, nil
}
