package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
)

type CalculateFingerprintResult struct {
	FingerprintStatus shipment.FingerprintStatus
	FingerprintID     *kernel.UUID
}

// CalculateFingerprintCommandHandler classifies a shipment's current items and
// links it to the shared fingerprint row, creating the row on first sight.
type CalculateFingerprintCommandHandler struct {
	uowFactory UoWFactory
	pipeline   shipmentPipeline
}

func NewCalculateFingerprintCommandHandler(uowFactory UoWFactory, catalog ports.Catalog) CalculateFingerprintCommandHandler {
	return CalculateFingerprintCommandHandler{
		uowFactory: uowFactory,
		pipeline:   newShipmentPipeline(catalog),
	}
}

func (h CalculateFingerprintCommandHandler) Handle(
	ctx context.Context,
	command CalculateFingerprintCommand,
) (CalculateFingerprintResult, error) {
	if err := command.Validate(); err != nil {
		return CalculateFingerprintResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CalculateFingerprintResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShipmentRepository()
	s, err := repo.Get(ctx, command.ShipmentID())
	if err != nil {
		return CalculateFingerprintResult{}, err
	}
	if !s.IsEditable() {
		return CalculateFingerprintResult{}, shipment.ErrShipmentIsNotEditable
	}

	if err = h.pipeline.fingerprint(ctx, uow, s); err != nil {
		return CalculateFingerprintResult{}, err
	}
	if err = repo.Update(ctx, s); err != nil {
		return CalculateFingerprintResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CalculateFingerprintResult{}, err
	}

	return CalculateFingerprintResult{
		FingerprintStatus: s.FingerprintStatus(),
		FingerprintID:     s.FingerprintID(),
	}, nil
}
