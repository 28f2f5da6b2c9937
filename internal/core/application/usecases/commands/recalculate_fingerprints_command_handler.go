package commands

import (
	"context"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/fanout"

	"go.uber.org/zap"
)

// RecalculateFingerprintsResult reports one page. Callers continue from
// LastID until Done.
type RecalculateFingerprintsResult struct {
	Processed    int
	Completed    int
	StillPending int
	Errors       []ShipmentError
	LastID       *kernel.UUID
	Done         bool
}

// RecalculateFingerprintsCommandHandler re-hydrates pending shipments, one
// transaction per shipment, through a bounded worker pool.
type RecalculateFingerprintsCommandHandler struct {
	uowFactory UoWFactory
	pipeline   shipmentPipeline
	workers    int
	logger     *zap.Logger
}

func NewRecalculateFingerprintsCommandHandler(
	uowFactory UoWFactory,
	catalog ports.Catalog,
	workers int,
	logger *zap.Logger,
) RecalculateFingerprintsCommandHandler {
	return RecalculateFingerprintsCommandHandler{
		uowFactory: uowFactory,
		pipeline:   newShipmentPipeline(catalog),
		workers:    workers,
		logger:     logger.With(zap.String("component", "fingerprint_recalc")),
	}
}

func (h RecalculateFingerprintsCommandHandler) Handle(
	ctx context.Context,
	command RecalculateFingerprintsCommand,
) (RecalculateFingerprintsResult, error) {
	if err := command.Validate(); err != nil {
		return RecalculateFingerprintsResult{}, err
	}

	ids, err := h.uowFactory.Create().ShipmentRepository().
		FindIDsPendingFingerprint(ctx, command.After(), command.BatchSize())
	if err != nil {
		return RecalculateFingerprintsResult{}, err
	}

	out := RecalculateFingerprintsResult{
		Processed: len(ids),
		LastID:    command.After(),
		Done:      len(ids) < command.BatchSize(),
	}
	if len(ids) == 0 {
		return out, nil
	}
	out.LastID = ptr(ids[len(ids)-1])

	var (
		mu       sync.Mutex
		statuses = make(map[kernel.UUID]shipment.FingerprintStatus, len(ids))
	)
	results := fanout.Run(ctx, h.workers, ids, func(ctx context.Context, id kernel.UUID) error {
		status, err := h.rehydrate(ctx, id)
		if err != nil {
			return err
		}
		mu.Lock()
		statuses[id] = status
		mu.Unlock()
		return nil
	})

	for _, r := range results {
		switch {
		case r.Err != nil:
			out.Errors = append(out.Errors, ShipmentError{ShipmentID: r.Item, Err: r.Err})
			h.logger.Warn("fingerprint recalculation failed",
				zap.String("shipment_id", r.Item.String()), zap.Error(r.Err))
		case statuses[r.Item] == shipment.FingerprintComplete:
			out.Completed++
		default:
			out.StillPending++
		}
	}

	return out, nil
}

func (h RecalculateFingerprintsCommandHandler) rehydrate(ctx context.Context, id kernel.UUID) (shipment.FingerprintStatus, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	result, err := hydrateInTx(ctx, uow, h.pipeline, id)
	if err != nil {
		return "", err
	}
	if err = uow.Commit(ctx); err != nil {
		return "", err
	}
	return result.FingerprintStatus, nil
}
