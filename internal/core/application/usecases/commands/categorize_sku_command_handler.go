package commands

import (
	"context"
	"fmt"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/fanout"

	"go.uber.org/zap"
)

// ShipmentError names a shipment a batch could not process.
type ShipmentError struct {
	ShipmentID kernel.UUID
	Err        error
}

func (e ShipmentError) Error() string {
	return fmt.Sprintf("shipment %s: %v", e.ShipmentID, e.Err)
}

// CategorizeSkuResult aggregates the cascade over affected shipments.
type CategorizeSkuResult struct {
	AffectedShipments int
	Completed         int
	StillPending      int
	Errors            []ShipmentError
}

// CategorizeSkuCommandHandler updates the catalog mapping, drops the cached
// product and re-hydrates every editable shipment that holds the SKU. The
// catalog it re-hydrates from must read the mapping it just wrote, so it is
// given the uncached catalog.
//
// Each affected shipment is processed in its own pair of transactions by a
// bounded pool of workers: the first marks the fingerprint needs_recalc, the
// second re-hydrates. A failure on one shipment leaves it in needs_recalc for
// the recalculation job and does not stop the others.
type CategorizeSkuCommandHandler struct {
	uowFactory  UoWFactory
	writer      ports.CatalogWriter
	invalidator ports.CatalogInvalidator
	pipeline    shipmentPipeline
	workers     int
	logger      *zap.Logger
}

func NewCategorizeSkuCommandHandler(
	uowFactory UoWFactory,
	catalog ports.Catalog,
	writer ports.CatalogWriter,
	invalidator ports.CatalogInvalidator,
	workers int,
	logger *zap.Logger,
) CategorizeSkuCommandHandler {
	return CategorizeSkuCommandHandler{
		uowFactory:  uowFactory,
		writer:      writer,
		invalidator: invalidator,
		pipeline:    newShipmentPipeline(catalog),
		workers:     workers,
		logger:      logger.With(zap.String("component", "categorize_sku")),
	}
}

func (h CategorizeSkuCommandHandler) Handle(ctx context.Context, command CategorizeSkuCommand) (CategorizeSkuResult, error) {
	if err := command.Validate(); err != nil {
		return CategorizeSkuResult{}, err
	}

	if err := h.writer.AssignCollection(ctx, command.SKU(), command.CollectionID()); err != nil {
		return CategorizeSkuResult{}, err
	}
	if err := h.invalidator.Invalidate(ctx, command.SKU()); err != nil {
		return CategorizeSkuResult{}, fmt.Errorf("sku %s was categorized but cached lookups may still serve the old mapping: %w", command.SKU(), err)
	}

	ids, err := h.uowFactory.Create().ShipmentRepository().FindEditableIDsBySKU(ctx, command.SKU())
	if err != nil {
		return CategorizeSkuResult{}, err
	}

	var (
		mu       sync.Mutex
		statuses = make(map[kernel.UUID]shipment.FingerprintStatus, len(ids))
	)
	results := fanout.Run(ctx, h.workers, ids, func(ctx context.Context, id kernel.UUID) error {
		status, err := h.cascade(ctx, id)
		if err != nil {
			return err
		}
		mu.Lock()
		statuses[id] = status
		mu.Unlock()
		return nil
	})

	out := CategorizeSkuResult{AffectedShipments: len(ids)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			out.Errors = append(out.Errors, ShipmentError{ShipmentID: r.Item, Err: r.Err})
			h.logger.Warn("shipment cascade failed",
				zap.String("sku", command.SKU()),
				zap.String("shipment_id", r.Item.String()),
				zap.Error(r.Err))
		case statuses[r.Item] == shipment.FingerprintComplete:
			out.Completed++
		default:
			out.StillPending++
		}
	}

	h.logger.Info("sku categorized",
		zap.String("sku", command.SKU()),
		zap.Int("affected", out.AffectedShipments),
		zap.Int("completed", out.Completed),
		zap.Int("still_pending", out.StillPending),
		zap.Int("errors", len(out.Errors)))

	return out, nil
}

func (h CategorizeSkuCommandHandler) cascade(ctx context.Context, id kernel.UUID) (shipment.FingerprintStatus, error) {
	if err := h.invalidate(ctx, id); err != nil {
		return "", err
	}

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

// invalidate commits needs_recalc on its own so that a failed re-hydration
// still leaves the shipment marked for the recalculation job.
func (h CategorizeSkuCommandHandler) invalidate(ctx context.Context, id kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShipmentRepository()
	s, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.IsEditable() {
		return shipment.ErrShipmentIsNotEditable
	}
	if err = s.MarkFingerprintIncomplete(shipment.FingerprintNeedsRecalc); err != nil {
		return err
	}
	s.RecomputeLifecycle()

	if err = repo.Update(ctx, s); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
