package commands

import (
	"context"
	"errors"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/fingerprint"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// AssignPackagingResult reports how many shipments received the packaging and
// which station it routes to. AssignedStationID is nil when no active station
// handles the packaging type; that is reported, not an error.
type AssignPackagingResult struct {
	ShipmentsUpdated  int
	AssignedStationID *kernel.UUID
}

// AssignPackagingCommandHandler upserts a fingerprint's packaging model and
// cascades it to the fingerprint's editable shipments in one transaction.
//
// Concurrent assignments to the same fingerprint are last-write-wins; the
// model audit keeps every write. A shipment linked to a session after it was
// read keeps its session and is left out of the count.
type AssignPackagingCommandHandler struct {
	uowFactory UoWFactory
	pipeline   shipmentPipeline
}

func NewAssignPackagingCommandHandler(uowFactory UoWFactory) AssignPackagingCommandHandler {
	return AssignPackagingCommandHandler{
		uowFactory: uowFactory,
		pipeline:   newShipmentPipeline(nil),
	}
}

func (h AssignPackagingCommandHandler) Handle(ctx context.Context, command AssignPackagingCommand) (result AssignPackagingResult, err error) {
	ctx, span := otel.Tracer("fulfillment/commands").Start(ctx, "AssignPackaging")
	span.SetAttributes(
		attribute.String("fingerprint.id", command.FingerprintID().String()),
		attribute.String("packaging_type.id", command.PackagingTypeID().String()),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err = command.Validate(); err != nil {
		return AssignPackagingResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return AssignPackagingResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	fpRepo := uow.FingerprintRepository()
	shipmentRepo := uow.ShipmentRepository()

	fp, err := fpRepo.Get(ctx, command.FingerprintID())
	if err != nil {
		return AssignPackagingResult{}, err
	}

	pt, station, err := h.pipeline.resolveStation(ctx, uow.PackagingRepository(), command.PackagingTypeID())
	if err != nil {
		return AssignPackagingResult{}, err
	}

	model, err := fingerprint.NewManualModel(fp.ID(), pt.ID(), command.Actor(), command.Notes(), time.Now().UTC())
	if err != nil {
		return AssignPackagingResult{}, err
	}
	if err = fpRepo.SaveModel(ctx, model); err != nil {
		return AssignPackagingResult{}, err
	}

	shipments, err := shipmentRepo.GetEditableByFingerprint(ctx, fp.ID())
	if err != nil {
		return AssignPackagingResult{}, err
	}

	assigned := stationID(station)
	updated := 0
	for _, s := range shipments {
		if err = s.AssignPackaging(pt.ID(), assigned); err != nil {
			return AssignPackagingResult{}, err
		}
		s.RecomputeLifecycle()
		err = shipmentRepo.Update(ctx, s)
		if errors.Is(err, shipment.ErrSessionLinkChanged) {
			continue
		}
		if err != nil {
			return AssignPackagingResult{}, err
		}
		updated++
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignPackagingResult{}, err
	}

	metrics.PackagingAssignmentsTotal.WithLabelValues(strconv.FormatBool(assigned != nil)).Inc()
	span.SetAttributes(attribute.Int("shipments.updated", updated))

	return AssignPackagingResult{
		ShipmentsUpdated:  updated,
		AssignedStationID: assigned,
	}, nil
}
