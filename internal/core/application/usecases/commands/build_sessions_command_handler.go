package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/domain/model/session"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SessionShipmentView is one shipment of a built or planned session.
type SessionShipmentView struct {
	ShipmentID  kernel.UUID
	OrderNumber string
	Spot        int
	PickLabel   string
}

// SessionView describes a built session. SessionID and SequenceNumber are
// zero in a dry run.
type SessionView struct {
	SessionID      *kernel.UUID
	SequenceNumber int64
	StationID      kernel.UUID
	StationName    string
	StationType    packaging.StationType
	MaxOrders      int
	Shipments      []SessionShipmentView
}

type BuildSessionsResult struct {
	DryRun            bool
	SessionsCreated   int
	ShipmentsAssigned int
	ShipmentsSkipped  int
	Errors            []error
	Sessions          []SessionView
}

// BuildSessionsCommandHandler plans sessions over the current candidates and
// persists each planned session in its own transaction.
//
// Every link is a conditional update that re-checks the shipment is still
// unlinked and ready_to_session; shipments that lost the race are skipped and
// spots stay contiguous over the shipments that were linked. A session whose
// every candidate was skipped is rolled back.
type BuildSessionsCommandHandler struct {
	uowFactory UoWFactory
	planner    services.SessionPlanner
	now        func() time.Time
	logger     *zap.Logger
}

func NewBuildSessionsCommandHandler(uowFactory UoWFactory, planner services.SessionPlanner, logger *zap.Logger) BuildSessionsCommandHandler {
	return BuildSessionsCommandHandler{
		uowFactory: uowFactory,
		planner:    planner,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger.With(zap.String("component", "session_builder")),
	}
}

func (h BuildSessionsCommandHandler) Handle(ctx context.Context, command BuildSessionsCommand) (BuildSessionsResult, error) {
	ctx, span := otel.Tracer("fulfillment/commands").Start(ctx, "BuildSessions")
	defer span.End()

	if err := command.Validate(); err != nil {
		return BuildSessionsResult{}, err
	}

	reader := h.uowFactory.Create()
	candidates, err := reader.ShipmentRepository().GetSessionCandidates(ctx, ports.SessionCandidateFilter{
		StationType:  command.StationType(),
		OrderNumbers: command.OrderNumbers(),
	})
	if err != nil {
		return BuildSessionsResult{}, err
	}
	stations, err := reader.PackagingRepository().GetActiveStations(ctx)
	if err != nil {
		return BuildSessionsResult{}, err
	}

	plans, unplaceable := h.planner.Plan(candidates, stations)
	out := BuildSessionsResult{
		DryRun:           command.DryRun(),
		ShipmentsSkipped: len(unplaceable),
	}
	span.SetAttributes(
		attribute.Int("sessions.planned", len(plans)),
		attribute.Int("shipments.candidates", len(candidates)),
		attribute.Bool("dry_run", command.DryRun()),
	)

	if command.DryRun() {
		for _, plan := range plans {
			out.Sessions = append(out.Sessions, planView(plan))
			out.ShipmentsAssigned += len(plan.Shipments)
		}
		return out, nil
	}

	for _, plan := range plans {
		view, skipped, err := h.persist(ctx, plan)
		if err != nil {
			out.Errors = append(out.Errors, fmt.Errorf("station %s: %w", plan.Station.Name(), err))
			h.logger.Error("session build failed", zap.String("station", plan.Station.Name()), zap.Error(err))
			continue
		}
		out.ShipmentsSkipped += skipped
		if view == nil {
			continue
		}
		out.SessionsCreated++
		out.ShipmentsAssigned += len(view.Shipments)
		out.Sessions = append(out.Sessions, *view)
		metrics.SessionsCreatedTotal.WithLabelValues(view.StationType.String()).Inc()
	}

	metrics.SessionShipmentsTotal.WithLabelValues("assigned").Add(float64(out.ShipmentsAssigned))
	metrics.SessionShipmentsTotal.WithLabelValues("skipped").Add(float64(out.ShipmentsSkipped))
	h.logger.Info("sessions built",
		zap.Int("sessions", out.SessionsCreated),
		zap.Int("assigned", out.ShipmentsAssigned),
		zap.Int("skipped", out.ShipmentsSkipped),
		zap.Int("errors", len(out.Errors)))

	return out, nil
}

// persist stores one planned session. It returns a nil view when every
// candidate was skipped.
func (h BuildSessionsCommandHandler) persist(ctx context.Context, plan services.PlannedSession) (*SessionView, int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sessionRepo := uow.SessionRepository()
	shipmentRepo := uow.ShipmentRepository()

	seq, err := sessionRepo.NextSequenceNumber(ctx)
	if err != nil {
		return nil, 0, err
	}
	sess, err := session.NewFulfillmentSession(kernel.NewUUID(), seq,
		plan.Station.StationType(), plan.Station.ID(), plan.MaxOrders, h.now())
	if err != nil {
		return nil, 0, err
	}
	if err = sessionRepo.Add(ctx, sess); err != nil {
		return nil, 0, err
	}

	view := SessionView{
		SessionID:      ptr(sess.ID()),
		SequenceNumber: seq,
		StationID:      plan.Station.ID(),
		StationName:    plan.Station.Name(),
		StationType:    plan.Station.StationType(),
		MaxOrders:      plan.MaxOrders,
	}
	skipped := 0

	for _, planned := range plan.Shipments {
		s, err := shipmentRepo.Get(ctx, planned.ShipmentID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			skipped++
			continue
		}
		if err != nil {
			return nil, 0, err
		}

		spot := len(view.Shipments) + 1
		if err = s.LinkSession(sess.ID(), spot, session.Draft.String()); err != nil {
			if errors.Is(err, shipment.ErrNotEligibleForSession) {
				skipped++
				continue
			}
			return nil, 0, err
		}
		s.RecomputeLifecycle()

		linked, err := shipmentRepo.LinkToSession(ctx, s)
		if err != nil {
			return nil, 0, err
		}
		if !linked {
			skipped++
			continue
		}

		view.Shipments = append(view.Shipments, SessionShipmentView{
			ShipmentID:  s.ID(),
			OrderNumber: s.OrderNumber(),
			Spot:        spot,
			PickLabel:   session.PickLabel(seq, spot),
		})
	}

	if len(view.Shipments) == 0 {
		h.logger.Info("planned session dropped, every candidate was skipped",
			zap.String("station", plan.Station.Name()),
			zap.Int("skipped", skipped))
		return nil, skipped, nil
	}

	if err = sess.SetOrderCount(len(view.Shipments)); err != nil {
		return nil, 0, err
	}
	if err = sessionRepo.Update(ctx, sess); err != nil {
		return nil, 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, 0, err
	}

	return &view, skipped, nil
}

func planView(plan services.PlannedSession) SessionView {
	view := SessionView{
		StationID:   plan.Station.ID(),
		StationName: plan.Station.Name(),
		StationType: plan.Station.StationType(),
		MaxOrders:   plan.MaxOrders,
		Shipments:   make([]SessionShipmentView, len(plan.Shipments)),
	}
	for i, s := range plan.Shipments {
		view.Shipments[i] = SessionShipmentView{ShipmentID: s.ShipmentID, OrderNumber: s.OrderNumber, Spot: s.Spot}
	}
	return view
}

func ptr[T any](v T) *T {
	return &v
}
