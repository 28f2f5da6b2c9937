// Package http exposes the fulfillment pipeline over a JSON API under /api/v1.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/domain/model/session"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var validate = validator.New()

type (
	CategorizeSkuHandler interface {
		Handle(ctx context.Context, command commands.CategorizeSkuCommand) (commands.CategorizeSkuResult, error)
	}
	AssignPackagingHandler interface {
		Handle(ctx context.Context, command commands.AssignPackagingCommand) (commands.AssignPackagingResult, error)
	}
	BulkAssignPackagingHandler interface {
		Handle(ctx context.Context, command commands.BulkAssignPackagingCommand) (commands.BulkAssignPackagingResult, error)
	}
	HydrateShipmentHandler interface {
		Handle(ctx context.Context, command commands.HydrateShipmentCommand) (commands.HydrateShipmentResult, error)
	}
	CalculateFingerprintHandler interface {
		Handle(ctx context.Context, command commands.CalculateFingerprintCommand) (commands.CalculateFingerprintResult, error)
	}
	BuildSessionsHandler interface {
		Handle(ctx context.Context, command commands.BuildSessionsCommand) (commands.BuildSessionsResult, error)
	}
	UpdateSessionStatusHandler interface {
		Handle(ctx context.Context, command commands.UpdateSessionStatusCommand) (commands.UpdateSessionStatusResult, error)
	}
	BulkUpdateSessionStatusHandler interface {
		Handle(ctx context.Context, command commands.BulkUpdateSessionStatusCommand) (commands.BulkUpdateSessionStatusResult, error)
	}
	DeleteSessionHandler interface {
		Handle(ctx context.Context, command commands.DeleteSessionCommand) (commands.DeleteSessionResult, error)
	}
	RepairLifecycleHandler interface {
		Handle(ctx context.Context, command commands.RepairLifecycleCommand) (commands.RepairLifecycleResult, error)
	}
	RecalculateFingerprintsHandler interface {
		Handle(ctx context.Context, command commands.RecalculateFingerprintsCommand) (commands.RecalculateFingerprintsResult, error)
	}
	ListUnmappedFingerprintsHandler interface {
		Handle(ctx context.Context, query queries.ListUnmappedFingerprintsQuery) ([]queries.UnmappedFingerprint, error)
	}
	DiagnoseReadinessHandler interface {
		Handle(ctx context.Context, query queries.DiagnoseReadinessQuery) (queries.Readiness, error)
	}
)

// Handlers groups the use cases the API dispatches to.
type Handlers struct {
	CategorizeSku            CategorizeSkuHandler
	AssignPackaging          AssignPackagingHandler
	BulkAssignPackaging      BulkAssignPackagingHandler
	HydrateShipment          HydrateShipmentHandler
	CalculateFingerprint     CalculateFingerprintHandler
	BuildSessions            BuildSessionsHandler
	UpdateSessionStatus      UpdateSessionStatusHandler
	BulkUpdateSessionStatus  BulkUpdateSessionStatusHandler
	DeleteSession            DeleteSessionHandler
	RepairLifecycle          RepairLifecycleHandler
	RecalculateFingerprints  RecalculateFingerprintsHandler
	ListUnmappedFingerprints ListUnmappedFingerprintsHandler
	DiagnoseReadiness        DiagnoseReadinessHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h      Handlers
	logger *zap.Logger
}

func NewServer(handlers Handlers, logger *zap.Logger) *Server {
	return &Server{
		h:      handlers,
		logger: logger.With(zap.String("component", "http")),
	}
}

// CategorizeSku handles PUT /api/v1/catalog/skus/:sku/collection.
func (s *Server) CategorizeSku(c echo.Context) error {
	var req CategorizeSkuRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	var collectionID *kernel.UUID
	if req.CollectionID != nil {
		id, err := kernel.UUIDFromString(*req.CollectionID)
		if err != nil {
			return s.fail(c, err, "Invalid collection id")
		}
		collectionID = &id
	}

	cmd, err := commands.NewCategorizeSkuCommand(c.Param("sku"), collectionID)
	if err != nil {
		return s.fail(c, err, "Invalid categorization")
	}

	result, err := s.h.CategorizeSku.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to categorize SKU")
	}

	return c.JSON(http.StatusOK, CategorizeSkuResponse{
		AffectedShipments: result.AffectedShipments,
		Completed:         result.Completed,
		StillPending:      result.StillPending,
		Errors:            shipmentErrors(result.Errors),
	})
}

// GetUnmappedFingerprints handles GET /api/v1/fingerprints/unmapped.
func (s *Server) GetUnmappedFingerprints(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "limit must be a number")
		}
		limit = n
	}

	query, err := queries.NewListUnmappedFingerprintsQuery(limit)
	if err != nil {
		return s.fail(c, err, "Invalid query")
	}

	items, err := s.h.ListUnmappedFingerprints.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err, "Failed to list fingerprints")
	}

	response := make([]UnmappedFingerprint, len(items))
	for i, item := range items {
		response[i] = UnmappedFingerprint{
			ID:            item.FingerprintID.String(),
			Hash:          item.Hash,
			DisplayName:   item.DisplayName,
			TotalItems:    item.TotalItems,
			TotalWeightOz: item.TotalWeightOz.String(),
			ShipmentCount: item.ShipmentCount,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// AssignPackaging handles PUT /api/v1/fingerprints/:id/packaging.
func (s *Server) AssignPackaging(c echo.Context) error {
	fingerprintID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Invalid fingerprint id")
	}

	var req AssignPackagingRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err = validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	packagingTypeID, err := kernel.UUIDFromString(req.PackagingTypeID)
	if err != nil {
		return s.fail(c, err, "Invalid packaging type id")
	}

	cmd, err := commands.NewAssignPackagingCommand(fingerprintID, packagingTypeID, req.Actor, req.Notes)
	if err != nil {
		return s.fail(c, err, "Invalid assignment")
	}

	result, err := s.h.AssignPackaging.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to assign packaging")
	}

	return c.JSON(http.StatusOK, AssignPackagingResponse{
		ShipmentsUpdated:  result.ShipmentsUpdated,
		AssignedStationID: idString(result.AssignedStationID),
	})
}

// BulkAssignPackaging handles PUT /api/v1/fingerprints/packaging.
func (s *Server) BulkAssignPackaging(c echo.Context) error {
	var req BulkAssignPackagingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	assignments := make([]commands.AssignPackagingCommand, 0, len(req.Assignments))
	for _, item := range req.Assignments {
		fingerprintID, err := kernel.UUIDFromString(item.FingerprintID)
		if err != nil {
			return s.fail(c, err, "Invalid fingerprint id")
		}
		packagingTypeID, err := kernel.UUIDFromString(item.PackagingTypeID)
		if err != nil {
			return s.fail(c, err, "Invalid packaging type id")
		}
		cmd, err := commands.NewAssignPackagingCommand(fingerprintID, packagingTypeID, item.Actor, item.Notes)
		if err != nil {
			return s.fail(c, err, "Invalid assignment")
		}
		assignments = append(assignments, cmd)
	}

	cmd, err := commands.NewBulkAssignPackagingCommand(assignments)
	if err != nil {
		return s.fail(c, err, "Invalid assignments")
	}

	result, err := s.h.BulkAssignPackaging.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to assign packaging")
	}

	itemErrors := make([]ItemError, 0, result.Failed)
	for _, item := range result.Items {
		if item.Err != nil {
			itemErrors = append(itemErrors, ItemError{ID: item.FingerprintID.String(), Message: item.Err.Error()})
		}
	}
	return c.JSON(http.StatusOK, BulkAssignPackagingResponse{
		Succeeded:        result.Succeeded,
		Failed:           result.Failed,
		ShipmentsUpdated: result.ShipmentsUpdated,
		Errors:           itemErrors,
	})
}

// HydrateShipment handles POST /api/v1/shipments/:id/hydrate.
func (s *Server) HydrateShipment(c echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Invalid shipment id")
	}

	cmd, err := commands.NewHydrateShipmentCommand(shipmentID)
	if err != nil {
		return s.fail(c, err, "Invalid shipment id")
	}

	result, err := s.h.HydrateShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to hydrate shipment")
	}

	items := result.ItemsCreated
	return c.JSON(http.StatusOK, FingerprintResponse{
		ItemsCreated:      &items,
		FingerprintStatus: result.FingerprintStatus.String(),
		FingerprintID:     idString(result.FingerprintID),
	})
}

// CalculateFingerprint handles POST /api/v1/shipments/:id/fingerprint.
func (s *Server) CalculateFingerprint(c echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Invalid shipment id")
	}

	cmd, err := commands.NewCalculateFingerprintCommand(shipmentID)
	if err != nil {
		return s.fail(c, err, "Invalid shipment id")
	}

	result, err := s.h.CalculateFingerprint.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to calculate fingerprint")
	}

	return c.JSON(http.StatusOK, FingerprintResponse{
		FingerprintStatus: result.FingerprintStatus.String(),
		FingerprintID:     idString(result.FingerprintID),
	})
}

// GetReadiness handles GET /api/v1/shipments/:orderNumber/readiness.
func (s *Server) GetReadiness(c echo.Context) error {
	query, err := queries.NewDiagnoseReadinessQuery(c.Param("orderNumber"))
	if err != nil {
		return s.fail(c, err, "Invalid order number")
	}

	readiness, err := s.h.DiagnoseReadiness.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err, "Failed to diagnose readiness")
	}

	return c.JSON(http.StatusOK, toReadinessResponse(readiness))
}

// BuildSessions handles POST /api/v1/sessions/build.
func (s *Server) BuildSessions(c echo.Context) error {
	var req BuildSessionsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	return s.buildSessions(c, req.StationType, req.DryRun, req.OrderNumbers)
}

// PreviewSessions handles GET /api/v1/sessions/preview.
func (s *Server) PreviewSessions(c echo.Context) error {
	var stationType *string
	if raw := c.QueryParam("stationType"); raw != "" {
		stationType = &raw
	}
	return s.buildSessions(c, stationType, true, nil)
}

func (s *Server) buildSessions(c echo.Context, rawStationType *string, dryRun bool, orderNumbers []string) error {
	var stationType *packaging.StationType
	if rawStationType != nil {
		st, err := packaging.ParseStationType(*rawStationType)
		if err != nil {
			return s.fail(c, err, "Invalid station type")
		}
		stationType = &st
	}

	cmd, err := commands.NewBuildSessionsCommand(stationType, dryRun, orderNumbers)
	if err != nil {
		return s.fail(c, err, "Invalid session build")
	}

	result, err := s.h.BuildSessions.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to build sessions")
	}

	code := http.StatusOK
	if !dryRun && result.SessionsCreated > 0 {
		code = http.StatusCreated
	}
	return c.JSON(code, ToBuildSessionsResponse(result))
}

// UpdateSessionStatus handles PATCH /api/v1/sessions/:id/status.
func (s *Server) UpdateSessionStatus(c echo.Context) error {
	sessionID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Invalid session id")
	}

	var req UpdateSessionStatusRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err = validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	status, err := session.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err, "Invalid status")
	}

	cmd, err := commands.NewUpdateSessionStatusCommand(sessionID, status)
	if err != nil {
		return s.fail(c, err, "Invalid status update")
	}

	result, err := s.h.UpdateSessionStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to update session status")
	}

	return c.JSON(http.StatusOK, SessionStatusResponse{
		SessionID:        result.SessionID.String(),
		Status:           result.Status.String(),
		ShipmentsUpdated: result.ShipmentsUpdated,
	})
}

// BulkUpdateSessionStatus handles PATCH /api/v1/sessions/status.
func (s *Server) BulkUpdateSessionStatus(c echo.Context) error {
	var req BulkUpdateSessionStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	status, err := session.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err, "Invalid status")
	}

	ids := make([]kernel.UUID, 0, len(req.SessionIDs))
	for _, raw := range req.SessionIDs {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return s.fail(c, err, "Invalid session id")
		}
		ids = append(ids, id)
	}

	cmd, err := commands.NewBulkUpdateSessionStatusCommand(ids, status)
	if err != nil {
		return s.fail(c, err, "Invalid status update")
	}

	result, err := s.h.BulkUpdateSessionStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to update session status")
	}

	response := BulkUpdateSessionStatusResponse{
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Sessions:  make([]SessionStatusResponse, 0, result.Succeeded),
		Errors:    make([]ItemError, 0, result.Failed),
	}
	for _, item := range result.Items {
		if item.Err != nil {
			response.Errors = append(response.Errors, ItemError{ID: item.SessionID.String(), Message: item.Err.Error()})
			continue
		}
		response.Sessions = append(response.Sessions, SessionStatusResponse{
			SessionID:        item.SessionID.String(),
			Status:           item.Result.Status.String(),
			ShipmentsUpdated: item.Result.ShipmentsUpdated,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// DeleteSession handles DELETE /api/v1/sessions/:id.
func (s *Server) DeleteSession(c echo.Context) error {
	sessionID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Invalid session id")
	}

	cmd, err := commands.NewDeleteSessionCommand(sessionID)
	if err != nil {
		return s.fail(c, err, "Invalid session id")
	}

	result, err := s.h.DeleteSession.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to delete session")
	}

	return c.JSON(http.StatusOK, DeleteSessionResponse{ShipmentsReleased: result.ShipmentsReleased})
}

// RepairLifecycle handles POST /api/v1/maintenance/lifecycle/repair.
func (s *Server) RepairLifecycle(c echo.Context) error {
	after, batchSize, err := bindBatch(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewRepairLifecycleCommand(after, batchSize)
	if err != nil {
		return s.fail(c, err, "Invalid repair request")
	}

	result, err := s.h.RepairLifecycle.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to repair lifecycle")
	}

	return c.JSON(http.StatusOK, RepairLifecycleResponse{
		Scanned:  result.Scanned,
		Repaired: result.Repaired,
		LastID:   idString(result.LastID),
		Done:     result.Done,
	})
}

// RecalculateFingerprints handles POST /api/v1/maintenance/fingerprints/recalculate.
func (s *Server) RecalculateFingerprints(c echo.Context) error {
	after, batchSize, err := bindBatch(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cmd, err := commands.NewRecalculateFingerprintsCommand(after, batchSize)
	if err != nil {
		return s.fail(c, err, "Invalid recalculation request")
	}

	result, err := s.h.RecalculateFingerprints.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err, "Failed to recalculate fingerprints")
	}

	return c.JSON(http.StatusOK, RecalculateFingerprintsResponse{
		Processed:    result.Processed,
		Completed:    result.Completed,
		StillPending: result.StillPending,
		Errors:       shipmentErrors(result.Errors),
		LastID:       idString(result.LastID),
		Done:         result.Done,
	})
}

// bindBatch reads an optional BatchRequest body.
func bindBatch(c echo.Context) (*kernel.UUID, int, error) {
	var req BatchRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return nil, 0, errors.New("invalid request body")
		}
	}
	if err := validate.Struct(req); err != nil {
		return nil, 0, err
	}

	if req.After == nil {
		return nil, req.BatchSize, nil
	}
	after, err := kernel.UUIDFromString(*req.After)
	if err != nil {
		return nil, 0, err
	}
	return &after, req.BatchSize, nil
}
