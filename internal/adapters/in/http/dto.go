package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ItemError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type CategorizeSkuRequest struct {
	CollectionID *string `json:"collectionId" validate:"omitempty,uuid"`
}

type CategorizeSkuResponse struct {
	AffectedShipments int         `json:"affectedShipments"`
	Completed         int         `json:"completed"`
	StillPending      int         `json:"stillPending"`
	Errors            []ItemError `json:"errors"`
}

type UnmappedFingerprint struct {
	ID            string `json:"id"`
	Hash          string `json:"hash"`
	DisplayName   string `json:"displayName"`
	TotalItems    int    `json:"totalItems"`
	TotalWeightOz string `json:"totalWeightOz"`
	ShipmentCount int    `json:"shipmentCount"`
}

type AssignPackagingRequest struct {
	PackagingTypeID string `json:"packagingTypeId" validate:"required,uuid"`
	Actor           string `json:"actor" validate:"max=255"`
	Notes           string `json:"notes"`
}

type AssignPackagingResponse struct {
	ShipmentsUpdated  int     `json:"shipmentsUpdated"`
	AssignedStationID *string `json:"assignedStationId"`
}

type BulkAssignPackagingItem struct {
	FingerprintID   string `json:"fingerprintId" validate:"required,uuid"`
	PackagingTypeID string `json:"packagingTypeId" validate:"required,uuid"`
	Actor           string `json:"actor" validate:"max=255"`
	Notes           string `json:"notes"`
}

type BulkAssignPackagingRequest struct {
	Assignments []BulkAssignPackagingItem `json:"assignments" validate:"required,min=1,dive"`
}

type BulkAssignPackagingResponse struct {
	Succeeded        int         `json:"succeeded"`
	Failed           int         `json:"failed"`
	ShipmentsUpdated int         `json:"shipmentsUpdated"`
	Errors           []ItemError `json:"errors"`
}

type FingerprintResponse struct {
	ItemsCreated      *int    `json:"itemsCreated,omitempty"`
	FingerprintStatus string  `json:"fingerprintStatus"`
	FingerprintID     *string `json:"fingerprintId"`
}

type ReadinessResponse struct {
	ShipmentID        string   `json:"shipmentId"`
	OrderNumber       string   `json:"orderNumber"`
	Reason            string   `json:"reason"`
	LifecyclePhase    string   `json:"lifecyclePhase"`
	LifecycleSubphase string   `json:"lifecycleSubphase,omitempty"`
	FingerprintID     *string  `json:"fingerprintId"`
	PackagingTypeID   *string  `json:"packagingTypeId"`
	MissingSKUs       []string `json:"missingSkus"`
}

type BuildSessionsRequest struct {
	StationType  *string  `json:"stationType" validate:"omitempty,oneof=boxing_machine poly_bag hand_pack"`
	DryRun       bool     `json:"dryRun"`
	OrderNumbers []string `json:"orderNumbers" validate:"omitempty,dive,required"`
}

type SessionShipment struct {
	ShipmentID  string `json:"shipmentId"`
	OrderNumber string `json:"orderNumber"`
	Spot        int    `json:"spot"`
	PickLabel   string `json:"pickLabel"`
}

type Session struct {
	ID             *string           `json:"id"`
	SequenceNumber int64             `json:"sequenceNumber"`
	StationID      string            `json:"stationId"`
	StationName    string            `json:"stationName"`
	StationType    string            `json:"stationType"`
	MaxOrders      int               `json:"maxOrders"`
	Shipments      []SessionShipment `json:"shipments"`
}

type BuildSessionsResponse struct {
	DryRun            bool      `json:"dryRun"`
	SessionsCreated   int       `json:"sessionsCreated"`
	ShipmentsAssigned int       `json:"shipmentsAssigned"`
	ShipmentsSkipped  int       `json:"shipmentsSkipped"`
	Errors            []string  `json:"errors"`
	Sessions          []Session `json:"sessions"`
}

type UpdateSessionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft ready picking packing completed cancelled"`
}

type BulkUpdateSessionStatusRequest struct {
	SessionIDs []string `json:"sessionIds" validate:"required,min=1,dive,uuid"`
	Status     string   `json:"status" validate:"required,oneof=draft ready picking packing completed cancelled"`
}

type SessionStatusResponse struct {
	SessionID        string `json:"sessionId"`
	Status           string `json:"status"`
	ShipmentsUpdated int    `json:"shipmentsUpdated"`
}

type BulkUpdateSessionStatusResponse struct {
	Succeeded int                     `json:"succeeded"`
	Failed    int                     `json:"failed"`
	Sessions  []SessionStatusResponse `json:"sessions"`
	Errors    []ItemError             `json:"errors"`
}

type DeleteSessionResponse struct {
	ShipmentsReleased int `json:"shipmentsReleased"`
}

type BatchRequest struct {
	After     *string `json:"after" validate:"omitempty,uuid"`
	BatchSize int     `json:"batchSize" validate:"gte=0,lte=5000"`
}

type RepairLifecycleResponse struct {
	Scanned  int     `json:"scanned"`
	Repaired int     `json:"repaired"`
	LastID   *string `json:"lastId"`
	Done     bool    `json:"done"`
}

type RecalculateFingerprintsResponse struct {
	Processed    int         `json:"processed"`
	Completed    int         `json:"completed"`
	StillPending int         `json:"stillPending"`
	Errors       []ItemError `json:"errors"`
	LastID       *string     `json:"lastId"`
	Done         bool        `json:"done"`
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Checks     map[string]string `json:"checks,omitempty"`
	ReportedAt time.Time         `json:"reportedAt"`
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func shipmentErrors(in []commands.ShipmentError) []ItemError {
	out := make([]ItemError, 0, len(in))
	for _, e := range in {
		out = append(out, ItemError{ID: e.ShipmentID.String(), Message: e.Err.Error()})
	}
	return out
}

func toSessions(views []commands.SessionView) []Session {
	out := make([]Session, 0, len(views))
	for _, v := range views {
		shipments := make([]SessionShipment, 0, len(v.Shipments))
		for _, s := range v.Shipments {
			shipments = append(shipments, SessionShipment{
				ShipmentID:  s.ShipmentID.String(),
				OrderNumber: s.OrderNumber,
				Spot:        s.Spot,
				PickLabel:   s.PickLabel,
			})
		}
		out = append(out, Session{
			ID:             idString(v.SessionID),
			SequenceNumber: v.SequenceNumber,
			StationID:      v.StationID.String(),
			StationName:    v.StationName,
			StationType:    v.StationType.String(),
			MaxOrders:      v.MaxOrders,
			Shipments:      shipments,
		})
	}
	return out
}

// ToBuildSessionsResponse is shared with the build-sessions CLI command.
func ToBuildSessionsResponse(r commands.BuildSessionsResult) BuildSessionsResponse {
	errs := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		errs = append(errs, err.Error())
	}
	return BuildSessionsResponse{
		DryRun:            r.DryRun,
		SessionsCreated:   r.SessionsCreated,
		ShipmentsAssigned: r.ShipmentsAssigned,
		ShipmentsSkipped:  r.ShipmentsSkipped,
		Errors:            errs,
		Sessions:          toSessions(r.Sessions),
	}
}

func toReadinessResponse(r queries.Readiness) ReadinessResponse {
	return ReadinessResponse{
		ShipmentID:        r.ShipmentID.String(),
		OrderNumber:       r.OrderNumber,
		Reason:            string(r.Reason),
		LifecyclePhase:    string(r.Lifecycle.Phase),
		LifecycleSubphase: r.Lifecycle.Subphase,
		FingerprintID:     idString(r.FingerprintID),
		PackagingTypeID:   idString(r.PackagingTypeID),
		MissingSKUs:       r.MissingSKUs,
	}
}
