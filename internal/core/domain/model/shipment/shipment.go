package shipment

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment or RestoreShipment")

	// ErrNotEligibleForSession is returned when linking a shipment that is not ready_to_session.
	ErrNotEligibleForSession = errors.New("shipment is not eligible for a session")

	// ErrShipmentIsNotEditable is returned when rebuilding items of a shipment
	// that is already in a session, labelled, shipped or cancelled.
	ErrShipmentIsNotEditable = errors.New("shipment is not editable")

	// ErrSessionLinkChanged is returned when a write finds the stored session
	// link no longer matching the one the shipment was loaded with.
	ErrSessionLinkChanged = errors.New("shipment session link changed concurrently")
)

// PhaseChanged is recorded whenever a recomputation moves a shipment to a new lifecycle state.
type PhaseChanged struct {
	ShipmentID  kernel.UUID
	OrderNumber string
	From        lifecycle.State
	To          lifecycle.State
	OccurredAt  time.Time
}

// Snapshot is the full persisted state of a shipment.
type Snapshot struct {
	ID                kernel.UUID
	OrderNumber       string
	LineItems         []LineItem
	QcItems           []QcItem
	FingerprintID     *kernel.UUID
	FingerprintStatus FingerprintStatus
	PackagingTypeID   *kernel.UUID
	AssignedStationID *kernel.UUID
	Lifecycle         lifecycle.State
	SessionID         *kernel.UUID
	SessionSpot       int
	SessionStatus     string
	QcStatus          lifecycle.QcStatus
	CarrierStatus     lifecycle.CarrierStatus
	TrackingNumber    string
	OnHold            bool
	Cancelled         bool
	Tags              []string
	RequiredTags      []string
	CreatedAt         time.Time
}

// Shipment is the aggregate root for one customer order moving through
// classification, packaging assignment and session batching.
//
// Invariants:
//   - fingerprintID is set only while fingerprintStatus is complete
//   - packaging and station are set only on a complete fingerprint
//   - sessionSpot is set (1-based) iff sessionID is set
//   - the stored lifecycle state is only ever produced by lifecycle.Derive
type Shipment struct {
	id                kernel.UUID
	orderNumber       string
	lineItems         []LineItem
	qcItems           []QcItem
	qcItemsChanged    bool
	fingerprintID     *kernel.UUID
	fingerprintStatus FingerprintStatus
	packagingTypeID   *kernel.UUID
	assignedStationID *kernel.UUID
	lifecycle         lifecycle.State
	sessionID         *kernel.UUID
	sessionSpot       int
	sessionStatus     string
	qcStatus          lifecycle.QcStatus
	carrierStatus     lifecycle.CarrierStatus
	trackingNumber    string
	onHold            bool
	cancelled         bool
	tags              []string
	requiredTags      []string
	createdAt         time.Time
	events            []PhaseChanged
	isConstructed     bool
}

// NewShipment creates a shipment as order ingest would: raw line items, no
// hydrated items yet, lifecycle derived from that state.
func NewShipment(id kernel.UUID, orderNumber string, lineItems []LineItem, createdAt time.Time) (*Shipment, error) {
	s := &Shipment{
		fingerprintStatus: FingerprintPendingCategorization,
		qcStatus:          lifecycle.QcNone,
		createdAt:         createdAt,
		isConstructed:     true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setOrderNumber(orderNumber),
		s.setLineItems(lineItems),
	); err != nil {
		return nil, err
	}

	s.lifecycle = lifecycle.Derive(s.Signals())
	return s, nil
}

// RestoreShipment rebuilds a persisted shipment. The stored lifecycle state is
// kept as is, even when stale, so that a repair pass can detect the drift.
func RestoreShipment(snap Snapshot) (*Shipment, error) {
	s := &Shipment{
		qcItems:           slices.Clone(snap.QcItems),
		fingerprintID:     snap.FingerprintID,
		packagingTypeID:   snap.PackagingTypeID,
		assignedStationID: snap.AssignedStationID,
		lifecycle:         snap.Lifecycle,
		sessionID:         snap.SessionID,
		sessionSpot:       snap.SessionSpot,
		sessionStatus:     snap.SessionStatus,
		qcStatus:          snap.QcStatus,
		carrierStatus:     snap.CarrierStatus,
		trackingNumber:    snap.TrackingNumber,
		onHold:            snap.OnHold,
		cancelled:         snap.Cancelled,
		tags:              slices.Clone(snap.Tags),
		requiredTags:      slices.Clone(snap.RequiredTags),
		createdAt:         snap.CreatedAt,
		isConstructed:     true,
	}
	if s.qcStatus == "" {
		s.qcStatus = lifecycle.QcNone
	}

	if err := errors.Join(
		s.setID(snap.ID),
		s.setOrderNumber(snap.OrderNumber),
		s.setLineItems(snap.LineItems),
		s.setFingerprintStatus(snap.FingerprintStatus),
		s.validateSessionLink(),
	); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

func (s *Shipment) ID() kernel.UUID                        { return s.id }
func (s *Shipment) OrderNumber() string                    { return s.orderNumber }
func (s *Shipment) LineItems() []LineItem                  { return slices.Clone(s.lineItems) }
func (s *Shipment) QcItems() []QcItem                      { return slices.Clone(s.qcItems) }
func (s *Shipment) QcItemsChanged() bool                   { return s.qcItemsChanged }
func (s *Shipment) FingerprintID() *kernel.UUID            { return s.fingerprintID }
func (s *Shipment) FingerprintStatus() FingerprintStatus   { return s.fingerprintStatus }
func (s *Shipment) PackagingTypeID() *kernel.UUID          { return s.packagingTypeID }
func (s *Shipment) AssignedStationID() *kernel.UUID        { return s.assignedStationID }
func (s *Shipment) Lifecycle() lifecycle.State             { return s.lifecycle }
func (s *Shipment) SessionID() *kernel.UUID                { return s.sessionID }
func (s *Shipment) SessionSpot() int                       { return s.sessionSpot }
func (s *Shipment) CarrierStatus() lifecycle.CarrierStatus { return s.carrierStatus }
func (s *Shipment) CreatedAt() time.Time                   { return s.createdAt }

// Snapshot exports the full state for persistence.
func (s *Shipment) Snapshot() Snapshot {
	return Snapshot{
		ID:                s.id,
		OrderNumber:       s.orderNumber,
		LineItems:         slices.Clone(s.lineItems),
		QcItems:           slices.Clone(s.qcItems),
		FingerprintID:     s.fingerprintID,
		FingerprintStatus: s.fingerprintStatus,
		PackagingTypeID:   s.packagingTypeID,
		AssignedStationID: s.assignedStationID,
		Lifecycle:         s.lifecycle,
		SessionID:         s.sessionID,
		SessionSpot:       s.sessionSpot,
		SessionStatus:     s.sessionStatus,
		QcStatus:          s.qcStatus,
		CarrierStatus:     s.carrierStatus,
		TrackingNumber:    s.trackingNumber,
		OnHold:            s.onHold,
		Cancelled:         s.cancelled,
		Tags:              slices.Clone(s.tags),
		RequiredTags:      slices.Clone(s.requiredTags),
		CreatedAt:         s.createdAt,
	}
}

// IsEditable reports whether the packing decision for this shipment may still
// change. Once a shipment is in a session, labelled, shipped or cancelled its
// items and packaging are physical facts.
func (s *Shipment) IsEditable() bool {
	if s.sessionID != nil || s.trackingNumber != "" || s.cancelled {
		return false
	}
	return s.carrierStatus == lifecycle.CarrierNone || s.carrierStatus == lifecycle.CarrierLabelCreated
}

// ReplaceQcItems swaps the hydrated items for a freshly built set. It reports
// whether anything changed; an identical set leaves the shipment untouched.
func (s *Shipment) ReplaceQcItems(items []QcItem) bool {
	if slices.EqualFunc(s.qcItems, items, QcItem.IsEqual) {
		return false
	}
	s.qcItems = slices.Clone(items)
	s.qcItemsChanged = true
	return true
}

// MarkFingerprintIncomplete records a non-complete fingerprint status and drops
// every decision that depended on the previous fingerprint.
func (s *Shipment) MarkFingerprintIncomplete(status FingerprintStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == FingerprintComplete {
		return errs.NewValueIsInvalidErrorWithCause("fingerprint status",
			errors.New("complete requires a fingerprint id"))
	}

	s.fingerprintStatus = status
	s.fingerprintID = nil
	s.ClearPackaging()
	return nil
}

// CompleteFingerprint links the shipment to its resolved fingerprint. Moving to
// a different fingerprint clears the packaging decided for the old one.
func (s *Shipment) CompleteFingerprint(fingerprintID kernel.UUID) error {
	if err := fingerprintID.Validate(); err != nil {
		return err
	}

	if s.fingerprintID == nil || !s.fingerprintID.IsEqual(fingerprintID) {
		s.ClearPackaging()
	}
	s.fingerprintID = &fingerprintID
	s.fingerprintStatus = FingerprintComplete
	return nil
}

// AssignPackaging applies a packaging decision. stationID may be nil when no
// active station handles the packaging type.
func (s *Shipment) AssignPackaging(packagingTypeID kernel.UUID, stationID *kernel.UUID) error {
	if err := packagingTypeID.Validate(); err != nil {
		return err
	}
	if s.fingerprintStatus != FingerprintComplete {
		return errs.NewValueIsInvalidErrorWithCause("fingerprint status",
			fmt.Errorf("%s shipments cannot receive packaging", s.fingerprintStatus))
	}

	s.packagingTypeID = &packagingTypeID
	s.assignedStationID = stationID
	return nil
}

func (s *Shipment) ClearPackaging() {
	s.packagingTypeID = nil
	s.assignedStationID = nil
}

// LinkSession places the shipment at spot in a session. Only shipments whose
// current derived phase is ready_to_session and that are not linked yet qualify.
func (s *Shipment) LinkSession(sessionID kernel.UUID, spot int, sessionStatus string) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}
	if spot < 1 {
		return errs.NewValueIsInvalidErrorWithCause("session spot", fmt.Errorf("%d is not greater than 0", spot))
	}
	if s.sessionID != nil {
		return fmt.Errorf("%w: already linked to session %s", ErrNotEligibleForSession, s.sessionID)
	}
	if phase := lifecycle.Derive(s.Signals()).Phase; phase != lifecycle.PhaseReadyToSession {
		return fmt.Errorf("%w: phase is %s", ErrNotEligibleForSession, phase)
	}

	s.sessionID = &sessionID
	s.sessionSpot = spot
	s.sessionStatus = sessionStatus
	return nil
}

func (s *Shipment) UnlinkSession() {
	s.sessionID = nil
	s.sessionSpot = 0
	s.sessionStatus = ""
}

// SyncSessionStatus records the status of the linked session for subphase derivation.
func (s *Shipment) SyncSessionStatus(status string) {
	if s.sessionID == nil {
		return
	}
	s.sessionStatus = status
}

// Signals collects the inputs of lifecycle derivation.
func (s *Shipment) Signals() lifecycle.Signals {
	return lifecycle.Signals{
		FingerprintStatus: string(s.fingerprintStatus),
		HasPackaging:      s.packagingTypeID != nil,
		HasStation:        s.assignedStationID != nil,
		SessionLinked:     s.sessionID != nil,
		SessionStatus:     s.sessionStatus,
		QcStatus:          s.qcStatus,
		CarrierStatus:     s.carrierStatus,
		HasTracking:       s.trackingNumber != "",
		OnHold:            s.onHold,
		Cancelled:         s.cancelled,
		Tags:              slices.Clone(s.tags),
		RequiredTags:      slices.Clone(s.requiredTags),
	}
}

// RecomputeLifecycle re-derives the lifecycle state and reports whether it changed.
func (s *Shipment) RecomputeLifecycle() bool {
	next := lifecycle.Derive(s.Signals())
	if next == s.lifecycle {
		return false
	}

	s.events = append(s.events, PhaseChanged{
		ShipmentID:  s.id,
		OrderNumber: s.orderNumber,
		From:        s.lifecycle,
		To:          next,
		OccurredAt:  time.Now().UTC(),
	})
	s.lifecycle = next
	return true
}

func (s *Shipment) DomainEvents() []PhaseChanged {
	return slices.Clone(s.events)
}

func (s *Shipment) ClearDomainEvents() {
	s.events = nil
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setOrderNumber(orderNumber string) error {
	if strings.TrimSpace(orderNumber) == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	s.orderNumber = orderNumber
	return nil
}

func (s *Shipment) setLineItems(items []LineItem) error {
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.position]; dup {
			return errs.NewValueIsInvalidErrorWithCause("line items",
				fmt.Errorf("position %d is used twice", item.position))
		}
		seen[item.position] = struct{}{}
	}

	s.lineItems = slices.SortedFunc(slices.Values(items), func(a, b LineItem) int {
		return a.position - b.position
	})
	return nil
}

func (s *Shipment) setFingerprintStatus(status FingerprintStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == FingerprintComplete && s.fingerprintID == nil {
		return errs.NewValueIsInvalidErrorWithCause("fingerprint status",
			errors.New("complete requires a fingerprint id"))
	}
	s.fingerprintStatus = status
	return nil
}

func (s *Shipment) validateSessionLink() error {
	if (s.sessionID == nil) != (s.sessionSpot == 0) {
		return errs.NewValueIsInvalidErrorWithCause("session spot",
			errors.New("session id and spot must be set together"))
	}
	if s.sessionSpot < 0 {
		return errs.NewValueIsInvalidErrorWithCause("session spot", fmt.Errorf("%d is negative", s.sessionSpot))
	}
	return nil
}
