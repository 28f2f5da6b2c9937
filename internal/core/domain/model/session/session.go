package session

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrSessionIsNotConstructed = errors.New("FulfillmentSession must be created via NewFulfillmentSession or RestoreFulfillmentSession")
	ErrCompletedSessionDelete  = errors.New("completed sessions cannot be deleted")
)

// FulfillmentSession is a capacity-bounded batch of shipments worked together
// at one station.
type FulfillmentSession struct {
	id               kernel.UUID
	sequenceNumber   int64
	stationType      packaging.StationType
	stationID        kernel.UUID
	maxOrders        int
	orderCount       int
	status           Status
	createdAt        time.Time
	releasedAt       *time.Time
	pickingStartedAt *time.Time
	packingStartedAt *time.Time
	completedAt      *time.Time
	cancelledAt      *time.Time
	isConstructed    bool
}

// NewFulfillmentSession creates an empty draft session. The sequence number
// comes from the database sequence.
func NewFulfillmentSession(
	id kernel.UUID,
	sequenceNumber int64,
	stationType packaging.StationType,
	stationID kernel.UUID,
	maxOrders int,
	now time.Time,
) (*FulfillmentSession, error) {
	return RestoreFulfillmentSession(Snapshot{
		ID:             id,
		SequenceNumber: sequenceNumber,
		StationType:    stationType,
		StationID:      stationID,
		MaxOrders:      maxOrders,
		Status:         Draft,
		CreatedAt:      now,
	})
}

// Snapshot is the persisted state of a session.
type Snapshot struct {
	ID               kernel.UUID
	SequenceNumber   int64
	StationType      packaging.StationType
	StationID        kernel.UUID
	MaxOrders        int
	OrderCount       int
	Status           Status
	CreatedAt        time.Time
	ReleasedAt       *time.Time
	PickingStartedAt *time.Time
	PackingStartedAt *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

func RestoreFulfillmentSession(snap Snapshot) (*FulfillmentSession, error) {
	var errList []error
	if snap.SequenceNumber <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("sequence number",
			fmt.Errorf("%d is not greater than 0", snap.SequenceNumber)))
	}
	if snap.MaxOrders <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("max orders",
			fmt.Errorf("%d is not greater than 0", snap.MaxOrders)))
	}
	errList = append(errList,
		snap.ID.Validate(),
		snap.StationID.Validate(),
		snap.StationType.Validate(),
		snap.Status.Validate(),
	)
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	s := &FulfillmentSession{
		id:               snap.ID,
		sequenceNumber:   snap.SequenceNumber,
		stationType:      snap.StationType,
		stationID:        snap.StationID,
		maxOrders:        snap.MaxOrders,
		status:           snap.Status,
		createdAt:        snap.CreatedAt,
		releasedAt:       snap.ReleasedAt,
		pickingStartedAt: snap.PickingStartedAt,
		packingStartedAt: snap.PackingStartedAt,
		completedAt:      snap.CompletedAt,
		cancelledAt:      snap.CancelledAt,
		isConstructed:    true,
	}
	if err := s.SetOrderCount(snap.OrderCount); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FulfillmentSession) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrSessionIsNotConstructed
	}
	return nil
}

func (s *FulfillmentSession) ID() kernel.UUID                    { return s.id }
func (s *FulfillmentSession) SequenceNumber() int64              { return s.sequenceNumber }
func (s *FulfillmentSession) StationType() packaging.StationType { return s.stationType }
func (s *FulfillmentSession) StationID() kernel.UUID             { return s.stationID }
func (s *FulfillmentSession) MaxOrders() int                     { return s.maxOrders }
func (s *FulfillmentSession) OrderCount() int                    { return s.orderCount }
func (s *FulfillmentSession) Status() Status                     { return s.status }
func (s *FulfillmentSession) CreatedAt() time.Time               { return s.createdAt }

func (s *FulfillmentSession) Snapshot() Snapshot {
	return Snapshot{
		ID:               s.id,
		SequenceNumber:   s.sequenceNumber,
		StationType:      s.stationType,
		StationID:        s.stationID,
		MaxOrders:        s.maxOrders,
		OrderCount:       s.orderCount,
		Status:           s.status,
		CreatedAt:        s.createdAt,
		ReleasedAt:       s.releasedAt,
		PickingStartedAt: s.pickingStartedAt,
		PackingStartedAt: s.packingStartedAt,
		CompletedAt:      s.completedAt,
		CancelledAt:      s.cancelledAt,
	}
}

// SetOrderCount stores the number of linked shipments.
func (s *FulfillmentSession) SetOrderCount(n int) error {
	if n < 0 || n > s.maxOrders {
		return errs.NewValueIsOutOfRangeError("order count", n, 0, s.maxOrders)
	}
	s.orderCount = n
	return nil
}

// TransitionTo moves the session to target and stamps the matching timestamp.
func (s *FulfillmentSession) TransitionTo(target Status, now time.Time) error {
	next, err := s.status.TransitionTo(target)
	if err != nil {
		return err
	}

	switch next {
	case Ready:
		s.releasedAt = &now
	case Draft:
		s.releasedAt = nil
	case Picking:
		s.pickingStartedAt = &now
	case Packing:
		s.packingStartedAt = &now
	case Completed:
		s.completedAt = &now
	case Cancelled:
		s.cancelledAt = &now
	}
	s.status = next
	return nil
}

// CanDelete reports whether the session may be removed. Completed sessions
// are the packing record of their shipments and stay.
func (s *FulfillmentSession) CanDelete() error {
	if s.status == Completed {
		return ErrCompletedSessionDelete
	}
	return nil
}

// PickLabel is printed on packing slips: "<sequence>  #<spot>".
func PickLabel(sequenceNumber int64, spot int) string {
	return fmt.Sprintf("%d  #%d", sequenceNumber, spot)
}
