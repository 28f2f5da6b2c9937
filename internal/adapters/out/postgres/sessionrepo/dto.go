// Package sessionrepo persists fulfillment sessions and draws their sequence numbers.
package sessionrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/domain/model/session"

	"github.com/google/uuid"
)

type SessionDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	SequenceNumber   int64     `gorm:"not null;uniqueIndex:fulfillment_sessions_sequence_key"`
	StationType      string    `gorm:"type:varchar(32);not null"`
	StationID        uuid.UUID `gorm:"type:uuid;not null"`
	MaxOrders        int       `gorm:"not null"`
	OrderCount       int       `gorm:"not null"`
	Status           string    `gorm:"type:varchar(16);not null"`
	CreatedAt        time.Time `gorm:"not null"`
	ReleasedAt       *time.Time
	PickingStartedAt *time.Time
	PackingStartedAt *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

func (SessionDTO) TableName() string {
	return "fulfillment_sessions"
}

func fromDomain(s *session.FulfillmentSession) SessionDTO {
	snap := s.Snapshot()
	return SessionDTO{
		ID:               snap.ID.Bytes(),
		SequenceNumber:   snap.SequenceNumber,
		StationType:      snap.StationType.String(),
		StationID:        snap.StationID.Bytes(),
		MaxOrders:        snap.MaxOrders,
		OrderCount:       snap.OrderCount,
		Status:           snap.Status.String(),
		CreatedAt:        snap.CreatedAt,
		ReleasedAt:       snap.ReleasedAt,
		PickingStartedAt: snap.PickingStartedAt,
		PackingStartedAt: snap.PackingStartedAt,
		CompletedAt:      snap.CompletedAt,
		CancelledAt:      snap.CancelledAt,
	}
}

func toDomain(dto SessionDTO) (*session.FulfillmentSession, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	stationID, err := kernel.UUIDFromBytes(dto.StationID[:])
	if err != nil {
		return nil, err
	}
	status, err := session.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return session.RestoreFulfillmentSession(session.Snapshot{
		ID:               id,
		SequenceNumber:   dto.SequenceNumber,
		StationType:      packaging.StationType(dto.StationType),
		StationID:        stationID,
		MaxOrders:        dto.MaxOrders,
		OrderCount:       dto.OrderCount,
		Status:           status,
		CreatedAt:        dto.CreatedAt,
		ReleasedAt:       dto.ReleasedAt,
		PickingStartedAt: dto.PickingStartedAt,
		PackingStartedAt: dto.PackingStartedAt,
		CompletedAt:      dto.CompletedAt,
		CancelledAt:      dto.CancelledAt,
	})
}
