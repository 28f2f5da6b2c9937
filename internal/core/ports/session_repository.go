package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/session"
)

// SessionRepository stores fulfillment sessions.
type SessionRepository interface {
	// NextSequenceNumber draws from the session sequence. Numbers drawn by a
	// rolled back transaction are not reused.
	NextSequenceNumber(ctx context.Context) (int64, error)

	Add(ctx context.Context, aggregate *session.FulfillmentSession) error
	Update(ctx context.Context, aggregate *session.FulfillmentSession) error
	Get(ctx context.Context, id kernel.UUID) (*session.FulfillmentSession, error)
	Delete(ctx context.Context, id kernel.UUID) error
}
