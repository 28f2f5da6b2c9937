package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/fingerprint"
	"fulfillment/internal/core/domain/model/kernel"
)

// FingerprintRepository stores fingerprints and their packaging models.
type FingerprintRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*fingerprint.Fingerprint, error)

	GetByHash(ctx context.Context, hash string) (*fingerprint.Fingerprint, error)

	// AddIfAbsent inserts the fingerprint unless one with the same hash exists,
	// then returns the stored row. Concurrent callers with the same hash all
	// receive the same fingerprint.
	AddIfAbsent(ctx context.Context, aggregate *fingerprint.Fingerprint) (*fingerprint.Fingerprint, error)

	// GetModel returns errs.ErrObjectNotFound when the fingerprint has no model.
	GetModel(ctx context.Context, fingerprintID kernel.UUID) (*fingerprint.Model, error)

	// SaveModel upserts the model and appends an audit row.
	SaveModel(ctx context.Context, model *fingerprint.Model) error
}
