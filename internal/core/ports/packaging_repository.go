package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
)

// PackagingRepository reads packaging types and the station registry.
type PackagingRepository interface {
	AddPackagingType(ctx context.Context, aggregate *packaging.PackagingType) error
	GetPackagingType(ctx context.Context, id kernel.UUID) (*packaging.PackagingType, error)

	AddStation(ctx context.Context, aggregate *packaging.Station) error
	GetStation(ctx context.Context, id kernel.UUID) (*packaging.Station, error)

	// GetActiveStations returns every active station ordered by name.
	GetActiveStations(ctx context.Context) ([]*packaging.Station, error)
}
