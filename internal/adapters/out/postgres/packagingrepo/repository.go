package packagingrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPackagingRepository implements ports.PackagingRepository using GORM.
type GormPackagingRepository struct {
	db *gorm.DB
}

func NewGormPackagingRepository(db *gorm.DB) *GormPackagingRepository {
	return &GormPackagingRepository{db: db}
}

var _ ports.PackagingRepository = (*GormPackagingRepository)(nil)

func (r *GormPackagingRepository) AddPackagingType(ctx context.Context, aggregate *packaging.PackagingType) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto := packagingTypeFromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormPackagingRepository) GetPackagingType(ctx context.Context, id kernel.UUID) (*packaging.PackagingType, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PackagingTypeDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("packagingType", id.String())
		}
		return nil, err
	}
	return packagingTypeToDomain(dto)
}

func (r *GormPackagingRepository) AddStation(ctx context.Context, aggregate *packaging.Station) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto := stationFromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormPackagingRepository) GetStation(ctx context.Context, id kernel.UUID) (*packaging.Station, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("station", id.String())
		}
		return nil, err
	}
	return stationToDomain(dto)
}

func (r *GormPackagingRepository) GetActiveStations(ctx context.Context) ([]*packaging.Station, error) {
	var dtos []StationDTO
	if err := r.db.WithContext(ctx).Where("active").Order("name, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	stations := make([]*packaging.Station, 0, len(dtos))
	for _, dto := range dtos {
		s, err := stationToDomain(dto)
		if err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}
	return stations, nil
}
