// Package packagingrepo persists packaging types and the station registry.
package packagingrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PackagingTypeDTO struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name        string              `gorm:"type:varchar(255);not null"`
	StationType string              `gorm:"type:varchar(32);not null"`
	LengthIn    decimal.NullDecimal `gorm:"column:length_in;type:numeric(8,2)"`
	WidthIn     decimal.NullDecimal `gorm:"column:width_in;type:numeric(8,2)"`
	HeightIn    decimal.NullDecimal `gorm:"column:height_in;type:numeric(8,2)"`
}

func (PackagingTypeDTO) TableName() string {
	return "packaging_types"
}

// StationDTO stores a NULL max_orders for stations that use the default session size.
type StationDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	StationType string    `gorm:"type:varchar(32);not null"`
	Active      bool      `gorm:"not null"`
	MaxOrders   *int      `gorm:"type:int"`
}

func (StationDTO) TableName() string {
	return "stations"
}

func packagingTypeFromDomain(pt *packaging.PackagingType) PackagingTypeDTO {
	dto := PackagingTypeDTO{
		ID:          pt.ID().Bytes(),
		Name:        pt.Name(),
		StationType: pt.StationType().String(),
	}
	if d := pt.Dimensions(); d != nil {
		dto.LengthIn = decimal.NewNullDecimal(d.Length())
		dto.WidthIn = decimal.NewNullDecimal(d.Width())
		dto.HeightIn = decimal.NewNullDecimal(d.Height())
	}
	return dto
}

func packagingTypeToDomain(dto PackagingTypeDTO) (*packaging.PackagingType, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var dimensions *kernel.Dimensions
	if dto.LengthIn.Valid && dto.WidthIn.Valid && dto.HeightIn.Valid {
		d, err := kernel.NewDimensions(dto.LengthIn.Decimal, dto.WidthIn.Decimal, dto.HeightIn.Decimal)
		if err != nil {
			return nil, err
		}
		dimensions = &d
	}

	return packaging.NewPackagingType(id, dto.Name, packaging.StationType(dto.StationType), dimensions)
}

func stationFromDomain(s *packaging.Station) StationDTO {
	dto := StationDTO{
		ID:          s.ID().Bytes(),
		Name:        s.Name(),
		StationType: s.StationType().String(),
		Active:      s.IsActive(),
	}
	if s.MaxOrders() > 0 {
		maxOrders := s.MaxOrders()
		dto.MaxOrders = &maxOrders
	}
	return dto
}

func stationToDomain(dto StationDTO) (*packaging.Station, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	maxOrders := 0
	if dto.MaxOrders != nil {
		maxOrders = *dto.MaxOrders
	}
	return packaging.NewStation(id, dto.Name, packaging.StationType(dto.StationType), dto.Active, maxOrders)
}
