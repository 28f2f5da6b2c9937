// Package shipmentrepo maps shipment aggregates, their raw line items and
// their hydrated QC items onto the shipments, line_items and qc_items tables.
package shipmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type ShipmentDTO struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OrderNumber          string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	FingerprintID        *uuid.UUID     `gorm:"type:uuid"`
	FingerprintStatus    string         `gorm:"type:varchar(32);not null"`
	PackagingTypeID      *uuid.UUID     `gorm:"type:uuid"`
	AssignedStationID    *uuid.UUID     `gorm:"type:uuid"`
	LifecyclePhase       string         `gorm:"type:varchar(32);not null"`
	LifecycleSubphase    string         `gorm:"type:varchar(32);not null"`
	FulfillmentSessionID *uuid.UUID     `gorm:"type:uuid"`
	SessionSpot          *int           `gorm:"type:int"`
	SessionStatus        string         `gorm:"type:varchar(16);not null"`
	QcStatus             string         `gorm:"type:varchar(16);not null"`
	CarrierStatus        string         `gorm:"type:varchar(32);not null"`
	TrackingNumber       string         `gorm:"type:varchar(128);not null"`
	OnHold               bool           `gorm:"not null"`
	Cancelled            bool           `gorm:"not null"`
	Tags                 pq.StringArray `gorm:"type:text[];not null"`
	RequiredTags         pq.StringArray `gorm:"type:text[];not null"`
	CreatedAt            time.Time      `gorm:"not null"`
	UpdatedAt            time.Time      `gorm:"not null"`
	LineItems            []LineItemDTO  `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	QcItems              []QcItemDTO    `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

type LineItemDTO struct {
	ShipmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"primaryKey"`
	SKU        string    `gorm:"column:sku;type:varchar(128);not null"`
	Quantity   int       `gorm:"not null"`
}

func (LineItemDTO) TableName() string {
	return "line_items"
}

type QcItemDTO struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ShipmentID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position         int                 `gorm:"not null"`
	SKU              string              `gorm:"column:sku;type:varchar(128);not null"`
	QuantityExpected int                 `gorm:"not null"`
	WeightValue      decimal.NullDecimal `gorm:"type:numeric(12,4)"`
	WeightUnit       *string             `gorm:"type:varchar(8)"`
	Category         string              `gorm:"type:varchar(128);not null"`
	CollectionID     *uuid.UUID          `gorm:"type:uuid"`
	IsKitComponent   bool                `gorm:"not null"`
	ParentSKU        string              `gorm:"column:parent_sku;type:varchar(128);not null"`
}

func (QcItemDTO) TableName() string {
	return "qc_items"
}

func fromDomain(aggregate *shipment.Shipment) ShipmentDTO {
	snap := aggregate.Snapshot()
	id := snap.ID.Bytes()

	dto := ShipmentDTO{
		ID:                   id,
		OrderNumber:          snap.OrderNumber,
		FingerprintID:        optionalID(snap.FingerprintID),
		FingerprintStatus:    snap.FingerprintStatus.String(),
		PackagingTypeID:      optionalID(snap.PackagingTypeID),
		AssignedStationID:    optionalID(snap.AssignedStationID),
		LifecyclePhase:       string(snap.Lifecycle.Phase),
		LifecycleSubphase:    snap.Lifecycle.Subphase,
		FulfillmentSessionID: optionalID(snap.SessionID),
		SessionStatus:        snap.SessionStatus,
		QcStatus:             string(snap.QcStatus),
		CarrierStatus:        string(snap.CarrierStatus),
		TrackingNumber:       snap.TrackingNumber,
		OnHold:               snap.OnHold,
		Cancelled:            snap.Cancelled,
		Tags:                 pq.StringArray(nonNil(snap.Tags)),
		RequiredTags:         pq.StringArray(nonNil(snap.RequiredTags)),
		CreatedAt:            snap.CreatedAt,
		UpdatedAt:            time.Now().UTC(),
	}
	if snap.SessionID != nil {
		spot := snap.SessionSpot
		dto.SessionSpot = &spot
	}

	for _, li := range snap.LineItems {
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ShipmentID: id,
			Position:   li.Position(),
			SKU:        li.SKU(),
			Quantity:   li.Quantity(),
		})
	}
	dto.QcItems = qcItemsFromDomain(id, snap.QcItems)
	return dto
}

func qcItemsFromDomain(shipmentID uuid.UUID, items []shipment.QcItem) []QcItemDTO {
	out := make([]QcItemDTO, 0, len(items))
	for i, item := range items {
		dto := QcItemDTO{
			ID:               item.ID().Bytes(),
			ShipmentID:       shipmentID,
			Position:         i,
			SKU:              item.SKU(),
			QuantityExpected: item.Quantity(),
			Category:         item.Category(),
			CollectionID:     optionalID(item.CollectionID()),
			IsKitComponent:   item.IsKitComponent(),
			ParentSKU:        item.ParentSKU(),
		}
		if w := item.Weight(); w != nil {
			unit := string(w.Unit())
			dto.WeightValue = decimal.NewNullDecimal(w.Value())
			dto.WeightUnit = &unit
		}
		out = append(out, dto)
	}
	return out
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	lines := make([]shipment.LineItem, 0, len(dto.LineItems))
	for _, l := range dto.LineItems {
		li, err := shipment.NewLineItem(l.Position, l.SKU, l.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, li)
	}

	items := make([]shipment.QcItem, 0, len(dto.QcItems))
	for _, q := range dto.QcItems {
		item, err := qcItemToDomain(q)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	snap := shipment.Snapshot{
		ID:                id,
		OrderNumber:       dto.OrderNumber,
		LineItems:         lines,
		QcItems:           items,
		FingerprintID:     domainID(dto.FingerprintID),
		FingerprintStatus: shipment.FingerprintStatus(dto.FingerprintStatus),
		PackagingTypeID:   domainID(dto.PackagingTypeID),
		AssignedStationID: domainID(dto.AssignedStationID),
		Lifecycle: lifecycle.State{
			Phase:    lifecycle.Phase(dto.LifecyclePhase),
			Subphase: dto.LifecycleSubphase,
		},
		SessionID:      domainID(dto.FulfillmentSessionID),
		SessionStatus:  dto.SessionStatus,
		QcStatus:       lifecycle.QcStatus(dto.QcStatus),
		CarrierStatus:  lifecycle.CarrierStatus(dto.CarrierStatus),
		TrackingNumber: dto.TrackingNumber,
		OnHold:         dto.OnHold,
		Cancelled:      dto.Cancelled,
		Tags:           dto.Tags,
		RequiredTags:   dto.RequiredTags,
		CreatedAt:      dto.CreatedAt,
	}
	if dto.SessionSpot != nil {
		snap.SessionSpot = *dto.SessionSpot
	}

	return shipment.RestoreShipment(snap)
}

func qcItemToDomain(dto QcItemDTO) (shipment.QcItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return shipment.QcItem{}, err
	}

	spec := shipment.QcItemSpec{
		SKU:            dto.SKU,
		Quantity:       dto.QuantityExpected,
		Category:       dto.Category,
		CollectionID:   domainID(dto.CollectionID),
		IsKitComponent: dto.IsKitComponent,
		ParentSKU:      dto.ParentSKU,
	}
	if dto.WeightValue.Valid && dto.WeightUnit != nil {
		unit, err := kernel.ParseWeightUnit(*dto.WeightUnit)
		if err != nil {
			return shipment.QcItem{}, err
		}
		w, err := kernel.NewWeight(dto.WeightValue.Decimal, unit)
		if err != nil {
			return shipment.QcItem{}, err
		}
		spec.Weight = &w
	}

	return shipment.RestoreQcItem(id, spec)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainID(raw *uuid.UUID) *kernel.UUID {
	if raw == nil {
		return nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil
	}
	return &id
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
