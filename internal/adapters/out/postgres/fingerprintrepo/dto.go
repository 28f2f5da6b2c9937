// Package fingerprintrepo persists fingerprints, their packaging models and
// the model audit trail.
package fingerprintrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/fingerprint"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type FingerprintDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Hash          string          `gorm:"type:char(64);not null;uniqueIndex"`
	Signature     datatypes.JSON  `gorm:"type:jsonb;not null"`
	TotalItems    int             `gorm:"not null"`
	TotalWeightOz decimal.Decimal `gorm:"column:total_weight_oz;type:numeric(14,4);not null"`
	DisplayName   string          `gorm:"type:varchar(255);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

func (FingerprintDTO) TableName() string {
	return "fingerprints"
}

type ModelDTO struct {
	FingerprintID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	PackagingTypeID uuid.UUID `gorm:"type:uuid;not null"`
	Confidence      string    `gorm:"type:varchar(16);not null"`
	Actor           string    `gorm:"type:varchar(255);not null"`
	Notes           string    `gorm:"type:text;not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (ModelDTO) TableName() string {
	return "fingerprint_models"
}

type ModelAuditDTO struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	FingerprintID   uuid.UUID `gorm:"type:uuid;not null"`
	PackagingTypeID uuid.UUID `gorm:"type:uuid;not null"`
	Confidence      string    `gorm:"type:varchar(16);not null"`
	Actor           string    `gorm:"type:varchar(255);not null"`
	Notes           string    `gorm:"type:text;not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (ModelAuditDTO) TableName() string {
	return "fingerprint_model_audits"
}

func fromDomain(fp *fingerprint.Fingerprint) (FingerprintDTO, error) {
	signature, err := json.Marshal(fp.Signature().Map())
	if err != nil {
		return FingerprintDTO{}, err
	}

	return FingerprintDTO{
		ID:            fp.ID().Bytes(),
		Hash:          fp.Hash(),
		Signature:     datatypes.JSON(signature),
		TotalItems:    fp.TotalItems(),
		TotalWeightOz: fp.TotalWeightOz(),
		DisplayName:   fp.DisplayName(),
		CreatedAt:     fp.CreatedAt(),
	}, nil
}

func toDomain(dto FingerprintDTO) (*fingerprint.Fingerprint, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var quantities map[string]int
	if err = json.Unmarshal(dto.Signature, &quantities); err != nil {
		return nil, err
	}
	signature, err := fingerprint.SignatureFromMap(quantities)
	if err != nil {
		return nil, err
	}

	return fingerprint.RestoreFingerprint(id, dto.Hash, signature, dto.TotalItems, dto.TotalWeightOz, dto.DisplayName, dto.CreatedAt)
}

func modelFromDomain(m *fingerprint.Model) ModelDTO {
	return ModelDTO{
		FingerprintID:   m.FingerprintID().Bytes(),
		PackagingTypeID: m.PackagingTypeID().Bytes(),
		Confidence:      string(m.Confidence()),
		Actor:           m.Actor(),
		Notes:           m.Notes(),
		UpdatedAt:       m.UpdatedAt(),
	}
}

func auditFromDomain(m *fingerprint.Model) ModelAuditDTO {
	return ModelAuditDTO{
		FingerprintID:   m.FingerprintID().Bytes(),
		PackagingTypeID: m.PackagingTypeID().Bytes(),
		Confidence:      string(m.Confidence()),
		Actor:           m.Actor(),
		Notes:           m.Notes(),
		CreatedAt:       m.UpdatedAt(),
	}
}

func modelToDomain(dto ModelDTO) (*fingerprint.Model, error) {
	fpID, err := kernel.UUIDFromBytes(dto.FingerprintID[:])
	if err != nil {
		return nil, err
	}
	ptID, err := kernel.UUIDFromBytes(dto.PackagingTypeID[:])
	if err != nil {
		return nil, err
	}
	return fingerprint.RestoreModel(fpID, ptID, fingerprint.Confidence(dto.Confidence), dto.Actor, dto.Notes, dto.UpdatedAt)
}
