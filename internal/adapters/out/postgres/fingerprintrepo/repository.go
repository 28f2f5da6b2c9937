package fingerprintrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/fingerprint"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFingerprintRepository implements ports.FingerprintRepository using GORM.
type GormFingerprintRepository struct {
	db *gorm.DB
}

func NewGormFingerprintRepository(db *gorm.DB) *GormFingerprintRepository {
	return &GormFingerprintRepository{db: db}
}

var _ ports.FingerprintRepository = (*GormFingerprintRepository)(nil)

func (r *GormFingerprintRepository) Get(ctx context.Context, id kernel.UUID) (*fingerprint.Fingerprint, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto FingerprintDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("fingerprint", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormFingerprintRepository) GetByHash(ctx context.Context, hash string) (*fingerprint.Fingerprint, error) {
	var dto FingerprintDTO
	if err := r.db.WithContext(ctx).First(&dto, "hash = ?", hash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("fingerprintHash", hash)
		}
		return nil, err
	}
	return toDomain(dto)
}

// AddIfAbsent inserts with ON CONFLICT (hash) DO NOTHING and re-reads by hash,
// so the caller always gets the row that won.
func (r *GormFingerprintRepository) AddIfAbsent(ctx context.Context, aggregate *fingerprint.Fingerprint) (*fingerprint.Fingerprint, error) {
	if err := aggregate.Validate(); err != nil {
		return nil, err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return nil, err
	}

	if err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "hash"}}, DoNothing: true}).
		Create(&dto).Error; err != nil {
		return nil, err
	}

	return r.GetByHash(ctx, aggregate.Hash())
}

func (r *GormFingerprintRepository) GetModel(ctx context.Context, fingerprintID kernel.UUID) (*fingerprint.Model, error) {
	var dto ModelDTO
	if err := r.db.WithContext(ctx).First(&dto, "fingerprint_id = ?", fingerprintID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("fingerprintModel", fingerprintID.String())
		}
		return nil, err
	}
	return modelToDomain(dto)
}

// SaveModel upserts by fingerprint. Concurrent writers are last-write-wins;
// every write is kept in the audit table.
func (r *GormFingerprintRepository) SaveModel(ctx context.Context, model *fingerprint.Model) error {
	if err := model.Validate(); err != nil {
		return err
	}

	dto := modelFromDomain(model)
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"packaging_type_id", "confidence", "actor", "notes", "updated_at"}),
	}).Create(&dto).Error; err != nil {
		return err
	}

	audit := auditFromDomain(model)
	return db.Create(&audit).Error
}
