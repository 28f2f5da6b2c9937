package sessionrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/session"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSessionRepository implements ports.SessionRepository using GORM.
type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

var _ ports.SessionRepository = (*GormSessionRepository)(nil)

// NextSequenceNumber uses a database sequence, so concurrent builds never share a number.
func (r *GormSessionRepository) NextSequenceNumber(ctx context.Context) (int64, error) {
	var next int64
	if err := r.db.WithContext(ctx).Raw("SELECT nextval('fulfillment_session_seq')").Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

func (r *GormSessionRepository) Add(ctx context.Context, aggregate *session.FulfillmentSession) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormSessionRepository) Update(ctx context.Context, aggregate *session.FulfillmentSession) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&dto).
		Select("*").
		Omit("ID", "SequenceNumber", "CreatedAt").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormSessionRepository) Get(ctx context.Context, id kernel.UUID) (*session.FulfillmentSession, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SessionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("session", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// Delete removes the session row. Member shipments lose their link through
// the foreign key; callers reset their lifecycle beforehand.
func (r *GormSessionRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&SessionDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("session", id.String())
	}
	return nil
}
