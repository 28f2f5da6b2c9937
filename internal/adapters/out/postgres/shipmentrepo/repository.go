package shipmentrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// editable matches shipments whose items and packaging may still change.
const editable = "shipments.fulfillment_session_id IS NULL AND shipments.tracking_number = '' " +
	"AND NOT shipments.cancelled AND shipments.carrier_status IN ('', 'label_created')"

// GormShipmentRepository implements ports.ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{
		db:      db,
		tracker: tracker,
	}
}

var _ ports.ShipmentRepository = (*GormShipmentRepository)(nil)

// Add saves a new shipment together with its line items and QC items.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every shipment column while the stored session link still
// matches the aggregate's. Line items are immutable and never rewritten; QC
// items are replaced only when the aggregate changed them.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	return r.update(ctx, aggregate, aggregate.SessionID())
}

func (r *GormShipmentRepository) ReleaseFromSession(ctx context.Context, aggregate *shipment.Shipment, sessionID kernel.UUID) error {
	if aggregate.SessionID() != nil {
		return errs.NewValueIsInvalidErrorWithCause("shipment", errors.New("still linked to a session"))
	}
	return r.update(ctx, aggregate, &sessionID)
}

// update writes aggregate only if the stored fulfillment_session_id equals
// storedSession. A link committed by a concurrent session build therefore
// makes a pre-session write fail instead of unlinking the shipment.
func (r *GormShipmentRepository) update(ctx context.Context, aggregate *shipment.Shipment, storedSession *kernel.UUID) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	query := db.Model(&dto)
	if storedSession == nil {
		query = query.Where("fulfillment_session_id IS NULL")
	} else {
		query = query.Where("fulfillment_session_id = ?", storedSession.Bytes())
	}

	result := query.
		Select("*").
		Omit("ID", "CreatedAt", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, aggregate.ID())
	}

	if aggregate.QcItemsChanged() {
		if err := db.Where("shipment_id = ?", dto.ID).Delete(&QcItemDTO{}).Error; err != nil {
			return err
		}
		if len(dto.QcItems) > 0 {
			if err := db.Create(&dto.QcItems).Error; err != nil {
				return err
			}
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormShipmentRepository) missOrConflict(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ShipmentDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return shipment.ErrSessionLinkChanged
}

func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	if err := r.preload(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormShipmentRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*shipment.Shipment, error) {
	var dto ShipmentDTO
	if err := r.preload(ctx).First(&dto, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderNumber", orderNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormShipmentRepository) GetEditableByFingerprint(ctx context.Context, fingerprintID kernel.UUID) ([]*shipment.Shipment, error) {
	var dtos []ShipmentDTO
	if err := r.preload(ctx).
		Where("fingerprint_id = ?", fingerprintID.Bytes()).
		Where(editable).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormShipmentRepository) GetBySession(ctx context.Context, sessionID kernel.UUID) ([]*shipment.Shipment, error) {
	var dtos []ShipmentDTO
	if err := r.preload(ctx).
		Where("fulfillment_session_id = ?", sessionID.Bytes()).
		Order("session_spot").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormShipmentRepository) GetSessionCandidates(
	ctx context.Context,
	filter ports.SessionCandidateFilter,
) ([]services.SessionCandidate, error) {
	type row struct {
		ID                uuid.UUID
		OrderNumber       string
		AssignedStationID uuid.UUID
		CreatedAt         time.Time
	}

	query := r.db.WithContext(ctx).
		Table("shipments").
		Select("shipments.id, shipments.order_number, shipments.assigned_station_id, shipments.created_at").
		Where("shipments.lifecycle_phase = ?", string(lifecycle.PhaseReadyToSession)).
		Where("shipments.fulfillment_session_id IS NULL AND shipments.assigned_station_id IS NOT NULL")
	if filter.StationType != nil {
		query = query.
			Joins("JOIN stations ON stations.id = shipments.assigned_station_id").
			Where("stations.station_type = ?", filter.StationType.String())
	}
	if len(filter.OrderNumbers) > 0 {
		query = query.Where("shipments.order_number IN ?", filter.OrderNumbers)
	}

	var rows []row
	if err := query.Order("shipments.created_at, shipments.order_number").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]services.SessionCandidate, 0, len(rows))
	for _, rw := range rows {
		id, err := kernel.UUIDFromBytes(rw.ID[:])
		if err != nil {
			return nil, err
		}
		stationID, err := kernel.UUIDFromBytes(rw.AssignedStationID[:])
		if err != nil {
			return nil, err
		}
		out = append(out, services.SessionCandidate{
			ShipmentID:  id,
			OrderNumber: rw.OrderNumber,
			StationID:   stationID,
			CreatedAt:   rw.CreatedAt,
		})
	}
	return out, nil
}

func (r *GormShipmentRepository) FindEditableIDsBySKU(ctx context.Context, sku string) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("shipments").
		Where(editable).
		Where(`(EXISTS (SELECT 1 FROM line_items li WHERE li.shipment_id = shipments.id AND li.sku = ?)
			OR EXISTS (SELECT 1 FROM qc_items qi WHERE qi.shipment_id = shipments.id AND (qi.sku = ? OR qi.parent_sku = ?)))`,
			sku, sku, sku).
		Order("shipments.id").
		Pluck("shipments.id", &raw).Error
	if err != nil {
		return nil, err
	}
	return toIDs(raw)
}

func (r *GormShipmentRepository) FindIDsPendingFingerprint(ctx context.Context, after *kernel.UUID, limit int) ([]kernel.UUID, error) {
	query := r.db.WithContext(ctx).
		Table("shipments").
		Where("fingerprint_status <> ?", shipment.FingerprintComplete.String()).
		Where(editable)
	if after != nil {
		query = query.Where("shipments.id > ?", after.Bytes())
	}

	var raw []uuid.UUID
	if err := query.Order("shipments.id").Limit(limit).Pluck("shipments.id", &raw).Error; err != nil {
		return nil, err
	}
	return toIDs(raw)
}

func (r *GormShipmentRepository) GetPage(ctx context.Context, after *kernel.UUID, limit int) ([]*shipment.Shipment, error) {
	query := r.preload(ctx)
	if after != nil {
		query = query.Where("id > ?", after.Bytes())
	}

	var dtos []ShipmentDTO
	if err := query.Order("id").Limit(limit).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// LinkToSession is a conditional update: it succeeds only while the row is
// still unlinked and ready_to_session, so two concurrent builds cannot claim
// the same shipment.
func (r *GormShipmentRepository) LinkToSession(ctx context.Context, aggregate *shipment.Shipment) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}
	if aggregate.SessionID() == nil {
		return false, errs.NewValueIsRequiredError("session")
	}

	state := aggregate.Lifecycle()
	result := r.db.WithContext(ctx).
		Model(&ShipmentDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Where("fulfillment_session_id IS NULL AND lifecycle_phase = ?", string(lifecycle.PhaseReadyToSession)).
		Updates(map[string]any{
			"fulfillment_session_id": aggregate.SessionID().Bytes(),
			"session_spot":           aggregate.SessionSpot(),
			"session_status":         aggregate.Snapshot().SessionStatus,
			"lifecycle_phase":        string(state.Phase),
			"lifecycle_subphase":     state.Subphase,
			"updated_at":             time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return true, nil
}

func (r *GormShipmentRepository) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("QcItems", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func toDomainList(dtos []ShipmentDTO) ([]*shipment.Shipment, error) {
	out := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func toIDs(raw []uuid.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
