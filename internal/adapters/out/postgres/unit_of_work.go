// Package postgres provides the GORM-based unit of work shared by every
// command handler.
//
// A unit of work wraps one database transaction. Repositories obtained from it
// after Begin run inside that transaction. Shipments written through the
// shipment repository are tracked, and their lifecycle events are published
// once Commit succeeds:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.ShipmentRepository().Update(ctx, s); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each goroutine must use its own unit of work.
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/fingerprintrepo"
	"fulfillment/internal/adapters/out/postgres/packagingrepo"
	"fulfillment/internal/adapters/out/postgres/sessionrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates unit of work instances over one connection pool.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewGormUnitOfWorkFactory returns a factory. publisher may be nil, in which
// case tracked events are dropped after commit.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *zap.Logger) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With(zap.String("component", "unit_of_work")),
	}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one transaction and the aggregates it touched.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	logger            *zap.Logger
	trackedAggregates []trackedAggregate
}

var _ ports.UnitOfWork = (*GormUnitOfWork)(nil)

// Begin starts the transaction. Calling it twice keeps the first transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit commits the transaction and then publishes the lifecycle events of
// every tracked shipment. Publishing failures are logged and do not undo the
// commit.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.discard()
		return err
	}

	uow.publish(ctx)
	return nil
}

// Rollback rolls back the transaction and discards tracked events.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.discard()
	return err
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) FingerprintRepository() ports.FingerprintRepository {
	return fingerprintrepo.NewGormFingerprintRepository(uow.conn())
}

func (uow *GormUnitOfWork) PackagingRepository() ports.PackagingRepository {
	return packagingrepo.NewGormPackagingRepository(uow.conn())
}

func (uow *GormUnitOfWork) SessionRepository() ports.SessionRepository {
	return sessionrepo.NewGormSessionRepository(uow.conn())
}

// TrackAggregate is called by repositories after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// pendingEvents drains the events of tracked shipments. A shipment tracked
// more than once contributes its events once.
func (uow *GormUnitOfWork) pendingEvents() []shipment.PhaseChanged {
	seen := make(map[*shipment.Shipment]struct{}, len(uow.trackedAggregates))
	var events []shipment.PhaseChanged
	for _, tracked := range uow.trackedAggregates {
		s, ok := tracked.Aggregate.(*shipment.Shipment)
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		events = append(events, s.DomainEvents()...)
		s.ClearDomainEvents()
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return events
}

func (uow *GormUnitOfWork) publish(ctx context.Context) {
	events := uow.pendingEvents()
	if len(events) == 0 || uow.publisher == nil {
		return
	}

	if err := uow.publisher.PublishPhaseChanged(ctx, events); err != nil {
		uow.logger.Error("failed to publish lifecycle events",
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
}

func (uow *GormUnitOfWork) discard() {
	uow.pendingEvents()
}
