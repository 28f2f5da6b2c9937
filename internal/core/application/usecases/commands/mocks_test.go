package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/fingerprint"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/domain/model/session"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) ReleaseFromSession(ctx context.Context, s *shipment.Shipment, sessionID kernel.UUID) error {
	args := m.Called(ctx, s, sessionID)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*shipment.Shipment, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetEditableByFingerprint(ctx context.Context, id kernel.UUID) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetBySession(ctx context.Context, id kernel.UUID) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetSessionCandidates(
	ctx context.Context,
	filter ports.SessionCandidateFilter,
) ([]services.SessionCandidate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.SessionCandidate), args.Error(1)
}

func (m *MockShipmentRepository) FindEditableIDsBySKU(ctx context.Context, sku string) ([]kernel.UUID, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockShipmentRepository) FindIDsPendingFingerprint(ctx context.Context, after *kernel.UUID, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockShipmentRepository) GetPage(ctx context.Context, after *kernel.UUID, limit int) ([]*shipment.Shipment, error) {
	args := m.Called(ctx, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) LinkToSession(ctx context.Context, s *shipment.Shipment) (bool, error) {
	args := m.Called(ctx, s)
	return args.Bool(0), args.Error(1)
}

type MockFingerprintRepository struct{ mock.Mock }

func (m *MockFingerprintRepository) Get(ctx context.Context, id kernel.UUID) (*fingerprint.Fingerprint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fingerprint.Fingerprint), args.Error(1)
}

func (m *MockFingerprintRepository) GetByHash(ctx context.Context, hash string) (*fingerprint.Fingerprint, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fingerprint.Fingerprint), args.Error(1)
}

func (m *MockFingerprintRepository) AddIfAbsent(ctx context.Context, fp *fingerprint.Fingerprint) (*fingerprint.Fingerprint, error) {
	args := m.Called(ctx, fp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fingerprint.Fingerprint), args.Error(1)
}

func (m *MockFingerprintRepository) GetModel(ctx context.Context, id kernel.UUID) (*fingerprint.Model, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fingerprint.Model), args.Error(1)
}

func (m *MockFingerprintRepository) SaveModel(ctx context.Context, model *fingerprint.Model) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

type MockPackagingRepository struct{ mock.Mock }

func (m *MockPackagingRepository) AddPackagingType(ctx context.Context, pt *packaging.PackagingType) error {
	args := m.Called(ctx, pt)
	return args.Error(0)
}

func (m *MockPackagingRepository) GetPackagingType(ctx context.Context, id kernel.UUID) (*packaging.PackagingType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*packaging.PackagingType), args.Error(1)
}

func (m *MockPackagingRepository) AddStation(ctx context.Context, s *packaging.Station) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockPackagingRepository) GetStation(ctx context.Context, id kernel.UUID) (*packaging.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*packaging.Station), args.Error(1)
}

func (m *MockPackagingRepository) GetActiveStations(ctx context.Context) ([]*packaging.Station, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*packaging.Station), args.Error(1)
}

type MockSessionRepository struct{ mock.Mock }

func (m *MockSessionRepository) NextSequenceNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) Add(ctx context.Context, s *session.FulfillmentSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Update(ctx context.Context, s *session.FulfillmentSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id kernel.UUID) (*session.FulfillmentSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.FulfillmentSession), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

func (m *MockUoW) FingerprintRepository() ports.FingerprintRepository {
	args := m.Called()
	return args.Get(0).(ports.FingerprintRepository)
}

func (m *MockUoW) PackagingRepository() ports.PackagingRepository {
	args := m.Called()
	return args.Get(0).(ports.PackagingRepository)
}

func (m *MockUoW) SessionRepository() ports.SessionRepository {
	args := m.Called()
	return args.Get(0).(ports.SessionRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockShipmentUoWFactory struct{ mock.Mock }

func (m *MockShipmentUoWFactory) Create() commands.ShipmentUoW {
	args := m.Called()
	return args.Get(0).(commands.ShipmentUoW)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) Lookup(ctx context.Context, sku string) (catalog.Product, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(catalog.Product), args.Error(1)
}

func (m *MockCatalog) ParentSKU(ctx context.Context, sku string) (string, bool, error) {
	args := m.Called(ctx, sku)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCatalog) Explode(ctx context.Context, orderNumber, sku string) ([]catalog.KitComponent, error) {
	args := m.Called(ctx, orderNumber, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.KitComponent), args.Error(1)
}

type MockCatalogWriter struct{ mock.Mock }

func (m *MockCatalogWriter) AssignCollection(ctx context.Context, sku string, collectionID *kernel.UUID) error {
	args := m.Called(ctx, sku, collectionID)
	return args.Error(0)
}

type MockCatalogInvalidator struct{ mock.Mock }

func (m *MockCatalogInvalidator) Invalidate(ctx context.Context, skus ...string) error {
	args := m.Called(ctx, skus)
	return args.Error(0)
}

// repoSet bundles the repositories a loosely scripted unit of work hands out.
type repoSet struct {
	shipments    *MockShipmentRepository
	fingerprints *MockFingerprintRepository
	packaging    *MockPackagingRepository
	sessions     *MockSessionRepository
	uow          *MockUoW
	factory      *MockUoWFactory
}

// newRepoSet wires a unit of work whose transaction calls and repository
// getters may be called any number of times. Tests assert on repository calls.
func newRepoSet() repoSet {
	rs := repoSet{
		shipments:    new(MockShipmentRepository),
		fingerprints: new(MockFingerprintRepository),
		packaging:    new(MockPackagingRepository),
		sessions:     new(MockSessionRepository),
		uow:          new(MockUoW),
		factory:      new(MockUoWFactory),
	}
	rs.uow.On("Begin", mock.Anything).Return(nil).Maybe()
	rs.uow.On("Commit", mock.Anything).Return(nil).Maybe()
	rs.uow.On("Rollback", mock.Anything).Return(nil).Maybe()
	rs.uow.On("ShipmentRepository").Return(rs.shipments).Maybe()
	rs.uow.On("FingerprintRepository").Return(rs.fingerprints).Maybe()
	rs.uow.On("PackagingRepository").Return(rs.packaging).Maybe()
	rs.uow.On("SessionRepository").Return(rs.sessions).Maybe()
	rs.factory.On("Create").Return(rs.uow).Maybe()
	return rs
}

func (rs repoSet) assertExpectations(t *testing.T) {
	t.Helper()
	rs.shipments.AssertExpectations(t)
	rs.fingerprints.AssertExpectations(t)
	rs.packaging.AssertExpectations(t)
	rs.sessions.AssertExpectations(t)
}

func ounces(t *testing.T, v int64) *kernel.Weight {
	t.Helper()
	w, err := kernel.NewWeight(decimal.NewFromInt(v), kernel.Ounce)
	require.NoError(t, err)
	return &w
}

func rawShipment(t *testing.T, orderNumber string, lines ...shipment.LineItem) *shipment.Shipment {
	t.Helper()
	s, err := shipment.NewShipment(kernel.NewUUID(), orderNumber, lines, time.Now())
	require.NoError(t, err)
	return s
}

func lineItem(t *testing.T, pos int, sku string, qty int) shipment.LineItem {
	t.Helper()
	li, err := shipment.NewLineItem(pos, sku, qty)
	require.NoError(t, err)
	return li
}

// readyShipment restores a shipment that is complete, packaged and routed.
func readyShipment(t *testing.T, orderNumber string, fingerprintID kernel.UUID) *shipment.Shipment {
	t.Helper()
	pt := kernel.NewUUID()
	st := kernel.NewUUID()
	s, err := shipment.RestoreShipment(shipment.Snapshot{
		ID:                kernel.NewUUID(),
		OrderNumber:       orderNumber,
		FingerprintID:     &fingerprintID,
		FingerprintStatus: shipment.FingerprintComplete,
		PackagingTypeID:   &pt,
		AssignedStationID: &st,
		Lifecycle:         lifecycle.State{Phase: lifecycle.PhaseReadyToSession},
		CreatedAt:         time.Now(),
	})
	require.NoError(t, err)
	return s
}

// completeShipment restores a fingerprinted shipment without packaging.
func completeShipment(t *testing.T, orderNumber string, fingerprintID kernel.UUID) *shipment.Shipment {
	t.Helper()
	s, err := shipment.RestoreShipment(shipment.Snapshot{
		ID:                kernel.NewUUID(),
		OrderNumber:       orderNumber,
		FingerprintID:     &fingerprintID,
		FingerprintStatus: shipment.FingerprintComplete,
		Lifecycle:         lifecycle.State{Phase: lifecycle.PhaseNeedsPackaging},
		CreatedAt:         time.Now(),
	})
	require.NoError(t, err)
	return s
}

func storedFingerprint(t *testing.T, quantities map[kernel.UUID]int) *fingerprint.Fingerprint {
	t.Helper()
	sig, err := fingerprint.NewSignature(quantities)
	require.NoError(t, err)
	fp, err := fingerprint.NewFingerprint(kernel.NewUUID(), sig, decimal.NewFromInt(10), time.Now())
	require.NoError(t, err)
	return fp
}

func newStation(t *testing.T, name string, st packaging.StationType, maxOrders int) *packaging.Station {
	t.Helper()
	s, err := packaging.NewStation(kernel.NewUUID(), name, st, true, maxOrders)
	require.NoError(t, err)
	return s
}
