package shipmentrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type ShipmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	db         *gorm.DB
	repository *shipmentrepo.GormShipmentRepository
	tracker    *MockAggregateTracker

	fingerprintID   kernel.UUID
	packagingTypeID kernel.UUID
	boxerID         kernel.UUID
	baggerID        kernel.UUID
	sessionID       kernel.UUID
}

func (suite *ShipmentRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.db = database.DB
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *ShipmentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = shipmentrepo.NewGormShipmentRepository(suite.db, suite.tracker)

	suite.fingerprintID = kernel.NewUUID()
	suite.packagingTypeID = kernel.NewUUID()
	suite.boxerID = kernel.NewUUID()
	suite.baggerID = kernel.NewUUID()
	suite.sessionID = kernel.NewUUID()

	suite.exec(`INSERT INTO fingerprints (id, hash, signature, total_items, total_weight_oz, created_at)
		VALUES (?, ?, '{}', 1, 10, now())`, suite.fingerprintID.Bytes(), "f00d")
	suite.exec(`INSERT INTO packaging_types (id, name, station_type) VALUES (?, 'Box', 'boxing_machine')`,
		suite.packagingTypeID.Bytes())
	suite.exec(`INSERT INTO stations (id, name, station_type, active, max_orders) VALUES
		(?, 'Boxer', 'boxing_machine', true, 25), (?, 'Bagger', 'poly_bag', true, 25)`,
		suite.boxerID.Bytes(), suite.baggerID.Bytes())
	suite.exec(`INSERT INTO fulfillment_sessions (id, sequence_number, station_type, station_id, max_orders, status, created_at)
		VALUES (?, 1, 'boxing_machine', ?, 25, 'draft', now())`, suite.sessionID.Bytes(), suite.boxerID.Bytes())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) exec(sql string, values ...any) {
	suite.Require().NoError(suite.db.Exec(sql, values...).Error)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) newShipment(orderNumber string, skus ...string) *shipment.Shipment {
	lines := make([]shipment.LineItem, 0, len(skus))
	for i, sku := range skus {
		li, err := shipment.NewLineItem(i, sku, i+1)
		suite.Require().NoError(err)
		lines = append(lines, li)
	}
	s, err := shipment.NewShipment(kernel.NewUUID(), orderNumber, lines, time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)
	return s
}

func (suite *ShipmentRepositoryIntegrationTestSuite) qcItem(s *shipment.Shipment, index int, sku string, collection *kernel.UUID) shipment.QcItem {
	w, err := kernel.NewWeight(decimal.RequireFromString("1.5"), kernel.Pound)
	suite.Require().NoError(err)
	item, err := shipment.NewQcItem(s.ID(), index, shipment.QcItemSpec{
		SKU:          sku,
		Quantity:     1,
		Weight:       &w,
		Category:     "mugs",
		CollectionID: collection,
	})
	suite.Require().NoError(err)
	return item
}

// readyShipment stores a shipment that is complete, packaged and routed to station.
func (suite *ShipmentRepositoryIntegrationTestSuite) readyShipment(orderNumber string, station kernel.UUID) *shipment.Shipment {
	ctx := context.Background()
	s := suite.newShipment(orderNumber, "MUG")
	suite.Require().NoError(suite.repository.Add(ctx, s))
	suite.Require().NoError(s.CompleteFingerprint(suite.fingerprintID))
	suite.Require().NoError(s.AssignPackaging(suite.packagingTypeID, &station))
	s.RecomputeLifecycle()
	suite.Require().NoError(suite.repository.Update(ctx, s))
	return s
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestAdd_AndGet_RoundTrip() {
	ctx := context.Background()
	s := suite.newShipment("1001", "MUG", "TEE")
	collection := kernel.NewUUID()
	s.ReplaceQcItems([]shipment.QcItem{suite.qcItem(s, 0, "MUG", &collection), suite.qcItem(s, 1, "TEE", nil)})

	suite.Require().NoError(suite.repository.Add(ctx, s))

	loaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Equal(s.OrderNumber(), loaded.OrderNumber())
	suite.Require().Len(loaded.LineItems(), 2)
	suite.Equal("TEE", loaded.LineItems()[1].SKU())
	suite.Require().Len(loaded.QcItems(), 2)
	for i, item := range s.QcItems() {
		suite.True(item.IsEqual(loaded.QcItems()[i]), "qc item %d", i)
	}
	suite.Equal(lifecycle.PhasePendingCategorization, loaded.Lifecycle().Phase)
	suite.True(loaded.CreatedAt().Equal(s.CreatedAt()))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", s.ID(), s)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGet_Unknown_ReturnsNotFound() {
	id := kernel.NewUUID()

	_, err := suite.repository.Get(context.Background(), id)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Contains(err.Error(), id.String())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestAdd_DuplicateOrderNumber_Fails() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newShipment("1002", "MUG")))

	err := suite.repository.Add(ctx, suite.newShipment("1002", "MUG"))

	suite.Require().ErrorIs(err, gorm.ErrDuplicatedKey)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_ReplacesQcItemsOnlyWhenChanged() {
	ctx := context.Background()
	s := suite.newShipment("1003", "MUG")
	suite.Require().NoError(suite.repository.Add(ctx, s))

	s.ReplaceQcItems([]shipment.QcItem{suite.qcItem(s, 0, "MUG", nil)})
	suite.Require().NoError(suite.repository.Update(ctx, s))

	loaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Require().Len(loaded.QcItems(), 1)
	suite.False(loaded.QcItemsChanged())

	// A stale aggregate that did not touch its items leaves the stored ones alone.
	suite.Require().NoError(loaded.MarkFingerprintIncomplete(shipment.FingerprintMissingWeight))
	suite.exec("UPDATE qc_items SET category = 'kept' WHERE shipment_id = ?", s.ID().Bytes())
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	var category string
	suite.Require().NoError(suite.db.Raw("SELECT category FROM qc_items WHERE shipment_id = ?", s.ID().Bytes()).Scan(&category).Error)
	suite.Equal("kept", category)

	reloaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Equal(shipment.FingerprintMissingWeight, reloaded.FingerprintStatus())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_Unknown_ReturnsRecordNotFound() {
	err := suite.repository.Update(context.Background(), suite.newShipment("1004", "MUG"))

	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGetEditableByFingerprint_SkipsLinkedShipments() {
	ctx := context.Background()
	free := suite.readyShipment("2001", suite.boxerID)
	linked := suite.readyShipment("2002", suite.boxerID)
	ok, err := suite.link(linked, 1)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	result, err := suite.repository.GetEditableByFingerprint(ctx, suite.fingerprintID)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(free.ID(), result[0].ID())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) link(s *shipment.Shipment, spot int) (bool, error) {
	suite.Require().NoError(s.LinkSession(suite.sessionID, spot, "draft"))
	s.RecomputeLifecycle()
	return suite.repository.LinkToSession(context.Background(), s)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestLinkToSession_SecondClaimLoses() {
	ctx := context.Background()
	s := suite.readyShipment("3001", suite.boxerID)

	first, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)

	ok, err := suite.link(first, 1)
	suite.Require().NoError(err)
	suite.True(ok)

	ok, err = suite.link(second, 2)
	suite.Require().NoError(err)
	suite.False(ok)

	members, err := suite.repository.GetBySession(ctx, suite.sessionID)
	suite.Require().NoError(err)
	suite.Require().Len(members, 1)
	suite.Equal(1, members[0].SessionSpot())
	suite.Equal(lifecycle.State{Phase: lifecycle.PhaseFulfillmentPrep, Subphase: "draft"}, members[0].Lifecycle())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestLinkToSession_DuplicateSpotFails() {
	a := suite.readyShipment("3101", suite.boxerID)
	b := suite.readyShipment("3102", suite.boxerID)

	ok, err := suite.link(a, 1)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	_, err = suite.link(b, 1)
	suite.Require().ErrorIs(err, gorm.ErrDuplicatedKey)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_DoesNotUndoConcurrentLink() {
	ctx := context.Background()
	s := suite.readyShipment("3201", suite.boxerID)

	editing, err := suite.repository.GetEditableByFingerprint(ctx, suite.fingerprintID)
	suite.Require().NoError(err)
	suite.Require().Len(editing, 1)

	claimed, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	ok, err := suite.link(claimed, 1)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	stale := editing[0]
	suite.Require().NoError(stale.AssignPackaging(suite.packagingTypeID, &suite.baggerID))
	stale.RecomputeLifecycle()
	err = suite.repository.Update(ctx, stale)

	suite.Require().ErrorIs(err, shipment.ErrSessionLinkChanged)
	stored, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(stored.SessionID())
	suite.Equal(suite.sessionID, *stored.SessionID())
	suite.Equal(1, stored.SessionSpot())
	suite.Equal(suite.boxerID, *stored.AssignedStationID())
	suite.Equal(lifecycle.PhaseFulfillmentPrep, stored.Lifecycle().Phase)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestReleaseFromSession() {
	ctx := context.Background()
	s := suite.readyShipment("3301", suite.boxerID)
	ok, err := suite.link(s, 1)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	linked, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	linked.UnlinkSession()
	linked.RecomputeLifecycle()

	suite.Require().ErrorIs(suite.repository.ReleaseFromSession(ctx, linked, kernel.NewUUID()), shipment.ErrSessionLinkChanged)
	suite.Require().NoError(suite.repository.ReleaseFromSession(ctx, linked, suite.sessionID))

	stored, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Nil(stored.SessionID())
	suite.Zero(stored.SessionSpot())
	suite.Equal(lifecycle.PhaseReadyToSession, stored.Lifecycle().Phase)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGetSessionCandidates_Filters() {
	ctx := context.Background()
	boxed := suite.readyShipment("4001", suite.boxerID)
	bagged := suite.readyShipment("4002", suite.baggerID)
	suite.Require().NoError(suite.repository.Add(ctx, suite.newShipment("4003", "NEW")))

	all, err := suite.repository.GetSessionCandidates(ctx, ports.SessionCandidateFilter{})
	suite.Require().NoError(err)
	suite.Len(all, 2)

	bag := packaging.PolyBag
	onlyBags, err := suite.repository.GetSessionCandidates(ctx, ports.SessionCandidateFilter{StationType: &bag})
	suite.Require().NoError(err)
	suite.Require().Len(onlyBags, 1)
	suite.Equal(bagged.ID(), onlyBags[0].ShipmentID)
	suite.Equal(suite.baggerID, onlyBags[0].StationID)

	byOrder, err := suite.repository.GetSessionCandidates(ctx, ports.SessionCandidateFilter{OrderNumbers: []string{"4001"}})
	suite.Require().NoError(err)
	suite.Require().Len(byOrder, 1)
	suite.Equal(boxed.ID(), byOrder[0].ShipmentID)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestFindEditableIDsBySKU_MatchesRawAndHydratedItems() {
	ctx := context.Background()
	raw := suite.newShipment("5001", "KIT-A")
	suite.Require().NoError(suite.repository.Add(ctx, raw))

	hydrated := suite.newShipment("5002", "TEE-RED")
	suite.Require().NoError(suite.repository.Add(ctx, hydrated))
	hydrated.ReplaceQcItems([]shipment.QcItem{suite.qcItem(hydrated, 0, "TEE", nil)})
	suite.Require().NoError(suite.repository.Update(ctx, hydrated))

	suite.Require().NoError(suite.repository.Add(ctx, suite.newShipment("5003", "OTHER")))

	kitIDs, err := suite.repository.FindEditableIDsBySKU(ctx, "KIT-A")
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{raw.ID()}, kitIDs)

	teeIDs, err := suite.repository.FindEditableIDsBySKU(ctx, "TEE")
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{hydrated.ID()}, teeIDs)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestFindEditableIDsBySKU_MatchesKitComponents() {
	ctx := context.Background()
	w, err := kernel.NewWeight(decimal.NewFromInt(8), kernel.Ounce)
	suite.Require().NoError(err)

	kit := suite.newShipment("5101", "GIFT-SET")
	suite.Require().NoError(suite.repository.Add(ctx, kit))
	component, err := shipment.NewQcItem(kit.ID(), 0, shipment.QcItemSpec{
		SKU:            "MUG",
		Quantity:       2,
		Weight:         &w,
		IsKitComponent: true,
		ParentSKU:      "GIFT-SET",
	})
	suite.Require().NoError(err)
	kit.ReplaceQcItems([]shipment.QcItem{component})
	suite.Require().NoError(suite.repository.Update(ctx, kit))

	// The same component inside a session is no longer editable.
	linked := suite.readyShipment("5102", suite.boxerID)
	ok, err := suite.link(linked, 1)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	byComponent, err := suite.repository.FindEditableIDsBySKU(ctx, "MUG")
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{kit.ID()}, byComponent)

	suite.exec("UPDATE line_items SET sku = 'GIFT-SET-V2' WHERE shipment_id = ?", kit.ID().Bytes())
	byParent, err := suite.repository.FindEditableIDsBySKU(ctx, "GIFT-SET")
	suite.Require().NoError(err)
	suite.Equal([]kernel.UUID{kit.ID()}, byParent, "matched through the component's parent sku")
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestFindIDsPendingFingerprint_Pages() {
	ctx := context.Background()
	for _, n := range []string{"6001", "6002", "6003"} {
		suite.Require().NoError(suite.repository.Add(ctx, suite.newShipment(n, "MUG")))
	}
	suite.readyShipment("6004", suite.boxerID)

	first, err := suite.repository.FindIDsPendingFingerprint(ctx, nil, 2)
	suite.Require().NoError(err)
	suite.Require().Len(first, 2)

	rest, err := suite.repository.FindIDsPendingFingerprint(ctx, &first[1], 2)
	suite.Require().NoError(err)
	suite.Require().Len(rest, 1)
	suite.Equal(1, rest[0].Compare(first[1]))
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGetPage_KeepsStaleLifecycle() {
	ctx := context.Background()
	s := suite.readyShipment("7001", suite.boxerID)
	suite.exec("UPDATE shipments SET lifecycle_phase = 'needs_packaging' WHERE id = ?", s.ID().Bytes())

	page, err := suite.repository.GetPage(ctx, nil, 10)

	suite.Require().NoError(err)
	suite.Require().Len(page, 1)
	suite.Equal(lifecycle.PhaseNeedsPackaging, page[0].Lifecycle().Phase)
	suite.True(page[0].RecomputeLifecycle())
}

func TestShipmentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ShipmentRepositoryIntegrationTestSuite))
}
