package catalogrepo_test

import (
	"context"
	"testing"

	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CatalogIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	catalog    *catalogrepo.GormCatalog
	collection kernel.UUID
}

func (suite *CatalogIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *CatalogIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *CatalogIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.catalog = catalogrepo.NewGormCatalog(suite.database.DB)

	suite.collection = kernel.NewUUID()
	db := suite.database.DB
	suite.Require().NoError(db.Exec("INSERT INTO geometry_collections (id, name) VALUES (?, 'Mugs')", suite.collection.Bytes()).Error)
	suite.Require().NoError(db.Exec(`INSERT INTO products (sku, category, weight_value, weight_unit, excluded) VALUES
		('MUG', 'drinkware', 12, 'oz', false),
		('FLAT', 'print', 0, 'oz', false),
		('GIFT-CARD', 'insert', NULL, NULL, true)`).Error)
	suite.Require().NoError(db.Exec("INSERT INTO sku_collections (sku, collection_id) VALUES ('MUG', ?)", suite.collection.Bytes()).Error)
	suite.Require().NoError(db.Exec("INSERT INTO product_variants (variant_sku, parent_sku) VALUES ('MUG-RED', 'MUG')").Error)
	suite.Require().NoError(db.Exec(`INSERT INTO kit_components (order_number, kit_sku, component_sku, quantity) VALUES
		('1001', 'KIT-A', 'COMP-2', 1),
		('1001', 'KIT-A', 'COMP-1', 2),
		('1002', 'KIT-A', 'COMP-1', 1)`).Error)
}

func (suite *CatalogIntegrationTestSuite) TestLookup_CategorizedProduct() {
	product, err := suite.catalog.Lookup(context.Background(), "MUG")

	suite.Require().NoError(err)
	suite.Equal("drinkware", product.Category)
	suite.Require().NotNil(product.Weight)
	suite.True(product.Weight.Ounces().Equal(decimal.NewFromInt(12)))
	suite.Require().NotNil(product.CollectionID)
	suite.True(product.CollectionID.IsEqual(suite.collection))
	suite.False(product.Excluded)
}

func (suite *CatalogIntegrationTestSuite) TestLookup_ZeroWeightAndExcluded() {
	ctx := context.Background()

	flat, err := suite.catalog.Lookup(ctx, "FLAT")
	suite.Require().NoError(err)
	suite.Nil(flat.Weight)
	suite.Nil(flat.CollectionID)

	card, err := suite.catalog.Lookup(ctx, "GIFT-CARD")
	suite.Require().NoError(err)
	suite.True(card.Excluded)
}

func (suite *CatalogIntegrationTestSuite) TestLookup_UnknownSKU() {
	product, err := suite.catalog.Lookup(context.Background(), "NOPE")

	suite.Require().NoError(err)
	suite.Equal(catalog.Product{SKU: "NOPE"}, product)
}

func (suite *CatalogIntegrationTestSuite) TestParentSKU() {
	ctx := context.Background()

	parent, ok, err := suite.catalog.ParentSKU(ctx, "MUG-RED")
	suite.Require().NoError(err)
	suite.True(ok)
	suite.Equal("MUG", parent)

	_, ok, err = suite.catalog.ParentSKU(ctx, "MUG")
	suite.Require().NoError(err)
	suite.False(ok)
}

func (suite *CatalogIntegrationTestSuite) TestExplode_PerOrder() {
	ctx := context.Background()

	components, err := suite.catalog.Explode(ctx, "1001", "KIT-A")
	suite.Require().NoError(err)
	suite.Equal([]catalog.KitComponent{{SKU: "COMP-1", Quantity: 2}, {SKU: "COMP-2", Quantity: 1}}, components)

	components, err = suite.catalog.Explode(ctx, "1002", "KIT-A")
	suite.Require().NoError(err)
	suite.Equal([]catalog.KitComponent{{SKU: "COMP-1", Quantity: 1}}, components)

	components, err = suite.catalog.Explode(ctx, "1001", "MUG")
	suite.Require().NoError(err)
	suite.Empty(components)
}

func (suite *CatalogIntegrationTestSuite) TestAssignCollection_UpsertAndRemove() {
	ctx := context.Background()
	other := kernel.NewUUID()
	suite.Require().NoError(suite.database.DB.Exec("INSERT INTO geometry_collections (id, name) VALUES (?, 'Posters')", other.Bytes()).Error)

	suite.Require().NoError(suite.catalog.AssignCollection(ctx, "FLAT", &other))
	suite.Require().NoError(suite.catalog.AssignCollection(ctx, "MUG", &other))

	flat, err := suite.catalog.Lookup(ctx, "FLAT")
	suite.Require().NoError(err)
	suite.Require().NotNil(flat.CollectionID)
	suite.True(flat.CollectionID.IsEqual(other))

	mug, err := suite.catalog.Lookup(ctx, "MUG")
	suite.Require().NoError(err)
	suite.True(mug.CollectionID.IsEqual(other))

	suite.Require().NoError(suite.catalog.AssignCollection(ctx, "MUG", nil))
	mug, err = suite.catalog.Lookup(ctx, "MUG")
	suite.Require().NoError(err)
	suite.Nil(mug.CollectionID)
}

func (suite *CatalogIntegrationTestSuite) TestAssignCollection_UnlistedSKU() {
	ctx := context.Background()

	suite.Require().NoError(suite.catalog.AssignCollection(ctx, "NEW-SKU", &suite.collection))

	product, err := suite.catalog.Lookup(ctx, "NEW-SKU")
	suite.Require().NoError(err)
	suite.Require().NotNil(product.CollectionID)
	suite.Nil(product.Weight)
}

func (suite *CatalogIntegrationTestSuite) TestAssignCollection_UnknownCollection() {
	missing := kernel.NewUUID()

	err := suite.catalog.AssignCollection(context.Background(), "MUG", &missing)

	suite.Require().Error(err)
}

func TestCatalogIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogIntegrationTestSuite))
}
