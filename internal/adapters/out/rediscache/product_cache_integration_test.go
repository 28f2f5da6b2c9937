package rediscache_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/rediscache"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

type ProductCacheIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	rdb       *redis.Client
	cache     *rediscache.ProductCache
}

func (suite *ProductCacheIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	suite.cache, err = rediscache.Connect(ctx, rediscache.Config{Addr: endpoint, TTL: time.Minute}, zap.NewNop())
	suite.Require().NoError(err)
	suite.rdb = redis.NewClient(&redis.Options{Addr: endpoint})
}

func (suite *ProductCacheIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.cache.Close())
	suite.Require().NoError(suite.rdb.Close())
	suite.Require().NoError(suite.container.Terminate(context.Background()))
}

func (suite *ProductCacheIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.rdb.FlushDB(context.Background()).Err())
}

func (suite *ProductCacheIntegrationTestSuite) TestSetGet_RoundTrip() {
	ctx := context.Background()
	weight, err := kernel.NewWeight(decimal.RequireFromString("1.5"), kernel.Pound)
	suite.Require().NoError(err)
	collection := kernel.NewUUID()

	suite.cache.Set(ctx, catalog.Product{SKU: "MUG", Category: "drinkware", Weight: &weight, CollectionID: &collection})

	product, ok := suite.cache.Get(ctx, "MUG")
	suite.Require().True(ok)
	suite.Equal("drinkware", product.Category)
	suite.Require().NotNil(product.Weight)
	suite.True(product.Weight.IsEqual(weight))
	suite.Require().NotNil(product.CollectionID)
	suite.True(product.CollectionID.IsEqual(collection))

	ttl, err := suite.rdb.TTL(ctx, rediscache.DefaultKeyPrefix+"MUG").Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, time.Duration(0))
	suite.LessOrEqual(ttl, time.Minute)
}

func (suite *ProductCacheIntegrationTestSuite) TestGet_Miss() {
	_, ok := suite.cache.Get(context.Background(), "NOPE")

	suite.False(ok)
}

func (suite *ProductCacheIntegrationTestSuite) TestInvalidate() {
	ctx := context.Background()
	suite.cache.Set(ctx, catalog.Product{SKU: "A"})
	suite.cache.Set(ctx, catalog.Product{SKU: "B"})

	suite.Require().NoError(suite.cache.Invalidate(ctx, "A", "C"))

	_, ok := suite.cache.Get(ctx, "A")
	suite.False(ok)
	_, ok = suite.cache.Get(ctx, "B")
	suite.True(ok)
}

func (suite *ProductCacheIntegrationTestSuite) TestGet_CorruptEntryIsDropped() {
	ctx := context.Background()
	key := rediscache.DefaultKeyPrefix + "BAD"
	suite.Require().NoError(suite.rdb.Set(ctx, key, "{not json", time.Minute).Err())

	_, ok := suite.cache.Get(ctx, "BAD")

	suite.False(ok)
	exists, err := suite.rdb.Exists(ctx, key).Result()
	suite.Require().NoError(err)
	suite.Zero(exists)
}

func TestProductCacheIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ProductCacheIntegrationTestSuite))
}
