package catalogcache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/catalogcache"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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
	return args.Get(0).([]catalog.KitComponent), args.Error(1)
}

func TestCachedCatalog_LookupHitsBackingOnce(t *testing.T) {
	ctx := context.Background()
	backing := new(MockCatalog)
	backing.On("Lookup", ctx, "MUG").Return(catalog.Product{SKU: "MUG", Category: "drinkware"}, nil).Once()

	memory := catalogcache.NewMemoryProductCache(cache.Config{MaxSize: 10, TTL: time.Minute})
	cached := catalogcache.NewCachedCatalog(backing, memory)

	for range 3 {
		product, err := cached.Lookup(ctx, "MUG")
		require.NoError(t, err)
		assert.Equal(t, "drinkware", product.Category)
	}

	backing.AssertExpectations(t)
	stats := memory.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCachedCatalog_InvalidateForcesReload(t *testing.T) {
	ctx := context.Background()
	backing := new(MockCatalog)
	backing.On("Lookup", ctx, "MUG").Return(catalog.Product{SKU: "MUG"}, nil).Twice()

	memory := catalogcache.NewMemoryProductCache(cache.Config{MaxSize: 10, TTL: time.Minute})
	cached := catalogcache.NewCachedCatalog(backing, memory)

	_, err := cached.Lookup(ctx, "MUG")
	require.NoError(t, err)
	require.NoError(t, cached.Invalidate(ctx, "MUG"))
	_, err = cached.Lookup(ctx, "MUG")
	require.NoError(t, err)

	backing.AssertExpectations(t)
}

func TestCachedCatalog_StaleEntryReloads(t *testing.T) {
	ctx := context.Background()
	backing := new(MockCatalog)
	backing.On("Lookup", ctx, "MUG").Return(catalog.Product{SKU: "MUG"}, nil).Twice()

	memory := catalogcache.NewMemoryProductCache(cache.Config{MaxSize: 10, TTL: 50 * time.Millisecond})
	cached := catalogcache.NewCachedCatalog(backing, memory)

	_, err := cached.Lookup(ctx, "MUG")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, ok := memory.Get(ctx, "MUG")
		return !ok
	}, time.Second, 10*time.Millisecond)
	_, err = cached.Lookup(ctx, "MUG")
	require.NoError(t, err)

	backing.AssertExpectations(t)
}

func TestCachedCatalog_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	backing := new(MockCatalog)
	backing.On("Lookup", ctx, "MUG").Return(catalog.Product{}, errors.New("db down")).Once()
	backing.On("Lookup", ctx, "MUG").Return(catalog.Product{SKU: "MUG"}, nil).Once()

	cached := catalogcache.NewCachedCatalog(backing, catalogcache.NewMemoryProductCache(cache.DefaultConfig()))

	_, err := cached.Lookup(ctx, "MUG")
	require.Error(t, err)
	product, err := cached.Lookup(ctx, "MUG")
	require.NoError(t, err)
	assert.Equal(t, "MUG", product.SKU)
}

func TestCachedCatalog_PassesThroughVariantsAndKits(t *testing.T) {
	ctx := context.Background()
	backing := new(MockCatalog)
	backing.On("ParentSKU", ctx, "MUG-RED").Return("MUG", true, nil).Twice()
	backing.On("Explode", ctx, "1001", "KIT-A").Return([]catalog.KitComponent{{SKU: "COMP-1", Quantity: 2}}, nil).Once()

	cached := catalogcache.NewCachedCatalog(backing, catalogcache.NewMemoryProductCache(cache.DefaultConfig()))

	for range 2 {
		parent, ok, err := cached.ParentSKU(ctx, "MUG-RED")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "MUG", parent)
	}
	components, err := cached.Explode(ctx, "1001", "KIT-A")
	require.NoError(t, err)
	assert.Len(t, components, 1)
	backing.AssertExpectations(t)
}

// blockingCatalog serves the current mapping for a SKU but can hold one lookup
// after it has read, to stand in for a slow catalog query.
type blockingCatalog struct {
	MockCatalog

	mu         sync.Mutex
	collection *kernel.UUID
	read       chan struct{}
	release    chan struct{}
}

func (b *blockingCatalog) setCollection(id *kernel.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.collection = id
}

func (b *blockingCatalog) Lookup(_ context.Context, sku string) (catalog.Product, error) {
	b.mu.Lock()
	product := catalog.Product{SKU: sku, CollectionID: b.collection}
	read, release := b.read, b.release
	b.read, b.release = nil, nil
	b.mu.Unlock()

	if read != nil {
		close(read)
		<-release
	}
	return product, nil
}

func TestCachedCatalog_InvalidateWinsOverInFlightLookup(t *testing.T) {
	ctx := context.Background()
	mugs := kernel.NewUUID()
	backing := &blockingCatalog{
		collection: &mugs,
		read:       make(chan struct{}),
		release:    make(chan struct{}),
	}
	read, release := backing.read, backing.release

	memory := catalogcache.NewMemoryProductCache(cache.Config{MaxSize: 10, TTL: time.Hour})
	cached := catalogcache.NewCachedCatalog(backing, memory)

	done := make(chan catalog.Product)
	go func() {
		product, err := cached.Lookup(ctx, "MUG")
		assert.NoError(t, err)
		done <- product
	}()

	<-read
	backing.setCollection(nil)
	require.NoError(t, cached.Invalidate(ctx, "MUG"))
	close(release)

	inFlight := <-done
	require.NotNil(t, inFlight.CollectionID, "the racing lookup still answers with what it read")

	_, ok := memory.Get(ctx, "MUG")
	assert.False(t, ok, "a lookup that started before the invalidation must not be cached")

	product, err := cached.Lookup(ctx, "MUG")
	require.NoError(t, err)
	assert.Nil(t, product.CollectionID)
}

type failingCache struct {
	*catalogcache.MemoryProductCache
}

func (failingCache) Invalidate(context.Context, ...string) error {
	return errors.New("redis down")
}

func TestCachedCatalog_InvalidateReportsCacheFailure(t *testing.T) {
	cached := catalogcache.NewCachedCatalog(new(MockCatalog), failingCache{catalogcache.NewMemoryProductCache(cache.DefaultConfig())})

	err := cached.Invalidate(context.Background(), "MUG")

	require.EqualError(t, err, "invalidate cached products: redis down")
}
