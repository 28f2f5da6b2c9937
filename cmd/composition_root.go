package cmd

import (
	"context"
	"errors"
	"fmt"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/catalogcache"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/rediscache"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/cache"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     *zap.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
	catalog    *catalogrepo.GormCatalog
	cached     *catalogcache.CachedCatalog
	planner    services.SessionPlanner

	memoryCache *catalogcache.MemoryProductCache
	redisCache  *rediscache.ProductCache
	publisher   *kafka.LifecyclePublisher
}

// NewCompositionRoot wires the application. Redis and Kafka are used only
// when configured: without REDIS_ADDR products are cached in process, and
// without KAFKA_BROKERS lifecycle events are dropped after commit.
func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	planner, err := services.NewSessionPlanner(cfg.SessionDefaultMaxOrders)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		cfg:     cfg,
		gormDB:  gormDB,
		logger:  logger,
		catalog: catalogrepo.NewGormCatalog(gormDB),
		planner: planner,
	}

	var products ports.ProductCache
	if cfg.RedisAddr != "" {
		root.redisCache, err = rediscache.Connect(ctx, rediscache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CatalogCacheTTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		products = root.redisCache
		logger.Info("Catalog cache backed by Redis", zap.String("addr", cfg.RedisAddr))
	} else {
		root.memoryCache = catalogcache.NewMemoryProductCache(cache.Config{
			MaxSize: cfg.CatalogCacheMaxSize,
			TTL:     cfg.CatalogCacheTTL,
		})
		products = root.memoryCache
	}
	root.cached = catalogcache.NewCachedCatalog(root.catalog, products)

	var publisher ports.EventPublisher
	if brokers := kafka.ParseBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		root.publisher = kafka.NewLifecyclePublisher(kafka.Config{
			Brokers: brokers,
			Topic:   cfg.KafkaLifecycleTopic,
		}, logger)
		publisher = root.publisher
		logger.Info("Publishing lifecycle events",
			zap.Strings("brokers", brokers),
			zap.String("topic", cfg.KafkaLifecycleTopic))
	}
	root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger)

	return root, nil
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCategorizeSkuCommandHandler() commands.CategorizeSkuCommandHandler {
	return commands.NewCategorizeSkuCommandHandler(c.uow(), c.catalog, c.catalog, c.cached, c.cfg.FanoutWorkers, c.logger)
}

func (c *CompositionRoot) CreateHydrateShipmentCommandHandler() commands.HydrateShipmentCommandHandler {
	return commands.NewHydrateShipmentCommandHandler(c.uow(), c.cached)
}

func (c *CompositionRoot) CreateCalculateFingerprintCommandHandler() commands.CalculateFingerprintCommandHandler {
	return commands.NewCalculateFingerprintCommandHandler(c.uow(), c.cached)
}

func (c *CompositionRoot) CreateAssignPackagingCommandHandler() commands.AssignPackagingCommandHandler {
	return commands.NewAssignPackagingCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateBulkAssignPackagingCommandHandler() commands.BulkAssignPackagingCommandHandler {
	return commands.NewBulkAssignPackagingCommandHandler(c.CreateAssignPackagingCommandHandler())
}

func (c *CompositionRoot) CreateBuildSessionsCommandHandler() commands.BuildSessionsCommandHandler {
	return commands.NewBuildSessionsCommandHandler(c.uow(), c.planner, c.logger)
}

func (c *CompositionRoot) CreateUpdateSessionStatusCommandHandler() commands.UpdateSessionStatusCommandHandler {
	return commands.NewUpdateSessionStatusCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateBulkUpdateSessionStatusCommandHandler() commands.BulkUpdateSessionStatusCommandHandler {
	return commands.NewBulkUpdateSessionStatusCommandHandler(c.CreateUpdateSessionStatusCommandHandler())
}

func (c *CompositionRoot) CreateDeleteSessionCommandHandler() commands.DeleteSessionCommandHandler {
	return commands.NewDeleteSessionCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateRepairLifecycleCommandHandler() commands.RepairLifecycleCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRepairLifecycleCommandHandler(f)
}

// CreateRecalculateFingerprintsCommandHandler reads the catalog directly; it
// exists to repair shipments a cached read may have left behind.
func (c *CompositionRoot) CreateRecalculateFingerprintsCommandHandler() commands.RecalculateFingerprintsCommandHandler {
	return commands.NewRecalculateFingerprintsCommandHandler(c.uow(), c.catalog, c.cfg.FanoutWorkers, c.logger)
}

func (c *CompositionRoot) CreateListUnmappedFingerprintsQueryHandler() queries.ListUnmappedFingerprintsQueryHandler {
	return queries.NewListUnmappedFingerprintsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateDiagnoseReadinessQueryHandler() queries.DiagnoseReadinessQueryHandler {
	return queries.NewDiagnoseReadinessQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CategorizeSku:            c.CreateCategorizeSkuCommandHandler(),
		AssignPackaging:          c.CreateAssignPackagingCommandHandler(),
		BulkAssignPackaging:      c.CreateBulkAssignPackagingCommandHandler(),
		HydrateShipment:          c.CreateHydrateShipmentCommandHandler(),
		CalculateFingerprint:     c.CreateCalculateFingerprintCommandHandler(),
		BuildSessions:            c.CreateBuildSessionsCommandHandler(),
		UpdateSessionStatus:      c.CreateUpdateSessionStatusCommandHandler(),
		BulkUpdateSessionStatus:  c.CreateBulkUpdateSessionStatusCommandHandler(),
		DeleteSession:            c.CreateDeleteSessionCommandHandler(),
		RepairLifecycle:          c.CreateRepairLifecycleCommandHandler(),
		RecalculateFingerprints:  c.CreateRecalculateFingerprintsCommandHandler(),
		ListUnmappedFingerprints: c.CreateListUnmappedFingerprintsQueryHandler(),
		DiagnoseReadiness:        c.CreateDiagnoseReadinessQueryHandler(),
	}, c.logger)
}

// CreateHealthChecker pings Postgres and, when configured, Redis.
func (c *CompositionRoot) CreateHealthChecker() *httpin.HealthChecker {
	checks := map[string]httpin.Pinger{
		"postgres": httpin.PingFunc(func(ctx context.Context) error {
			sqlDB, err := c.gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if c.redisCache != nil {
		checks["redis"] = c.redisCache
	}
	return httpin.NewHealthChecker(checks)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRepairLifecycleCommandHandler(),
		c.CreateRecalculateFingerprintsCommandHandler(),
		jobs.Schedules{
			LifecycleRepair:   c.cfg.LifecycleRepairSchedule,
			FingerprintRecalc: c.cfg.FingerprintRecalcSchedule,
		},
		c.cfg.BatchSize,
		c.logger,
	)
}

// Close releases external clients and logs in-process cache statistics.
func (c *CompositionRoot) Close() error {
	if c.memoryCache != nil {
		stats := c.memoryCache.Stats()
		c.logger.Info("Catalog cache statistics",
			zap.Int("size", stats.Size),
			zap.Int64("hits", stats.Hits),
			zap.Int64("misses", stats.Misses),
			zap.Int64("expired", stats.Expired),
			zap.Int64("evicted", stats.Evicted),
			zap.Float64("utilization", stats.Utilization))
	}

	var errs []error
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close kafka writer: %w", err))
		}
	}
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis client: %w", err))
		}
	}
	if sqlDB, err := c.gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
