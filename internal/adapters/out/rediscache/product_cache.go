// Package rediscache shares resolved catalog products between service
// replicas through Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultKeyPrefix = "fulfillment:product:"

type Config struct {
	Addr      string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

// ProductCache stores products as JSON under KeyPrefix+sku with the
// configured TTL. Read and write failures degrade to cache misses and are
// logged; a failed invalidation is returned to the caller.
type ProductCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// Connect opens a client and pings it before returning.
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*ProductCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  time.Second,
		ReadTimeout:  250 * time.Millisecond,
		WriteTimeout: 250 * time.Millisecond,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	return NewProductCache(rdb, cfg, logger), nil
}

func NewProductCache(rdb *redis.Client, cfg Config, logger *zap.Logger) *ProductCache {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	return &ProductCache{
		rdb:       rdb,
		ttl:       cfg.TTL,
		keyPrefix: cfg.KeyPrefix,
		logger:    logger.With(zap.String("component", "redis_product_cache")),
	}
}

var _ ports.ProductCache = (*ProductCache)(nil)

func (c *ProductCache) Get(ctx context.Context, sku string) (catalog.Product, bool) {
	raw, err := c.rdb.Get(ctx, c.key(sku)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("product cache read failed", zap.String("sku", sku), zap.Error(err))
		}
		return catalog.Product{}, false
	}

	var doc productDocument
	if err = json.Unmarshal(raw, &doc); err != nil {
		c.logger.Warn("dropping unreadable product cache entry", zap.String("sku", sku), zap.Error(err))
		_ = c.Invalidate(ctx, sku)
		return catalog.Product{}, false
	}

	product, err := doc.toDomain()
	if err != nil {
		c.logger.Warn("dropping invalid product cache entry", zap.String("sku", sku), zap.Error(err))
		_ = c.Invalidate(ctx, sku)
		return catalog.Product{}, false
	}
	return product, true
}

func (c *ProductCache) Set(ctx context.Context, product catalog.Product) {
	raw, err := json.Marshal(documentFromDomain(product))
	if err != nil {
		c.logger.Warn("product cache encode failed", zap.String("sku", product.SKU), zap.Error(err))
		return
	}
	if err = c.rdb.Set(ctx, c.key(product.SKU), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.String("sku", product.SKU), zap.Error(err))
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, skus ...string) error {
	if len(skus) == 0 {
		return nil
	}
	keys := make([]string, 0, len(skus))
	for _, sku := range skus {
		keys = append(keys, c.key(sku))
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("product cache invalidation failed", zap.Strings("skus", skus), zap.Error(err))
		return fmt.Errorf("delete cached products %v: %w", skus, err)
	}
	return nil
}

// Ping reports whether Redis is reachable, for health checks.
func (c *ProductCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *ProductCache) Close() error {
	return c.rdb.Close()
}

func (c *ProductCache) key(sku string) string {
	return c.keyPrefix + sku
}

type productDocument struct {
	SKU          string           `json:"sku"`
	Category     string           `json:"category,omitempty"`
	WeightValue  *decimal.Decimal `json:"weightValue,omitempty"`
	WeightUnit   string           `json:"weightUnit,omitempty"`
	CollectionID string           `json:"collectionId,omitempty"`
	Excluded     bool             `json:"excluded,omitempty"`
}

func documentFromDomain(p catalog.Product) productDocument {
	doc := productDocument{
		SKU:      p.SKU,
		Category: p.Category,
		Excluded: p.Excluded,
	}
	if p.Weight != nil {
		value := p.Weight.Value()
		doc.WeightValue = &value
		doc.WeightUnit = string(p.Weight.Unit())
	}
	if p.CollectionID != nil {
		doc.CollectionID = p.CollectionID.String()
	}
	return doc
}

func (d productDocument) toDomain() (catalog.Product, error) {
	p := catalog.Product{
		SKU:      d.SKU,
		Category: d.Category,
		Excluded: d.Excluded,
	}

	if d.WeightValue != nil {
		unit, err := kernel.ParseWeightUnit(d.WeightUnit)
		if err != nil {
			return catalog.Product{}, err
		}
		w, err := kernel.NewWeight(*d.WeightValue, unit)
		if err != nil {
			return catalog.Product{}, err
		}
		p.Weight = &w
	}

	if d.CollectionID != "" {
		id, err := kernel.UUIDFromString(d.CollectionID)
		if err != nil {
			return catalog.Product{}, err
		}
		p.CollectionID = &id
	}

	return p, p.Validate()
}
