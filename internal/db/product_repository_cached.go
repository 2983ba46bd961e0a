package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
)

// ProductStore is the part of the record store the cache sits in front of.
// Both ProductRepository and memstore.Store satisfy it.
type ProductStore interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ReserveStock(ctx context.Context, productID string, qty int) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// CachedProductRepository serves product reads from Redis and drops the entry
// whenever a reservation changes the stored quantity.
type CachedProductRepository struct {
	repo  ProductStore
	cache Cache
}

func NewCachedProductRepository(repo ProductStore, cache Cache) *CachedProductRepository {
	return &CachedProductRepository{
		repo:  repo,
		cache: cache,
	}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// GetProduct returns a single product (with caching)
func (r *CachedProductRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	cacheKey := productKey(id)

	var product models.Product
	err := r.cache.Get(ctx, cacheKey, &product)
	if err == nil {
		obs.Logger.Debug("cache hit", "key", cacheKey)
		return &product, nil
	}
	if !errors.Is(err, redis.Nil) {
		obs.Logger.Warn("cache error", "key", cacheKey, "error", err)
	}

	p, err := r.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, p); err != nil {
		obs.Logger.Warn("failed to cache product", "key", cacheKey, "error", err)
	}

	return p, nil
}

// ReserveStock delegates to the store and invalidates the cached product on success
func (r *CachedProductRepository) ReserveStock(ctx context.Context, productID string, qty int) (int, error) {
	remaining, err := r.repo.ReserveStock(ctx, productID, qty)
	if err != nil {
		return remaining, err
	}

	if err := r.cache.Delete(ctx, productKey(productID)); err != nil {
		obs.Logger.Warn("failed to invalidate cached product", "product_id", productID, "error", err)
	}

	return remaining, nil
}
