package db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/cache"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/memstore"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

func TestCachedProductRepositoryInvalidatesOnReserve(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := memstore.New()
	require.NoError(t, store.CreateProduct(ctx, &models.Product{
		ID: "p1", Name: "Pozole", Price: decimal.NewFromInt(10), Quantity: 5, SellerID: "s1", Visible: true,
	}))
	repo := NewCachedProductRepository(store, cache.NewRedisCacheFromClient(client, time.Minute))

	p, err := repo.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 5, p.Quantity)
	require.True(t, mr.Exists("product:p1"))

	remaining, err := repo.ReserveStock(ctx, "p1", 2)
	require.NoError(t, err)
	require.Equal(t, 3, remaining)
	require.False(t, mr.Exists("product:p1"))

	p, err = repo.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 3, p.Quantity)
}

func TestCachedProductRepositoryPassesThroughNotFound(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := NewCachedProductRepository(memstore.New(), cache.NewRedisCacheFromClient(client, time.Minute))
	_, err := repo.GetProduct(context.Background(), "missing")
	require.ErrorIs(t, err, models.ErrNotFound)
	require.False(t, mr.Exists("product:missing"))
}
