package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

func seed(t *testing.T, s *Store, id string, qty int) {
	t.Helper()
	require.NoError(t, s.CreateProduct(context.Background(), &models.Product{
		ID: id, Name: id, Price: decimal.NewFromInt(10), Quantity: qty, SellerID: "seller", Visible: true,
	}))
}

func TestReserveStockConcurrentNeverOversells(t *testing.T) {
	ctx := context.Background()
	s := New()
	seed(t, s, "p1", 50)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		reserved int
	)
	for i := 0; i < 40; i++ {
		qty := i%3 + 1
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ReserveStock(ctx, "p1", qty); err == nil {
				mu.Lock()
				reserved += qty
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, models.ErrInsufficientStock)
			}
		}()
	}
	wg.Wait()

	p, err := s.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.LessOrEqual(t, reserved, 50)
	require.Equal(t, 50-reserved, p.Quantity)
	require.GreaterOrEqual(t, p.Quantity, 0)
}

func TestReserveStockMissingProduct(t *testing.T) {
	_, err := New().ReserveStock(context.Background(), "nope", 1)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestApplyFavoriteChangesIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := New()
	err := s.ApplyFavoriteChanges(ctx, "u1", []models.FavoriteChange{
		{ProductID: "a", Op: models.FavoriteAdd},
		{ProductID: "b", Op: "bogus"},
	})
	require.ErrorIs(t, err, models.ErrInvalidRequest)

	ids, err := s.FavoriteProductIDs(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestRatingsForProductsFiltersBySet(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i, pid := range []string{"a", "b", "a", "c"} {
		require.NoError(t, s.CreateReview(ctx, &models.Review{ID: string(rune('0' + i)), ProductID: pid, Rating: i + 1}))
	}
	ratings, err := s.RatingsForProducts(ctx, []string{"a", "c"})
	require.NoError(t, err)
	require.ElementsMatch(t, []int{1, 3, 4}, ratings)

	require.ErrorIs(t, s.CreateReview(ctx, &models.Review{ID: "x", ProductID: "a", Rating: 6}), models.ErrInvalidRequest)
}
