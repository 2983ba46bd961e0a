package ratings

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/memstore"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/retry"
)

var fast = retry.Policy{MaxRetries: 2, Initial: time.Millisecond}

func seeded(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	for _, p := range []models.Product{
		{ID: "p1", SellerID: "s1"},
		{ID: "p2", SellerID: "s1"},
		{ID: "p3", SellerID: "s2"},
		{ID: "p4", SellerID: "s3"},
	} {
		p.Name, p.Price, p.Quantity, p.Visible = p.ID, decimal.NewFromInt(1), 1, true
		require.NoError(t, s.CreateProduct(ctx, &p))
	}
	reviews := []models.Review{
		{ID: "r1", ProductID: "p1", Rating: 5},
		{ID: "r2", ProductID: "p1", Rating: 3},
		{ID: "r3", ProductID: "p1", Rating: 4},
		{ID: "r4", ProductID: "p2", Rating: 1},
		{ID: "r5", ProductID: "p3", Rating: 2},
	}
	for i := range reviews {
		require.NoError(t, s.CreateReview(ctx, &reviews[i]))
	}
	return s
}

func TestAverageRating(t *testing.T) {
	ctx := context.Background()
	store := seeded(t)
	a := NewAggregator(store, store, fast)

	t.Run("SingleProduct", func(t *testing.T) {
		r, err := a.AverageRating(ctx, []string{"p1"})
		require.NoError(t, err)
		require.True(t, r.Defined)
		require.Equal(t, 3, r.Count)
		require.Equal(t, "4.0", r.String())
	})

	t.Run("NoReviewsIsUndefined", func(t *testing.T) {
		r, err := a.AverageRating(ctx, []string{"p4"})
		require.NoError(t, err)
		require.False(t, r.Defined)
		require.Equal(t, "-", r.String())
	})

	t.Run("EmptySetIsUndefined", func(t *testing.T) {
		r, err := a.AverageRating(ctx, nil)
		require.NoError(t, err)
		require.False(t, r.Defined)
	})

	t.Run("DuplicateIdsCountOnce", func(t *testing.T) {
		r, err := a.AverageRating(ctx, []string{"p1", "p1"})
		require.NoError(t, err)
		require.Equal(t, 3, r.Count)
	})

	t.Run("Seller", func(t *testing.T) {
		r, err := a.SellerRating(ctx, "s1")
		require.NoError(t, err)
		require.Equal(t, 4, r.Count)
		require.Equal(t, "3.3", r.String())

		r, err = a.SellerRating(ctx, "nobody")
		require.NoError(t, err)
		require.Equal(t, "-", r.String())
	})
}

func TestAverageRounding(t *testing.T) {
	cases := []struct {
		ratings []int
		want    string
	}{
		{[]int{5, 3, 4}, "4.0"},
		{[]int{4, 4, 5}, "4.3"},
		{[]int{5, 5, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 5}, "4.2"},
		{[]int{1, 2}, "1.5"},
		{[]int{5, 4, 4, 4}, "4.3"},
		{[]int{5}, "5.0"},
		{nil, "-"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Average(tc.ratings).String(), "ratings %v", tc.ratings)
	}
}

func TestRatingJSON(t *testing.T) {
	b, err := json.Marshal(Average([]int{5, 3, 4}))
	require.NoError(t, err)
	require.JSONEq(t, `{"average":"4.0","display":"4.0","count":3}`, string(b))

	b, err = json.Marshal(Rating{})
	require.NoError(t, err)
	require.JSONEq(t, `{"average":null,"display":"-","count":0}`, string(b))
}

type flakyReviews struct {
	mu    sync.Mutex
	fails int
	calls int
}

func (f *flakyReviews) RatingsForProducts(ctx context.Context, ids []string) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.fails {
		return nil, errors.New("connection reset")
	}
	return []int{2, 4}, nil
}

func TestAverageRatingRetriesReads(t *testing.T) {
	src := &flakyReviews{fails: 2}
	a := NewAggregator(src, nil, fast)
	r, err := a.AverageRating(context.Background(), []string{"p1"})
	require.NoError(t, err)
	require.Equal(t, "3.0", r.String())
	require.Equal(t, 3, src.calls)

	src = &flakyReviews{fails: 10}
	a = NewAggregator(src, nil, fast)
	_, err = a.AverageRating(context.Background(), []string{"p1"})
	require.ErrorContains(t, err, "connection reset")
}

func TestAverageRatingIsSafeConcurrently(t *testing.T) {
	store := seeded(t)
	a := NewAggregator(store, store, fast)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := a.AverageRating(context.Background(), []string{"p1", "p2"})
			if err != nil || r.String() != "3.3" {
				t.Errorf("got %v, %v", r, err)
			}
		}()
	}
	wg.Wait()
}
