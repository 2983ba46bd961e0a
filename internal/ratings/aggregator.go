// Package ratings derives average ratings from reviews on demand. It keeps no
// state, so calls can be repeated and run concurrently.
package ratings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/retry"
)

type ReviewSource interface {
	RatingsForProducts(ctx context.Context, productIDs []string) ([]int, error)
}

type Catalog interface {
	ProductIDsBySeller(ctx context.Context, sellerID string) ([]string, error)
}

// Rating is the mean of a review set. The mean of no reviews is undefined, not zero.
type Rating struct {
	Value   decimal.Decimal
	Count   int
	Defined bool
}

// String renders the rating with one decimal, or "-" when there are no reviews.
func (r Rating) String() string {
	if !r.Defined {
		return "-"
	}
	return r.Value.StringFixed(1)
}

func (r Rating) MarshalJSON() ([]byte, error) {
	out := struct {
		Average *string `json:"average"`
		Display string  `json:"display"`
		Count   int     `json:"count"`
	}{Display: r.String(), Count: r.Count}
	if r.Defined {
		v := r.Value.StringFixed(1)
		out.Average = &v
	}
	return json.Marshal(out)
}

type Aggregator struct {
	reviews ReviewSource
	catalog Catalog
	policy  retry.Policy
}

func NewAggregator(reviews ReviewSource, catalog Catalog, policy retry.Policy) *Aggregator {
	return &Aggregator{reviews: reviews, catalog: catalog, policy: policy}
}

// AverageRating averages every review of the given products.
// Pass one id for a product rating or all of a seller's ids for a seller rating.
func (a *Aggregator) AverageRating(ctx context.Context, productIDs []string) (Rating, error) {
	ids := dedupe(productIDs)
	if len(ids) == 0 {
		return Rating{}, nil
	}

	var ratings []int
	err := retry.Read(ctx, a.policy, "ratings_for_products", func(ctx context.Context) error {
		var err error
		ratings, err = a.reviews.RatingsForProducts(ctx, ids)
		return err
	})
	if err != nil {
		return Rating{}, fmt.Errorf("failed to load reviews: %w", err)
	}

	return Average(ratings), nil
}

// SellerRating averages the reviews of every product the seller has listed.
func (a *Aggregator) SellerRating(ctx context.Context, sellerID string) (Rating, error) {
	var ids []string
	err := retry.Read(ctx, a.policy, "seller_products", func(ctx context.Context) error {
		var err error
		ids, err = a.catalog.ProductIDsBySeller(ctx, sellerID)
		return err
	})
	if err != nil {
		return Rating{}, fmt.Errorf("failed to load seller products: %w", err)
	}
	return a.AverageRating(ctx, ids)
}

// Average returns the arithmetic mean rounded half away from zero to one decimal.
func Average(ratings []int) Rating {
	if len(ratings) == 0 {
		return Rating{}
	}
	var sum int64
	for _, v := range ratings {
		sum += int64(v)
	}
	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(ratings))))
	return Rating{Value: mean.Round(1), Count: len(ratings), Defined: true}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
