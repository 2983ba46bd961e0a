// Package inventory owns product stock. Nothing else in the service changes a
// product's available quantity.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
)

// StockStore must implement ReserveStock as one atomic conditional decrement
// (check and write in a single store operation), never as a read followed by a write.
type StockStore interface {
	ReserveStock(ctx context.Context, productID string, qty int) (int, error)
}

type Ledger struct {
	store StockStore
}

func NewLedger(store StockStore) *Ledger {
	return &Ledger{store: store}
}

// Reserve takes qty units of a product and returns the quantity left.
// It fails with models.ErrInsufficientStock when the stock at write time is lower
// than qty, and with models.ErrNotFound when the product does not exist.
// A failed reservation is never retried here.
func (l *Ledger) Reserve(ctx context.Context, productID string, qty int) (int, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d: %w", qty, models.ErrInvalidRequest)
	}
	if productID == "" {
		return 0, fmt.Errorf("product id is required: %w", models.ErrInvalidRequest)
	}

	remaining, err := l.store.ReserveStock(ctx, productID, qty)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientStock) || errors.Is(err, models.ErrNotFound) {
			obs.Logger.Info("reservation rejected", "product_id", productID, "quantity", qty, "reason", err)
			return 0, err
		}
		return 0, fmt.Errorf("failed to reserve stock: %w", err)
	}

	obs.Logger.Debug("stock reserved", "product_id", productID, "quantity", qty, "remaining", remaining)
	return remaining, nil
}
