package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSelfPurchase      = errors.New("sellers cannot buy their own products")
	ErrPartialFailure    = errors.New("partial failure")
)

// PartialFailureError reports stock that was reserved for an order that was never recorded.
// It is not safe to retry: a second attempt would reserve the stock again.
type PartialFailureError struct {
	ProductID string
	BuyerID   string
	Quantity  int
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure: reserved %d of product %s for buyer %s but order was not recorded: %v",
		e.Quantity, e.ProductID, e.BuyerID, e.Err)
}

func (e *PartialFailureError) Unwrap() []error {
	return []error{ErrPartialFailure, e.Err}
}
