package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlacedEvent is published after an order has been committed
type OrderPlacedEvent struct {
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	BuyerID   string          `json:"buyer_id"`
	SellerID  string          `json:"seller_id"`
	Quantity  int             `json:"quantity"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	PlacedAt  time.Time       `json:"placed_at"`
}

// NotificationEvent is handed to the notification worker, which stores it for the UI
type NotificationEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
