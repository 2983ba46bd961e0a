package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is stored with the labels the mobile client shows to buyers.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Efectivo"
	PaymentCard PaymentMethod = "Tarjeta de crédito/débito"
)

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// ParsePaymentMethod accepts the stored labels and the short aliases "cash" and "card".
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash", strings.ToLower(string(PaymentCash)):
		return PaymentCash, nil
	case "card", strings.ToLower(string(PaymentCard)):
		return PaymentCard, nil
	}
	return "", fmt.Errorf("unknown payment method %q: %w", s, ErrInvalidRequest)
}

// Order is written once and never updated.
type Order struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productoRef"`
	SellerID      string          `json:"vendedorRef"`
	BuyerID       string          `json:"compradorRef"`
	Quantity      int             `json:"cantidad"`
	UnitPrice     decimal.Decimal `json:"precioUnitario"`
	PaymentMethod PaymentMethod   `json:"metodoPago"`
	Instructions  string          `json:"instrucciones,omitempty"`
	TotalPaid     decimal.Decimal `json:"totalPagado"`
	CreatedAt     time.Time       `json:"fecha"`
}

type CreateOrderRequest struct {
	ProductID     string `json:"productoRef" binding:"required"`
	Quantity      int    `json:"cantidad" binding:"required"`
	PaymentMethod string `json:"metodoPago" binding:"required"`
	Instructions  string `json:"instrucciones"`
}
