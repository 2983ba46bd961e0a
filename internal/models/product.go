package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"nombre"`
	Price     decimal.Decimal `json:"precio"`
	Quantity  int             `json:"cantidad"`
	Category  string          `json:"categoria"`
	SellerID  string          `json:"vendedorRef"`
	Visible   bool            `json:"statusView"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateProductRequest is a seller listing a product. The seller is the current user.
type CreateProductRequest struct {
	Name     string          `json:"nombre" binding:"required"`
	Price    decimal.Decimal `json:"precio"`
	Quantity int             `json:"cantidad" binding:"gte=0"`
	Category string          `json:"categoria"`
	Hidden   bool            `json:"oculto"`
}
