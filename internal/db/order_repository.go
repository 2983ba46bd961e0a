package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(database *PostgresDB) *OrderRepository {
	return &OrderRepository{db: database.Conn}
}

// CreateOrder inserts an order. There is no update or delete path.
func (r *OrderRepository) CreateOrder(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO orders (id, producto_ref, vendedor_ref, comprador_ref, cantidad,
			precio_unitario, metodo_pago, instrucciones, total_pagado, fecha)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.ProductID, o.SellerID, o.BuyerID, o.Quantity,
		o.UnitPrice, string(o.PaymentMethod), o.Instructions, o.TotalPaid, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// GetOrder returns a single order
func (r *OrderRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT id, producto_ref, vendedor_ref, comprador_ref, cantidad,
			precio_unitario, metodo_pago, instrucciones, total_pagado, fecha
		FROM orders WHERE id = $1
	`

	var (
		o      models.Order
		method string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.ProductID, &o.SellerID, &o.BuyerID, &o.Quantity,
		&o.UnitPrice, &method, &o.Instructions, &o.TotalPaid, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	o.PaymentMethod = models.PaymentMethod(method)

	return &o, nil
}
