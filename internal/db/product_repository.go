package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(database *PostgresDB) *ProductRepository {
	return &ProductRepository{db: database.Conn}
}

const productColumns = "id, nombre, precio, cantidad, categoria, vendedor_ref, status_view, created_at"

// GetProduct returns a single product
func (r *ProductRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	var p models.Product
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Category, &p.SellerID, &p.Visible, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

// ProductExists reports whether a product row is still present
func (r *ProductRepository) ProductExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product: %w", err)
	}
	return exists, nil
}

// ProductIDsBySeller returns the ids of every product listed by a seller, hidden ones included
func (r *ProductRepository) ProductIDsBySeller(ctx context.Context, sellerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM products WHERE vendedor_ref = $1 ORDER BY id", sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seller products: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seller products: %w", err)
	}

	return ids, nil
}

// CreateProduct inserts a new product
func (r *ProductRepository) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, nombre, precio, cantidad, categoria, vendedor_ref, status_view)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Price, p.Quantity, p.Category, p.SellerID, p.Visible).
		Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// ReserveStock decrements the quantity in a single conditional UPDATE.
// The WHERE clause makes the check and the write one atomic step on the server,
// so two buyers racing for the last unit cannot both succeed.
func (r *ProductRepository) ReserveStock(ctx context.Context, productID string, qty int) (int, error) {
	query := `
		UPDATE products
		SET cantidad = cantidad - $1
		WHERE id = $2 AND cantidad >= $1
		RETURNING cantidad
	`

	var remaining int
	err := r.db.QueryRowContext(ctx, query, qty, productID).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to reserve stock: %w", err)
	}

	// No row updated: either the product is gone or there is not enough stock
	var current int
	err = r.db.QueryRowContext(ctx, "SELECT cantidad FROM products WHERE id = $1", productID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read stock: %w", err)
	}

	return current, fmt.Errorf("product %s has %d, requested %d: %w", productID, current, qty, models.ErrInsufficientStock)
}
