package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(database *PostgresDB) *ReviewRepository {
	return &ReviewRepository{db: database.Conn}
}

// CreateReview appends a review
func (r *ReviewRepository) CreateReview(ctx context.Context, rv *models.Review) error {
	query := `
		INSERT INTO reviews (id, producto_ref, usuario_ref, calificacion_resena, comentario)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING fecha_resena
	`
	err := r.db.QueryRowContext(ctx, query, rv.ID, rv.ProductID, rv.AuthorID, rv.Rating, rv.Comment).
		Scan(&rv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

// RatingsForProducts returns the rating of every review of the given products
func (r *ReviewRepository) RatingsForProducts(ctx context.Context, productIDs []string) ([]int, error) {
	query := "SELECT calificacion_resena FROM reviews WHERE producto_ref = ANY($1)"

	rows, err := r.db.QueryContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	ratings := make([]int, 0)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		ratings = append(ratings, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}

	return ratings, nil
}
