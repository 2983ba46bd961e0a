package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

// FavoritesRepository stores users.favoritos as one row per (user, product).
// The primary key gives set semantics, so replaying an add or remove is harmless.
type FavoritesRepository struct {
	db *sql.DB
}

func NewFavoritesRepository(database *PostgresDB) *FavoritesRepository {
	return &FavoritesRepository{db: database.Conn}
}

// FavoriteProductIDs returns the stored favorite set of a user
func (r *FavoritesRepository) FavoriteProductIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT producto_ref FROM user_favoritos WHERE usuario_ref = $1 ORDER BY producto_ref", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}

	return ids, nil
}

// ApplyFavoriteChanges replays the changes in order inside one transaction
func (r *FavoritesRepository) ApplyFavoriteChanges(ctx context.Context, userID string, changes []models.FavoriteChange) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range changes {
		switch c.Op {
		case models.FavoriteAdd:
			_, err = tx.ExecContext(ctx,
				"INSERT INTO user_favoritos (usuario_ref, producto_ref) VALUES ($1, $2) ON CONFLICT DO NOTHING",
				userID, c.ProductID)
		case models.FavoriteRemove:
			_, err = tx.ExecContext(ctx,
				"DELETE FROM user_favoritos WHERE usuario_ref = $1 AND producto_ref = $2",
				userID, c.ProductID)
		default:
			return fmt.Errorf("favorite op %q: %w", c.Op, models.ErrInvalidRequest)
		}
		if err != nil {
			return fmt.Errorf("failed to apply favorite change: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
