package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(database *PostgresDB) *NotificationRepository {
	return &NotificationRepository{db: database.Conn}
}

// CreateNotification stores a notification. Redelivered events with the same id are ignored.
func (r *NotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, usuario_ref, mensaje, fecha, leida)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Message, n.CreatedAt, n.Read); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}
