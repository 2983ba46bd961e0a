package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

const NotificationsQueue = "notifications"

// NotificationPublisher hands notifications to the notification worker through RabbitMQ.
type NotificationPublisher struct {
	mq  Broker
	now func() time.Time
}

func NewNotificationPublisher(mq Broker) (*NotificationPublisher, error) {
	if err := mq.DeclareQueue(NotificationsQueue); err != nil {
		return nil, err
	}

	return &NotificationPublisher{mq: mq, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Notify publishes a notification event for userID
func (p *NotificationPublisher) Notify(ctx context.Context, userID, message string) error {
	event := models.NotificationEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		CreatedAt: p.now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	return p.mq.Publish(ctx, NotificationsQueue, data)
}

type NotificationWriter interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// StoreNotifier writes notifications straight to the record store.
// It is used when no broker is configured.
type StoreNotifier struct {
	repo NotificationWriter
}

func NewStoreNotifier(repo NotificationWriter) *StoreNotifier {
	return &StoreNotifier{repo: repo}
}

func (n *StoreNotifier) Notify(ctx context.Context, userID, message string) error {
	return n.repo.CreateNotification(ctx, &models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
}
