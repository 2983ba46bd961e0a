package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
)

var errMalformed = errors.New("malformed notification event")

type NotificationWriter interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// NotificationConsumer stores notification events so the client can list them.
type NotificationConsumer struct {
	repo NotificationWriter
}

func NewNotificationConsumer(repo NotificationWriter) *NotificationConsumer {
	return &NotificationConsumer{repo: repo}
}

// Handle stores one event. Storage is keyed by the event id, so redelivery is harmless.
func (c *NotificationConsumer) Handle(ctx context.Context, body []byte) error {
	var event models.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if event.ID == "" || event.UserID == "" {
		return fmt.Errorf("%w: missing id or user", errMalformed)
	}

	return c.repo.CreateNotification(ctx, &models.Notification{
		ID:        event.ID,
		UserID:    event.UserID,
		Message:   event.Message,
		CreatedAt: event.CreatedAt,
	})
}

// ProcessNotifications handles deliveries until the channel closes or ctx is done
func (c *NotificationConsumer) ProcessNotifications(ctx context.Context, messages <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			c.process(ctx, msg)
		}
	}
}

func (c *NotificationConsumer) process(ctx context.Context, msg amqp.Delivery) {
	err := c.Handle(ctx, msg.Body)
	switch {
	case err == nil:
		if err := msg.Ack(false); err != nil {
			obs.Logger.Warn("failed to ack notification", "error", err)
		}
	case errors.Is(err, errMalformed):
		obs.Logger.Error("dropping notification event", "error", err)
		msg.Nack(false, false) // Don't requeue bad messages
	default:
		obs.Logger.Warn("failed to store notification, requeueing", "error", err)
		msg.Nack(false, true)
	}
}
