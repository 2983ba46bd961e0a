// Package messaging wraps one RabbitMQ connection and channel. Publishing
// runs in confirm mode: Publish returns only after the broker took the message.
package messaging

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
)

var (
	ErrNacked = errors.New("broker rejected message")
	ErrClosed = errors.New("rabbitmq connection closed")
)

// prefetch caps unacknowledged deliveries per consumer.
const prefetch = 16

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQ(host string, port int, user, password string) (*RabbitMQ, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", user, password, host, port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	obs.Logger.Info("connected to rabbitmq", "host", host, "port", port, "confirms", true)

	return &RabbitMQ{
		conn:    conn,
		channel: channel,
	}, nil
}

// DeclareQueue creates a durable queue if it doesn't exist
func (r *RabbitMQ) DeclareQueue(name string) error {
	_, err := r.channel.QueueDeclare(
		name,  // queue name
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	obs.Logger.Debug("queue declared", "queue", name)
	return nil
}

// Publish sends a persistent JSON message and waits for the broker's confirm
// or for ctx to end.
func (r *RabbitMQ) Publish(ctx context.Context, queue string, message []byte) error {
	confirm, err := r.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		"",    // exchange
		queue, // routing key (queue name)
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         message,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	// confirm is nil when the channel is not in confirm mode
	if confirm != nil {
		if err := awaitConfirm(ctx, confirm); err != nil {
			return fmt.Errorf("publish to %s not confirmed: %w", queue, err)
		}
	}

	obs.Logger.Debug("message published", "queue", queue, "bytes", len(message))
	return nil
}

type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

func awaitConfirm(ctx context.Context, c confirmation) error {
	acked, err := c.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrNacked
	}
	return nil
}

// Consume receives messages from a queue with manual acks and a bounded prefetch
func (r *RabbitMQ) Consume(queue string) (<-chan amqp.Delivery, error) {
	if err := r.channel.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	messages, err := r.channel.Consume(
		queue, // queue name
		"",    // consumer tag
		false, // auto-ack (false = manual ack)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume %s: %w", queue, err)
	}

	obs.Logger.Info("consuming queue", "queue", queue, "prefetch", prefetch)
	return messages, nil
}

// Check reports whether the connection and channel are still open.
func (r *RabbitMQ) Check(ctx context.Context) error {
	if r.conn == nil || r.conn.IsClosed() || r.channel == nil || r.channel.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close closes the channel and the connection
func (r *RabbitMQ) Close() {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}
