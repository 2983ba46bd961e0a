package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/memstore"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

type published struct {
	queue string
	body  []byte
}

type mockBroker struct {
	declared   []string
	messages   []published
	declareErr error
}

func (b *mockBroker) DeclareQueue(name string) error {
	b.declared = append(b.declared, name)
	return b.declareErr
}

func (b *mockBroker) Publish(ctx context.Context, queue string, message []byte) error {
	b.messages = append(b.messages, published{queue: queue, body: message})
	return nil
}

func TestNotificationPublisher(t *testing.T) {
	b := &mockBroker{}
	p, err := NewNotificationPublisher(b)
	require.NoError(t, err)
	require.Equal(t, []string{NotificationsQueue}, b.declared)

	require.NoError(t, p.Notify(context.Background(), "u1", "hola"))
	require.Len(t, b.messages, 1)
	require.Equal(t, NotificationsQueue, b.messages[0].queue)

	var ev models.NotificationEvent
	require.NoError(t, json.Unmarshal(b.messages[0].body, &ev))
	require.Equal(t, "u1", ev.UserID)
	require.Equal(t, "hola", ev.Message)
	require.NotEmpty(t, ev.ID)
	require.False(t, ev.CreatedAt.IsZero())
}

func TestOrderPublisher(t *testing.T) {
	b := &mockBroker{}
	p, err := NewOrderPublisher(b)
	require.NoError(t, err)

	err = p.PublishOrderPlaced(context.Background(), models.OrderPlacedEvent{
		OrderID: "o1", ProductID: "p1", Quantity: 2, TotalPaid: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	require.Equal(t, OrderPlacedQueue, b.messages[0].queue)

	var ev models.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(b.messages[0].body, &ev))
	require.Equal(t, "o1", ev.OrderID)
	require.True(t, ev.TotalPaid.Equal(decimal.NewFromInt(20)))
}

func TestPublisherDeclareFailure(t *testing.T) {
	_, err := NewOrderPublisher(&mockBroker{declareErr: errors.New("channel closed")})
	require.Error(t, err)
}

func TestStoreNotifier(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, NewStoreNotifier(store).Notify(ctx, "u1", "pedido listo"))

	got, err := store.NotificationsFor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "pedido listo", got[0].Message)
	require.False(t, got[0].Read)
}
