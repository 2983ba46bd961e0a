// Package orders turns a purchase request into a recorded order.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/retry"
)

type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

type Reserver interface {
	Reserve(ctx context.Context, productID string, qty int) (int, error)
}

type OrderWriter interface {
	CreateOrder(ctx context.Context, o *models.Order) error
}

// Notifier delivers a message to a user. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

// EventPublisher announces committed orders to other services.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error
}

type PlaceOrderRequest struct {
	BuyerID       string
	ProductID     string
	Quantity      int
	PaymentMethod models.PaymentMethod
	Instructions  string
}

type Coordinator struct {
	products  ProductReader
	ledger    Reserver
	orders    OrderWriter
	notifier  Notifier
	publisher EventPublisher
	policy    retry.Policy
	now       func() time.Time
	newID     func() string

	notifyTimeout time.Duration
	announcing    sync.WaitGroup
}

// DefaultNotifyTimeout bounds the post-commit notifications and event publish of one order.
const DefaultNotifyTimeout = 5 * time.Second

type Option func(*Coordinator)

func WithPublisher(p EventPublisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

func WithReadRetry(p retry.Policy) Option {
	return func(c *Coordinator) { c.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.notifyTimeout = d
		}
	}
}

func NewCoordinator(products ProductReader, ledger Reserver, orders OrderWriter, notifier Notifier, opts ...Option) *Coordinator {
	c := &Coordinator{
		products: products,
		ledger:   ledger,
		orders:   orders,
		notifier: notifier,
		policy:   retry.DefaultPolicy(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,

		notifyTimeout: DefaultNotifyTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlaceOrder reserves stock and then records the order.
//
// Validation, product lookup and the self-purchase check have no side effects.
// If the reservation fails nothing is written. Once stock is reserved the work
// continues even if ctx is cancelled; a failure to record the order at that
// point is returned as *models.PartialFailureError and must not be retried.
func (c *Coordinator) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	var product *models.Product
	err := retry.Read(ctx, c.policy, "get_product", func(ctx context.Context) error {
		p, err := c.products.GetProduct(ctx, req.ProductID)
		product = p
		return err
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("failed to load product: %w", err)
	}
	if !product.Visible {
		return "", fmt.Errorf("product %s is not listed: %w", req.ProductID, models.ErrNotFound)
	}
	if product.SellerID == req.BuyerID {
		return "", models.ErrSelfPurchase
	}

	ctx = context.WithoutCancel(ctx)

	if _, err := c.ledger.Reserve(ctx, req.ProductID, req.Quantity); err != nil {
		return "", err
	}

	order := &models.Order{
		ID:            c.newID(),
		ProductID:     product.ID,
		SellerID:      product.SellerID,
		BuyerID:       req.BuyerID,
		Quantity:      req.Quantity,
		UnitPrice:     product.Price,
		PaymentMethod: req.PaymentMethod,
		Instructions:  strings.TrimSpace(req.Instructions),
		TotalPaid:     product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		CreatedAt:     c.now(),
	}
	if err := c.orders.CreateOrder(ctx, order); err != nil {
		perr := &models.PartialFailureError{
			ProductID: req.ProductID,
			BuyerID:   req.BuyerID,
			Quantity:  req.Quantity,
			Err:       err,
		}
		obs.Logger.Error("stock reserved but order not recorded",
			"kind", "partial_failure",
			"product_id", req.ProductID,
			"buyer_id", req.BuyerID,
			"quantity", req.Quantity,
			"error", err,
		)
		return "", perr
	}

	obs.Logger.Info("order placed",
		"order_id", order.ID,
		"product_id", order.ProductID,
		"buyer_id", order.BuyerID,
		"quantity", order.Quantity,
		"total_paid", order.TotalPaid.StringFixed(2),
	)

	c.announcing.Add(1)
	go func() {
		defer c.announcing.Done()
		actx, cancel := context.WithTimeout(ctx, c.notifyTimeout)
		defer cancel()
		c.announce(actx, order, product)
	}()
	return order.ID, nil
}

// Wait blocks until the notifications of every placed order have been sent or
// have timed out. Call it on shutdown.
func (c *Coordinator) Wait() {
	c.announcing.Wait()
}

// announce sends the post-commit side effects in the background. Their
// failures are logged only.
func (c *Coordinator) announce(ctx context.Context, order *models.Order, product *models.Product) {
	buyerMsg := fmt.Sprintf("Tu pedido de %d x %s fue realizado. Total: $%s", order.Quantity, product.Name, order.TotalPaid.StringFixed(2))
	if err := c.notifier.Notify(ctx, order.BuyerID, buyerMsg); err != nil {
		obs.Logger.Warn("failed to notify buyer", "order_id", order.ID, "error", err)
	}

	sellerMsg := fmt.Sprintf("Vendiste %d x %s", order.Quantity, product.Name)
	if err := c.notifier.Notify(ctx, order.SellerID, sellerMsg); err != nil {
		obs.Logger.Warn("failed to notify seller", "order_id", order.ID, "error", err)
	}

	if c.publisher == nil {
		return
	}
	event := models.OrderPlacedEvent{
		OrderID:   order.ID,
		ProductID: order.ProductID,
		BuyerID:   order.BuyerID,
		SellerID:  order.SellerID,
		Quantity:  order.Quantity,
		TotalPaid: order.TotalPaid,
		PlacedAt:  order.CreatedAt,
	}
	if err := c.publisher.PublishOrderPlaced(ctx, event); err != nil {
		obs.Logger.Warn("failed to publish order placed event", "order_id", order.ID, "error", err)
	}
}

func validate(req PlaceOrderRequest) error {
	switch {
	case req.BuyerID == "":
		return fmt.Errorf("buyer is required: %w", models.ErrInvalidRequest)
	case req.ProductID == "":
		return fmt.Errorf("product is required: %w", models.ErrInvalidRequest)
	case req.Quantity <= 0:
		return fmt.Errorf("quantity must be positive, got %d: %w", req.Quantity, models.ErrInvalidRequest)
	case !req.PaymentMethod.Valid():
		return fmt.Errorf("unknown payment method %q: %w", req.PaymentMethod, models.ErrInvalidRequest)
	}
	return nil
}
