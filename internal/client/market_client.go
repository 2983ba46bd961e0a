package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/retry"
)

// MarketClient calls the marketplace core over HTTP for other services.
type MarketClient struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
}

// Rating is the wire form of a rating; Average is nil when there are no reviews.
type Rating struct {
	Average *string `json:"average"`
	Display string  `json:"display"`
	Count   int     `json:"count"`
}

// APIError is a non-2xx response. It unwraps to the matching models sentinel.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketplace returned status %d (%s): %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case "invalid_request":
		return models.ErrInvalidRequest
	case "not_found":
		return models.ErrNotFound
	case "insufficient_stock":
		return models.ErrInsufficientStock
	case "self_purchase":
		return models.ErrSelfPurchase
	case "partial_failure":
		return models.ErrPartialFailure
	}
	return nil
}

func NewMarketClient(baseURL string, policy retry.Policy) *MarketClient {
	return &MarketClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		policy: policy,
	}
}

// PlaceOrder buys a product on behalf of buyerID. It is never retried.
func (c *MarketClient) PlaceOrder(ctx context.Context, buyerID string, req models.CreateOrderRequest) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", buyerID, req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// GetProduct fetches a product from the marketplace
func (c *MarketClient) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	err := retry.Read(ctx, c.policy, "client_get_product", func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(productID), "", nil, &product)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductRating returns the average rating over the given products
func (c *MarketClient) ProductRating(ctx context.Context, productIDs ...string) (Rating, error) {
	q := url.Values{}
	for _, id := range productIDs {
		q.Add("product_id", id)
	}
	return c.rating(ctx, "/ratings?"+q.Encode())
}

func (c *MarketClient) SellerRating(ctx context.Context, sellerID string) (Rating, error) {
	return c.rating(ctx, "/sellers/"+url.PathEscape(sellerID)+"/rating")
}

func (c *MarketClient) rating(ctx context.Context, path string) (Rating, error) {
	var out struct {
		Rating Rating `json:"rating"`
	}
	err := retry.Read(ctx, c.policy, "client_rating", func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, path, "", nil, &out)
	})
	return out.Rating, err
}

func (c *MarketClient) do(ctx context.Context, method, path, userID string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call marketplace: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			apiErr.Code, apiErr.Message = eb.Code, eb.Error
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
