// Package handlers exposes the marketplace operations over HTTP.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/favorites"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/orders"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/ratings"
)

type ProductReader interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

type ProductWriter interface {
	CreateProduct(ctx context.Context, p *models.Product) error
}

type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
}

type ReviewWriter interface {
	CreateReview(ctx context.Context, r *models.Review) error
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req orders.PlaceOrderRequest) (string, error)
}

type RatingReader interface {
	AverageRating(ctx context.Context, productIDs []string) (ratings.Rating, error)
	SellerRating(ctx context.Context, sellerID string) (ratings.Rating, error)
}

// Checker is a backing service probed by /health.
type Checker interface {
	Check(ctx context.Context) error
}

const checkTimeout = 2 * time.Second

// Deps are the collaborators behind the HTTP surface.
type Deps struct {
	ServiceName string
	Checks      map[string]Checker
	Products    ProductReader
	Catalog     ProductWriter
	Orders      OrderReader
	Reviews     ReviewWriter
	Placer      OrderPlacer
	Favorites   *favorites.Sessions
	Ratings     RatingReader
}

type MarketHandler struct {
	Deps
}

func NewMarketHandler(deps Deps) *MarketHandler {
	return &MarketHandler{Deps: deps}
}

// NewRouter builds the gin engine with middleware and every route registered.
func NewRouter(h *MarketHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog())
	h.Register(r)
	return r
}

func (h *MarketHandler) Register(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/ratings", h.AverageRating)
	r.GET("/sellers/:id/rating", h.SellerRating)

	authed := r.Group("", RequireUser())
	authed.POST("/products", h.CreateProduct)
	authed.POST("/products/:id/reviews", h.CreateReview)
	authed.POST("/orders", h.PlaceOrder)
	authed.GET("/orders/:id", h.GetOrder)
	authed.GET("/favorites", h.ListFavorites)
	authed.POST("/favorites/:productId/toggle", h.ToggleFavorite)
	authed.POST("/favorites/flush", h.FlushFavorites)
}

// HealthCheck returns server status and the state of each backing service
func (h *MarketHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	statuses := make(map[string]string, len(h.Checks))
	allHealthy := true
	for name, checker := range h.Checks {
		if err := checker.Check(ctx); err != nil {
			statuses[name] = "unhealthy"
			allHealthy = false
			obs.Logger.Warn("health check failed", "dependency", name, "error", err)
		} else {
			statuses[name] = "healthy"
		}
	}

	status := "healthy"
	if !allHealthy {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"service":      h.ServiceName,
		"dependencies": statuses,
	})
}

// GetProduct returns a listed product. Sellers can also see their hidden ones.
func (h *MarketHandler) GetProduct(c *gin.Context) {
	p, err := h.Products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !p.Visible && p.SellerID != strings.TrimSpace(c.GetHeader(HeaderUserID)) {
		respondError(c, models.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProduct lists a new product for the current user
func (h *MarketHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Price.IsNegative() {
		badRequest(c, "precio must not be negative")
		return
	}

	p := &models.Product{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Quantity: req.Quantity,
		Category: req.Category,
		SellerID: currentUser(c),
		Visible:  !req.Hidden,
	}
	if err := h.Catalog.CreateProduct(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// CreateReview appends a review of a product by the current user
func (h *MarketHandler) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	productID := c.Param("id")
	if _, err := h.Products.GetProduct(ctx, productID); err != nil {
		respondError(c, err)
		return
	}

	rv := &models.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		AuthorID:  currentUser(c),
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}
	if err := h.Reviews.CreateReview(ctx, rv); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// PlaceOrder buys a product for the current user
func (h *MarketHandler) PlaceOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	method, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := h.Placer.PlaceOrder(c.Request.Context(), orders.PlaceOrderRequest{
		BuyerID:       currentUser(c),
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		PaymentMethod: method,
		Instructions:  req.Instructions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", "/orders/"+id)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetOrder returns an order to its buyer or seller. Anyone else gets 404.
func (h *MarketHandler) GetOrder(c *gin.Context) {
	o, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	user := currentUser(c)
	if o.BuyerID != user && o.SellerID != user {
		respondError(c, models.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, o)
}

type favoritesResponse struct {
	Favorites []string        `json:"favorites"`
	State     favorites.State `json:"state"`
	Pending   int             `json:"pending"`
}

func favoritesView(r *favorites.Reconciler) favoritesResponse {
	return favoritesResponse{
		Favorites: r.Favorites(),
		State:     r.State(),
		Pending:   len(r.Pending()),
	}
}

// ListFavorites returns the session's local view, including unflushed toggles
func (h *MarketHandler) ListFavorites(c *gin.Context) {
	r, err := h.Favorites.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, favoritesView(r))
}

func (h *MarketHandler) ToggleFavorite(c *gin.Context) {
	ctx := c.Request.Context()
	r, err := h.Favorites.Get(ctx, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	productID := c.Param("productId")
	favorited, err := r.Toggle(ctx, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": productID, "favorited": favorited, "state": r.State()})
}

// FlushFavorites is sent by the client when the favorites screen loses focus
func (h *MarketHandler) FlushFavorites(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)
	if err := h.Favorites.Suspend(ctx, user); err != nil {
		respondError(c, err)
		return
	}
	r, err := h.Favorites.Get(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, favoritesView(r))
}

// AverageRating accepts repeated or comma separated product_id parameters
func (h *MarketHandler) AverageRating(c *gin.Context) {
	ids := []string{}
	for _, v := range c.QueryArray("product_id") {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	rating, err := h.Ratings.AverageRating(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productIds": ids, "rating": rating})
}

func (h *MarketHandler) SellerRating(c *gin.Context) {
	sellerID := c.Param("id")
	rating, err := h.Ratings.SellerRating(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sellerId": sellerID, "rating": rating})
}
