// Package memstore is an in-process record store with the same contracts as the
// PostgreSQL repositories. It backs tests and the STORE_DRIVER=memory mode.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

type Store struct {
	mu            sync.RWMutex
	products      map[string]models.Product
	orders        map[string]models.Order
	reviews       []models.Review
	favorites     map[string]map[string]struct{}
	notifications []models.Notification
}

func New() *Store {
	return &Store{
		products:  make(map[string]models.Product),
		orders:    make(map[string]models.Order),
		favorites: make(map[string]map[string]struct{}),
	}
}

// Products

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" || p.Quantity < 0 {
		return fmt.Errorf("create product: %w", models.ErrInvalidRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; ok {
		return fmt.Errorf("product %s already exists: %w", p.ID, models.ErrInvalidRequest)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.products[p.ID] = *p
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	cp := p
	return &cp, nil
}

func (s *Store) ProductExists(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.products[id]
	return ok, nil
}

func (s *Store) ProductIDsBySeller(ctx context.Context, sellerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0)
	for id, p := range s.products {
		if p.SellerID == sellerID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteProduct removes a product the way an external admin tool would.
// Favorites and reviews that point to it are left dangling on purpose.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

// ReserveStock checks and decrements under one write lock, so concurrent
// reservations can never take the quantity below zero.
func (s *Store) ReserveStock(ctx context.Context, productID string, qty int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return 0, fmt.Errorf("product %s: %w", productID, models.ErrNotFound)
	}
	if p.Quantity < qty {
		return p.Quantity, fmt.Errorf("product %s has %d, requested %d: %w", productID, p.Quantity, qty, models.ErrInsufficientStock)
	}
	p.Quantity -= qty
	s.products[productID] = p
	return p.Quantity, nil
}

// Orders

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("order %s already exists", o.ID)
	}
	s.orders[o.ID] = *o
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	cp := o
	return &cp, nil
}

func (s *Store) CountOrders() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Reviews

func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating %d out of range: %w", r.Rating, models.ErrInvalidRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, *r)
	return nil
}

func (s *Store) RatingsForProducts(ctx context.Context, productIDs []string) ([]int, error) {
	want := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		want[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ratings := make([]int, 0)
	for _, r := range s.reviews {
		if _, ok := want[r.ProductID]; ok {
			ratings = append(ratings, r.Rating)
		}
	}
	return ratings, nil
}

// Favorites

func (s *Store) FavoriteProductIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.favorites[userID]))
	for id := range s.favorites[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ApplyFavoriteChanges applies the changes in order as one atomic step.
func (s *Store) ApplyFavoriteChanges(ctx context.Context, userID string, changes []models.FavoriteChange) error {
	for _, c := range changes {
		if c.Op != models.FavoriteAdd && c.Op != models.FavoriteRemove {
			return fmt.Errorf("favorite op %q: %w", c.Op, models.ErrInvalidRequest)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.favorites[userID]
	if !ok {
		set = make(map[string]struct{})
		s.favorites[userID] = set
	}
	for _, c := range changes {
		if c.Op == models.FavoriteAdd {
			set[c.ProductID] = struct{}{}
		} else {
			delete(set, c.ProductID)
		}
	}
	return nil
}

// Notifications

// CreateNotification ignores a notification whose id is already stored.
func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.notifications {
		if n.ID != "" && existing.ID == n.ID {
			return nil
		}
	}
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *Store) NotificationsFor(ctx context.Context, userID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}
