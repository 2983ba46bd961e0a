// Package favorites keeps a user's favorite products responsive on the client
// side and writes the accumulated toggles to the record store in batches.
package favorites

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/retry"
)

type State string

const (
	Clean State = "clean"
	Dirty State = "dirty"
)

// Store is the stored side of a user's favorites.
type Store interface {
	FavoriteProductIDs(ctx context.Context, userID string) ([]string, error)
	ApplyFavoriteChanges(ctx context.Context, userID string, changes []models.FavoriteChange) error
	ProductExists(ctx context.Context, id string) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

// Reconciler is one user's favorites session. Toggle only touches local state;
// Flush replays the pending log against the store.
type Reconciler struct {
	userID   string
	store    Store
	pending  PendingLog
	notifier Notifier
	policy   retry.Policy

	mu    sync.Mutex
	local map[string]struct{}
	// queued mirrors the pending log; reads of session state never hit the log's backing store.
	queued []models.FavoriteChange

	flushMu sync.Mutex
}

func NewReconciler(userID string, store Store, pending PendingLog, notifier Notifier, policy retry.Policy) *Reconciler {
	if pending == nil {
		pending = NewMemoryPendingLog()
	}
	return &Reconciler{
		userID:   userID,
		store:    store,
		pending:  pending,
		notifier: notifier,
		policy:   policy,
		local:    make(map[string]struct{}),
	}
}

func (r *Reconciler) UserID() string { return r.userID }

// Load reads the stored set and drops references to products that no longer
// exist, both locally and in the store. Entries left in a durable pending log
// by an earlier session are kept and re-applied to the local view.
func (r *Reconciler) Load(ctx context.Context) error {
	var ids []string
	err := retry.Read(ctx, r.policy, "favorites_load", func(ctx context.Context) error {
		var err error
		ids, err = r.store.FavoriteProductIDs(ctx, r.userID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	live := make(map[string]struct{}, len(ids))
	var dangling []models.FavoriteChange
	for _, id := range ids {
		var exists bool
		err := retry.Read(ctx, r.policy, "product_exists", func(ctx context.Context) error {
			var err error
			exists, err = r.store.ProductExists(ctx, id)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to check favorite product %s: %w", id, err)
		}
		if exists {
			live[id] = struct{}{}
		} else {
			dangling = append(dangling, models.FavoriteChange{ProductID: id, Op: models.FavoriteRemove})
		}
	}

	if len(dangling) > 0 {
		if err := r.store.ApplyFavoriteChanges(ctx, r.userID, dangling); err != nil {
			// The local view is still correct; the next Load will try again.
			obs.Logger.Warn("failed to remove deleted products from favorites", "user_id", r.userID, "count", len(dangling), "error", err)
		} else {
			obs.Logger.Info("removed deleted products from favorites", "user_id", r.userID, "count", len(dangling))
		}
	}

	leftover, err := r.pending.Entries(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pending favorites: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.local = live
	r.queued = leftover
	for _, c := range leftover {
		apply(r.local, c)
	}
	return nil
}

// Toggle flips the local favorite state of a product and reports the new state.
func (r *Reconciler) Toggle(ctx context.Context, productID string) (bool, error) {
	if productID == "" {
		return false, fmt.Errorf("product id is required: %w", models.ErrInvalidRequest)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c := models.FavoriteChange{ProductID: productID, Op: models.FavoriteAdd}
	if _, ok := r.local[productID]; ok {
		c.Op = models.FavoriteRemove
	}
	if err := r.pending.Append(ctx, c); err != nil {
		return r.has(productID), fmt.Errorf("failed to record favorite change: %w", err)
	}
	r.queued = append(r.queued, c)
	apply(r.local, c)
	return c.Op == models.FavoriteAdd, nil
}

func (r *Reconciler) IsFavorite(productID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.has(productID)
}

func (r *Reconciler) has(productID string) bool {
	_, ok := r.local[productID]
	return ok
}

// Favorites returns the local set, sorted.
func (r *Reconciler) Favorites() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.local))
	for id := range r.local {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Reconciler) Pending() []models.FavoriteChange {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.FavoriteChange, len(r.queued))
	copy(out, r.queued)
	return out
}

func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queued) == 0 {
		return Clean
	}
	return Dirty
}

// Flush applies the pending log to the store in order and clears what it applied.
// On failure the log is left untouched so the next Flush replays the same changes;
// replaying is harmless because adding or removing a set member is idempotent.
// Toggles made while a flush is in flight stay pending for the next one.
func (r *Reconciler) Flush(ctx context.Context) error {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	r.mu.Lock()
	batch := make([]models.FavoriteChange, len(r.queued))
	copy(batch, r.queued)
	r.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	write, missing, err := r.dropMissing(ctx, batch)
	if err != nil {
		obs.Logger.Warn("favorites flush failed, keeping pending log", "user_id", r.userID, "pending", len(batch), "error", err)
		return fmt.Errorf("failed to flush favorites: %w", err)
	}

	if err := r.store.ApplyFavoriteChanges(ctx, r.userID, write); err != nil {
		obs.Logger.Warn("favorites flush failed, keeping pending log", "user_id", r.userID, "pending", len(batch), "error", err)
		return fmt.Errorf("failed to flush favorites: %w", err)
	}

	r.mu.Lock()
	r.queued = r.queued[len(batch):]
	if len(r.queued) == 0 {
		r.queued = nil
	}
	for _, id := range missing {
		delete(r.local, id)
	}
	r.mu.Unlock()

	if err := r.pending.Trim(ctx, len(batch)); err != nil {
		// The store already has these changes; replaying them later is a no-op.
		obs.Logger.Warn("failed to trim pending favorites", "user_id", r.userID, "error", err)
	}

	obs.Logger.Info("favorites flushed", "user_id", r.userID, "changes", len(write), "dropped", len(missing))
	r.notifyAdded(ctx, write)
	return nil
}

// dropMissing removes additions of products that no longer exist, so a flush
// never stores a dangling favorite. It returns the changes to write and the
// ids that were dropped.
func (r *Reconciler) dropMissing(ctx context.Context, batch []models.FavoriteChange) ([]models.FavoriteChange, []string, error) {
	exists := make(map[string]bool)
	var missing []string
	for _, c := range batch {
		if c.Op != models.FavoriteAdd {
			continue
		}
		if _, checked := exists[c.ProductID]; checked {
			continue
		}
		var ok bool
		err := retry.Read(ctx, r.policy, "product_exists", func(ctx context.Context) error {
			var err error
			ok, err = r.store.ProductExists(ctx, c.ProductID)
			return err
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check favorite product %s: %w", c.ProductID, err)
		}
		exists[c.ProductID] = ok
		if !ok {
			missing = append(missing, c.ProductID)
		}
	}
	if len(missing) == 0 {
		return batch, nil, nil
	}

	write := make([]models.FavoriteChange, 0, len(batch))
	for _, c := range batch {
		if c.Op == models.FavoriteAdd && !exists[c.ProductID] {
			continue
		}
		write = append(write, c)
	}
	return write, missing, nil
}

// OnSessionSuspend is raised by the caller when the user's session goes to the
// background. It is the batching point for favorite writes.
func (r *Reconciler) OnSessionSuspend(ctx context.Context) error {
	return r.Flush(ctx)
}

func (r *Reconciler) notifyAdded(ctx context.Context, batch []models.FavoriteChange) {
	if r.notifier == nil {
		return
	}
	for _, id := range netAdded(batch) {
		if err := r.notifier.Notify(ctx, r.userID, fmt.Sprintf("Agregaste el producto %s a tus favoritos", id)); err != nil {
			obs.Logger.Warn("failed to notify favorite added", "user_id", r.userID, "product_id", id, "error", err)
		}
	}
}

// netAdded returns the products whose last change in the batch is an Add, in first-seen order.
func netAdded(batch []models.FavoriteChange) []string {
	last := make(map[string]models.FavoriteOp, len(batch))
	var order []string
	for _, c := range batch {
		if _, seen := last[c.ProductID]; !seen {
			order = append(order, c.ProductID)
		}
		last[c.ProductID] = c.Op
	}
	out := make([]string, 0, len(order))
	for _, id := range order {
		if last[id] == models.FavoriteAdd {
			out = append(out, id)
		}
	}
	return out
}

func apply(set map[string]struct{}, c models.FavoriteChange) {
	switch c.Op {
	case models.FavoriteAdd:
		set[c.ProductID] = struct{}{}
	case models.FavoriteRemove:
		delete(set, c.ProductID)
	}
}
