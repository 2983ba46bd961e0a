package favorites

import (
	"context"
	"sync"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

// PendingLog is the ordered log of toggles not yet applied to the stored set.
// cache.RedisPendingLog is the durable implementation.
type PendingLog interface {
	Append(ctx context.Context, c models.FavoriteChange) error
	Entries(ctx context.Context) ([]models.FavoriteChange, error)
	// Trim drops the first n entries.
	Trim(ctx context.Context, n int) error
}

type MemoryPendingLog struct {
	mu      sync.Mutex
	entries []models.FavoriteChange
}

func NewMemoryPendingLog() *MemoryPendingLog {
	return &MemoryPendingLog{}
}

func (l *MemoryPendingLog) Append(ctx context.Context, c models.FavoriteChange) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, c)
	return nil
}

func (l *MemoryPendingLog) Entries(ctx context.Context) ([]models.FavoriteChange, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.FavoriteChange, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

func (l *MemoryPendingLog) Trim(ctx context.Context, n int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n >= len(l.entries) {
		l.entries = nil
		return nil
	}
	if n > 0 {
		l.entries = append([]models.FavoriteChange(nil), l.entries[n:]...)
	}
	return nil
}
