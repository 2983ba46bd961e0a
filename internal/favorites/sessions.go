package favorites

import (
	"context"
	"sync"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/retry"
)

// PendingLogFactory builds the pending log for one user.
type PendingLogFactory func(userID string) PendingLog

// Sessions hands out one loaded Reconciler per user. It is owned by whoever
// serves the users (the HTTP layer) and passed to it explicitly.
type Sessions struct {
	store      Store
	notifier   Notifier
	newPending PendingLogFactory
	policy     retry.Policy

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	once sync.Once
	err  error
	r    *Reconciler
}

func NewSessions(store Store, notifier Notifier, newPending PendingLogFactory, policy retry.Policy) *Sessions {
	if newPending == nil {
		newPending = func(string) PendingLog { return NewMemoryPendingLog() }
	}
	return &Sessions{
		store:      store,
		notifier:   notifier,
		newPending: newPending,
		policy:     policy,
		sessions:   make(map[string]*session),
	}
}

// Get returns the user's session, loading it on first use.
// A failed load is not cached; the next call tries again.
func (s *Sessions) Get(ctx context.Context, userID string) (*Reconciler, error) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{r: NewReconciler(userID, s.store, s.newPending(userID), s.notifier, s.policy)}
		s.sessions[userID] = sess
	}
	s.mu.Unlock()

	sess.once.Do(func() {
		sess.err = sess.r.Load(ctx)
	})
	if sess.err != nil {
		s.mu.Lock()
		if s.sessions[userID] == sess {
			delete(s.sessions, userID)
		}
		s.mu.Unlock()
		return nil, sess.err
	}
	return sess.r, nil
}

// Suspend flushes the user's session if one is open.
func (s *Sessions) Suspend(ctx context.Context, userID string) error {
	s.mu.Lock()
	_, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	r, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	return r.OnSessionSuspend(ctx)
}

// FlushAll flushes every open session, used on shutdown. It returns the number of sessions that failed.
func (s *Sessions) FlushAll(ctx context.Context) int {
	s.mu.Lock()
	users := make([]string, 0, len(s.sessions))
	for userID := range s.sessions {
		users = append(users, userID)
	}
	s.mu.Unlock()

	failed := 0
	for _, userID := range users {
		r, err := s.Get(ctx, userID)
		if err != nil {
			continue
		}
		if err := r.Flush(ctx); err != nil {
			failed++
			obs.Logger.Error("favorites not flushed on shutdown", "user_id", userID, "pending", len(r.Pending()), "error", err)
		}
	}
	return failed
}
