package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionsReuseLoadedReconciler(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "a")
	s := NewSessions(store, nil, nil, fast)

	r1, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	_, err = r1.Toggle(ctx, "a")
	require.NoError(t, err)

	r2, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.Same(t, r1, r2)
	require.True(t, r2.IsFavorite("a"))

	other, err := s.Get(ctx, "u2")
	require.NoError(t, err)
	require.False(t, other.IsFavorite("a"))
}

func TestSessionsSuspendFlushes(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "a")
	s := NewSessions(store, nil, nil, fast)

	require.NoError(t, s.Suspend(ctx, "nobody"))

	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	_, _ = r.Toggle(ctx, "a")
	require.NoError(t, s.Suspend(ctx, "u1"))
	require.Equal(t, []string{"a"}, stored(t, store, "u1"))
	require.Equal(t, Clean, r.State())
}

func TestSessionsFailedLoadIsRetried(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "a")
	store.readErrs = 10
	s := NewSessions(store, nil, nil, fast)

	_, err := s.Get(ctx, "u1")
	require.Error(t, err)

	store.readErrs = 0
	r, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestSessionsFlushAllCountsFailures(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "a")
	s := NewSessions(store, nil, nil, fast)

	for _, u := range []string{"u1", "u2"} {
		r, err := s.Get(ctx, u)
		require.NoError(t, err)
		_, _ = r.Toggle(ctx, "a")
	}
	store.failWrites = true
	require.Equal(t, 2, s.FlushAll(ctx))

	store.failWrites = false
	require.Zero(t, s.FlushAll(ctx))
	require.Equal(t, []string{"a"}, stored(t, store, "u2"))
}
