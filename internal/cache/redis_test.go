package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisCacheRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	c := NewRedisCacheFromClient(client, time.Minute)

	require.NoError(t, c.Set(ctx, "product:p1", models.Product{ID: "p1", Name: "Tacos", Quantity: 3}))

	var got models.Product
	require.NoError(t, c.Get(ctx, "product:p1", &got))
	require.Equal(t, "Tacos", got.Name)
	require.Equal(t, 3, got.Quantity)

	mr.FastForward(2 * time.Minute)
	require.ErrorIs(t, c.Get(ctx, "product:p1", &got), redis.Nil)
}

func TestRedisCacheDelete(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	c := NewRedisCacheFromClient(client, time.Minute)

	require.NoError(t, c.Set(ctx, "k", 1))
	require.NoError(t, c.Delete(ctx, "k"))
	var v int
	require.ErrorIs(t, c.Get(ctx, "k", &v), redis.Nil)
}

func TestRedisPendingLogKeepsOrderAndTrimsPrefix(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	l := NewRedisPendingLog(client, "u1")

	require.NoError(t, l.Append(ctx, models.FavoriteChange{ProductID: "a", Op: models.FavoriteAdd}))
	require.NoError(t, l.Append(ctx, models.FavoriteChange{ProductID: "b", Op: models.FavoriteAdd}))
	require.NoError(t, l.Append(ctx, models.FavoriteChange{ProductID: "a", Op: models.FavoriteRemove}))

	entries, err := l.Entries(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.FavoriteChange{
		{ProductID: "a", Op: models.FavoriteAdd},
		{ProductID: "b", Op: models.FavoriteAdd},
		{ProductID: "a", Op: models.FavoriteRemove},
	}, entries)

	require.NoError(t, l.Trim(ctx, 2))
	entries, err = l.Entries(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.FavoriteChange{{ProductID: "a", Op: models.FavoriteRemove}}, entries)

	require.NoError(t, l.Trim(ctx, 1))
	entries, err = l.Entries(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRedisPendingLogIsPerUser(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	require.NoError(t, NewRedisPendingLog(client, "u1").Append(ctx, models.FavoriteChange{ProductID: "a", Op: models.FavoriteAdd}))

	entries, err := NewRedisPendingLog(client, "u2").Entries(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRedisCacheCheck(t *testing.T) {
	mr, client := newClient(t)
	c := NewRedisCacheFromClient(client, time.Minute)

	require.NoError(t, c.Check(context.Background()))
	mr.Close()
	require.Error(t, c.Check(context.Background()))
}
