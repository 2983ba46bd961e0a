package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
)

// RedisPendingLog keeps a user's unflushed favorite changes in a Redis list
// so they survive a restart of the service between toggle and flush.
type RedisPendingLog struct {
	client *redis.Client
	key    string
}

func NewRedisPendingLog(client *redis.Client, userID string) *RedisPendingLog {
	return &RedisPendingLog{client: client, key: "favorites:pending:" + userID}
}

func (l *RedisPendingLog) Append(ctx context.Context, c models.FavoriteChange) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal favorite change: %w", err)
	}
	return l.client.RPush(ctx, l.key, data).Err()
}

func (l *RedisPendingLog) Entries(ctx context.Context) ([]models.FavoriteChange, error) {
	raw, err := l.client.LRange(ctx, l.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read pending favorites: %w", err)
	}
	out := make([]models.FavoriteChange, 0, len(raw))
	for _, s := range raw {
		var c models.FavoriteChange
		if err := json.Unmarshal([]byte(s), &c); err != nil {
			return nil, fmt.Errorf("failed to decode pending favorite: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Trim drops the first n entries, keeping anything appended after they were read.
func (l *RedisPendingLog) Trim(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	return l.client.LTrim(ctx, l.key, int64(n), -1).Err()
}
