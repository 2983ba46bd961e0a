// Package retry re-runs record-store reads that failed on transport errors.
// Writes with side effects must not go through here.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/models"
	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
)

type Policy struct {
	MaxRetries int
	Initial    time.Duration
}

func DefaultPolicy() Policy {
	return Policy{MaxRetries: 3, Initial: 100 * time.Millisecond}
}

// Read runs op until it succeeds, returns a business error, or the policy is exhausted.
// Domain sentinels such as models.ErrNotFound are answers, not transport failures, and stop retrying.
func Read(ctx context.Context, p Policy, name string, op func(ctx context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	if p.Initial > 0 {
		b.InitialInterval = p.Initial
	}
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		obs.Logger.Warn("read failed, retrying", "op", name, "attempt", attempt, "error", err)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(p.MaxRetries, 0))), ctx))
}

func isPermanent(err error) bool {
	return errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidRequest) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
