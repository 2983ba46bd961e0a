package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubConfirmation struct {
	acked bool
	err   error
}

func (s stubConfirmation) WaitContext(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.acked, s.err
}

func TestAwaitConfirm(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, awaitConfirm(ctx, stubConfirmation{acked: true}))
	require.ErrorIs(t, awaitConfirm(ctx, stubConfirmation{acked: false}), ErrNacked)

	boom := errors.New("channel closed")
	require.ErrorIs(t, awaitConfirm(ctx, stubConfirmation{err: boom}), boom)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, awaitConfirm(cancelled, stubConfirmation{acked: true}), context.Canceled)
}

func TestCheckReportsClosedConnection(t *testing.T) {
	require.ErrorIs(t, (&RabbitMQ{}).Check(context.Background()), ErrClosed)
}
