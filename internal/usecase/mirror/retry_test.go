package mirror

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
)

// flakyGateway fails the first failures deliveries, then succeeds.
type flakyGateway struct {
	fakeGateway

	failures int
	attempts int
	err      error
}

func (g *flakyGateway) Execute(ctx context.Context, webhookID, token string, msg OutgoingMessage) (string, error) {
	g.attempts++
	if g.attempts <= g.failures {
		return "", g.err
	}
	return fmt.Sprintf("mirrored-%d", g.attempts), nil
}

func (g *flakyGateway) EditMessage(ctx context.Context, webhookID, token, messageID string, msg OutgoingMessage) error {
	g.attempts++
	if g.attempts <= g.failures {
		return g.err
	}
	return nil
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
		JitterFactor:    0,
	}
}

func TestRetryableGateway_ExecuteRecoversFromTransientFailure(t *testing.T) {
	gw := &flakyGateway{failures: 2, err: errors.New("rate limited")}
	rg := NewRetryableGateway(gw, fastPolicy(), logger.Nop{})

	id, err := rg.Execute(context.Background(), "123", "token", OutgoingMessage{Content: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "mirrored-3", id)
	assert.Equal(t, 3, gw.attempts)
}

func TestRetryableGateway_ExecuteGivesUpAfterMaxAttempts(t *testing.T) {
	wantErr := errors.New("rate limited")
	gw := &flakyGateway{failures: 10, err: wantErr}
	rg := NewRetryableGateway(gw, fastPolicy(), logger.Nop{})

	_, err := rg.Execute(context.Background(), "123", "token", OutgoingMessage{})

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, gw.attempts)
}

func TestRetryableGateway_PermissionErrorIsNotRetried(t *testing.T) {
	gw := &flakyGateway{failures: 10, err: fmt.Errorf("channel: %w", entity.ErrPermissionDenied)}
	rg := NewRetryableGateway(gw, fastPolicy(), logger.Nop{})

	_, err := rg.Execute(context.Background(), "123", "token", OutgoingMessage{})

	require.ErrorIs(t, err, entity.ErrPermissionDenied)
	assert.Equal(t, 1, gw.attempts)
}

func TestRetryableGateway_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gw := &flakyGateway{failures: 10, err: errors.New("rate limited")}
	rg := NewRetryableGateway(gw, fastPolicy(), logger.Nop{})

	_, err := rg.Execute(ctx, "123", "token", OutgoingMessage{})

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, gw.attempts, 3)
}

func TestRetryableGateway_EditRetries(t *testing.T) {
	gw := &flakyGateway{failures: 1, err: errors.New("gateway timeout")}
	rg := NewRetryableGateway(gw, fastPolicy(), logger.Nop{})

	err := rg.EditMessage(context.Background(), "123", "token", "msg-1", OutgoingMessage{})

	require.NoError(t, err)
	assert.Equal(t, 2, gw.attempts)
}
