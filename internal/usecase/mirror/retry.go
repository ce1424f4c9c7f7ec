package mirror

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/timesdev/times-bridge/internal/domain/entity"
	"github.com/timesdev/times-bridge/internal/domain/logger"
)

// RetryPolicy defines the retry behavior for failed webhook deliveries.
type RetryPolicy struct {
	MaxAttempts     int           // Maximum number of attempts (including first try)
	InitialInterval time.Duration // Initial backoff interval
	MaxInterval     time.Duration // Maximum backoff interval
	Multiplier      float64       // Backoff multiplier
	JitterFactor    float64       // Random jitter factor (0.0-1.0)
}

// DefaultRetryPolicy returns a sensible default retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// RetryableGateway wraps a Gateway and retries the delivery operations,
// Execute and EditMessage, on transient failures. Lookups and permission
// checks pass through unchanged; retrying those only delays the caller.
type RetryableGateway struct {
	gw     Gateway
	policy RetryPolicy
	log    logger.Logger
}

// NewRetryableGateway creates a retrying decorator around a gateway.
func NewRetryableGateway(gw Gateway, policy RetryPolicy, log logger.Logger) *RetryableGateway {
	return &RetryableGateway{gw: gw, policy: policy, log: log}
}

// HasManageWebhooks passes through to the wrapped gateway.
func (r *RetryableGateway) HasManageWebhooks(ctx context.Context, channelID string) (bool, error) {
	return r.gw.HasManageWebhooks(ctx, channelID)
}

// ChannelWebhooks passes through to the wrapped gateway.
func (r *RetryableGateway) ChannelWebhooks(ctx context.Context, channelID string) ([]Webhook, error) {
	return r.gw.ChannelWebhooks(ctx, channelID)
}

// CreateWebhook passes through to the wrapped gateway.
func (r *RetryableGateway) CreateWebhook(ctx context.Context, channelID, name string) (*Webhook, error) {
	return r.gw.CreateWebhook(ctx, channelID, name)
}

// Execute delivers a webhook message, retrying transient failures with
// exponential backoff.
func (r *RetryableGateway) Execute(ctx context.Context, webhookID, token string, msg OutgoingMessage) (string, error) {
	var mirroredID string
	err := r.retry(ctx, "execute", func() error {
		var execErr error
		mirroredID, execErr = r.gw.Execute(ctx, webhookID, token, msg)
		return execErr
	})
	if err != nil {
		return "", err
	}
	return mirroredID, nil
}

// EditMessage edits a delivered webhook message, retrying transient failures
// with exponential backoff.
func (r *RetryableGateway) EditMessage(ctx context.Context, webhookID, token, messageID string, msg OutgoingMessage) error {
	return r.retry(ctx, "edit", func() error {
		return r.gw.EditMessage(ctx, webhookID, token, messageID, msg)
	})
}

func (r *RetryableGateway) retry(ctx context.Context, op string, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				r.log.Info("webhook delivery succeeded after retry",
					"operation", op,
					"attempt", attempt,
				)
			}
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt == r.policy.MaxAttempts {
			r.log.Error("webhook delivery failed after max retries",
				"operation", op,
				"attempts", attempt,
				"error", lastErr,
			)
			break
		}

		backoff := r.calculateBackoff(attempt)
		r.log.Warn("webhook delivery failed, retrying",
			"operation", op,
			"attempt", attempt,
			"backoff", backoff,
			"error", lastErr,
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}

// isRetryable reports whether a delivery error is worth another attempt.
// Cancelled contexts and permission failures are permanent.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, entity.ErrPermissionDenied) {
		return false
	}
	return true
}

// calculateBackoff returns the wait before the next attempt.
// Formula: min(InitialInterval * Multiplier^(attempt-1) * (1 ± jitter), MaxInterval)
func (r *RetryableGateway) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.policy.InitialInterval) * math.Pow(r.policy.Multiplier, float64(attempt-1))

	jitter := 1.0 + (rand.Float64()*2.0-1.0)*r.policy.JitterFactor
	backoff *= jitter

	if backoff > float64(r.policy.MaxInterval) {
		backoff = float64(r.policy.MaxInterval)
	}

	return time.Duration(backoff)
}
