package resilience

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/types"
)

// Policy defines the retry strategy for external provider calls.
type Policy struct {
	MaxRetries   int           // retries after the first attempt (0 means no retry)
	InitialDelay time.Duration // delay before the first retry
	MaxDelay     time.Duration // cap on the backoff delay
	Multiplier   float64       // delay growth factor per attempt
	Jitter       bool          // randomize delay ±25% to avoid thundering herds
	OnRetry      func(attempt int, err error, delay time.Duration)
}

// DefaultPolicy returns the policy used for provider calls unless configured
// otherwise.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Retryer wraps a provider call with exponential backoff. When all
// MaxRetries+1 attempts fail, the last error is wrapped into a
// PROVIDER_EXHAUSTED *types.Error carrying the provider name and attempt
// count, and returned to the caller.
type Retryer struct {
	provider string
	policy   *Policy
	logger   *zap.Logger
}

// NewRetryer creates a retryer for the named provider.
func NewRetryer(provider string, policy *Policy, logger *zap.Logger) *Retryer {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	if policy.InitialDelay <= 0 {
		policy.InitialDelay = 1 * time.Second
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = 30 * time.Second
	}
	if policy.Multiplier < 1.0 {
		policy.Multiplier = 2.0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retryer{
		provider: provider,
		policy:   policy,
		logger:   logger.With(zap.String("component", "retry"), zap.String("provider", provider)),
	}
}

// Do runs fn with the retry policy.
func (r *Retryer) Do(ctx context.Context, fn func() error) error {
	_, err := r.DoWithResult(ctx, func() (any, error) {
		return nil, fn()
	})
	return err
}

// DoWithResult runs fn with the retry policy and returns its result.
func (r *Retryer) DoWithResult(ctx context.Context, fn func() (any, error)) (any, error) {
	var lastErr error

	for attempt := 0; attempt <= r.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := r.calculateDelay(attempt)

			r.logger.Debug("retrying provider call",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", r.policy.MaxRetries),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if r.policy.OnRetry != nil {
				r.policy.OnRetry(attempt, lastErr, delay)
			}

			select {
			case <-ctx.Done():
				return nil, types.NewError(types.ErrProviderUnavailable, "retry cancelled").
					WithProvider(r.provider).
					WithCause(ctx.Err())
			case <-time.After(delay):
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				r.logger.Info("provider call recovered", zap.Int("attempt", attempt))
			}
			return result, nil
		}
		lastErr = err
	}

	attempts := r.policy.MaxRetries + 1
	r.logger.Warn("provider retries exhausted",
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	return nil, types.NewError(types.ErrProviderExhausted,
		fmt.Sprintf("provider %s failed after %d attempts", r.provider, attempts)).
		WithProvider(r.provider).
		WithAttempts(attempts).
		WithCause(lastErr)
}

// calculateDelay computes the backoff for the given attempt:
// initial * multiplier^(attempt-1), capped at MaxDelay, with optional jitter.
func (r *Retryer) calculateDelay(attempt int) time.Duration {
	delay := float64(r.policy.InitialDelay) * math.Pow(r.policy.Multiplier, float64(attempt-1))
	if delay > float64(r.policy.MaxDelay) {
		delay = float64(r.policy.MaxDelay)
	}
	if r.policy.Jitter {
		jitter := delay * 0.25
		delay = delay + (rand.Float64()*2-1)*jitter
	}
	if delay < float64(r.policy.InitialDelay) {
		delay = float64(r.policy.InitialDelay)
	}
	return time.Duration(delay)
}

// DoTyped is a type-safe generic wrapper around Retryer.DoWithResult.
func DoTyped[T any](r *Retryer, ctx context.Context, fn func() (T, error)) (T, error) {
	result, err := r.DoWithResult(ctx, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
