package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/types"
)

func fastPolicy(maxRetries int) *Policy {
	return &Policy{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRetryer_SucceedsAfterTransientFailures(t *testing.T) {
	r := NewRetryer("twitter", fastPolicy(3), zap.NewNop())
	calls := 0
	result, err := r.DoWithResult(context.Background(), func() (any, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("rate limited")
		}
		return "posted", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "posted", result)
	assert.Equal(t, 3, calls, "fails twice then succeeds on the third call")
}

func TestRetryer_ExhaustionWrapsProviderError(t *testing.T) {
	r := NewRetryer("linkedin", fastPolicy(3), zap.NewNop())
	calls := 0
	underlying := errors.New("upstream 500")
	err := r.Do(context.Background(), func() error {
		calls++
		return underlying
	})

	require.Error(t, err)
	assert.Equal(t, 4, calls, "maxRetries+1 total attempts")

	provErr := types.AsError(err)
	require.NotNil(t, provErr)
	assert.Equal(t, types.ErrProviderExhausted, provErr.Code)
	assert.Equal(t, "linkedin", provErr.Provider)
	assert.Equal(t, 4, provErr.Attempts)
	assert.ErrorIs(t, err, underlying)
}

func TestRetryer_NoRetryWhenMaxRetriesZero(t *testing.T) {
	r := NewRetryer("seo", fastPolicy(0), zap.NewNop())
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryer_ContextCancellationStopsRetries(t *testing.T) {
	policy := &Policy{MaxRetries: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 2.0}
	r := NewRetryer("email", policy, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := r.Do(ctx, func() error {
		calls++
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "cancellation interrupts the backoff sleep")
	assert.True(t, types.IsErrorCode(err, types.ErrProviderUnavailable))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryer_OnRetryHookObservesDelays(t *testing.T) {
	policy := fastPolicy(2)
	var attempts []int
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		attempts = append(attempts, attempt)
		assert.Error(t, err)
		assert.Positive(t, delay)
	}
	r := NewRetryer("designer", policy, zap.NewNop())
	_ = r.Do(context.Background(), func() error { return errors.New("down") })
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestRetryer_CalculateDelayBackoffCapped(t *testing.T) {
	r := NewRetryer("x", &Policy{
		MaxRetries:   10,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     80 * time.Millisecond,
		Multiplier:   2.0,
	}, zap.NewNop())

	assert.Equal(t, 10*time.Millisecond, r.calculateDelay(1))
	assert.Equal(t, 20*time.Millisecond, r.calculateDelay(2))
	assert.Equal(t, 40*time.Millisecond, r.calculateDelay(3))
	assert.Equal(t, 80*time.Millisecond, r.calculateDelay(4))
	assert.Equal(t, 80*time.Millisecond, r.calculateDelay(8), "delay capped at MaxDelay")
}

func TestDoTyped(t *testing.T) {
	r := NewRetryer("research", fastPolicy(1), zap.NewNop())
	val, err := DoTyped(r, context.Background(), func() (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, val)

	_, err = DoTyped(r, context.Background(), func() (int, error) {
		return 0, errors.New("down")
	})
	assert.Error(t, err)
}
