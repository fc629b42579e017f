package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Chain(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(ErrProviderExhausted, "twitter api failed after 4 attempts").
		WithProvider("twitter").
		WithAttempts(4).
		WithCause(cause)

	assert.Contains(t, err.Error(), "PROVIDER_EXHAUSTED")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "twitter", err.Provider)
	assert.Equal(t, 4, err.Attempts)
}

func TestIsErrorCode(t *testing.T) {
	err := NewError(ErrNotConfigured, "publisher not configured")
	wrapped := fmt.Errorf("handler: %w", err)

	assert.True(t, IsErrorCode(wrapped, ErrNotConfigured))
	assert.False(t, IsErrorCode(wrapped, ErrExecutionFailed))
	assert.False(t, IsErrorCode(errors.New("plain"), ErrNotConfigured))

	require.NotNil(t, AsError(wrapped))
	assert.Nil(t, AsError(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewError(ErrProviderUnavailable, "503").WithRetryable(true)))
	assert.False(t, IsRetryable(NewError(ErrValidationFailed, "bad task")))
	assert.False(t, IsRetryable(errors.New("plain")))
}
