package provider

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedText wraps a TextProvider with a client-side rate limit. Calls
// wait for a token before reaching the inner provider, so retry storms from
// the resilience layer cannot exceed the provider's request budget.
type RateLimitedText struct {
	inner   TextProvider
	limiter *rate.Limiter
}

// NewRateLimitedText wraps inner, allowing rps requests per second with the
// given burst.
func NewRateLimitedText(inner TextProvider, rps float64, burst int) *RateLimitedText {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedText{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedText) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.inner.Complete(ctx, req)
}

func (r *RateLimitedText) Stream(ctx context.Context, req CompletionRequest) (<-chan string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Stream(ctx, req)
}

func (r *RateLimitedText) TokenUsage() TokenUsage { return r.inner.TokenUsage() }
