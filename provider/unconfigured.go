package provider

import (
	"context"

	"github.com/BaSui01/marketflow/types"
)

func notConfigured(name string) *types.Error {
	return types.NewError(types.ErrNotConfigured, name+" provider not configured").
		WithProvider(name)
}

// UnconfiguredText is the explicit stub for a missing text provider.
type UnconfiguredText struct{ Name string }

// NewUnconfiguredText creates a text-provider stub under the given name.
func NewUnconfiguredText(name string) *UnconfiguredText {
	return &UnconfiguredText{Name: name}
}

func (u *UnconfiguredText) Complete(context.Context, CompletionRequest) (string, error) {
	return "", notConfigured(u.Name)
}

func (u *UnconfiguredText) Stream(context.Context, CompletionRequest) (<-chan string, error) {
	return nil, notConfigured(u.Name)
}

func (u *UnconfiguredText) TokenUsage() TokenUsage { return TokenUsage{} }

// UnconfiguredPublisher is the explicit stub for a missing channel publisher.
type UnconfiguredPublisher struct{ Channel string }

// NewUnconfiguredPublisher creates a publisher stub for the given channel.
func NewUnconfiguredPublisher(channel string) *UnconfiguredPublisher {
	return &UnconfiguredPublisher{Channel: channel}
}

func (u *UnconfiguredPublisher) Publish(context.Context, PublishRequest) (*PublishReceipt, error) {
	return nil, notConfigured(u.Channel)
}

// UnconfiguredAnalytics is the explicit stub for a missing analytics source.
type UnconfiguredAnalytics struct{ Channel string }

// NewUnconfiguredAnalytics creates an analytics stub for the given channel.
func NewUnconfiguredAnalytics(channel string) *UnconfiguredAnalytics {
	return &UnconfiguredAnalytics{Channel: channel}
}

func (u *UnconfiguredAnalytics) Fetch(context.Context, AnalyticsQuery) (map[string]any, error) {
	return nil, notConfigured(u.Channel)
}

// UnconfiguredMessenger is the explicit stub for a missing messenger.
type UnconfiguredMessenger struct{ Name string }

// NewUnconfiguredMessenger creates a messenger stub under the given name.
func NewUnconfiguredMessenger(name string) *UnconfiguredMessenger {
	return &UnconfiguredMessenger{Name: name}
}

func (u *UnconfiguredMessenger) Send(context.Context, Message) error {
	return notConfigured(u.Name)
}
