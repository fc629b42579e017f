package provider

import (
	"context"
	"time"
)

// CompletionRequest is a text-generation request.
type CompletionRequest struct {
	Prompt      string  `json:"prompt"`
	System      string  `json:"system,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// TokenUsage is the cumulative token accounting of a text provider.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// TextProvider exposes LLM text generation. Stream returns a finite,
// non-restartable sequence of chunks.
type TextProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Stream(ctx context.Context, req CompletionRequest) (<-chan string, error)
	TokenUsage() TokenUsage
}

// PublishRequest is a channel-publishing request.
type PublishRequest struct {
	Channel string   `json:"channel"`
	Content string   `json:"content"`
	Media   []string `json:"media,omitempty"`
}

// PublishReceipt acknowledges a published post.
type PublishReceipt struct {
	PostID   string    `json:"post_id"`
	Channel  string    `json:"channel"`
	PostedAt time.Time `json:"posted_at"`
}

// ContentPublisher publishes content to a single channel.
type ContentPublisher interface {
	Publish(ctx context.Context, req PublishRequest) (*PublishReceipt, error)
}

// AnalyticsQuery selects channel metrics over a trailing window.
type AnalyticsQuery struct {
	Channel string        `json:"channel"`
	Metrics []string      `json:"metrics,omitempty"`
	Window  time.Duration `json:"window,omitempty"`
}

// AnalyticsSource fetches channel metrics.
type AnalyticsSource interface {
	Fetch(ctx context.Context, query AnalyticsQuery) (map[string]any, error)
}

// Message is an outbound message (email campaign, alert).
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Messenger sends outbound messages.
type Messenger interface {
	Send(ctx context.Context, msg Message) error
}
