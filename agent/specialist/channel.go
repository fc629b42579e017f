package specialist

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/resilience"
	"github.com/BaSui01/marketflow/types"
)

// analyticsTTL is how long fetched channel metrics stay fresh.
const analyticsTTL = 5 * time.Minute

// ChannelManager runs one social channel: it publishes content through the
// channel's publisher and serves analytics through a TTL cache with stale
// fallback. LinkedIn and Twitter are instances of the same machinery.
type ChannelManager struct {
	*agent.BaseNode

	channel   string
	publisher provider.ContentPublisher
	analytics provider.AnalyticsSource
	cache     *resilience.Cache
	retryer   *resilience.Retryer
}

// NewLinkedInManager creates the LinkedIn channel node.
func NewLinkedInManager(publisher provider.ContentPublisher, analytics provider.AnalyticsSource, policy *resilience.Policy, logger *zap.Logger) *ChannelManager {
	return newChannelManager(types.RoleLinkedInManager, "linkedin", publisher, analytics, policy, logger)
}

// NewTwitterManager creates the Twitter channel node.
func NewTwitterManager(publisher provider.ContentPublisher, analytics provider.AnalyticsSource, policy *resilience.Policy, logger *zap.Logger) *ChannelManager {
	return newChannelManager(types.RoleTwitterManager, "twitter", publisher, analytics, policy, logger)
}

func newChannelManager(role types.Role, channel string, publisher provider.ContentPublisher, analytics provider.AnalyticsSource, policy *resilience.Policy, logger *zap.Logger) *ChannelManager {
	if publisher == nil {
		publisher = provider.NewUnconfiguredPublisher(channel)
	}
	if analytics == nil {
		analytics = provider.NewUnconfiguredAnalytics(channel)
	}
	m := &ChannelManager{
		BaseNode:  agent.NewBaseNode(role, logger),
		channel:   channel,
		publisher: publisher,
		analytics: analytics,
		cache:     resilience.NewCache(logger),
		retryer:   resilience.NewRetryer(channel, policy, logger),
	}

	m.Handle("post_content", []string{"content"}, m.postContent)
	m.Handle("fetch_analytics", nil, m.fetchAnalytics)
	m.OnStop(m.cache.Clear)
	return m
}

// Channel returns the channel name the node manages.
func (m *ChannelManager) Channel() string { return m.channel }

func (m *ChannelManager) postContent(ctx context.Context, task *types.Task) (map[string]any, error) {
	req := provider.PublishRequest{
		Channel: m.channel,
		Content: task.StringParam("content"),
		Media:   task.StringsParam("media"),
	}
	receipt, err := resilience.DoTyped(m.retryer, ctx, func() (*provider.PublishReceipt, error) {
		return m.publisher.Publish(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"post_id":   receipt.PostID,
		"channel":   receipt.Channel,
		"posted_at": receipt.PostedAt,
	}, nil
}

func (m *ChannelManager) fetchAnalytics(ctx context.Context, task *types.Task) (map[string]any, error) {
	query := provider.AnalyticsQuery{
		Channel: m.channel,
		Metrics: task.StringsParam("metrics"),
		Window:  analyticsTTL,
	}
	entry, err := m.cache.GetOrFetch(ctx, "analytics:"+m.channel, analyticsTTL, func(ctx context.Context) (map[string]any, error) {
		return resilience.DoTyped(m.retryer, ctx, func() (map[string]any, error) {
			return m.analytics.Fetch(ctx, query)
		})
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"channel":    m.channel,
		"metrics":    entry.Payload,
		"fetched_at": entry.FetchedAt,
		"stale":      entry.Stale,
	}, nil
}
