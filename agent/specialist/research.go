package specialist

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/resilience"
	"github.com/BaSui01/marketflow/types"
)

// researchTTL keeps research summaries fresh long enough to reuse across a
// campaign planning pass.
const researchTTL = 30 * time.Minute

// MarketResearch produces topic research summaries, cached per topic.
type MarketResearch struct {
	*agent.BaseNode

	text    provider.TextProvider
	cache   *resilience.Cache
	retryer *resilience.Retryer
}

// NewMarketResearch creates the research node.
func NewMarketResearch(text provider.TextProvider, policy *resilience.Policy, logger *zap.Logger) *MarketResearch {
	if text == nil {
		text = provider.NewUnconfiguredText("research")
	}
	r := &MarketResearch{
		BaseNode: agent.NewBaseNode(types.RoleMarketResearch, logger),
		text:     text,
		cache:    resilience.NewCache(logger),
		retryer:  resilience.NewRetryer("research", policy, logger),
	}
	r.Handle("research_topic", []string{"topic"}, r.researchTopic)
	r.OnStop(r.cache.Clear)
	return r
}

func (r *MarketResearch) researchTopic(ctx context.Context, task *types.Task) (map[string]any, error) {
	topic := task.StringParam("topic")
	entry, err := r.cache.GetOrFetch(ctx, "research:"+topic, researchTTL, func(ctx context.Context) (map[string]any, error) {
		summary, fetchErr := resilience.DoTyped(r.retryer, ctx, func() (string, error) {
			return r.text.Complete(ctx, provider.CompletionRequest{
				System: "You are a market research analyst. Summarize the competitive landscape.",
				Prompt: fmt.Sprintf("Research the market for: %s", topic),
			})
		})
		if fetchErr != nil {
			return nil, fetchErr
		}
		return map[string]any{"summary": summary}, nil
	})
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"topic":      topic,
		"summary":    entry.Payload["summary"],
		"fetched_at": entry.FetchedAt,
		"stale":      entry.Stale,
	}, nil
}
