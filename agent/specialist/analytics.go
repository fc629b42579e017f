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

// metricsTTL is how long aggregated channel metrics stay fresh.
const metricsTTL = 5 * time.Minute

// AnalyticsSpecialist aggregates metrics across channels. Each channel has
// its own source; channels without one are reported as missing instead of
// failing the aggregate.
type AnalyticsSpecialist struct {
	*agent.BaseNode

	sources map[string]provider.AnalyticsSource
	cache   *resilience.Cache
	retryer *resilience.Retryer
}

// NewAnalyticsSpecialist creates the analytics node over the given
// channel-to-source map.
func NewAnalyticsSpecialist(sources map[string]provider.AnalyticsSource, policy *resilience.Policy, logger *zap.Logger) *AnalyticsSpecialist {
	if sources == nil {
		sources = make(map[string]provider.AnalyticsSource)
	}
	a := &AnalyticsSpecialist{
		BaseNode: agent.NewBaseNode(types.RoleAnalyticsSpecialist, logger),
		sources:  sources,
		cache:    resilience.NewCache(logger),
		retryer:  resilience.NewRetryer("analytics", policy, logger),
	}
	a.Handle("aggregate_metrics", []string{"channels"}, a.aggregateMetrics)
	a.OnStop(a.cache.Clear)
	return a
}

func (a *AnalyticsSpecialist) aggregateMetrics(ctx context.Context, task *types.Task) (map[string]any, error) {
	channels := task.StringsParam("channels")
	if len(channels) == 0 {
		return nil, types.NewError(types.ErrValidationFailed, "no channels to aggregate")
	}

	byChannel := make(map[string]any, len(channels))
	var missing, stale, failed []string
	for _, channel := range channels {
		source, ok := a.sources[channel]
		if !ok {
			missing = append(missing, channel)
			continue
		}
		entry, err := a.cache.GetOrFetch(ctx, "metrics:"+channel, metricsTTL, func(ctx context.Context) (map[string]any, error) {
			return resilience.DoTyped(a.retryer, ctx, func() (map[string]any, error) {
				return source.Fetch(ctx, provider.AnalyticsQuery{Channel: channel, Window: metricsTTL})
			})
		})
		if err != nil {
			a.Logger().Warn("channel metrics unavailable",
				zap.String("channel", channel),
				zap.Error(err),
			)
			failed = append(failed, channel)
			continue
		}
		byChannel[channel] = entry.Payload
		if entry.Stale {
			stale = append(stale, channel)
		}
	}

	return map[string]any{
		"channels_reported": len(byChannel),
		"metrics":           byChannel,
		"missing_channels":  missing,
		"failed_channels":   failed,
		"stale_channels":    stale,
	}, nil
}
