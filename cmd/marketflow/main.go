// Command marketflow assembles the marketing organization with demo
// providers and runs a strategy, a campaign launch, and a crisis drill.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/marketflow"
	"github.com/BaSui01/marketflow/config"
	"github.com/BaSui01/marketflow/internal/metrics"
	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/types"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	org, err := marketflow.NewOrganization(cfg, demoPorts(), logger,
		marketflow.WithCollector(metrics.NewCollector("marketflow", logger)))
	if err != nil {
		logger.Fatal("assembly failed", zap.Error(err))
	}
	defer org.Stop()

	ctx := context.Background()

	submit(ctx, org, types.NewTask("", "set_strategy", types.PriorityHigh, map[string]any{
		"objective":    "own the mid-market",
		"total_budget": cfg.Budget.TotalBudget,
	}, types.RoleCMO, types.RoleCMO))

	submit(ctx, org, types.NewTask("", "launch_campaign", types.PriorityHigh, map[string]any{
		"objective": "summer product launch",
		"budget":    8000.0,
		"topic":     "summer product launch",
		"platforms": []string{"twitter", "linkedin"},
		"channels":  []string{"twitter", "linkedin"},
		"resources": []string{"copy", "design"},
	}, types.RoleVPMarketing, types.RoleCMO))

	submit(ctx, org, types.NewTask("", "handle_crisis", types.PriorityUrgent, map[string]any{
		"severity":    "high",
		"description": "pricing page outage during launch",
	}, types.RoleDirectorCommunications, types.RoleCMO))
}

func submit(ctx context.Context, org *marketflow.Organization, task *types.Task) {
	res := org.Submit(ctx, task)
	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Printf("%s %s -> %s\n%s\n", task.Kind, task.TaskID, res.Status, out)
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// demoPorts wires in-process providers so the demo run completes without
// external credentials.
func demoPorts() marketflow.Ports {
	return marketflow.Ports{
		Text: demoText{},
		Publishers: map[string]provider.ContentPublisher{
			"twitter":  demoPublisher{},
			"linkedin": demoPublisher{},
		},
		Analytics: map[string]provider.AnalyticsSource{
			"twitter":  demoAnalytics{},
			"linkedin": demoAnalytics{},
		},
		Messenger: demoMessenger{},
	}
}

type demoText struct{}

func (demoText) Complete(_ context.Context, req provider.CompletionRequest) (string, error) {
	return "[draft] " + req.Prompt, nil
}

func (demoText) Stream(ctx context.Context, req provider.CompletionRequest) (<-chan string, error) {
	text, _ := demoText{}.Complete(ctx, req)
	ch := make(chan string, 1)
	ch <- text
	close(ch)
	return ch, nil
}

func (demoText) TokenUsage() provider.TokenUsage { return provider.TokenUsage{} }

type demoPublisher struct{}

func (demoPublisher) Publish(_ context.Context, req provider.PublishRequest) (*provider.PublishReceipt, error) {
	return &provider.PublishReceipt{
		PostID:   uuid.NewString(),
		Channel:  req.Channel,
		PostedAt: time.Now(),
	}, nil
}

type demoAnalytics struct{}

func (demoAnalytics) Fetch(_ context.Context, query provider.AnalyticsQuery) (map[string]any, error) {
	return map[string]any{"channel": query.Channel, "impressions": 1200, "clicks": 87}, nil
}

type demoMessenger struct{}

func (demoMessenger) Send(context.Context, provider.Message) error { return nil }
