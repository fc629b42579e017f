package marketflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/config"
	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/types"
)

type staticText struct{ response string }

func (s *staticText) Complete(context.Context, provider.CompletionRequest) (string, error) {
	return s.response, nil
}

func (s *staticText) Stream(context.Context, provider.CompletionRequest) (<-chan string, error) {
	ch := make(chan string, 1)
	ch <- s.response
	close(ch)
	return ch, nil
}

func (s *staticText) TokenUsage() provider.TokenUsage { return provider.TokenUsage{} }

type staticPublisher struct{ channel string }

func (p *staticPublisher) Publish(_ context.Context, req provider.PublishRequest) (*provider.PublishReceipt, error) {
	return &provider.PublishReceipt{PostID: p.channel + "-1", Channel: req.Channel, PostedAt: time.Now()}, nil
}

type staticMessenger struct{ sent int }

func (m *staticMessenger) Send(context.Context, provider.Message) error {
	m.sent++
	return nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Retry.InitialDelay = time.Millisecond
	cfg.Retry.MaxDelay = 5 * time.Millisecond
	cfg.Retry.Jitter = false
	cfg.Text.RateLimit = 0 // no throttling in tests
	return cfg
}

func testPorts() Ports {
	return Ports{
		Text: &staticText{response: "generated text"},
		Publishers: map[string]provider.ContentPublisher{
			"twitter":  &staticPublisher{channel: "tw"},
			"linkedin": &staticPublisher{channel: "li"},
		},
		Messenger: &staticMessenger{},
	}
}

func TestOrganization_LaunchCampaignEndToEnd(t *testing.T) {
	org, err := NewOrganization(testConfig(), testPorts(), zap.NewNop())
	require.NoError(t, err)
	defer org.Stop()

	task := types.NewTask("launch-1", "launch_campaign", types.PriorityHigh, map[string]any{
		"objective": "summer product launch",
		"budget":    8000.0,
		"topic":     "summer product launch",
		"platforms": []string{"twitter", "linkedin"},
		"channels":  []string{"twitter", "linkedin"},
		"resources": []string{"copy", "design"},
	}, types.RoleVPMarketing, types.RoleCMO)

	res := org.Submit(context.Background(), task)

	require.Equal(t, types.StatusCompleted, res.Status, res.Error)
	assert.Equal(t, "launched", res.Payload["status"])

	plan := res.Payload["plan"].(map[string]any)
	assert.Equal(t, "APPROVED", plan["status"])

	content := res.Payload["content"].(map[string]any)
	assert.Equal(t, "generated text", content["content"])
	assert.Equal(t, true, content["seo_optimized"])

	distribution := res.Payload["distribution"].(map[string]any)
	assert.Equal(t, 2, distribution["platforms_posted"])
}

func TestOrganization_OverBudgetPlanEscalates(t *testing.T) {
	org, err := NewOrganization(testConfig(), testPorts(), zap.NewNop())
	require.NoError(t, err)
	defer org.Stop()

	task := types.NewTask("plan-1", "plan_campaign", types.PriorityNormal, map[string]any{
		"objective": "superbowl spot",
		"budget":    50000.0,
	}, types.RoleCampaignManager, types.RoleVPMarketing)

	res := org.Submit(context.Background(), task)

	require.Equal(t, types.StatusCompleted, res.Status)
	assert.Equal(t, "ESCALATED", res.Payload["status"])
}

func TestOrganization_CrisisRoutesToDirector(t *testing.T) {
	org, err := NewOrganization(testConfig(), testPorts(), zap.NewNop())
	require.NoError(t, err)
	defer org.Stop()

	task := types.NewTask("crisis-1", "handle_crisis", types.PriorityUrgent, map[string]any{
		"severity":    "critical",
		"description": "checkout is down",
	}, types.RoleDirectorCommunications, types.RoleCMO)

	res := org.Submit(context.Background(), task)

	require.Equal(t, types.StatusCompleted, res.Status)
	assert.Equal(t, true, res.Payload["escalated_to_cmo"])
	assert.Equal(t, "ESCALATED", res.Payload["status"])
}

func TestOrganization_UnknownRoleFailsClosed(t *testing.T) {
	org, err := NewOrganization(testConfig(), testPorts(), zap.NewNop())
	require.NoError(t, err)
	defer org.Stop()

	task := types.NewTask("t1", "post_content", types.PriorityNormal,
		map[string]any{"content": "x"}, types.Role("intern"), types.RoleCMO)
	res := org.Submit(context.Background(), task)

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "intern")
}

func TestOrganization_StopCascadesThroughAllTiers(t *testing.T) {
	org, err := NewOrganization(testConfig(), testPorts(), zap.NewNop())
	require.NoError(t, err)

	org.Stop()

	for _, role := range []types.Role{
		types.RoleCMO, types.RoleVPMarketing, types.RoleSocialMediaManager, types.RoleTwitterManager,
	} {
		node, ok := org.Node(role)
		require.True(t, ok)
		assert.False(t, node.Available(), "%s should be stopped", role)
	}

	res := org.Submit(context.Background(), types.NewTask("t1", "post_content", types.PriorityNormal,
		map[string]any{"content": "x"}, types.RoleTwitterManager, types.RoleSocialMediaManager))
	assert.Equal(t, types.StatusFailed, res.Status, "stopped nodes accept nothing")

	assert.NotPanics(t, func() { org.Stop() })
}

func TestOrganization_DefaultsAssembleWithStubs(t *testing.T) {
	org, err := NewOrganization(testConfig(), Ports{}, zap.NewNop())
	require.NoError(t, err)
	defer org.Stop()

	// Everything is an unconfigured stub: execution degrades, never panics.
	task := types.NewTask("t1", "post_content", types.PriorityNormal,
		map[string]any{"content": "x"}, types.RoleTwitterManager, types.RoleSocialMediaManager)
	res := org.Submit(context.Background(), task)

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "not configured")
}
