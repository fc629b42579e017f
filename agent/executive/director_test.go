package executive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/resilience"
	"github.com/BaSui01/marketflow/types"
)

func fastPolicy() *resilience.Policy {
	return &resilience.Policy{
		MaxRetries:   2,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

type staticText struct {
	response string
	err      error
	calls    int
}

func (s *staticText) Complete(context.Context, provider.CompletionRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *staticText) Stream(context.Context, provider.CompletionRequest) (<-chan string, error) {
	ch := make(chan string, 1)
	ch <- s.response
	close(ch)
	return ch, nil
}

func (s *staticText) TokenUsage() provider.TokenUsage { return provider.TokenUsage{} }

func crisisTask(id, severity string) *types.Task {
	return types.NewTask(id, "handle_crisis", types.PriorityUrgent, map[string]any{
		"severity":    severity,
		"description": "pricing page outage during launch",
	}, types.RoleDirectorCommunications, types.RoleCMO)
}

func TestHandleCrisis_CriticalEscalatesImmediately(t *testing.T) {
	text := &staticText{response: "We are aware of the issue."}
	d := NewDirectorCommunications(text, fastPolicy(), zap.NewNop())

	res := d.Execute(context.Background(), crisisTask("c1", "critical"))

	require.Equal(t, types.StatusCompleted, res.Status)
	assert.Equal(t, true, res.Payload["escalated_to_cmo"])
	assert.Equal(t, "ESCALATED", res.Payload["status"])
	assert.Equal(t, "15m0s", res.Payload["response_window"])
	assert.NotContains(t, res.Payload, "statement", "escalation happens before drafting")
	assert.Equal(t, 0, text.calls)
}

func TestHandleCrisis_HighEscalatesButStaysInProgress(t *testing.T) {
	text := &staticText{response: "We are aware of the issue."}
	d := NewDirectorCommunications(text, fastPolicy(), zap.NewNop())

	res := d.Execute(context.Background(), crisisTask("c2", "high"))

	require.Equal(t, types.StatusCompleted, res.Status)
	assert.Equal(t, true, res.Payload["escalated_to_cmo"])
	assert.Equal(t, "in_progress", res.Payload["status"])
	assert.Equal(t, "We are aware of the issue.", res.Payload["statement"])
}

func TestHandleCrisis_LowStaysWithDirector(t *testing.T) {
	d := NewDirectorCommunications(&staticText{response: "noted"}, fastPolicy(), zap.NewNop())

	res := d.Execute(context.Background(), crisisTask("c3", "low"))

	require.Equal(t, types.StatusCompleted, res.Status)
	assert.Equal(t, false, res.Payload["escalated_to_cmo"])
	assert.Equal(t, "in_progress", res.Payload["status"])
	assert.Equal(t, "director_communications", res.Payload["approver"])
	assert.Equal(t, "24h0m0s", res.Payload["response_window"])
}

func TestHandleCrisis_StatementFailureDegrades(t *testing.T) {
	text := &staticText{err: errors.New("llm overloaded")}
	d := NewDirectorCommunications(text, fastPolicy(), zap.NewNop())

	res := d.Execute(context.Background(), crisisTask("c4", "medium"))

	require.Equal(t, types.StatusCompleted, res.Status, "a missing statement degrades, not fails")
	assert.NotContains(t, res.Payload, "statement")
	assert.Equal(t, []string{"statement"}, res.Payload["degraded"])
}

func TestHandleCrisis_UnknownSeverityHandledAsCritical(t *testing.T) {
	d := NewDirectorCommunications(&staticText{response: "x"}, fastPolicy(), zap.NewNop())

	res := d.Execute(context.Background(), crisisTask("c5", "apocalyptic"))

	require.Equal(t, types.StatusCompleted, res.Status)
	assert.Equal(t, "ESCALATED", res.Payload["status"])
	assert.Equal(t, true, res.Payload["escalated_to_cmo"])
}

func TestDraftStatement(t *testing.T) {
	text := &staticText{response: "Today we announce..."}
	d := NewDirectorCommunications(text, fastPolicy(), zap.NewNop())

	task := types.NewTask("s1", "draft_statement", types.PriorityNormal,
		map[string]any{"topic": "series B"}, types.RoleDirectorCommunications, types.RoleCMO)
	res := d.Execute(context.Background(), task)

	require.Equal(t, types.StatusCompleted, res.Status)
	assert.Equal(t, "Today we announce...", res.Payload["statement"])
	assert.Equal(t, "series B", res.Payload["topic"])
}
