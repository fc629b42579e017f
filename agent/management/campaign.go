package management

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/agent/escalation"
	"github.com/BaSui01/marketflow/types"
)

// CampaignManager plans campaigns under its authority cap and runs approved
// ones through the research, analytics, and email specialists.
type CampaignManager struct {
	*agent.BaseNode

	policy *escalation.Policy
}

// NewCampaignManager creates the campaign node with the given spend cap.
func NewCampaignManager(authorityCap float64, logger *zap.Logger) *CampaignManager {
	m := &CampaignManager{BaseNode: agent.NewBaseNode(types.RoleCampaignManager, logger)}
	m.policy = escalation.NewPolicy(authorityCap, nil, logger)
	m.Handle("plan_campaign", []string{"objective", "budget"}, m.planCampaign)
	m.Handle("execute_campaign", []string{"subject", "body", "recipients"}, m.executeCampaign)
	return m
}

// EscalationLog exposes the recorded escalations for review by a higher tier.
func (m *CampaignManager) EscalationLog() []escalation.LogEntry {
	return m.policy.Log.Entries()
}

func (m *CampaignManager) planCampaign(ctx context.Context, task *types.Task) (map[string]any, error) {
	budget, ok := task.FloatParam("budget")
	if !ok {
		return nil, types.NewError(types.ErrValidationFailed, "budget must be numeric")
	}
	objective := task.StringParam("objective")

	decision := m.policy.Decide(escalation.ApprovalRequest{
		ID:        task.TaskID,
		Amount:    budget,
		Objective: objective,
		Channels:  task.StringsParam("channels"),
		Resources: task.StringsParam("resources"),
	})

	payload := map[string]any{
		"objective": objective,
		"budget":    budget,
		"status":    string(decision.Status),
	}
	if decision.Reason != "" {
		payload["reason"] = decision.Reason
	}
	if len(decision.Conditions) > 0 {
		payload["conditions"] = decision.Conditions
	}

	switch decision.Status {
	case escalation.StatusEscalated:
		m.Metrics().RecordEscalation(string(m.Role()))
		m.Logger().Info("campaign plan escalated",
			zap.String("task_id", task.TaskID),
			zap.Float64("budget", budget),
		)
		return payload, nil
	case escalation.StatusRejected, escalation.StatusConditional:
		return payload, nil
	}

	// Approved plans get market context; a missing researcher downgrades the
	// plan, it does not block it.
	research := m.Delegate(ctx, task, types.RoleMarketResearch, "research_topic",
		map[string]any{"topic": objective})
	if research.Skipped {
		payload["research"] = nil
		payload["degraded"] = []string{"research"}
	} else {
		payload["research"] = research.Payload()
	}
	return payload, nil
}

func (m *CampaignManager) executeCampaign(ctx context.Context, task *types.Task) (map[string]any, error) {
	payload := map[string]any{}
	var skipped []string

	send := m.Delegate(ctx, task, types.RoleEmailSpecialist, "send_campaign", map[string]any{
		"subject":    task.StringParam("subject"),
		"body":       task.StringParam("body"),
		"recipients": task.StringsParam("recipients"),
	})
	if send.Skipped {
		skipped = append(skipped, "email")
	} else {
		payload["email"] = send.Payload()
	}

	if channels := task.StringsParam("channels"); len(channels) > 0 {
		report := m.Delegate(ctx, task, types.RoleAnalyticsSpecialist, "aggregate_metrics",
			map[string]any{"channels": channels})
		if report.Skipped {
			skipped = append(skipped, "analytics")
		} else {
			payload["metrics"] = report.Payload()
		}
	}

	payload["skipped"] = skipped
	return payload, nil
}
