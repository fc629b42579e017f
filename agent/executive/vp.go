package executive

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/agent/escalation"
	"github.com/BaSui01/marketflow/types"
)

// VPMarketing allocates channel budgets under its own cap and launches
// campaigns by sequencing the management tier: plan, produce, distribute.
type VPMarketing struct {
	*agent.BaseNode

	policy *escalation.Policy

	mu             sync.Mutex
	channelBudgets map[string]float64
}

// NewVPMarketing creates the VP node with the given authority cap.
func NewVPMarketing(authorityCap float64, logger *zap.Logger) *VPMarketing {
	v := &VPMarketing{
		BaseNode:       agent.NewBaseNode(types.RoleVPMarketing, logger),
		channelBudgets: make(map[string]float64),
	}
	v.policy = escalation.NewPolicy(authorityCap, nil, logger)
	v.Handle("allocate_channel_budget", []string{"channel", "amount"}, v.allocateChannelBudget)
	v.Handle("launch_campaign", []string{"objective", "budget"}, v.launchCampaign)
	v.OnStop(func() {
		v.mu.Lock()
		v.channelBudgets = make(map[string]float64)
		v.mu.Unlock()
	})
	return v
}

// ChannelBudget returns the total allocated to a channel so far.
func (v *VPMarketing) ChannelBudget(channel string) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.channelBudgets[channel]
}

// EscalationLog exposes recorded escalations for review.
func (v *VPMarketing) EscalationLog() []escalation.LogEntry {
	return v.policy.Log.Entries()
}

func (v *VPMarketing) allocateChannelBudget(_ context.Context, task *types.Task) (map[string]any, error) {
	amount, ok := task.FloatParam("amount")
	if !ok {
		return nil, types.NewError(types.ErrValidationFailed, "amount must be numeric")
	}
	channel := task.StringParam("channel")

	decision := v.policy.Decide(escalation.ApprovalRequest{
		ID:        task.TaskID,
		Amount:    amount,
		Objective: fmt.Sprintf("channel budget: %s", channel),
		Channels:  []string{channel},
		Resources: task.StringsParam("resources"),
	})

	payload := map[string]any{
		"channel": channel,
		"amount":  amount,
		"status":  string(decision.Status),
	}
	if decision.Reason != "" {
		payload["reason"] = decision.Reason
	}
	if len(decision.Conditions) > 0 {
		payload["conditions"] = decision.Conditions
	}

	switch decision.Status {
	case escalation.StatusEscalated:
		v.Metrics().RecordEscalation(string(v.Role()))
	case escalation.StatusApproved:
		v.mu.Lock()
		v.channelBudgets[channel] += amount
		payload["total_allocated"] = v.channelBudgets[channel]
		v.mu.Unlock()
	}
	return payload, nil
}

func (v *VPMarketing) launchCampaign(ctx context.Context, task *types.Task) (map[string]any, error) {
	objective := task.StringParam("objective")
	budget, ok := task.FloatParam("budget")
	if !ok {
		return nil, types.NewError(types.ErrValidationFailed, "budget must be numeric")
	}
	platforms := task.StringsParam("platforms")

	payload := map[string]any{"campaign_id": task.TaskID, "objective": objective}
	var degraded []string

	plan := v.Delegate(ctx, task, types.RoleCampaignManager, "plan_campaign", map[string]any{
		"objective": objective,
		"budget":    budget,
		"channels":  platforms,
		"resources": task.StringsParam("resources"),
	})
	if plan.Skipped {
		degraded = append(degraded, "plan")
	} else {
		payload["plan"] = plan.Payload()
		if status, _ := plan.Payload()["status"].(string); status == string(escalation.StatusRejected) ||
			status == string(escalation.StatusEscalated) {
			// No production or distribution happens for a plan that did not
			// clear the budget check.
			payload["status"] = status
			payload["degraded"] = degraded
			return payload, nil
		}
	}

	topic := task.StringParam("topic")
	if topic == "" {
		topic = objective
	}
	content := task.StringParam("content")
	produced := v.Delegate(ctx, task, types.RoleContentManager, "produce_content",
		map[string]any{"topic": topic})
	if produced.Skipped {
		degraded = append(degraded, "content")
	} else {
		payload["content"] = produced.Payload()
		if text, ok := produced.Payload()["content"].(string); ok && content == "" {
			content = text
		}
	}

	if len(platforms) > 0 && content != "" {
		distribution := v.Delegate(ctx, task, types.RoleSocialMediaManager, "post_to_platforms",
			map[string]any{"content": content, "platforms": platforms})
		if distribution.Skipped {
			degraded = append(degraded, "distribution")
		} else {
			payload["distribution"] = distribution.Payload()
		}
	}

	payload["status"] = "launched"
	payload["degraded"] = degraded
	v.Logger().Info("campaign launched",
		zap.String("campaign_id", task.TaskID),
		zap.Strings("degraded", degraded),
	)
	return payload, nil
}
