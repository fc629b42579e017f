package executive

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/agent/escalation"
	"github.com/BaSui01/marketflow/types"
)

// Strategy is the single active strategy record. Setting a new strategy
// replaces it, ledger included.
type Strategy struct {
	ID          string  `json:"id"`
	Objective   string  `json:"objective"`
	TotalBudget float64 `json:"total_budget"`
}

// CMO is the root of the organization. It owns the active strategy and its
// budget ledger, and approves campaign budgets against both its authority cap
// and the remaining budget.
type CMO struct {
	*agent.BaseNode

	policy *escalation.Policy

	mu       sync.Mutex
	strategy *Strategy
	ledger   *escalation.Ledger
}

// NewCMO creates the root node with the given authority cap.
func NewCMO(authorityCap float64, logger *zap.Logger) *CMO {
	c := &CMO{BaseNode: agent.NewBaseNode(types.RoleCMO, logger)}
	c.policy = escalation.NewPolicy(authorityCap, nil, logger)
	c.Handle("set_strategy", []string{"objective", "total_budget"}, c.setStrategy)
	c.Handle("approve_campaign_budget", []string{"requested_budget"}, c.approveCampaignBudget)
	return c
}

// ActiveStrategy returns the current strategy record, or nil.
func (c *CMO) ActiveStrategy() *Strategy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strategy
}

// EscalationLog exposes recorded escalations for review.
func (c *CMO) EscalationLog() []escalation.LogEntry {
	return c.policy.Log.Entries()
}

func (c *CMO) setStrategy(_ context.Context, task *types.Task) (map[string]any, error) {
	total, ok := task.FloatParam("total_budget")
	if !ok || total <= 0 {
		return nil, types.NewError(types.ErrValidationFailed, "total_budget must be a positive number")
	}
	objective := task.StringParam("objective")

	strategy := &Strategy{
		ID:          uuid.NewString(),
		Objective:   objective,
		TotalBudget: total,
	}
	ledger := escalation.NewLedger(total)

	c.mu.Lock()
	replaced := c.strategy != nil
	c.strategy = strategy
	c.ledger = ledger
	c.policy.Ledger = ledger
	c.mu.Unlock()

	c.Logger().Info("strategy activated",
		zap.String("strategy_id", strategy.ID),
		zap.Float64("total_budget", total),
		zap.Bool("replaced_previous", replaced),
	)
	return map[string]any{
		"strategy_id":  strategy.ID,
		"objective":    objective,
		"total_budget": total,
		"status":       "active",
	}, nil
}

func (c *CMO) approveCampaignBudget(_ context.Context, task *types.Task) (map[string]any, error) {
	requested, ok := task.FloatParam("requested_budget")
	if !ok {
		return nil, types.NewError(types.ErrValidationFailed, "requested_budget must be numeric")
	}

	c.mu.Lock()
	strategy := c.strategy
	ledger := c.ledger
	c.mu.Unlock()
	if strategy == nil {
		return nil, types.NewError(types.ErrValidationFailed, "no active strategy to approve against")
	}

	objective := task.StringParam("objective")
	if objective == "" {
		objective = strategy.Objective
	}
	decision := c.policy.Decide(escalation.ApprovalRequest{
		ID:        task.TaskID,
		Amount:    requested,
		Objective: objective,
		Channels:  task.StringsParam("channels"),
		Resources: task.StringsParam("resources"),
	})

	payload := map[string]any{
		"strategy_id":      strategy.ID,
		"requested_budget": requested,
		"status":           string(decision.Status),
	}
	if decision.Reason != "" {
		payload["reason"] = decision.Reason
	}
	if len(decision.Conditions) > 0 {
		payload["conditions"] = decision.Conditions
	}

	switch decision.Status {
	case escalation.StatusEscalated:
		c.Metrics().RecordEscalation(string(c.Role()))
	case escalation.StatusApproved:
		if err := ledger.Allocate(requested); err != nil {
			return nil, types.NewError(types.ErrExecutionFailed, "budget allocation failed").WithCause(err)
		}
	}
	payload["remaining_budget"] = ledger.Remaining()
	return payload, nil
}
