package executive

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/agent/escalation"
	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/resilience"
	"github.com/BaSui01/marketflow/types"
)

// DirectorCommunications runs crisis response off the severity table and
// drafts public statements through a text provider.
type DirectorCommunications struct {
	*agent.BaseNode

	text    provider.TextProvider
	retryer *resilience.Retryer
}

// NewDirectorCommunications creates the communications node.
func NewDirectorCommunications(text provider.TextProvider, policy *resilience.Policy, logger *zap.Logger) *DirectorCommunications {
	if text == nil {
		text = provider.NewUnconfiguredText("communications")
	}
	d := &DirectorCommunications{
		BaseNode: agent.NewBaseNode(types.RoleDirectorCommunications, logger),
		text:     text,
		retryer:  resilience.NewRetryer("communications", policy, logger),
	}
	d.Handle("handle_crisis", []string{"severity", "description"}, d.handleCrisis)
	d.Handle("draft_statement", []string{"topic"}, d.draftStatement)
	return d
}

func (d *DirectorCommunications) handleCrisis(ctx context.Context, task *types.Task) (map[string]any, error) {
	severity := escalation.Severity(task.StringParam("severity"))
	description := task.StringParam("description")
	rule := escalation.RuleFor(severity)

	status := "in_progress"
	if rule.Immediate {
		// The most severe grade escalates before any drafting work starts.
		status = string(escalation.StatusEscalated)
	}
	if rule.Escalate {
		d.Metrics().RecordEscalation(string(d.Role()))
		d.Logger().Warn("crisis escalated to executive approver",
			zap.String("severity", string(severity)),
			zap.String("approver", string(rule.Approver)),
		)
	}

	payload := map[string]any{
		"severity":         string(severity),
		"escalated_to_cmo": rule.Escalate,
		"status":           status,
		"response_window":  rule.ResponseWindow.String(),
		"approver":         string(rule.Approver),
	}
	if rule.Immediate {
		return payload, nil
	}

	statement, err := resilience.DoTyped(d.retryer, ctx, func() (string, error) {
		return d.text.Complete(ctx, provider.CompletionRequest{
			System: "You are a communications director. Draft a short public holding statement.",
			Prompt: fmt.Sprintf("Incident: %s", description),
		})
	})
	if err != nil {
		d.Logger().Warn("statement drafting unavailable", zap.Error(err))
		payload["degraded"] = []string{"statement"}
		return payload, nil
	}
	payload["statement"] = statement
	return payload, nil
}

func (d *DirectorCommunications) draftStatement(ctx context.Context, task *types.Task) (map[string]any, error) {
	topic := task.StringParam("topic")
	statement, err := resilience.DoTyped(d.retryer, ctx, func() (string, error) {
		return d.text.Complete(ctx, provider.CompletionRequest{
			System: "You are a communications director. Draft a short public statement.",
			Prompt: topic,
		})
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"topic":     topic,
		"statement": statement,
	}, nil
}
