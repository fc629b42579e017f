package specialist

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/resilience"
	"github.com/BaSui01/marketflow/types"
)

// Designer turns creative briefs into visual specifications.
type Designer struct {
	*agent.BaseNode

	text    provider.TextProvider
	retryer *resilience.Retryer
}

// NewDesigner creates the design node.
func NewDesigner(text provider.TextProvider, policy *resilience.Policy, logger *zap.Logger) *Designer {
	if text == nil {
		text = provider.NewUnconfiguredText("designer")
	}
	d := &Designer{
		BaseNode: agent.NewBaseNode(types.RoleDesigner, logger),
		text:     text,
		retryer:  resilience.NewRetryer("designer", policy, logger),
	}
	d.Handle("create_visual", []string{"brief"}, d.createVisual)
	return d
}

func (d *Designer) createVisual(ctx context.Context, task *types.Task) (map[string]any, error) {
	brief := task.StringParam("brief")
	req := provider.CompletionRequest{
		System: "You are an art director. Turn the brief into a concrete visual specification.",
		Prompt: brief,
	}
	spec, err := resilience.DoTyped(d.retryer, ctx, func() (string, error) {
		return d.text.Complete(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"asset_id": uuid.NewString(),
		"brief":    brief,
		"spec":     spec,
	}, nil
}
