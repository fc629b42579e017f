package management

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/types"
)

// ContentManager runs the production pipeline copy -> seo -> design. The
// copywriter is the one mandatory stage; a missing SEO or design specialist
// downgrades the payload and the pipeline carries on with what it has.
type ContentManager struct {
	*agent.BaseNode
}

// NewContentManager creates the content pipeline node.
func NewContentManager(logger *zap.Logger) *ContentManager {
	m := &ContentManager{BaseNode: agent.NewBaseNode(types.RoleContentManager, logger)}
	m.Handle("produce_content", []string{"topic"}, m.produceContent)
	return m
}

func (m *ContentManager) produceContent(ctx context.Context, task *types.Task) (map[string]any, error) {
	topic := task.StringParam("topic")

	draft := m.Delegate(ctx, task, types.RoleCopywriter, "write_copy",
		map[string]any{"topic": topic, "tone": task.StringParam("tone")})
	if draft.Skipped {
		return nil, types.NewError(types.ErrDelegationFailed,
			"content pipeline has no usable copywriter output")
	}
	content, _ := draft.Payload()["copy"].(string)

	var degraded []string

	optimized := m.Delegate(ctx, task, types.RoleSEOSpecialist, "optimize_content",
		map[string]any{"content": content})
	seoApplied := !optimized.Skipped
	if seoApplied {
		if revised, ok := optimized.Payload()["content"].(string); ok {
			content = revised
		}
	} else {
		m.Logger().Warn("seo stage unavailable, shipping raw copy", zap.String("task_id", task.TaskID))
		degraded = append(degraded, "seo")
	}

	payload := map[string]any{
		"topic":         topic,
		"content":       content,
		"seo_optimized": seoApplied,
	}

	visual := m.Delegate(ctx, task, types.RoleDesigner, "create_visual",
		map[string]any{"brief": "visual for: " + topic})
	if visual.Skipped {
		degraded = append(degraded, "design")
	} else {
		payload["visual"] = visual.Payload()
	}

	payload["degraded"] = degraded
	return payload, nil
}
