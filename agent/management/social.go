package management

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/types"
)

// platformRoles maps a platform name from task parameters to the specialist
// role that owns the channel.
var platformRoles = map[string]types.Role{
	"twitter":  types.RoleTwitterManager,
	"linkedin": types.RoleLinkedInManager,
}

// SocialMediaManager coordinates the channel specialists: it fans a post out
// across platforms sequentially and collects channel analytics. Unregistered
// or failing channels degrade the payload, never the overall status.
type SocialMediaManager struct {
	*agent.BaseNode
}

// NewSocialMediaManager creates the social coordination node. Channel
// specialists are registered post-construction by the assembler.
func NewSocialMediaManager(logger *zap.Logger) *SocialMediaManager {
	m := &SocialMediaManager{BaseNode: agent.NewBaseNode(types.RoleSocialMediaManager, logger)}
	m.Handle("post_to_platforms", []string{"content", "platforms"}, m.postToPlatforms)
	m.Handle("collect_analytics", nil, m.collectAnalytics)
	return m
}

func (m *SocialMediaManager) postToPlatforms(ctx context.Context, task *types.Task) (map[string]any, error) {
	content := task.StringParam("content")
	platforms := task.StringsParam("platforms")

	posted := make([]map[string]any, 0, len(platforms))
	skipped := make([]map[string]any, 0)
	for _, platform := range platforms {
		role, ok := platformRoles[platform]
		if !ok {
			m.Logger().Warn("unknown platform requested", zap.String("platform", platform))
			skipped = append(skipped, map[string]any{"platform": platform, "reason": "unknown_platform"})
			continue
		}
		outcome := m.Delegate(ctx, task, role, "post_content",
			map[string]any{"content": content})
		if outcome.Skipped {
			skipped = append(skipped, map[string]any{"platform": platform, "reason": string(outcome.Reason)})
			continue
		}
		posted = append(posted, outcome.Payload())
	}

	return map[string]any{
		"platforms_posted": len(posted),
		"results":          posted,
		"skipped":          skipped,
	}, nil
}

func (m *SocialMediaManager) collectAnalytics(ctx context.Context, task *types.Task) (map[string]any, error) {
	outcomes := m.FanOut(ctx, task, "fetch_analytics", m.SubordinateRoles(), func(types.Role) map[string]any {
		return nil
	})

	byChannel := make(map[string]any)
	var unavailable []string
	for _, o := range outcomes {
		if o.Skipped {
			unavailable = append(unavailable, string(o.Role))
			continue
		}
		payload := o.Payload()
		if channel, ok := payload["channel"].(string); ok {
			byChannel[channel] = payload
		}
	}

	return map[string]any{
		"channels_reported":    len(byChannel),
		"analytics":            byChannel,
		"channels_unavailable": unavailable,
	}, nil
}
