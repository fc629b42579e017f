// Package marketflow assembles the three-tier marketing organization and
// routes submitted tasks to the node their role addresses.
package marketflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/agent/executive"
	"github.com/BaSui01/marketflow/agent/management"
	"github.com/BaSui01/marketflow/agent/specialist"
	"github.com/BaSui01/marketflow/config"
	"github.com/BaSui01/marketflow/internal/metrics"
	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/resilience"
	"github.com/BaSui01/marketflow/types"
)

// Ports carries the external capability implementations. Nil entries fall
// back to the explicit unconfigured stubs; the tree still assembles and
// degrades at runtime instead of failing to build.
type Ports struct {
	Text       provider.TextProvider
	Publishers map[string]provider.ContentPublisher
	Analytics  map[string]provider.AnalyticsSource
	Messenger  provider.Messenger
}

// Option customizes organization assembly.
type Option func(*Organization)

// WithCollector attaches a metrics collector to every node in the tree.
func WithCollector(c *metrics.Collector) Option {
	return func(o *Organization) { o.collector = c }
}

// Organization is the assembled delegation tree, rooted at the CMO.
type Organization struct {
	logger    *zap.Logger
	collector *metrics.Collector

	cmo   *executive.CMO
	index map[types.Role]agent.Node
}

// NewOrganization builds the full tree:
//
//	CMO ── VPMarketing ── CampaignManager ── MarketResearch, Analytics, Email
//	 │          ├──────── ContentManager ─── Copywriter, SEO, Designer
//	 │          └──────── SocialMediaManager ── LinkedIn, Twitter
//	 └─ DirectorCommunications
func NewOrganization(cfg *config.Config, ports Ports, logger *zap.Logger, opts ...Option) (*Organization, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Organization{logger: logger}
	for _, opt := range opts {
		opt(o)
	}

	retry := &resilience.Policy{
		MaxRetries:   cfg.Retry.MaxRetries,
		InitialDelay: cfg.Retry.InitialDelay,
		MaxDelay:     cfg.Retry.MaxDelay,
		Multiplier:   cfg.Retry.Multiplier,
		Jitter:       cfg.Retry.Jitter,
	}

	text := ports.Text
	if text == nil {
		text = provider.NewUnconfiguredText("text")
	}
	if cfg.Text.RateLimit > 0 {
		text = provider.NewRateLimitedText(text, cfg.Text.RateLimit, cfg.Text.Burst)
	}

	// Specialist tier.
	linkedin := specialist.NewLinkedInManager(ports.Publishers["linkedin"], ports.Analytics["linkedin"], retry, logger)
	twitter := specialist.NewTwitterManager(ports.Publishers["twitter"], ports.Analytics["twitter"], retry, logger)
	copywriter := specialist.NewCopywriter(text, retry, logger)
	seo := specialist.NewSEOSpecialist(text, retry, logger)
	designer := specialist.NewDesigner(text, retry, logger)
	email, err := specialist.NewEmailSpecialist(cfg.Email.Sender, ports.Messenger, retry, logger)
	if err != nil {
		return nil, err
	}
	analytics := specialist.NewAnalyticsSpecialist(ports.Analytics, retry, logger)
	research := specialist.NewMarketResearch(text, retry, logger)

	// Management tier.
	social := management.NewSocialMediaManager(logger)
	social.RegisterSubordinate(types.RoleLinkedInManager, linkedin)
	social.RegisterSubordinate(types.RoleTwitterManager, twitter)

	content := management.NewContentManager(logger)
	content.RegisterSubordinate(types.RoleCopywriter, copywriter)
	content.RegisterSubordinate(types.RoleSEOSpecialist, seo)
	content.RegisterSubordinate(types.RoleDesigner, designer)

	campaign := management.NewCampaignManager(cfg.Budget.ManagerCap, logger)
	campaign.RegisterSubordinate(types.RoleMarketResearch, research)
	campaign.RegisterSubordinate(types.RoleAnalyticsSpecialist, analytics)
	campaign.RegisterSubordinate(types.RoleEmailSpecialist, email)

	// Executive tier.
	vp := executive.NewVPMarketing(cfg.Budget.VPCap, logger)
	vp.RegisterSubordinate(types.RoleCampaignManager, campaign)
	vp.RegisterSubordinate(types.RoleContentManager, content)
	vp.RegisterSubordinate(types.RoleSocialMediaManager, social)

	director := executive.NewDirectorCommunications(text, retry, logger)

	cmo := executive.NewCMO(cfg.Budget.CMOCap, logger)
	cmo.RegisterSubordinate(types.RoleVPMarketing, vp)
	cmo.RegisterSubordinate(types.RoleDirectorCommunications, director)

	o.cmo = cmo
	o.index = map[types.Role]agent.Node{
		types.RoleCMO:                    cmo,
		types.RoleVPMarketing:            vp,
		types.RoleDirectorCommunications: director,
		types.RoleCampaignManager:        campaign,
		types.RoleContentManager:         content,
		types.RoleSocialMediaManager:     social,
		types.RoleLinkedInManager:        linkedin,
		types.RoleTwitterManager:         twitter,
		types.RoleCopywriter:             copywriter,
		types.RoleSEOSpecialist:          seo,
		types.RoleDesigner:               designer,
		types.RoleEmailSpecialist:        email,
		types.RoleAnalyticsSpecialist:    analytics,
		types.RoleMarketResearch:         research,
	}

	for _, node := range []*agent.BaseNode{
		cmo.BaseNode, vp.BaseNode, director.BaseNode,
		campaign.BaseNode, content.BaseNode, social.BaseNode,
		linkedin.BaseNode, twitter.BaseNode, copywriter.BaseNode,
		seo.BaseNode, designer.BaseNode, email.BaseNode,
		analytics.BaseNode, research.BaseNode,
	} {
		node.WithMetrics(o.collector)
	}

	logger.Info("organization assembled", zap.Int("nodes", len(o.index)))
	return o, nil
}

// Submit routes the task to the node its AssignedTo role addresses and
// executes it. Like every Execute, it always returns a well-formed result.
func (o *Organization) Submit(ctx context.Context, task *types.Task) *types.ExecutionResult {
	if task == nil {
		return types.Failed("", "nil task", "organization", nil)
	}
	node, ok := o.index[task.AssignedTo]
	if !ok {
		return types.Failed(task.TaskID, "no node registered for role: "+string(task.AssignedTo),
			"organization", map[string]string{"task_kind": task.Kind})
	}
	return node.Execute(ctx, task)
}

// Node returns the assembled node for role.
func (o *Organization) Node(role types.Role) (agent.Node, bool) {
	node, ok := o.index[role]
	return node, ok
}

// CMO returns the root node.
func (o *Organization) CMO() *executive.CMO { return o.cmo }

// Stop shuts the whole tree down, cascading from the root. Idempotent.
func (o *Organization) Stop() {
	o.cmo.Stop()
	o.logger.Info("organization stopped")
}
