package specialist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/resilience"
	"github.com/BaSui01/marketflow/types"
)

// SEOSpecialist optimizes copy for search and researches keywords.
type SEOSpecialist struct {
	*agent.BaseNode

	text    provider.TextProvider
	retryer *resilience.Retryer
}

// NewSEOSpecialist creates the SEO node.
func NewSEOSpecialist(text provider.TextProvider, policy *resilience.Policy, logger *zap.Logger) *SEOSpecialist {
	if text == nil {
		text = provider.NewUnconfiguredText("seo")
	}
	s := &SEOSpecialist{
		BaseNode: agent.NewBaseNode(types.RoleSEOSpecialist, logger),
		text:     text,
		retryer:  resilience.NewRetryer("seo", policy, logger),
	}
	s.Handle("optimize_content", []string{"content"}, s.optimizeContent)
	s.Handle("keyword_research", []string{"topic"}, s.keywordResearch)
	return s
}

func (s *SEOSpecialist) optimizeContent(ctx context.Context, task *types.Task) (map[string]any, error) {
	content := task.StringParam("content")
	req := provider.CompletionRequest{
		System: "You are an SEO editor. Rewrite for search visibility without changing meaning.",
		Prompt: content,
	}
	optimized, err := resilience.DoTyped(s.retryer, ctx, func() (string, error) {
		return s.text.Complete(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"content":  optimized,
		"original": content,
	}, nil
}

func (s *SEOSpecialist) keywordResearch(ctx context.Context, task *types.Task) (map[string]any, error) {
	topic := task.StringParam("topic")
	req := provider.CompletionRequest{
		System: "You are an SEO researcher. Return a comma-separated keyword list only.",
		Prompt: fmt.Sprintf("Keywords for: %s", topic),
	}
	raw, err := resilience.DoTyped(s.retryer, ctx, func() (string, error) {
		return s.text.Complete(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	var keywords []string
	for _, kw := range strings.Split(raw, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return map[string]any{
		"topic":    topic,
		"keywords": keywords,
	}, nil
}
