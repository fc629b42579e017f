package specialist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/resilience"
	"github.com/BaSui01/marketflow/types"
)

// Copywriter drafts and proofreads marketing copy through a text provider.
type Copywriter struct {
	*agent.BaseNode

	text    provider.TextProvider
	retryer *resilience.Retryer
}

// NewCopywriter creates the copywriting node. A nil text provider falls back
// to the explicit unconfigured stub.
func NewCopywriter(text provider.TextProvider, policy *resilience.Policy, logger *zap.Logger) *Copywriter {
	if text == nil {
		text = provider.NewUnconfiguredText("copywriter")
	}
	c := &Copywriter{
		BaseNode: agent.NewBaseNode(types.RoleCopywriter, logger),
		text:     text,
		retryer:  resilience.NewRetryer("copywriter", policy, logger),
	}
	c.Handle("write_copy", []string{"topic"}, c.writeCopy)
	c.Handle("proofread", []string{"content"}, c.proofread)
	return c
}

func (c *Copywriter) writeCopy(ctx context.Context, task *types.Task) (map[string]any, error) {
	topic := task.StringParam("topic")
	req := provider.CompletionRequest{
		System: "You are a marketing copywriter. Produce concise, on-brand copy.",
		Prompt: fmt.Sprintf("Write marketing copy about: %s", topic),
	}
	if tone := task.StringParam("tone"); tone != "" {
		req.Prompt += fmt.Sprintf("\nTone: %s", tone)
	}

	copyText, err := resilience.DoTyped(c.retryer, ctx, func() (string, error) {
		return c.text.Complete(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"copy":  copyText,
		"topic": topic,
	}, nil
}

func (c *Copywriter) proofread(ctx context.Context, task *types.Task) (map[string]any, error) {
	content := task.StringParam("content")
	req := provider.CompletionRequest{
		System: "You are a proofreader. Return the corrected text only.",
		Prompt: content,
	}
	revised, err := resilience.DoTyped(c.retryer, ctx, func() (string, error) {
		return c.text.Complete(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"content":  revised,
		"original": content,
	}, nil
}
