package specialist

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/provider"
	"github.com/BaSui01/marketflow/resilience"
	"github.com/BaSui01/marketflow/types"
)

// EmailSpecialist sends campaign email through a messenger.
type EmailSpecialist struct {
	*agent.BaseNode

	sender    string
	messenger provider.Messenger
	retryer   *resilience.Retryer
}

// NewEmailSpecialist creates the email node. The sender address is mandatory:
// an empty address is a construction error, not a deferred runtime failure.
func NewEmailSpecialist(sender string, messenger provider.Messenger, policy *resilience.Policy, logger *zap.Logger) (*EmailSpecialist, error) {
	if sender == "" {
		return nil, types.NewError(types.ErrNotConfigured, "email sender address is required")
	}
	if messenger == nil {
		messenger = provider.NewUnconfiguredMessenger("email")
	}
	e := &EmailSpecialist{
		BaseNode:  agent.NewBaseNode(types.RoleEmailSpecialist, logger),
		sender:    sender,
		messenger: messenger,
		retryer:   resilience.NewRetryer("email", policy, logger),
	}
	e.Handle("send_campaign", []string{"subject", "body", "recipients"}, e.sendCampaign)
	return e, nil
}

// Sender returns the configured from-address.
func (e *EmailSpecialist) Sender() string { return e.sender }

func (e *EmailSpecialist) sendCampaign(ctx context.Context, task *types.Task) (map[string]any, error) {
	recipients := task.StringsParam("recipients")
	if len(recipients) == 0 {
		return nil, types.NewError(types.ErrValidationFailed, "campaign has no recipients")
	}

	msg := provider.Message{
		To:      recipients,
		Subject: task.StringParam("subject"),
		Body:    task.StringParam("body"),
	}
	if err := e.retryer.Do(ctx, func() error {
		return e.messenger.Send(ctx, msg)
	}); err != nil {
		return nil, err
	}

	return map[string]any{
		"sent_to": len(recipients),
		"subject": msg.Subject,
		"sender":  e.sender,
	}, nil
}
