package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/types"
)

// SkipReason classifies why a delegated call was excluded from aggregation.
type SkipReason string

const (
	// SkipUnregistered: no subordinate registered under the role.
	SkipUnregistered SkipReason = "unregistered"
	// SkipFailed: the subordinate returned a FAILED result.
	SkipFailed SkipReason = "failed"
	// SkipPanicked: the subordinate call itself panicked. Execute should
	// never let this happen; the delegation boundary is defensive anyway.
	SkipPanicked SkipReason = "panicked"
)

// DelegationOutcome is the explicit result of one delegated call. It
// statically distinguishes collected entries from skipped ones so aggregation
// never relies on catching errors.
type DelegationOutcome struct {
	Role    types.Role
	Result  *types.ExecutionResult // nil when skipped before execution
	Skipped bool
	Reason  SkipReason
}

// Payload returns the collected payload, or nil for skipped outcomes.
func (o DelegationOutcome) Payload() map[string]any {
	if o.Skipped || o.Result == nil {
		return nil
	}
	return o.Result.Payload
}

// Delegate constructs a child task for role (derived id, inherited priority,
// assignment edge recorded) and executes it against the registered
// subordinate. Failures of any kind produce a skipped outcome; they are never
// re-raised and never fail the parent.
func (b *BaseNode) Delegate(ctx context.Context, parent *types.Task, role types.Role, kind string, params map[string]any) DelegationOutcome {
	sub, ok := b.registry.Get(role)
	if !ok {
		b.logger.Warn("subordinate not registered, skipping",
			zap.String("role", string(role)),
			zap.String("task_id", parent.TaskID),
		)
		b.metrics.RecordSkip(string(b.role), string(SkipUnregistered))
		return DelegationOutcome{Role: role, Skipped: true, Reason: SkipUnregistered}
	}

	child := parent.Child(role, kind, params)
	result := b.safeExecute(ctx, sub, child)
	if result == nil {
		b.metrics.RecordSkip(string(b.role), string(SkipPanicked))
		return DelegationOutcome{Role: role, Skipped: true, Reason: SkipPanicked}
	}
	if !result.Succeeded() {
		b.logger.Warn("subordinate failed, excluded from aggregation",
			zap.String("role", string(role)),
			zap.String("child_task_id", child.TaskID),
			zap.String("error", result.Error),
		)
		b.metrics.RecordSkip(string(b.role), string(SkipFailed))
		return DelegationOutcome{Role: role, Result: result, Skipped: true, Reason: SkipFailed}
	}
	return DelegationOutcome{Role: role, Result: result}
}

// safeExecute shields the parent from a subordinate whose Execute violates
// the never-panic contract. It returns nil when the call panicked.
func (b *BaseNode) safeExecute(ctx context.Context, sub Node, child *types.Task) (res *types.ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("subordinate execute panicked",
				zap.String("child_task_id", child.TaskID),
				zap.String("panic", fmt.Sprint(r)),
			)
			res = nil
		}
	}()
	return sub.Execute(ctx, child)
}

// FanOut delegates one child task per role, strictly sequentially and in the
// given order. The returned slice holds one outcome per role, same order.
// paramsFor builds the child parameters per role; a nil paramsFor reuses the
// parent parameters.
func (b *BaseNode) FanOut(ctx context.Context, parent *types.Task, kind string, roles []types.Role, paramsFor func(types.Role) map[string]any) []DelegationOutcome {
	outcomes := make([]DelegationOutcome, 0, len(roles))
	for _, role := range roles {
		params := parent.Params
		if paramsFor != nil {
			params = paramsFor(role)
		}
		outcomes = append(outcomes, b.Delegate(ctx, parent, role, kind, params))
	}
	return outcomes
}

// Collected filters the outcomes that produced a successful result.
func Collected(outcomes []DelegationOutcome) []DelegationOutcome {
	out := make([]DelegationOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Skipped {
			out = append(out, o)
		}
	}
	return out
}

// Skipped filters the outcomes excluded from aggregation.
func Skipped(outcomes []DelegationOutcome) []DelegationOutcome {
	out := make([]DelegationOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Skipped {
			out = append(out, o)
		}
	}
	return out
}
