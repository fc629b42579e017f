package agent

import (
	"context"

	"github.com/BaSui01/marketflow/types"
)

// HandlerFunc processes one task kind. The returned map becomes the
// ExecutionResult payload. Handlers never call back into the router.
type HandlerFunc func(ctx context.Context, task *types.Task) (map[string]any, error)

// Node is the contract every delegating or executing unit implements.
type Node interface {
	// ID returns the node's agent identifier.
	ID() string
	// Role returns the node's organizational role.
	Role() types.Role
	// Validate reports whether the node can accept the task: the kind is
	// registered and all required parameters are present.
	Validate(task *types.Task) bool
	// Execute processes the task. It always returns a result and never
	// panics; failures of any origin surface as FAILED results.
	Execute(ctx context.Context, task *types.Task) *types.ExecutionResult
	// Stop cascades depth-first through registered subordinates, clears the
	// node's own state, and marks it unavailable. Idempotent.
	Stop()
	// Available reports whether the node accepts tasks.
	Available() bool

	// RegisterSubordinate adds a subordinate under the given role.
	RegisterSubordinate(role types.Role, node Node)
	// HasSubordinate reports whether a subordinate is registered for role.
	HasSubordinate(role types.Role) bool
}
