package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/internal/metrics"
	"github.com/BaSui01/marketflow/types"
)

// BaseNode provides the reusable node machinery: a task-kind dispatch table
// with required-parameter validation, the execute failure boundary, the
// subordinate registry, and the idempotent stop cascade. Tier packages embed
// it and register their handlers at construction.
type BaseNode struct {
	id      string
	role    types.Role
	logger  *zap.Logger
	metrics *metrics.Collector

	mu        sync.Mutex
	handlers  map[string]HandlerFunc
	required  map[string][]string
	available bool
	stopped   bool
	stopHooks []func()

	registry *Registry
}

// NewBaseNode creates a node for the given role. The registry starts empty
// and is populated post-construction by the owning assembler.
func NewBaseNode(role types.Role, logger *zap.Logger) *BaseNode {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseNode{
		id:        string(role),
		role:      role,
		logger:    logger.With(zap.String("agent_id", string(role))),
		handlers:  make(map[string]HandlerFunc),
		required:  make(map[string][]string),
		available: true,
		registry:  NewRegistry(),
	}
}

// WithMetrics attaches a metrics collector. A nil collector is valid.
func (b *BaseNode) WithMetrics(c *metrics.Collector) *BaseNode {
	b.metrics = c
	return b
}

// ID returns the agent identifier.
func (b *BaseNode) ID() string { return b.id }

// Metrics returns the attached collector. May be nil; collector methods
// tolerate a nil receiver.
func (b *BaseNode) Metrics() *metrics.Collector { return b.metrics }

// Role returns the node's organizational role.
func (b *BaseNode) Role() types.Role { return b.role }

// Logger returns the node's logger, pre-tagged with the agent id.
func (b *BaseNode) Logger() *zap.Logger { return b.logger }

// Available reports whether the node accepts tasks.
func (b *BaseNode) Available() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.available
}

// Handle registers a handler for a task kind along with the parameter keys
// that must be present for the kind to validate.
func (b *BaseNode) Handle(kind string, required []string, fn HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = fn
	b.required[kind] = required
}

// OnStop registers a hook run during Stop after subordinates have stopped.
// Tier nodes use it to release owned resources such as caches.
func (b *BaseNode) OnStop(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopHooks = append(b.stopHooks, fn)
}

// Validate reports whether the task kind is registered and every required
// parameter key is present. A stopped node validates nothing.
func (b *BaseNode) Validate(task *types.Task) bool {
	if task == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.available {
		return false
	}
	if _, ok := b.handlers[task.Kind]; !ok {
		return false
	}
	for _, key := range b.required[task.Kind] {
		if _, ok := task.Params[key]; !ok {
			return false
		}
	}
	return true
}

// Execute processes the task inside the failure boundary. It always returns
// a well-formed result: validation misses surface as deterministic FAILED
// results, and nothing below this boundary escapes as a panic.
func (b *BaseNode) Execute(ctx context.Context, task *types.Task) *types.ExecutionResult {
	if task == nil {
		return types.Failed("", "nil task", b.id, nil)
	}
	start := time.Now()

	if !b.Validate(task) {
		res := types.Failed(task.TaskID,
			fmt.Sprintf("unsupported or invalid task: %s", task.Kind),
			b.id,
			map[string]string{"task_id": task.TaskID, "task_kind": task.Kind},
		)
		b.logger.Warn("task rejected by validation",
			zap.String("task_id", task.TaskID),
			zap.String("task_kind", task.Kind),
		)
		b.metrics.RecordTask(string(b.role), task.Kind, string(res.Status), time.Since(start))
		return res
	}

	res := b.executeTask(ctx, task)
	b.metrics.RecordTask(string(b.role), task.Kind, string(res.Status), time.Since(start))
	return res
}

// executeTask dispatches to the registered handler. A missing handler here,
// after validation passed, is a programming-error condition reported as a
// FAILED result rather than a crash. Panics are recovered into FAILED
// results carrying {agent_id, task_id, task_kind}.
func (b *BaseNode) executeTask(ctx context.Context, task *types.Task) (res *types.ExecutionResult) {
	taskContext := map[string]string{"task_id": task.TaskID, "task_kind": task.Kind}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("task_id", task.TaskID),
				zap.String("task_kind", task.Kind),
				zap.Any("panic", r),
			)
			res = types.Failed(task.TaskID, fmt.Sprintf("handler panic: %v", r), b.id, taskContext)
		}
	}()

	b.mu.Lock()
	fn, ok := b.handlers[task.Kind]
	b.mu.Unlock()
	if !ok {
		return types.Failed(task.TaskID, "unsupported task type: "+task.Kind, b.id, taskContext)
	}

	payload, err := fn(ctx, task)
	if err != nil {
		b.logger.Warn("task execution failed",
			zap.String("task_id", task.TaskID),
			zap.String("task_kind", task.Kind),
			zap.Error(err),
		)
		return types.Failed(task.TaskID, fmt.Sprintf("task execution failed: %v", err), b.id, taskContext)
	}
	return types.Completed(task.TaskID, payload, b.id)
}

// RegisterSubordinate adds a subordinate node under the given role.
func (b *BaseNode) RegisterSubordinate(role types.Role, node Node) {
	b.registry.Register(role, node)
	b.logger.Info("subordinate registered", zap.String("role", string(role)))
}

// HasSubordinate reports whether a subordinate is registered for role.
func (b *BaseNode) HasSubordinate(role types.Role) bool {
	return b.registry.Has(role)
}

// Subordinate returns the registered subordinate for role.
func (b *BaseNode) Subordinate(role types.Role) (Node, bool) {
	return b.registry.Get(role)
}

// SubordinateRoles returns the registered roles in registration order.
func (b *BaseNode) SubordinateRoles() []types.Role {
	return b.registry.Roles()
}

// Stop cascades depth-first through registered subordinates, runs the stop
// hooks, clears the dispatch table and registry, and marks the node
// unavailable. Calling Stop a second time is a no-op.
func (b *BaseNode) Stop() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	b.available = false
	hooks := b.stopHooks
	b.stopHooks = nil
	b.mu.Unlock()

	for _, sub := range b.registry.Nodes() {
		sub.Stop()
	}
	for _, hook := range hooks {
		hook()
	}

	b.registry.Clear()
	b.mu.Lock()
	b.handlers = make(map[string]HandlerFunc)
	b.required = make(map[string][]string)
	b.mu.Unlock()

	b.logger.Info("node stopped")
}
