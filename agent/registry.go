package agent

import (
	"sync"

	"github.com/BaSui01/marketflow/types"
)

// Registry maps roles to subordinate nodes for a single owning node. It is
// not shared across nodes and preserves registration order, which fixes the
// fan-out order during delegation.
type Registry struct {
	mu    sync.RWMutex
	order []types.Role
	nodes map[types.Role]Node
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[types.Role]Node)}
}

// Register adds or replaces the subordinate for role. A replaced role keeps
// its original position in the fan-out order.
func (r *Registry) Register(role types.Role, node Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[role]; !exists {
		r.order = append(r.order, role)
	}
	r.nodes[role] = node
}

// Get returns the subordinate for role.
func (r *Registry) Get(role types.Role) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	node, ok := r.nodes[role]
	return node, ok
}

// Has reports whether a subordinate is registered for role.
func (r *Registry) Has(role types.Role) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nodes[role]
	return ok
}

// Roles returns the registered roles in registration order.
func (r *Registry) Roles() []types.Role {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Role, len(r.order))
	copy(out, r.order)
	return out
}

// Nodes returns the registered nodes in registration order.
func (r *Registry) Nodes() []Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Node, 0, len(r.order))
	for _, role := range r.order {
		out = append(out, r.nodes[role])
	}
	return out
}

// Len returns the number of registered subordinates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Clear removes every registration.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.nodes = make(map[types.Role]Node)
}
