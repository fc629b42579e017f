package management

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/BaSui01/marketflow/agent"
	"github.com/BaSui01/marketflow/types"
)

// stubNode builds a minimal specialist stand-in handling one kind.
func stubNode(t *testing.T, role types.Role, kind string, required []string, fn agent.HandlerFunc) *agent.BaseNode {
	t.Helper()
	node := agent.NewBaseNode(role, zap.NewNop())
	node.Handle(kind, required, fn)
	return node
}

// panickingNode breaks the never-panic Execute contract on purpose.
type panickingNode struct {
	*agent.BaseNode
}

func (p *panickingNode) Execute(context.Context, *types.Task) *types.ExecutionResult {
	panic("specialist crashed")
}

func newPanickingNode(t *testing.T, role types.Role) *panickingNode {
	t.Helper()
	return &panickingNode{BaseNode: agent.NewBaseNode(role, zap.NewNop())}
}
