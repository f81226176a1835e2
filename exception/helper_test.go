package exception_test

import (
	"context"
	"testing"

	"github.com/agenticzero/flowgraph/node"
)

// runNode drives a node through node.Run with a background context, for
// tests that only care about Exec's Record output.
func runNode(t *testing.T, n node.Node, input any) (result any, action string, err error) {
	t.Helper()
	return node.Run(context.Background(), n, input)
}
