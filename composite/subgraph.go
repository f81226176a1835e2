// Package composite holds node flavors that embed a full graph run
// inside a single node — a subgraph that a parent graph treats as one
// opaque step. It lives in its own package, separate from node, because
// it depends on executor (to drive the embedded graph) and node depends
// on nothing above it — folding SubgraphNode into package node would
// create an import cycle (node -> executor -> node).
package composite

import (
	"context"
	"fmt"

	"github.com/agenticzero/flowgraph/executor"
	"github.com/agenticzero/flowgraph/graph"
	"github.com/agenticzero/flowgraph/node"
)

// SubgraphNode is a TaskNode whose Exec runs an embedded *graph.Graph to
// completion via a private executor.Executor instance and returns that
// inner run's graph output as its own result, per
// composite_nodes.py's SubGraphNode. Post always takes the default
// successor; inner execution errors propagate as this node's Exec error,
// the same NodeExecutionError disposition any other TaskNode failure
// gets.
type SubgraphNode struct {
	node.State

	inner *executor.Executor
}

// NewSubgraphNode binds inner (already validated by executor.New) into a
// runnable TaskNode. inner's nodes map must cover every id in g.
func NewSubgraphNode(id, name string, g *graph.Graph, nodes map[string]node.Node, opts ...executor.Option) (*SubgraphNode, error) {
	exec, err := executor.New(g, nodes, opts...)
	if err != nil {
		return nil, fmt.Errorf("composite: building subgraph executor: %w", err)
	}
	return &SubgraphNode{State: node.NewState(id, name, node.Task), inner: exec}, nil
}

func (s *SubgraphNode) Prep(ctx context.Context, input any) error { return nil }

func (s *SubgraphNode) Exec(ctx context.Context, input any) (any, error) {
	ec, err := s.inner.Execute(ctx, input)
	if err != nil {
		return nil, err
	}
	return ec.GraphOutput(), nil
}

func (s *SubgraphNode) Post(ctx context.Context, input, result any) (string, error) {
	return node.Default, nil
}
