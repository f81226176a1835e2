// Package toolsvc models the tool service spec.md's engine collaborator
// table describes as "an opaque RPC endpoint a task node may invoke;
// outside the engine's concern" — the engine never inspects a tool's
// wire protocol, only its Go-side Call contract. AsProcessFunc adapts a
// Tool into the node.ProcessFunc a TaskNode wraps, so a graph author
// plugs a tool in the same way they'd plug in any other function.
package toolsvc

import (
	"context"
	"fmt"
)

// Tool is something a task node can invoke by name: a calculator, a
// search index, a remote service, anything a ChatModel might decide to
// call in response to a ToolSpec. The engine has no notion of "tool
// call" as a first-class concept; a Tool is just the shape node authors
// standardize on so Call sites don't each invent their own signature.
type Tool interface {
	// Name is the identifier a ToolSpec/ToolCall refers to this tool by.
	Name() string

	// Call invokes the tool. input and the returned map are both
	// free-form — the tool and its caller agree on the shape out of
	// band (typically via the ToolSpec's JSON Schema).
	Call(ctx context.Context, input map[string]any) (map[string]any, error)
}

// AsProcessFunc adapts t into a node.ProcessFunc-shaped closure (it
// returns the bare func type rather than importing package node, to
// keep this package usable from anything that wraps a ProcessFunc-like
// signature without forcing an import cycle). input must be a
// map[string]any, or nil; anything else is a configuration error on the
// caller's part, not a tool failure, so it is returned as an error
// rather than silently coerced.
func AsProcessFunc(t Tool) func(ctx context.Context, input any) (any, error) {
	return func(ctx context.Context, input any) (any, error) {
		var args map[string]any
		switch v := input.(type) {
		case nil:
		case map[string]any:
			args = v
		default:
			return nil, &InputShapeError{Tool: t.Name(), Got: input}
		}
		out, err := t.Call(ctx, args)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

// InputShapeError reports a task node invoking a tool with an input
// that isn't a map[string]any.
type InputShapeError struct {
	Tool string
	Got  any
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("toolsvc: tool %q requires map[string]any input, got %T", e.Tool, e.Got)
}
