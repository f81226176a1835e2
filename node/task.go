package node

import "context"

// ProcessFunc is the input -> output function a TaskNode wraps.
type ProcessFunc func(ctx context.Context, input any) (any, error)

// TaskNode wraps a pure function input -> output. If no ProcessFunc is
// supplied, subclasses are expected to embed TaskNode and override Exec
// (the Go equivalent of overriding _execute_task), matching the source
// taxonomy's TaskNode base class.
//
// Post always returns Default ("take the edge labeled \"default\"").
type TaskNode struct {
	State
	Fn ProcessFunc
}

// NewTaskNode constructs a TaskNode around a process function.
func NewTaskNode(id, name string, fn ProcessFunc) *TaskNode {
	return &TaskNode{State: NewState(id, name, Task), Fn: fn}
}

func (t *TaskNode) Prep(ctx context.Context, input any) error { return nil }

func (t *TaskNode) Exec(ctx context.Context, input any) (any, error) {
	if t.Fn != nil {
		return t.Fn(ctx, input)
	}
	return input, nil
}

func (t *TaskNode) Post(ctx context.Context, input, result any) (string, error) {
	return Default, nil
}
