package exception

import (
	"context"
	"fmt"
	"time"

	"github.com/agenticzero/flowgraph/node"
)

// Timeout wraps TargetFn with a cooperative deadline: TargetFn must
// observe ctx.Done() to actually stop early, per context.Context
// convention. A caller whose TargetFn ignores ctx will run to
// completion, but Exec still reports it as timed out once the deadline
// passes.
type Timeout struct {
	node.State

	TargetFn TargetFunc
	// TimeoutSeconds is the deadline, in seconds, for a single attempt.
	TimeoutSeconds float64
}

func NewTimeout(id, name string, targetFn TargetFunc, timeoutSeconds float64) *Timeout {
	return &Timeout{State: node.NewState(id, name, node.Exception), TargetFn: targetFn, TimeoutSeconds: timeoutSeconds}
}

func (t *Timeout) Prep(ctx context.Context, input any) error { return nil }

func (t *Timeout) Exec(ctx context.Context, input any) (any, error) {
	if t.TimeoutSeconds <= 0 {
		result, err := t.TargetFn(ctx, input)
		if err != nil {
			return nil, err
		}
		rec := newRecord(true, false)
		rec.Result = result
		return rec, nil
	}

	deadline := time.Duration(t.TimeoutSeconds * float64(time.Second))
	timeoutCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	type outcome struct {
		result any
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := t.TargetFn(timeoutCtx, input)
		done <- outcome{result, err}
	}()

	select {
	case <-timeoutCtx.Done():
		rec := newRecord(false, true)
		rec.Error = fmt.Sprintf("timed out after %.2fs", t.TimeoutSeconds)
		rec.Extras["timeout"] = true
		rec.Extras["timeout_seconds"] = t.TimeoutSeconds
		return rec, nil
	case o := <-done:
		if o.err != nil {
			if timeoutCtx.Err() != nil {
				rec := newRecord(false, true)
				rec.Error = fmt.Sprintf("timed out after %.2fs", t.TimeoutSeconds)
				rec.Extras["timeout"] = true
				rec.Extras["timeout_seconds"] = t.TimeoutSeconds
				return rec, nil
			}
			return nil, o.err
		}
		rec := newRecord(true, false)
		rec.Result = o.result
		return rec, nil
	}
}

func (t *Timeout) Post(ctx context.Context, input, result any) (string, error) {
	if rec, ok := result.(Record); ok {
		return rec.routeAction(), nil
	}
	return node.Default, nil
}
