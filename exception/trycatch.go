package exception

import (
	"context"
	"errors"

	"github.com/agenticzero/flowgraph/node"
)

// TargetFunc is the input -> output function an exception operator
// wraps; it may return an error.
type TargetFunc func(ctx context.Context, input any) (any, error)

// CatchFunc handles a caught error, producing a recovery result.
type CatchFunc func(ctx context.Context, input any, err error) (any, error)

// Matcher decides whether an error is one this operator should handle.
// A nil Matcher matches every error.
type Matcher func(err error) bool

// TryCatch runs TryFn; on a matching error it runs CatchFn and reports a
// handled failure. Non-matching errors propagate out of Exec, which the
// executor treats as a normal NodeExecutionError.
type TryCatch struct {
	node.State
	TryFn   TargetFunc
	CatchFn CatchFunc
	Matches Matcher
}

func NewTryCatch(id, name string, tryFn TargetFunc, catchFn CatchFunc, matches Matcher) *TryCatch {
	return &TryCatch{State: node.NewState(id, name, node.Exception), TryFn: tryFn, CatchFn: catchFn, Matches: matches}
}

func (t *TryCatch) Prep(ctx context.Context, input any) error { return nil }

func (t *TryCatch) Exec(ctx context.Context, input any) (any, error) {
	result, err := t.TryFn(ctx, input)
	if err == nil {
		rec := newRecord(true, false)
		rec.Result = result
		return rec, nil
	}

	if t.Matches != nil && !t.Matches(err) {
		return nil, err
	}

	catchResult, catchErr := t.CatchFn(ctx, input, err)
	if catchErr != nil {
		return nil, catchErr
	}

	rec := newRecord(false, true)
	rec.Result = catchResult
	rec.Error = err.Error()
	rec.Extras["exception_type"] = exceptionType(err)
	return rec, nil
}

func (t *TryCatch) Post(ctx context.Context, input, result any) (string, error) {
	if rec, ok := result.(Record); ok {
		return rec.routeAction(), nil
	}
	return node.Default, nil
}

func exceptionType(err error) string {
	var unwrapped error = err
	for {
		if next := errors.Unwrap(unwrapped); next != nil {
			unwrapped = next
			continue
		}
		break
	}
	return errorTypeName(unwrapped)
}
