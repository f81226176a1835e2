package exception_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agenticzero/flowgraph/exception"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	r := exception.NewRetry("r1", "", func(ctx context.Context, input any) (any, error) {
		calls++
		if calls < 3 {
			return nil, errBoom
		}
		return "done", nil
	}, func(err error) bool { return true })
	r.RetryDelay = time.Millisecond
	r.MaxRetries = 5

	result, _, err := runNode(t, r, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := result.(exception.Record)
	if !rec.Success {
		t.Fatalf("expected eventual success, got %+v", rec)
	}
	if rec.Extras["attempts"] != 3 {
		t.Fatalf("expected 3 attempts, got %v", rec.Extras["attempts"])
	}
}

func TestRetryExhaustsMaxRetries(t *testing.T) {
	r := exception.NewRetry("r2", "", func(ctx context.Context, input any) (any, error) {
		return nil, errBoom
	}, func(err error) bool { return true })
	r.RetryDelay = time.Millisecond
	r.MaxRetries = 2

	result, _, err := runNode(t, r, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := result.(exception.Record)
	if rec.Success {
		t.Fatalf("expected failure after exhausting retries")
	}
	if rec.Extras["max_retries_exceeded"] != true {
		t.Fatalf("expected max_retries_exceeded flag, got %+v", rec.Extras)
	}
	if rec.Extras["attempts"] != 3 { // initial + 2 retries
		t.Fatalf("expected 3 total attempts, got %v", rec.Extras["attempts"])
	}
}

func TestRetryPropagatesNonMatchingError(t *testing.T) {
	other := errors.New("permanent")
	r := exception.NewRetry("r3", "", func(ctx context.Context, input any) (any, error) {
		return nil, other
	}, func(err error) bool { return false })
	r.RetryDelay = time.Millisecond

	_, _, err := runNode(t, r, nil)
	if !errors.Is(err, other) {
		t.Fatalf("expected non-matching error to propagate immediately, got %v", err)
	}
}
