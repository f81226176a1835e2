package exception_test

import (
	"context"
	"testing"
	"time"

	"github.com/agenticzero/flowgraph/exception"
)

func TestCircuitBreakerTripsAfterThreshold(t *testing.T) {
	cb := exception.NewCircuitBreaker("cb1", "", func(ctx context.Context, input any) (any, error) {
		return nil, errBoom
	}, func(err error) bool { return true })
	cb.FailureThreshold = 2
	cb.TimeoutSeconds = 60

	for i := 0; i < 2; i++ {
		result, _, err := runNode(t, cb, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rec := result.(exception.Record)
		if rec.Success {
			t.Fatalf("expected failure on attempt %d", i)
		}
	}

	// Third call should short-circuit without invoking TargetFn.
	result, _, err := runNode(t, cb, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := result.(exception.Record)
	if rec.Extras["next_action"] != "circuit_open" {
		t.Fatalf("expected circuit to be open, got %+v", rec.Extras)
	}
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	failing := true
	cb := exception.NewCircuitBreaker("cb2", "", func(ctx context.Context, input any) (any, error) {
		if failing {
			return nil, errBoom
		}
		return "ok", nil
	}, func(err error) bool { return true })
	cb.FailureThreshold = 1
	cb.SuccessThreshold = 1
	cb.TimeoutSeconds = 0.01

	if _, _, err := runNode(t, cb, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	failing = false

	result, _, err := runNode(t, cb, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := result.(exception.Record)
	if !rec.Success {
		t.Fatalf("expected the half-open probe to succeed, got %+v", rec)
	}

	state := cb.CustomState()
	if state["breaker_state"] != string(exception.Closed) {
		t.Fatalf("expected breaker to close after a successful probe, got %+v", state)
	}
}
