package node_test

import (
	"context"
	"testing"

	"github.com/agenticzero/flowgraph/node"
)

func TestSequencePassesThroughAndDefaultsAction(t *testing.T) {
	seq := node.NewSequence("seq", "", func(ctx context.Context, input any) (any, error) {
		return input.(string) + "!", nil
	})
	result, action, err := node.Run(context.Background(), seq, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "hi!" {
		t.Fatalf("expected hi!, got %v", result)
	}
	if action != node.Default {
		t.Fatalf("expected default action, got %q", action)
	}
}

func TestBranchRoutesOnPredicateLabel(t *testing.T) {
	b := node.NewBranch("b", "", func(ctx context.Context, input any) (string, error) {
		if input.(int) > 50 {
			return "high", nil
		}
		return "low", nil
	})

	_, action, err := node.Run(context.Background(), b, 80)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != "high" {
		t.Fatalf("expected high, got %q", action)
	}

	b2 := node.NewBranch("b2", "", nil)
	_, action2, err := node.Run(context.Background(), b2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action2 != "default" {
		t.Fatalf("expected default predicate to return \"default\", got %q", action2)
	}
}

func TestBranchExecReturnsActionEnvelopeWithData(t *testing.T) {
	b := node.NewBranch("b", "", func(ctx context.Context, input any) (string, error) {
		return "low", nil
	})
	result, _, err := node.Run(context.Background(), b, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env, ok := result.(node.ActionEnvelope)
	if !ok {
		t.Fatalf("expected ActionEnvelope, got %T", result)
	}
	if env.Action != "low" || env.Data != 30 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestForkExecReturnsForkEnvelopeAndForkSentinel(t *testing.T) {
	f := node.NewFork("f", "", 3)
	result, action, err := node.Run(context.Background(), f, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != node.Fork {
		t.Fatalf("expected fork sentinel, got %q", action)
	}
	env, ok := result.(node.ForkEnvelope)
	if !ok {
		t.Fatalf("expected ForkEnvelope, got %T", result)
	}
	if !env.Fork || env.Count != 3 || env.Data != 10 {
		t.Fatalf("unexpected fork envelope: %+v", env)
	}
}

func TestMergeBuffersUntilIncomingDegreeSatisfied(t *testing.T) {
	var lastInputs []any
	m := node.NewMerge("m", "", func(ctx context.Context, inputs []any) (any, error) {
		lastInputs = inputs
		return len(inputs), nil
	})
	m.SetIncomingDegree(2)

	_, action1, err := node.Run(context.Background(), m, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action1 != node.Waiting {
		t.Fatalf("expected waiting after first arrival, got %q", action1)
	}

	result, action2, err := node.Run(context.Background(), m, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action2 != node.Default {
		t.Fatalf("expected default once complete, got %q", action2)
	}
	if result != 2 {
		t.Fatalf("expected merge of 2 inputs, got %v", result)
	}
	if len(lastInputs) != 2 || lastInputs[0] != "a" || lastInputs[1] != "b" {
		t.Fatalf("unexpected collated inputs: %v", lastInputs)
	}
}

func TestMergeAcceptsPreCollatedList(t *testing.T) {
	m := node.NewMerge("m", "", nil)
	result, action, err := node.Run(context.Background(), m, []any{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != node.Default {
		t.Fatalf("expected default action, got %q", action)
	}
	if result != 3 {
		t.Fatalf("expected default merge fn to return last element, got %v", result)
	}
}

func TestJoinWaitsForCollatedListFromExecutor(t *testing.T) {
	j := node.NewJoin("j", "", func(ctx context.Context, inputs []any) (any, error) {
		sum := 0
		for _, v := range inputs {
			sum += v.(int)
		}
		return sum, nil
	})

	// Join itself never decides completeness; fed a bare scalar it still
	// reports waiting because it isn't a pre-collated list.
	_, action, err := node.Run(context.Background(), j, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != node.Waiting {
		t.Fatalf("expected waiting for non-list input, got %q", action)
	}

	result, action2, err := node.Run(context.Background(), j, []any{11, 12, 13})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action2 != node.Default {
		t.Fatalf("expected default once collated, got %q", action2)
	}
	if result != 36 {
		t.Fatalf("expected sum of 36, got %v", result)
	}
}

func TestJoinDefaultFnReturnsInputsUnchanged(t *testing.T) {
	j := node.NewJoin("j", "", nil)
	result, _, err := node.Run(context.Background(), j, []any{"x", "y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := result.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("expected passthrough list, got %v", result)
	}
}

func TestNewExprPredicateCompilesAndEvaluates(t *testing.T) {
	pred, err := node.NewExprPredicate(`input > 50 ? "high" : "low"`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	label, err := pred(context.Background(), 80)
	if err != nil {
		t.Fatalf("unexpected eval error: %v", err)
	}
	if label != "high" {
		t.Fatalf("expected high, got %q", label)
	}
}

func TestNewExprPredicateRejectsInvalidExpression(t *testing.T) {
	_, err := node.NewExprPredicate(`input +`)
	if err == nil {
		t.Fatal("expected compile error for malformed expression")
	}
}
