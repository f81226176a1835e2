package toolsvc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/agenticzero/flowgraph/toolsvc"
)

func TestStubToolReturnsQueuedResponsesThenRepeatsLast(t *testing.T) {
	stub := &toolsvc.StubTool{
		ToolName: "search",
		Responses: []map[string]any{
			{"page": 1},
			{"page": 2},
		},
	}

	for i, want := range []int{1, 2, 2, 2} {
		out, err := stub.Call(context.Background(), map[string]any{"q": "x"})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if out["page"] != want {
			t.Fatalf("call %d: expected page %d, got %v", i, want, out["page"])
		}
	}

	if stub.CallCount() != 4 {
		t.Fatalf("expected 4 recorded calls, got %d", stub.CallCount())
	}
}

func TestStubToolReturnsEmptyMapWhenNoResponsesConfigured(t *testing.T) {
	stub := &toolsvc.StubTool{ToolName: "empty"}
	out, err := stub.Call(context.Background(), nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty map, got %#v", out)
	}
}

func TestStubToolReturnsConfiguredError(t *testing.T) {
	want := errors.New("boom")
	stub := &toolsvc.StubTool{ToolName: "failing", Err: want}

	_, err := stub.Call(context.Background(), nil)
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if stub.CallCount() != 1 {
		t.Fatalf("expected the failing call to still be recorded, got count %d", stub.CallCount())
	}
}

func TestStubToolRespectsContextCancellation(t *testing.T) {
	stub := &toolsvc.StubTool{ToolName: "cancelable"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stub.Call(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStubToolResetClearsHistoryAndRewindsResponses(t *testing.T) {
	stub := &toolsvc.StubTool{
		ToolName:  "resettable",
		Responses: []map[string]any{{"n": 1}, {"n": 2}},
	}
	_, _ = stub.Call(context.Background(), nil)
	_, _ = stub.Call(context.Background(), nil)

	stub.Reset()
	if stub.CallCount() != 0 {
		t.Fatalf("expected call count 0 after Reset, got %d", stub.CallCount())
	}

	out, err := stub.Call(context.Background(), nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if out["n"] != 1 {
		t.Fatalf("expected response queue rewound to first entry, got %v", out["n"])
	}
}

func TestStubToolIsSafeForConcurrentCalls(t *testing.T) {
	stub := &toolsvc.StubTool{ToolName: "concurrent", Responses: []map[string]any{{"ok": true}}}

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := stub.Call(context.Background(), nil)
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("concurrent call failed: %v", err)
		}
	}
	if stub.CallCount() != n {
		t.Fatalf("expected %d recorded calls, got %d", n, stub.CallCount())
	}
}
