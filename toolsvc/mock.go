package toolsvc

import (
	"context"
	"sync"
)

// StubTool is a scripted Tool for exercising graph construction without
// a live backend: a fixed name, a queue of canned responses (or a
// canned error), and a record of every call it received.
type StubTool struct {
	ToolName  string
	Responses []map[string]any
	Err       error

	mu    sync.Mutex
	calls []StubCall
	next  int
}

// StubCall is one recorded invocation of StubTool.Call.
type StubCall struct {
	Input map[string]any
}

func (s *StubTool) Name() string { return s.ToolName }

// Call returns the next queued response in order, repeating the last
// one once exhausted, or Err if one is configured. The call is
// recorded before either outcome.
func (s *StubTool) Call(ctx context.Context, input map[string]any) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, StubCall{Input: input})

	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Responses) == 0 {
		return map[string]any{}, nil
	}

	idx := s.next
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	} else {
		s.next++
	}
	return s.Responses[idx], nil
}

// Calls returns a copy of every recorded invocation so far.
func (s *StubTool) Calls() []StubCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StubCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// Reset clears call history and rewinds the response queue, for reuse
// across subtests.
func (s *StubTool) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
	s.next = 0
}

// CallCount reports how many times Call has been invoked.
func (s *StubTool) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

var _ Tool = (*StubTool)(nil)
