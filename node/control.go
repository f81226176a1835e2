package node

import (
	"context"
	"sync"
)

// Sequence is a passthrough ControlNode: Exec applies a process function
// (defaulting to identity) and Post always returns Default.
type Sequence struct {
	State
	Fn ProcessFunc
}

func NewSequence(id, name string, fn ProcessFunc) *Sequence {
	return &Sequence{State: NewState(id, name, Control), Fn: fn}
}

func (s *Sequence) Prep(ctx context.Context, input any) error { return nil }

func (s *Sequence) Exec(ctx context.Context, input any) (any, error) {
	if s.Fn != nil {
		return s.Fn(ctx, input)
	}
	return input, nil
}

func (s *Sequence) Post(ctx context.Context, input, result any) (string, error) {
	return Default, nil
}

// Predicate computes a routing label from input. The default predicate
// returns "default", matching the source taxonomy's Branch base class.
type Predicate func(ctx context.Context, input any) (string, error)

// Branch's Exec computes {action: predicateFn(input), data: input}; its
// Post exposes that action. Exactly two or more distinct outgoing edge
// labels are required by graph validation (invariant 5 in the graph
// model), not by Branch itself.
type Branch struct {
	State
	PredicateFn Predicate
	last        ActionEnvelope
}

func NewBranch(id, name string, predicate Predicate) *Branch {
	if predicate == nil {
		predicate = func(ctx context.Context, input any) (string, error) { return "default", nil }
	}
	return &Branch{State: NewState(id, name, Control), PredicateFn: predicate}
}

func (b *Branch) Prep(ctx context.Context, input any) error { return nil }

func (b *Branch) Exec(ctx context.Context, input any) (any, error) {
	action, err := b.PredicateFn(ctx, input)
	if err != nil {
		return nil, err
	}
	b.last = ActionEnvelope{Action: action, Data: input}
	return b.last, nil
}

func (b *Branch) Post(ctx context.Context, input, result any) (string, error) {
	if env, ok := result.(ActionEnvelope); ok {
		return env.Action, nil
	}
	return Default, nil
}

// MergeFunc combines a list of buffered inputs into one result. The
// default merge function returns the last input, matching the source
// taxonomy's Merge base class.
type MergeFunc func(ctx context.Context, inputs []any) (any, error)

// Merge buffers arrivals until their number reaches its incoming degree,
// then applies MergeFn to them in arrival order. The executor enqueues
// Merge on every arrival and sets the incoming degree once, from the
// graph, through SetIncomingDegree; completion is decided here, by
// Merge's own buffer, and each incomplete arrival returns
// {__waiting__, collected: n}. With no incoming degree set, Merge keeps
// waiting. Exec also accepts a pre-collated list or a {__merge__: [...]}
// envelope directly, for callers that already have all inputs in hand
// (e.g. replay or direct unit testing of a Merge node in isolation).
type Merge struct {
	State
	MergeFn MergeFunc

	mu        sync.Mutex
	collected []any
	incoming  int
}

func NewMerge(id, name string, mergeFn MergeFunc) *Merge {
	if mergeFn == nil {
		mergeFn = func(ctx context.Context, inputs []any) (any, error) {
			if len(inputs) == 0 {
				return nil, nil
			}
			return inputs[len(inputs)-1], nil
		}
	}
	return &Merge{State: NewState(id, name, Control), MergeFn: mergeFn}
}

// SetIncomingDegree tells this Merge how many predecessors feed it, which
// is the buffered count at which it completes. executor.New calls this
// once for every Merge bound to a graph.
func (m *Merge) SetIncomingDegree(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incoming = n
}

func (m *Merge) Prep(ctx context.Context, input any) error { return nil }

func (m *Merge) Exec(ctx context.Context, input any) (any, error) {
	if list, ok := asInputList(input); ok {
		m.mu.Lock()
		m.collected = nil
		m.mu.Unlock()
		return m.MergeFn(ctx, list)
	}

	m.mu.Lock()
	m.collected = append(m.collected, input)
	collected := len(m.collected)
	incoming := m.incoming
	var list []any
	if incoming > 0 && collected >= incoming {
		list = make([]any, len(m.collected))
		copy(list, m.collected)
		m.collected = nil
	}
	m.mu.Unlock()

	if list != nil {
		return m.MergeFn(ctx, list)
	}
	return WaitingEnvelope{Waiting: true, Collected: collected}, nil
}

func (m *Merge) Post(ctx context.Context, input, result any) (string, error) {
	if env, ok := result.(WaitingEnvelope); ok && env.Waiting {
		return Waiting, nil
	}
	return Default, nil
}

// asInputList recognizes a pre-collated []any or a {__merge__: [...]}
// envelope, returning the underlying list.
func asInputList(input any) ([]any, bool) {
	switch v := input.(type) {
	case []any:
		return v, true
	case map[string]any:
		if raw, ok := v["__merge__"]; ok {
			if list, ok := raw.([]any); ok {
				return list, true
			}
		}
	}
	return nil, false
}

// Fork's Exec returns {__fork__: true, count, data: input}; Post always
// returns the Fork sentinel so the executor enqueues every outgoing edge
// with the same payload.
type Fork struct {
	State
	Count int // declared fork-count; checked against actual out-degree as a warning only
}

func NewFork(id, name string, count int) *Fork {
	return &Fork{State: NewState(id, name, Control), Count: count}
}

func (f *Fork) Prep(ctx context.Context, input any) error { return nil }

func (f *Fork) Exec(ctx context.Context, input any) (any, error) {
	return ForkEnvelope{Fork: true, Count: f.Count, Data: input}, nil
}

func (f *Fork) Post(ctx context.Context, input, result any) (string, error) {
	return Fork, nil
}

// JoinFunc combines the list of collated predecessor inputs, in
// predecessor-arrival order, once a Join's incoming degree is satisfied.
type JoinFunc func(ctx context.Context, inputs []any) (any, error)

// Join buffers per-predecessor inputs until all incoming edges have
// delivered. The executor pre-collates arrivals (see executor's join
// collation table) and hands Join a []any only once complete; Join itself
// never decides completeness — that's the executor's job, driven by the
// graph's incoming degree for this node (see spec §4.D Join collation).
type Join struct {
	State
	JoinFn JoinFunc
}

func NewJoin(id, name string, joinFn JoinFunc) *Join {
	if joinFn == nil {
		joinFn = func(ctx context.Context, inputs []any) (any, error) { return inputs, nil }
	}
	return &Join{State: NewState(id, name, Control), JoinFn: joinFn}
}

func (j *Join) Prep(ctx context.Context, input any) error { return nil }

func (j *Join) Exec(ctx context.Context, input any) (any, error) {
	list, ok := asInputList(input)
	if !ok {
		// Not yet collated by the executor: still waiting.
		return WaitingEnvelope{Waiting: true}, nil
	}
	return j.JoinFn(ctx, list)
}

func (j *Join) Post(ctx context.Context, input, result any) (string, error) {
	if env, ok := result.(WaitingEnvelope); ok && env.Waiting {
		return Waiting, nil
	}
	return Default, nil
}

// IsJoinNode marks Join for the executor's structural join-collation
// check (see executor.joinNode). It is exported because an interface
// declared in another package cannot match an unexported method.
func (j *Join) IsJoinNode() {}
