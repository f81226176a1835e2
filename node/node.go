// Package node defines the lifecycle contract and category taxonomy for
// units of work in a flowgraph workflow.
//
// Every node goes through the same three-phase contract exactly once per
// invocation: Prep (side-effect-free setup), Exec (the pure core
// computation), and Post (a routing decision). The engine in package
// executor drives this contract; node implementations never call one
// another directly.
package node

import "context"

// Category tags a node with its broad taxonomy, per the three-way split
// the executor uses for diagnostics and snapshotting. The executor itself
// never branches on Category for routing — routing is driven entirely by
// the sentinels a node's Post and Exec results carry (see sentinel.go).
type Category string

const (
	Task      Category = "TASK"
	Control   Category = "CONTROL"
	Exception Category = "EXCEPTION"
)

// Status is the execution status of a node within a single run.
type Status string

const (
	Pending Status = "PENDING"
	Running Status = "RUNNING"
	Success Status = "SUCCESS"
	Failed  Status = "FAILED"
	Skipped Status = "SKIPPED"
)

// Node is the capability interface the executor drives. Implementations
// are expected to be small, composable, and stateless beyond the slots
// this interface exposes — task.go and control.go build TaskNode and the
// control-node variants on top of it, and package exception builds the
// exception operators, but the executor only ever sees this interface.
type Node interface {
	// ID is a stable identifier, unique within a Graph.
	ID() string

	// Name is a human-readable label, not required to be unique.
	Name() string

	// Category reports this node's taxonomy tag.
	Category() Category

	// Prep performs side-effect-free initialization for this invocation.
	// It runs before Exec and may inspect (but should not mutate) input.
	Prep(ctx context.Context, input any) error

	// Exec is the pure core computation. Its return value becomes the
	// node's last-result and is passed to Post.
	Exec(ctx context.Context, input any) (any, error)

	// Post returns a routing decision: an edge action label, one of the
	// reserved sentinels in sentinel.go, or "" for the default successor.
	Post(ctx context.Context, input, result any) (string, error)

	// Status reports the node's current execution status.
	Status() Status

	// LastResult returns the value Exec last produced, if any.
	LastResult() any

	// LastError returns the error the node last surfaced, if any.
	LastError() error

	// SetInput writes the Executor-supplied scratch input slot immediately
	// before Prep is invoked.
	SetInput(input any)

	// Input returns the current scratch input slot.
	Input() any

	// Reset returns the node to Pending and clears scratch slots, making
	// it safe to re-enter (loops re-enter nodes; per-node "visited" is for
	// reporting only, never for dedup, per the engine's cyclic-graph
	// design note).
	Reset()
}

// State bundles the mutable bookkeeping every concrete node embeds, so
// TaskNode/ControlNode/ExceptionNode don't each reimplement the same
// status/slot machinery. It is not itself a Node — each flavor embeds
// it and satisfies the interface through promoted methods, favoring
// composition over a deep inheritance hierarchy.
type State struct {
	id       string
	name     string
	category Category
	status   Status
	input    any
	result   any
	lastErr  error
}

// NewState constructs the shared bookkeeping for a concrete node type.
func NewState(id, name string, category Category) State {
	if name == "" {
		name = id
	}
	return State{id: id, name: name, category: category, status: Pending}
}

func (s *State) ID() string             { return s.id }
func (s *State) Name() string           { return s.name }
func (s *State) Category() Category     { return s.category }
func (s *State) Status() Status         { return s.status }
func (s *State) LastResult() any        { return s.result }
func (s *State) LastError() error       { return s.lastErr }
func (s *State) Input() any             { return s.input }
func (s *State) SetInput(input any)     { s.input = input }
func (s *State) setStatus(st Status)    { s.status = st }
func (s *State) setResult(result any)   { s.result = result }
func (s *State) setError(err error)     { s.lastErr = err }

func (s *State) Reset() {
	s.status = Pending
	s.input = nil
	s.result = nil
	s.lastErr = nil
}

// RestoreState rehydrates the common status/result/input slots from a
// snapshot's per-node capture. It does not touch lastErr — a resumed
// node that previously failed resumes as whatever status the snapshot
// recorded (typically FAILED only for nodes an error edge never caught),
// and custom state (conversation history, retry counters, breaker
// counters) is restored separately through CustomStater.
func (s *State) RestoreState(status Status, result, input any) {
	s.status = status
	s.result = result
	s.input = input
}

// Run drives a Node's Prep → Exec → Post contract exactly once, updating
// its status and slots as it goes. It is the single place that
// implements the "on any thrown error, status transitions to FAILED, the
// error is stored, post is skipped, and the error surfaces to the caller"
// rule from the node lifecycle contract — both the executor and the
// exception operators' internal sub-execution (e.g. TryCatch's tryFn)
// call through here rather than invoking Prep/Exec/Post by hand.
func Run(ctx context.Context, n Node, input any) (result any, action string, err error) {
	n.SetInput(input)
	if setter, ok := n.(statusSetter); ok {
		setter.setStatusRunning()
	}

	if err = n.Prep(ctx, input); err != nil {
		markFailed(n, err)
		return nil, "", err
	}

	result, err = n.Exec(ctx, input)
	if err != nil {
		markFailed(n, err)
		return nil, "", err
	}

	if setter, ok := n.(statusSetter); ok {
		setter.setStatusResult(result)
	}

	action, err = n.Post(ctx, input, result)
	if err != nil {
		markFailed(n, err)
		return result, "", err
	}

	return result, action, nil
}

// statusSetter is implemented by State-embedding nodes to let Run update
// bookkeeping without a type switch over every concrete node type.
type statusSetter interface {
	setStatusRunning()
	setStatusResult(result any)
}

func (s *State) setStatusRunning()         { s.status = Running }
func (s *State) setStatusResult(result any) { s.status = Success; s.result = result }

func markFailed(n Node, err error) {
	if setter, ok := n.(interface {
		setStatusFailed(error)
	}); ok {
		setter.setStatusFailed(err)
	}
}

func (s *State) setStatusFailed(err error) {
	s.status = Failed
	s.lastErr = err
}
