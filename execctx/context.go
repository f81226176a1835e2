// Package execctx holds the per-run mutable state the executor
// accumulates as it drives a graph: the visited path, per-node I/O, the
// execution history, and run timestamps. The Context is owned
// exclusively by the executor; node implementations never see it
// directly.
package execctx

import (
	"sync"
	"time"
)

// Record is one entry in a Context's execution history.
type Record struct {
	NodeID    string
	Timestamp time.Time
	Input     any
	Result    any
	Action    string
	Err       error
}

// Context is the mutable execution state for a single run. All mutation
// happens through AddExecution — the only method the executor's run loop
// calls from inside its dispatch — so the bookkeeping here stays
// consistent even under the executor's internal fan-out/fan-in
// concurrency.
type Context struct {
	mu sync.Mutex

	path         []string
	visited      map[string]bool
	nodeInputs   map[string]any
	nodeOutputs  map[string]any
	history      []Record
	startTime    time.Time
	endTime      time.Time
	finished     bool
	userData     map[string]any
	incomplete   bool
	incompleteBy string // reason, e.g. "iteration_ceiling_exceeded"
}

// New starts a fresh Context with the run's start timestamp recorded.
func New() *Context {
	return &Context{
		visited:     make(map[string]bool),
		nodeInputs:  make(map[string]any),
		nodeOutputs: make(map[string]any),
		userData:    make(map[string]any),
		startTime:   time.Now(),
	}
}

// Restore rebuilds a Context from a prior run's captured execution
// state, for resuming from a snapshot. path is the visited-node sequence
// in original order; nodeOutputs is the last successful result per node.
func Restore(path []string, nodeOutputs map[string]any, startTime time.Time, userData map[string]any) *Context {
	c := &Context{
		path:        append([]string{}, path...),
		visited:     make(map[string]bool, len(path)),
		nodeInputs:  make(map[string]any),
		nodeOutputs: make(map[string]any, len(nodeOutputs)),
		userData:    userData,
		startTime:   startTime,
	}
	if c.userData == nil {
		c.userData = make(map[string]any)
	}
	for _, id := range path {
		c.visited[id] = true
	}
	for k, v := range nodeOutputs {
		c.nodeOutputs[k] = v
	}
	return c
}

// AddExecution records a node's invocation: its input, result, the action
// its Post chose, and any error. This is the only mutator the executor's
// run loop invokes.
func (c *Context) AddExecution(nodeID string, input, result any, action string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.path = append(c.path, nodeID)
	c.visited[nodeID] = true
	c.nodeInputs[nodeID] = input
	if err == nil {
		c.nodeOutputs[nodeID] = result
	}
	c.history = append(c.history, Record{
		NodeID:    nodeID,
		Timestamp: time.Now(),
		Input:     input,
		Result:    result,
		Action:    action,
		Err:       err,
	})
}

// MarkIncomplete records that the run did not reach a clean terminal
// state (iteration ceiling hit, join starvation). Diagnostic only — it
// does not change Finish's timestamp behavior.
func (c *Context) MarkIncomplete(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.incomplete = true
	c.incompleteBy = reason
}

// Incomplete reports whether MarkIncomplete was called, and why.
func (c *Context) Incomplete() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.incomplete, c.incompleteBy
}

// Finish sets the end timestamp. Idempotent: only the first call takes
// effect.
func (c *Context) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	c.finished = true
	c.endTime = time.Now()
}

// Finished reports whether Finish has been called.
func (c *Context) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished
}

// Duration is the elapsed time between start and (if finished) end, or
// between start and now otherwise.
func (c *Context) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return c.endTime.Sub(c.startTime)
	}
	return time.Since(c.startTime)
}

// Path returns the ordered sequence of node ids traversed. Revisits (from
// loops) appear multiple times — per-node visited tracking is for
// reporting, never for dedup.
func (c *Context) Path() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.path))
	copy(out, c.path)
	return out
}

// Visited returns the set of distinct node ids visited at least once.
func (c *Context) Visited() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]bool, len(c.visited))
	for k, v := range c.visited {
		out[k] = v
	}
	return out
}

// VisitedCount returns the count of distinct node ids visited.
func (c *Context) VisitedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.visited)
}

// NodeInput returns the last input delivered to nodeID.
func (c *Context) NodeInput(nodeID string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.nodeInputs[nodeID]
	return v, ok
}

// NodeOutput returns the last successful result nodeID produced.
func (c *Context) NodeOutput(nodeID string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.nodeOutputs[nodeID]
	return v, ok
}

// NodeOutputs returns a copy of the full nodeOutputs map.
func (c *Context) NodeOutputs() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.nodeOutputs))
	for k, v := range c.nodeOutputs {
		out[k] = v
	}
	return out
}

// History returns a copy of the ordered execution history.
func (c *Context) History() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.history))
	copy(out, c.history)
	return out
}

// GraphOutput is the result of the last successful node in history, used
// as the run's overall output when no explicit terminal was reached.
func (c *Context) GraphOutput() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.history) - 1; i >= 0; i-- {
		rec := c.history[i]
		if rec.Err == nil {
			return rec.Result
		}
	}
	return nil
}

// UserData exposes the shared, caller-populated user-data map. Callers
// (hooks, AI nodes carrying side-channel data) may read and write it
// directly; the executor never interprets its contents.
func (c *Context) UserData() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userData
}

// StartTime and EndTime expose the run's timestamps, for snapshot
// capture.
func (c *Context) StartTime() time.Time { return c.startTime }
func (c *Context) EndTime() time.Time   { return c.endTime }
