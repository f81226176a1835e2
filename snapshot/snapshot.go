// Package snapshot defines the immutable, JSON-serializable capture of a
// run's graph shape, execution progress, and per-node state, sufficient
// to resume execution later. This package holds only data types and pure
// (de)serialization helpers — the executor package drives capture and
// resume, since it alone owns the live Context and the live node
// instances; graph and node only contribute their own slice of state.
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/agenticzero/flowgraph/graph"
)

// CheckpointType labels why a snapshot was taken.
type CheckpointType string

const (
	Initial CheckpointType = "initial"
	Auto    CheckpointType = "auto"
	Final   CheckpointType = "final"
	OnError CheckpointType = "error"
)

// NodeState is the per-node capture: status, last result, last input,
// and a subclass-contributed custom state bag (conversation history,
// retry attempt count, circuit breaker counters, ...).
type NodeState struct {
	Status      string         `json:"status"`
	Result      any            `json:"result"`
	InputData   any            `json:"_input_data"`
	CustomState map[string]any `json:"custom_state,omitempty"`
}

// ExecutionState is the execution-context capture: current node (if
// mid-run), visited set, last-output-per-node map, the graph's original
// input, the start time, and a coarse status.
type ExecutionState struct {
	CurrentNode  string         `json:"current_node,omitempty"`
	VisitedNodes []string       `json:"visited_nodes"`
	NodeOutputs  map[string]any `json:"node_outputs"`
	GraphInput   any            `json:"graph_input"`
	StartTime    time.Time      `json:"start_time"`
	Status       string         `json:"status"` // "running" | "completed"
}

// Snapshot is the full capture: graph shape, execution state, per-node
// state, a timestamp, and free-form context metadata (checkpoint_type,
// sequence number, user data).
type Snapshot struct {
	GraphID         string               `json:"graph_id"`
	Timestamp       time.Time            `json:"timestamp"`
	GraphStructure  graph.Dict           `json:"graph_structure"`
	ExecutionState  ExecutionState       `json:"execution_state"`
	NodeStates      map[string]NodeState `json:"node_states"`
	ContextData     map[string]any       `json:"context_data"`
}

// ToJSON marshals the snapshot to its wire format.
func (s *Snapshot) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// FromJSON unmarshals a snapshot from its wire format.
func FromJSON(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CheckpointMeta is the free-form context_data shape this package writes
// by convention; callers may add arbitrary additional keys, which is why
// Snapshot.ContextData is a plain map rather than this struct.
type CheckpointMeta struct {
	CheckpointType   CheckpointType `json:"checkpoint_type"`
	CheckpointNumber int            `json:"checkpoint_number"`
	Error            string         `json:"error,omitempty"`
}

// ToMap flattens CheckpointMeta into the map[string]any shape
// Snapshot.ContextData expects, merging in any extra caller-supplied
// metadata.
func (m CheckpointMeta) ToMap(extra map[string]any) map[string]any {
	out := map[string]any{
		"checkpoint_type":   string(m.CheckpointType),
		"checkpoint_number": m.CheckpointNumber,
	}
	if m.Error != "" {
		out["error"] = m.Error
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
