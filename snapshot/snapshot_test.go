package snapshot_test

import (
	"testing"
	"time"

	"github.com/agenticzero/flowgraph/graph"
	"github.com/agenticzero/flowgraph/snapshot"
)

func TestSnapshotToJSONFromJSONRoundTrip(t *testing.T) {
	gd := graph.Dict{
		Name:  "g",
		Nodes: []graph.NodeDict{{ID: "start", Category: "TASK"}},
		Edges: nil,
		Start: "start",
		Ends:  []string{"start"},
	}

	s := &snapshot.Snapshot{
		GraphID:        "g",
		Timestamp:      time.Now().UTC().Truncate(time.Second),
		GraphStructure: gd,
		ExecutionState: snapshot.ExecutionState{
			VisitedNodes: []string{"start"},
			NodeOutputs:  map[string]any{"start": float64(42)},
			StartTime:    time.Now().UTC().Truncate(time.Second),
			Status:       "completed",
		},
		NodeStates: map[string]snapshot.NodeState{
			"start": {Status: "SUCCESS", Result: float64(42), InputData: float64(10)},
		},
		ContextData: map[string]any{"checkpoint_type": "final", "checkpoint_number": float64(3)},
	}

	data, err := s.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := snapshot.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	if got.GraphID != s.GraphID {
		t.Fatalf("expected graph id %q, got %q", s.GraphID, got.GraphID)
	}
	if !got.Timestamp.Equal(s.Timestamp) {
		t.Fatalf("expected timestamp %v, got %v", s.Timestamp, got.Timestamp)
	}
	if got.ExecutionState.Status != "completed" {
		t.Fatalf("expected completed status, got %q", got.ExecutionState.Status)
	}
	if len(got.NodeStates) != 1 || got.NodeStates["start"].Status != "SUCCESS" {
		t.Fatalf("unexpected node states: %+v", got.NodeStates)
	}
	if got.ContextData["checkpoint_type"] != "final" {
		t.Fatalf("expected checkpoint_type final, got %v", got.ContextData["checkpoint_type"])
	}
}

func TestCheckpointMetaToMapMergesExtras(t *testing.T) {
	m := snapshot.CheckpointMeta{CheckpointType: snapshot.Auto, CheckpointNumber: 2}
	out := m.ToMap(map[string]any{"custom": "value"})

	if out["checkpoint_type"] != "auto" {
		t.Fatalf("expected checkpoint_type auto, got %v", out["checkpoint_type"])
	}
	if out["checkpoint_number"] != 2 {
		t.Fatalf("expected checkpoint_number 2, got %v", out["checkpoint_number"])
	}
	if out["custom"] != "value" {
		t.Fatalf("expected merged extra key, got %v", out["custom"])
	}
	if _, ok := out["error"]; ok {
		t.Fatal("expected no error key when CheckpointMeta.Error is empty")
	}
}

func TestCheckpointMetaToMapIncludesErrorWhenSet(t *testing.T) {
	m := snapshot.CheckpointMeta{CheckpointType: snapshot.OnError, CheckpointNumber: 1, Error: "boom"}
	out := m.ToMap(nil)
	if out["error"] != "boom" {
		t.Fatalf("expected error key \"boom\", got %v", out["error"])
	}
}
