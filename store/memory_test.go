package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/agenticzero/flowgraph/graph"
	"github.com/agenticzero/flowgraph/snapshot"
	"github.com/agenticzero/flowgraph/store"
)

func sampleSnapshot(t *testing.T, graphID string, seq int) *snapshot.Snapshot {
	t.Helper()
	g := graph.New("demo")
	if err := g.AddNode(graph.NodeMeta{ID: "a"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.SetStart("a"); err != nil {
		t.Fatalf("SetStart: %v", err)
	}
	if err := g.AddEnd("a"); err != nil {
		t.Fatalf("AddEnd: %v", err)
	}
	return &snapshot.Snapshot{
		GraphID:        graphID,
		Timestamp:      time.Now(),
		GraphStructure: g.ToDict(),
		ExecutionState: snapshot.ExecutionState{Status: "running"},
		NodeStates:     map[string]snapshot.NodeState{"a": {Status: "SUCCESS"}},
		ContextData:    snapshot.CheckpointMeta{CheckpointType: snapshot.Auto, CheckpointNumber: seq}.ToMap(nil),
	}
}

func TestMemStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	defer func() { _ = s.Close() }()

	for seq := 1; seq <= 3; seq++ {
		if err := s.SaveSnapshot(ctx, "run-1", seq, sampleSnapshot(t, "run-1", seq)); err != nil {
			t.Fatalf("SaveSnapshot(%d): %v", seq, err)
		}
	}

	latest, seq, err := s.LoadLatest(ctx, "run-1")
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if seq != 3 {
		t.Fatalf("expected seq 3, got %d", seq)
	}
	if latest.GraphID != "run-1" {
		t.Fatalf("unexpected graph id %q", latest.GraphID)
	}

	mid, err := s.LoadSequence(ctx, "run-1", 2)
	if err != nil {
		t.Fatalf("LoadSequence(2): %v", err)
	}
	if mid.ContextData["checkpoint_number"] != 2 {
		t.Fatalf("expected checkpoint_number 2, got %v", mid.ContextData["checkpoint_number"])
	}

	seqs, err := s.ListSequences(ctx, "run-1")
	if err != nil {
		t.Fatalf("ListSequences: %v", err)
	}
	if len(seqs) != 3 || seqs[0] != 1 || seqs[2] != 3 {
		t.Fatalf("unexpected sequence list %v", seqs)
	}
}

func TestMemStoreLoadMissingRun(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	if _, _, err := s.LoadLatest(ctx, "nope"); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
