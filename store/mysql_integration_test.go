package store_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/agenticzero/flowgraph/graph"
	"github.com/agenticzero/flowgraph/snapshot"
	"github.com/agenticzero/flowgraph/store"
)

// TestMySQLIntegration validates MySQLStore against a real database.
//
// Set TEST_MYSQL_DSN to run:
//
//	export TEST_MYSQL_DSN="user:password@tcp(localhost:3306)/test_db?parseTime=true"
//	go test -v -run TestMySQLIntegration ./store
func TestMySQLIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("set TEST_MYSQL_DSN to run this test against a real MySQL instance")
	}

	ctx := context.Background()
	s, err := store.NewMySQLStore(dsn)
	if err != nil {
		t.Fatalf("NewMySQLStore: %v", err)
	}
	defer func() { _ = s.Close() }()

	runID := fmt.Sprintf("integration-test-%d", time.Now().UnixNano())
	g := graph.New("demo")
	if err := g.AddNode(graph.NodeMeta{ID: "start"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := g.SetStart("start"); err != nil {
		t.Fatalf("SetStart: %v", err)
	}
	if err := g.AddEnd("start"); err != nil {
		t.Fatalf("AddEnd: %v", err)
	}

	for seq := 1; seq <= 3; seq++ {
		snap := &snapshot.Snapshot{
			GraphID:        runID,
			Timestamp:      time.Now(),
			GraphStructure: g.ToDict(),
			ExecutionState: snapshot.ExecutionState{Status: "running"},
			NodeStates:     map[string]snapshot.NodeState{},
			ContextData:    snapshot.CheckpointMeta{CheckpointType: snapshot.Auto, CheckpointNumber: seq}.ToMap(nil),
		}
		if err := s.SaveSnapshot(ctx, runID, seq, snap); err != nil {
			t.Fatalf("SaveSnapshot(seq=%d): %v", seq, err)
		}
	}

	latest, seq, err := s.LoadLatest(ctx, runID)
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if seq != 3 {
		t.Fatalf("expected latest seq 3, got %d", seq)
	}
	if latest.GraphID != runID {
		t.Fatalf("expected graph id %q, got %q", runID, latest.GraphID)
	}

	seqs, err := s.ListSequences(ctx, runID)
	if err != nil {
		t.Fatalf("ListSequences: %v", err)
	}
	if len(seqs) != 3 {
		t.Fatalf("expected 3 sequences, got %v", seqs)
	}
}
