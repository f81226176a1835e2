package executor_test

import (
	"context"
	"testing"

	"github.com/agenticzero/flowgraph/executor"
	"github.com/agenticzero/flowgraph/snapshot"
)

func TestExecuteWithCheckpointsFiresInitialAutoAndFinal(t *testing.T) {
	g, nodes := buildLinear(t)
	exec, err := executor.New(g, nodes, executor.WithCheckpointEvery(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var kinds []string
	_, err = exec.ExecuteWithCheckpoints(context.Background(), 10, "run-1", func(cp *executor.Checkpoint) {
		kinds = append(kinds, cp.Snapshot.ContextData["checkpoint_type"].(string))
	})
	if err != nil {
		t.Fatalf("ExecuteWithCheckpoints: %v", err)
	}

	if len(kinds) < 2 {
		t.Fatalf("expected at least initial and final checkpoints, got %v", kinds)
	}
	if kinds[0] != string(snapshot.Initial) {
		t.Fatalf("expected first checkpoint to be initial, got %q", kinds[0])
	}
	if kinds[len(kinds)-1] != string(snapshot.Final) {
		t.Fatalf("expected last checkpoint to be final, got %q", kinds[len(kinds)-1])
	}
}

func TestResumeFromFinalSnapshotIsIdempotent(t *testing.T) {
	g, nodes := buildLinear(t)
	exec, err := executor.New(g, nodes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var finalSnap *snapshot.Snapshot
	ec, err := exec.ExecuteWithCheckpoints(context.Background(), 10, "run-2", func(cp *executor.Checkpoint) {
		if cp.Snapshot.ContextData["checkpoint_type"] == string(snapshot.Final) {
			finalSnap = cp.Snapshot
		}
	})
	if err != nil {
		t.Fatalf("ExecuteWithCheckpoints: %v", err)
	}
	if finalSnap == nil {
		t.Fatal("expected a final snapshot to be captured")
	}

	g2, nodes2 := buildLinear(t)
	exec2, err := executor.New(g2, nodes2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	resumed, err := exec2.Resume(context.Background(), finalSnap, "run-2-resumed", nil)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if resumed.VisitedCount() != ec.VisitedCount() {
		t.Fatalf("expected same visited count, got %d vs %d", resumed.VisitedCount(), ec.VisitedCount())
	}
	wantOutputs := ec.NodeOutputs()
	gotOutputs := resumed.NodeOutputs()
	for k, v := range wantOutputs {
		if gotOutputs[k] != v {
			t.Fatalf("expected nodeOutputs[%q] = %v, got %v", k, v, gotOutputs[k])
		}
	}
}

func TestResumeSkipsSnapshotNodesAbsentFromLiveGraph(t *testing.T) {
	g, nodes := buildLinear(t)
	exec, err := executor.New(g, nodes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var finalSnap *snapshot.Snapshot
	if _, err := exec.ExecuteWithCheckpoints(context.Background(), 10, "run-3", func(cp *executor.Checkpoint) {
		if cp.Snapshot.ContextData["checkpoint_type"] == string(snapshot.Final) {
			finalSnap = cp.Snapshot
		}
	}); err != nil {
		t.Fatalf("ExecuteWithCheckpoints: %v", err)
	}

	// Stale topology: a node present in the snapshot's node_states that
	// the live graph never mentions should be silently skipped, not
	// raised as a SnapshotError.
	finalSnap.NodeStates["ghost"] = snapshot.NodeState{Status: "SUCCESS"}

	g2, nodes2 := buildLinear(t)
	exec2, err := executor.New(g2, nodes2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := exec2.Resume(context.Background(), finalSnap, "", nil); err != nil {
		t.Fatalf("expected stale node id to be skipped silently, got error: %v", err)
	}
}
