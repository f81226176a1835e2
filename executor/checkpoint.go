package executor

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/agenticzero/flowgraph/execctx"
	"github.com/agenticzero/flowgraph/node"
	"github.com/agenticzero/flowgraph/snapshot"
)

// Checkpoint is what onCheckpoint callbacks and Resume deal in: the
// snapshot plus the run/sequence coordinates it was saved under.
type Checkpoint struct {
	RunID    string
	Seq      int
	Snapshot *snapshot.Snapshot
}

type snapshotMeta struct {
	kind   string
	seq    int
	errMsg string
}

// resumeState is the rehydrated run-in-progress a snapshot reconstructs
// into, ready for run() to pick the main loop back up from.
type resumeState struct {
	ctx      *execctx.Context
	frontier *frontier
	joins    map[string]*joinPartial
	seq      int
}

func (e *Executor) saveCheckpoint(ctx context.Context, ec *execctx.Context, opts runOptions, meta snapshotMeta) {
	snap := e.buildSnapshot(ec, meta)
	e.mtr.incCheckpoint(meta.kind)

	if e.cfg.store != nil && opts.runID != "" {
		_ = e.cfg.store.SaveSnapshot(ctx, opts.runID, meta.seq, snap)
	}
	if opts.onCheckpoint != nil {
		opts.onCheckpoint(&Checkpoint{RunID: opts.runID, Seq: meta.seq, Snapshot: snap})
	}
}

func (e *Executor) buildSnapshot(ec *execctx.Context, meta snapshotMeta) *snapshot.Snapshot {
	status := "running"
	if ec.Finished() {
		status = "completed"
	}

	path := ec.Path()
	visited := make([]string, 0, len(path))
	seen := make(map[string]bool, len(path))
	for _, id := range path {
		if !seen[id] {
			seen[id] = true
			visited = append(visited, id)
		}
	}
	sort.Strings(visited)

	nodeStates := make(map[string]snapshot.NodeState, len(e.nodes))
	for id, n := range e.nodes {
		st := snapshot.NodeState{
			Status:    string(n.Status()),
			Result:    n.LastResult(),
			InputData: n.Input(),
		}
		if cs, ok := n.(node.CustomStater); ok {
			st.CustomState = cs.CustomState()
		}
		nodeStates[id] = st
	}

	extra := map[string]any{}
	for k, v := range ec.UserData() {
		extra[k] = v
	}
	if meta.errMsg != "" {
		extra["last_error"] = meta.errMsg
	}

	return &snapshot.Snapshot{
		GraphID:        e.g.Name,
		Timestamp:      time.Now(),
		GraphStructure: e.g.ToDict(),
		ExecutionState: snapshot.ExecutionState{
			VisitedNodes: visited,
			NodeOutputs:  ec.NodeOutputs(),
			StartTime:    ec.StartTime(),
			Status:       status,
		},
		NodeStates: nodeStates,
		ContextData: snapshot.CheckpointMeta{
			CheckpointType:   snapshot.CheckpointType(meta.kind),
			CheckpointNumber: meta.seq,
			Error:            meta.errMsg,
		}.ToMap(extra),
	}
}

// Resume rehydrates a run from snap and continues the dispatch loop from
// where it left off. Per-node status/result/input/custom-state is
// restored for every node id the live graph still has; ids present only
// in the snapshot (stale topology) are silently skipped. If the snapshot
// names a current_node that never reached SUCCESS, that node is re-run
// with its last recorded input; otherwise the queue is reseeded with the
// successors of every visited node that weren't themselves visited,
// using each predecessor's last output as input. Resuming a completed
// snapshot is a no-op: the queue comes back empty and run() returns the
// same terminal Context immediately. runID and onCheckpoint mirror
// ExecuteWithCheckpoints, letting a resumed run keep checkpointing.
func (e *Executor) Resume(ctx context.Context, snap *snapshot.Snapshot, runID string, onCheckpoint func(*Checkpoint)) (*execctx.Context, error) {
	if runID == "" {
		runID = uuid.NewString()
	}
	for id, st := range snap.NodeStates {
		n, ok := e.nodes[id]
		if !ok {
			continue
		}
		n.Reset()
		if sr, ok := n.(node.StateRestorer); ok {
			sr.RestoreState(node.Status(st.Status), st.Result, st.InputData)
		}
		if cs, ok := n.(node.CustomStater); ok && st.CustomState != nil {
			cs.RestoreCustomState(st.CustomState)
		}
	}

	ec := execctx.Restore(snap.ExecutionState.VisitedNodes, snap.ExecutionState.NodeOutputs, snap.ExecutionState.StartTime, nil)
	if snap.ExecutionState.Status == "completed" {
		ec.Finish()
	}

	fr := newFrontier(e.cfg.queueCapacity)
	cur := snap.ExecutionState.CurrentNode
	curNode, curKnown := e.nodes[cur]
	if cur != "" && curKnown && curNode.Status() != node.Success {
		fr.enqueue(workItem{nodeID: cur, input: curNode.Input()})
	} else if !ec.Finished() {
		for _, id := range snap.ExecutionState.VisitedNodes {
			for _, edge := range e.g.OutgoingOrdered(id) {
				if contains(snap.ExecutionState.VisitedNodes, edge.To) {
					continue
				}
				if out, ok := ec.NodeOutput(id); ok {
					fr.enqueue(workItem{nodeID: edge.To, input: out})
				}
			}
		}
	}

	return e.run(ctx, nil, runOptions{
		runID:        runID,
		checkpoint:   onCheckpoint != nil || e.cfg.store != nil,
		onCheckpoint: onCheckpoint,
		resumeFrom:   &resumeState{ctx: ec, frontier: fr, joins: make(map[string]*joinPartial), seq: 0},
	})
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
