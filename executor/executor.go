// Package executor drives a graph's nodes from a ready-queue: it owns
// the Context, the join-collation table, the hook registry, and the
// checkpoint/resume machinery built on package snapshot. Nodes never
// call one another directly — every transition passes back through this
// package's dispatch loop, the single place that interprets the
// sentinels in package node.
package executor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/agenticzero/flowgraph/emit"
	"github.com/agenticzero/flowgraph/execctx"
	"github.com/agenticzero/flowgraph/graph"
	"github.com/agenticzero/flowgraph/node"
)

// joinPartial accumulates arrivals for one join node until its incoming
// degree is satisfied.
type joinPartial struct {
	order    []string // predecessor ids, insertion order
	inputs   map[string]any
	received map[string]bool
}

// Executor drives one graph definition. It is reusable across runs —
// Execute rebuilds per-run state (Context, frontier, join table) each
// time, but node instances themselves retain whatever state survives
// Reset (conversation history, breaker counters) between runs unless the
// caller constructs fresh nodes.
type Executor struct {
	g     *graph.Graph
	nodes map[string]node.Node
	cfg   config
	mtr   *prometheusMetrics

	paused atomic.Bool
}

// New validates g, binds it to nodes (every node id in g must have a
// corresponding entry in nodes, and vice versa is not required — extra
// nodes are simply unused), and applies opts.
func New(g *graph.Graph, nodes map[string]node.Node, opts ...Option) (*Executor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if report := g.Validate(); !report.Ok {
		return nil, fmt.Errorf("%w: %v", ErrGraphInvalid, report.Errors)
	}

	for _, id := range g.NodeIDs() {
		if _, ok := nodes[id]; !ok {
			return nil, fmt.Errorf("executor: graph node %q has no bound implementation", id)
		}
	}

	for _, id := range g.NodeIDs() {
		if m, ok := nodes[id].(mergeIncomingSetter); ok {
			m.SetIncomingDegree(g.InDegree(id))
		}
	}

	e := &Executor{
		g:     g,
		nodes: nodes,
		cfg:   cfg,
		mtr:   newPrometheusMetrics(cfg.registry),
	}
	return e, nil
}

// mergeIncomingSetter matches node.Merge's SetIncomingDegree without
// importing package node's concrete type (kept local so executor stays
// agnostic of which control-node flavors exist, per the node package's
// own "executor stays unaware of concrete categories" design note).
type mergeIncomingSetter interface {
	SetIncomingDegree(n int)
}

// Execute runs the graph to completion (or the iteration ceiling) from
// scratch, returning the finished Context.
func (e *Executor) Execute(ctx context.Context, input any) (*execctx.Context, error) {
	return e.run(ctx, input, runOptions{})
}

// ExecuteWithCheckpoints runs the graph, saving a snapshot every
// cfg.checkpointEvery successful node executions, plus initial/final/error
// checkpoints, invoking onCheckpoint (if non-nil) after each save.
func (e *Executor) ExecuteWithCheckpoints(ctx context.Context, input any, runID string, onCheckpoint func(*Checkpoint)) (*execctx.Context, error) {
	if runID == "" {
		runID = uuid.NewString()
	}
	return e.run(ctx, input, runOptions{runID: runID, checkpoint: true, onCheckpoint: onCheckpoint})
}

// Pause requests the run stop at the next dequeue boundary. In-flight
// node execution is allowed to finish.
func (e *Executor) Pause() { e.paused.Store(true) }

// runOptions carries the per-call configuration Execute/ExecuteWithCheckpoints/Resume share.
type runOptions struct {
	runID        string
	checkpoint   bool
	onCheckpoint func(*Checkpoint)
	resumeFrom   *resumeState
}

func (e *Executor) run(ctx context.Context, input any, opts runOptions) (*execctx.Context, error) {
	e.paused.Store(false)

	report := e.g.Validate()
	for _, w := range report.Warnings {
		e.emitWarning(w)
	}

	ec := execctx.New()
	fr := newFrontier(e.cfg.queueCapacity)
	joins := make(map[string]*joinPartial)
	iterations := 0
	visitedSinceCheckpoint := 0
	seq := 0

	if opts.resumeFrom != nil {
		ec = opts.resumeFrom.ctx
		fr = opts.resumeFrom.frontier
		joins = opts.resumeFrom.joins
		seq = opts.resumeFrom.seq
	} else {
		fr.enqueue(workItem{nodeID: e.g.Start(), input: input})
		if opts.checkpoint {
			e.saveCheckpoint(ctx, ec, opts, snapshotMeta{kind: "initial", seq: seq})
			seq++
		}
	}

	for fr.len() > 0 && iterations < e.cfg.maxIterations && !e.paused.Load() {
		item, ok := fr.dequeue()
		if !ok {
			break
		}
		iterations++
		e.mtr.setQueueDepth(fr.len())

		n, ok := e.nodes[item.nodeID]
		if !ok {
			return ec, ErrUnknownNode
		}

		e.cfg.hooks.fire(BeforeNode, item.nodeID, item.input, nil, nil)

		start := time.Now()
		result, action, err := node.Run(ctx, n, item.input)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0

		if err != nil {
			e.mtr.observeStep(item.nodeID, "error", elapsed)
			ec.AddExecution(item.nodeID, item.input, nil, "", err)
			e.cfg.hooks.fire(OnError, item.nodeID, item.input, nil, err)

			if edge, ok := e.g.Outgoing(item.nodeID)[node.ErrorAction]; ok {
				fr.enqueue(workItem{nodeID: edge.To, input: map[string]any{"error": err.Error(), "from_node": item.nodeID}})
				e.cfg.hooks.fire(AfterNode, item.nodeID, item.input, nil, err)
				continue
			}

			ec.Finish()
			if opts.checkpoint {
				e.saveCheckpoint(ctx, ec, opts, snapshotMeta{kind: "error", seq: seq, errMsg: err.Error()})
			}
			e.cfg.hooks.fire(OnComplete, "", nil, nil, err)
			return ec, newNodeError("NODE_EXECUTION_ERROR", item.nodeID, err)
		}

		e.mtr.observeStep(item.nodeID, "success", elapsed)
		ec.AddExecution(item.nodeID, item.input, result, action, nil)
		e.cfg.hooks.fire(AfterNode, item.nodeID, item.input, result, nil)

		e.dispatch(fr, joins, item.nodeID, action, result)

		if opts.checkpoint {
			visitedSinceCheckpoint++
			if e.cfg.checkpointEvery > 0 && visitedSinceCheckpoint >= e.cfg.checkpointEvery {
				e.saveCheckpoint(ctx, ec, opts, snapshotMeta{kind: "auto", seq: seq})
				seq++
				visitedSinceCheckpoint = 0
			}
		}
	}

	if iterations >= e.cfg.maxIterations && fr.len() > 0 {
		ec.MarkIncomplete("iteration_ceiling_exceeded")
		e.mtr.incWarning("iteration_ceiling_exceeded")
	}

	ec.Finish()
	if opts.checkpoint {
		e.saveCheckpoint(ctx, ec, opts, snapshotMeta{kind: "final", seq: seq})
	}
	e.cfg.hooks.fire(OnComplete, "", nil, ec.GraphOutput(), nil)

	return ec, nil
}

// payload unwraps the {action, data}-shaped envelopes node/control.go
// produces so successors receive the underlying value rather than the
// wrapper.
func payload(result any) any {
	switch v := result.(type) {
	case node.ActionEnvelope:
		return v.Data
	case node.ForkEnvelope:
		return v.Data
	default:
		return result
	}
}

func (e *Executor) dispatch(fr *frontier, joins map[string]*joinPartial, nodeID, action string, result any) {
	data := payload(result)

	switch action {
	case node.Fork:
		for _, edge := range e.g.OutgoingOrdered(nodeID) {
			fr.enqueue(workItem{nodeID: edge.To, input: data})
		}
		return
	case node.Waiting:
		return
	case node.Exit:
		return
	}

	// A node's Post returning "" means "take the default successor";
	// the graph stores that edge under the literal "default" key (see
	// graph.AddEdge), so the lookup must normalize the same way or a
	// plain default-post node would never find its own outgoing edge.
	lookupAction := action
	if lookupAction == node.Default {
		lookupAction = "default"
	}

	edge, ok := e.g.Outgoing(nodeID)[lookupAction]
	if !ok {
		return // terminal for this branch: no matching outgoing edge
	}

	if _, isJoin := e.nodes[edge.To].(joinNode); isJoin {
		if list, complete := e.collateJoin(joins, edge.To, nodeID, data); complete {
			fr.enqueue(workItem{nodeID: edge.To, input: list})
		}
		return
	}

	fr.enqueue(workItem{nodeID: edge.To, input: data})
}

// joinNode is implemented by node.Join; matched structurally so executor
// need not import the concrete type's package-internal details.
type joinNode interface {
	node.Node
	IsJoinNode()
}

func (e *Executor) collateJoin(joins map[string]*joinPartial, joinID, fromNode string, value any) ([]any, bool) {
	p, ok := joins[joinID]
	if !ok {
		p = &joinPartial{inputs: make(map[string]any), received: make(map[string]bool)}
		joins[joinID] = p
	}
	if !p.received[fromNode] {
		p.order = append(p.order, fromNode)
	}
	p.inputs[fromNode] = value
	p.received[fromNode] = true

	if len(p.received) >= e.g.InDegree(joinID) {
		list := make([]any, len(p.order))
		for i, id := range p.order {
			list[i] = p.inputs[id]
		}
		delete(joins, joinID)
		return list, true
	}
	return nil, false
}

func (e *Executor) emitWarning(msg string) {
	e.cfg.emitter.Emit(emit.Event{Msg: msg, Meta: map[string]any{"level": "warning"}})
}
