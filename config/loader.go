package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/agenticzero/flowgraph/exception"
	"github.com/agenticzero/flowgraph/graph"
	"github.com/agenticzero/flowgraph/node"
)

// Funcs is the registry of named callables a graph description's node
// params may reference by name. Go has no runtime equivalent of the
// original parser's importlib-based function loading, so callers
// populate this ahead of a Load call instead of the YAML carrying
// importable module paths.
type Funcs struct {
	Task   map[string]node.ProcessFunc
	Target map[string]exception.TargetFunc
	Catch  map[string]exception.CatchFunc
	Merge  map[string]node.MergeFunc
	Join   map[string]node.JoinFunc
}

// Load parses a YAML graph description from r, validates it against the
// package's JSON Schema, and builds both the structural graph.Graph and
// the bound node.Node instances an executor.New call needs.
func Load(r io.Reader, funcs Funcs) (*graph.Graph, map[string]node.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("config: reading document: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("config: parsing yaml: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("config: decoding document: %w", err)
	}

	return build(doc, funcs)
}

func build(doc Document, funcs Funcs) (*graph.Graph, map[string]node.Node, error) {
	g := graph.New(doc.Name)
	nodes := make(map[string]node.Node, len(doc.Nodes))

	for _, spec := range doc.Nodes {
		n, meta, err := buildNode(spec, funcs)
		if err != nil {
			return nil, nil, fmt.Errorf("config: node %q: %w", spec.ID, err)
		}
		if err := g.AddNode(meta); err != nil {
			return nil, nil, err
		}
		nodes[spec.ID] = n
	}

	for _, e := range doc.Edges {
		action := e.Action
		weight := e.Weight
		if weight == 0 {
			weight = 1.0
		}
		if err := g.AddEdge(e.From, e.To, action, weight); err != nil {
			return nil, nil, fmt.Errorf("config: edge %s->%s: %w", e.From, e.To, err)
		}
	}

	if doc.Start != "" {
		if err := g.SetStart(doc.Start); err != nil {
			return nil, nil, err
		}
	}
	for _, end := range doc.Ends {
		if err := g.AddEnd(end); err != nil {
			return nil, nil, err
		}
	}

	if report := g.Validate(); !report.Ok {
		return nil, nil, fmt.Errorf("config: invalid graph: %v", report.Errors)
	}

	return g, nodes, nil
}

func buildNode(spec NodeSpec, funcs Funcs) (node.Node, graph.NodeMeta, error) {
	name := spec.Name
	if name == "" {
		name = spec.ID
	}
	params := spec.Params

	meta := graph.NodeMeta{ID: spec.ID}

	switch spec.Type {
	case TypeTask:
		meta.Category = node.Task
		fn, err := lookupTaskFunc(params, funcs)
		if err != nil {
			return nil, meta, err
		}
		return node.NewTaskNode(spec.ID, name, fn), meta, nil

	case TypeSequence:
		meta.Category = node.Control
		fn, _ := lookupOptionalTaskFunc(params, funcs)
		return node.NewSequence(spec.ID, name, fn), meta, nil

	case TypeBranch:
		meta.Category = node.Control
		meta.Branch = true
		predicate, err := lookupPredicate(params)
		if err != nil {
			return nil, meta, err
		}
		return node.NewBranch(spec.ID, name, predicate), meta, nil

	case TypeMerge:
		meta.Category = node.Control
		fn, _ := lookupMergeFunc(params, funcs)
		return node.NewMerge(spec.ID, name, fn), meta, nil

	case TypeFork:
		meta.Category = node.Control
		count := optInt(params, "fork_count", 2)
		meta.ForkCount = count
		return node.NewFork(spec.ID, name, count), meta, nil

	case TypeJoin:
		meta.Category = node.Control
		fn, _ := lookupJoinFunc(params, funcs)
		return node.NewJoin(spec.ID, name, fn), meta, nil

	case TypeTryCatch:
		meta.Category = node.Exception
		tryFn, err := lookupTargetFunc(params, "function", funcs)
		if err != nil {
			return nil, meta, err
		}
		catchFn, err := lookupCatchFunc(params, funcs)
		if err != nil {
			return nil, meta, err
		}
		return exception.NewTryCatch(spec.ID, name, tryFn, catchFn, nil), meta, nil

	case TypeRetry:
		meta.Category = node.Exception
		targetFn, err := lookupTargetFunc(params, "function", funcs)
		if err != nil {
			return nil, meta, err
		}
		r := exception.NewRetry(spec.ID, name, targetFn, nil)
		r.MaxRetries = optInt(params, "max_retries", r.MaxRetries)
		r.BackoffFactor = optFloat(params, "backoff_factor", r.BackoffFactor)
		return r, meta, nil

	case TypeTimeout:
		meta.Category = node.Exception
		targetFn, err := lookupTargetFunc(params, "function", funcs)
		if err != nil {
			return nil, meta, err
		}
		timeoutSeconds := optFloat(params, "timeout_seconds", 30)
		return exception.NewTimeout(spec.ID, name, targetFn, timeoutSeconds), meta, nil

	case TypeCircuitBreaker:
		meta.Category = node.Exception
		targetFn, err := lookupTargetFunc(params, "function", funcs)
		if err != nil {
			return nil, meta, err
		}
		cb := exception.NewCircuitBreaker(spec.ID, name, targetFn, nil)
		cb.FailureThreshold = optInt(params, "failure_threshold", cb.FailureThreshold)
		cb.SuccessThreshold = optInt(params, "success_threshold", cb.SuccessThreshold)
		cb.TimeoutSeconds = optFloat(params, "timeout_seconds", cb.TimeoutSeconds)
		return cb, meta, nil

	default:
		return nil, meta, fmt.Errorf("unknown node type %q", spec.Type)
	}
}

func lookupTaskFunc(params map[string]any, funcs Funcs) (node.ProcessFunc, error) {
	fn, err := lookupOptionalTaskFunc(params, funcs)
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, fmt.Errorf("no function registered for %q", params["function"])
	}
	return fn, nil
}

func lookupOptionalTaskFunc(params map[string]any, funcs Funcs) (node.ProcessFunc, error) {
	ref, ok := params["function"]
	if !ok {
		return nil, nil
	}
	name, ok := ref.(string)
	if !ok {
		return nil, fmt.Errorf("param \"function\" must be a string")
	}
	fn, ok := funcs.Task[name]
	if !ok {
		return nil, fmt.Errorf("no task function registered under name %q", name)
	}
	return fn, nil
}

func lookupTargetFunc(params map[string]any, key string, funcs Funcs) (exception.TargetFunc, error) {
	name, err := paramString(params, key)
	if err != nil {
		return nil, err
	}
	fn, ok := funcs.Target[name]
	if !ok {
		return nil, fmt.Errorf("no target function registered under name %q", name)
	}
	return fn, nil
}

func lookupCatchFunc(params map[string]any, funcs Funcs) (exception.CatchFunc, error) {
	name, err := paramString(params, "catch_function")
	if err != nil {
		return nil, err
	}
	fn, ok := funcs.Catch[name]
	if !ok {
		return nil, fmt.Errorf("no catch function registered under name %q", name)
	}
	return fn, nil
}

func lookupMergeFunc(params map[string]any, funcs Funcs) (node.MergeFunc, error) {
	name := optString(params, "merge_function", "")
	if name == "" {
		return nil, nil
	}
	fn, ok := funcs.Merge[name]
	if !ok {
		return nil, fmt.Errorf("no merge function registered under name %q", name)
	}
	return fn, nil
}

func lookupJoinFunc(params map[string]any, funcs Funcs) (node.JoinFunc, error) {
	name := optString(params, "join_function", "")
	if name == "" {
		return nil, nil
	}
	fn, ok := funcs.Join[name]
	if !ok {
		return nil, fmt.Errorf("no join function registered under name %q", name)
	}
	return fn, nil
}

func lookupPredicate(params map[string]any) (node.Predicate, error) {
	expression := optString(params, "predicate", "")
	if expression == "" {
		return nil, nil
	}
	return node.NewExprPredicate(expression)
}
