package config_test

import (
	"context"
	"strings"
	"testing"

	"github.com/agenticzero/flowgraph/config"
	"github.com/agenticzero/flowgraph/node"
)

const sampleYAML = `
name: example
start: fetch
ends: [highPath, lowPath]
nodes:
  - id: fetch
    type: task
    params:
      function: fetchFn
  - id: route
    type: branch
    params:
      predicate: "input.score > 50 ? \"high\" : \"low\""
  - id: highPath
    type: task
    params:
      function: fetchFn
  - id: lowPath
    type: task
    params:
      function: fetchFn
edges:
  - {from: fetch, to: route, action: default}
  - {from: route, to: highPath, action: high}
  - {from: route, to: lowPath, action: low}
`

func TestLoadBuildsGraphAndNodes(t *testing.T) {
	funcs := config.Funcs{
		Task: map[string]node.ProcessFunc{
			"fetchFn": func(ctx context.Context, input any) (any, error) { return input, nil },
		},
	}

	g, nodes, err := config.Load(strings.NewReader(sampleYAML), funcs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if g.Start() != "fetch" {
		t.Errorf("start = %q, want fetch", g.Start())
	}
	for _, id := range []string{"fetch", "route", "highPath", "lowPath"} {
		if _, ok := nodes[id]; !ok {
			t.Errorf("missing node %q in bound nodes", id)
		}
	}
	if !g.IsEnd("highPath") || !g.IsEnd("lowPath") {
		t.Errorf("expected highPath and lowPath to be terminal nodes")
	}
}

func TestLoadRejectsUnknownNodeType(t *testing.T) {
	yamlDoc := `
name: bad
start: a
nodes:
  - id: a
    type: not_a_real_type
edges: []
`
	_, _, err := config.Load(strings.NewReader(yamlDoc), config.Funcs{})
	if err == nil {
		t.Fatal("expected an error for an unrecognized node type")
	}
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	yamlDoc := `
description: missing name and start
nodes: []
`
	_, _, err := config.Load(strings.NewReader(yamlDoc), config.Funcs{})
	if err == nil {
		t.Fatal("expected a schema validation error")
	}
	if _, ok := err.(*config.ValidationError); !ok {
		t.Fatalf("got %T, want *config.ValidationError", err)
	}
}
