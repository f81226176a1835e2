package graph

import (
	"sort"

	"github.com/agenticzero/flowgraph/node"
)

func categoryFromString(s string) node.Category {
	switch node.Category(s) {
	case node.Task, node.Control, node.Exception:
		return node.Category(s)
	default:
		return node.Task
	}
}

// EdgeDict is the wire representation of a single edge for ToDict/FromDict
// and for a snapshot's graph-shape capture.
type EdgeDict struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Action string  `json:"action"`
	Weight float64 `json:"weight"`
}

// NodeDict is the wire representation of a single node's structural
// metadata.
type NodeDict struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Branch    bool   `json:"branch,omitempty"`
	ForkCount int    `json:"fork_count,omitempty"`
}

// Dict is the JSON-serializable shape of a Graph's structure: node
// metadata, edges, the start node, and the terminal set. It deliberately
// excludes node behavior (package node owns that) — round-tripping a Dict
// through ToDict/FromDict reconstructs an isomorphic Graph (same ids,
// edges, terminals, start) but does not reconstruct runnable nodes.
type Dict struct {
	Name  string     `json:"name"`
	Nodes []NodeDict `json:"nodes"`
	Edges []EdgeDict `json:"edges"`
	Start string     `json:"start"`
	Ends  []string   `json:"ends"`
}

// ToDict exports the graph's structure for serialization.
func (g *Graph) ToDict() Dict {
	d := Dict{Name: g.Name, Start: g.start}

	for _, id := range g.NodeIDs() {
		meta := g.nodes[id]
		d.Nodes = append(d.Nodes, NodeDict{
			ID:        meta.ID,
			Category:  string(meta.Category),
			Branch:    meta.Branch,
			ForkCount: meta.ForkCount,
		})
	}

	var edges []EdgeDict
	for _, id := range g.NodeIDs() {
		for _, e := range g.out[id] {
			edges = append(edges, EdgeDict{From: e.From, To: e.To, Action: e.Action, Weight: e.Weight})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].Action < edges[j].Action
	})
	d.Edges = edges

	d.Ends = g.Ends()
	return d
}

// FromDict reconstructs a Graph from its wire representation. The result
// is isomorphic to the graph ToDict was called on: same ids, edges,
// terminals, and start.
func FromDict(d Dict) (*Graph, error) {
	g := New(d.Name)

	for _, nd := range d.Nodes {
		meta := NodeMeta{
			ID:        nd.ID,
			Category:  categoryFromString(nd.Category),
			Branch:    nd.Branch,
			ForkCount: nd.ForkCount,
		}
		if err := g.AddNode(meta); err != nil {
			return nil, err
		}
	}

	for _, ed := range d.Edges {
		if err := g.AddEdge(ed.From, ed.To, ed.Action, ed.Weight); err != nil {
			return nil, err
		}
	}

	if d.Start != "" {
		if err := g.SetStart(d.Start); err != nil {
			return nil, err
		}
	}

	for _, end := range d.Ends {
		if err := g.AddEnd(end); err != nil {
			return nil, err
		}
	}

	return g, nil
}
