package node

import (
	"context"
	"fmt"

	"github.com/agenticzero/flowgraph/provider"
)

// AIInput is the expected input shape for the AI decision node flavors:
// a prompt plus conversation history supplied by the caller. ThinkNode
// appends History to its own transcript; PlanNode, DecideNode and
// EvaluateNode pass only their own transcript and ignore History. Nodes
// tolerate a bare string input too, treating it as Prompt with no history.
type AIInput struct {
	Prompt  string
	History []provider.Message
}

func coerceAIInput(input any) AIInput {
	switch v := input.(type) {
	case AIInput:
		return v
	case string:
		return AIInput{Prompt: v}
	case fmt.Stringer:
		return AIInput{Prompt: v.String()}
	default:
		return AIInput{Prompt: fmt.Sprint(v)}
	}
}

// conversation is the custom snapshot state AI nodes contribute so a
// resumed run picks the dialogue back up instead of starting fresh.
type conversation struct {
	history []provider.Message
}

// CustomState returns the node's conversation transcript for inclusion in
// a snapshot's per-node custom state bag.
func (c *conversation) CustomState() map[string]any {
	return map[string]any{"history": c.history}
}

// RestoreCustomState rehydrates the conversation transcript from a
// snapshot's custom state bag.
func (c *conversation) RestoreCustomState(state map[string]any) {
	if raw, ok := state["history"]; ok {
		switch v := raw.(type) {
		case []provider.Message:
			c.history = v
		case []any: // after a JSON round trip
			hist := make([]provider.Message, 0, len(v))
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					role, _ := m["Role"].(string)
					content, _ := m["Content"].(string)
					hist = append(hist, provider.Message{Role: role, Content: content})
				}
			}
			c.history = hist
		}
	}
}

// ThinkNode wraps AgentProvider.Think: free-form reasoning text over a
// prompt. Post is a plain default successor.
type ThinkNode struct {
	State
	conversation
	Provider provider.AgentProvider
}

func NewThinkNode(id, name string, p provider.AgentProvider) *ThinkNode {
	return &ThinkNode{State: NewState(id, name, Task), Provider: p}
}

func (n *ThinkNode) Prep(ctx context.Context, input any) error { return nil }

func (n *ThinkNode) Exec(ctx context.Context, input any) (any, error) {
	in := coerceAIInput(input)
	hist := append(append([]provider.Message{}, n.history...), in.History...)
	text, err := n.Provider.Think(ctx, hist, in.Prompt)
	if err != nil {
		return nil, err
	}
	n.history = append(hist, provider.Message{Role: provider.RoleAssistant, Content: text})
	return text, nil
}

func (n *ThinkNode) Post(ctx context.Context, input, result any) (string, error) {
	return Default, nil
}

// PlanNode wraps AgentProvider.Plan: produces an ordered list of steps
// toward a goal.
type PlanNode struct {
	State
	conversation
	Provider provider.AgentProvider
}

func NewPlanNode(id, name string, p provider.AgentProvider) *PlanNode {
	return &PlanNode{State: NewState(id, name, Task), Provider: p}
}

func (n *PlanNode) Prep(ctx context.Context, input any) error { return nil }

func (n *PlanNode) Exec(ctx context.Context, input any) (any, error) {
	in := coerceAIInput(input)
	steps, err := n.Provider.Plan(ctx, n.history, in.Prompt)
	if err != nil {
		return nil, err
	}
	return steps, nil
}

func (n *PlanNode) Post(ctx context.Context, input, result any) (string, error) {
	return Default, nil
}

// DecideNode wraps AgentProvider.Decide as a Branch: Exec asks the
// provider to choose a label from Options, Post routes on that label.
type DecideNode struct {
	State
	conversation
	Provider provider.AgentProvider
	Options  []string
}

func NewDecideNode(id, name string, p provider.AgentProvider, options []string) *DecideNode {
	return &DecideNode{State: NewState(id, name, Control), Provider: p, Options: options}
}

func (n *DecideNode) Prep(ctx context.Context, input any) error { return nil }

func (n *DecideNode) Exec(ctx context.Context, input any) (any, error) {
	in := coerceAIInput(input)
	label, err := n.Provider.Decide(ctx, n.history, in.Prompt, n.Options)
	if err != nil {
		return nil, err
	}
	return ActionEnvelope{Action: label, Data: input}, nil
}

func (n *DecideNode) Post(ctx context.Context, input, result any) (string, error) {
	if env, ok := result.(ActionEnvelope); ok {
		return env.Action, nil
	}
	return Default, nil
}

// EvaluateNode wraps AgentProvider.Evaluate: scores content against
// criteria, routing "pass" or "fail" based on a configurable threshold.
type EvaluateNode struct {
	State
	conversation
	Provider  provider.AgentProvider
	Criteria  string
	Threshold float64
}

// EvaluateResult is EvaluateNode's Exec result shape.
type EvaluateResult struct {
	Score     float64
	Rationale string
}

func NewEvaluateNode(id, name string, p provider.AgentProvider, criteria string, threshold float64) *EvaluateNode {
	return &EvaluateNode{State: NewState(id, name, Control), Provider: p, Criteria: criteria, Threshold: threshold}
}

func (n *EvaluateNode) Prep(ctx context.Context, input any) error { return nil }

func (n *EvaluateNode) Exec(ctx context.Context, input any) (any, error) {
	in := coerceAIInput(input)
	score, rationale, err := n.Provider.Evaluate(ctx, n.history, in.Prompt, n.Criteria)
	if err != nil {
		return nil, err
	}
	return EvaluateResult{Score: score, Rationale: rationale}, nil
}

func (n *EvaluateNode) Post(ctx context.Context, input, result any) (string, error) {
	res, ok := result.(EvaluateResult)
	if !ok {
		return Default, nil
	}
	if res.Score >= n.Threshold {
		return "pass", nil
	}
	return "fail", nil
}
