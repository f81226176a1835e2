// Package provider supplies the agent capability set AI-flavored nodes
// depend on — {think, plan, decide, evaluate} — consumed by package
// node's ai.go. It is layered on top of a ChatModel abstraction so any
// of the three wired SDKs — Anthropic, OpenAI, Google Gemini — can back
// it; see the anthropic, openai, and google subpackages.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
)

// ChatModel defines the interface for LLM chat providers. It abstracts
// the differences between Anthropic, OpenAI, and Google so callers depend
// only on this package.
type ChatModel interface {
	// Chat sends messages to the LLM and returns the response. tools may
	// be nil if the caller has none to offer.
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (ChatOut, error)
}

// Message is a single turn in an LLM conversation.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolSpec describes a tool the LLM may choose to invoke.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]interface{}
}

// ChatOut is the LLM's response: free text, tool calls, or both.
type ChatOut struct {
	Text      string
	ToolCalls []ToolCall
}

// ToolCall is a request from the LLM to invoke a specific tool.
type ToolCall struct {
	Name  string
	Input map[string]interface{}
}

// AgentProvider is the capability surface AI decision nodes depend on:
// {think, plan, decide, evaluate}. This package's implementation layers
// all four capabilities on a single ChatModel by shaping the prompt
// differently per capability and parsing a constrained response format
// back out.
type AgentProvider interface {
	// Think produces free-form reasoning text over the given prompt and
	// conversation history, without constraining the output shape.
	Think(ctx context.Context, history []Message, prompt string) (text string, err error)

	// Plan produces an ordered list of step descriptions to accomplish
	// the given goal.
	Plan(ctx context.Context, history []Message, goal string) (steps []string, err error)

	// Decide chooses one label from options given the prompt and
	// history, for use as a Branch predicate's result.
	Decide(ctx context.Context, history []Message, prompt string, options []string) (label string, err error)

	// Evaluate scores the given content against criteria, returning a
	// score in [0,1] and a short rationale.
	Evaluate(ctx context.Context, history []Message, content, criteria string) (score float64, rationale string, err error)
}

// ChatProvider implements AgentProvider on top of any ChatModel. This is
// the concrete collaborator AI nodes are constructed with in practice;
// the anthropic/openai/google subpackages only need to implement
// ChatModel, not AgentProvider directly.
type ChatProvider struct {
	Model ChatModel
}

// NewChatProvider wraps a ChatModel as an AgentProvider.
func NewChatProvider(model ChatModel) *ChatProvider {
	return &ChatProvider{Model: model}
}

func (p *ChatProvider) Think(ctx context.Context, history []Message, prompt string) (string, error) {
	out, err := p.Model.Chat(ctx, append(history, Message{Role: RoleUser, Content: prompt}), nil)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

func (p *ChatProvider) Plan(ctx context.Context, history []Message, goal string) ([]string, error) {
	prompt := fmt.Sprintf("Produce a numbered plan to accomplish: %s\nRespond with a JSON array of strings, one per step.", goal)
	out, err := p.Model.Chat(ctx, append(history, Message{Role: RoleUser, Content: prompt}), nil)
	if err != nil {
		return nil, err
	}
	var steps []string
	if err := json.Unmarshal([]byte(out.Text), &steps); err != nil {
		// Fall back to a single-step plan rather than failing the node:
		// the LLM may not have honored the JSON instruction.
		return []string{out.Text}, nil
	}
	return steps, nil
}

func (p *ChatProvider) Decide(ctx context.Context, history []Message, prompt string, options []string) (string, error) {
	full := fmt.Sprintf("%s\nChoose exactly one of: %v. Respond with only the chosen option, nothing else.", prompt, options)
	out, err := p.Model.Chat(ctx, append(history, Message{Role: RoleUser, Content: full}), nil)
	if err != nil {
		return "", err
	}
	choice := trimToOption(out.Text, options)
	return choice, nil
}

func (p *ChatProvider) Evaluate(ctx context.Context, history []Message, content, criteria string) (float64, string, error) {
	prompt := fmt.Sprintf("Evaluate the following content against these criteria: %s\n\nContent:\n%s\n\nRespond with JSON: {\"score\": <0..1>, \"rationale\": \"...\"}", criteria, content)
	out, err := p.Model.Chat(ctx, append(history, Message{Role: RoleUser, Content: prompt}), nil)
	if err != nil {
		return 0, "", err
	}
	var parsed struct {
		Score     float64 `json:"score"`
		Rationale string  `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(out.Text), &parsed); err != nil {
		return 0, out.Text, nil
	}
	return parsed.Score, parsed.Rationale, nil
}

func trimToOption(text string, options []string) string {
	for _, opt := range options {
		if containsFold(text, opt) {
			return opt
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return text
}

func containsFold(haystack, needle string) bool {
	hl, nl := len(haystack), len(needle)
	if nl == 0 || nl > hl {
		return false
	}
	for i := 0; i+nl <= hl; i++ {
		if equalFold(haystack[i:i+nl], needle) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
