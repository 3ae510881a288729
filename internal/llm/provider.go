package llm

import (
	"context"
	"encoding/json"
)

// Provider turns a prompt into JSON. Scorers depend on this interface only;
// the concrete vendor is picked by configuration.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set, Content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request is one model call.
type Request struct {
	System   string
	Messages []Message

	// Schema constrains the output. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero keeps grading reproducible.
	Temperature float64
}

// SingleTurn builds a request with one user message, the shape every
// scoring prompt uses.
func SingleTurn(system, user string, schema *Schema) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
		Schema:   schema,
	}
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the Anthropic tool name
// and the OpenAI schema name, so keep it kebab-case ("translation-score").
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopBlocked   = "blocked"
)

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string // model that actually served the call
	StopReason string // one of the Stop* constants
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
