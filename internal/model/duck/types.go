// Package duck defines the wire types of the local chat-completion protocol.
// The response envelope mirrors the widely used hosted chat-completion shape
// so the daemon is a drop-in substitute for a real model endpoint.
package duck

import "github.com/cloudwego/eino/schema"

// Auth selects how the daemon should answer: "cli" routes through a provider
// CLI; anything else stays on the local canned-question path.
type Auth struct {
	Mode        string `json:"mode"`
	CliProvider string `json:"cliProvider"`
}

// ChatRequest is the body of POST /v1/chat/completions. Each request carries
// its full message history; the daemon keeps no state between requests.
type ChatRequest struct {
	Provider  string            `json:"provider,omitempty"`
	Messages  []*schema.Message `json:"messages"`
	UserInput string            `json:"userInput,omitempty"`
	Language  string            `json:"language,omitempty"`
	Auth      Auth              `json:"auth"`
}

// ChoiceMessage is one assistant message inside a completion choice.
type ChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Choice wraps a single completion alternative.
type Choice struct {
	Message ChoiceMessage `json:"message"`
}

// ChatResponse is the completion envelope returned by the daemon.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	PID     int    `json:"pid"`
}
