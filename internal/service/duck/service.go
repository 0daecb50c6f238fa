// Package duck answers user questions through a fallback chain of
// strategies: daemon-backed, direct bridge, then the local canned-question
// generator. The chain always produces an answer.
package duck

import (
	"context"
	"log"

	"github.com/cloudwego/eino/schema"

	"github.com/myducklabs/myduck/internal/model/duck"
	"github.com/myducklabs/myduck/internal/policy"
	"github.com/myducklabs/myduck/internal/prompt"
	"github.com/myducklabs/myduck/internal/service/provider"
)

// Backend is the daemon-facing strategy.
type Backend interface {
	Chat(ctx context.Context, request duck.ChatRequest) (string, error)
}

// Asker is the direct-bridge strategy.
type Asker interface {
	Ask(ctx context.Context, req provider.AskRequest) (string, error)
}

// Service routes one question through the strategy chain. The policy applied
// on the direct path is identical to the daemon's.
type Service struct {
	pol          *policy.Policy
	backend      Backend
	bridge       Asker
	backendReady bool
}

// NewService assembles the chain. backendReady reflects the supervisor's
// startup health check; when false the daemon strategy is skipped entirely.
func NewService(pol *policy.Policy, backend Backend, bridge Asker, backendReady bool) *Service {
	return &Service{
		pol:          pol,
		backend:      backend,
		bridge:       bridge,
		backendReady: backendReady,
	}
}

// Question carries one user turn through the chain.
type Question struct {
	Provider  provider.Identity
	Messages  []*schema.Message
	UserInput string
	Language  policy.Language
}

// Ask never fails: each strategy's error demotes the call to the next one,
// ending at the guaranteed local question.
func (s *Service) Ask(ctx context.Context, q Question) string {
	if s.backendReady {
		answer, err := s.backend.Chat(ctx, duck.ChatRequest{
			Provider:  string(q.Provider),
			Messages:  q.Messages,
			UserInput: q.UserInput,
			Language:  string(q.Language),
			Auth: duck.Auth{
				Mode:        "cli",
				CliProvider: string(q.Provider),
			},
		})
		if err == nil && answer != "" {
			return answer
		}
		if err != nil {
			log.Printf("[duck] local backend unavailable: %v", err)
		}
	}

	raw, err := s.bridge.Ask(ctx, provider.AskRequest{
		Provider:     q.Provider,
		Prompt:       prompt.BuildBridgePrompt(q.Messages, q.UserInput, q.Language),
		SystemPrompt: prompt.DuckSystemPrompt(q.Language),
	})
	if err != nil {
		log.Printf("[duck] CLI provider unavailable: %v", err)
		return s.pol.LocalDuckQuestion(q.UserInput, q.Language)
	}

	return s.pol.EnforceQuestionOnly(raw, q.UserInput, q.Language)
}
