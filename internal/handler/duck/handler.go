// Package duck exposes the daemon's health and chat-completion endpoints.
package duck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"

	"github.com/myducklabs/myduck/internal/model/duck"
	"github.com/myducklabs/myduck/internal/policy"
	"github.com/myducklabs/myduck/internal/prompt"
	"github.com/myducklabs/myduck/internal/service/provider"
	"github.com/myducklabs/myduck/pkg/utils"
)

// maxBodyBytes caps the chat-completion request body.
const maxBodyBytes = 1 << 20

// ServiceName is reported by the health endpoint.
const ServiceName = "myduckd"

// Asker is the slice of the provider bridge the handler needs; tests inject
// a double here to assert the bridge is never reached.
type Asker interface {
	Ask(ctx context.Context, req provider.AskRequest) (string, error)
}

// Handler serves the local chat-completion protocol. It holds no per-request
// state: requests are independent and may run concurrently, each spawning at
// most one provider process.
type Handler struct {
	bridge Asker
	pol    *policy.Policy
}

// New creates the daemon handler.
func New(bridge Asker, pol *policy.Policy) *Handler {
	return &Handler{bridge: bridge, pol: pol}
}

// RegisterRoutes wires the protocol endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Post("/v1/chat/completions", h.handleChatCompletion)
}

// handleHealth always succeeds and never touches the bridge.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, duck.HealthResponse{
		OK:      true,
		Service: ServiceName,
		PID:     os.Getpid(),
	})
}

func (h *Handler) handleChatCompletion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var payload duck.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		utils.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	answer, err := h.answer(r.Context(), payload)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, duck.ChatResponse{
		Choices: []duck.Choice{{Message: duck.ChoiceMessage{Role: "assistant", Content: answer}}},
	})
}

func (h *Handler) answer(ctx context.Context, payload duck.ChatRequest) (string, error) {
	userInput := strings.TrimSpace(payload.UserInput)
	if userInput == "" {
		userInput = lastUserMessage(payload.Messages)
	}

	language := policy.Language(payload.Language)
	if !policy.IsKnownLanguage(payload.Language) {
		language = policy.DetectLanguage(userInput)
	}

	if policy.LooksLikeSolutionRequest(userInput) {
		return policy.RefusalQuestion(language), nil
	}

	if payload.Auth.Mode == "cli" && payload.Auth.CliProvider != "" {
		raw, err := h.bridge.Ask(ctx, provider.AskRequest{
			Provider:     provider.Identity(payload.Auth.CliProvider),
			Prompt:       prompt.BuildBridgePrompt(payload.Messages, userInput, language),
			SystemPrompt: prompt.DuckSystemPrompt(language),
		})
		if err != nil {
			return "", err
		}
		return h.pol.EnforceQuestionOnly(raw, userInput, language), nil
	}

	return h.pol.LocalDuckQuestion(userInput, language), nil
}

func lastUserMessage(messages []*schema.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i] != nil && messages[i].Role == schema.User {
			return messages[i].Content
		}
	}
	return ""
}
