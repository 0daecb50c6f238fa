package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/myducklabs/myduck/internal/config"
)

// ErrUnsupportedProvider is returned for identities outside the supported set.
var ErrUnsupportedProvider = fmt.Errorf("unsupported provider")

// AskRequest carries one bridged question to a provider CLI.
type AskRequest struct {
	Provider     Identity
	Prompt       string
	SystemPrompt string
}

// Bridge invokes provider CLIs as child processes. Every failure it returns
// is recoverable; callers are expected to fall back to the next strategy.
type Bridge struct {
	cfg config.ProviderConfig
}

// NewBridge creates a bridge with the given invocation settings.
func NewBridge(cfg config.ProviderConfig) *Bridge {
	return &Bridge{cfg: cfg}
}

// IsAvailable probes the provider executable with a short version check.
// Any spawn failure, non-zero exit or timeout means unavailable.
func (b *Bridge) IsAvailable(ctx context.Context, id Identity) bool {
	command, ok := id.Command()
	if !ok {
		return false
	}

	_, err := runProcess(ctx, command, []string{"--version"}, runOptions{
		mode:    modeCaptured,
		timeout: b.cfg.ProbeTimeout,
	})
	return err == nil
}

// DetectAvailable returns the usable providers in preference order.
func (b *Bridge) DetectAvailable(ctx context.Context) []Identity {
	var available []Identity
	for _, id := range All() {
		if b.IsAvailable(ctx, id) {
			available = append(available, id)
		}
	}
	return available
}

// Login runs the provider's interactive authentication flow attached to the
// controlling terminal, with no timeout.
func (b *Bridge) Login(ctx context.Context, id Identity) error {
	switch id {
	case ClaudeCLI:
		_, err := runProcess(ctx, "claude", []string{"auth"}, runOptions{mode: modeInherited})
		return err
	case CodexCLI:
		_, err := runProcess(ctx, "codex", []string{"login"}, runOptions{mode: modeInherited})
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, id)
	}
}

// Ask sends one prompt to the provider and returns its trimmed answer text.
func (b *Bridge) Ask(ctx context.Context, req AskRequest) (string, error) {
	switch req.Provider {
	case ClaudeCLI:
		return b.askClaude(ctx, req)
	case CodexCLI:
		return b.askCodex(ctx, req)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, req.Provider)
	}
}

func (b *Bridge) askClaude(ctx context.Context, req AskRequest) (string, error) {
	result, err := runProcess(ctx, "claude", claudeArgs(b.cfg.ClaudeModel, req.SystemPrompt, req.Prompt), runOptions{
		mode:    modeCaptured,
		timeout: b.cfg.Timeout,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.stdout), nil
}

// askCodex routes the answer through a dedicated last-message file because
// codex streams tool-call chatter to stdout. The file is uniquely named per
// invocation so concurrent calls never collide, and is always removed.
func (b *Bridge) askCodex(ctx context.Context, req AskRequest) (string, error) {
	outputPath := codexOutputPath()
	defer os.Remove(outputPath)

	fullPrompt := req.Prompt
	if req.SystemPrompt != "" {
		fullPrompt = req.SystemPrompt + "\n\n" + req.Prompt
	}

	result, err := runProcess(ctx, "codex", codexArgs(outputPath, fullPrompt), runOptions{
		mode:    modeCaptured,
		timeout: b.cfg.Timeout,
	})
	if err != nil {
		return "", err
	}

	if data, readErr := os.ReadFile(outputPath); readErr == nil {
		if clean := strings.TrimSpace(string(data)); clean != "" {
			return clean, nil
		}
	}
	return strings.TrimSpace(result.stdout), nil
}

func claudeArgs(model, systemPrompt, userPrompt string) []string {
	args := []string{
		"-p",
		"--output-format", "text",
		"--model", model,
		"--permission-mode", "bypassPermissions",
		"--no-session-persistence",
	}
	if systemPrompt != "" {
		args = append(args, "--system-prompt", systemPrompt)
	}
	return append(args, userPrompt)
}

func codexArgs(outputPath, fullPrompt string) []string {
	return []string{
		"exec",
		"--skip-git-repo-check",
		"--sandbox", "read-only",
		"--output-last-message", outputPath,
		fullPrompt,
	}
}

func codexOutputPath() string {
	name := fmt.Sprintf("myduck-codex-last-%d-%s.txt", time.Now().UnixMilli(), uuid.NewString()[:8])
	return filepath.Join(os.TempDir(), name)
}
