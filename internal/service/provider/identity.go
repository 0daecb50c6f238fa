// Package provider bridges chat requests to external AI CLI tools invoked as
// child processes, normalizing their output and failure behavior.
package provider

import "strings"

// Identity names one of the supported CLI providers.
type Identity string

const (
	ClaudeCLI Identity = "claude-cli"
	CodexCLI  Identity = "codex-cli"
)

var commands = map[Identity]string{
	ClaudeCLI: "claude",
	CodexCLI:  "codex",
}

var labels = map[Identity]string{
	ClaudeCLI: "Claude CLI",
	CodexCLI:  "Codex CLI",
}

// All lists the supported identities in preference order.
func All() []Identity {
	return []Identity{ClaudeCLI, CodexCLI}
}

// Command resolves the identity to its executable name.
func (i Identity) Command() (string, bool) {
	cmd, ok := commands[i]
	return cmd, ok
}

// Label returns the human-readable provider name.
func (i Identity) Label() string {
	if label, ok := labels[i]; ok {
		return label
	}
	return string(i)
}

// Normalize maps loose user input ("claude", "codex-cli", ...) to an
// identity, or "" when unrecognized.
func Normalize(value string) Identity {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "claude", "claude-cli":
		return ClaudeCLI
	case "codex", "codex-cli":
		return CodexCLI
	default:
		return ""
	}
}
