// Package prompt assembles the prompts sent to CLI providers. The same
// construction is used by the daemon and by the direct-bridge fallback path
// so both produce identical provider input.
package prompt

import (
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/myducklabs/myduck/internal/policy"
)

// historyLimit caps how many prior turns are replayed to the provider.
const historyLimit = 10

// ChatSystemPrompt seeds the interactive conversation history.
const ChatSystemPrompt = `You are My Duck, a rubber-duck thinking partner for developers.
Non-negotiable behavior:
- Never provide direct solutions.
- Never provide final code to copy/paste.
- Ask concise, useful questions that help the user think.
- You may ask weird or playful questions, but stay relevant.
- If user requests direct answers, refuse and ask a follow-up question.
- Keep each response under 60 words.
- End with at least one question.`

// DuckSystemPrompt is the persona statement sent alongside every bridged
// provider call, with a hard language rule appended.
func DuckSystemPrompt(language policy.Language) string {
	langRule := "- Always answer in English."
	if language == policy.French {
		langRule = "- Always answer in French."
	}

	return strings.Join([]string{
		"You are My Duck, a rubber duck for developers.",
		"Non-negotiable behavior:",
		"- Never provide direct solutions.",
		"- Never provide final copy/paste code.",
		"- Ask concise, useful questions only.",
		"- Keep your reply short.",
		"- End with at least one question.",
		langRule,
	}, "\n")
}

// BuildBridgePrompt renders the conversation for a provider call: a target
// language directive, the last turns as "ROLE: content" lines, the literal
// latest user message, and the questions-only instruction.
func BuildBridgePrompt(messages []*schema.Message, userInput string, language policy.Language) string {
	history := renderHistory(messages)

	target := "English"
	if language == policy.French {
		target = "French"
	}

	return strings.Join([]string{
		"Target language: " + target,
		"Conversation context:",
		history,
		"",
		"Latest user message: " + userInput,
		"Respond now with 1-2 short questions only.",
	}, "\n")
}

func renderHistory(messages []*schema.Message) string {
	filtered := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		if msg == nil || msg.Role == schema.System {
			continue
		}
		filtered = append(filtered, msg)
	}

	if len(filtered) > historyLimit {
		filtered = filtered[len(filtered)-historyLimit:]
	}

	lines := make([]string, 0, len(filtered))
	for _, msg := range filtered {
		lines = append(lines, strings.ToUpper(string(msg.Role))+": "+strings.TrimSpace(msg.Content))
	}
	return strings.Join(lines, "\n")
}
