// Package chat keeps the foreground session's conversation state. History
// lives only in memory for the lifetime of one chat loop.
package chat

import (
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

// keepLast caps how many non-system turns are retained.
const keepLast = 16

// Conversation is an in-memory, mutex-guarded message history seeded with a
// system prompt.
type Conversation struct {
	mu       sync.Mutex
	id       string
	messages []*schema.Message
}

// NewConversation starts a conversation with the duck system prompt pinned
// as the first message.
func NewConversation(systemPrompt string) *Conversation {
	return &Conversation{
		id:       uuid.NewString(),
		messages: []*schema.Message{schema.SystemMessage(systemPrompt)},
	}
}

// ID returns the conversation identifier.
func (c *Conversation) ID() string {
	return c.id
}

// AddUser appends a user turn.
func (c *Conversation) AddUser(content string) {
	c.append(schema.UserMessage(content))
}

// AddAssistant appends an assistant turn.
func (c *Conversation) AddAssistant(content string) {
	c.append(schema.AssistantMessage(content, nil))
}

func (c *Conversation) append(msg *schema.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msg)
	c.trim()
}

// trim keeps the system message plus the most recent turns.
func (c *Conversation) trim() {
	if len(c.messages) <= keepLast+1 {
		return
	}

	system := c.messages[0]
	tail := c.messages[len(c.messages)-keepLast:]

	trimmed := make([]*schema.Message, 0, keepLast+1)
	trimmed = append(trimmed, system)
	trimmed = append(trimmed, tail...)
	c.messages = trimmed
}

// Messages returns a copy of the history in chronological order.
func (c *Conversation) Messages() []*schema.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := make([]*schema.Message, len(c.messages))
	copy(copied, c.messages)
	return copied
}
