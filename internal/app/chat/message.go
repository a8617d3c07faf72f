/*
Package chat implements the assistant chat widget: the per-visitor conversation
transcript, the floating panel state machine, and the responder that turns a
user message into the assistant's reply.
*/
package chat

import (
	"sync"
	"time"

	"lexdraft/internal/pkg/randx"
)

// Sender identifies who authored a message.
type Sender string

const (
	// SenderUser marks a message typed by the visitor.
	SenderUser Sender = "user"

	// SenderBot marks a message produced by the assistant.
	SenderBot Sender = "bot"
)

// Greeting is the assistant's opening message, seeded into every fresh
// conversation before the visitor has said anything.
const Greeting = "Hello! I'm Alice, your AI legal assistant. I can help you with legal document questions, contract advice, and general legal guidance. How can I assist you today?"

// Message is one entry in a conversation transcript.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a message stamped with a fresh id and the current time.
func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        randx.MessageID(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now(),
	}
}

// Conversation is an append-only message transcript. Replies are appended at
// the moment they resolve, so a slow reply lands after any user messages sent
// in the meantime. Safe for concurrent use.
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
}

// NewConversation returns a transcript seeded with the assistant greeting.
func NewConversation() *Conversation {
	return &Conversation{
		messages: []Message{NewMessage(SenderBot, Greeting)},
	}
}

// Append adds msg to the end of the transcript.
func (c *Conversation) Append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the transcript in append order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}
