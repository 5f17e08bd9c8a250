package client

import (
	"context"
	"sync"
	"time"

	"chatdesk/internal/domain/models"
)

// Sender tags a display message with its author.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderAI     Sender = "AI"
	SenderSystem Sender = "system"
)

// Message is one entry in the displayed conversation.
type Message struct {
	Sender Sender
	Text   string
	// File is the uploaded filename when the message was a file send.
	File string
	// Time is the display-formatted timestamp.
	Time string
}

// ConversationSnapshot is an immutable view of the conversation state.
type ConversationSnapshot struct {
	Messages []Message
	Typing   bool
	Loading  bool
}

// failureReply is shown when a send fails entirely (network error);
// provider outages are already degraded server-side.
const failureReply = "Sorry, something went wrong."

// Conversation holds the in-memory message list and mediates optimistic
// local updates against server confirmation. Sends are two-phase:
// phase 1 appends the user's message locally before the network call,
// phase 2 appends exactly one resulting message. The phase-1 entry is
// never retracted, so the transcript always shows what the user sent.
type Conversation struct {
	mu       sync.Mutex
	api      *API
	messages []Message
	typing   bool
	loading  bool
	subs     map[int]func(ConversationSnapshot)
	next     int
	// now is swappable for tests
	now func() time.Time
}

// NewConversation creates an empty conversation.
func NewConversation(api *API) *Conversation {
	return &Conversation{
		api:  api,
		subs: make(map[int]func(ConversationSnapshot)),
		now:  time.Now,
	}
}

// Snapshot returns the current state. The message slice is a copy.
func (c *Conversation) Snapshot() ConversationSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn for every new snapshot; returns unsubscribe.
func (c *Conversation) Subscribe(fn func(ConversationSnapshot)) func() {
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs[id] = fn
	snap := c.snapshotLocked()
	c.mu.Unlock()

	fn(snap)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// LoadChat fetches history and replaces the message list. Loading is
// cleared regardless of outcome; on error the list is left as it was.
func (c *Conversation) LoadChat(ctx context.Context) {
	c.update(func() { c.loading = true })
	defer c.update(func() { c.loading = false })

	turns, err := c.api.History(ctx)
	if err != nil {
		return
	}

	messages := make([]Message, 0, len(turns))
	now := c.now()
	for _, turn := range turns {
		messages = append(messages, Message{
			Sender: senderForRole(turn.Role),
			Text:   turn.Content,
			Time:   FormatRelative(turn.CreatedAt, now),
		})
	}
	c.update(func() { c.messages = messages })
}

// SendMessage sends free text. The user's message appears immediately;
// the server's reply (or a failure placeholder) follows as exactly one
// more message.
func (c *Conversation) SendMessage(ctx context.Context, text string) {
	c.appendNow(Message{Sender: SenderUser, Text: text})
	c.update(func() { c.typing = true })
	defer c.update(func() { c.typing = false })

	reply, err := c.api.Send(ctx, text)
	if err != nil {
		c.appendNow(Message{Sender: SenderAI, Text: failureReply})
		return
	}
	c.appendNow(Message{Sender: SenderAI, Text: reply})
}

// SendFile uploads a file. Same two-phase shape as SendMessage, with a
// system confirmation instead of an assistant reply.
func (c *Conversation) SendFile(ctx context.Context, filename, contentType string, data []byte) {
	c.appendNow(Message{Sender: SenderUser, Text: filename, File: filename})
	c.update(func() { c.typing = true })
	defer c.update(func() { c.typing = false })

	confirmation, err := c.api.SendFile(ctx, filename, contentType, data, "")
	if err != nil {
		c.appendNow(Message{Sender: SenderSystem, Text: failureReply})
		return
	}
	c.appendNow(Message{Sender: SenderSystem, Text: confirmation})
}

func senderForRole(role models.Role) Sender {
	switch role {
	case models.RoleAssistant:
		return SenderAI
	case models.RoleSystem:
		return SenderSystem
	default:
		return SenderUser
	}
}

func (c *Conversation) appendNow(msg Message) {
	msg.Time = FormatRelative(c.now(), c.now())
	c.update(func() { c.messages = append(c.messages, msg) })
}

// update applies a mutation and publishes the resulting snapshot.
func (c *Conversation) update(mutate func()) {
	c.mu.Lock()
	mutate()
	snap := c.snapshotLocked()
	subs := make([]func(ConversationSnapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (c *Conversation) snapshotLocked() ConversationSnapshot {
	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)
	return ConversationSnapshot{
		Messages: messages,
		Typing:   c.typing,
		Loading:  c.loading,
	}
}
