package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"netwebquiz/internal/domain"
	"netwebquiz/internal/socket"
)

// maxTranscript bounds the in-memory transcript; older messages fall off.
const maxTranscript = 200

// HistorySource backfills the transcript over REST; *api.Client satisfies it.
type HistorySource interface {
	ChatHistory(ctx context.Context) ([]domain.ChatMessage, error)
}

// Chat mirrors the public chat room: a bounded, ordered transcript fed by
// live events on top of a REST backfill.
type Chat struct {
	ch   socket.Channel
	api  HistorySource
	log  *slog.Logger
	self domain.User

	mu       sync.RWMutex
	messages []domain.ChatMessage
	offs     []func()

	onMessage func(domain.ChatMessage)
	onError   func(string)
}

// Option configures a Chat.
type Option func(*Chat)

// WithMessageFunc registers a callback for every message added live.
func WithMessageFunc(fn func(domain.ChatMessage)) Option {
	return func(c *Chat) { c.onMessage = fn }
}

// WithErrorFunc registers a callback for server-side message rejections.
func WithErrorFunc(fn func(string)) Option {
	return func(c *Chat) { c.onError = fn }
}

// Join backfills history, wires the chat events, and announces presence.
func Join(ctx context.Context, ch socket.Channel, api HistorySource, self domain.User, log *slog.Logger, opts ...Option) (*Chat, error) {
	if log == nil {
		log = slog.Default()
	}
	c := &Chat{ch: ch, api: api, log: log, self: self}
	for _, opt := range opts {
		opt(c)
	}

	history, err := api.ChatHistory(ctx)
	if err != nil {
		return nil, err
	}
	if len(history) > maxTranscript {
		history = history[len(history)-maxTranscript:]
	}
	c.messages = history

	c.offs = []func(){
		ch.On(socket.EventPublicMessageReceive, c.onReceived),
		ch.On(socket.EventPublicMessageSent, c.onReceived),
		ch.On(socket.EventPublicMessageDeleted, c.onDeleted),
		ch.On(socket.EventPublicMessageError, c.onErrorEvent),
	}
	_ = ch.Emit(socket.EmitJoinPublicChat, map[string]string{"userId": self.ID})
	return c, nil
}

// Send posts a message. The transcript is only updated once the server
// echoes it back, so every client orders messages the same way.
func (c *Chat) Send(content string) {
	_ = c.ch.Emit(socket.EmitNewPublicMessage, map[string]string{"content": content})
}

// Delete asks the server to remove a message; the transcript updates on the
// publicMessageDeleted echo.
func (c *Chat) Delete(messageID string) {
	_ = c.ch.Emit(socket.EmitDeletePublicMessage, map[string]string{"messageId": messageID})
}

// Messages returns a copy of the transcript, oldest first.
func (c *Chat) Messages() []domain.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.ChatMessage(nil), c.messages...)
}

// Close detaches all chat listeners.
func (c *Chat) Close() {
	c.mu.Lock()
	offs := c.offs
	c.offs = nil
	c.mu.Unlock()
	for _, off := range offs {
		off()
	}
}

func (c *Chat) onReceived(raw json.RawMessage) {
	var msg domain.ChatMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.log.Warn("bad chat message payload", "err", err)
		return
	}

	c.mu.Lock()
	// The sent echo and the broadcast can both arrive; keep one copy.
	for _, existing := range c.messages {
		if existing.ID == msg.ID {
			c.mu.Unlock()
			return
		}
	}
	c.messages = append(c.messages, msg)
	if len(c.messages) > maxTranscript {
		c.messages = c.messages[len(c.messages)-maxTranscript:]
	}
	c.mu.Unlock()

	if c.onMessage != nil {
		c.onMessage(msg)
	}
}

func (c *Chat) onDeleted(raw json.RawMessage) {
	var p struct {
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}

	c.mu.Lock()
	kept := c.messages[:0]
	for _, msg := range c.messages {
		if msg.ID != p.MessageID {
			kept = append(kept, msg)
		}
	}
	c.messages = kept
	c.mu.Unlock()
}

func (c *Chat) onErrorEvent(raw json.RawMessage) {
	var p struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &p)
	c.log.Warn("chat message rejected", "message", p.Message)
	if c.onError != nil {
		c.onError(p.Message)
	}
}
