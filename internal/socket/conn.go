package socket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Handler consumes one event payload. Handlers run sequentially on the read
// pump goroutine, preserving server delivery order.
type Handler func(payload json.RawMessage)

// Channel is the slice of Conn that feature packages depend on, so tests can
// wire in fakes.
type Channel interface {
	Emit(event string, payload any) error
	On(event string, fn Handler) (off func())
}

// envelope is the wire shape of every message in both directions.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrClosed is returned by Emit after the connection is torn down.
var ErrClosed = errors.New("socket connection closed")

// Conn is the single long-lived event channel shared by all features. It is
// owned by the application root and injected; nothing holds it as package
// level state.
type Conn struct {
	ws  *websocket.Conn
	log *slog.Logger

	send       chan envelope
	done       chan struct{}
	writerDone chan struct{}
	closeOnce  sync.Once

	mu       sync.RWMutex
	handlers map[string]map[uint64]Handler
	nextID   uint64
}

// Dial opens the channel, authenticating with the bearer token.
func Dial(ctx context.Context, socketURL, token string, log *slog.Logger) (*Conn, error) {
	if log == nil {
		log = slog.Default()
	}
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, socketURL, header)
	if err != nil {
		return nil, fmt.Errorf("dial socket %s: %w", socketURL, err)
	}

	c := &Conn{
		ws:         ws,
		log:        log,
		send:       make(chan envelope, 16),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
		handlers:   make(map[string]map[uint64]Handler),
	}
	go c.writePump()
	go c.readPump()
	return c, nil
}

// Emit sends an event, fire and forget: no acknowledgment is awaited and
// nothing is retried on failure.
func (c *Conn) Emit(event string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", event, err)
		}
		raw = data
	}
	select {
	case c.send <- envelope{Event: event, Payload: raw}:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// On registers a handler for an event and returns its deregistration func.
// The returned func is idempotent and removes exactly this handler.
func (c *Conn) On(event string, fn Handler) (off func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	if c.handlers[event] == nil {
		c.handlers[event] = make(map[uint64]Handler)
	}
	c.handlers[event][id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if set, ok := c.handlers[event]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(c.handlers, event)
			}
		}
	}
}

// HandlerCount reports how many handlers are registered for an event.
func (c *Conn) HandlerCount(event string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers[event])
}

// Done is closed once the connection is gone, however that happened.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close tears down both pumps and the underlying connection. The close frame
// is only written once the writer goroutine has exited: the connection allows
// a single concurrent writer.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		<-c.writerDone
		_ = c.ws.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = c.ws.Close()

		c.mu.Lock()
		c.handlers = make(map[string]map[uint64]Handler)
		c.mu.Unlock()
	})
}

func (c *Conn) writePump() {
	defer close(c.writerDone)
	for {
		select {
		case msg := <-c.send:
			if err := c.ws.WriteJSON(msg); err != nil {
				c.log.Warn("socket write failed", "event", msg.Event, "err", err)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conn) readPump() {
	defer c.Close()
	for {
		var inbound envelope
		if err := c.ws.ReadJSON(&inbound); err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn("socket read failed", "err", err)
			}
			return
		}
		c.dispatch(inbound)
	}
}

func (c *Conn) dispatch(inbound envelope) {
	c.mu.RLock()
	set := c.handlers[inbound.Event]
	fns := make([]Handler, 0, len(set))
	for _, fn := range set {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	if len(fns) == 0 {
		c.log.Debug("unhandled event", "event", inbound.Event)
		return
	}
	for _, fn := range fns {
		fn(inbound.Payload)
	}
}
