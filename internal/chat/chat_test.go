package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"netwebquiz/internal/domain"
	"netwebquiz/internal/socket"
)

type fakeChannel struct {
	mu       sync.Mutex
	emitted  []string
	handlers map[string]map[int]socket.Handler
	nextID   int
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{handlers: make(map[string]map[int]socket.Handler)}
}

func (f *fakeChannel) Emit(event string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emitted = append(f.emitted, event)
	return nil
}

func (f *fakeChannel) On(event string, fn socket.Handler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := f.nextID
	if f.handlers[event] == nil {
		f.handlers[event] = make(map[int]socket.Handler)
	}
	f.handlers[event][id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers[event], id)
	}
}

func (f *fakeChannel) push(t *testing.T, event string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	f.mu.Lock()
	fns := make([]socket.Handler, 0, len(f.handlers[event]))
	for _, fn := range f.handlers[event] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(raw)
	}
}

type fakeHistory struct {
	messages []domain.ChatMessage
}

func (f *fakeHistory) ChatHistory(context.Context) ([]domain.ChatMessage, error) {
	return f.messages, nil
}

func join(t *testing.T, ch *fakeChannel, history []domain.ChatMessage, opts ...Option) *Chat {
	t.Helper()
	c, err := Join(context.Background(), ch, &fakeHistory{messages: history}, domain.User{ID: "u1", Username: "alice"}, nil, opts...)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestJoinBackfillsHistory(t *testing.T) {
	ch := newFakeChannel()
	history := []domain.ChatMessage{
		{ID: "m1", Username: "bob", Content: "hello", CreatedAt: time.Now().Add(-time.Minute)},
		{ID: "m2", Username: "carol", Content: "hi", CreatedAt: time.Now()},
	}
	c := join(t, ch, history)

	got := c.Messages()
	if len(got) != 2 || got[0].ID != "m1" {
		t.Fatalf("unexpected transcript %+v", got)
	}
	if len(ch.emitted) == 0 || ch.emitted[0] != socket.EmitJoinPublicChat {
		t.Fatal("expected joinPublicChat emit")
	}
}

func TestLiveMessagesAppendInOrder(t *testing.T) {
	ch := newFakeChannel()
	c := join(t, ch, nil)

	ch.push(t, socket.EventPublicMessageReceive, domain.ChatMessage{ID: "m1", Content: "first"})
	ch.push(t, socket.EventPublicMessageReceive, domain.ChatMessage{ID: "m2", Content: "second"})

	got := c.Messages()
	if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m2" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestSentEchoNotDuplicated(t *testing.T) {
	ch := newFakeChannel()
	c := join(t, ch, nil)

	msg := domain.ChatMessage{ID: "m1", UserID: "u1", Content: "mine"}
	ch.push(t, socket.EventPublicMessageSent, msg)
	ch.push(t, socket.EventPublicMessageReceive, msg)

	if got := c.Messages(); len(got) != 1 {
		t.Fatalf("duplicate message in transcript: %+v", got)
	}
}

func TestDeletedMessageRemoved(t *testing.T) {
	ch := newFakeChannel()
	c := join(t, ch, []domain.ChatMessage{{ID: "m1"}, {ID: "m2"}})

	ch.push(t, socket.EventPublicMessageDeleted, map[string]string{"messageId": "m1"})

	got := c.Messages()
	if len(got) != 1 || got[0].ID != "m2" {
		t.Fatalf("unexpected transcript after delete %+v", got)
	}
}

func TestTranscriptBounded(t *testing.T) {
	ch := newFakeChannel()
	c := join(t, ch, nil)

	for i := 0; i < maxTranscript+25; i++ {
		ch.push(t, socket.EventPublicMessageReceive, domain.ChatMessage{ID: fmt.Sprintf("m%d", i)})
	}

	got := c.Messages()
	if len(got) != maxTranscript {
		t.Fatalf("transcript = %d messages, want %d", len(got), maxTranscript)
	}
	if got[len(got)-1].ID != fmt.Sprintf("m%d", maxTranscript+24) {
		t.Fatalf("newest message missing, tail is %s", got[len(got)-1].ID)
	}
}

func TestErrorHook(t *testing.T) {
	ch := newFakeChannel()
	var rejected string
	join(t, ch, nil, WithErrorFunc(func(msg string) { rejected = msg }))

	ch.push(t, socket.EventPublicMessageError, map[string]string{"message": "rate limited"})
	if rejected != "rate limited" {
		t.Fatalf("rejected = %q", rejected)
	}
}
