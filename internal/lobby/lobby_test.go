package lobby

import (
	"encoding/json"
	"sync"
	"testing"

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

func (f *fakeChannel) emitCount(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.emitted {
		if e == event {
			n++
		}
	}
	return n
}

func TestOpenRequestsLists(t *testing.T) {
	ch := newFakeChannel()
	l := Open(ch, nil, Hooks{})
	defer l.Close()

	if ch.emitCount(socket.EmitGetOnlineUsers) != 1 {
		t.Fatal("expected getOnlineUsers on open")
	}
	if ch.emitCount(socket.EmitGetLiveMatches) != 1 {
		t.Fatal("expected getLiveMatches on open")
	}
}

func TestListsMirrorServerPushes(t *testing.T) {
	ch := newFakeChannel()
	l := Open(ch, nil, Hooks{})
	defer l.Close()

	ch.push(t, socket.EventOnlineUsersList, []domain.OnlineUser{
		{UserID: "u1", Username: "alice"},
		{UserID: "u2", Username: "bob", InMatch: true},
	})
	ch.push(t, socket.EventLiveMatchesList, []domain.LiveMatch{
		{RoomID: "r1", Theme: "OSI", Players: []string{"alice", "bob"}},
	})

	if got := len(l.Online()); got != 2 {
		t.Fatalf("online = %d, want 2", got)
	}
	if got := l.Matches(); len(got) != 1 || got[0].RoomID != "r1" {
		t.Fatalf("unexpected matches %+v", got)
	}
}

func TestInviteFlow(t *testing.T) {
	ch := newFakeChannel()
	var hooked domain.ChallengeInvite
	l := Open(ch, nil, Hooks{OnInvite: func(inv domain.ChallengeInvite) { hooked = inv }})
	defer l.Close()

	invite := domain.ChallengeInvite{RoomID: "r9", FromUserID: "u2", FromUsername: "bob", Theme: "OSI", Questions: 3}
	ch.push(t, socket.EventReceiveChallenge, invite)

	if hooked.RoomID != "r9" {
		t.Fatalf("hook saw %+v", hooked)
	}
	if got := l.Invites(); len(got) != 1 || got[0].FromUsername != "bob" {
		t.Fatalf("unexpected invites %+v", got)
	}

	l.Accept(invite)
	if ch.emitCount(socket.EmitAcceptChallenge) != 1 {
		t.Fatal("expected acceptChallenge emit")
	}
	if got := l.Invites(); len(got) != 0 {
		t.Fatalf("invite not consumed: %+v", got)
	}
}

func TestDeclineRemovesInvite(t *testing.T) {
	ch := newFakeChannel()
	l := Open(ch, nil, Hooks{})
	defer l.Close()

	invite := domain.ChallengeInvite{RoomID: "r9", FromUserID: "u2"}
	ch.push(t, socket.EventReceiveChallenge, invite)
	l.Decline(invite)

	if ch.emitCount(socket.EmitDeclineChallenge) != 1 {
		t.Fatal("expected declineChallenge emit")
	}
	if got := l.Invites(); len(got) != 0 {
		t.Fatalf("invite not dropped: %+v", got)
	}
}

func TestSendChallengeReturnsCorrelationID(t *testing.T) {
	ch := newFakeChannel()
	l := Open(ch, nil, Hooks{})
	defer l.Close()

	id := l.SendChallenge("u2", "OSI", 3)
	if id == "" {
		t.Fatal("expected a challenge id")
	}
	if ch.emitCount(socket.EmitSendChallenge) != 1 {
		t.Fatal("expected sendChallenge emit")
	}
}

func TestMatchStartedHook(t *testing.T) {
	ch := newFakeChannel()
	var started string
	l := Open(ch, nil, Hooks{OnMatchStarted: func(roomID string) { started = roomID }})
	defer l.Close()

	ch.push(t, socket.EventMatchStarted, map[string]string{"roomId": "r42"})
	if started != "r42" {
		t.Fatalf("started = %q, want r42", started)
	}
}

func TestNotificationsAccumulate(t *testing.T) {
	ch := newFakeChannel()
	l := Open(ch, nil, Hooks{})
	defer l.Close()

	ch.push(t, socket.EventNewNotification, domain.Notification{ID: "n1", Message: "bob challenged you"})
	ch.push(t, socket.EventNewNotification, domain.Notification{ID: "n2", Message: "match result ready"})

	if got := l.Notifications(); len(got) != 2 || got[1].ID != "n2" {
		t.Fatalf("unexpected notifications %+v", got)
	}
}

func TestCloseDetachesHandlers(t *testing.T) {
	ch := newFakeChannel()
	l := Open(ch, nil, Hooks{})
	l.Close()

	ch.push(t, socket.EventOnlineUsersList, []domain.OnlineUser{{UserID: "u1"}})
	if got := len(l.Online()); got != 0 {
		t.Fatalf("closed lobby still mirrors pushes: %d", got)
	}
}
