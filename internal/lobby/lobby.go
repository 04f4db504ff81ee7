package lobby

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"netwebquiz/internal/domain"
	"netwebquiz/internal/socket"
)

// Hooks are optional callbacks fired on server pushes, used by the CLI to
// render live updates. Nil hooks are skipped.
type Hooks struct {
	OnInvite       func(domain.ChallengeInvite)
	OnMatchStarted func(roomID string)
	OnDeclined     func(roomID string)
	OnMatchError   func(message string)
	OnNotification func(domain.Notification)
}

// Lobby mirrors the presence surface: who is online, which matches run live,
// and incoming challenge invitations.
type Lobby struct {
	ch    socket.Channel
	log   *slog.Logger
	hooks Hooks

	mu            sync.RWMutex
	online        []domain.OnlineUser
	matches       []domain.LiveMatch
	invites       []domain.ChallengeInvite
	notifications []domain.Notification
	offs          []func()
}

// Open wires the lobby to the channel and requests the initial lists.
func Open(ch socket.Channel, log *slog.Logger, hooks Hooks) *Lobby {
	if log == nil {
		log = slog.Default()
	}
	l := &Lobby{ch: ch, log: log, hooks: hooks}
	l.offs = []func(){
		ch.On(socket.EventOnlineUsersList, l.onOnlineUsers),
		ch.On(socket.EventLiveMatchesList, l.onLiveMatches),
		ch.On(socket.EventReceiveChallenge, l.onReceiveChallenge),
		ch.On(socket.EventMatchStarted, l.onMatchStarted),
		ch.On(socket.EventChallengeDeclined, l.onChallengeDeclined),
		ch.On(socket.EventMatchError, l.onMatchError),
		ch.On(socket.EventNewNotification, l.onNotification),
	}
	l.Refresh()
	return l
}

// Refresh re-requests both lobby lists.
func (l *Lobby) Refresh() {
	_ = l.ch.Emit(socket.EmitGetOnlineUsers, nil)
	_ = l.ch.Emit(socket.EmitGetLiveMatches, nil)
}

// SendChallenge invites another user to a 1v1 match. The challenge ID is
// client-generated so a decline can be correlated before the server assigns
// a room.
func (l *Lobby) SendChallenge(toUserID, theme string, questionCount int) string {
	challengeID := uuid.NewString()
	_ = l.ch.Emit(socket.EmitSendChallenge, map[string]any{
		"challengeId":   challengeID,
		"toUserId":      toUserID,
		"theme":         theme,
		"questionCount": questionCount,
	})
	return challengeID
}

// Accept takes an invitation; the server answers with matchStarted.
func (l *Lobby) Accept(invite domain.ChallengeInvite) {
	_ = l.ch.Emit(socket.EmitAcceptChallenge, map[string]string{"roomId": invite.RoomID})
	l.dropInvite(invite.RoomID)
}

// Decline refuses an invitation.
func (l *Lobby) Decline(invite domain.ChallengeInvite) {
	_ = l.ch.Emit(socket.EmitDeclineChallenge, map[string]string{"roomId": invite.RoomID})
	l.dropInvite(invite.RoomID)
}

// Online returns the latest presence list.
func (l *Lobby) Online() []domain.OnlineUser {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.OnlineUser(nil), l.online...)
}

// Matches returns the latest live match list.
func (l *Lobby) Matches() []domain.LiveMatch {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.LiveMatch(nil), l.matches...)
}

// Invites returns the pending challenge invitations.
func (l *Lobby) Invites() []domain.ChallengeInvite {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.ChallengeInvite(nil), l.invites...)
}

// Notifications returns the notifications received this session.
func (l *Lobby) Notifications() []domain.Notification {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Notification(nil), l.notifications...)
}

// Close detaches all lobby listeners.
func (l *Lobby) Close() {
	l.mu.Lock()
	offs := l.offs
	l.offs = nil
	l.mu.Unlock()
	for _, off := range offs {
		off()
	}
}

func (l *Lobby) onOnlineUsers(raw json.RawMessage) {
	var users []domain.OnlineUser
	if err := json.Unmarshal(raw, &users); err != nil {
		l.log.Warn("bad onlineUsersList payload", "err", err)
		return
	}
	l.mu.Lock()
	l.online = users
	l.mu.Unlock()
}

func (l *Lobby) onLiveMatches(raw json.RawMessage) {
	var matches []domain.LiveMatch
	if err := json.Unmarshal(raw, &matches); err != nil {
		l.log.Warn("bad liveMatchesList payload", "err", err)
		return
	}
	l.mu.Lock()
	l.matches = matches
	l.mu.Unlock()
}

func (l *Lobby) onReceiveChallenge(raw json.RawMessage) {
	var invite domain.ChallengeInvite
	if err := json.Unmarshal(raw, &invite); err != nil {
		l.log.Warn("bad receiveChallenge payload", "err", err)
		return
	}
	l.mu.Lock()
	l.invites = append(l.invites, invite)
	l.mu.Unlock()
	if l.hooks.OnInvite != nil {
		l.hooks.OnInvite(invite)
	}
}

func (l *Lobby) onMatchStarted(raw json.RawMessage) {
	var p struct {
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	if l.hooks.OnMatchStarted != nil {
		l.hooks.OnMatchStarted(p.RoomID)
	}
}

func (l *Lobby) onChallengeDeclined(raw json.RawMessage) {
	var p struct {
		RoomID string `json:"roomId"`
	}
	_ = json.Unmarshal(raw, &p)
	if l.hooks.OnDeclined != nil {
		l.hooks.OnDeclined(p.RoomID)
	}
}

func (l *Lobby) onMatchError(raw json.RawMessage) {
	var p struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &p)
	l.log.Warn("match error", "message", p.Message)
	if l.hooks.OnMatchError != nil {
		l.hooks.OnMatchError(p.Message)
	}
}

func (l *Lobby) onNotification(raw json.RawMessage) {
	var n domain.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return
	}
	l.mu.Lock()
	l.notifications = append(l.notifications, n)
	l.mu.Unlock()
	if l.hooks.OnNotification != nil {
		l.hooks.OnNotification(n)
	}
}

func (l *Lobby) dropInvite(roomID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.invites[:0]
	for _, inv := range l.invites {
		if inv.RoomID != roomID {
			kept = append(kept, inv)
		}
	}
	l.invites = kept
}
