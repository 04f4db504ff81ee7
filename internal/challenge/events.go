package challenge

import (
	"context"
	"encoding/json"
	"time"

	"netwebquiz/internal/domain"
)

type playerAnsweredPayload struct {
	UserID      string `json:"userId"`
	QuestionID  int    `json:"questionId"`
	AnswerIndex int    `json:"answerIndex"`
	TimeLeft    int    `json:"timeLeft"`
}

// onPlayerAnswered mirrors an answer announced for either player. The local
// player's own echo is ignored; its answer was already recorded at submit.
func (r *Room) onPlayerAnswered(raw json.RawMessage) {
	var p playerAnsweredPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		r.log.Warn("bad playerAnswered payload", "err", err)
		return
	}

	r.mu.Lock()
	if p.UserID == r.self.ID {
		r.mu.Unlock()
		return
	}
	i, known := r.questionIndex[p.QuestionID]
	if !known {
		r.mu.Unlock()
		r.log.Warn("playerAnswered for unknown question", "questionId", p.QuestionID)
		return
	}
	r.opponentAnswers[i] = &domain.PlayerAnswer{
		QuestionID: p.QuestionID,
		Answer:     p.AnswerIndex,
		Time:       p.TimeLeft,
	}
	r.mu.Unlock()
	r.notify()
}

// onMatchStarted moves a waiting room into play. The question set may not
// have existed at join time, so the match is re-fetched before play starts.
func (r *Room) onMatchStarted(raw json.RawMessage) {
	var p struct {
		RoomID string `json:"roomId"`
	}
	_ = json.Unmarshal(raw, &p)

	r.mu.Lock()
	if r.status != domain.StatusWaiting || (p.RoomID != "" && p.RoomID != r.match.RoomID) {
		r.mu.Unlock()
		return
	}
	roomID := r.match.RoomID
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	match, err := r.api.GetMatch(ctx, roomID)
	if err != nil {
		r.log.Error("match start fetch failed", "roomId", roomID, "err", err)
		return
	}

	r.mu.Lock()
	if r.status != domain.StatusWaiting {
		r.mu.Unlock()
		return
	}
	r.match = match
	r.status = domain.StatusInProgress
	r.questionIndex = make(map[int]int, len(match.Questions))
	for i, q := range match.Questions {
		r.questionIndex[q.ID] = i
	}
	r.answers = make([]*domain.PlayerAnswer, len(match.Questions))
	r.opponentAnswers = make([]*domain.PlayerAnswer, len(match.Questions))
	for _, pl := range match.Players {
		if pl.UserID != r.self.ID {
			r.opponentID = pl.UserID
			r.opponentName = pl.Username
		}
	}
	r.spectator = !match.HasPlayer(r.self.ID)
	r.current = 0
	r.timeLeft = domain.QuestionSeconds
	if !r.spectator {
		r.startTimerLocked()
	}
	r.mu.Unlock()
	r.notify()
}

type forceNextPayload struct {
	QuestionIndex *int `json:"questionIndex"`
}

// onForceNextQuestion applies a server-driven advance. If the payload names a
// target index the room jumps forward to it; it never moves backwards, so a
// force arriving after a local advance is a no-op.
func (r *Room) onForceNextQuestion(raw json.RawMessage) {
	var p forceNextPayload
	_ = json.Unmarshal(raw, &p)

	r.mu.Lock()
	if r.status != domain.StatusInProgress {
		r.mu.Unlock()
		return
	}
	switch {
	case p.QuestionIndex != nil:
		for r.current < *p.QuestionIndex && r.status == domain.StatusInProgress {
			r.advanceLocked()
		}
	case r.awaitingAdvance:
		// The local answer already queued an advance; the server push is the
		// same transition, not a second one.
		r.advanceLocked()
	default:
		r.advanceLocked()
	}
	r.mu.Unlock()
	r.notify()
}

// onChallengeFinished installs the authoritative final result. An empty
// payload means the push beat the result computation; instead of the old
// full-page reload the room resynchronizes over REST.
func (r *Room) onChallengeFinished(raw json.RawMessage) {
	var result domain.MatchResult
	if len(raw) == 0 || json.Unmarshal(raw, &result) != nil || len(result.Players) == 0 {
		r.log.Warn("challengeFinished without result, resyncing")
		r.resync()
		return
	}

	r.mu.Lock()
	r.status = domain.StatusCompleted
	r.final = &result
	r.winner = result.Winner
	r.stopTimerLocked()
	r.mu.Unlock()
	r.notify()
}

// onPlayerLeft and onMatchTimeout both end the match as abandoned and stop
// the clock.
func (r *Room) onPlayerLeft(raw json.RawMessage) {
	var p struct {
		UserID string `json:"userId"`
	}
	_ = json.Unmarshal(raw, &p)

	r.mu.Lock()
	if p.UserID == r.self.ID || r.status.Terminal() {
		r.mu.Unlock()
		return
	}
	r.status = domain.StatusAbandoned
	// The participant who stayed wins, whether we are that player or a
	// spectator watching.
	for _, pl := range r.match.Players {
		if pl.UserID != p.UserID {
			r.winner = pl.UserID
			break
		}
	}
	r.stopTimerLocked()
	r.mu.Unlock()
	r.notify()
}

func (r *Room) onMatchTimeout(json.RawMessage) {
	r.mu.Lock()
	if r.status.Terminal() {
		r.mu.Unlock()
		return
	}
	r.status = domain.StatusAbandoned
	r.stopTimerLocked()
	r.mu.Unlock()
	r.notify()
}

func (r *Room) onSpectatorCount(raw json.RawMessage) {
	var p struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	r.mu.Lock()
	r.spectators = p.Count
	r.mu.Unlock()
	r.notify()
}

// resync re-fetches the match and, if the server says it is over, installs
// the fetched result as final.
func (r *Room) resync() {
	r.mu.Lock()
	roomID := r.match.RoomID
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	match, err := r.api.GetMatch(ctx, roomID)
	if err != nil {
		r.log.Error("resync failed", "roomId", roomID, "err", err)
		return
	}

	r.mu.Lock()
	if match.Status.Terminal() {
		r.status = match.Status
		r.winner = match.Winner
		r.final = &domain.MatchResult{RoomID: match.RoomID, Winner: match.Winner, Players: match.Players}
		r.stopTimerLocked()
	}
	r.mu.Unlock()
	r.notify()
}
