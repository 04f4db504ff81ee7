package challenge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"netwebquiz/internal/domain"
	"netwebquiz/internal/socket"
)

// MatchFetcher loads match state over REST; *api.Client satisfies this.
type MatchFetcher interface {
	GetMatch(ctx context.Context, roomID string) (domain.Match, error)
}

// Snapshot is a consistent copy of the room state for rendering. The local
// score is a display-only prediction; Final, when set, is authoritative.
type Snapshot struct {
	RoomID        string
	Theme         string
	Status        domain.MatchStatus
	Questions     []domain.Question
	QuestionIndex int
	TimeLeft      int
	Answered      bool
	Score         int
	Correct       int
	OpponentScore int
	Opponent      string
	Spectator     bool
	Spectators    int
	Final         *domain.MatchResult
	Winner        string
}

// Room mirrors one two-player match: it replays server-pushed events into
// local state and sends the player's own actions back over the channel. All
// transitions come from the server or the question clock; the room never
// invents state the server did not announce.
type Room struct {
	api  MatchFetcher
	ch   socket.Channel
	self domain.User
	log  *slog.Logger
	tick time.Duration

	mu              sync.Mutex
	match           domain.Match
	status          domain.MatchStatus
	questionIndex   map[int]int // question ID -> position in the question list
	answers         []*domain.PlayerAnswer
	opponentID      string
	opponentName    string
	opponentAnswers []*domain.PlayerAnswer
	current         int
	timeLeft        int
	awaitingAdvance bool
	spectator       bool
	spectators      int
	final           *domain.MatchResult
	winner          string
	offs            []func()
	timerGen        int

	onUpdate func(Snapshot)
	leftOnce sync.Once
}

// Option configures a Room.
type Option func(*Room)

// WithTick overrides the one-second question clock, for tests.
func WithTick(d time.Duration) Option {
	return func(r *Room) { r.tick = d }
}

// WithUpdateFunc registers a callback invoked after every state change.
func WithUpdateFunc(fn func(Snapshot)) Option {
	return func(r *Room) { r.onUpdate = fn }
}

func NewRoom(api MatchFetcher, ch socket.Channel, self domain.User, log *slog.Logger, opts ...Option) *Room {
	if log == nil {
		log = slog.Default()
	}
	r := &Room{
		api:  api,
		ch:   ch,
		self: self,
		log:  log,
		tick: time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Join fetches the match and enters the state it announces. A terminal
// status renders results directly and registers no listeners; anything else
// wires the match events and, for in-progress matches, rebuilds the local
// answer grid from the server's answer log and starts the clock. A waiting
// room starts playing once the server pushes matchStarted.
func (r *Room) Join(ctx context.Context, roomID string) error {
	if roomID == "" {
		return domain.ErrMissingRoomID
	}
	match, err := r.api.GetMatch(ctx, roomID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.match = match
	r.status = match.Status
	r.winner = match.Winner
	r.questionIndex = make(map[int]int, len(match.Questions))
	for i, q := range match.Questions {
		r.questionIndex[q.ID] = i
	}
	r.answers = make([]*domain.PlayerAnswer, len(match.Questions))
	r.opponentAnswers = make([]*domain.PlayerAnswer, len(match.Questions))
	r.timeLeft = domain.QuestionSeconds

	for _, p := range match.Players {
		if p.UserID != r.self.ID {
			r.opponentID = p.UserID
			r.opponentName = p.Username
		}
	}
	r.spectator = !match.HasPlayer(r.self.ID)

	if match.Status.Terminal() {
		r.final = &domain.MatchResult{RoomID: match.RoomID, Winner: match.Winner, Players: match.Players}
		r.mu.Unlock()
		r.notify()
		return nil
	}

	if match.Status == domain.StatusInProgress {
		r.rebuildGridLocked(match)
	}

	r.offs = []func(){
		r.ch.On(socket.EventMatchStarted, r.onMatchStarted),
		r.ch.On(socket.EventPlayerAnswered, r.onPlayerAnswered),
		r.ch.On(socket.EventForceNextQuestion, r.onForceNextQuestion),
		r.ch.On(socket.EventChallengeFinished, r.onChallengeFinished),
		r.ch.On(socket.EventPlayerLeft, r.onPlayerLeft),
		r.ch.On(socket.EventMatchTimeout, r.onMatchTimeout),
	}
	if r.spectator {
		r.offs = append(r.offs, r.ch.On(socket.EventSpectatorCount, r.onSpectatorCount))
	}

	if match.Status == domain.StatusInProgress && !r.spectator {
		r.startTimerLocked()
	}
	spectator := r.spectator
	r.mu.Unlock()

	if spectator {
		_ = r.ch.Emit(socket.EmitJoinAsSpectator, map[string]string{"roomId": roomID})
	}
	r.notify()
	return nil
}

// rebuildGridLocked reconstructs local answers from the server's per-player
// log. Entries are matched through the question ID index, never by assuming
// IDs are contiguous or 1-based.
func (r *Room) rebuildGridLocked(match domain.Match) {
	player, ok := match.PlayerByID(r.self.ID)
	if ok {
		for _, a := range player.Answers {
			a := a
			if i, known := r.questionIndex[a.QuestionID]; known {
				r.answers[i] = &a
			} else {
				r.log.Warn("answer for unknown question dropped", "questionId", a.QuestionID)
			}
		}
	}
	if opp, ok := match.PlayerByID(r.opponentID); ok {
		for _, a := range opp.Answers {
			a := a
			if i, known := r.questionIndex[a.QuestionID]; known {
				r.opponentAnswers[i] = &a
			}
		}
	}
	for i, a := range r.answers {
		if a == nil {
			r.current = i
			return
		}
	}
	// Everything answered already: park past the last question with the
	// clock suspended until the server announces the result.
	r.current = len(r.answers)
	r.awaitingAdvance = true
}

// Answer records the player's choice for the current question and emits it.
// The guard is idempotent: a second submission for the same question is
// rejected and nothing is sent.
func (r *Room) Answer(option int) error {
	r.mu.Lock()
	if r.spectator {
		r.mu.Unlock()
		return domain.ErrNotParticipant
	}
	if r.status.Terminal() {
		r.mu.Unlock()
		return domain.ErrMatchOver
	}
	if r.status != domain.StatusInProgress || r.current >= len(r.match.Questions) {
		r.mu.Unlock()
		return domain.ErrMatchOver
	}
	if r.answers[r.current] != nil {
		r.mu.Unlock()
		return domain.ErrAlreadyAnswered
	}

	question := r.match.Questions[r.current]
	answer := &domain.PlayerAnswer{
		QuestionID: question.ID,
		Answer:     option,
		Time:       r.timeLeft,
	}
	r.answers[r.current] = answer
	// Suspend the clock until the next advance so the timer and a server
	// forceNextQuestion cannot both move the question forward.
	r.awaitingAdvance = true
	payload := map[string]any{
		"roomId":      r.match.RoomID,
		"questionId":  question.ID,
		"answerIndex": option,
		"timeLeft":    answer.Time,
	}
	r.mu.Unlock()

	// Fire and forget: no acknowledgment, no retry.
	if err := r.ch.Emit(socket.EmitAnswerQuestion, payload); err != nil {
		r.log.Warn("answer emit failed", "err", err)
	}
	r.notify()
	return nil
}

// Next moves past the current question after its result has been shown.
// Advancing past the last question finalizes the match locally and tells the
// server to reconcile.
func (r *Room) Next() {
	r.mu.Lock()
	if r.status != domain.StatusInProgress || r.spectator {
		r.mu.Unlock()
		return
	}
	roomID := r.match.RoomID
	last := r.current >= len(r.match.Questions)-1
	r.advanceLocked()
	r.mu.Unlock()

	if last {
		score, correct := r.predicted()
		_ = r.ch.Emit(socket.EmitFinishChallenge, map[string]any{
			"roomId":         roomID,
			"score":          score,
			"correctAnswers": correct,
		})
	} else {
		_ = r.ch.Emit(socket.EmitNextQuestion, map[string]string{"roomId": roomID})
	}
	r.notify()
}

// advanceLocked moves to the next question or ends the run. The caller holds
// the lock.
func (r *Room) advanceLocked() {
	r.awaitingAdvance = false
	if r.current >= len(r.match.Questions)-1 {
		r.current = len(r.match.Questions)
		r.status = domain.StatusCompleted
		r.stopTimerLocked()
		return
	}
	r.current++
	r.timeLeft = domain.QuestionSeconds
}

// Leave announces the abandon and tears the room down. Best effort: the emit
// is not confirmed.
func (r *Room) Leave() {
	r.leftOnce.Do(func() {
		r.mu.Lock()
		roomID := r.match.RoomID
		playing := r.status == domain.StatusInProgress && !r.spectator
		r.mu.Unlock()
		if playing {
			_ = r.ch.Emit(socket.EmitPlayerLeft, map[string]string{
				"roomId": roomID,
				"userId": r.self.ID,
			})
		}
	})
	r.Close()
}

// Close detaches every registered listener and stops the clock. Safe to call
// more than once.
func (r *Room) Close() {
	r.mu.Lock()
	offs := r.offs
	r.offs = nil
	r.stopTimerLocked()
	r.mu.Unlock()
	for _, off := range offs {
		off()
	}
}

// Snapshot returns a copy of the current room state.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() Snapshot {
	score, correct := domain.ScoreAnswers(r.match.Questions, r.answers)
	oppScore, _ := domain.ScoreAnswers(r.match.Questions, r.opponentAnswers)
	answered := r.current < len(r.answers) && r.answers[r.current] != nil

	snap := Snapshot{
		RoomID:        r.match.RoomID,
		Theme:         r.match.Theme,
		Status:        r.status,
		Questions:     r.match.Questions,
		QuestionIndex: r.current,
		TimeLeft:      r.timeLeft,
		Answered:      answered,
		Score:         score,
		Correct:       correct,
		OpponentScore: oppScore,
		Opponent:      r.opponentName,
		Spectator:     r.spectator,
		Spectators:    r.spectators,
		Final:         r.final,
		Winner:        r.winner,
	}
	if r.final != nil {
		// The server result is canonical; surface its scores instead of the
		// local prediction.
		for _, p := range r.final.Players {
			if p.UserID == r.self.ID {
				snap.Score = p.Score
				snap.Correct = p.CorrectAnswers
			} else if p.UserID == r.opponentID {
				snap.OpponentScore = p.Score
			}
		}
		snap.Winner = r.final.Winner
	}
	return snap
}

func (r *Room) predicted() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.ScoreAnswers(r.match.Questions, r.answers)
}

func (r *Room) notify() {
	if r.onUpdate == nil {
		return
	}
	r.onUpdate(r.Snapshot())
}

// startTimerLocked launches the question clock. A generation counter stops
// stale goroutines after restarts; the caller holds the lock.
func (r *Room) startTimerLocked() {
	r.timerGen++
	go r.runTimer(r.timerGen)
}

func (r *Room) stopTimerLocked() {
	r.timerGen++
}

func (r *Room) runTimer(gen int) {
	for {
		time.Sleep(r.tick)

		r.mu.Lock()
		if gen != r.timerGen || r.status != domain.StatusInProgress {
			r.mu.Unlock()
			return
		}
		if r.awaitingAdvance {
			// Clock is suspended while the answer result is on screen.
			r.mu.Unlock()
			continue
		}
		r.timeLeft--
		if r.timeLeft > 0 {
			r.mu.Unlock()
			r.notify()
			continue
		}

		// Out of time: the question stays unanswered and the run moves on.
		roomID := r.match.RoomID
		last := r.current >= len(r.match.Questions)-1
		r.advanceLocked()
		r.mu.Unlock()

		if last {
			score, correct := r.predicted()
			_ = r.ch.Emit(socket.EmitFinishChallenge, map[string]any{
				"roomId":         roomID,
				"score":          score,
				"correctAnswers": correct,
			})
			r.notify()
			return
		}
		_ = r.ch.Emit(socket.EmitNextQuestion, map[string]string{"roomId": roomID})
		r.notify()
	}
}
