package domain

import "time"

// MatchStatus is the server-announced lifecycle state of a challenge match.
type MatchStatus string

const (
	StatusWaiting    MatchStatus = "waiting"
	StatusInProgress MatchStatus = "in_progress"
	StatusCompleted  MatchStatus = "completed"
	StatusAbandoned  MatchStatus = "abandoned"
)

// Terminal reports whether no further play can happen in this status.
func (s MatchStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// QuestionType distinguishes the answer form a question expects.
type QuestionType string

const (
	QuestionQCM   QuestionType = "QCM"   // multiple choice
	QuestionVF    QuestionType = "VF"    // true/false
	QuestionLibre QuestionType = "Libre" // free text, matched against options[correct]
)

// Question is immutable once loaded into a match or solo run.
type Question struct {
	ID          int          `json:"id"`
	Type        QuestionType `json:"type"`
	Question    string       `json:"question"`
	Options     []string     `json:"options"`
	Correct     int          `json:"correct"`
	Explanation string       `json:"explanation,omitempty"`
}

// PlayerAnswer records one submitted answer. Time is the seconds that were
// left on the question clock at submission, which feeds the score bonus.
type PlayerAnswer struct {
	QuestionID int `json:"questionId"`
	Answer     int `json:"answer"`
	Time       int `json:"time"`
}

// Player is the per-participant view inside a match, mirrored from the server.
type Player struct {
	UserID         string         `json:"userId"`
	Username       string         `json:"username"`
	ProfilePicture string         `json:"profilePicture,omitempty"`
	Level          int            `json:"level"`
	Score          int            `json:"score"`
	CorrectAnswers int            `json:"correctAnswers"`
	Answers        []PlayerAnswer `json:"answers"`
}

// Match mirrors the server's view of a challenge. The client only ever reads
// it; authoritative state always comes from the server.
type Match struct {
	RoomID    string      `json:"roomId"`
	Theme     string      `json:"theme"`
	Status    MatchStatus `json:"status"`
	Players   []Player    `json:"players"`
	Questions []Question  `json:"questions"`
	Winner    string      `json:"winner,omitempty"`
}

// PlayerByID returns the player entry for userID, if present.
func (m Match) PlayerByID(userID string) (Player, bool) {
	for _, p := range m.Players {
		if p.UserID == userID {
			return p, true
		}
	}
	return Player{}, false
}

// HasPlayer reports whether userID participates in the match.
func (m Match) HasPlayer(userID string) bool {
	_, ok := m.PlayerByID(userID)
	return ok
}

// MatchResult is the authoritative final standing pushed on challengeFinished.
type MatchResult struct {
	RoomID  string   `json:"roomId"`
	Winner  string   `json:"winner,omitempty"`
	Players []Player `json:"players"`
}

// User is decoded from the bearer token client-side.
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Level          int    `json:"level,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// IsAdmin gates the admin content-management surface.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

// Theme is a named question pool selectable for solo or challenge quizzes.
type Theme struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"questionCount"`
}

// LeaderboardRow is one line of the global leaderboard.
type LeaderboardRow struct {
	Rank           int    `json:"rank"`
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	Level          int    `json:"level"`
	Score          int    `json:"score"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Profile is the full user profile as served by the profile endpoints.
type Profile struct {
	User
	Bio         string    `json:"bio,omitempty"`
	GamesPlayed int       `json:"gamesPlayed"`
	GamesWon    int       `json:"gamesWon"`
	TotalScore  int       `json:"totalScore"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Settings holds per-user preferences stored server-side.
type Settings struct {
	Notifications bool   `json:"notifications"`
	Language      string `json:"language,omitempty"`
}

// NewsItem is an announcement authored through the admin surface.
type NewsItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatMessage is one public chat entry.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MatchComment is a comment left on a finished match.
type MatchComment struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notification is a server push surfaced in the lobby.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChallengeInvite is an incoming 1v1 invitation from another online user.
type ChallengeInvite struct {
	RoomID       string `json:"roomId"`
	FromUserID   string `json:"fromUserId"`
	FromUsername string `json:"fromUsername"`
	Theme        string `json:"theme"`
	Questions    int    `json:"questionCount"`
}

// OnlineUser is one entry of the lobby presence list.
type OnlineUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Level    int    `json:"level"`
	InMatch  bool   `json:"inMatch"`
}

// LiveMatch summarizes a running match for the spectator list.
type LiveMatch struct {
	RoomID  string   `json:"roomId"`
	Theme   string   `json:"theme"`
	Players []string `json:"players"`
}

// Credentials is the login/register request body.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// AuthResponse is what the auth endpoints return on success.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
