package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netwebquiz/internal/domain"
)

type fakeCreds struct {
	token   string
	cleared bool
}

func (f *fakeCreds) Token() (string, error) {
	if f.token == "" {
		return "", domain.ErrNotLoggedIn
	}
	return f.token, nil
}

func (f *fakeCreds) Clear() { f.cleared = true }

func newTestClient(t *testing.T, handler http.Handler, creds TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, creds, 5*time.Second, nil), server
}

func TestGetMatchSendsBearerToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/api/matches/room-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.Match{
			RoomID: "room-1",
			Status: domain.StatusInProgress,
			Theme:  "OSI",
		})
	})
	client, _ := newTestClient(t, handler, &fakeCreds{token: "tok-123"})

	match, err := client.GetMatch(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, domain.StatusInProgress, match.Status)
}

func TestGetMatchNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"no such room"}`, http.StatusNotFound)
	})
	client, _ := newTestClient(t, handler, nil)

	_, err := client.GetMatch(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrMatchNotFound)
}

func TestGetMatchMissingRoomID(t *testing.T) {
	client := NewClient("http://unused", nil, time.Second, nil)
	_, err := client.GetMatch(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingRoomID)
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	creds := &fakeCreds{token: "stale"}
	client, _ := newTestClient(t, handler, creds)

	_, err := client.Profile(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.True(t, creds.cleared, "401 must clear stored credentials")
}

func TestRandomQuestionsCountContract(t *testing.T) {
	questions := []domain.Question{
		{ID: 1, Question: "Which layer is TCP?", Options: []string{"3", "4"}, Correct: 1},
		{ID: 2, Question: "Which layer is IP?", Options: []string{"3", "4"}, Correct: 0},
		{ID: 7, Question: "Which layer is HTTP?", Options: []string{"7", "4"}, Correct: 0},
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/questions/theme/OSI/json/3", r.URL.Path)
		_ = json.NewEncoder(w).Encode(questions)
	})
	client, _ := newTestClient(t, handler, nil)

	got, err := client.RandomQuestions(context.Background(), "OSI", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Server sending the wrong cardinality is a hard error, never a silent truncation.
	_, err = client.RandomQuestions(context.Background(), "OSI", 5)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var creds domain.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "alice", creds.Username)
		_ = json.NewEncoder(w).Encode(domain.AuthResponse{
			Token: "tok",
			User:  domain.User{ID: "u1", Username: "alice"},
		})
	})
	client, _ := newTestClient(t, handler, nil)

	resp, err := client.Login(context.Background(), domain.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
}

func TestMatchCommentsRoundTrip(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/matches/room-1/comments", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode([]domain.MatchComment{
				{ID: "c1", RoomID: "room-1", Username: "bob", Content: "close one"},
			})
		case http.MethodPost:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_ = json.NewEncoder(w).Encode(domain.MatchComment{ID: "c2", Content: body["content"]})
		}
	})
	client, _ := newTestClient(t, handler, nil)

	comments, err := client.MatchComments(context.Background(), "room-1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "bob", comments[0].Username)

	posted, err := client.AddMatchComment(context.Background(), "room-1", "gg")
	require.NoError(t, err)
	assert.Equal(t, "gg", posted.Content)
}

func TestUpdateSettings(t *testing.T) {
	var got domain.Settings
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/user/settings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})
	client, _ := newTestClient(t, handler, nil)

	err := client.UpdateSettings(context.Background(), domain.Settings{Notifications: true, Language: "fr"})
	require.NoError(t, err)
	assert.True(t, got.Notifications)
	assert.Equal(t, "fr", got.Language)
}

func TestServerErrorMessageSurfaced(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "username taken"})
	})
	client, _ := newTestClient(t, handler, nil)

	_, err := client.Register(context.Background(), domain.Credentials{Username: "alice", Password: "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username taken")
}
