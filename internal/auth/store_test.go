package auth

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netwebquiz/internal/domain"
)

func storeToken(t *testing.T, exp time.Time) string {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":       "u1",
		"username": "alice",
		"exp":      exp.Unix(),
	})
	require.NoError(t, err)
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".sig"
}

func TestStoreSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := NewStoreWithClock(path, clock)
	user, err := store.Save(storeToken(t, now.Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	// A fresh store must pick the session up from disk.
	reloaded := NewStoreWithClock(path, clock)
	got, err := reloaded.User()
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	token, err := reloaded.Token()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestStoreExpiredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store := NewStoreWithClock(path, func() time.Time { return now })
	_, err := store.Save(storeToken(t, now.Add(time.Minute)))
	require.NoError(t, err)

	// Move past expiry: the token must no longer be served.
	now = now.Add(time.Hour)
	_, err = store.Token()
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	store := NewStore(path)
	_, err := store.Save(storeToken(t, time.Now().Add(time.Hour)))
	require.NoError(t, err)

	store.Clear()
	_, err = store.Token()
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStoreEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	_, err := store.User()
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}
