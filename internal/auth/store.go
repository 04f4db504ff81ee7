package auth

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"netwebquiz/internal/domain"
)

// credentials is the on-disk shape: the bearer token plus the user decoded
// from it, the same pair the browser client kept in local storage.
type credentials struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Store persists the session across CLI invocations. It is owned by the
// application root and handed to collaborators; nothing imports a package
// level instance.
type Store struct {
	path string
	now  func() time.Time

	mu    sync.RWMutex
	creds *credentials
}

func NewStore(path string) *Store {
	return NewStoreWithClock(path, time.Now)
}

// NewStoreWithClock allows deterministic expiry checks in tests.
func NewStoreWithClock(path string, now func() time.Time) *Store {
	s := &Store{path: path, now: now}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var c credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return
	}
	s.creds = &c
}

// Save records a fresh token, decoding the user from it, and persists both.
func (s *Store) Save(token string) (domain.User, error) {
	user, err := DecodeToken(token, s.now())
	if err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = &credentials{Token: token, User: user}
	data, err := json.Marshal(s.creds)
	if err != nil {
		return domain.User{}, err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Token returns the stored bearer token after re-checking its expiry.
func (s *Store) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return "", domain.ErrNotLoggedIn
	}
	if _, err := DecodeToken(s.creds.Token, s.now()); err != nil {
		return "", err
	}
	return s.creds.Token, nil
}

// User returns the decoded user for the current session.
func (s *Store) User() (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return domain.User{}, domain.ErrNotLoggedIn
	}
	return DecodeToken(s.creds.Token, s.now())
}

// Clear drops the session, both in memory and on disk. Called on logout and
// by the 401 response hook.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	_ = os.Remove(s.path)
}
