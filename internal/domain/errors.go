package domain

import "errors"

var (
	// ErrMatchNotFound is returned when a room ID resolves to no match.
	ErrMatchNotFound = errors.New("match not found")
	// ErrMissingRoomID is returned when a room cannot be resolved from arguments or stored state.
	ErrMissingRoomID = errors.New("missing room id")
	// ErrAlreadyAnswered guards against double submission for the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrMatchOver indicates the match reached a terminal status.
	ErrMatchOver = errors.New("match is over")
	// ErrNotParticipant is returned when a spectator tries to play.
	ErrNotParticipant = errors.New("user is not a match participant")
	// ErrThemeNotFound indicates an unknown question theme.
	ErrThemeNotFound = errors.New("theme not found")
	// ErrUnauthorized maps a 401 response; the stored credentials are cleared.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTokenExpired is returned when the bearer token's exp claim has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is returned when the bearer token cannot be decoded.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrNotLoggedIn is returned when an operation needs stored credentials.
	ErrNotLoggedIn = errors.New("not logged in")
)
