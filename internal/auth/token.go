package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"netwebquiz/internal/domain"
)

// claims is the subset of the bearer token payload the client cares about.
// The signature is never verified here: the token only gates client-side
// rendering, the server re-checks it on every call.
type claims struct {
	Sub            string `json:"sub"`
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Level          int    `json:"level"`
	ProfilePicture string `json:"profilePicture"`
	Exp            int64  `json:"exp"`
}

// DecodeToken extracts the user from a JWT-shaped bearer token and validates
// only the exp claim against now.
func DecodeToken(token string, now time.Time) (domain.User, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.User{}, domain.ErrTokenMalformed
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return domain.User{}, domain.ErrTokenMalformed
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return domain.User{}, domain.ErrTokenMalformed
	}
	if c.Exp != 0 && !now.Before(time.Unix(c.Exp, 0)) {
		return domain.User{}, domain.ErrTokenExpired
	}

	id := c.ID
	if id == "" {
		id = c.Sub
	}
	return domain.User{
		ID:             id,
		Username:       c.Username,
		Email:          c.Email,
		Role:           c.Role,
		Level:          c.Level,
		ProfilePicture: c.ProfilePicture,
	}, nil
}
