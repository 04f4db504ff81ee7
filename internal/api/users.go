package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"netwebquiz/internal/domain"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &resp); err != nil {
		return domain.AuthResponse{}, fmt.Errorf("login: %w", err)
	}
	return resp, nil
}

// Register creates an account and returns a fresh session.
func (c *Client) Register(ctx context.Context, creds domain.Credentials) (domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", creds, &resp); err != nil {
		return domain.AuthResponse{}, fmt.Errorf("register: %w", err)
	}
	return resp, nil
}

// Profile fetches the authenticated user's own profile.
func (c *Client) Profile(ctx context.Context) (domain.Profile, error) {
	var profile domain.Profile
	err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, &profile)
	return profile, err
}

// UpdateProfile saves profile edits.
func (c *Client) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	return c.do(ctx, http.MethodPut, "/api/user/profile", profile, nil)
}

// Settings fetches the authenticated user's preferences.
func (c *Client) Settings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	err := c.do(ctx, http.MethodGet, "/api/user/settings", nil, &settings)
	return settings, err
}

// UpdateSettings saves preference edits.
func (c *Client) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	return c.do(ctx, http.MethodPut, "/api/user/settings", settings, nil)
}

// PublicProfile fetches another user's public profile.
func (c *Client) PublicProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var profile domain.Profile
	err := c.do(ctx, http.MethodGet, "/api/profil/public/"+url.PathEscape(userID), nil, &profile)
	return profile, err
}

// Leaderboard fetches the global ranking.
func (c *Client) Leaderboard(ctx context.Context) ([]domain.LeaderboardRow, error) {
	var rows []domain.LeaderboardRow
	if err := c.do(ctx, http.MethodGet, "/api/profil/leaderboard", nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	return rows, nil
}

// UploadProfileImage sends a new profile picture as multipart form data.
func (c *Client) UploadProfileImage(ctx context.Context, filename string, image io.Reader) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, image); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/profil/image", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload profile image: %w", err)
	}
	defer resp.Body.Close()
	return c.checkStatus(resp, http.MethodPost, "/api/profil/image")
}
