package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"netwebquiz/internal/domain"
)

// TokenSource provides the bearer token for authenticated calls and is told
// to drop it when the server rejects it. *auth.Store satisfies this.
type TokenSource interface {
	Token() (string, error)
	Clear()
}

// Client is a thin wrapper over the NetWebQuiz REST surface: one method per
// endpoint, no business logic.
type Client struct {
	baseURL string
	http    *http.Client
	creds   TokenSource
	log     *slog.Logger
}

func NewClient(baseURL string, creds TokenSource, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		log:     log,
	}
}

// apiError is the server's error envelope.
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// StatusError carries the HTTP status of a failed call so wrappers can map
// well-known codes onto domain errors.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, method, path); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.creds == nil {
		return
	}
	token, err := c.creds.Token()
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// checkStatus converts non-2xx responses into errors. A 401 additionally
// clears the stored credentials, mirroring the response interceptor of the
// browser client.
func (c *Client) checkStatus(resp *http.Response, method, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.creds != nil {
			c.creds.Clear()
		}
		c.log.Warn("session rejected, credentials cleared", "path", path)
		return domain.ErrUnauthorized
	}

	var payload apiError
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = resp.Status
	}
	return &StatusError{Code: resp.StatusCode, Message: fmt.Sprintf("%s %s: %s", method, path, msg)}
}
