package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"netwebquiz/internal/domain"
)

// GetMatch fetches the server's current view of a challenge match.
func (c *Client) GetMatch(ctx context.Context, roomID string) (domain.Match, error) {
	if roomID == "" {
		return domain.Match{}, domain.ErrMissingRoomID
	}
	var match domain.Match
	err := c.do(ctx, http.MethodGet, "/api/matches/"+url.PathEscape(roomID), nil, &match)
	if err != nil {
		if isNotFound(err) {
			return domain.Match{}, domain.ErrMatchNotFound
		}
		return domain.Match{}, fmt.Errorf("fetch match %s: %w", roomID, err)
	}
	return match, nil
}

// MatchComments lists the comments left on a match.
func (c *Client) MatchComments(ctx context.Context, roomID string) ([]domain.MatchComment, error) {
	var comments []domain.MatchComment
	err := c.do(ctx, http.MethodGet, "/api/matches/"+url.PathEscape(roomID)+"/comments", nil, &comments)
	return comments, err
}

// AddMatchComment posts a comment on a finished match.
func (c *Client) AddMatchComment(ctx context.Context, roomID, content string) (domain.MatchComment, error) {
	var comment domain.MatchComment
	body := map[string]string{"content": content}
	err := c.do(ctx, http.MethodPost, "/api/matches/"+url.PathEscape(roomID)+"/comments", body, &comment)
	return comment, err
}

// DeleteMatchComment removes a comment the caller owns (or any, for admins).
func (c *Client) DeleteMatchComment(ctx context.Context, roomID, commentID string) error {
	path := "/api/matches/" + url.PathEscape(roomID) + "/comments/" + url.PathEscape(commentID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func isNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}
