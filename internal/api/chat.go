package api

import (
	"context"
	"net/http"
	"net/url"

	"netwebquiz/internal/domain"
)

// ChatHistory backfills the public chat transcript before live events take over.
func (c *Client) ChatHistory(ctx context.Context) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := c.do(ctx, http.MethodGet, "/api/chat/messages", nil, &messages)
	return messages, err
}

// DeleteChatMessage removes a public chat message over REST; live clients are
// told through the publicMessageDeleted event.
func (c *Client) DeleteChatMessage(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/messages/"+url.PathEscape(id), nil, nil)
}
