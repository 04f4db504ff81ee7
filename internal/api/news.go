package api

import (
	"context"
	"net/http"
	"net/url"

	"netwebquiz/internal/domain"
)

// News lists announcements, newest first.
func (c *Client) News(ctx context.Context) ([]domain.NewsItem, error) {
	var items []domain.NewsItem
	err := c.do(ctx, http.MethodGet, "/api/news", nil, &items)
	return items, err
}

// CreateNews publishes an announcement. Admin only.
func (c *Client) CreateNews(ctx context.Context, item domain.NewsItem) (domain.NewsItem, error) {
	var created domain.NewsItem
	err := c.do(ctx, http.MethodPost, "/api/news", item, &created)
	return created, err
}

// UpdateNews edits an announcement. Admin only.
func (c *Client) UpdateNews(ctx context.Context, item domain.NewsItem) error {
	return c.do(ctx, http.MethodPut, "/api/news/"+url.PathEscape(item.ID), item, nil)
}

// DeleteNews removes an announcement. Admin only.
func (c *Client) DeleteNews(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/news/"+url.PathEscape(id), nil, nil)
}
