package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"netwebquiz/internal/domain"
)

// Themes lists the selectable question pools.
func (c *Client) Themes(ctx context.Context) ([]domain.Theme, error) {
	var themes []domain.Theme
	if err := c.do(ctx, http.MethodGet, "/api/questions/themes", nil, &themes); err != nil {
		return nil, fmt.Errorf("fetch themes: %w", err)
	}
	return themes, nil
}

// ThemeQuestions fetches every question of one theme, in server order.
func (c *Client) ThemeQuestions(ctx context.Context, theme string) ([]domain.Question, error) {
	var questions []domain.Question
	err := c.do(ctx, http.MethodGet, "/api/questions/theme/"+url.PathEscape(theme), nil, &questions)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrThemeNotFound
		}
		return nil, fmt.Errorf("fetch theme %s: %w", theme, err)
	}
	return questions, nil
}

// RandomQuestions fetches a randomized set of exactly count questions from a
// theme, the endpoint the solo quiz runs on.
func (c *Client) RandomQuestions(ctx context.Context, theme string, count int) ([]domain.Question, error) {
	path := "/api/questions/theme/" + url.PathEscape(theme) + "/json/" + strconv.Itoa(count)
	var questions []domain.Question
	if err := c.do(ctx, http.MethodGet, path, nil, &questions); err != nil {
		if isNotFound(err) {
			return nil, domain.ErrThemeNotFound
		}
		return nil, fmt.Errorf("fetch %d questions from %s: %w", count, theme, err)
	}
	if len(questions) != count {
		return nil, fmt.Errorf("theme %s: requested %d questions, server sent %d", theme, count, len(questions))
	}
	return questions, nil
}

// CreateQuestion adds a question to a theme. Admin only.
func (c *Client) CreateQuestion(ctx context.Context, theme string, q domain.Question) (domain.Question, error) {
	var created domain.Question
	err := c.do(ctx, http.MethodPost, "/api/questions/theme/"+url.PathEscape(theme), q, &created)
	return created, err
}

// UpdateQuestion replaces an existing question. Admin only.
func (c *Client) UpdateQuestion(ctx context.Context, id int, q domain.Question) error {
	return c.do(ctx, http.MethodPut, "/api/questions/"+strconv.Itoa(id), q, nil)
}

// DeleteQuestion removes a question. Admin only.
func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/questions/"+strconv.Itoa(id), nil, nil)
}
