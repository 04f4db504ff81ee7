package api

import (
	"context"
	"testing"
	"time"

	"netwebquiz/internal/domain"
)

type countingSource struct {
	themeCalls int
	setCalls   int
}

func (s *countingSource) Themes(ctx context.Context) ([]domain.Theme, error) {
	s.themeCalls++
	return []domain.Theme{{Name: "OSI", QuestionCount: 40}}, nil
}

func (s *countingSource) RandomQuestions(ctx context.Context, theme string, count int) ([]domain.Question, error) {
	s.setCalls++
	questions := make([]domain.Question, count)
	for i := range questions {
		questions[i] = domain.Question{ID: i + 1, Question: theme, Correct: 0}
	}
	return questions, nil
}

func TestQuestionCacheCaches(t *testing.T) {
	source := &countingSource{}
	cache := NewQuestionCache(source, time.Minute)

	if _, err := cache.RandomQuestions(context.Background(), "OSI", 3); err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if source.setCalls != 1 {
		t.Fatalf("expected source once, got %d", source.setCalls)
	}

	if _, err := cache.RandomQuestions(context.Background(), "OSI", 3); err != nil {
		t.Fatalf("get questions 2: %v", err)
	}
	if source.setCalls != 1 {
		t.Fatalf("expected cache hit, source calls %d", source.setCalls)
	}

	// A different count is a different set.
	if _, err := cache.RandomQuestions(context.Background(), "OSI", 5); err != nil {
		t.Fatalf("get questions 3: %v", err)
	}
	if source.setCalls != 2 {
		t.Fatalf("expected second fetch for new count, got %d", source.setCalls)
	}
}

func TestQuestionCacheExpiry(t *testing.T) {
	source := &countingSource{}
	cache := NewQuestionCache(source, time.Minute)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.clock = func() time.Time { return now }

	if _, err := cache.RandomQuestions(context.Background(), "OSI", 3); err != nil {
		t.Fatalf("get questions: %v", err)
	}

	// Past TTL plus maximum jitter the entry must be refetched.
	now = now.Add(2 * time.Minute)
	if _, err := cache.RandomQuestions(context.Background(), "OSI", 3); err != nil {
		t.Fatalf("get questions after expiry: %v", err)
	}
	if source.setCalls != 2 {
		t.Fatalf("expected refetch after expiry, got %d calls", source.setCalls)
	}
}

func TestQuestionCacheThemes(t *testing.T) {
	source := &countingSource{}
	cache := NewQuestionCache(source, time.Minute)

	for i := 0; i < 3; i++ {
		themes, err := cache.Themes(context.Background())
		if err != nil {
			t.Fatalf("themes: %v", err)
		}
		if len(themes) != 1 || themes[0].Name != "OSI" {
			t.Fatalf("unexpected themes %+v", themes)
		}
	}
	if source.themeCalls != 1 {
		t.Fatalf("expected one theme fetch, got %d", source.themeCalls)
	}
}
