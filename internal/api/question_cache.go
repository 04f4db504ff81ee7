package api

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"netwebquiz/internal/domain"
)

// QuestionSource fetches question sets from the backing service.
type QuestionSource interface {
	Themes(ctx context.Context) ([]domain.Theme, error)
	RandomQuestions(ctx context.Context, theme string, count int) ([]domain.Question, error)
}

// QuestionCache caches theme lists and question sets with TTL to avoid
// hammering the service when quizzes are replayed back to back.
type QuestionCache struct {
	source QuestionSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu      sync.RWMutex
	sets    map[string]cachedSet
	themes  []domain.Theme
	themeAt time.Time
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(source QuestionSource, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sets:   make(map[string]cachedSet),
	}
}

// Themes returns the theme list, cached for one TTL.
func (c *QuestionCache) Themes(ctx context.Context) ([]domain.Theme, error) {
	now := c.clock()

	c.mu.RLock()
	if c.themes != nil && c.themeAt.After(now) {
		themes := c.themes
		c.mu.RUnlock()
		return themes, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("themes", func() (interface{}, error) {
		themes, err := c.source.Themes(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.themes = themes
		c.themeAt = c.clock().Add(c.ttlWithJitter())
		c.mu.Unlock()
		return themes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Theme), nil
}

// RandomQuestions returns a cached set for theme/count or fetches one,
// collapsing concurrent fetches of the same key.
func (c *QuestionCache) RandomQuestions(ctx context.Context, theme string, count int) ([]domain.Question, error) {
	key := theme + "/" + strconv.Itoa(count)
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.sets[key]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.sets[key]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.questions, nil
		}
		c.mu.RUnlock()

		questions, err := c.source.RandomQuestions(ctx, theme, count)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.sets[key] = cachedSet{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
