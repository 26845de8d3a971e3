package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zypric/backend/internal/domain"
)

// fakeClassifier labels text through a callback and counts calls
type fakeClassifier struct {
	name     string
	classify func(ctx context.Context, text string) (domain.Classification, error)
	calls    atomic.Int32
}

func (f *fakeClassifier) Name() string { return f.name }

func (f *fakeClassifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	f.calls.Add(1)
	return f.classify(ctx, text)
}

// keywordSentiment is POSITIVE unless the text mentions "bad" or "broke"
func keywordSentiment() *fakeClassifier {
	return &fakeClassifier{
		name: "sentiment",
		classify: func(ctx context.Context, text string) (domain.Classification, error) {
			if strings.TrimSpace(text) == "" {
				return domain.Classification{}, domain.ErrEmptyText
			}
			lower := strings.ToLower(text)
			if strings.Contains(lower, "bad") || strings.Contains(lower, "broke") {
				return domain.Classification{Label: "NEGATIVE", Score: 0.9}, nil
			}
			return domain.Classification{Label: "POSITIVE", Score: 0.95}, nil
		},
	}
}

// keywordEmotion maps a few words to emotion labels, defaulting to neutral
func keywordEmotion() *fakeClassifier {
	return &fakeClassifier{
		name: "emotion",
		classify: func(ctx context.Context, text string) (domain.Classification, error) {
			if strings.TrimSpace(text) == "" {
				return domain.Classification{}, domain.ErrEmptyText
			}
			lower := strings.ToLower(text)
			switch {
			case strings.Contains(lower, "love"), strings.Contains(lower, "great"):
				return domain.Classification{Label: "joy", Score: 0.8}, nil
			case strings.Contains(lower, "broke"):
				return domain.Classification{Label: "anger", Score: 0.7}, nil
			default:
				return domain.Classification{Label: "neutral", Score: 0.6}, nil
			}
		},
	}
}

// failingOn returns a classifier that fails for texts containing marker
func failingOn(name, marker string, inner *fakeClassifier) *fakeClassifier {
	return &fakeClassifier{
		name: name,
		classify: func(ctx context.Context, text string) (domain.Classification, error) {
			if strings.Contains(text, marker) {
				return domain.Classification{}, errors.New("model unavailable")
			}
			return inner.classify(ctx, text)
		},
	}
}

// staticSource serves fixed products and counts loads
type staticSource struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	loads    int
}

func (s *staticSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func (s *staticSource) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// mapCache is an unbounded CacheRepository for tests
type mapCache struct {
	mu       sync.Mutex
	data     map[string]interface{}
	setError error
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]interface{})}
}

func (m *mapCache) Get(ctx context.Context, key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// fakeRenderer records the words it was asked to draw
type fakeRenderer struct {
	words []domain.WordWeight
	err   error
}

var blankPNG = []byte("blank")

func (r *fakeRenderer) Render(words []domain.WordWeight) ([]byte, error) {
	r.words = words
	if r.err != nil {
		return nil, r.err
	}
	return []byte("cloud"), nil
}

func (r *fakeRenderer) Blank() []byte { return blankPNG }

func widgetCatalog() []domain.Product {
	return []domain.Product{
		{Name: "Widget", AmazonPrice: 9.99, EbayPrice: 8.5, WalmartPrice: 10, Reviews: []string{"Great!", "Broke fast"}},
		{Name: "Gadget", AmazonPrice: 20, Reviews: []string{"ok"}},
		{Name: "Super widget", Reviews: []string{}},
		{Name: "", Reviews: []string{"orphan"}},
	}
}
