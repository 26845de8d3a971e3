package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/zypric/backend/internal/domain"
)

// AnalysisContext holds the initialized classifiers shared by every analysis.
// It is built once at startup; both classifiers must be safe for concurrent use.
type AnalysisContext struct {
	Sentiment domain.TextClassifier
	Emotion   domain.TextClassifier
}

// GuardedClassifier bounds every call with a timeout and retries failed calls
type GuardedClassifier struct {
	inner   domain.TextClassifier
	timeout time.Duration
	retries int
}

// NewGuardedClassifier wraps inner. retries is the number of extra attempts after the first.
func NewGuardedClassifier(inner domain.TextClassifier, timeout time.Duration, retries int) *GuardedClassifier {
	if retries < 0 {
		retries = 0
	}
	return &GuardedClassifier{inner: inner, timeout: timeout, retries: retries}
}

// Name returns the wrapped classifier's name
func (g *GuardedClassifier) Name() string {
	return g.inner.Name()
}

// Classify calls the wrapped classifier. A call that outlives the timeout is
// abandoned even if the wrapped classifier ignores its context.
func (g *GuardedClassifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	var lastErr error

	for attempt := 0; attempt <= g.retries; attempt++ {
		result, err := g.classifyOnce(ctx, text)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil || errors.Is(err, domain.ErrEmptyText) {
			break
		}
		if attempt < g.retries {
			log.Printf("[Classifier] %s attempt %d failed, retrying: %v", g.inner.Name(), attempt+1, err)
		}
	}

	if errors.Is(lastErr, domain.ErrClassification) {
		return domain.Classification{}, lastErr
	}
	return domain.Classification{}, fmt.Errorf("%w: %v", domain.ErrClassification, lastErr)
}

type classifyResult struct {
	result domain.Classification
	err    error
}

func (g *GuardedClassifier) classifyOnce(ctx context.Context, text string) (domain.Classification, error) {
	if g.timeout <= 0 {
		return g.inner.Classify(ctx, text)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// on timeout this goroutine is abandoned; the buffered channel lets it exit
	done := make(chan classifyResult, 1)
	go func() {
		result, err := g.inner.Classify(callCtx, text)
		done <- classifyResult{result: result, err: err}
	}()

	select {
	case r := <-done:
		return r.result, r.err
	case <-callCtx.Done():
		return domain.Classification{}, fmt.Errorf("%w: %s: %w", domain.ErrClassification, g.inner.Name(), callCtx.Err())
	}
}

// CachedClassifier memoizes results per text. A classifier with a fixed model
// is a pure function of its input, so cached answers stay valid.
type CachedClassifier struct {
	inner domain.TextClassifier
	cache domain.CacheRepository
	ttl   time.Duration
}

// NewCachedClassifier wraps inner with the given cache
func NewCachedClassifier(inner domain.TextClassifier, cache domain.CacheRepository, ttl time.Duration) *CachedClassifier {
	return &CachedClassifier{inner: inner, cache: cache, ttl: ttl}
}

// Name returns the wrapped classifier's name
func (c *CachedClassifier) Name() string {
	return c.inner.Name()
}

// Classify returns the cached result for text or classifies and stores it. Failures are not cached.
func (c *CachedClassifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	key := classificationCacheKey(c.inner.Name(), text)

	if value, err := c.cache.Get(ctx, key); err == nil {
		if result, ok := value.(domain.Classification); ok {
			return result, nil
		}
	}

	result, err := c.inner.Classify(ctx, text)
	if err != nil {
		return domain.Classification{}, err
	}

	if err := c.cache.Set(ctx, key, result, c.ttl); err != nil {
		log.Printf("[Classifier] failed to cache %s result: %v", c.inner.Name(), err)
	}

	return result, nil
}

// classificationCacheKey format: "classification:{classifier}:{text}"
func classificationCacheKey(classifier, text string) string {
	return fmt.Sprintf("classification:%s:%s", classifier, text)
}
