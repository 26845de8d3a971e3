package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogSource loads product records from a tabular file
type CatalogSource interface {
	LoadProducts(ctx context.Context) ([]Product, error)
}

// TextClassifier wraps a pre-trained text classification model.
// Implementations must be safe for concurrent use.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
	Name() string
}

// WordCloudRenderer draws weighted words into an encoded image.
// Words arrive sorted by descending weight.
type WordCloudRenderer interface {
	Render(words []WordWeight) ([]byte, error)
	Blank() []byte
}
