package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/zypric/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// DefaultProductWorkers bounds how many products of one search are analyzed at once
const DefaultProductWorkers = 4

// SearchService answers display queries: it finds products in the catalog and
// attaches their review analysis.
type SearchService struct {
	catalog        *CatalogService
	analyzer       *ReviewAnalyzer
	wordCloud      *WordCloudGenerator
	productWorkers int

	mu       sync.Mutex
	inflight map[string]*pendingSearch
	nextID   uint64
}

type pendingSearch struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// NewSearchService creates a new search service
func NewSearchService(catalog *CatalogService, analyzer *ReviewAnalyzer, wordCloud *WordCloudGenerator) *SearchService {
	return &SearchService{
		catalog:        catalog,
		analyzer:       analyzer,
		wordCloud:      wordCloud,
		productWorkers: DefaultProductWorkers,
		inflight:       make(map[string]*pendingSearch),
	}
}

// Catalog returns the catalog handle the service searches
func (s *SearchService) Catalog() *CatalogService {
	return s.catalog
}

// Search finds the products whose name contains query and analyzes their reviews.
// Results keep catalog order. A new search with the same sessionKey cancels the
// previous one, which then returns ErrSearchSuperseded. An empty sessionKey
// never supersedes anything.
//
// A classification failure is reported on the affected product only, so the
// remaining matches are still shown.
func (s *SearchService) Search(ctx context.Context, sessionKey, query string) (*domain.SearchResult, error) {
	ctx, done := s.begin(ctx, sessionKey)
	defer done()

	products, err := s.catalog.Find(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, context.Cause(ctx)
		}
		return nil, err
	}
	if len(products) == 0 {
		return nil, domain.ErrNoResults
	}

	results := make([]domain.ProductAnalysis, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.productWorkers)

	for i, product := range products {
		g.Go(func() error {
			results[i] = s.analyzeProduct(gctx, product)
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}

	log.Printf("[Search] query %q matched %d products", query, len(results))

	return &domain.SearchResult{
		Query:   query,
		Count:   len(results),
		Results: results,
	}, nil
}

func (s *SearchService) analyzeProduct(ctx context.Context, product domain.Product) domain.ProductAnalysis {
	entry := domain.ProductAnalysis{Product: product}

	analysis, err := s.analyzer.Analyze(ctx, product.Reviews)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("[Search] analysis failed for %q: %v", product.Name, err)
		}
		entry.Error = err.Error()
		return entry
	}

	summary := Summarize(analysis)
	entry.SentimentTable = analysis.Sentiment
	entry.EmotionTable = analysis.Emotion
	entry.Summary = &summary
	return entry
}

// Suggestions returns catalog names close to a query that matched nothing
func (s *SearchService) Suggestions(ctx context.Context, query string) []string {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return []string{}
	}
	return SuggestNames(products, query, DefaultSuggestionLimit)
}

// Analyze runs both classifiers over ad-hoc reviews
func (s *SearchService) Analyze(ctx context.Context, reviews []string) (*domain.ReviewAnalysis, error) {
	for _, review := range reviews {
		if strings.TrimSpace(review) == "" {
			return nil, domain.ErrInvalidRequest
		}
	}
	return s.analyzer.Analyze(ctx, reviews)
}

// WordCloud renders the word cloud for the product named exactly name.
// On a render failure the blank image is returned with the error.
func (s *SearchService) WordCloud(ctx context.Context, name string) ([]byte, error) {
	product, err := s.catalog.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.wordCloud.Generate(product.Reviews)
}

// ReloadCatalog re-reads the catalog source and returns the record count
func (s *SearchService) ReloadCatalog(ctx context.Context) (int, error) {
	products, err := s.catalog.Reload(ctx)
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

// begin registers a search for sessionKey, cancelling the one it replaces
func (s *SearchService) begin(ctx context.Context, sessionKey string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	if sessionKey == "" {
		return ctx, func() { cancel(nil) }
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if prev, ok := s.inflight[sessionKey]; ok {
		prev.cancel(domain.ErrSearchSuperseded)
	}
	s.inflight[sessionKey] = &pendingSearch{id: id, cancel: cancel}
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		if cur, ok := s.inflight[sessionKey]; ok && cur.id == id {
			delete(s.inflight, sessionKey)
		}
		s.mu.Unlock()
		cancel(nil)
	}
}

// IsSuperseded reports whether err means a newer search replaced this one
func IsSuperseded(err error) bool {
	return errors.Is(err, domain.ErrSearchSuperseded)
}
