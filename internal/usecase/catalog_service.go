package usecase

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/zypric/backend/internal/domain"
)

// CatalogService owns the in-memory product catalog. The source is read at most
// once until Invalidate or Reload is called.
type CatalogService struct {
	source   domain.CatalogSource
	mu       sync.Mutex
	products []domain.Product
	loaded   bool
}

// NewCatalogService creates a catalog handle over source. Nothing is read until first use.
func NewCatalogService(source domain.CatalogSource) *CatalogService {
	return &CatalogService{source: source}
}

// Products returns every record, loading the source on first call.
// The returned records are shared and must not be modified.
func (s *CatalogService) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.products, nil
	}

	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}

	s.products = products
	s.loaded = true
	return s.products, nil
}

// Invalidate drops the cached records so the next call reads the source again
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = nil
	s.loaded = false
}

// Reload re-reads the source. On failure the previous records are kept.
func (s *CatalogService) Reload(ctx context.Context) ([]domain.Product, error) {
	products, err := s.source.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.products = products
	s.loaded = true
	s.mu.Unlock()

	log.Printf("[Catalog] Reloaded %d products", len(products))
	return products, nil
}

// Find returns the products whose name contains query, ignoring case
func (s *CatalogService) Find(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return FindProducts(products, query), nil
}

// Get returns the first product whose name equals name exactly
func (s *CatalogService) Get(ctx context.Context, name string) (*domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].HasName() && products[i].Name == name {
			return &products[i], nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// FindProducts filters products by case-insensitive substring match on the name.
// Records without a name never match; an empty query matches every named record.
func FindProducts(products []domain.Product, query string) []domain.Product {
	needle := strings.ToLower(query)
	matches := []domain.Product{}

	for _, p := range products {
		if !p.HasName() {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
		}
	}

	return matches
}
