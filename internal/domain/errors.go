package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogLoad is returned when the catalog source is missing or malformed
	ErrCatalogLoad = errors.New("catalog load failed")

	// ErrClassification is returned when a classifier call fails or times out
	ErrClassification = errors.New("classification failed")

	// ErrEmptyText is returned when a classifier is asked to classify blank text
	ErrEmptyText = errors.New("text is empty")

	// ErrRender is returned when word-cloud rendering fails
	ErrRender = errors.New("word cloud render failed")

	// ErrNoResults is returned when a search matches no products
	ErrNoResults = errors.New("no products found")

	// ErrSearchSuperseded is returned when a newer search from the same session replaced this one
	ErrSearchSuperseded = errors.New("search superseded by a newer query")

	// ErrProductNotFound is returned when a product name is not in the catalog
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// ClassificationError describes a failed classification of a single review
type ClassificationError struct {
	Classifier string
	Index      int
	Err        error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("%s classifier failed on review %d: %v", e.Classifier, e.Index, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// Is reports ClassificationError as ErrClassification regardless of the wrapped cause
func (e *ClassificationError) Is(target error) bool {
	return target == ErrClassification
}
