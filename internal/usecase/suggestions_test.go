package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zypric/backend/internal/domain"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"widget", "widget", 0},
		{"widgte", "widget", 2},
		{"wigdet", "widget", 2},
		{"gadet", "gadget", 1},
		{"kitten", "sitting", 3},
		{"café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			assert.Equal(t, tt.want, levenshteinDistance(tt.s1, tt.s2))
		})
	}
}

func TestSuggestNames(t *testing.T) {
	products := []domain.Product{
		{Name: "Widget"},
		{Name: "Gadget"},
		{Name: "Super widget"},
		{Name: ""},
		{Name: "Widget"},
		{Name: "Blender Pro 3000"},
	}

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{name: "single typo", query: "gadet", limit: 3, want: []string{"Gadget"}},
		{name: "word of longer name", query: "blendr", limit: 3, want: []string{"Blender Pro 3000"}},
		{name: "duplicates collapsed and catalog order kept", query: "widgt", limit: 3, want: []string{"Widget", "Super widget"}},
		{name: "limit", query: "widgt", limit: 1, want: []string{"Widget"}},
		{name: "too far", query: "toaster", limit: 3, want: []string{}},
		{name: "blank query", query: "  ", limit: 3, want: []string{}},
		{name: "zero limit", query: "gadet", limit: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestNames(products, tt.query, tt.limit))
		})
	}
}

func TestSearchService_Suggestions(t *testing.T) {
	svc := newTestSearchService(widgetCatalog(), keywordSentiment(), keywordEmotion())

	_, err := svc.Search(context.Background(), "", "gadgte")
	require.ErrorIs(t, err, domain.ErrNoResults)

	assert.Equal(t, []string{"Gadget"}, svc.Suggestions(context.Background(), "gadgte"))
}
