package usecase

import (
	"log"

	"github.com/zypric/backend/internal/domain"
)

// WordCloudGenerator turns a product's reviews into a word-cloud image
type WordCloudGenerator struct {
	tokenizer *ReviewTokenizer
	renderer  domain.WordCloudRenderer
}

// NewWordCloudGenerator creates a generator drawing with renderer
func NewWordCloudGenerator(tokenizer *ReviewTokenizer, renderer domain.WordCloudRenderer) *WordCloudGenerator {
	return &WordCloudGenerator{tokenizer: tokenizer, renderer: renderer}
}

// Frequencies returns the weighted words the cloud is drawn from
func (g *WordCloudGenerator) Frequencies(reviews []string) []domain.WordWeight {
	return g.tokenizer.Frequencies(reviews)
}

// Generate renders the reviews as a PNG. Review order does not matter. No
// reviews give the blank canvas. When rendering fails the blank canvas is
// returned together with the ErrRender error so the caller can still show it.
func (g *WordCloudGenerator) Generate(reviews []string) ([]byte, error) {
	words := g.Frequencies(reviews)
	if len(words) == 0 {
		return g.renderer.Blank(), nil
	}

	image, err := g.renderer.Render(words)
	if err != nil {
		log.Printf("[WordCloud] render of %d words failed, serving blank image: %v", len(words), err)
		return g.renderer.Blank(), err
	}

	return image, nil
}
