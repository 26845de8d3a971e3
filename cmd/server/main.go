package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/zypric/backend/config"
	httpDelivery "github.com/zypric/backend/internal/delivery/http"
	"github.com/zypric/backend/internal/domain"
	"github.com/zypric/backend/internal/infrastructure/cache"
	"github.com/zypric/backend/internal/infrastructure/catalog"
	"github.com/zypric/backend/internal/infrastructure/huggingface"
	"github.com/zypric/backend/internal/infrastructure/llm"
	"github.com/zypric/backend/internal/infrastructure/vader"
	"github.com/zypric/backend/internal/infrastructure/wordcloud"
	"github.com/zypric/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Zypric Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	debug := cfg.Server.Environment == "development"

	// Catalog is read once at startup; a broken file stops the server
	source, err := catalog.NewSource(cfg.Catalog.Path, cfg.Catalog.Format, cfg.Catalog.Sheet)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	catalogService := usecase.NewCatalogService(source)

	loadCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	products, err := catalogService.Products(loadCtx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Catalog: %s (%d products)", cfg.Catalog.Path, len(products))

	// Classifiers share one result cache
	memoryCache := cache.NewMemoryCacheWithCleanup(10 * time.Minute)
	defer memoryCache.Close()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	sentiment, err := newSentimentClassifier(cfg.Sentiment, debug)
	if err != nil {
		log.Fatalf("Failed to initialize sentiment classifier: %v", err)
	}
	emotion := newEmotionClassifier(cfg.Emotion, debug)

	analysisContext := &usecase.AnalysisContext{
		Sentiment: guard(sentiment, cfg.Sentiment, memoryCache, cfg.Cache.TTL),
		Emotion:   guard(emotion, cfg.Emotion, memoryCache, cfg.Cache.TTL),
	}
	log.Printf("Classifiers: sentiment=%s emotion=%s workers=%d",
		cfg.Sentiment.Provider, cfg.Emotion.Provider, cfg.Analysis.Workers)

	// Word cloud
	renderer, err := wordcloud.NewRenderer(wordcloud.Options{
		Width:       cfg.WordCloud.Width,
		Height:      cfg.WordCloud.Height,
		MaxWords:    cfg.WordCloud.MaxWords,
		MinFontSize: cfg.WordCloud.MinFontSize,
		MaxFontSize: cfg.WordCloud.MaxFontSize,
		Background:  cfg.WordCloud.Background,
	})
	if err != nil {
		log.Fatalf("Failed to initialize word cloud renderer: %v", err)
	}

	// Initialize usecase layer
	analyzer := usecase.NewReviewAnalyzer(analysisContext, cfg.Analysis.Workers)
	generator := usecase.NewWordCloudGenerator(usecase.NewReviewTokenizer(debug), renderer)
	searchService := usecase.NewSearchService(catalogService, analyzer, generator)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newSentimentClassifier(cfg config.ClassifierConfig, debug bool) (domain.TextClassifier, error) {
	if cfg.Provider == "vader" {
		log.Printf("Sentiment: VADER lexicon %s", cfg.LexiconPath)
		classifier, err := vader.NewClassifier(cfg.LexiconPath, cfg.EmojiLexiconPath)
		if err != nil {
			return nil, err
		}
		return classifier, nil
	}
	return newHuggingFaceClient("sentiment", cfg, debug), nil
}

func newEmotionClassifier(cfg config.ClassifierConfig, debug bool) domain.TextClassifier {
	if cfg.Provider == "openai" {
		baseURL := cfg.BaseURL
		if baseURL == config.DefaultHuggingFaceURL {
			baseURL = ""
		}
		log.Printf("Emotion: chat model %s", cfg.Model)
		return llm.NewClassifier(llm.ClassifierConfig{
			Name:    "emotion",
			Model:   cfg.Model,
			BaseURL: baseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		})
	}
	return newHuggingFaceClient("emotion", cfg, debug)
}

func newHuggingFaceClient(name string, cfg config.ClassifierConfig, debug bool) *huggingface.Client {
	client := huggingface.NewClient(huggingface.ClientConfig{
		Name:              name,
		Model:             cfg.Model,
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	})
	client.SetDebug(debug)

	if cfg.APIKey == "" {
		log.Printf("WARNING: HuggingFace %s model %s has no API key - anonymous requests are heavily rate limited", name, cfg.Model)
	} else {
		log.Printf("HuggingFace %s model: %s", name, cfg.Model)
	}
	return client
}

// guard adds the per-call timeout, retries and result cache
func guard(classifier domain.TextClassifier, cfg config.ClassifierConfig, c domain.CacheRepository, ttl time.Duration) domain.TextClassifier {
	guarded := usecase.NewGuardedClassifier(classifier, cfg.Timeout, cfg.Retries)
	return usecase.NewCachedClassifier(guarded, c, ttl)
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
