package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Sentiment ClassifierConfig
	Emotion   ClassifierConfig
	Analysis  AnalysisConfig
	Cache     CacheConfig
	WordCloud WordCloudConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig points at the product catalog file
type CatalogConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"` // "auto", "csv", "xlsx" or "parquet"
	Sheet  string `mapstructure:"sheet"`  // xlsx only; first sheet when empty
}

// ClassifierConfig configures one text classifier
type ClassifierConfig struct {
	Provider          string        `mapstructure:"provider"` // "huggingface", "vader" or "openai"
	Model             string        `mapstructure:"model"`
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Retries           int           `mapstructure:"retries"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	LexiconPath       string        `mapstructure:"lexicon_path"`       // vader only
	EmojiLexiconPath  string        `mapstructure:"emoji_lexicon_path"` // vader only
}

// AnalysisConfig controls the review analyzer worker pool
type AnalysisConfig struct {
	Workers int `mapstructure:"workers"`
}

// CacheConfig holds classification cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// WordCloudConfig holds word-cloud rendering options
type WordCloudConfig struct {
	Width       int     `mapstructure:"width"`
	Height      int     `mapstructure:"height"`
	MaxWords    int     `mapstructure:"max_words"`
	MinFontSize float64 `mapstructure:"min_font_size"`
	MaxFontSize float64 `mapstructure:"max_font_size"`
	Background  string  `mapstructure:"background"`
}

// DefaultHuggingFaceURL is the hosted Inference API endpoint
const DefaultHuggingFaceURL = "https://api-inference.huggingface.co"

var (
	sentimentProviders = map[string]bool{"huggingface": true, "vader": true}
	emotionProviders   = map[string]bool{"huggingface": true, "openai": true}
	catalogFormats     = map[string]bool{"auto": true, "csv": true, "xlsx": true, "parquet": true}
)

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/zypric/")

	v.SetEnvPrefix("ZYPRIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if one exists.
// Variables already present in the environment are not overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("catalog.path", "products.csv")
	v.SetDefault("catalog.format", "auto")
	v.SetDefault("catalog.sheet", "")

	v.SetDefault("sentiment.provider", "huggingface")
	v.SetDefault("sentiment.model", "distilbert-base-uncased-finetuned-sst-2-english")
	v.SetDefault("sentiment.base_url", DefaultHuggingFaceURL)
	v.SetDefault("sentiment.api_key", "")
	v.SetDefault("sentiment.timeout", "15s")
	v.SetDefault("sentiment.retries", 1)
	v.SetDefault("sentiment.requests_per_second", 5)
	v.SetDefault("sentiment.burst", 10)
	v.SetDefault("sentiment.lexicon_path", "")
	v.SetDefault("sentiment.emoji_lexicon_path", "")

	v.SetDefault("emotion.provider", "huggingface")
	v.SetDefault("emotion.model", "j-hartmann/emotion-english-distilroberta-base")
	v.SetDefault("emotion.base_url", DefaultHuggingFaceURL)
	v.SetDefault("emotion.api_key", "")
	v.SetDefault("emotion.timeout", "15s")
	v.SetDefault("emotion.retries", 1)
	v.SetDefault("emotion.requests_per_second", 5)
	v.SetDefault("emotion.burst", 10)
	v.SetDefault("emotion.lexicon_path", "")
	v.SetDefault("emotion.emoji_lexicon_path", "")

	v.SetDefault("analysis.workers", 8)

	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("wordcloud.width", 800)
	v.SetDefault("wordcloud.height", 400)
	v.SetDefault("wordcloud.max_words", 200)
	v.SetDefault("wordcloud.min_font_size", 10)
	v.SetDefault("wordcloud.max_font_size", 96)
	v.SetDefault("wordcloud.background", "#ffffff")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required (set ZYPRIC_CATALOG_PATH)")
	}

	if !catalogFormats[config.Catalog.Format] {
		return fmt.Errorf("catalog format must be one of auto, csv, xlsx, parquet, got: %s", config.Catalog.Format)
	}

	if !sentimentProviders[config.Sentiment.Provider] {
		return fmt.Errorf("sentiment provider must be 'huggingface' or 'vader', got: %s", config.Sentiment.Provider)
	}

	if !emotionProviders[config.Emotion.Provider] {
		return fmt.Errorf("emotion provider must be 'huggingface' or 'openai', got: %s", config.Emotion.Provider)
	}

	if config.Sentiment.Provider == "vader" &&
		(config.Sentiment.LexiconPath == "" || config.Sentiment.EmojiLexiconPath == "") {
		return fmt.Errorf("vader sentiment requires lexicon_path and emoji_lexicon_path")
	}

	for name, c := range map[string]ClassifierConfig{"sentiment": config.Sentiment, "emotion": config.Emotion} {
		if c.Timeout <= 0 {
			return fmt.Errorf("%s timeout must be positive, got: %s", name, c.Timeout)
		}
		if c.Retries < 0 || c.Retries > 3 {
			return fmt.Errorf("%s retries must be between 0 and 3, got: %d", name, c.Retries)
		}
	}

	if config.Analysis.Workers < 1 {
		return fmt.Errorf("analysis workers must be at least 1, got: %d", config.Analysis.Workers)
	}

	if config.WordCloud.Width <= 0 || config.WordCloud.Height <= 0 {
		return fmt.Errorf("word cloud dimensions must be positive, got: %dx%d", config.WordCloud.Width, config.WordCloud.Height)
	}

	return nil
}
