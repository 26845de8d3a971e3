package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/zypric/backend/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// ClientConfig configures a HuggingFace Inference API text classifier
type ClientConfig struct {
	Name              string // "sentiment" or "emotion", used in logs and errors
	Model             string
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client classifies text with a model hosted on the HuggingFace Inference API
type Client struct {
	httpClient  *http.Client
	name        string
	model       string
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	debug       bool
}

type inferenceRequest struct {
	Inputs  string           `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type inferenceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// NewClient creates a new inference client
func NewClient(cfg ClientConfig) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		name:        cfg.Name,
		model:       cfg.Model,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		rateLimiter: rate.NewLimiter(limit, burst),
		backoff:     exponentialBackoff,
	}
}

// SetDebug enables logging of every request
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Name returns the classifier name
func (c *Client) Name() string {
	return c.name
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Classify returns the highest-scoring label for text
func (c *Client) Classify(ctx context.Context, text string) (domain.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Classification{}, fmt.Errorf("%w: %w", domain.ErrClassification, domain.ErrEmptyText)
	}

	payload, err := json.Marshal(inferenceRequest{
		Inputs:  text,
		Options: inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("%w: %v", domain.ErrClassification, err)
	}

	endpoint := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)

	// Only 5xx responses (including a loading model) and transport errors are retried here
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				return domain.Classification{}, fmt.Errorf("%w: %v", domain.ErrClassification, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return domain.Classification{}, fmt.Errorf("%w: rate limiter: %v", domain.ErrClassification, err)
		}

		if c.debug {
			log.Printf("[HF] %s attempt %d: POST %s (%d chars)", c.name, attempt, endpoint, len(text))
		}

		body, status, err := c.doRequest(ctx, endpoint, payload)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Classification{}, fmt.Errorf("%w: %v", domain.ErrClassification, ctx.Err())
			}
			log.Printf("[HF] %s request error (attempt %d): %v", c.name, attempt, err)
			lastErr = err
			continue
		}

		switch {
		case status == http.StatusOK:
			return parsePredictions(body)
		case status == http.StatusServiceUnavailable:
			var apiErr inferenceError
			_ = json.Unmarshal(body, &apiErr)
			log.Printf("[HF] %s model %s unavailable (attempt %d): %s", c.name, c.model, attempt, apiErr.Error)
			lastErr = fmt.Errorf("model unavailable: %s", apiErr.Error)
			continue
		case status >= http.StatusInternalServerError:
			log.Printf("[HF] %s server error %d (attempt %d): %s", c.name, status, attempt, truncate(string(body), 200))
			lastErr = fmt.Errorf("server returned status %d", status)
			continue
		default:
			return domain.Classification{}, fmt.Errorf("%w: %s model %s returned status %d: %s",
				domain.ErrClassification, c.name, c.model, status, truncate(string(body), 200))
		}
	}

	return domain.Classification{}, fmt.Errorf("%w: %s gave up after %d attempts: %v",
		domain.ErrClassification, c.name, maxAttempts, lastErr)
}

// doRequest executes the POST and returns the body and status code
func (c *Client) doRequest(ctx context.Context, endpoint string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Zypric/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// parsePredictions accepts both [[{label,score}...]] and [{label,score}...] and keeps the top score
func parsePredictions(body []byte) (domain.Classification, error) {
	var nested [][]prediction
	var flat []prediction

	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		flat = nested[0]
	} else if err := json.Unmarshal(body, &flat); err != nil {
		return domain.Classification{}, fmt.Errorf("%w: failed to decode response: %v", domain.ErrClassification, err)
	}

	if len(flat) == 0 {
		return domain.Classification{}, fmt.Errorf("%w: model returned no predictions", domain.ErrClassification)
	}

	best := flat[0]
	for _, p := range flat[1:] {
		if p.Score > best.Score {
			best = p
		}
	}

	return domain.Classification{Label: best.Label, Score: best.Score}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
