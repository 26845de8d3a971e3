package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zypric/backend/internal/domain"
)

func newTestClient(baseURL string) *Client {
	client := NewClient(ClientConfig{
		Name:    "sentiment",
		Model:   "distilbert-base-uncased-finetuned-sst-2-english",
		BaseURL: baseURL,
		APIKey:  "hf-test-token",
		Timeout: 5 * time.Second,
	})
	client.backoff = func(int) time.Duration { return time.Millisecond }
	return client
}

func TestNewClient(t *testing.T) {
	client := NewClient(ClientConfig{
		Name:              "emotion",
		Model:             "j-hartmann/emotion-english-distilroberta-base",
		BaseURL:           "https://api-inference.huggingface.co/",
		RequestsPerSecond: 2,
		Burst:             4,
	})

	assert.Equal(t, "emotion", client.Name())
	assert.Equal(t, "https://api-inference.huggingface.co", client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 4, client.rateLimiter.Burst())
	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
		})
	}
}

func TestClassify_NestedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/distilbert-base-uncased-finetuned-sst-2-english", r.URL.Path)
		assert.Equal(t, "Bearer hf-test-token", r.Header.Get("Authorization"))

		var req inferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Great", req.Inputs)
		assert.True(t, req.Options.WaitForModel)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[{"label":"NEGATIVE","score":0.0002},{"label":"POSITIVE","score":0.9998}]]`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Classify(context.Background(), "Great")

	require.NoError(t, err)
	assert.Equal(t, "POSITIVE", result.Label)
	assert.InDelta(t, 0.9998, result.Score, 1e-9)
}

func TestClassify_FlatResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"label":"joy","score":0.2},{"label":"anger","score":0.7},{"label":"fear","score":0.1}]`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Classify(context.Background(), "I am furious")

	require.NoError(t, err)
	assert.Equal(t, domain.Classification{Label: "anger", Score: 0.7}, result)
}

func TestClassify_RetriesWhileModelLoads(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"Model is currently loading","estimated_time":20.0}`))
			return
		}
		w.Write([]byte(`[[{"label":"POSITIVE","score":0.9}]]`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Classify(context.Background(), "fine")

	require.NoError(t, err)
	assert.Equal(t, "POSITIVE", result.Label)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClassify_RetriesServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"internal"}`))
			return
		}
		w.Write([]byte(`[[{"label":"NEGATIVE","score":0.8}]]`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Classify(context.Background(), "Broke fast")

	require.NoError(t, err)
	assert.Equal(t, domain.Classification{Label: "NEGATIVE", Score: 0.8}, result)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClassify_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Classify(context.Background(), "fine")

	assert.ErrorIs(t, err, domain.ErrClassification)
	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&calls))
}

func TestClassify_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Classify(context.Background(), "fine")

	assert.ErrorIs(t, err, domain.ErrClassification)
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClassify_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for blank text")
	}))
	defer server.Close()

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := newTestClient(server.URL).Classify(context.Background(), text)
		assert.ErrorIs(t, err, domain.ErrClassification)
		assert.ErrorIs(t, err, domain.ErrEmptyText)
	}
}

func TestClassify_BadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `not json`},
		{"empty list", `[]`},
		{"empty nested list", `[[]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Classify(context.Background(), "text")
			assert.ErrorIs(t, err, domain.ErrClassification)
		})
	}
}

func TestClassify_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newTestClient(server.URL).Classify(ctx, "slow")

	assert.ErrorIs(t, err, domain.ErrClassification)
	assert.Less(t, time.Since(start), 2*time.Second)
}
