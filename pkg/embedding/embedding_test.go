package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cl0ver012/whd-ai-assistant/pkg/config"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		model   string
		want    string
	}{
		{"full model name", "https://example.test/v1beta", "models/embedding-001", "https://example.test/v1beta/models/embedding-001:embedContent"},
		{"bare model name", "https://example.test/v1beta", "text-embedding-004", "https://example.test/v1beta/models/text-embedding-004:embedContent"},
		{"trailing slash", "https://example.test/v1beta/", "models/embedding-001", "https://example.test/v1beta/models/embedding-001:embedContent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildURL(tt.baseURL, tt.model))
		})
	}
}

func TestBuildRequestBody(t *testing.T) {
	body, err := BuildRequestBody("embedding-001", "RETRIEVAL_DOCUMENT", "Campaign: Spring")
	require.NoError(t, err)

	assert.Contains(t, string(body), `"model":"models/embedding-001"`)
	assert.Contains(t, string(body), `"taskType":"RETRIEVAL_DOCUMENT"`)
	assert.Contains(t, string(body), `"text":"Campaign: Spring"`)
}

func TestParseResponse(t *testing.T) {
	vec, err := ParseResponse([]byte(`{"embedding":{"values":[0.1,0.2,0.3]}}`))
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)

	_, err = ParseResponse([]byte(`{"embedding":{}}`))
	assert.Error(t, err)

	_, err = ParseResponse([]byte(`not json`))
	assert.Error(t, err)
}

func testConfig(baseURL string) *config.EmbeddingConfig {
	return &config.EmbeddingConfig{
		Enabled:    true,
		APIKey:     "test-key",
		Model:      "models/embedding-001",
		BaseURL:    baseURL,
		TaskType:   "RETRIEVAL_DOCUMENT",
		Dimensions: 3,
		Timeout:    5 * time.Second,
	}
}

func TestGeminiClient_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/embedding-001:embedContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Content.Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embedding":{"values":[1,2,3]}}`))
	}))
	defer server.Close()

	client, err := NewGeminiClient(testConfig(server.URL), zap.NewNop())
	require.NoError(t, err)

	vec, err := client.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vec)
}

func TestGeminiClient_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewGeminiClient(testConfig(server.URL), zap.NewNop())
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "hello")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.APIKey = ""
	_, err := NewGeminiClient(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestRetrying(t *testing.T) {
	t.Run("second attempt succeeds", func(t *testing.T) {
		calls := 0
		inner := EmbedderFunc(func(ctx context.Context, text string) ([]float32, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("flaky")
			}
			return []float32{1}, nil
		})

		vec, err := WithRetry(inner, time.Millisecond, zap.NewNop()).Embed(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, []float32{1}, vec)
		assert.Equal(t, 2, calls)
	})

	t.Run("exactly one retry", func(t *testing.T) {
		calls := 0
		inner := EmbedderFunc(func(ctx context.Context, text string) ([]float32, error) {
			calls++
			return nil, errors.New("down")
		})

		_, err := WithRetry(inner, 0, zap.NewNop()).Embed(context.Background(), "x")
		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("no retry once cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		inner := EmbedderFunc(func(ctx context.Context, text string) ([]float32, error) {
			calls++
			return nil, ctx.Err()
		})

		_, err := WithRetry(inner, time.Hour, zap.NewNop()).Embed(ctx, "x")
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
