package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/category"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

type chatRequest struct {
	Model          string  `json:"model"`
	Temperature    float32 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionHandler(t *testing.T, content string, inspect func(chatRequest)) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if inspect != nil {
			inspect(req)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150},
		})
	}
}

func newTestClassifier(url string) *Classifier {
	return NewClassifier(&Config{
		APIKey:      "test-key",
		BaseURL:     url,
		Model:       "test-model",
		MaxTokens:   300,
		Temperature: 0.1,
		Timeout:     2 * time.Second,
		Logger:      zap.NewNop(),
	})
}

func TestClassifier_Classify(t *testing.T) {
	reply := `{"serviceType":["TRAITEUR","PHOTOGRAPHE"],"location":"Lyon","capacity":{"min":100},"features":["Buffet"]}`

	server := httptest.NewServer(completionHandler(t, reply, func(req chatRequest) {
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if req.MaxTokens != 300 {
			t.Errorf("max_tokens = %d", req.MaxTokens)
		}
		if req.Temperature < 0.09 || req.Temperature > 0.11 {
			t.Errorf("temperature = %f", req.Temperature)
		}
		if req.ResponseFormat.Type != "json_object" {
			t.Errorf("response_format = %q", req.ResponseFormat.Type)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Content != "traiteur lyon" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[0].Content, "WEDDING_PLANNER") {
			t.Error("system prompt does not enumerate categories")
		}
	}))
	defer server.Close()

	got, err := newTestClassifier(server.URL).Classify(context.Background(), "traiteur lyon")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if len(got.ServiceType) != 2 || got.ServiceType[0] != category.Caterer || got.ServiceType[1] != category.Photographer {
		t.Errorf("serviceType = %v", got.ServiceType)
	}
	if got.Location != "Lyon" {
		t.Errorf("location = %q", got.Location)
	}
	if got.Capacity == nil || got.Capacity.Min == nil || *got.Capacity.Min != 100 || got.Capacity.Max != nil {
		t.Errorf("capacity = %+v", got.Capacity)
	}
	if len(got.Features) != 1 || got.Features[0] != "buffet" {
		t.Errorf("features = %v", got.Features)
	}
	if got.Style == nil {
		t.Error("style must be an empty list, not nil")
	}
}

func TestClassifier_EmptyContent(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "  ", nil))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "q")
	if !errors.Is(err, domain.ErrInvalidClassification) {
		t.Fatalf("expected ErrInvalidClassification, got %v", err)
	}
}

func TestClassifier_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "voici votre JSON: {", nil))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "q")
	if !errors.Is(err, domain.ErrInvalidClassification) {
		t.Fatalf("expected ErrInvalidClassification, got %v", err)
	}
}

func TestClassifier_UnknownCategory(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, `{"serviceType":["PLOMBIER"]}`, nil))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "q")
	if !errors.Is(err, domain.ErrInvalidClassification) {
		t.Fatalf("expected ErrInvalidClassification, got %v", err)
	}
}

func TestClassifier_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "q")
	if !errors.Is(err, domain.ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("error should carry the API message: %v", err)
	}
}

func TestClassifier_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := NewClassifier(&Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Timeout: 50 * time.Millisecond,
	})

	start := time.Now()
	_, err := c.Classify(context.Background(), "q")
	if !errors.Is(err, domain.ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout not enforced: took %s", time.Since(start))
	}
}

func TestClassifier_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})
	}))
	defer server.Close()

	if err := newTestClassifier(server.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"model not found"}`)); got != "model not found" {
		t.Errorf("extractDetail = %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("extractDetail = %q, expected empty", got)
	}
}
