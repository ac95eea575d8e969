package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/metrics"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/version"
)

const provider = "openai"

// Classifier turns free-text queries into SearchCriteria through an OpenAI-compatible chat completion API.
type Classifier struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	prompt      string
	logger      *zap.Logger
}

// Config holds the classifier settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewClassifier creates an OpenAI-compatible classifier.
func NewClassifier(cfg *Config) *Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Transport: userAgentTransport{next: http.DefaultTransport},
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Classifier{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		prompt:      criteria.SystemPrompt(),
		logger:      logger,
	}
}

// Classify sends one completion request and decodes the first choice against the criteria schema.
func (c *Classifier) Classify(ctx context.Context, query string) (criteria.SearchCriteria, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.prompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		c.fail("api_error")
		return criteria.SearchCriteria{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.fail("empty_response")
		return criteria.SearchCriteria{}, fmt.Errorf("empty completion: %w", domain.ErrInvalidClassification)
	}

	out, err := criteria.Decode([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		c.fail("invalid_reply")
		return criteria.SearchCriteria{}, fmt.Errorf("%w: %w", domain.ErrInvalidClassification, err)
	}

	metrics.ClassifierRequestsTotal.WithLabelValues(provider, c.model, "success").Inc()
	metrics.ClassifierRequestDuration.WithLabelValues(provider, c.model).Observe(duration.Seconds())

	c.logger.Debug("classified query",
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return out, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Classifier) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (c *Classifier) fail(kind string) {
	metrics.ClassifierRequestsTotal.WithLabelValues(provider, c.model, "error").Inc()
	metrics.ClassifierErrorsTotal.WithLabelValues(provider, c.model, kind).Inc()
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrClassifierUnavailable.
func parseAPIError(err error) error {
	wrap := domain.ErrClassifierUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("classifier API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("classifier API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("classifier API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("classifier request timed out: %w", wrap)
	}

	return fmt.Errorf("classifier request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}

type userAgentTransport struct {
	next http.RoundTripper
}

func (t userAgentTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("User-Agent", version.UserAgent())
	return t.next.RoundTrip(r)
}
