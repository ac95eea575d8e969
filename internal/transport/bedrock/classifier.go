// Package bedrock implements the query classifier on AWS Bedrock (Anthropic messages API).
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/domain/criteria"
	"github.com/jeffMauritius/ai-project-v1-sub000/internal/metrics"
)

const (
	provider         = "bedrock"
	anthropicVersion = "bedrock-2023-05-31"
)

// invoker is the subset of *bedrockruntime.Client used by the classifier.
type invoker interface {
	InvokeModel(
		ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.InvokeModelOutput, error)
}

type messageRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float32   `json:"temperature"`
	System           string    `json:"system"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Config holds the Bedrock classifier settings.
type Config struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// Classifier classifies queries with a Claude model hosted on Bedrock.
type Classifier struct {
	client      invoker
	modelID     string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	prompt      string
	logger      *zap.Logger
}

// NewClassifier loads the default AWS credential chain for the region.
func NewClassifier(ctx context.Context, cfg *Config) (*Classifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newClassifier(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

func newClassifier(client invoker, cfg *Config) *Classifier {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		client:      client,
		modelID:     cfg.ModelID,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		prompt:      criteria.SystemPrompt(),
		logger:      logger,
	}
}

// Classify invokes the model once and decodes its text reply against the criteria schema.
func (c *Classifier) Classify(ctx context.Context, query string) (criteria.SearchCriteria, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(messageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        c.maxTokens,
		Temperature:      c.temperature,
		System:           c.prompt,
		Messages:         []message{{Role: "user", Content: query}},
	})
	if err != nil {
		return criteria.SearchCriteria{}, fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()

	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})

	duration := time.Since(start)

	if err != nil {
		c.fail("api_error")
		return criteria.SearchCriteria{}, fmt.Errorf("invoke model: %v: %w", err, domain.ErrClassifierUnavailable)
	}

	var resp messageResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		c.fail("invalid_reply")
		return criteria.SearchCriteria{}, fmt.Errorf("unmarshal response: %v: %w", err, domain.ErrInvalidClassification)
	}

	text := extractJSON(firstText(resp))
	if text == "" {
		c.fail("empty_response")
		return criteria.SearchCriteria{}, fmt.Errorf("empty completion: %w", domain.ErrInvalidClassification)
	}

	sc, err := criteria.Decode([]byte(text))
	if err != nil {
		c.fail("invalid_reply")
		return criteria.SearchCriteria{}, fmt.Errorf("%w: %w", domain.ErrInvalidClassification, err)
	}

	metrics.ClassifierRequestsTotal.WithLabelValues(provider, c.modelID, "success").Inc()
	metrics.ClassifierRequestDuration.WithLabelValues(provider, c.modelID).Observe(duration.Seconds())

	c.logger.Debug("classified query",
		zap.String("model", c.modelID),
		zap.Duration("duration", duration),
		zap.String("stop_reason", resp.StopReason),
	)

	return sc, nil
}

func (c *Classifier) fail(kind string) {
	metrics.ClassifierRequestsTotal.WithLabelValues(provider, c.modelID, "error").Inc()
	metrics.ClassifierErrorsTotal.WithLabelValues(provider, c.modelID, kind).Inc()
}

func firstText(resp messageResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text
		}
	}
	return ""
}

// extractJSON trims prose Claude sometimes puts around the object.
func extractJSON(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return strings.TrimSpace(s)
	}
	return s[start : end+1]
}
