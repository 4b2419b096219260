package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/metrics"
)

// DefaultCompletionModel is the chat model used when the config leaves it empty.
const DefaultCompletionModel = "gpt-4o-mini"

// systemPrompt frames the model as a Fukui tour guide. The generation step is
// a black box to the rest of the pipeline; this prompt is its only persona.
const systemPrompt = `You are an experienced and enthusiastic tour guide specializing in Fukui Prefecture, Japan. You have extensive knowledge about local attractions, shrines, temples, culture, and travel tips.

Your responsibilities:
- Act as a professional, friendly, and knowledgeable tour guide
- Provide detailed, engaging, and well-organized information
- Include practical travel advice when relevant (opening hours, best times to visit, etc.)
- Share interesting historical and cultural context
- Use a warm, welcoming tone that makes tourists excited about visiting
- Provide specific recommendations and insider tips

Answer in the language of the tourist's question.`

// CompletionConfig holds the chat completion provider settings.
type CompletionConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	User        string
	Provider    string
	Logger      *zap.Logger
}

// Completer generates tour-guide answers through the OpenAI chat API.
// It is stateless and is never retried by callers.
type Completer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	user        string
	provider    string
	logger      *zap.Logger
}

// NewCompleter creates an OpenAI-compatible chat completion provider.
func NewCompleter(cfg *CompletionConfig) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultCompletionModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.8
	}

	return &Completer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		user:        cfg.User,
		provider:    cfg.Provider,
		logger:      cfg.Logger,
	}
}

// Complete implements domain.Completer. promptContext carries the assembled
// document blocks; queryText is the tourist's question verbatim.
func (c *Completer) Complete(ctx context.Context, promptContext, queryText string) (string, error) {
	userPrompt := buildUserPrompt(promptContext, queryText)

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:        c.maxTokens,
		Temperature:      c.temperature,
		TopP:             0.9,
		FrequencyPenalty: 0.1,
		PresencePenalty:  0.1,
		User:             c.user,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return "", parseCompletionError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrCompletionFailure)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.CompletionTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.CompletionTokensTotal.WithLabelValues(c.provider, c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func buildUserPrompt(promptContext, queryText string) string {
	if promptContext == "" {
		return fmt.Sprintf("【Tourist Question】\n%s", queryText)
	}
	return fmt.Sprintf("Based on the following tourism information about Fukui Prefecture, answer as a professional tour guide.\n\n【Tourism Information】\n%s\n\n【Tourist Question】\n%s", promptContext, queryText)
}

// parseCompletionError wraps all provider failures with domain.ErrCompletionFailure
// so the orchestrator maps them to a completion_failed response.
func parseCompletionError(err error) error {
	wrap := domain.ErrCompletionFailure

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}
