package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/pkg/config"
	"github.com/johnquangdev/atlas/pkg/retry"
)

// Message is one chat turn sent to the model
type Message struct {
	Role    string
	Content string
}

// CompletionRequest is a single chat completion call
type CompletionRequest struct {
	System    string
	Messages  []Message
	Model     string
	MaxTokens int
}

// Client calls an OpenAI-compatible /chat/completions endpoint
type Client struct {
	httpClient *resty.Client
	model      string
	maxTokens  int
	policy     retry.Policy
	logger     *zap.Logger
}

// NewClient creates a Resty-backed LLM client
func NewClient(cfg *config.LLMConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if cfg.APIKey != "" {
		httpClient.SetAuthToken(cfg.APIKey)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: httpClient,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		policy:     retry.DefaultPolicy(),
		logger:     logger,
	}
}

// WithRetryPolicy overrides the retry policy
func (c *Client) WithRetryPolicy(p retry.Policy) *Client {
	c.policy = p
	return c
}

// Complete sends the conversation and returns the first choice's text
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	body := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: maxTokens,
	}

	var content string
	start := time.Now()
	err := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		var completion openai.ChatCompletionResponse
		var apiErr openai.ErrorResponse

		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&completion).
			SetError(&apiErr).
			Post("/chat/completions")
		if err != nil {
			return fmt.Errorf("llm request failed: %w", err)
		}

		if resp.IsError() {
			msg := resp.String()
			if apiErr.Error != nil && apiErr.Error.Message != "" {
				msg = apiErr.Error.Message
			}
			return fmt.Errorf("llm returned status %d: %s", resp.StatusCode(), msg)
		}

		if len(completion.Choices) == 0 {
			return retry.Permanent(fmt.Errorf("llm returned no choices"))
		}

		content = completion.Choices[0].Message.Content
		return nil
	})

	c.logger.Debug("llm.completion",
		zap.String("model", model),
		zap.Int("messages", len(messages)),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	)

	if err != nil {
		return "", err
	}
	return content, nil
}
