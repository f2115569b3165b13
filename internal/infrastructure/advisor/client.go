package advisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a chat prompt
type Message struct {
	Role    string
	Content string
}

// Config holds the OpenAI-compatible endpoint settings
type Config struct {
	APIKey     string
	BaseURL    string // e.g. https://openrouter.ai/api/v1
	Models     []string
	MaxRetries int
}

// completeFunc performs one completion call against one model
type completeFunc func(ctx context.Context, model string, messages []Message) (string, error)

// Client answers prompts through any OpenAI-compatible chat completions API.
// It walks the model preference list until one answers and retries transient
// failures with exponential backoff.
type Client struct {
	selector   *ModelSelector
	complete   completeFunc
	logger     *zap.Logger
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates a client. It fails when no key or model is configured.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrAIMisconfigured
	}
	selector := NewModelSelector(cfg.Models)
	if len(selector.Candidates()) == 0 {
		return nil, fmt.Errorf("at least one AI model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are handled here so model fallback sees the final error
		option.WithMaxRetries(0),
		option.WithRequestTimeout(60 * time.Second),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	api := openai.NewClient(opts...)

	c := &Client{
		selector:   selector,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		baseDelay:  500 * time.Millisecond,
	}
	c.complete = func(ctx context.Context, model string, messages []Message) (string, error) {
		return completeWith(ctx, &api, model, messages)
	}
	return c, nil
}

// Selector exposes the shared model cache
func (c *Client) Selector() *ModelSelector {
	return c.selector
}

// Complete returns the first answer any candidate model produces. Errors are
// mapped to domain.ErrAIMisconfigured, ErrAIRateLimited or ErrAIUnavailable.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	candidates := c.selector.Candidates()
	cached := c.selector.Current()

	for _, model := range candidates {
		answer, err := c.completeWithRetry(ctx, model, messages)
		if err == nil {
			if model != cached {
				c.logger.Info("AI model selected", zap.String("model", model))
			}
			c.selector.Remember(model)
			return answer, nil
		}

		kind := classify(err)
		if kind != errModelNotFound {
			c.logger.Error("AI completion failed", zap.String("model", model), zap.Error(err))
			return "", kind.domainError()
		}

		if model == cached {
			c.selector.Reset()
		}
		c.logger.Warn("AI model unavailable, trying next", zap.String("model", model), zap.Error(err))
	}

	return "", domain.ErrAIUnavailable
}

func (c *Client) completeWithRetry(ctx context.Context, model string, messages []Message) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay * time.Duration(1<<uint(attempt-1))
			c.logger.Info("retrying AI request",
				zap.String("model", model),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		answer, err := c.complete(ctx, model, messages)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		if classify(err) != errTransient {
			break
		}
	}
	return "", lastErr
}

func completeWith(ctx context.Context, api *openai.Client, model string, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toParams(messages),
	}

	resp, err := api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyAnswer
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errEmptyAnswer
	}
	return content, nil
}

func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

var errEmptyAnswer = errors.New("empty answer from AI model")

type errorKind int

const (
	errUnavailable errorKind = iota
	errTransient
	errModelNotFound
	errMisconfigured
	errRateLimited
)

func (k errorKind) domainError() error {
	switch k {
	case errMisconfigured:
		return domain.ErrAIMisconfigured
	case errRateLimited:
		return domain.ErrAIRateLimited
	default:
		return domain.ErrAIUnavailable
	}
}

// classify sorts an upstream failure. Status codes win over message text.
func classify(err error) errorKind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errUnavailable
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return errModelNotFound
		case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
			return errMisconfigured
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return errRateLimited
		case apiErr.StatusCode >= 500:
			return errTransient
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, errEmptyAnswer) {
		return errTransient
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found") || strings.Contains(msg, "404"):
		return errModelNotFound
	case strings.Contains(msg, "api key") || strings.Contains(msg, "401") || strings.Contains(msg, "403"):
		return errMisconfigured
	case strings.Contains(msg, "quota") || strings.Contains(msg, "limit") || strings.Contains(msg, "429"):
		return errRateLimited
	}
	return errUnavailable
}
