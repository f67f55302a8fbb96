package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Sla0ui/uxlens/internal/models"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// AzureClient talks to an Azure OpenAI chat deployment
type AzureClient struct {
	client     openai.Client
	deployment string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewAzureClient builds a client from the model settings. It fails when the
// credentials are incomplete.
func NewAzureClient(config models.ModelConfig, logger *slog.Logger, opts ...option.RequestOption) (*AzureClient, error) {
	if !config.Configured() {
		return nil, &models.NotConfiguredError{Missing: config.Missing()}
	}
	if logger == nil {
		logger = slog.Default()
	}

	base := fmt.Sprintf("%s/openai/deployments/%s/", strings.TrimRight(config.Endpoint, "/"), config.Deployment)
	options := []option.RequestOption{
		option.WithBaseURL(base),
		option.WithAPIKey(config.APIKey),
		option.WithHeader("api-key", config.APIKey),
		option.WithQuery("api-version", config.APIVersion),
		option.WithMaxRetries(config.MaxRetries),
	}
	options = append(options, opts...)

	return &AzureClient{
		client:     openai.NewClient(options...),
		deployment: config.Deployment,
		timeout:    config.Timeout,
		logger:     logger,
	}, nil
}

func (c *AzureClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.deployment),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	start := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}

	var content string
	if len(completion.Choices) > 0 {
		content = completion.Choices[0].Message.Content
	}
	c.logger.Info("model replied",
		"deployment", c.deployment,
		"duration", time.Since(start).Round(time.Millisecond),
		"chars", len(content))
	return content, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		kind := KindServer
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = KindAuth
		case http.StatusTooManyRequests:
			kind = KindRateLimit
		}
		return &CompletionError{Kind: kind, StatusCode: apiErr.StatusCode, Err: err}
	}
	return &CompletionError{Kind: KindTransport, Err: err}
}
