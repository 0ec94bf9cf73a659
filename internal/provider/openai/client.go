// Package openai adapts the OpenAI chat completions API to
// scholar.ChatProvider. Any server speaking the same API, such as Ollama's
// /v1 endpoint, works through WithBaseURL.
package openai

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	ai "github.com/spetersoncode/scholar"
)

// Default models.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultOllamaModel = "llama3.1:8b"
	DefaultOllamaURL   = "http://localhost:11434/v1"
)

// Client wraps the OpenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *openai.Client
	model  string
}

// ClientOption configures the OpenAI client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model   string
	baseURL string
	sdkOpts []option.RequestOption
}

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithBaseURL points the client at an OpenAI-compatible server.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithRequestOptions passes options through to the SDK.
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(c *clientConfig) {
		c.sdkOpts = append(c.sdkOpts, opts...)
	}
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := &clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	sdkOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(cfg.baseURL))
	}
	// Retries are decided by the caller.
	sdkOpts = append(sdkOpts, option.WithMaxRetries(0))
	sdkOpts = append(sdkOpts, cfg.sdkOpts...)

	client := openai.NewClient(sdkOpts...)
	return &Client{client: &client, model: cfg.model}
}

// NewOllama creates a client for an Ollama server's OpenAI-compatible API.
// Ollama ignores the API key but the SDK requires one.
func NewOllama(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	opts = append([]ClientOption{WithModel(DefaultOllamaModel), WithBaseURL(baseURL)}, opts...)
	return New("ollama", opts...)
}

// Model returns the default model.
func (c *Client) Model() string { return c.model }

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: response has no choices")
	}

	choice := resp.Choices[0]
	return &ai.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		ToolCalls: extractToolCalls(choice.Message),
	}, nil
}

var _ ai.ChatProvider = (*Client)(nil)
