package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	ai "github.com/spetersoncode/scholar"
)

// DefaultModel is used when neither the client nor the request names one.
const DefaultModel = "claude-sonnet-4-5"

const defaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement ai.ChatProvider.
type Client struct {
	client *anthropic.Client
	model  string
}

// ClientOption configures the Anthropic client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model   string
	sdkOpts []option.RequestOption
}

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithRequestOptions passes options through to the SDK.
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(c *clientConfig) {
		c.sdkOpts = append(c.sdkOpts, opts...)
	}
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := &clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	sdkOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, cfg.sdkOpts...)

	client := anthropic.NewClient(sdkOpts...)
	return &Client{client: &client, model: cfg.model}
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

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	content := ""
	var toolCalls []ai.ToolCall
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			content += block.Text
		case "tool_use":
			toolCalls = append(toolCalls, ai.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(block.Input),
			})
		}
	}

	return &ai.Response{
		Content:      content,
		FinishReason: string(resp.StopReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
		ToolCalls: toolCalls,
	}, nil
}

var _ ai.ChatProvider = (*Client)(nil)
