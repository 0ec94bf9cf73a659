// Package google adapts Gemini models, through either the Gemini API or
// Vertex AI, to scholar.ChatProvider.
package google

import (
	"context"
	"strings"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/scholar"
)

// DefaultModel is used when neither the client nor the request names one.
const DefaultModel = "gemini-2.5-flash"

// Client wraps the Google GenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *genai.Client
	model  string
}

// ClientOption configures the Google client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model   string
	baseURL string
}

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// New creates a Gemini API client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	return newClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, opts)
}

// NewVertex creates a Vertex AI client for the given project and location.
// Authentication uses Application Default Credentials.
func NewVertex(ctx context.Context, project, location string, opts ...ClientOption) (*Client, error) {
	return newClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  project,
		Location: location,
	}, opts)
}

func newClient(ctx context.Context, cc *genai.ClientConfig, opts []ClientOption) (*Client, error) {
	cfg := &clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, model: cfg.model}, nil
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

	contents, system := convertMessages(messages)
	config := &genai.GenerateContentConfig{SystemInstruction: system}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
	}

	var content strings.Builder
	var toolCalls []ai.ToolCall
	finishReason := ""
	if len(resp.Candidates) > 0 {
		candidate := resp.Candidates[0]
		finishReason = string(candidate.FinishReason)
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" && !part.Thought {
					content.WriteString(part.Text)
				}
			}
			toolCalls = extractToolCalls(candidate.Content.Parts)
		}
	}

	usage := ai.Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &ai.Response{
		Content:      content.String(),
		FinishReason: finishReason,
		Usage:        usage,
		ToolCalls:    toolCalls,
	}, nil
}

var _ ai.ChatProvider = (*Client)(nil)
