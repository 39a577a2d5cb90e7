package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultAPIURL = "https://api.anthropic.com/v1/messages"
	apiVersion    = "2023-06-01"
	defaultModel  = "claude-3-haiku-20240307"
	maxTokens     = 1024
)

// Client defines the interface for AI text generation.
type Client interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Option customizes the client.
type Option func(*anthropicClient)

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *anthropicClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithEndpoint points the client at another messages endpoint.
func WithEndpoint(url string) Option {
	return func(c *anthropicClient) {
		c.endpoint = url
	}
}

type anthropicClient struct {
	httpClient *resty.Client
	endpoint   string
	model      string
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string, opts ...Option) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(30 * time.Second)

	c := &anthropicClient{httpClient: client, endpoint: defaultAPIURL, model: defaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single user prompt and returns the concatenated text blocks.
func (c *anthropicClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []Message{{Role: "user", Content: prompt}},
	}

	var respBody messageResponse
	var errBody apiError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&errBody).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		if errBody.Error.Message != "" {
			return "", fmt.Errorf("anthropic api error: status=%d type=%s message=%s", resp.StatusCode(), errBody.Error.Type, errBody.Error.Message)
		}
		return "", fmt.Errorf("anthropic api error: status=%d body=%s", resp.StatusCode(), resp.String())
	}

	var sb strings.Builder
	for _, block := range respBody.Content {
		if block.Type != "" && block.Type != "text" {
			continue
		}
		sb.WriteString(block.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty response from ai")
	}
	return text, nil
}
