package adk

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com"
	anthropicAPIVersion = "2023-06-01"
	anthropicMaxTokens  = 8192
)

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type AnthropicProvider struct {
	Model string
	httpc *resty.Client
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	return NewAnthropicProviderWithBaseURL(apiKey, model, anthropicBaseURL)
}

func NewAnthropicProviderWithBaseURL(apiKey, model, baseURL string) *AnthropicProvider {
	if model == "" {
		model = "claude-opus-4-5"
	}
	httpc := resty.New()
	httpc.SetBaseURL(baseURL)
	httpc.SetHeader("x-api-key", apiKey)
	httpc.SetHeader("anthropic-version", anthropicAPIVersion)
	return &AnthropicProvider{Model: model, httpc: httpc}
}

func (p *AnthropicProvider) ListModels(ctx context.Context) ([]string, error) {
	// Returning the standard supported models.
	return []string{
		"claude-sonnet-4-5",
		"claude-opus-4-5",
		"claude-haiku-4-5",
	}, nil
}

// Generate calls the Messages API and concatenates the text blocks of the answer
func (p *AnthropicProvider) Generate(ctx context.Context, history []Message) (string, error) {
	system, rest := splitSystem(history)
	if len(rest) == 0 {
		return "", fmt.Errorf("empty history")
	}

	req := anthropicRequest{
		Model:     p.Model,
		System:    system,
		MaxTokens: anthropicMaxTokens,
	}
	for _, msg := range rest {
		role := "user"
		if msg.Role == "model" {
			role = "assistant"
		}
		req.Messages = append(req.Messages, anthropicMessage{Role: role, Content: msg.Content})
	}

	var out anthropicResponse
	var apiErr anthropicError
	resp, err := p.httpc.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic API returned status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}

	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic returned no text (stop_reason=%s)", out.StopReason)
	}
	return sb.String(), nil
}
