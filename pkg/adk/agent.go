package adk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/user/regnav/pkg/engine"
)

// Message represents a chat message
type Message struct {
	Role    string // "system", "user", "model"
	Content string
}

// LLMProvider defines the interface for different AI models
type LLMProvider interface {
	Generate(ctx context.Context, history []Message) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// FindingsAgent asks an LLM for a structured compliance opinion. It
// implements engine.FindingsProvider.
type FindingsAgent struct {
	llm    LLMProvider
	logger hclog.Logger
}

// NewFindingsAgent creates a findings agent backed by the given LLM provider
func NewFindingsAgent(llm LLMProvider, logger hclog.Logger) *FindingsAgent {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FindingsAgent{llm: llm, logger: logger}
}

// Evaluate renders the evaluation prompt, calls the model once and parses its
// JSON answer. Any failure is reported as engine.ErrProvider.
func (a *FindingsAgent) Evaluate(ctx context.Context, texts map[engine.Document]string, reqs []engine.Requirement) (*engine.ProviderResponse, error) {
	prompt, err := RenderEvaluationPrompt(reqs, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrProvider, err)
	}

	history := []Message{
		{Role: "system", Content: GetSystemPrompt()},
		{Role: "user", Content: prompt},
	}
	a.logger.Debug("requesting findings", "requirements", len(reqs), "prompt_bytes", len(prompt))

	out, err := a.llm.Generate(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrProvider, err)
	}

	resp, err := ParseResponse(out)
	if err != nil {
		a.logger.Debug("unparseable provider output", "output", out)
		return nil, fmt.Errorf("%w: %v", engine.ErrProvider, err)
	}
	a.logger.Debug("received findings", "findings", len(resp.Requirements), "recommendations", len(resp.Recommendations))
	return resp, nil
}

// ParseResponse extracts the JSON object from a model answer. Markdown code
// fences and surrounding prose are tolerated.
func ParseResponse(text string) (*engine.ProviderResponse, error) {
	body := strings.TrimSpace(text)
	if i := strings.Index(body, "```json"); i >= 0 {
		body = body[i+len("```json"):]
		if j := strings.Index(body, "```"); j >= 0 {
			body = body[:j]
		}
	} else if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("empty model output")
	}

	var resp engine.ProviderResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("model output is not a findings object: %v", err)
	}
	return &resp, nil
}

// splitSystem separates system messages from the conversation
func splitSystem(history []Message) (string, []Message) {
	var system []string
	var rest []Message
	for _, m := range history {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
