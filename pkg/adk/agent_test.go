package adk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/regnav/pkg/engine"
)

type fakeLLM struct {
	out     string
	err     error
	history []Message
}

func (f *fakeLLM) Generate(ctx context.Context, history []Message) (string, error) {
	f.history = history
	return f.out, f.err
}

func (f *fakeLLM) ListModels(ctx context.Context) ([]string, error) {
	return []string{"fake-1"}, nil
}

var testReqs = []engine.Requirement{
	{ID: "minimum_capital_p2p", Category: "Capital", Title: "Minimum capital"},
	{ID: "data_residency", Category: "Data", Title: "Data residency"},
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantIDs []string
		wantErr bool
	}{
		{
			name:    "plain json",
			input:   `{"requirements":[{"id":"a","status":"compliant"}],"recommendations":["x"]}`,
			wantIDs: []string{"a"},
		},
		{
			name:    "fenced json",
			input:   "Here you go:\n```json\n{\"requirements\":[{\"id\":\"b\"}]}\n```\nThanks",
			wantIDs: []string{"b"},
		},
		{
			name:    "prose around object",
			input:   `Result: {"requirements":[{"id":"c"},{"id":"d"}]} done`,
			wantIDs: []string{"c", "d"},
		},
		{name: "empty", input: "   ", wantErr: true},
		{name: "not json", input: "I cannot help with that", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			var ids []string
			for _, f := range resp.Requirements {
				ids = append(ids, f.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFindingsAgentEvaluate(t *testing.T) {
	llm := &fakeLLM{out: `{"requirements":[{"id":"data_residency","status":"partial","found_in_document":"compliance_policy"}],"recommendations":["Appoint a DPO"]}`}
	agent := NewFindingsAgent(llm, nil)

	texts := map[engine.Document]string{
		engine.BusinessPlan:     "We lend to SMEs.",
		engine.CompliancePolicy: "Data is hosted abroad.",
		engine.LegalStructure:   "Paid-Up Capital: QAR 5,000,000",
	}
	resp, err := agent.Evaluate(context.Background(), texts, testReqs)
	require.NoError(t, err)
	require.Len(t, resp.Requirements, 1)
	assert.Equal(t, "partial", resp.Requirements[0].Status)
	assert.Equal(t, []string{"Appoint a DPO"}, resp.Recommendations)

	require.Len(t, llm.history, 2)
	assert.Equal(t, "system", llm.history[0].Role)
	assert.Contains(t, llm.history[1].Content, "minimum_capital_p2p")
	assert.Contains(t, llm.history[1].Content, "Data is hosted abroad.")
	assert.Contains(t, llm.history[1].Content, "QAR 5,000,000")
}

func TestFindingsAgentErrorsAreProviderErrors(t *testing.T) {
	t.Run("transport failure", func(t *testing.T) {
		agent := NewFindingsAgent(&fakeLLM{err: errors.New("timeout")}, nil)
		_, err := agent.Evaluate(context.Background(), nil, testReqs)
		assert.ErrorIs(t, err, engine.ErrProvider)
	})

	t.Run("garbage output", func(t *testing.T) {
		agent := NewFindingsAgent(&fakeLLM{out: "sorry"}, nil)
		_, err := agent.Evaluate(context.Background(), nil, testReqs)
		assert.ErrorIs(t, err, engine.ErrProvider)
	})
}

func TestSplitSystem(t *testing.T) {
	system, rest := splitSystem([]Message{
		{Role: "system", Content: "a"},
		{Role: "user", Content: "q"},
		{Role: "system", Content: "b"},
	})
	assert.Equal(t, "a\n\nb", system)
	assert.Equal(t, []Message{{Role: "user", Content: "q"}}, rest)
}

func TestAnthropicProviderGenerate(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"requirements\":[]}"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	p := NewAnthropicProviderWithBaseURL("test-key", "", srv.URL)
	out, err := p.Generate(context.Background(), []Message{
		{Role: "system", Content: "be strict"},
		{Role: "user", Content: "evaluate"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"requirements":[]}`, out)
	assert.Equal(t, "be strict", got.System)
	assert.Equal(t, "claude-opus-4-5", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestAnthropicProviderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProviderWithBaseURL("bad", "claude-haiku-4-5", srv.URL)
	_, err := p.Generate(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestOpenAIProviderGenerate(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"requirements\":[]}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	p := NewOpenAIProviderWithConfig(cfg, "")

	out, err := p.Generate(context.Background(), []Message{
		{Role: "system", Content: "be strict"},
		{Role: "user", Content: "evaluate"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"requirements":[]}`, out)
	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(context.Background(), "mistral", "k", "")
	assert.Error(t, err)
}
