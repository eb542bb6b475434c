// hermes/services/llm/llm.go
package llm

import (
	"context"
	"fmt"

	"hermes/hermes/config"
	"hermes/hermes/utils/metrics"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// GeminiBaseURL is Gemini's OpenAI-compatible endpoint.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// Message is one turn of a provider-neutral conversation. Assistant turns
// may carry ToolCalls; tool turns answer one call by ToolCallID.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
	IsError    bool       `json:"is_error,omitempty"`
}

// ToolCall is a function invocation requested by the model. ArgumentsError
// is set when the model sent arguments that are not a JSON object.
type ToolCall struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Arguments      map[string]any `json:"arguments"`
	ArgumentsError error          `json:"-"`
}

// Tool is a function the model may call. Parameters is a JSON schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type ChatRequest struct {
	Model       string
	System      string
	Messages    []Message
	Tools       []Tool
	Temperature float32
	MaxTokens   int
}

// Response is one model turn: zero or more text fragments and zero or more tool calls.
type Response struct {
	Texts            []string
	ToolCalls        []ToolCall
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Client sends one chat turn to a model.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (Response, error)
	Provider() string
}

// NewClient builds the client for the configured provider, wrapped in
// retries when LLM_MAX_RETRIES > 0.
func NewClient(cfg config.Config) (Client, error) {
	key, envName := cfg.APIKey()
	if key == "" {
		return nil, fmt.Errorf("%w: %s", config.ErrMissingCredential, envName)
	}

	var c Client
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		baseURL := cfg.LLMBaseURL
		if baseURL == "" {
			baseURL = GeminiBaseURL
		}
		c = NewOpenAIClient(string(config.ProviderGemini), key, baseURL)
	case config.ProviderOpenAI:
		c = NewOpenAIClient(string(config.ProviderOpenAI), key, cfg.LLMBaseURL)
	case config.ProviderAnthropic:
		c = NewAnthropicClient(key, cfg.LLMBaseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLMProvider)
	}

	if cfg.LLMMaxRetries > 0 {
		c = NewRetryingClient(c, cfg.LLMMaxRetries)
	}
	return c, nil
}

// recordUsage adds a response's token counts to the provider's totals.
func recordUsage(provider string, r Response) {
	metrics.LLMTokens.WithLabelValues(provider, metrics.TokensPrompt).Add(float64(r.PromptTokens))
	metrics.LLMTokens.WithLabelValues(provider, metrics.TokensCompletion).Add(float64(r.CompletionTokens))
}
