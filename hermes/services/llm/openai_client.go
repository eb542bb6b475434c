package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hermes/hermes/utils/jsonutils"
	"hermes/hermes/utils/logging"
	"hermes/hermes/utils/metrics"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient talks to any OpenAI-compatible chat completions API.
// Gemini is reached this way through GeminiBaseURL.
type OpenAIClient struct {
	client   *openai.Client
	provider string
}

func NewOpenAIClient(provider, apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	return &OpenAIClient{
		client:   openai.NewClientWithConfig(cfg),
		provider: provider,
	}
}

func (c *OpenAIClient) Provider() string { return c.provider }

// Chat executes a single non-streaming completion with tools.
func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (Response, error) {
	defer logging.LogDuration(ctx, c.provider+"_chat")()

	oaReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    toOpenAIMessages(req.System, req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if len(req.Tools) > 0 {
		oaReq.Tools = toOpenAITools(req.Tools)
		oaReq.ToolChoice = "auto"
	}

	resp, err := c.client.CreateChatCompletion(ctx, oaReq)
	if err != nil {
		metrics.LLMCalls.WithLabelValues(c.provider, metrics.ResultError).Inc()
		return Response{}, fmt.Errorf("%s chat completion: %w", c.provider, err)
	}
	metrics.LLMCalls.WithLabelValues(c.provider, metrics.ResultOK).Inc()
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("%s chat completion: no choices in response", c.provider)
	}
	out := fromOpenAIResponse(resp)
	recordUsage(c.provider, out)
	return out, nil
}

func toOpenAIMessages(system string, msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range msgs {
		switch m.Role {
		case RoleAssistant:
			msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: m.Content}
			for _, tc := range m.ToolCalls {
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: argumentsJSON(tc.Arguments),
					},
				})
			}
			out = append(out, msg)
		case RoleTool:
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Content,
				Name:       m.Name,
				ToolCallID: m.ToolCallID,
			})
		default:
			out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: m.Content})
		}
	}
	return out
}

func toOpenAITools(tools []Tool) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

func fromOpenAIResponse(resp openai.ChatCompletionResponse) Response {
	msg := resp.Choices[0].Message
	out := Response{
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
	if msg.Content != "" {
		out.Texts = append(out.Texts, msg.Content)
	}
	for i, tc := range msg.ToolCalls {
		id := tc.ID
		if id == "" {
			// some compatible endpoints omit call ids
			id = fmt.Sprintf("call_%d", i)
		}
		call := ToolCall{ID: id, Name: tc.Function.Name}
		args, err := jsonutils.ParseObject(tc.Function.Arguments)
		if err != nil {
			logging.AppLogger.Warn("tool call arguments are not a JSON object",
				zap.String("tool", tc.Function.Name), zap.String("arguments", tc.Function.Arguments))
			call.ArgumentsError = fmt.Errorf("arguments are not a JSON object: %w", err)
		}
		call.Arguments = args
		out.ToolCalls = append(out.ToolCalls, call)
	}
	return out
}

func argumentsJSON(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}
	return jsonutils.ToJSON(args)
}

// openAIStatus extracts the HTTP status from an OpenAI API error, or 0.
func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
