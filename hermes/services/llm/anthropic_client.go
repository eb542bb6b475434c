package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hermes/hermes/utils/logging"
	"hermes/hermes/utils/metrics"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const providerAnthropic = "anthropic"

// AnthropicClient talks to the Anthropic Messages API.
type AnthropicClient struct {
	client anthropic.Client
}

func NewAnthropicClient(apiKey, baseURL string) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicClient{client: anthropic.NewClient(opts...)}
}

func (c *AnthropicClient) Provider() string { return providerAnthropic }

func (c *AnthropicClient) Chat(ctx context.Context, req ChatRequest) (Response, error) {
	defer logging.LogDuration(ctx, "anthropic_chat")()

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Messages:    toAnthropicMessages(req.Messages),
		Tools:       toAnthropicTools(req.Tools),
		Temperature: anthropic.Float(float64(req.Temperature)),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		metrics.LLMCalls.WithLabelValues(providerAnthropic, metrics.ResultError).Inc()
		return Response{}, fmt.Errorf("anthropic messages: %w", err)
	}
	metrics.LLMCalls.WithLabelValues(providerAnthropic, metrics.ResultOK).Inc()
	out := fromAnthropicMessage(resp)
	recordUsage(providerAnthropic, out)
	return out, nil
}

// toAnthropicMessages folds consecutive tool results into a single user
// turn, which is how the Messages API expects them.
func toAnthropicMessages(msgs []Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	var pending []anthropic.ContentBlockParamUnion
	flush := func() {
		if len(pending) > 0 {
			out = append(out, anthropic.NewUserMessage(pending...))
			pending = nil
		}
	}

	for _, m := range msgs {
		switch m.Role {
		case RoleTool:
			pending = append(pending, anthropic.NewToolResultBlock(m.ToolCallID, m.Content, m.IsError))
		case RoleAssistant:
			flush()
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				args := tc.Arguments
				if args == nil {
					args = map[string]any{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, args, tc.Name))
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		default:
			flush()
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	flush()
	return out
}

func toAnthropicTools(tools []Tool) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		props, _ := t.Parameters["properties"].(map[string]any)
		required, _ := t.Parameters["required"].([]string)
		toolParam := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.Opt(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type:       "object",
				Properties: props,
				Required:   required,
			},
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &toolParam})
	}
	return out
}

func fromAnthropicMessage(resp *anthropic.Message) Response {
	out := Response{
		Model:            string(resp.Model),
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}
	for _, blk := range resp.Content {
		switch blk.Type {
		case "text":
			if text := blk.AsText().Text; text != "" {
				out.Texts = append(out.Texts, text)
			}
		case "tool_use":
			tu := blk.AsToolUse()
			call := ToolCall{ID: tu.ID, Name: tu.Name, Arguments: map[string]any{}}
			if len(tu.Input) > 0 {
				if err := json.Unmarshal(tu.Input, &call.Arguments); err != nil {
					logging.AppLogger.Warn("tool_use input is not a JSON object",
						zap.String("tool", tu.Name), zap.Error(err))
					call.Arguments = nil
					call.ArgumentsError = fmt.Errorf("arguments are not a JSON object: %w", err)
				}
			}
			out.ToolCalls = append(out.ToolCalls, call)
		}
	}
	return out
}

// anthropicStatus extracts the HTTP status from an Anthropic API error, or 0.
func anthropicStatus(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
