package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hermes/hermes/agents/actions"
	"hermes/hermes/agents/configs"
	"hermes/hermes/services/llm"
	"hermes/hermes/utils/jsonutils"
	"hermes/hermes/utils/logging"
	"hermes/hermes/utils/metrics"

	"go.uber.org/zap"
)

const (
	StepToolCall   = "tool_call"
	StepToolResult = "tool_result"
)

var ErrEmptyQuestion = errors.New("question must not be empty")

// Step reports one tool invocation while a question is being answered.
type Step struct {
	Type   string         `json:"type"`
	Round  int            `json:"round"`
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args,omitempty"`
	Result any            `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Answer is the final reply to one question.
type Answer struct {
	Text      string   `json:"text"`
	ToolsUsed []string `json:"tools_used"`
	Model     string   `json:"model"`
	Fallback  bool     `json:"fallback"`
}

// HermesAgent answers one question at a time by letting the model call the
// analytics actions. It keeps no conversation state between questions, so
// a single instance can serve concurrent callers.
type HermesAgent struct {
	Name    string
	LLM     llm.Client
	Model   string
	Config  *configs.AgentConfig
	actions actions.Executor
	tools   []llm.Tool
}

func NewHermesAgent(client llm.Client, model string, cfg *configs.AgentConfig, executor actions.Executor) *HermesAgent {
	if cfg == nil {
		cfg = configs.Default()
	}
	defs := executor.Definitions()
	tools := make([]llm.Tool, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, llm.Tool{
			Name:        string(d.Name),
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	agent := &HermesAgent{
		Name:    cfg.AgentName,
		LLM:     client,
		Model:   model,
		Config:  cfg,
		actions: executor,
		tools:   tools,
	}
	logging.AppLogger.Info("HermesAgent initialized",
		zap.String("agent_name", cfg.AgentName),
		zap.String("provider", client.Provider()),
		zap.String("model", model),
		zap.Int("tools", len(tools)),
	)
	return agent
}

// Ask returns only the answer text.
func (a *HermesAgent) Ask(ctx context.Context, question string) (string, error) {
	ans, err := a.Run(ctx, question, nil)
	if err != nil {
		return "", err
	}
	return ans.Text, nil
}

// Run answers a question in a fresh conversation. onStep, if set, is called
// synchronously for every tool call and result.
//
// Final text fragments are trimmed, blank ones dropped and the rest joined
// with newlines. No fragments at all yields the configured fallback message.
// A model failure is returned as an error; a failing tool is reported back
// to the model as an error result instead.
func (a *HermesAgent) Run(ctx context.Context, question string, onStep func(Step)) (Answer, error) {
	if strings.TrimSpace(question) == "" {
		return Answer{}, ErrEmptyQuestion
	}
	start := time.Now()
	defer func() { metrics.AgentLatency.Observe(time.Since(start).Seconds()) }()
	defer logging.LogDuration(ctx, "agent_run")()

	emit := func(s Step) {
		if onStep != nil {
			onStep(s)
		}
	}

	msgs := []llm.Message{{Role: llm.RoleUser, Content: question}}
	ans := Answer{Model: a.Model, ToolsUsed: []string{}}
	var fragments []string

	for round := 1; round <= a.Config.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			metrics.AgentRequests.WithLabelValues(metrics.ResultError).Inc()
			return Answer{}, err
		}
		resp, err := a.LLM.Chat(ctx, llm.ChatRequest{
			Model:       a.Model,
			System:      a.Config.Instruction,
			Messages:    msgs,
			Tools:       a.tools,
			Temperature: a.Config.Temperature,
			MaxTokens:   a.Config.MaxTokens,
		})
		if err != nil {
			metrics.AgentRequests.WithLabelValues(metrics.ResultError).Inc()
			logging.ErrorLogger.Error("llm call failed", zap.Int("round", round), zap.Error(err))
			return Answer{}, fmt.Errorf("llm call: %w", err)
		}
		if resp.Model != "" {
			ans.Model = resp.Model
		}
		if len(resp.ToolCalls) == 0 {
			fragments = resp.Texts
			break
		}

		msgs = append(msgs, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   strings.Join(resp.Texts, "\n"),
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			emit(Step{Type: StepToolCall, Round: round, Tool: call.Name, Args: call.Arguments})
			ans.ToolsUsed = append(ans.ToolsUsed, call.Name)
			msgs = append(msgs, a.runTool(ctx, round, call, emit))
		}
	}

	ans.Text = joinFragments(fragments)
	if ans.Text == "" {
		ans.Text = a.Config.FallbackMessage
		ans.Fallback = true
		metrics.AgentRequests.WithLabelValues(metrics.ResultFallback).Inc()
		logging.AppLogger.Warn("agent produced no answer", zap.Strings("tools_used", ans.ToolsUsed))
	} else {
		metrics.AgentRequests.WithLabelValues(metrics.ResultOK).Inc()
	}
	return ans, nil
}

// runTool executes one call and turns the outcome into a tool message.
func (a *HermesAgent) runTool(ctx context.Context, round int, call llm.ToolCall, emit func(Step)) llm.Message {
	msg := llm.Message{Role: llm.RoleTool, ToolCallID: call.ID, Name: call.Name}

	var result any
	err := call.ArgumentsError
	if err == nil {
		result, err = a.actions.ExecuteAction(ctx, call.Name, call.Arguments)
	}
	if err != nil {
		logging.AppLogger.Info("tool call failed", zap.String("tool", call.Name), zap.Error(err))
		msg.Content = jsonutils.ToJSON(map[string]string{"error": err.Error()})
		msg.IsError = true
		emit(Step{Type: StepToolResult, Round: round, Tool: call.Name, Error: err.Error()})
		return msg
	}
	msg.Content = jsonutils.ToJSON(result)
	emit(Step{Type: StepToolResult, Round: round, Tool: call.Name, Result: result})
	return msg
}

func joinFragments(fragments []string) string {
	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.TrimSpace(f); f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, "\n")
}
