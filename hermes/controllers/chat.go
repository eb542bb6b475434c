// hermes/controllers/chat.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hermes/hermes/agents/core"
	"hermes/hermes/sources/sqlstore/models"
	"hermes/hermes/utils/logging"
	"hermes/hermes/utils/metrics"
	"hermes/hermes/utils/types"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// TimestampLayout is ISO-8601 with millisecond precision, always in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrPersistence wraps failures to record an interaction.
var ErrPersistence = errors.New("failed to record interaction")

// Agent answers questions. core.HermesAgent implements it.
type Agent interface {
	Run(ctx context.Context, question string, onStep func(core.Step)) (core.Answer, error)
}

// InteractionStore is the append-only interaction log.
type InteractionStore interface {
	Append(ctx context.Context, rec *models.ChatInteraction) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ChatInteraction, error)
}

type ChatController struct {
	agent   Agent
	store   InteractionStore
	timeout time.Duration
	now     func() time.Time
}

func NewChatController(agent Agent, store InteractionStore, timeout time.Duration) *ChatController {
	return &ChatController{agent: agent, store: store, timeout: timeout, now: time.Now}
}

// Chat answers one question and appends the exchange to the log. The record
// is only written once the agent has produced a reply.
func (c *ChatController) Chat(ctx context.Context, userID string, req types.ChatRequest, onStep func(core.Step)) (types.ChatResponse, error) {
	question := strings.TrimSpace(req.Content)
	if question == "" {
		return types.ChatResponse{}, core.ErrEmptyQuestion
	}

	userTS := c.now().UTC()
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ans, err := c.agent.Run(runCtx, question, onStep)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return types.ChatResponse{}, fmt.Errorf("agent timed out after %s: %w", c.timeout, err)
		}
		return types.ChatResponse{}, err
	}
	assistantTS := c.now().UTC()
	elapsedMs := float64(assistantTS.Sub(userTS).Microseconds()) / 1000

	rec := &models.ChatInteraction{
		UserID:             userID,
		UserMessage:        question,
		AssistantMessage:   ans.Text,
		UserTimestamp:      userTS.Format(TimestampLayout),
		AssistantTimestamp: assistantTS.Format(TimestampLayout),
		ResponseTimeMs:     elapsedMs,
	}
	if ans.Model != "" {
		model := ans.Model
		rec.ModelName = &model
	}
	// persisted even if the caller has gone away
	if err := c.store.Append(context.WithoutCancel(ctx), rec); err != nil {
		metrics.InteractionsPersisted.WithLabelValues(metrics.ResultError).Inc()
		logging.ErrorLogger.Error("persist interaction failed", zap.String("user_id", userID), zap.Error(err))
		return types.ChatResponse{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	metrics.InteractionsPersisted.WithLabelValues(metrics.ResultOK).Inc()

	return types.ChatResponse{
		Response:       ans.Text,
		UserID:         userID,
		Model:          ans.Model,
		ResponseTimeMs: elapsedMs,
		ToolsUsed:      ans.ToolsUsed,
	}, nil
}

// History returns a user's logged exchanges, oldest first.
func (c *ChatController) History(ctx context.Context, userID string, limit int) ([]types.Interaction, error) {
	recs, err := c.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]types.Interaction, 0, len(recs))
	for _, r := range recs {
		out = append(out, ToInteraction(r))
	}
	return out, nil
}

func ToInteraction(r models.ChatInteraction) types.Interaction {
	return types.Interaction{
		ID:                 r.ID,
		UserID:             r.UserID,
		UserMessage:        r.UserMessage,
		AssistantMessage:   r.AssistantMessage,
		UserTimestamp:      r.UserTimestamp,
		AssistantTimestamp: r.AssistantTimestamp,
		ResponseTimeMs:     r.ResponseTimeMs,
		ModelName:          r.ModelName,
	}
}

// ChatWebSocket answers one question over an accepted connection, sending a
// "step" frame per tool event and a final "answer" or "error" frame.
func (c *ChatController) ChatWebSocket(ctx context.Context, conn *websocket.Conn, userID string, req types.ChatRequest) {
	send := func(ev types.WSEvent) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		return conn.Write(ctx, websocket.MessageText, data)
	}

	resp, err := c.Chat(ctx, userID, req, func(s core.Step) {
		if err := send(types.WSEvent{Type: "step", Payload: s}); err != nil {
			logging.ErrorLogger.Error("websocket write error", zap.Error(err))
		}
	})
	if err != nil {
		if werr := send(types.WSEvent{Type: "error", Payload: err.Error()}); werr != nil {
			logging.ErrorLogger.Error("websocket write error", zap.Error(werr))
		}
		conn.Close(websocket.StatusInternalError, "chat failed")
		return
	}
	if err := send(types.WSEvent{Type: "answer", Payload: resp}); err != nil {
		logging.ErrorLogger.Error("websocket write error", zap.Error(err))
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}
