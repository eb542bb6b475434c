package controllers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hermes/hermes/agents/core"
	"hermes/hermes/sources/sqlstore/models"
	"hermes/hermes/utils/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgent struct {
	mu       sync.Mutex
	answer   core.Answer
	err      error
	delay    time.Duration
	question string
}

func (s *stubAgent) Run(ctx context.Context, question string, onStep func(core.Step)) (core.Answer, error) {
	s.mu.Lock()
	s.question = question
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return core.Answer{}, ctx.Err()
		}
	}
	if onStep != nil {
		onStep(core.Step{Type: core.StepToolCall, Tool: "delay_stats_by_reason"})
	}
	return s.answer, s.err
}

type memoryStore struct {
	mu   sync.Mutex
	recs []models.ChatInteraction
	err  error
}

func (m *memoryStore) Append(_ context.Context, rec *models.ChatInteraction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	rec.ID = uint(len(m.recs) + 1)
	m.recs = append(m.recs, *rec)
	return nil
}

func (m *memoryStore) ListByUser(_ context.Context, userID string, limit int) ([]models.ChatInteraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ChatInteraction
	for _, r := range m.recs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func TestChatPersistsInteraction(t *testing.T) {
	agent := &stubAgent{answer: core.Answer{Text: "Weather caused most delays.", Model: "gemini-2.0-flash", ToolsUsed: []string{"delay_stats_by_reason"}}}
	store := &memoryStore{}
	ctrl := NewChatController(agent, store, time.Minute)
	clock := []time.Time{
		time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 10, 0, 1, 250_000_000, time.UTC),
	}
	ctrl.now = func() time.Time {
		t := clock[0]
		clock = clock[1:]
		return t
	}

	var steps int
	resp, err := ctrl.Chat(context.Background(), "session-1", types.ChatRequest{Content: "  Why are shipments late?  "},
		func(core.Step) { steps++ })
	require.NoError(t, err)

	assert.Equal(t, "Why are shipments late?", agent.question)
	assert.Equal(t, 1, steps)
	assert.Equal(t, "Weather caused most delays.", resp.Response)
	assert.Equal(t, 1250.0, resp.ResponseTimeMs)
	assert.Equal(t, "session-1", resp.UserID)

	require.Len(t, store.recs, 1)
	rec := store.recs[0]
	assert.Equal(t, "Why are shipments late?", rec.UserMessage)
	assert.Equal(t, "2024-02-01T10:00:00.000Z", rec.UserTimestamp)
	assert.Equal(t, "2024-02-01T10:00:01.250Z", rec.AssistantTimestamp)
	assert.Equal(t, 1250.0, rec.ResponseTimeMs)
	require.NotNil(t, rec.ModelName)
	assert.Equal(t, "gemini-2.0-flash", *rec.ModelName)

	history, err := ctrl.History(context.Background(), "session-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec.UserTimestamp, history[0].UserTimestamp)
}

func TestChatRejectsEmptyQuestion(t *testing.T) {
	store := &memoryStore{}
	_, err := NewChatController(&stubAgent{}, store, 0).Chat(context.Background(), "u", types.ChatRequest{Content: " "}, nil)
	assert.ErrorIs(t, err, core.ErrEmptyQuestion)
	assert.Empty(t, store.recs)
}

func TestChatSurfacesPersistenceFailure(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	ctrl := NewChatController(&stubAgent{answer: core.Answer{Text: "ok"}}, store, 0)
	_, err := ctrl.Chat(context.Background(), "u", types.ChatRequest{Content: "q"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
}

func TestChatDoesNotPersistAgentFailure(t *testing.T) {
	store := &memoryStore{}
	ctrl := NewChatController(&stubAgent{err: errors.New("model unavailable")}, store, 0)
	_, err := ctrl.Chat(context.Background(), "u", types.ChatRequest{Content: "q"}, nil)
	require.Error(t, err)
	assert.Empty(t, store.recs)
}

func TestChatTimeout(t *testing.T) {
	store := &memoryStore{}
	ctrl := NewChatController(&stubAgent{delay: time.Second}, store, 10*time.Millisecond)
	_, err := ctrl.Chat(context.Background(), "u", types.ChatRequest{Content: "q"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestChatConcurrentSessions(t *testing.T) {
	store := &memoryStore{}
	ctrl := NewChatController(&stubAgent{answer: core.Answer{Text: "a"}}, store, 0)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ctrl.Chat(context.Background(), "u", types.ChatRequest{Content: "q"}, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, store.recs, 16)
}
