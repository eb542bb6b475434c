// hermes/utils/types/chat.go
package types

type ChatRequest struct {
	Content string `json:"content"`
}

type ChatResponse struct {
	Response       string   `json:"response"`
	UserID         string   `json:"user_id"`
	Model          string   `json:"model,omitempty"`
	ResponseTimeMs float64  `json:"response_time_ms"`
	ToolsUsed      []string `json:"tools_used,omitempty"`
}

// Interaction is the API view of one logged exchange.
// Timestamps are ISO-8601 strings exactly as stored.
type Interaction struct {
	ID                 uint    `json:"id"`
	UserID             string  `json:"user_id"`
	UserMessage        string  `json:"user_message"`
	AssistantMessage   string  `json:"assistant_message"`
	UserTimestamp      string  `json:"user_timestamp"`
	AssistantTimestamp string  `json:"assistant_timestamp"`
	ResponseTimeMs     float64 `json:"response_time_ms"`
	ModelName          *string `json:"model_name,omitempty"`
}

// WSEvent is one frame sent over the chat websocket.
type WSEvent struct {
	Type    string `json:"type"` // "step", "answer" or "error"
	Payload any    `json:"payload"`
}
