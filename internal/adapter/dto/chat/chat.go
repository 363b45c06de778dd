package chat

import (
	"encoding/json"
	"time"
)

// ChatRequest carries the conversation so far. Messages is decoded in the handler so
// that a missing or non-array value is reported precisely.
type ChatRequest struct {
	Messages json.RawMessage `json:"messages" swaggertype:"array,object"`
	Context  string          `json:"context,omitempty"`
	Model    string          `json:"model,omitempty"`
}

// MessageRequest is one turn of the conversation
type MessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the assistant reply
type ChatResponse struct {
	Response string `json:"response"`
}

// HistoryMessageResponse is one stored chat message
type HistoryMessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
