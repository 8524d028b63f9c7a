package ai

import "context"

// AIProvider is the interface for chat backends.
type AIProvider interface {
	// Chat handles a conversation and returns the assistant response.
	Chat(ctx context.Context, messages []ChatMessage) (*ChatResponse, error)
}

// ChatMessage represents a message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatResponse represents a response from the AI chat.
type ChatResponse struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}
