package ai

import "context"

// ChatRequest is what the widget sends for one free-text submission.
type ChatRequest struct {
	Message string
	History []ChatMessage
}

// ChatResponse is the normalized reply. Content is empty when the endpoint
// answered without a usable response field.
type ChatResponse struct {
	Content string
	Model   string
}

// Provider defines the remote chat endpoint used by the widget.
type Provider interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error)
}
