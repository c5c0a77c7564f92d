// Package ai holds the chat and embedding provider contracts and their
// OpenAI and Vertex Gemini implementations. Either provider may be absent
// at runtime; callers degrade instead of failing.
package ai

import "context"

type ChatMessage struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

type ChatRequest struct {
	System      string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
}

type ChatProvider interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	Close() error
}

// Embedder converts text into a fixed-length vector. May be unavailable;
// a nil Embedder selects keyword search and skips embedding generation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
