// Package llm defines the language-model boundary used by every agent.
// Agents call models exclusively through Client.Generate; any backend
// satisfying the interface is interchangeable at construction time.
package llm

import (
	"context"
	"errors"
	"time"
)

// Message is one turn of a chat-style prompt
type Message struct {
	Role    string `json:"role"` // "system" or "user"
	Content string `json:"content"`
}

// Client is the single operation the core depends on
type Client interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

var (
	ErrMissingAPIKey  = errors.New("LLM API key not set")
	ErrEmptyResponse  = errors.New("LLM returned empty content")
	ErrGenerateFailed = errors.New("LLM generation failed")
)

const (
	maxRetries     = 3
	initialBackoff = time.Second
)

// UserMessage builds a single-turn prompt
func UserMessage(content string) []Message {
	return []Message{{Role: "user", Content: content}}
}
