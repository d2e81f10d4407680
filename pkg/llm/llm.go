package llm

import "context"

// Roles understood by every provider adapter.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one prior turn handed to the model.
type Message struct {
	Role    string
	Content string
}

// ChatModel is a minimal abstraction for chat-based LLMs used by the domain.
// It hides concrete providers to preserve dependency direction.
type ChatModel interface {
	// Chat sends message with the prior history and returns the model reply.
	Chat(ctx context.Context, history []Message, message string) (string, error)
}

// GenerationParams are fixed per deployment and passed through to the provider.
type GenerationParams struct {
	Temperature     float32
	TopP            float32
	TopK            int
	MaxOutputTokens int
}
