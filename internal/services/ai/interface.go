// File: internal/services/ai/interface.go
package ai

import "context"

// Role of a prior turn in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one earlier message replayed to the model as context.
type Turn struct {
	Role    Role
	Content string
}

// CompletionRequest describes a single chat completion call.
type CompletionRequest struct {
	System      string
	History     []Turn
	Prompt      string
	Temperature float32
	// JSON asks the model for a JSON object response.
	JSON bool
}

// CompletionProvider handles chat completions.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	StreamComplete(ctx context.Context, req CompletionRequest, onDelta func(string) error) error
	HealthCheck(ctx context.Context) error
}
