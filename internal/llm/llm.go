// Package llm adapts chat-completion providers to the conversation model
// used by the chat loop.
package llm

import (
	"context"
	"errors"

	"github.com/ajitpratap0/campus-advisor/internal/models"
)

// ErrEmptyResponse is returned when a provider answers without a message.
var ErrEmptyResponse = errors.New("completion returned no message")

// Tool describes a callable function offered to the model.
type Tool struct {
	Name        string
	Description string
	// Parameters is a JSON Schema object.
	Parameters map[string]any
}

// Request is one completion round.
type Request struct {
	Messages []models.Message
	Tools    []Tool
}

// Completer sends a conversation to a model and returns its assistant reply.
type Completer interface {
	Complete(ctx context.Context, req Request) (models.Message, error)
}
