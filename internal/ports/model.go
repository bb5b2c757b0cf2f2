package ports

import "context"

// ModelPort defines the interface for the language-model backend used by
// the in-game rules assistant.
type ModelPort interface {
	// Complete sends a prompt and returns the model's reply text.
	Complete(ctx context.Context, prompt string) (string, error)
}
