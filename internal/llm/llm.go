package llm

import "context"

// TextGenerator is an interface for a client that can turn a prompt into
// generated text.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
