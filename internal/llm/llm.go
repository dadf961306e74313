package llm

import (
	"context"
	"errors"
)

// Client abstracts a text-generation model.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("model returned an empty response")
