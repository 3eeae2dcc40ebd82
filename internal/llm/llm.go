package llm

import (
	"context"
	"errors"
)

// Client abstracts the LLM completion provider. GenerateJSON invokes the
// provider in structured-output mode so the response is constrained to be
// parseable JSON; a negative temperature leaves the provider default in
// place. GenerateText returns plain prose.
type Client interface {
	GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Factory produces an independent client handle. The provider SDK is not
// guaranteed safe for uncoordinated concurrent use, so each batch worker
// obtains its own handle through a Factory instead of sharing one client.
type Factory func(ctx context.Context) (Client, error)

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub used when no provider is wired.
type PlaceholderClient struct{}

func (PlaceholderClient) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	_ = ctx
	_ = prompt
	_ = temperature
	return "", ErrNotConfigured
}

func (PlaceholderClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
