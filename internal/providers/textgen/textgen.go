// Package textgen adapts external generative-text services to a single
// request/response call.
package textgen

import (
	"context"
	"errors"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ErrEmptyResponse is returned when the service answers without text.
var ErrEmptyResponse = errors.New("textgen: empty response")

// Request is one generation call. Identical requests may be sent twice by
// callers that retry.
type Request struct {
	Model             string
	SystemInstruction string
	UserMessage       string
	Temperature       float32
	MaxOutputTokens   int32
}

// Generator returns the raw text produced for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc lets a plain function act as a Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ResolveModel reports the model id a provider will actually call for name.
// ok is false when the provider would fall back to its default instead.
func ResolveModel(provider, name string) (model string, ok bool) {
	switch provider {
	case ProviderOpenAI:
		resolved, reason := normalizeOpenAIModel(name)
		return resolved, reason != "defaulted"
	default:
		return name, name != ""
	}
}
