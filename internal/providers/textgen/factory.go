package textgen

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Options selects and configures a provider.
type Options struct {
	Provider      string
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	HTTPClient    *http.Client
	OnWarning     func(reason, detail string)
}

// New builds the Generator named by opts.Provider. Gemini is the default.
func New(ctx context.Context, opts Options) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderGemini:
		return NewGeminiGenerator(ctx, GeminiOptions{
			APIKey:     opts.GeminiAPIKey,
			BaseURL:    opts.GeminiBaseURL,
			HTTPClient: opts.HTTPClient,
		})
	case ProviderOpenAI:
		return NewOpenAIGenerator(ctx, OpenAIOptions{
			APIKey:     opts.OpenAIAPIKey,
			BaseURL:    opts.OpenAIBaseURL,
			Model:      opts.OpenAIModel,
			HTTPClient: opts.HTTPClient,
			OnWarning:  opts.OnWarning,
		})
	default:
		return nil, fmt.Errorf("unknown textgen provider %q", opts.Provider)
	}
}
