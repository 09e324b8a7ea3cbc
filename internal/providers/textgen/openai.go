package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	OnWarning  func(reason, detail string)
}

// OpenAIGenerator talks to any OpenAI-compatible chat completions endpoint.
type OpenAIGenerator struct {
	chat      model.ToolCallingChatModel
	onWarning func(reason, detail string)
}

const defaultOpenAIModel = "gpt-4o-mini"

var openAIModelCanonical = map[string]string{
	"gpt-4o-mini":  "gpt-4o-mini",
	"gpt-4o":       "gpt-4o",
	"gpt-4.1-mini": "gpt-4.1-mini",
	"gpt-4.1":      "gpt-4.1",
}

var openAIModelAliases = map[string]string{
	"gpt4o-mini":             "gpt-4o-mini",
	"gpt4omini":              "gpt-4o-mini",
	"gpt-4o-mini-2024-07-18": "gpt-4o-mini",
	"gpt4o":                  "gpt-4o",
	"gpt-4o-2024-08-06":      "gpt-4o",
	"gpt41":                  "gpt-4.1",
	"gpt-41":                 "gpt-4.1",
	"gpt41-mini":             "gpt-4.1-mini",
	"gpt-41-mini":            "gpt-4.1-mini",
}

func NewOpenAIGenerator(ctx context.Context, opts OpenAIOptions) (*OpenAIGenerator, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	modelInput := strings.TrimSpace(opts.Model)
	resolved, reason := normalizeOpenAIModel(modelInput)
	if reason != "" && opts.OnWarning != nil {
		opts.OnWarning("model_"+reason, fmt.Sprintf("requested=%s resolved=%s", modelInput, resolved))
	}
	chat, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:    baseURL,
		APIKey:     strings.TrimSpace(opts.APIKey),
		Model:      resolved,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model: %w", err)
	}
	return &OpenAIGenerator{chat: chat, onWarning: opts.OnWarning}, nil
}

func (o *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(req.SystemInstruction),
		schema.UserMessage(req.UserMessage),
	}
	opts := []model.Option{
		model.WithTemperature(req.Temperature),
		model.WithMaxTokens(int(req.MaxOutputTokens)),
	}
	if req.Model != "" {
		resolved, reason := normalizeOpenAIModel(req.Model)
		if reason != "" && o.onWarning != nil {
			o.onWarning("model_"+reason, fmt.Sprintf("requested=%s resolved=%s", req.Model, resolved))
		}
		opts = append(opts, model.WithModel(resolved))
	}
	msg, err := o.chat.Generate(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(msg.Content), nil
}

// normalizeOpenAIModel maps loose model names onto supported ids. The
// second value is "alias" or "defaulted" when the input was rewritten.
func normalizeOpenAIModel(name string) (string, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return defaultOpenAIModel, ""
	}
	normalized := strings.ToLower(trimmed)
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	if canonical, ok := openAIModelCanonical[normalized]; ok {
		return canonical, ""
	}
	if alias, ok := openAIModelAliases[normalized]; ok {
		return alias, "alias"
	}
	return defaultOpenAIModel, "defaulted"
}
