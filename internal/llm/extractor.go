// Package llm exposes a provider-neutral interface for schema-constrained
// extraction over the supported model providers.
package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/AurisAASI/backend-core/internal/config"
	"github.com/AurisAASI/backend-core/pkg/anthropic"
	"github.com/AurisAASI/backend-core/pkg/gemini"
)

// Extractor turns a prompt into JSON constrained by the given schema.
type Extractor interface {
	Extract(ctx context.Context, prompt string, schema []byte) ([]byte, error)
}

// New builds the extractor selected by config.
func New(cfg config.LLMConfig) (Extractor, error) {
	switch cfg.Provider {
	case "gemini":
		return &GeminiExtractor{
			Client: gemini.NewClient(cfg.GeminiKey, cfg.GeminiModel,
				gemini.WithBaseURL(cfg.GeminiBaseURL)),
		}, nil
	case "anthropic":
		return &AnthropicExtractor{
			Client: anthropic.NewClient(cfg.AnthropicKey),
			Model:  cfg.AnthropicModel,
		}, nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// GeminiExtractor uses Gemini's native responseSchema constraint.
type GeminiExtractor struct {
	Client gemini.Client
}

func (e *GeminiExtractor) Extract(ctx context.Context, prompt string, schema []byte) ([]byte, error) {
	out, err := e.Client.Generate(ctx, prompt, json.RawMessage(schema))
	if err != nil {
		return nil, eris.Wrap(err, "llm: gemini extract")
	}
	return []byte(out), nil
}

// AnthropicExtractor constrains output through the system prompt and strips
// any code fencing the model wraps around the JSON.
type AnthropicExtractor struct {
	Client anthropic.Client
	Model  string
}

func (e *AnthropicExtractor) Extract(ctx context.Context, prompt string, schema []byte) ([]byte, error) {
	temp := 0.0
	resp, err := e.Client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.Model,
		MaxTokens: 4096,
		System: "Respond with a single JSON object matching this JSON schema, " +
			"with no surrounding text:\n" + string(schema),
		Prompt:      prompt,
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: anthropic extract")
	}
	return []byte(stripFences(resp.Text)), nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
