package server

import (
	"context"
	"strings"

	"github.com/jonathan/cv-editor/internal/llm"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	StreamFunc       func(ctx context.Context, prompt string, tier llm.ModelTier) (<-chan llm.Chunk, error)
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return m.GenerateJSON(ctx, prompt, tier)
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return improveResponse(prompt), nil
}

func (m *MockLLMClient) Stream(ctx context.Context, prompt string, tier llm.ModelTier) (<-chan llm.Chunk, error) {
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, prompt, tier)
	}
	return streamOf(ctx, `{"en": "Improved`, ` summary", "es": "Resumen mejorado"}`), nil
}

func (m *MockLLMClient) GetModel(llm.ModelTier) string {
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	return nil
}

// streamOf emits each part as a chunk followed by a Done chunk.
func streamOf(ctx context.Context, parts ...string) <-chan llm.Chunk {
	out := make(chan llm.Chunk)
	go func() {
		defer close(out)
		for _, p := range parts {
			select {
			case out <- llm.Chunk{Text: p}:
			case <-ctx.Done():
				return
			}
		}
		select {
		case out <- llm.Chunk{Done: true}:
		case <-ctx.Done():
		}
	}()
	return out
}

// blockingStream emits nothing until ctx is canceled, then closes.
func blockingStream(ctx context.Context) <-chan llm.Chunk {
	out := make(chan llm.Chunk)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out
}

// improveResponse answers each improve prompt with a well-formed result.
func improveResponse(prompt string) string {
	switch {
	case strings.Contains(prompt, "skill taxonomies"):
		return `{"Languages": ["Go", "SQL"]}`
	case strings.Contains(prompt, "professional summary"):
		return `{"en": "Improved", "es": "Mejorado"}`
	case strings.Contains(prompt, "education entries"):
		return `{"en": [], "es": []}`
	default:
		return `{
  "en": [{"title": "Lead", "company": "Acme", "period": "2020 — Present", "responsibilities": ["Led"]}],
  "es": [{"title": "Líder", "company": "Acme", "period": "2020 — Actualidad", "responsibilities": ["Lideró"]}]
}`
	}
}
