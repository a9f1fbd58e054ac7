package assist

import (
	"context"

	"github.com/jonathan/cv-editor/internal/config"
	"github.com/jonathan/cv-editor/internal/llm"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
	StreamFunc          func(ctx context.Context, prompt string, tier llm.ModelTier) (<-chan llm.Chunk, error)
	GetModelFunc        func(tier llm.ModelTier) string
	CloseFunc           func() error
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return `{"en": "Mock summary", "es": "Resumen simulado"}`, nil
}

func (m *MockLLMClient) Stream(ctx context.Context, prompt string, tier llm.ModelTier) (<-chan llm.Chunk, error) {
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, prompt, tier)
	}
	return streamOf(ctx, `{"en": "Mock summary", "es": "Resumen simulado"}`), nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string {
	if m.GetModelFunc != nil {
		return m.GetModelFunc(tier)
	}
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
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

func newTestGateway(client llm.Client) *Gateway {
	return NewGateway(
		func(context.Context, config.AISettings) (llm.Client, error) { return client, nil },
		StaticSettings(config.AISettings{APIKey: "test-key"}),
	)
}
