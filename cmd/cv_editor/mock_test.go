package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-editor/internal/assist"
	"github.com/jonathan/cv-editor/internal/config"
	"github.com/jonathan/cv-editor/internal/db"
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
	switch {
	case strings.Contains(prompt, "skill taxonomies"):
		return `{"Languages": ["Go", "SQL"]}`, nil
	case strings.Contains(prompt, "professional summary"):
		return `{"en": "Improved", "es": "Mejorado"}`, nil
	case strings.Contains(prompt, "education entries"):
		return `{"en": [], "es": []}`, nil
	}
	return `{
  "en": [{"title": "Lead", "company": "Acme", "period": "2020 — Present", "responsibilities": ["Led"]}],
  "es": [{"title": "Líder", "company": "Acme", "period": "2020 — Actualidad", "responsibilities": ["Lideró"]}]
}`, nil
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

func newTestGateway(client llm.Client, apiKey string) *assist.Gateway {
	return assist.NewGateway(
		func(context.Context, config.AISettings) (llm.Client, error) { return client, nil },
		assist.StaticSettings(config.AISettings{APIKey: apiKey}),
	)
}

func newTestRepo(t *testing.T) *db.LocalDB {
	t.Helper()
	repo, err := db.OpenLocal(context.Background(), filepath.Join(t.TempDir(), "cv.db"))
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo
}

// newSampleDocument stores the sample CV and returns its ID.
func newSampleDocument(t *testing.T, repo db.Repository) string {
	t.Helper()
	rec, err := createDocument(context.Background(), repo, "")
	require.NoError(t, err)
	return rec.ID.String()
}

func mustParseID(t *testing.T, id string) uuid.UUID {
	t.Helper()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	return parsed
}
