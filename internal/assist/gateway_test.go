package assist

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-editor/internal/config"
	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/llm"
	"github.com/jonathan/cv-editor/internal/types"
)

func newSampleStore(t *testing.T) *document.Store {
	t.Helper()
	s, err := document.NewStore(types.SampleDocument())
	require.NoError(t, err)
	return s
}

func TestGateway_MissingAPIKey(t *testing.T) {
	called := false
	g := NewGateway(
		func(context.Context, config.AISettings) (llm.Client, error) {
			called = true
			return &MockLLMClient{}, nil
		},
		StaticSettings(config.AISettings{}),
	)

	_, err := g.Start(context.Background(), "doc-1", Request{Kind: KindImproveProfile}, types.SampleDocument())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.False(t, called)
	assert.False(t, g.Enabled(context.Background()))
	assert.False(t, g.Busy("doc-1"))
}

func TestGateway_StreamsProgressAndResult(t *testing.T) {
	client := &MockLLMClient{
		StreamFunc: func(ctx context.Context, prompt string, _ llm.ModelTier) (<-chan llm.Chunk, error) {
			if !strings.Contains(prompt, "professional summary") {
				return nil, errors.New("unexpected prompt")
			}
			return streamOf(ctx, "Here you go:\n```json\n", `{"en": "x", `, `"es": "y"}`, "\n```"), nil
		},
	}
	g := newTestGateway(client)
	store := newSampleStore(t)

	sub, err := g.Start(context.Background(), "doc-1", Request{Kind: KindImproveProfile}, store.Document())
	require.NoError(t, err)
	assert.True(t, g.Busy("doc-1"))

	var deltas []string
	var final Update
	for u := range sub.Updates() {
		if u.Done {
			final = u
			continue
		}
		deltas = append(deltas, u.Delta)
	}

	assert.Len(t, deltas, 4)
	require.NoError(t, final.Err)
	require.NotNil(t, final.Result)
	assert.Contains(t, final.Text, `"es": "y"`)

	require.NoError(t, Apply(store, final.Result))
	assert.Equal(t, types.NewLocalized("y", "x"), store.Document().Profile)

	assert.Eventually(t, func() bool { return !g.Busy("doc-1") }, time.Second, 5*time.Millisecond)
}

func TestGateway_Busy(t *testing.T) {
	client := &MockLLMClient{
		StreamFunc: func(ctx context.Context, _ string, _ llm.ModelTier) (<-chan llm.Chunk, error) {
			return blockingStream(ctx), nil
		},
	}
	g := newTestGateway(client)
	doc := types.SampleDocument()

	first, err := g.Start(context.Background(), "doc-1", Request{Kind: KindImproveSkills}, doc)
	require.NoError(t, err)

	_, err = g.Start(context.Background(), "doc-1", Request{Kind: KindImproveProfile}, doc)
	assert.ErrorIs(t, err, ErrBusy)

	other, err := g.Start(context.Background(), "doc-2", Request{Kind: KindImproveProfile}, doc)
	require.NoError(t, err)

	first.Close()
	other.Close()
	assert.Eventually(t, func() bool { return !g.Busy("doc-1") && !g.Busy("doc-2") }, time.Second, 5*time.Millisecond)
}

func TestSubscription_CloseStopsDelivery(t *testing.T) {
	client := &MockLLMClient{
		StreamFunc: func(ctx context.Context, _ string, _ llm.ModelTier) (<-chan llm.Chunk, error) {
			return blockingStream(ctx), nil
		},
	}
	g := newTestGateway(client)

	sub, err := g.Start(context.Background(), "doc-1", Request{Kind: KindAdvice}, types.SampleDocument())
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	res, err := sub.Wait()
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestGateway_ParseFailureLeavesDocument(t *testing.T) {
	client := &MockLLMClient{
		StreamFunc: func(ctx context.Context, _ string, _ llm.ModelTier) (<-chan llm.Chunk, error) {
			return streamOf(ctx, `{"experience": {"en": []}}`), nil
		},
	}
	g := newTestGateway(client)
	store := newSampleStore(t)
	before := store.Document()

	res, err := g.Run(context.Background(), "doc-1", Request{Kind: KindTailor, JobDescription: "Go"}, before)
	assert.Nil(t, res)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, `{"experience": {"en": []}}`, perr.Raw)
	assert.Same(t, before, store.Document())
}

func TestGateway_GenerationError(t *testing.T) {
	client := &MockLLMClient{
		StreamFunc: func(ctx context.Context, _ string, _ llm.ModelTier) (<-chan llm.Chunk, error) {
			out := make(chan llm.Chunk, 2)
			out <- llm.Chunk{Text: "partial"}
			out <- llm.Chunk{Done: true, Err: errors.New("quota exceeded")}
			close(out)
			return out, nil
		},
	}
	g := newTestGateway(client)

	_, err := g.Run(context.Background(), "doc-1", Request{Kind: KindAdvice}, types.SampleDocument())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestApply_AdviceIsNotApplicable(t *testing.T) {
	store := newSampleStore(t)
	err := Apply(store, &Result{Kind: KindAdvice, Advice: "Add metrics"})
	assert.ErrorIs(t, err, ErrNotApplicable)
	assert.Equal(t, int64(0), store.Version())
}

func TestApply_InvalidResultIsAllOrNothing(t *testing.T) {
	store := newSampleStore(t)
	res := &Result{
		Kind: KindTailor,
		Sections: map[types.Section]any{
			types.SectionProfile:      types.NewLocalized("nuevo", "new"),
			types.SectionPersonalInfo: types.PersonalInfo{Name: "X", Email: "not-an-email"},
		},
	}

	err := Apply(store, res)
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.SampleDocument().Profile, store.Document().Profile)
}

func improveResponse(prompt string) string {
	switch {
	case strings.Contains(prompt, "work experience"):
		return `{"en": [{"title": "Lead", "company": "Acme", "period": "2020 — Present", "responsibilities": ["Shipped"]}],
			"es": [{"title": "Líder", "company": "Acme", "period": "2020 — Actualidad", "responsibilities": ["Entregué"]}]}`
	case strings.Contains(prompt, "professional summary"):
		return `{"en": "Improved", "es": "Mejorado"}`
	case strings.Contains(prompt, "education entries"):
		return `{"en": [], "es": []}`
	case strings.Contains(prompt, "skill taxonomies"):
		return `{"Languages": ["Go"]}`
	}
	return ""
}

func TestGateway_ImproveAll(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			return improveResponse(prompt), nil
		},
	}
	g := newTestGateway(client)
	store := newSampleStore(t)

	results, err := g.ImproveAll(context.Background(), "doc-1", store)
	require.NoError(t, err)
	assert.Len(t, results, 4)

	doc := store.Document()
	assert.Equal(t, int64(1), store.Version())
	assert.Equal(t, "Improved", doc.Profile.Get(types.LocaleEN))
	assert.Equal(t, "Líder", doc.Experience.Get(types.LocaleES)[0].Title)
	assert.Empty(t, doc.Education.Get(types.LocaleEN))
	assert.Equal(t, []string{"Languages"}, doc.Skills.Categories())
	assert.False(t, g.Busy("doc-1"))
}

func TestGateway_ImproveAllIsAllOrNothing(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
			if strings.Contains(prompt, "skill taxonomies") {
				return "not json at all", nil
			}
			return improveResponse(prompt), nil
		},
	}
	g := newTestGateway(client)
	store := newSampleStore(t)

	_, err := g.ImproveAll(context.Background(), "doc-1", store)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindImproveSkills, perr.Kind)
	assert.Equal(t, int64(0), store.Version())
}
