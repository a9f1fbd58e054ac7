package assist

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-editor/internal/config"
	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/llm"
	"github.com/jonathan/cv-editor/internal/types"
)

// ClientFactory builds a model client from the settings read for one call.
type ClientFactory func(ctx context.Context, settings config.AISettings) (llm.Client, error)

// SettingsFunc reads the current AI settings. It is called on every assist,
// so a credential saved mid-session takes effect immediately.
type SettingsFunc func(ctx context.Context) (config.AISettings, error)

// GeminiFactory returns a factory for Gemini clients built on cfg. A model
// named in the settings overrides the lite tier.
func GeminiFactory(cfg *llm.Config) ClientFactory {
	return func(ctx context.Context, settings config.AISettings) (llm.Client, error) {
		c := cfg
		if c == nil {
			c = llm.DefaultConfig()
		}
		if settings.Model != "" {
			c = c.WithModel(llm.TierLite, settings.Model)
		}
		return llm.NewClient(ctx, c, settings.APIKey)
	}
}

// StaticSettings always returns s.
func StaticSettings(s config.AISettings) SettingsFunc {
	return func(context.Context) (config.AISettings, error) {
		return s, nil
	}
}

// Gateway runs assist tasks. At most one task runs per scope at a time;
// callers use the document ID as the scope.
type Gateway struct {
	newClient ClientFactory
	settings  SettingsFunc
	tier      llm.ModelTier

	mu       sync.Mutex
	inFlight map[string]Kind
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTier selects the model tier used for every task.
func WithTier(tier llm.ModelTier) Option {
	return func(g *Gateway) {
		g.tier = tier
	}
}

// NewGateway creates a gateway.
func NewGateway(factory ClientFactory, settings SettingsFunc, opts ...Option) *Gateway {
	g := &Gateway{
		newClient: factory,
		settings:  settings,
		tier:      llm.TierLite,
		inFlight:  make(map[string]Kind),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether a credential is configured. Callers use it to
// disable AI actions up front.
func (g *Gateway) Enabled(ctx context.Context) bool {
	s, err := g.settings(ctx)
	if err != nil {
		log.Printf("[assist] failed to read settings: %v", err)
		return false
	}
	return s.Enabled()
}

// Busy reports whether a task is running for scope.
func (g *Gateway) Busy(scope string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.inFlight[scope]
	return ok
}

func (g *Gateway) acquire(scope string, kind Kind) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if running, ok := g.inFlight[scope]; ok {
		return fmt.Errorf("%w: %s", ErrBusy, running)
	}
	g.inFlight[scope] = kind
	return nil
}

func (g *Gateway) release(scope string) {
	g.mu.Lock()
	delete(g.inFlight, scope)
	g.mu.Unlock()
}

// client reads the settings and builds a client, refusing when no key is set.
func (g *Gateway) client(ctx context.Context) (llm.Client, error) {
	settings, err := g.settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read AI settings: %w", err)
	}
	if !settings.Enabled() {
		return nil, ErrMissingAPIKey
	}
	client, err := g.newClient(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	return client, nil
}

// Start begins streaming a task over doc. The returned subscription reports
// progress and the parsed result; the document itself is never modified here.
func (g *Gateway) Start(ctx context.Context, scope string, req Request, doc *types.CVDocument) (*Subscription, error) {
	prompt, err := BuildPrompt(req, doc)
	if err != nil {
		return nil, err
	}
	if err := g.acquire(scope, req.Kind); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	client, err := g.client(ctx)
	if err != nil {
		cancel()
		g.release(scope)
		return nil, err
	}
	stream, err := client.Stream(ctx, prompt, g.tier)
	if err != nil {
		_ = client.Close()
		cancel()
		g.release(scope)
		return nil, fmt.Errorf("failed to start %s: %w", req.Kind, err)
	}

	log.Printf("[assist] %s started (scope %s, model %s)", req.Kind, scope, client.GetModel(g.tier))
	sub := newSubscription(ctx, cancel, req.Kind)
	go func() {
		defer g.release(scope)
		defer func() { _ = client.Close() }()
		text, err := sub.pump(stream)
		if err != nil {
			log.Printf("[assist] %s failed after %d chars: %v", req.Kind, len(text), err)
			return
		}
		log.Printf("[assist] %s completed (%d chars)", req.Kind, len(text))
	}()
	return sub, nil
}

// Run starts a task and waits for its result.
func (g *Gateway) Run(ctx context.Context, scope string, req Request, doc *types.CVDocument) (*Result, error) {
	sub, err := g.Start(ctx, scope, req, doc)
	if err != nil {
		return nil, err
	}
	defer sub.Close()
	return sub.Wait()
}

// Apply writes a result into store as a single mutation. When any section
// fails validation nothing is written.
func Apply(store *document.Store, res *Result) error {
	if res == nil || !res.Kind.Applies() {
		return ErrNotApplicable
	}
	if err := store.ReplaceSections(res.Sections); err != nil {
		return fmt.Errorf("failed to apply %s result: %w", res.Kind, err)
	}
	return nil
}

// ImproveAll improves the experience, profile, education and skills sections
// concurrently and applies them together. Nothing is applied unless every
// improvement parses.
func (g *Gateway) ImproveAll(ctx context.Context, scope string, store *document.Store) ([]*Result, error) {
	if err := g.acquire(scope, "improve-all"); err != nil {
		return nil, err
	}
	defer g.release(scope)

	client, err := g.client(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	doc := store.Document()
	results := make([]*Result, len(ImproveKinds))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, kind := range ImproveKinds {
		eg.Go(func() error {
			prompt, err := BuildPrompt(Request{Kind: kind}, doc)
			if err != nil {
				return err
			}
			text, err := client.GenerateJSON(egCtx, prompt, g.tier)
			if err != nil {
				return fmt.Errorf("%s failed: %w", kind, err)
			}
			res, err := Parse(kind, text)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[types.Section]any, len(results))
	for _, res := range results {
		for section, value := range res.Sections {
			merged[section] = value
		}
	}
	if err := store.ReplaceSections(merged); err != nil {
		return nil, fmt.Errorf("failed to apply improvements: %w", err)
	}
	log.Printf("[assist] improve-all applied %d sections (scope %s)", len(merged), scope)
	return results, nil
}
