package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/cv-editor/internal/db"
)

// PageCache stores fetched job pages.
type PageCache interface {
	GetFreshJobPage(ctx context.Context, pageURL string, maxAge time.Duration) (*db.JobPage, error)
	UpsertJobPage(ctx context.Context, page *db.JobPage) error
}

// CachedFetcher fetches job description pages through an optional cache,
// falling back to a headless browser for client-rendered boards.
type CachedFetcher struct {
	cache     PageCache
	render    Renderer
	options   *Options
	cacheTTL  time.Duration
	skipCache bool
	verbose   bool
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Verbose   bool
	Options   *Options
	// Renderer is used when the plain HTTP text is too short. Nil disables the fallback.
	Renderer Renderer
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: db.DefaultPageCacheTTL,
		Options:  DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher. A nil cache disables caching.
func NewCachedFetcher(cache PageCache, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = db.DefaultPageCacheTTL
	}
	return &CachedFetcher{
		cache:     cache,
		render:    config.Renderer,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
		verbose:   config.Verbose,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
	Rendered  bool // HTML came from the headless browser
}

// Fetch retrieves a job page and its description text.
// Fresh successful pages are served from the cache; failures are recorded but never served.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if f.useCache() {
		cached, err := f.cache.GetFreshJobPage(ctx, urlStr, f.cacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check page cache: %w", err)
		}
		if cached != nil {
			if f.verbose {
				log.Printf("[fetch] cache hit for %s", urlStr)
			}
			return &CachedResult{
				Result: &Result{
					URL:        cached.URL,
					HTML:       cached.RawHTML,
					Text:       cached.ParsedText,
					StatusCode: cached.HTTPStatus,
				},
				FromCache: true,
			}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		f.recordFailure(ctx, urlStr, result, err)
		return nil, err
	}

	text, err := JobText(result.HTML, urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", urlStr, err)
	}
	result.Text = text

	out := &CachedResult{Result: result}
	if f.render != nil && ShouldUseBrowser(text) {
		if f.verbose {
			log.Printf("[fetch] %s returned %d chars, retrying in browser", urlStr, len(text))
		}
		html, renderErr := f.render(ctx, urlStr)
		if renderErr != nil {
			// Keep the short HTTP text rather than failing outright.
			log.Printf("[fetch] browser fallback failed for %s: %v", urlStr, renderErr)
		} else if rendered, extractErr := JobText(html, urlStr); extractErr == nil && len(rendered) > len(text) {
			result.HTML = html
			result.Text = rendered
			out.Rendered = true
		}
	}

	if f.useCache() {
		page := &db.JobPage{
			URL:         urlStr,
			RawHTML:     result.HTML,
			ParsedText:  result.Text,
			HTTPStatus:  result.StatusCode,
			FetchStatus: db.FetchStatusSuccess,
			ExpiresAt:   time.Now().UTC().Add(f.cacheTTL),
		}
		if err := f.cache.UpsertJobPage(ctx, page); err != nil {
			log.Printf("[fetch] failed to cache %s: %v", urlStr, err)
		}
	}

	return out, nil
}

// FetchText is Fetch returning only the description text.
func (f *CachedFetcher) FetchText(ctx context.Context, urlStr string) (string, error) {
	res, err := f.Fetch(ctx, urlStr)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (f *CachedFetcher) useCache() bool {
	return f.cache != nil && !f.skipCache
}

func (f *CachedFetcher) recordFailure(ctx context.Context, urlStr string, result *Result, cause error) {
	if !f.useCache() || result == nil {
		// Nothing reached the server; there is no status to record.
		return
	}
	page := &db.JobPage{
		URL:         urlStr,
		ParsedText:  cause.Error(),
		HTTPStatus:  result.StatusCode,
		FetchStatus: db.FetchStatusFromHTTP(result.StatusCode),
		ExpiresAt:   time.Now().UTC().Add(f.cacheTTL),
	}
	if err := f.cache.UpsertJobPage(ctx, page); err != nil {
		log.Printf("[fetch] failed to record fetch failure for %s: %v", urlStr, err)
	}
}
