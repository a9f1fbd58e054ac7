// Package server provides the HTTP API for editing CV documents.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/cv-editor/internal/assist"
	"github.com/jonathan/cv-editor/internal/config"
	"github.com/jonathan/cv-editor/internal/db"
	"github.com/jonathan/cv-editor/internal/fetch"
	"github.com/jonathan/cv-editor/internal/ingestion"
	"github.com/jonathan/cv-editor/internal/llm"
	"github.com/jonathan/cv-editor/internal/server/ratelimit"
)

// Request body limits.
const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 10 << 20
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	repo        db.Repository
	sessions    *Sessions
	gateway     *assist.Gateway
	fetcher     *fetch.CachedFetcher
	extractor   ingestion.TextExtractor
	rateLimiter *ratelimit.Limiter
	appConfig   *config.Config
}

// Config holds server configuration
type Config struct {
	Port       int
	RateLimit  float64 // AI requests per second per client
	RateBurst  int
	UseBrowser bool
	Verbose    bool
	// App supplies the fallback API key and model when none is stored.
	App *config.Config
}

// Option overrides a collaborator, mainly for tests.
type Option func(*Server)

// WithGateway replaces the Gemini-backed assist gateway.
func WithGateway(g *assist.Gateway) Option {
	return func(s *Server) { s.gateway = g }
}

// WithExtractor replaces the PDF text extractor.
func WithExtractor(e ingestion.TextExtractor) Option {
	return func(s *Server) { s.extractor = e }
}

// WithFetcher replaces the job page fetcher.
func WithFetcher(f *fetch.CachedFetcher) Option {
	return func(s *Server) { s.fetcher = f }
}

// WithRateLimiter replaces the limiter built from Config.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) { s.rateLimiter = l }
}

// New creates a new server instance over repo. The server owns repo and
// closes it on shutdown.
func New(cfg Config, repo db.Repository, opts ...Option) (*Server, error) {
	if repo == nil {
		return nil, errors.New("a document repository is required")
	}

	s := &Server{
		repo:      repo,
		sessions:  NewSessions(repo),
		extractor: ingestion.PDFExtractor{},
		appConfig: cfg.App,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.gateway == nil {
		s.gateway = assist.NewGateway(assist.GeminiFactory(llm.DefaultConfig()), s.aiSettings)
	}
	if s.fetcher == nil {
		fetchCfg := fetch.DefaultCachedFetcherConfig()
		fetchCfg.Verbose = cfg.Verbose
		if cfg.UseBrowser {
			fetchCfg.Renderer = fetch.ChromeRenderer(fetch.DefaultBrowserTimeout, cfg.Verbose)
		}
		s.fetcher = fetch.NewCachedFetcher(repo, fetchCfg)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig(cfg.RateLimit, cfg.RateBurst))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Documents
	mux.HandleFunc("GET /documents", s.handleListDocuments)
	mux.HandleFunc("POST /documents", s.handleCreateDocument)
	mux.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	mux.HandleFunc("PUT /documents/{id}", s.handleReplaceDocument)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /documents/{id}/events", s.handleDocumentEvents)
	mux.HandleFunc("PUT /documents/{id}/locale", s.handleSetLocale)
	mux.HandleFunc("POST /documents/{id}/locale/toggle", s.handleToggleLocale)

	// Sections
	mux.HandleFunc("GET /documents/{id}/sections/{section}", s.handleGetSection)
	mux.HandleFunc("PUT /documents/{id}/sections/{section}", s.handleReplaceSection)
	mux.HandleFunc("PUT /documents/{id}/sections/{section}/{locale}", s.handleReplaceLocaleSlice)
	mux.HandleFunc("PATCH /documents/{id}/personal/{field}", s.handleUpdatePersonalField)

	// Experience and education sequences
	mux.HandleFunc("POST /documents/{id}/{seq}", s.handleAppendEntry)
	mux.HandleFunc("PATCH /documents/{id}/{seq}/{index}", s.handleUpdateEntry)
	mux.HandleFunc("POST /documents/{id}/{seq}/{index}/move", s.handleMoveEntry)
	mux.HandleFunc("DELETE /documents/{id}/{seq}/{index}", s.handleRemoveEntry)

	// Skills
	mux.HandleFunc("PUT /documents/{id}/skills/{category}", s.handleSetSkillCategory)
	mux.HandleFunc("POST /documents/{id}/skills/rename", s.handleRenameSkillCategory)
	mux.HandleFunc("DELETE /documents/{id}/skills/{category}", s.handleDeleteSkillCategory)

	// Interchange
	mux.HandleFunc("GET /documents/{id}/export", s.handleExport)
	mux.HandleFunc("POST /documents/{id}/import", s.handleImport)
	mux.HandleFunc("POST /documents/{id}/import/pdf", s.handleImportPDF)

	// AI assist
	mux.HandleFunc("POST /documents/{id}/assist/{kind}", s.handleAssist)
	mux.HandleFunc("GET /settings/ai", s.handleAISettings)
	mux.HandleFunc("PUT /settings/api-key", s.handleSaveAPIKey)

	mux.HandleFunc("GET /render", s.handleRender)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for streamed assists
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close releases sessions, the rate limiter and the repository.
func (s *Server) Close() {
	s.sessions.CloseAll()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.repo.Close()
}

// aiSettings reads the stored credential with the configured fallback.
func (s *Server) aiSettings(ctx context.Context) (config.AISettings, error) {
	return config.LoadAISettings(ctx, s.repo, s.appConfig)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, errorBody{Error: message})
}

// writeError maps err to its status and writes the error body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] request failed: %v", err)
	}
	s.jsonResponse(w, status, newErrorBody(err))
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
