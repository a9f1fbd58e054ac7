package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/cv-editor/internal/db"
	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/types"
)

// DocumentResponse is a document snapshot with its in-memory version.
type DocumentResponse struct {
	ID       uuid.UUID         `json:"id"`
	Version  int64             `json:"version"`
	Locale   types.Locale      `json:"locale"`
	Document *types.CVDocument `json:"document"`
}

// MutationResponse reports the outcome of an edit.
type MutationResponse struct {
	Changed bool  `json:"changed"`
	Version int64 `json:"version"`
}

// LocaleRequest selects the active locale of an open document.
type LocaleRequest struct {
	Locale string `json:"locale"`
}

// LocaleResponse reports the active locale after a change.
type LocaleResponse struct {
	Locale types.Locale `json:"locale"`
}

// ---------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------

func parseDocumentID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid document ID"}
	}
	return id, nil
}

// openStore resolves the {id} path value to its live store, writing the
// error response itself when that fails.
func (s *Server) openStore(w http.ResponseWriter, r *http.Request) (uuid.UUID, *document.Store, bool) {
	id, err := parseDocumentID(r)
	if err != nil {
		s.writeError(w, err)
		return uuid.Nil, nil, false
	}
	store, err := s.sessions.Store(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return uuid.Nil, nil, false
	}
	return id, store, true
}

// localeParam reads ?locale=, defaulting to the store's active locale.
func localeParam(r *http.Request, store *document.Store) (types.Locale, error) {
	raw := r.URL.Query().Get("locale")
	if raw == "" {
		return store.Locale(), nil
	}
	l, err := types.ParseLocale(raw)
	if err != nil {
		return "", &ErrValidation{Field: "locale", Message: err.Error()}
	}
	return l, nil
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return data, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := readBody(w, r, maxJSONBody)
	if err != nil {
		return err
	}
	return unmarshalBody(data, v)
}

func unmarshalBody(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	return nil
}

// mutated writes the result of an edit that may have been a no-op.
func (s *Server) mutated(w http.ResponseWriter, store *document.Store, before int64) {
	after := store.Version()
	s.jsonResponse(w, http.StatusOK, MutationResponse{Changed: after != before, Version: after})
}

func snapshot(id uuid.UUID, store *document.Store) DocumentResponse {
	return DocumentResponse{
		ID:       id,
		Version:  store.Version(),
		Locale:   store.Locale(),
		Document: store.Document(),
	}
}

// ---------------------------------------------------------------------
// Document handlers
// ---------------------------------------------------------------------

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.repo.ListDocuments(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if docs == nil {
		docs = []db.DocumentSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

// handleCreateDocument stores the posted document, or the sample CV when the
// body is empty.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r, maxJSONBody)
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc := types.SampleDocument()
	if len(bytes.TrimSpace(data)) > 0 {
		if doc, err = types.DecodeDocument(data); err != nil {
			s.writeError(w, err)
			return
		}
	}

	rec, err := s.repo.CreateDocument(r.Context(), doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	log.Printf("[documents] created %s (%s)", rec.ID, rec.Name)
	s.jsonResponse(w, http.StatusCreated, rec)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, snapshot(id, store))
}

func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	data, err := readBody(w, r, maxJSONBody)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := types.DecodeDocument(data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	before := store.Version()
	if err := store.Replace(doc); err != nil {
		s.writeError(w, err)
		return
	}
	s.mutated(w, store, before)
}

// handleSetLocale changes the locale used when a request names none.
func (s *Server) handleSetLocale(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	var req LocaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	l, err := types.ParseLocale(req.Locale)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "locale", Message: err.Error()})
		return
	}
	if err := store.SetLocale(l); err != nil {
		s.writeError(w, err)
		return
	}
	log.Printf("[documents] %s active locale is now %s", id, l)
	s.jsonResponse(w, http.StatusOK, LocaleResponse{Locale: l})
}

func (s *Server) handleToggleLocale(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	l := store.ToggleLocale()
	log.Printf("[documents] %s active locale is now %s", id, l)
	s.jsonResponse(w, http.StatusOK, LocaleResponse{Locale: l})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseDocumentID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.sessions.Close(id)
	if err := s.repo.DeleteDocument(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	log.Printf("[documents] deleted %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleDocumentEvents streams a "document" event with the current snapshot
// and again after every change. Bursts of edits coalesce into the latest
// snapshot.
func (s *Server) handleDocumentEvents(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	latest := &latestSnapshot{resp: DocumentResponse{Version: -1}}
	changed := make(chan struct{}, 1)
	unsubscribe := store.Subscribe(func(doc *types.CVDocument, version int64) {
		if !latest.offer(DocumentResponse{ID: id, Version: version, Locale: store.Locale(), Document: doc}) {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()
	latest.offer(snapshot(id, store))

	send := func() error {
		return sse.WriteEvent("document", latest.get())
	}
	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-changed:
			if err := send(); err != nil {
				log.Printf("[documents] event stream for %s closed: %v", id, err)
				return
			}
		}
	}
}

// latestSnapshot keeps the newest snapshot seen. Observers may run out of
// order, so older versions are dropped.
type latestSnapshot struct {
	mu   sync.Mutex
	resp DocumentResponse
}

// offer stores resp if it is newer than the held snapshot and reports
// whether it did.
func (l *latestSnapshot) offer(resp DocumentResponse) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if resp.Version <= l.resp.Version {
		return false
	}
	l.resp = resp
	return true
}

func (l *latestSnapshot) get() DocumentResponse {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resp
}
