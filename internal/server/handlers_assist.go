package server

import (
	"bytes"
	"log"
	"net/http"

	"github.com/jonathan/cv-editor/internal/assist"
	"github.com/jonathan/cv-editor/internal/config"
	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/formatting"
	"github.com/jonathan/cv-editor/internal/ingestion"
)

// improveAll is the assist path name that runs every section improvement at once.
const improveAll = "improve-all"

// AssistRequest carries the inputs some assists need. Tailoring takes the
// job description either inline or from a URL; extraction takes raw CV text.
type AssistRequest struct {
	JobDescription string `json:"job_description,omitempty"`
	JobURL         string `json:"job_url,omitempty"`
	Text           string `json:"text,omitempty"`
}

// AssistResultEvent is the final event of a streamed assist.
type AssistResultEvent struct {
	Result  *assist.Result `json:"result"`
	Applied bool           `json:"applied"`
}

// ImproveAllResponse is returned by the improve-all assist.
type ImproveAllResponse struct {
	Results []*assist.Result `json:"results"`
	Version int64            `json:"version"`
}

// handleAssist streams one assist as SSE: "delta" events while the model
// writes, then "result" and "complete", or "error". With apply=true an
// applicable result is written to the document before "result" is sent.
func (s *Server) handleAssist(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if r.PathValue("kind") == improveAll {
		results, err := s.gateway.ImproveAll(ctx, id.String(), store)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, ImproveAllResponse{Results: results, Version: store.Version()})
		return
	}

	kind, err := assist.ParseKind(r.PathValue("kind"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := readBody(w, r, maxJSONBody)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var body AssistRequest
	if len(bytes.TrimSpace(data)) > 0 {
		if err := unmarshalBody(data, &body); err != nil {
			s.writeError(w, err)
			return
		}
	}

	req := assist.Request{Kind: kind, Text: body.Text}
	if kind == assist.KindTailor {
		// Server-side file paths are never read on behalf of a client.
		source := ingestion.JobSource{Text: body.JobDescription, URL: body.JobURL}
		text, meta, err := source.Ingest(ctx, s.fetcher, s.extractor)
		if err != nil {
			s.writeError(w, err)
			return
		}
		log.Printf("[assist] job description from %s (%d chars, hash %s)", meta.Source, len(text), meta.Hash)
		req.JobDescription = text
	}

	sub, err := s.gateway.Start(ctx, id.String(), req, store.Document())
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer sub.Close()

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.streamAssist(sse, id.String(), store, sub, r.URL.Query().Get("apply") == "true")
}

// streamAssist forwards a subscription to the client until its final update.
func (s *Server) streamAssist(sse *SSEWriter, documentID string, store *document.Store, sub *assist.Subscription, apply bool) {
	for u := range sub.Updates() {
		if !u.Done {
			if err := sse.WriteEvent("delta", u); err != nil {
				log.Printf("[assist] client went away during %s: %v", sub.Kind(), err)
				return
			}
			continue
		}
		if u.Err != nil {
			sse.WriteError(u.Err)
			return
		}

		applied := false
		if apply && u.Result.Kind.Applies() {
			if err := assist.Apply(store, u.Result); err != nil {
				sse.WriteError(err)
				return
			}
			applied = true
		}
		sse.WriteEvent("result", AssistResultEvent{Result: u.Result, Applied: applied}) //nolint:errcheck
		sse.WriteComplete(documentID, store.Version())
		return
	}
}

// ---------------------------------------------------------------------
// Settings and rendering
// ---------------------------------------------------------------------

// APIKeyRequest stores or clears the AI credential.
type APIKeyRequest struct {
	APIKey string `json:"api_key"`
}

func (s *Server) handleAISettings(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]bool{"enabled": s.gateway.Enabled(r.Context())})
}

// handleSaveAPIKey stores the credential. An empty key removes the stored one.
func (s *Server) handleSaveAPIKey(w http.ResponseWriter, r *http.Request) {
	var req APIKeyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := config.SaveAPIKey(r.Context(), s.repo, req.APIKey); err != nil {
		s.writeError(w, err)
		return
	}
	log.Printf("[settings] API key updated (set: %t)", req.APIKey != "")
	s.jsonResponse(w, http.StatusOK, map[string]bool{"enabled": s.gateway.Enabled(r.Context())})
}

// handleRender returns the styled segments of a text field.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	segments := formatting.Render(r.URL.Query().Get("text"))
	if segments == nil {
		segments = []formatting.Segment{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"segments": segments})
}
