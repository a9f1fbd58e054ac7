package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/cv-editor/internal/assist"
	"github.com/jonathan/cv-editor/internal/ingestion"
	"github.com/jonathan/cv-editor/internal/interchange"
)

// StepEvent is one stage of a PDF import.
type StepEvent struct {
	Step   ingestion.Step `json:"step"`
	Detail string         `json:"detail"`
}

// PDFImportResponse is returned when a PDF is read without AI extraction.
type PDFImportResponse struct {
	*ingestion.PDFText
	Steps []StepEvent `json:"steps"`
}

// handleExport downloads one locale of the document as interchange JSON.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	l, err := localeParam(r, store)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, fileName, err := interchange.Export(store.Document(), l)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing export: %v", err)
	}
}

// handleImport replaces the document with an imported interchange file.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	data, err := readBody(w, r, maxJSONBody)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := interchange.Import(data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	before := store.Version()
	if err := store.Replace(doc); err != nil {
		s.writeError(w, err)
		return
	}
	log.Printf("[documents] imported interchange file into %s", id)
	s.mutated(w, store, before)
}

// handleImportPDF reads an uploaded PDF. With ai=true the text is sent to the
// extract assist and the result is applied; progress streams as SSE.
func (s *Server) handleImportPDF(w http.ResponseWriter, r *http.Request) {
	id, store, ok := s.openStore(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, tooLarge)
			return
		}
		s.writeError(w, &ErrValidation{Field: "file", Message: "a PDF upload is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	var steps []StepEvent
	pdf, err := ingestion.ReadPDF(r.Context(), s.extractor, header.Filename, header.Header.Get("Content-Type"), data,
		func(step ingestion.Step, detail string) {
			steps = append(steps, StepEvent{Step: step, Detail: detail})
		})
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("ai") != "true" {
		s.jsonResponse(w, http.StatusOK, PDFImportResponse{PDFText: pdf, Steps: steps})
		return
	}

	sub, err := s.gateway.Start(r.Context(), id.String(), assist.Request{Kind: assist.KindExtract, Text: pdf.Text}, store.Document())
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
	for _, st := range steps {
		if err := sse.WriteEvent("step", st); err != nil {
			return
		}
	}
	if err := sse.WriteEvent("step", StepEvent{Step: ingestion.StepAI, Detail: "extracting CV sections"}); err != nil {
		return
	}
	s.streamAssist(sse, id.String(), store, sub, true)
}
