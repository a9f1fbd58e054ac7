package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-editor/internal/db"
	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/types"
)

// saveTimeout bounds a single persistence write triggered by an edit.
const saveTimeout = 10 * time.Second

// session is an open document: its store plus the persistence hook.
type session struct {
	id          uuid.UUID
	store       *document.Store
	unsubscribe func()

	saveMu sync.Mutex
	saved  int64 // highest version written
}

// Sessions keeps one document.Store per open document and writes every new
// snapshot back to the repository.
type Sessions struct {
	repo db.Repository

	mu   sync.Mutex
	open map[uuid.UUID]*session
}

// NewSessions creates an empty session registry over repo.
func NewSessions(repo db.Repository) *Sessions {
	return &Sessions{repo: repo, open: make(map[uuid.UUID]*session)}
}

// Store returns the store for id, loading the document on first use.
func (s *Sessions) Store(ctx context.Context, id uuid.UUID) (*document.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.open[id]; ok {
		return sess.store, nil
	}

	rec, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	store, err := document.NewStore(rec.Document)
	if err != nil {
		return nil, fmt.Errorf("stored document %s is invalid: %w", id, err)
	}

	sess := &session{id: id, store: store}
	sess.unsubscribe = store.Subscribe(func(doc *types.CVDocument, version int64) {
		s.persist(sess, doc, version)
	})
	s.open[id] = sess
	return store, nil
}

// persist writes a snapshot unless a newer one was already written.
// Failures are logged; the in-memory snapshot stays authoritative until the
// next successful save.
func (s *Sessions) persist(sess *session, doc *types.CVDocument, version int64) {
	sess.saveMu.Lock()
	defer sess.saveMu.Unlock()
	if version <= sess.saved {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	rec, err := s.repo.SaveDocument(ctx, sess.id, doc)
	if err != nil {
		log.Printf("[store] failed to save document %s (version %d): %v", sess.id, version, err)
		return
	}
	sess.saved = version
	log.Printf("[store] saved document %s (version %d, revision %d)", sess.id, version, rec.Revision)
}

// Close forgets the session for id without touching storage.
func (s *Sessions) Close(id uuid.UUID) {
	s.mu.Lock()
	sess, ok := s.open[id]
	delete(s.open, id)
	s.mu.Unlock()

	if ok {
		sess.unsubscribe()
	}
}

// CloseAll forgets every session.
func (s *Sessions) CloseAll() {
	s.mu.Lock()
	open := s.open
	s.open = make(map[uuid.UUID]*session)
	s.mu.Unlock()

	for _, sess := range open {
		sess.unsubscribe()
	}
}
