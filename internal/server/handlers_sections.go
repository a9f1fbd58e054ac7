package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/types"
)

// SectionResponse is a section value. Locale is set for bilingual sections.
type SectionResponse struct {
	Section types.Section `json:"section"`
	Locale  types.Locale  `json:"locale,omitempty"`
	Value   any           `json:"value"`
}

// FieldUpdateRequest sets one field of an entry or of the personal info.
// Value is a string, or a string list for responsibilities.
type FieldUpdateRequest struct {
	Field string `json:"field,omitempty"`
	Value any    `json:"value"`
}

// MoveRequest moves an entry one step.
type MoveRequest struct {
	Direction string `json:"direction"`
}

// RenameRequest renames a skill category.
type RenameRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func parseSection(r *http.Request) (types.Section, error) {
	section, err := types.ParseSection(r.PathValue("section"))
	if err != nil {
		return "", &ErrValidation{Field: "section", Message: err.Error()}
	}
	return section, nil
}

// sequence is one of the two reorderable sections addressed as {seq}.
type sequence string

const (
	seqExperience sequence = "experience"
	seqEducation  sequence = "education"
)

func parseSequence(r *http.Request) (sequence, error) {
	switch seq := sequence(r.PathValue("seq")); seq {
	case seqExperience, seqEducation:
		return seq, nil
	default:
		return "", &ErrValidation{Field: "seq", Message: "must be experience or education"}
	}
}

func parseIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, &ErrValidation{Field: "index", Message: "must be an integer"}
	}
	return index, nil
}

// ---------------------------------------------------------------------
// Section handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	section, err := parseSection(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	l, err := localeParam(r, store)
	if err != nil {
		s.writeError(w, err)
		return
	}

	value, err := store.Section(section, l)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := SectionResponse{Section: section, Value: value}
	if section.Bilingual() {
		resp.Locale = l
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleReplaceSection replaces a whole section. Bilingual sections must
// carry both locales.
func (s *Server) handleReplaceSection(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	section, err := parseSection(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := readBody(w, r, maxJSONBody)
	if err != nil {
		s.writeError(w, err)
		return
	}
	value, err := types.DecodeSection(section, data)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	before := store.Version()
	if err := store.ReplaceSection(section, value); err != nil {
		s.writeError(w, err)
		return
	}
	s.mutated(w, store, before)
}

// handleReplaceLocaleSlice replaces one locale of a bilingual section.
func (s *Server) handleReplaceLocaleSlice(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	section, err := parseSection(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	l, err := types.ParseLocale(r.PathValue("locale"))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "locale", Message: err.Error()})
		return
	}
	data, err := readBody(w, r, maxJSONBody)
	if err != nil {
		s.writeError(w, err)
		return
	}
	value, err := types.DecodeLocaleSlice(section, data)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	before := store.Version()
	if err := store.In(l).UpdateSlice(section, value); err != nil {
		s.writeError(w, err)
		return
	}
	s.mutated(w, store, before)
}

func (s *Server) handleUpdatePersonalField(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	l, err := localeParam(r, store)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req FieldUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	value, ok := req.Value.(string)
	if !ok {
		s.writeError(w, &ErrValidation{Field: "value", Message: "must be a string"})
		return
	}

	before := store.Version()
	if err := store.In(l).UpdatePersonalField(r.PathValue("field"), value); err != nil {
		s.writeError(w, err)
		return
	}
	s.mutated(w, store, before)
}

// ---------------------------------------------------------------------
// Sequence handlers
// ---------------------------------------------------------------------

// handleAppendEntry appends the posted entry, or the localized placeholder
// when the body is empty.
func (s *Server) handleAppendEntry(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	seq, err := parseSequence(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	l, err := localeParam(r, store)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := readBody(w, r, maxJSONBody)
	if err != nil {
		s.writeError(w, err)
		return
	}
	empty := len(strings.TrimSpace(string(data))) == 0

	before := store.Version()
	view := store.In(l)
	switch seq {
	case seqExperience:
		entry := types.NewExperienceEntry(l)
		if !empty {
			entry = types.ExperienceEntry{}
			if err := unmarshalBody(data, &entry); err != nil {
				s.writeError(w, err)
				return
			}
		}
		err = view.AppendExperience(entry)
	case seqEducation:
		entry := types.NewEducationEntry(l)
		if !empty {
			entry = types.EducationEntry{}
			if err := unmarshalBody(data, &entry); err != nil {
				s.writeError(w, err)
				return
			}
		}
		err = view.AppendEducation(entry)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	after := store.Version()
	s.jsonResponse(w, http.StatusCreated, MutationResponse{Changed: after != before, Version: after})
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	seq, index, l, ok := s.entryAddress(w, r, store)
	if !ok {
		return
	}
	var req FieldUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Field == "" {
		s.writeError(w, &ErrValidation{Field: "field", Message: "is required"})
		return
	}

	before := store.Version()
	var err error
	if seq == seqExperience {
		err = store.In(l).UpdateExperience(index, req.Field, req.Value)
	} else {
		err = store.In(l).UpdateEducation(index, req.Field, req.Value)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.mutated(w, store, before)
}

// handleMoveEntry swaps an entry with its neighbour. Moves past either end
// leave the document unchanged.
func (s *Server) handleMoveEntry(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	seq, index, l, ok := s.entryAddress(w, r, store)
	if !ok {
		return
	}
	var req MoveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	dir, err := document.ParseDirection(req.Direction)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "direction", Message: err.Error()})
		return
	}

	var moved bool
	if seq == seqExperience {
		moved, err = store.In(l).MoveExperience(index, dir)
	} else {
		moved, err = store.In(l).MoveEducation(index, dir)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, MutationResponse{Changed: moved, Version: store.Version()})
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	seq, index, l, ok := s.entryAddress(w, r, store)
	if !ok {
		return
	}

	var (
		removed bool
		err     error
	)
	if seq == seqExperience {
		removed, err = store.In(l).RemoveExperience(index)
	} else {
		removed, err = store.In(l).RemoveEducation(index)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, MutationResponse{Changed: removed, Version: store.Version()})
}

// entryAddress parses {seq}, {index} and ?locale=.
func (s *Server) entryAddress(w http.ResponseWriter, r *http.Request, store *document.Store) (sequence, int, types.Locale, bool) {
	seq, err := parseSequence(r)
	if err != nil {
		s.writeError(w, err)
		return "", 0, "", false
	}
	index, err := parseIndex(r)
	if err != nil {
		s.writeError(w, err)
		return "", 0, "", false
	}
	l, err := localeParam(r, store)
	if err != nil {
		s.writeError(w, err)
		return "", 0, "", false
	}
	return seq, index, l, true
}

// ---------------------------------------------------------------------
// Skill handlers
// ---------------------------------------------------------------------

func (s *Server) handleSetSkillCategory(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	category := strings.TrimSpace(r.PathValue("category"))
	if category == "" {
		s.writeError(w, &ErrValidation{Field: "category", Message: "is required"})
		return
	}
	var skills []string
	if err := decodeJSON(w, r, &skills); err != nil {
		s.writeError(w, err)
		return
	}

	before := store.Version()
	if err := store.SetSkillCategory(category, skills); err != nil {
		s.writeError(w, err)
		return
	}
	s.mutated(w, store, before)
}

// handleRenameSkillCategory renames a category. An existing target category
// is overwritten with the renamed list.
func (s *Server) handleRenameSkillCategory(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	var req RenameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	req.To = strings.TrimSpace(req.To)
	if req.From == "" || req.To == "" {
		s.writeError(w, &ErrValidation{Field: "from/to", Message: "both category names are required"})
		return
	}
	renamed, err := store.RenameSkillCategory(req.From, req.To)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, MutationResponse{Changed: renamed, Version: store.Version()})
}

func (s *Server) handleDeleteSkillCategory(w http.ResponseWriter, r *http.Request) {
	_, store, ok := s.openStore(w, r)
	if !ok {
		return
	}
	deleted, err := store.DeleteSkillCategory(r.PathValue("category"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, MutationResponse{Changed: deleted, Version: store.Version()})
}
