// Package document holds the single source of truth for a CV document.
//
// A Store never mutates a document in place: every successful mutation
// clones the current snapshot, applies the change, validates the result and
// swaps it in as a new value, so observers can detect changes by identity.
// Failed mutations leave the current snapshot untouched.
package document

import (
	"fmt"
	"log"
	"sync"

	"github.com/jonathan/cv-editor/internal/types"
)

// Observer is notified after each successful mutation with the new snapshot.
type Observer func(doc *types.CVDocument, version int64)

type subscription struct {
	id int
	fn Observer
}

// Store owns the current document snapshot and the active locale.
type Store struct {
	mu        sync.RWMutex
	doc       *types.CVDocument
	version   int64
	locale    types.Locale
	observers []subscription
	nextID    int
}

// NewStore validates doc and wraps it. A nil doc starts from an empty document.
func NewStore(doc *types.CVDocument) (*Store, error) {
	if doc == nil {
		doc = &types.CVDocument{}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &Store{doc: doc.Clone(), locale: types.PrimaryLocale}, nil
}

// Document returns the current snapshot. Snapshots are shared and must be
// treated as read-only; use Clone before modifying one.
func (s *Store) Document() *types.CVDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Version counts successful mutations since the store was created.
func (s *Store) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Locale returns the active locale.
func (s *Store) Locale() types.Locale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

// SetLocale changes the active locale. The document is not modified.
func (s *Store) SetLocale(l types.Locale) error {
	if !l.Valid() {
		return fmt.Errorf("unsupported locale %q", l)
	}
	s.mu.Lock()
	s.locale = l
	s.mu.Unlock()
	return nil
}

// ToggleLocale switches to the other locale and returns it.
func (s *Store) ToggleLocale() types.Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = s.locale.Other()
	return s.locale
}

// Active returns a view pinned to the active locale at call time.
func (s *Store) Active() *View {
	return s.In(s.Locale())
}

// In returns a view pinned to l.
func (s *Store) In(l types.Locale) *View {
	return &View{store: s, locale: l}
}

// Subscribe registers fn for change notifications and returns a function
// that unregisters it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.observers {
				if sub.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Replace swaps in a whole new document, as imports and AI results do.
func (s *Store) Replace(doc *types.CVDocument) error {
	if doc == nil {
		return fmt.Errorf("replace: document is nil")
	}
	_, err := s.mutate("replace", func(next *types.CVDocument) (bool, error) {
		*next = *doc.Clone()
		return true, nil
	})
	return err
}

// Section returns the value of a section. Bilingual sections yield the slice
// for l; the others ignore l. The result is a copy.
func (s *Store) Section(section types.Section, l types.Locale) (any, error) {
	doc := s.Document()
	switch section {
	case types.SectionPersonalInfo:
		p := doc.PersonalInfo
		p.Title = doc.PersonalInfo.Title.Clone(func(v string) string { return v })
		return p, nil
	case types.SectionProfile:
		return doc.Profile.Get(l), nil
	case types.SectionExperience:
		return types.CloneExperience(doc.Experience.Get(l)), nil
	case types.SectionEducation:
		return types.CloneEducation(doc.Education.Get(l)), nil
	case types.SectionSkills:
		return doc.Skills.Clone(), nil
	case types.SectionCertifications:
		return types.CloneStrings(doc.Certifications), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
}

// ReplaceSection replaces a section wholesale. Bilingual sections require a
// complete Localized value.
func (s *Store) ReplaceSection(section types.Section, value any) error {
	_, err := s.mutate("replace "+string(section), func(next *types.CVDocument) (bool, error) {
		return true, assignSection(next, section, value)
	})
	return err
}

// ReplaceSections replaces several sections in a single mutation. Either all
// values are applied or none is.
func (s *Store) ReplaceSections(values map[types.Section]any) error {
	if len(values) == 0 {
		return nil
	}
	_, err := s.mutate("replace sections", func(next *types.CVDocument) (bool, error) {
		for section := range values {
			if _, err := types.ParseSection(string(section)); err != nil {
				return false, fmt.Errorf("%w: %q", ErrUnknownSection, section)
			}
		}
		for _, section := range types.Sections {
			value, ok := values[section]
			if !ok {
				continue
			}
			if err := assignSection(next, section, value); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	return err
}

func assignSection(next *types.CVDocument, section types.Section, value any) error {
	switch section {
	case types.SectionPersonalInfo:
		v, ok := value.(types.PersonalInfo)
		if !ok {
			return &TypeError{Target: string(section), Want: "PersonalInfo", Got: value}
		}
		next.PersonalInfo = v
		next.PersonalInfo.Title = v.Title.Clone(func(t string) string { return t })
	case types.SectionProfile:
		v, ok := value.(types.Localized[string])
		if !ok {
			return &TypeError{Target: string(section), Want: "Localized[string]", Got: value}
		}
		next.Profile = v.Clone(func(t string) string { return t })
	case types.SectionExperience:
		v, ok := value.(types.Localized[[]types.ExperienceEntry])
		if !ok {
			return &TypeError{Target: string(section), Want: "Localized[[]ExperienceEntry]", Got: value}
		}
		next.Experience = v.Clone(types.CloneExperience)
	case types.SectionEducation:
		v, ok := value.(types.Localized[[]types.EducationEntry])
		if !ok {
			return &TypeError{Target: string(section), Want: "Localized[[]EducationEntry]", Got: value}
		}
		next.Education = v.Clone(types.CloneEducation)
	case types.SectionSkills:
		v, ok := value.(types.SkillSet)
		if !ok {
			return &TypeError{Target: string(section), Want: "SkillSet", Got: value}
		}
		next.Skills = v.Clone()
	case types.SectionCertifications:
		v, ok := value.([]string)
		if !ok {
			return &TypeError{Target: string(section), Want: "[]string", Got: value}
		}
		next.Certifications = types.CloneStrings(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return nil
}

// SetSkillCategory replaces one category's skills, appending it if new.
func (s *Store) SetSkillCategory(category string, skills []string) error {
	if category == "" {
		return fmt.Errorf("skill category name is empty")
	}
	_, err := s.mutate("set skill category", func(next *types.CVDocument) (bool, error) {
		next.Skills.Set(category, skills)
		return true, nil
	})
	return err
}

// RenameSkillCategory renames a category. An existing target is overwritten,
// so callers that must not lose skills check Has first. Reports false when
// from does not exist.
func (s *Store) RenameSkillCategory(from, to string) (bool, error) {
	if to == "" {
		return false, fmt.Errorf("skill category name is empty")
	}
	return s.mutate("rename skill category", func(next *types.CVDocument) (bool, error) {
		if !next.Skills.Has(from) || from == to {
			return false, nil
		}
		if next.Skills.Has(to) {
			log.Printf("[store] skill category %q overwritten by rename from %q", to, from)
		}
		next.Skills.Rename(from, to)
		return true, nil
	})
}

// DeleteSkillCategory removes a category. Reports false when it does not exist.
func (s *Store) DeleteSkillCategory(category string) (bool, error) {
	return s.mutate("delete skill category", func(next *types.CVDocument) (bool, error) {
		if !next.Skills.Has(category) {
			return false, nil
		}
		next.Skills.Delete(category)
		return true, nil
	})
}

// mutate applies fn to a clone of the current document and, when fn reports
// a change and the result validates, publishes the clone as the new snapshot.
func (s *Store) mutate(op string, fn func(next *types.CVDocument) (bool, error)) (bool, error) {
	s.mu.Lock()
	next := s.doc.Clone()
	changed, err := fn(next)
	if err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !changed {
		s.mu.Unlock()
		return false, nil
	}
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.doc = next
	s.version++
	version := s.version
	observers := make([]subscription, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, sub := range observers {
		sub.fn(next, version)
	}
	return true, nil
}
