package document

import (
	"fmt"
	"log"

	"github.com/jonathan/cv-editor/internal/types"
)

// View addresses one locale of a Store. Index-based edits target the
// sequence of that locale only.
type View struct {
	store  *Store
	locale types.Locale
}

// Locale returns the locale this view is pinned to.
func (v *View) Locale() types.Locale { return v.locale }

// Section returns the value of a section in this view's locale.
func (v *View) Section(section types.Section) (any, error) {
	return v.store.Section(section, v.locale)
}

// UpdateSlice replaces the content of this locale for a bilingual section and
// leaves the other locale untouched. If the section has no content for the
// other locale yet, it is seeded with the same value.
func (v *View) UpdateSlice(section types.Section, value any) error {
	_, err := v.store.mutate("update "+string(section)+"/"+string(v.locale), func(next *types.CVDocument) (bool, error) {
		switch section {
		case types.SectionProfile:
			s, ok := value.(string)
			if !ok {
				return false, &TypeError{Target: string(section), Want: "string", Got: value}
			}
			next.Profile = setSlice(next.Profile, v.locale, s, func(t string) string { return t })
		case types.SectionExperience:
			s, ok := value.([]types.ExperienceEntry)
			if !ok {
				return false, &TypeError{Target: string(section), Want: "[]ExperienceEntry", Got: value}
			}
			next.Experience = setSlice(next.Experience, v.locale, s, types.CloneExperience)
		case types.SectionEducation:
			s, ok := value.([]types.EducationEntry)
			if !ok {
				return false, &TypeError{Target: string(section), Want: "[]EducationEntry", Got: value}
			}
			next.Education = setSlice(next.Education, v.locale, s, types.CloneEducation)
		case types.SectionPersonalInfo, types.SectionSkills, types.SectionCertifications:
			return false, fmt.Errorf("section %q is not bilingual", section)
		default:
			return false, fmt.Errorf("%w: %q", ErrUnknownSection, section)
		}
		return true, nil
	})
	return err
}

func setSlice[T any](m types.Localized[T], l types.Locale, value T, clone func(T) T) types.Localized[T] {
	if m == nil {
		m = make(types.Localized[T], len(types.SupportedLocales))
	}
	m[l] = clone(value)
	if other := l.Other(); !m.Has(other) {
		m[other] = clone(value)
	}
	return m
}

// UpdatePersonalField sets one personal info field. The title is bilingual
// and only this view's locale is written.
func (v *View) UpdatePersonalField(field, value string) error {
	_, err := v.store.mutate("update personalInfo."+field, func(next *types.CVDocument) (bool, error) {
		p := &next.PersonalInfo
		switch field {
		case "name":
			p.Name = value
		case "title":
			p.Title = setSlice(p.Title, v.locale, value, func(t string) string { return t })
		case "email":
			p.Email = value
		case "phone":
			p.Phone = value
		case "location":
			p.Location = value
		case "linkedin":
			p.LinkedIn = value
		case "github":
			p.GitHub = value
		default:
			return false, fmt.Errorf("%w: personalInfo.%s", ErrUnknownField, field)
		}
		return true, nil
	})
	return err
}

// UpdateExperience sets one field of the experience entry at index. An index
// outside the sequence leaves the document unchanged, logs a warning and
// returns an *IndexError.
func (v *View) UpdateExperience(index int, field string, value any) error {
	_, err := v.store.mutate("update experience", func(next *types.CVDocument) (bool, error) {
		entries := next.Experience.Get(v.locale)
		if index < 0 || index >= len(entries) {
			log.Printf("[store] warning: experience/%s index %d out of range (length %d), update ignored", v.locale, index, len(entries))
			return false, &IndexError{Section: string(types.SectionExperience), Index: index, Len: len(entries)}
		}
		if err := setExperienceField(&entries[index], field, value); err != nil {
			return false, err
		}
		next.Experience[v.locale] = entries
		return true, nil
	})
	return err
}

func setExperienceField(e *types.ExperienceEntry, field string, value any) error {
	if field == "responsibilities" {
		list, err := toStrings(value)
		if err != nil {
			return &TypeError{Target: "experience.responsibilities", Want: "[]string", Got: value}
		}
		e.Responsibilities = list
		return nil
	}

	s, ok := value.(string)
	if !ok {
		return &TypeError{Target: "experience." + field, Want: "string", Got: value}
	}
	switch field {
	case "title":
		e.Title = s
	case "company":
		e.Company = s
	case "companyUrl":
		e.CompanyURL = s
	case "period":
		e.Period = s
	default:
		return fmt.Errorf("%w: experience.%s", ErrUnknownField, field)
	}
	return nil
}

// UpdateEducation sets one field of the education entry at index, with the
// same out-of-range handling as UpdateExperience.
func (v *View) UpdateEducation(index int, field string, value any) error {
	_, err := v.store.mutate("update education", func(next *types.CVDocument) (bool, error) {
		entries := next.Education.Get(v.locale)
		if index < 0 || index >= len(entries) {
			log.Printf("[store] warning: education/%s index %d out of range (length %d), update ignored", v.locale, index, len(entries))
			return false, &IndexError{Section: string(types.SectionEducation), Index: index, Len: len(entries)}
		}
		s, ok := value.(string)
		if !ok {
			return false, &TypeError{Target: "education." + field, Want: "string", Got: value}
		}
		e := &entries[index]
		switch field {
		case "degree":
			e.Degree = s
		case "institution":
			e.Institution = s
		case "period":
			e.Period = s
		case "details":
			e.Details = s
		default:
			return false, fmt.Errorf("%w: education.%s", ErrUnknownField, field)
		}
		next.Education[v.locale] = entries
		return true, nil
	})
	return err
}

// AppendExperience adds entry at the end of this locale's experience.
func (v *View) AppendExperience(entry types.ExperienceEntry) error {
	_, err := v.store.mutate("append experience", func(next *types.CVDocument) (bool, error) {
		next.Experience = setSlice(next.Experience, v.locale,
			Append(next.Experience.Get(v.locale), entry), types.CloneExperience)
		return true, nil
	})
	return err
}

// MoveExperience swaps the entry at index with its neighbor. Reports false
// when the move would leave the sequence.
func (v *View) MoveExperience(index int, dir Direction) (bool, error) {
	return v.store.mutate("move experience", func(next *types.CVDocument) (bool, error) {
		moved, ok := Move(next.Experience.Get(v.locale), index, dir)
		if ok {
			next.Experience[v.locale] = moved
		}
		return ok, nil
	})
}

// RemoveExperience deletes the entry at index. Reports false when index is
// out of range.
func (v *View) RemoveExperience(index int) (bool, error) {
	return v.store.mutate("remove experience", func(next *types.CVDocument) (bool, error) {
		rest, ok := Remove(next.Experience.Get(v.locale), index)
		if ok {
			next.Experience[v.locale] = rest
		}
		return ok, nil
	})
}

// AppendEducation adds entry at the end of this locale's education.
func (v *View) AppendEducation(entry types.EducationEntry) error {
	_, err := v.store.mutate("append education", func(next *types.CVDocument) (bool, error) {
		next.Education = setSlice(next.Education, v.locale,
			Append(next.Education.Get(v.locale), entry), types.CloneEducation)
		return true, nil
	})
	return err
}

// MoveEducation swaps the entry at index with its neighbor.
func (v *View) MoveEducation(index int, dir Direction) (bool, error) {
	return v.store.mutate("move education", func(next *types.CVDocument) (bool, error) {
		moved, ok := Move(next.Education.Get(v.locale), index, dir)
		if ok {
			next.Education[v.locale] = moved
		}
		return ok, nil
	})
}

// RemoveEducation deletes the entry at index.
func (v *View) RemoveEducation(index int) (bool, error) {
	return v.store.mutate("remove education", func(next *types.CVDocument) (bool, error) {
		rest, ok := Remove(next.Education.Get(v.locale), index)
		if ok {
			next.Education[v.locale] = rest
		}
		return ok, nil
	})
}

func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return types.CloneStrings(v), nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d is %T", i, item)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported %T", value)
}
