package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SkillSet maps skill category names to ordered skill lists.
// Category insertion order is preserved and drives display order.
// The zero value is an empty set ready to use.
type SkillSet struct {
	order  []string
	skills map[string][]string
}

// NewSkillSet creates an empty skill set.
func NewSkillSet() SkillSet {
	return SkillSet{skills: make(map[string][]string)}
}

// SkillCategory is a single category with its skills, used for ordered construction.
type SkillCategory struct {
	Name   string
	Skills []string
}

// SkillSetOf builds a skill set from categories in the given order.
// Later duplicates overwrite earlier ones in place.
func SkillSetOf(categories ...SkillCategory) SkillSet {
	s := NewSkillSet()
	for _, c := range categories {
		s.Set(c.Name, c.Skills)
	}
	return s
}

// Len returns the number of categories.
func (s SkillSet) Len() int {
	return len(s.order)
}

// Categories returns category names in display order.
func (s SkillSet) Categories() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Has reports whether the category exists.
func (s SkillSet) Has(category string) bool {
	_, ok := s.skills[category]
	return ok
}

// Get returns a copy of the category's skills.
func (s SkillSet) Get(category string) ([]string, bool) {
	list, ok := s.skills[category]
	if !ok {
		return nil, false
	}
	return cloneStrings(list), true
}

// Set replaces the category's skills, appending the category if it is new.
func (s *SkillSet) Set(category string, skills []string) {
	if s.skills == nil {
		s.skills = make(map[string][]string)
	}
	if _, ok := s.skills[category]; !ok {
		s.order = append(s.order, category)
	}
	s.skills[category] = cloneStrings(skills)
}

// Delete removes the category. Missing categories are ignored.
func (s *SkillSet) Delete(category string) {
	if _, ok := s.skills[category]; !ok {
		return
	}
	delete(s.skills, category)
	for i, name := range s.order {
		if name == category {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Rename moves the skills of from under the name to.
// If to is new it takes the position of from. If to already exists its list is
// overwritten and it keeps its own position. Renaming a missing category is a no-op.
func (s *SkillSet) Rename(from, to string) {
	list, ok := s.skills[from]
	if !ok || from == to {
		return
	}
	if _, exists := s.skills[to]; exists {
		s.skills[to] = list
		s.Delete(from)
		return
	}
	delete(s.skills, from)
	s.skills[to] = list
	for i, name := range s.order {
		if name == from {
			s.order[i] = to
			break
		}
	}
}

// Clone returns a deep copy.
func (s SkillSet) Clone() SkillSet {
	out := SkillSet{
		order:  make([]string, len(s.order)),
		skills: make(map[string][]string, len(s.skills)),
	}
	copy(out.order, s.order)
	for k, v := range s.skills {
		out.skills[k] = cloneStrings(v)
	}
	return out
}

// Equal reports whether both sets have the same categories, order and skills.
func (s SkillSet) Equal(other SkillSet) bool {
	if len(s.order) != len(other.order) {
		return false
	}
	for i, name := range s.order {
		if other.order[i] != name {
			return false
		}
		a, b := s.skills[name], other.skills[name]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the set as a JSON object in category order.
func (s SkillSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		list := s.skills[name]
		if list == nil {
			list = []string{}
		}
		val, err := json.Marshal(list)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (s *SkillSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = NewSkillSet()
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("skills: expected JSON object, got %v", tok)
	}

	next := NewSkillSet()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("skills: expected category name, got %v", keyTok)
		}
		var list []string
		if err := dec.Decode(&list); err != nil {
			return fmt.Errorf("skills: category %q: %w", key, err)
		}
		next.Set(key, list)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = next
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
