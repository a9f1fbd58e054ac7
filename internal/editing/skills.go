package editing

import "github.com/jonathan/cv-editor/internal/types"

// DefaultCategory is the name given to a category added without one.
const DefaultCategory = "New Category"

// Skills is the edit controller for the category to skill-list map.
// Every operation touches the draft only; blank skills are kept on commit.
type Skills struct {
	*Field[types.SkillSet]
}

// NewSkills creates a skills controller.
func NewSkills(committed types.SkillSet, save SaveFunc[types.SkillSet]) *Skills {
	return &Skills{Field: NewField(committed, save,
		WithClone(func(s types.SkillSet) types.SkillSet { return s.Clone() }),
	)}
}

// RenameCategory moves the skills of from under to, overwriting to if it exists.
func (s *Skills) RenameCategory(from, to string) error {
	return s.update(func(d types.SkillSet) types.SkillSet {
		d.Rename(from, to)
		return d
	})
}

// AddCategory adds a category holding one empty skill. An empty name uses
// DefaultCategory. An existing category of that name is reset.
func (s *Skills) AddCategory(name string) error {
	if name == "" {
		name = DefaultCategory
	}
	return s.update(func(d types.SkillSet) types.SkillSet {
		d.Set(name, []string{""})
		return d
	})
}

// RemoveCategory deletes a category.
func (s *Skills) RemoveCategory(name string) error {
	return s.update(func(d types.SkillSet) types.SkillSet {
		d.Delete(name)
		return d
	})
}

// AddSkill appends an empty skill to an existing category.
func (s *Skills) AddSkill(category string) error {
	return s.update(func(d types.SkillSet) types.SkillSet {
		if list, ok := d.Get(category); ok {
			d.Set(category, append(list, ""))
		}
		return d
	})
}

// SetSkill replaces one skill. Unknown categories and indexes are ignored.
func (s *Skills) SetSkill(category string, index int, value string) error {
	return s.update(func(d types.SkillSet) types.SkillSet {
		if list, ok := d.Get(category); ok && index >= 0 && index < len(list) {
			list[index] = value
			d.Set(category, list)
		}
		return d
	})
}

// RemoveSkill deletes one skill. Unknown categories and indexes are ignored.
func (s *Skills) RemoveSkill(category string, index int) error {
	return s.update(func(d types.SkillSet) types.SkillSet {
		if list, ok := d.Get(category); ok && index >= 0 && index < len(list) {
			d.Set(category, append(list[:index], list[index+1:]...))
		}
		return d
	})
}
