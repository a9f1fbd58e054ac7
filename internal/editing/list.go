package editing

import (
	"strings"

	"github.com/jonathan/cv-editor/internal/types"
)

// List is the edit controller for an ordered list of strings, such as the
// responsibilities of an experience entry. Blank items are dropped on commit.
type List struct {
	*Field[[]string]
}

// NewList creates a list controller.
func NewList(committed []string, save SaveFunc[[]string]) *List {
	return &List{Field: NewField(committed, save,
		WithClone(types.CloneStrings),
		WithFinalize(DropBlank),
	)}
}

// DropBlank removes items that are empty after trimming whitespace.
func DropBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}

// AddItem appends an empty item to the draft.
func (l *List) AddItem() error {
	return l.update(func(d []string) []string { return append(d, "") })
}

// InsertItem inserts an empty item before index. Index len(draft) appends.
// Out-of-range indexes are ignored.
func (l *List) InsertItem(index int) error {
	return l.update(func(d []string) []string {
		if index < 0 || index > len(d) {
			return d
		}
		d = append(d, "")
		copy(d[index+1:], d[index:])
		d[index] = ""
		return d
	})
}

// SetItem replaces the item at index. Out-of-range indexes are ignored.
func (l *List) SetItem(index int, value string) error {
	return l.update(func(d []string) []string {
		if index >= 0 && index < len(d) {
			d[index] = value
		}
		return d
	})
}

// RemoveItem deletes the item at index. Out-of-range indexes are ignored.
func (l *List) RemoveItem(index int) error {
	return l.update(func(d []string) []string {
		if index < 0 || index >= len(d) {
			return d
		}
		return append(d[:index], d[index+1:]...)
	})
}
