package document

import (
	"errors"
	"fmt"
)

// ErrUnknownSection is returned for section names outside the document model.
var ErrUnknownSection = errors.New("unknown section")

// ErrUnknownField is returned for field names an entry or personal info does not have.
var ErrUnknownField = errors.New("unknown field")

// IndexError reports an entry index outside the active-locale sequence.
type IndexError struct {
	Section string
	Index   int
	Len     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range (length %d)", e.Section, e.Index, e.Len)
}

// TypeError reports a value whose Go type does not fit the target section or field.
type TypeError struct {
	Target string
	Want   string
	Got    any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s expects %s, got %T", e.Target, e.Want, e.Got)
}
