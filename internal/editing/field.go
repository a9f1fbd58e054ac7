// Package editing implements the inline edit controller shared by every
// editable field: a two-state machine with a draft buffer that is committed
// through a save callback or discarded on cancel.
//
// Controllers are ephemeral and not safe for concurrent use; each one belongs
// to a single rendering context.
package editing

import "errors"

// Mode is the controller state.
type Mode int

const (
	// Viewing shows the committed value. Drafts follow external updates.
	Viewing Mode = iota
	// Editing holds an in-progress draft that external updates never overwrite.
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

// ErrNotEditing is returned by draft operations invoked while Viewing.
var ErrNotEditing = errors.New("field is not being edited")

// SaveFunc persists a committed draft, typically by calling a document mutation.
type SaveFunc[T any] func(value T) error

// Option configures a Field.
type Option[T any] func(*Field[T])

// WithClone sets the deep-copy function used between committed and draft values.
func WithClone[T any](clone func(T) T) Option[T] {
	return func(f *Field[T]) { f.clone = clone }
}

// WithFinalize sets a transform applied to the draft before it is saved.
func WithFinalize[T any](finalize func(T) T) Option[T] {
	return func(f *Field[T]) { f.finalize = finalize }
}

// Field is the edit controller for a single value.
type Field[T any] struct {
	mode      Mode
	committed T
	draft     T
	clone     func(T) T
	finalize  func(T) T
	save      SaveFunc[T]
}

// NewField creates a controller in Viewing with draft equal to committed.
func NewField[T any](committed T, save SaveFunc[T], opts ...Option[T]) *Field[T] {
	f := &Field[T]{save: save}
	for _, opt := range opts {
		opt(f)
	}
	if f.clone == nil {
		f.clone = func(v T) T { return v }
	}
	f.committed = f.clone(committed)
	f.draft = f.clone(committed)
	return f
}

// Mode returns the current state.
func (f *Field[T]) Mode() Mode { return f.mode }

// Editing reports whether a draft is in progress.
func (f *Field[T]) Editing() bool { return f.mode == Editing }

// Committed returns a copy of the last value seen from the document.
func (f *Field[T]) Committed() T { return f.clone(f.committed) }

// Draft returns a copy of the working value.
func (f *Field[T]) Draft() T { return f.clone(f.draft) }

// BeginEdit enters Editing with a fresh draft. No-op if already editing.
func (f *Field[T]) BeginEdit() {
	if f.mode == Editing {
		return
	}
	f.draft = f.clone(f.committed)
	f.mode = Editing
}

// SetDraft replaces the draft. No validation happens here.
func (f *Field[T]) SetDraft(value T) error {
	if f.mode != Editing {
		return ErrNotEditing
	}
	f.draft = f.clone(value)
	return nil
}

// Commit passes the finalized draft to the save callback exactly once and
// returns to Viewing. If the callback fails the controller stays in Editing
// with the draft intact. The committed value is not self-assigned: it changes
// when the document round-trip delivers it through Sync.
func (f *Field[T]) Commit() error {
	if f.mode != Editing {
		return ErrNotEditing
	}
	value := f.clone(f.draft)
	if f.finalize != nil {
		value = f.finalize(value)
	}
	if f.save != nil {
		if err := f.save(value); err != nil {
			return err
		}
	}
	f.mode = Viewing
	return nil
}

// Cancel discards the draft and returns to Viewing without calling save.
func (f *Field[T]) Cancel() error {
	if f.mode != Editing {
		return ErrNotEditing
	}
	f.draft = f.clone(f.committed)
	f.mode = Viewing
	return nil
}

// Sync records an external update of the committed value. While Viewing the
// draft follows it; while Editing the draft is left alone.
func (f *Field[T]) Sync(committed T) {
	f.committed = f.clone(committed)
	if f.mode == Viewing {
		f.draft = f.clone(committed)
	}
}

// update applies fn to the draft in place. Used by the structural variants.
func (f *Field[T]) update(fn func(draft T) T) error {
	if f.mode != Editing {
		return ErrNotEditing
	}
	f.draft = fn(f.draft)
	return nil
}
