package views

import (
	"context"
	"sync"

	"takeoffadmin/internal/forms"
	"takeoffadmin/internal/models"
	"takeoffadmin/internal/store"
)

// Form is a create page: validate, dispatch once, and reset the draft on success.
type Form[T models.Record, D forms.Draft] struct {
	Draft D

	col *store.Collection[T]

	mu      sync.Mutex
	errors  forms.FieldErrors
	message string
}

// NewForm creates a create page for col editing draft.
func NewForm[T models.Record, D forms.Draft](col *store.Collection[T], draft D) *Form[T, D] {
	return &Form[T, D]{Draft: draft, col: col}
}

// Submit validates the draft and, when it passes, dispatches one create.
// Validation failures never reach the network. On failure the draft is kept.
func (f *Form[T, D]) Submit(ctx context.Context) error {
	errs := f.Draft.Validate(forms.Create)
	f.mu.Lock()
	f.errors = errs
	f.message = ""
	f.mu.Unlock()
	if len(errs) > 0 {
		return errs.Failure()
	}

	body, err := f.Draft.Body(forms.Create)
	if err != nil {
		return err
	}
	if _, err := f.col.Create(ctx, body); err != nil {
		return err
	}

	f.Draft.Reset()
	f.mu.Lock()
	f.message = f.col.State().Message
	f.mu.Unlock()
	return nil
}

// Errors returns the field errors of the last submit.
func (f *Form[T, D]) Errors() forms.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors
}

// Message returns the success message of the last submit.
func (f *Form[T, D]) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Acknowledge clears the slice message and error once the page has shown them.
func (f *Form[T, D]) Acknowledge() {
	f.col.ClearMessage()
}

// Unmount resets the slice and forgets the last submit. The draft is kept.
func (f *Form[T, D]) Unmount() {
	f.col.Reset()
	f.mu.Lock()
	f.errors = nil
	f.message = ""
	f.mu.Unlock()
}

// Loading reports whether a create is in flight.
func (f *Form[T, D]) Loading() bool {
	return f.col.State().Loading
}
