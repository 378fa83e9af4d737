// Package views is the page logic behind every screen, independent of how
// the page is drawn. Collections live in the store; views subscribe to them
// and only keep local presentation state (expanded row, current page).
package views

import (
	"context"
	"fmt"
	"sync"

	"takeoffadmin/internal/actions"
	"takeoffadmin/internal/forms"
	"takeoffadmin/internal/logging"
	"takeoffadmin/internal/models"
	"takeoffadmin/internal/store"
)

// Confirm asks the user a yes/no question.
type Confirm func(prompt string) bool

// AlwaysConfirm answers yes to every prompt.
func AlwaysConfirm(string) bool { return true }

// ListOptions configures a List.
type ListOptions struct {
	// Noun names one record in prompts, e.g. "banner".
	Noun string
	// PageSize is used when the collection is server-paginated.
	PageSize int
	Confirm  Confirm
}

// List is a collection page: expand/collapse, delete, edit and pagination.
type List[T models.Record] struct {
	col  *store.Collection[T]
	opts ListOptions

	mu       sync.Mutex
	page     int
	expanded string
	notice   string
}

// NewList creates the list view over col.
func NewList[T models.Record](col *store.Collection[T], opts ListOptions) *List[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = actions.MemberPageSize
	}
	if opts.Confirm == nil {
		opts.Confirm = AlwaysConfirm
	}
	if opts.Noun == "" {
		opts.Noun = col.Name()
	}
	return &List[T]{col: col, opts: opts, page: 1}
}

// Mount fetches the collection for the current page.
func (l *List[T]) Mount(ctx context.Context) error {
	return l.fetch(ctx)
}

// State is the collection state from the store.
func (l *List[T]) State() store.State[T] {
	return l.col.State()
}

// Subscribe forwards slice updates to fn.
func (l *List[T]) Subscribe(fn func(store.State[T])) func() {
	return l.col.Subscribe(fn)
}

// Toggle expands id, or collapses it if it is already expanded.
// At most one row is expanded at a time.
func (l *List[T]) Toggle(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.expanded == id {
		l.expanded = ""
		return
	}
	l.expanded = id
}

// Expanded returns the expanded row id, or "".
func (l *List[T]) Expanded() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.expanded
}

// Delete asks for confirmation, then dispatches one delete followed by one
// re-fetch. It reports whether the delete went through. Rows are never
// removed locally ahead of the server.
func (l *List[T]) Delete(ctx context.Context, id string) (bool, error) {
	if !l.opts.Confirm(fmt.Sprintf("Are you sure you want to delete this %s?", l.opts.Noun)) {
		return false, nil
	}
	if _, err := l.col.Delete(ctx, id); err != nil {
		logging.UI("delete %s %s failed: %v", l.opts.Noun, id, err)
		return false, err
	}
	l.mu.Lock()
	if l.expanded == id {
		l.expanded = ""
	}
	l.notice = l.col.State().Message
	l.mu.Unlock()
	return true, l.fetch(ctx)
}

// Update validates the edit draft, dispatches the update and re-fetches on success.
func (l *List[T]) Update(ctx context.Context, id string, draft forms.Draft) error {
	if errs := draft.Validate(forms.Edit); len(errs) > 0 {
		return errs.Failure()
	}
	body, err := draft.Body(forms.Edit)
	if err != nil {
		return err
	}
	if _, err := l.col.Update(ctx, id, body); err != nil {
		return err
	}
	l.mu.Lock()
	l.notice = l.col.State().Message
	l.mu.Unlock()
	return l.fetch(ctx)
}

// Notice returns the success message of the last delete or update. The
// slice message itself is cleared by the re-fetch that follows.
func (l *List[T]) Notice() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.notice
}

// ClearNotice drops the notice once it has been shown.
func (l *List[T]) ClearNotice() {
	l.mu.Lock()
	l.notice = ""
	l.mu.Unlock()
}

// Acknowledge clears the slice message and error once the page has shown them.
func (l *List[T]) Acknowledge() {
	l.col.ClearMessage()
}

// Unmount tears the page down: the slice drops its last payload, current
// record, error and message, and the notice and expanded row are cleared.
// Loaded items and the current page are kept.
func (l *List[T]) Unmount() {
	l.col.Reset()
	l.mu.Lock()
	l.notice = ""
	l.expanded = ""
	l.mu.Unlock()
}

// Page returns the current 1-based page.
func (l *List[T]) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// SetPage moves to page n, collapses the expanded row and re-fetches.
func (l *List[T]) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	l.mu.Lock()
	l.page = n
	l.expanded = ""
	l.mu.Unlock()
	return l.fetch(ctx)
}

// NextPage moves forward when a next page exists.
func (l *List[T]) NextPage(ctx context.Context) error {
	if !l.CanNext() {
		return nil
	}
	return l.SetPage(ctx, l.Page()+1)
}

// PrevPage moves back when a previous page exists.
func (l *List[T]) PrevPage(ctx context.Context) error {
	if !l.CanPrev() {
		return nil
	}
	return l.SetPage(ctx, l.Page()-1)
}

// RangeLabel renders "11 - 20 of 25", or "" for unpaginated lists.
func (l *List[T]) RangeLabel() string {
	p := l.col.State().Pagination
	if p == nil {
		return ""
	}
	return p.Label()
}

// CanPrev reports whether the previous-page control is enabled.
func (l *List[T]) CanPrev() bool {
	p := l.col.State().Pagination
	return p != nil && p.HasPrev()
}

// CanNext reports whether the next-page control is enabled.
func (l *List[T]) CanNext() bool {
	p := l.col.State().Pagination
	return p != nil && p.HasNext()
}

func (l *List[T]) fetch(ctx context.Context) error {
	params := actions.ListParams{}
	if l.col.Paginated() {
		params = actions.ListParams{Page: l.Page(), Limit: l.opts.PageSize}
	}
	_, err := l.col.List(ctx, params)
	return err
}
