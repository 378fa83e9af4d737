package ui

import (
	"context"
	"fmt"
	"strings"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/forms"
	"takeoffadmin/internal/models"
	"takeoffadmin/internal/views"

	tea "github.com/charmbracelet/bubbletea"
)

// ListSpec describes a collection page.
type ListSpec[T models.Record] struct {
	ID      string
	Title   string
	Noun    string
	Headers []string
	Row     func(T) []string
	Detail  func(T) string
	// Edit builds an edit draft for a record; nil disables editing.
	Edit func(T) (forms.Draft, []Field)
	// ReadOnly disables delete and edit.
	ReadOnly bool
}

// ListPage shows a collection as a table with one expandable row.
type ListPage[T models.Record] struct {
	spec ListSpec[T]
	list *views.List[T]

	cursor     int
	confirming string
	busy       bool
	failure    string

	editing *FormPage

	ctx      context.Context
	renderer *DetailRenderer
	preview  *forms.Previewer
	styles   Styles
}

// NewListPage creates a list page over list.
func NewListPage[T models.Record](ctx context.Context, spec ListSpec[T], list *views.List[T], renderer *DetailRenderer, preview *forms.Previewer, styles Styles) *ListPage[T] {
	return &ListPage[T]{spec: spec, list: list, ctx: ctx, renderer: renderer, preview: preview, styles: styles}
}

func (p *ListPage[T]) Mount() tea.Cmd {
	p.editing = nil
	p.confirming = ""
	p.list.ClearNotice()
	return p.do("load", p.list.Mount)
}

// Unmount drops the notice, failure and slice state of the last visit.
func (p *ListPage[T]) Unmount() {
	p.editing = nil
	p.confirming = ""
	p.failure = ""
	p.list.Unmount()
}

func (p *ListPage[T]) Capturing() bool {
	return p.editing != nil && p.editing.Capturing()
}

func (p *ListPage[T]) Loading() bool {
	if p.editing != nil {
		return p.editing.Loading()
	}
	return p.busy || p.list.State().Loading
}

func (p *ListPage[T]) SetStyles(s Styles) {
	p.styles = s
	if p.editing != nil {
		p.editing.SetStyles(s)
	}
}

// Confirming returns the id awaiting delete confirmation, or "".
func (p *ListPage[T]) Confirming() string { return p.confirming }

// Editing reports whether the edit form is open.
func (p *ListPage[T]) Editing() bool { return p.editing != nil }

// Cursor returns the highlighted row.
func (p *ListPage[T]) Cursor() int { return p.cursor }

func (p *ListPage[T]) do(op string, fn func(ctx context.Context) error) tea.Cmd {
	p.busy = true
	p.failure = ""
	return run(p.ctx, p.spec.ID, op, fn)
}

func (p *ListPage[T]) selected() (T, bool) {
	items := p.list.State().Items
	if p.cursor < 0 || p.cursor >= len(items) {
		var zero T
		return zero, false
	}
	return items[p.cursor], true
}

func (p *ListPage[T]) Update(msg tea.Msg) (Page, tea.Cmd) {
	if p.editing != nil {
		return p.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case resultMsg:
		if msg.page != p.spec.ID {
			return p, nil
		}
		p.busy = false
		if msg.err != nil {
			p.failure = api.AsFailure(msg.err).Message
		}
		p.list.Acknowledge()
		if n := len(p.list.State().Items); p.cursor >= n {
			p.cursor = max(n-1, 0)
		}
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

func (p *ListPage[T]) handleKey(msg tea.KeyMsg) (Page, tea.Cmd) {
	key := msg.String()

	if p.confirming != "" {
		switch key {
		case "y", "Y":
			id := p.confirming
			p.confirming = ""
			return p, p.do("delete", func(ctx context.Context) error {
				_, err := p.list.Delete(ctx, id)
				return err
			})
		case "n", "N", "esc":
			p.confirming = ""
		}
		return p, nil
	}

	if p.busy {
		return p, nil
	}

	switch key {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.list.State().Items)-1 {
			p.cursor++
		}
	case "enter", " ":
		if it, ok := p.selected(); ok {
			p.list.Toggle(it.Key())
		}
	case "d":
		if it, ok := p.selected(); ok && !p.spec.ReadOnly {
			p.list.ClearNotice()
			p.confirming = it.Key()
		}
	case "e":
		if it, ok := p.selected(); ok && p.spec.Edit != nil && !p.spec.ReadOnly {
			p.openEditor(it)
		}
	case "]":
		if p.list.CanNext() {
			p.cursor = 0
			return p, p.do("page", p.list.NextPage)
		}
	case "[":
		if p.list.CanPrev() {
			p.cursor = 0
			return p, p.do("page", p.list.PrevPage)
		}
	case "r":
		return p, p.do("load", p.list.Mount)
	}
	return p, nil
}

func (p *ListPage[T]) openEditor(it T) {
	draft, fields := p.spec.Edit(it)
	id := it.Key()
	spec := FormSpec{
		ID:     p.spec.ID + "/edit",
		Title:  "Edit " + p.spec.Noun,
		Fields: fields,
		Submit: func(ctx context.Context) (string, error) {
			if err := p.list.Update(ctx, id, draft); err != nil {
				return "", err
			}
			return p.list.Notice(), nil
		},
	}
	p.editing = NewFormPage(p.ctx, spec, p.preview, p.styles)
}

func (p *ListPage[T]) updateEditing(msg tea.Msg) (Page, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" && !p.editing.Capturing() {
		p.editing = nil
		return p, nil
	}
	_, cmd := p.editing.Update(msg)
	if p.editing.Succeeded() {
		p.editing = nil
	}
	return p, cmd
}

func (p *ListPage[T]) View() string {
	if p.editing != nil {
		return p.editing.View() + "\n" + p.styles.Muted.Render("esc twice to cancel editing")
	}

	st := p.list.State()
	table := NewSimpleTable(p.spec.Title, p.spec.Headers)
	expanded := p.list.Expanded()
	var detail string
	for _, it := range st.Items {
		table.AddRow(p.spec.Row(it)...)
		if it.Key() == expanded && p.spec.Detail != nil {
			detail = p.renderer.Render(p.spec.Detail(it))
		}
	}
	if len(st.Items) > 0 {
		table.Selected = p.cursor
	}

	var sb strings.Builder
	sb.WriteString(table.View(p.styles))

	if label := p.list.RangeLabel(); label != "" {
		sb.WriteString(p.styles.Muted.Render(fmt.Sprintf("%s   page %d", label, p.list.Page())))
		sb.WriteString("\n")
	}
	if detail != "" {
		sb.WriteString("\n" + detail + "\n")
	}

	sb.WriteString("\n")
	switch {
	case p.confirming != "":
		sb.WriteString(p.styles.Warning.Render(fmt.Sprintf("Are you sure you want to delete this %s? (y/n)", p.spec.Noun)))
	case p.failure != "":
		sb.WriteString(p.styles.Error.Render(p.failure))
	case p.list.Notice() != "":
		sb.WriteString(p.styles.Success.Render(p.list.Notice()))
	}
	sb.WriteString("\n")
	sb.WriteString(p.styles.Muted.Render(p.help()))
	return sb.String()
}

func (p *ListPage[T]) help() string {
	parts := []string{"↑/↓ move", "enter expand"}
	if !p.spec.ReadOnly {
		if p.spec.Edit != nil {
			parts = append(parts, "e edit")
		}
		parts = append(parts, "d delete")
	}
	if p.list.RangeLabel() != "" {
		parts = append(parts, "[/] page")
	}
	parts = append(parts, "r refresh")
	return strings.Join(parts, " • ")
}
