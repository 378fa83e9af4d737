package ui

import (
	"context"
	"fmt"
	"strings"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/forms"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FormSpec describes a form page. Submit returns the success message.
type FormSpec struct {
	ID      string
	Title   string
	Fields  []Field
	Submit  func(ctx context.Context) (string, error)
	Loading func() bool

	// Acknowledge runs once a submit result has been taken over for display.
	Acknowledge func()
	// Unmount runs when the page stops being current.
	Unmount func()
}

type submittedMsg struct {
	page    string
	message string
	err     error
}

// FormPage edits a draft through one text input per field.
// Tab and shift+tab move between fields, enter on the last field or ctrl+s
// submits, esc leaves typing mode so page shortcuts work again.
type FormPage struct {
	spec      FormSpec
	inputs    []textinput.Model
	focus     int
	typing    bool
	submitted bool
	busy      bool

	errors  forms.FieldErrors
	message string
	failure string

	ctx     context.Context
	preview *forms.Previewer
	styles  Styles
}

// NewFormPage creates a form page over spec.
func NewFormPage(ctx context.Context, spec FormSpec, preview *forms.Previewer, styles Styles) *FormPage {
	p := &FormPage{spec: spec, ctx: ctx, preview: preview, styles: styles, typing: true}
	p.inputs = make([]textinput.Model, len(spec.Fields))
	for i, f := range spec.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Hint
		ti.CharLimit = 500
		ti.Width = 48
		p.inputs[i] = ti
	}
	p.load()
	p.setFocus(0)
	return p
}

// load copies the draft values into the inputs.
func (p *FormPage) load() {
	for i, f := range p.spec.Fields {
		p.inputs[i].SetValue(f.Get())
	}
}

// store copies the inputs back into the draft.
func (p *FormPage) store() {
	for i, f := range p.spec.Fields {
		f.Set(p.inputs[i].Value())
	}
}

func (p *FormPage) setFocus(i int) {
	if len(p.inputs) == 0 {
		return
	}
	if i < 0 {
		i = len(p.inputs) - 1
	}
	if i >= len(p.inputs) {
		i = 0
	}
	p.inputs[p.focus].Blur()
	p.focus = i
	if p.typing {
		p.inputs[i].Focus()
	}
}

func (p *FormPage) Mount() tea.Cmd {
	p.submitted = false
	return textinput.Blink
}

// Unmount forgets the last submit so it is not shown on the next visit.
func (p *FormPage) Unmount() {
	p.errors = nil
	p.message, p.failure = "", ""
	if p.spec.Unmount != nil {
		p.spec.Unmount()
	}
}

func (p *FormPage) Capturing() bool { return p.typing }

func (p *FormPage) Loading() bool {
	if p.busy {
		return true
	}
	return p.spec.Loading != nil && p.spec.Loading()
}

func (p *FormPage) SetStyles(s Styles) { p.styles = s }

// Succeeded reports whether the last submit went through.
func (p *FormPage) Succeeded() bool { return p.submitted }

// Errors returns the field errors of the last submit.
func (p *FormPage) Errors() forms.FieldErrors { return p.errors }

// Message returns the success message of the last submit.
func (p *FormPage) Message() string { return p.message }

// Failure returns the error message of the last submit.
func (p *FormPage) Failure() string { return p.failure }

func (p *FormPage) submit() tea.Cmd {
	if p.busy {
		return nil
	}
	p.store()
	p.busy = true
	p.message, p.failure = "", ""
	id, ctx, fn := p.spec.ID, p.ctx, p.spec.Submit
	return func() tea.Msg {
		m, err := fn(ctx)
		return submittedMsg{page: id, message: m, err: err}
	}
}

func (p *FormPage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		if msg.page != p.spec.ID {
			return p, nil
		}
		p.finish(msg.message, msg.err)
		return p, nil

	case resultMsg:
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			return p, p.submit()
		case "tab", "down":
			p.setFocus(p.focus + 1)
			return p, nil
		case "shift+tab", "up":
			p.setFocus(p.focus - 1)
			return p, nil
		}

		if !p.typing {
			switch msg.String() {
			case "enter", "i":
				p.typing = true
				p.setFocus(p.focus)
				return p, textinput.Blink
			}
			return p, nil
		}

		switch msg.String() {
		case "esc":
			p.typing = false
			p.inputs[p.focus].Blur()
			return p, nil
		case "enter":
			if p.focus == len(p.inputs)-1 {
				return p, p.submit()
			}
			p.setFocus(p.focus + 1)
			return p, nil
		}
	}

	if len(p.inputs) == 0 {
		return p, nil
	}
	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	return p, cmd
}

func (p *FormPage) finish(message string, err error) {
	p.busy = false
	if p.spec.Acknowledge != nil {
		defer p.spec.Acknowledge()
	}
	if err == nil {
		p.submitted = true
		p.message = message
		p.errors = nil
		p.load()
		return
	}
	f := api.AsFailure(err)
	if f.Kind == api.KindValidation {
		p.errors = forms.FieldErrors(f.Fields)
	} else {
		p.errors = nil
	}
	p.failure = f.Message
}

func (p *FormPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render(p.spec.Title))
	sb.WriteString("\n")

	for i, f := range p.spec.Fields {
		label := p.styles.FieldLabel.Render(f.Label)
		if i == p.focus {
			label = p.styles.Prompt.Render("> ") + label
		} else {
			label = "  " + label
		}
		sb.WriteString(label + "\n")
		sb.WriteString("  " + p.inputs[i].View() + "\n")
		if e, ok := p.errors[f.Key]; ok {
			sb.WriteString("  " + p.styles.FieldError.Render(e) + "\n")
		}
		if f.Key == "image" {
			if line := p.previewLine(p.inputs[i].Value()); line != "" {
				sb.WriteString("  " + p.styles.Muted.Render(line) + "\n")
			}
		}
	}

	sb.WriteString("\n")
	switch {
	case p.busy:
		sb.WriteString(p.styles.Info.Render("Saving..."))
	case p.failure != "":
		sb.WriteString(p.styles.Error.Render(p.failure))
	case p.message != "":
		sb.WriteString(p.styles.Success.Render(p.message))
	}
	return sb.String()
}

func (p *FormPage) previewLine(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || p.preview == nil {
		return ""
	}
	pv, err := p.preview.Preview(path)
	if err != nil {
		return "cannot read image: " + err.Error()
	}
	return fmt.Sprintf("%s, %d bytes", pv.MimeType, pv.Size)
}
