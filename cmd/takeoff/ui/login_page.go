package ui

import (
	"context"
	"strings"

	"takeoffadmin/internal/api"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const loginPageID = "login"

// SignInFunc signs in with the given credentials.
type SignInFunc func(ctx context.Context, email, password string) error

// LoginPage is the sign-in form.
type LoginPage struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool

	errors  map[string]string
	failure string

	signIn SignInFunc
	ctx    context.Context
	styles Styles
}

// NewLoginPage creates the sign-in page.
func NewLoginPage(ctx context.Context, signIn SignInFunc, styles Styles) *LoginPage {
	email := textinput.New()
	email.Placeholder = "admin@example.com"
	email.Prompt = ""
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginPage{email: email, password: password, signIn: signIn, ctx: ctx, styles: styles}
}

func (p *LoginPage) Mount() tea.Cmd {
	p.password.Reset()
	p.errors = nil
	return textinput.Blink
}

func (p *LoginPage) Capturing() bool { return true }

func (p *LoginPage) Loading() bool { return p.busy }

func (p *LoginPage) SetStyles(s Styles) { p.styles = s }

// Failure returns the last sign-in error message.
func (p *LoginPage) Failure() string { return p.failure }

// Errors returns the last field errors.
func (p *LoginPage) Errors() map[string]string { return p.errors }

func (p *LoginPage) toggleFocus() {
	if p.focus == 0 {
		p.focus = 1
		p.email.Blur()
		p.password.Focus()
		return
	}
	p.focus = 0
	p.password.Blur()
	p.email.Focus()
}

func (p *LoginPage) submit() tea.Cmd {
	if p.busy {
		return nil
	}
	p.busy = true
	p.failure = ""
	p.errors = nil
	email, password := strings.TrimSpace(p.email.Value()), p.password.Value()
	return run(p.ctx, loginPageID, "signin", func(ctx context.Context) error {
		return p.signIn(ctx, email, password)
	})
}

func (p *LoginPage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.page != loginPageID {
			return p, nil
		}
		p.busy = false
		if msg.err != nil {
			f := api.AsFailure(msg.err)
			p.errors = f.Fields
			p.failure = f.Message
			return p, nil
		}
		p.password.Reset()
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			p.toggleFocus()
			return p, nil
		case "enter":
			if p.focus == 0 {
				p.toggleFocus()
				return p, nil
			}
			return p, p.submit()
		}
	}

	var cmd tea.Cmd
	if p.focus == 0 {
		p.email, cmd = p.email.Update(msg)
	} else {
		p.password, cmd = p.password.Update(msg)
	}
	return p, cmd
}

func (p *LoginPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Sign in to your admin account"))
	sb.WriteString("\n")

	row := func(label, key string, in textinput.Model, focused bool) {
		l := p.styles.FieldLabel.Render(label)
		if focused {
			l = p.styles.Prompt.Render("> ") + l
		} else {
			l = "  " + l
		}
		sb.WriteString(l + "\n  " + in.View() + "\n")
		if e, ok := p.errors[key]; ok {
			sb.WriteString("  " + p.styles.FieldError.Render(e) + "\n")
		}
	}
	row("Email", "email", p.email, p.focus == 0)
	row("Password", "password", p.password, p.focus == 1)

	sb.WriteString("\n")
	switch {
	case p.busy:
		sb.WriteString(p.styles.Info.Render("Signing in..."))
	case p.failure != "":
		sb.WriteString(p.styles.Error.Render(p.failure))
	}
	return sb.String()
}
