package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/auth"
	"takeoffadmin/internal/forms"
	"takeoffadmin/internal/logging"
	"takeoffadmin/internal/models"
	"takeoffadmin/internal/router"
	"takeoffadmin/internal/store"
	"takeoffadmin/internal/views"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Languages the admin can switch between.
var Languages = []string{"English", "Arabic"}

const notFoundKey = "*"

// Options wires the app to the rest of the client.
type Options struct {
	Store    *store.Store
	Gate     *auth.Gate
	Router   *router.Router
	PageSize int
	Dark     bool
}

type signedOutMsg struct{ err error }

// App is the root bubbletea model. It renders the current route and
// forwards input to its page.
type App struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	pages    map[string]Page
	notFound *NotFoundPage
	current  string

	spinner  spinner.Model
	renderer *DetailRenderer
	styles   Styles
	layout   LayoutConfig
	status   string
}

// NewApp builds every page up front. Pages keep their state across visits.
func NewApp(opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	styles := NewStyles(ThemeFor(opts.Dark))
	renderer := NewDetailRenderer(styles.Theme.IsDark)
	preview := forms.NewPreviewer(10 * time.Minute)
	st := opts.Store

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	a := &App{
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		spinner:  s,
		renderer: renderer,
		styles:   styles,
		layout:   NewLayoutConfig(MinimumTerminalWidth, 24),
		notFound: NewNotFoundPage(styles),
	}

	memberForm := views.NewForm(st.Members, &forms.Member{})
	eventForm := views.NewForm(st.Events, &forms.Event{})
	bannerForm := views.NewForm(st.Banners, &forms.Banner{})
	founderForm := views.NewForm(st.Founders, &forms.Founder{Achievements: []string{""}})

	a.pages = map[string]Page{
		router.Login:     NewLoginPage(ctx, opts.Gate.SignIn, styles),
		router.Dashboard: NewDashboardPage(ctx, views.NewDashboard(st.Dashboard), styles),

		router.AddMember: NewFormPage(ctx, FormSpec{
			ID: router.AddMember, Title: "Add Member", Fields: MemberFields(memberForm.Draft),
			Submit: submitter(memberForm), Loading: memberForm.Loading,
			Acknowledge: memberForm.Acknowledge, Unmount: memberForm.Unmount,
		}, preview, styles),
		router.AddEvent: NewFormPage(ctx, FormSpec{
			ID: router.AddEvent, Title: "Add Event", Fields: EventFields(eventForm.Draft),
			Submit: submitter(eventForm), Loading: eventForm.Loading,
			Acknowledge: eventForm.Acknowledge, Unmount: eventForm.Unmount,
		}, preview, styles),
		router.AddBanner: NewFormPage(ctx, FormSpec{
			ID: router.AddBanner, Title: "Add Banner", Fields: BannerFields(bannerForm.Draft),
			Submit: submitter(bannerForm), Loading: bannerForm.Loading,
			Acknowledge: bannerForm.Acknowledge, Unmount: bannerForm.Unmount,
		}, preview, styles),
		router.AddFounder: NewFormPage(ctx, FormSpec{
			ID: router.AddFounder, Title: "Add Founder Profile", Fields: FounderFields(founderForm.Draft),
			Submit: submitter(founderForm), Loading: founderForm.Loading,
			Acknowledge: founderForm.Acknowledge, Unmount: founderForm.Unmount,
		}, preview, styles),

		router.Members: NewListPage(ctx, MemberList(),
			views.NewList(st.Members, views.ListOptions{Noun: "member", PageSize: opts.PageSize}), renderer, preview, styles),
		router.Memberships: NewListPage(ctx, MembershipList(),
			views.NewList(st.Memberships, views.ListOptions{Noun: "membership enquiry"}), renderer, preview, styles),
		router.Events: NewListPage(ctx, EventList(),
			views.NewList(st.Events, views.ListOptions{Noun: "event"}), renderer, preview, styles),
		router.Banners: NewListPage(ctx, BannerList(),
			views.NewList(st.Banners, views.ListOptions{Noun: "banner"}), renderer, preview, styles),
		router.Founders: NewListPage(ctx, FounderList(),
			views.NewList(st.Founders, views.ListOptions{Noun: "founder profile"}), renderer, preview, styles),
	}
	return a
}

func submitter[T models.Record, D forms.Draft](f *views.Form[T, D]) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if err := f.Submit(ctx); err != nil {
			return "", err
		}
		return f.Message(), nil
	}
}

// Current returns the path of the page on screen.
func (a *App) Current() string { return a.current }

// Page returns the page for path.
func (a *App) Page(path string) Page {
	if p, ok := a.pages[path]; ok {
		return p
	}
	return a.notFound
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.sync())
}

// Navigate moves to path through the router.
func (a *App) Navigate(path string) tea.Cmd {
	a.opts.Router.Navigate(path)
	return a.sync()
}

// sync mounts the router's current page if it changed.
func (a *App) sync() tea.Cmd {
	res := a.opts.Router.Current()
	key := res.Route.Path
	if res.NotFound {
		key = notFoundKey
		a.notFound.SetPath(res.Requested)
	}
	if key == a.current {
		return nil
	}
	logging.UIDebug("page %s -> %s", a.current, key)
	if u, ok := a.pages[a.current].(Unmounter); ok {
		u.Unmount()
	}
	a.current = key
	a.status = ""
	return a.Page(key).Mount()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.layout = NewLayoutConfig(msg.Width, msg.Height)
		return a, nil

	case ThemeMsg:
		a.applyTheme(msg.Dark)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case signedOutMsg:
		if msg.err != nil {
			a.status = "Signed out locally: " + api.AsFailure(msg.err).Message
		}
		cmd := a.sync()
		return a, cmd

	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}
		_, cmd := a.Page(a.current).Update(msg)
		return a, tea.Batch(cmd, a.sync())
	}

	// Async results go to every page; each keeps only its own.
	var cmds []tea.Cmd
	for _, p := range a.pages {
		_, cmd := p.Update(msg)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, a.sync())
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		a.cancel()
		return tea.Quit, true
	}
	if a.Page(a.current).Capturing() {
		return nil, false
	}

	switch key {
	case "q":
		a.cancel()
		return tea.Quit, true
	case "x":
		if !a.opts.Store.Auth.IsLogged() {
			return nil, false
		}
		return a.signOut(), true
	case "t":
		if !a.opts.Store.Auth.IsLogged() {
			return nil, false
		}
		a.toggleLanguage()
		return nil, true
	}

	if r := menuRoute(key); r != "" && a.opts.Store.Auth.IsLogged() {
		return a.Navigate(r), true
	}
	return nil, false
}

func (a *App) signOut() tea.Cmd {
	gate, ctx := a.opts.Gate, a.ctx
	return func() tea.Msg {
		return signedOutMsg{err: gate.SignOut(ctx)}
	}
}

func (a *App) toggleLanguage() {
	cur := a.opts.Store.Language.State().Language
	next := Languages[0]
	for i, l := range Languages {
		if l == cur {
			next = Languages[(i+1)%len(Languages)]
		}
	}
	if _, err := a.opts.Store.Language.Change(next); err != nil {
		a.status = api.AsFailure(err).Message
		return
	}
	a.status = "Language: " + next
}

func (a *App) applyTheme(dark bool) {
	a.styles = NewStyles(ThemeFor(dark))
	a.spinner.Style = a.styles.Spinner
	a.renderer.SetDark(a.styles.Theme.IsDark)
	for _, p := range a.pages {
		p.SetStyles(a.styles)
	}
	a.notFound.SetStyles(a.styles)
}

// menu lists the protected routes bound to the digit keys 1-9 and 0.
func menu() []router.Route {
	var out []router.Route
	for _, r := range router.Routes {
		if r.Protected {
			out = append(out, r)
		}
	}
	return out
}

func menuKey(i int) string {
	return fmt.Sprintf("%d", (i+1)%10)
}

func menuRoute(key string) string {
	for i, r := range menu() {
		if i < 10 && menuKey(i) == key {
			return r.Path
		}
	}
	return ""
}

func (a *App) View() string {
	page := a.Page(a.current)
	logged := a.opts.Store.Auth.IsLogged()

	header := Logo(a.styles)
	if logged {
		header += "  " + a.styles.Badge.Render(a.roleLabel())
		header += "  " + a.styles.Muted.Render(a.opts.Store.Language.State().Language)
	}

	content := a.styles.Content.Width(a.layout.ContentWidth()).Render(page.View())
	body := content
	if logged && !a.layout.IsCompact {
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.sidebar(), content)
	}

	footer := a.footer(page, logged)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.styles.RenderDivider(a.layout.TerminalWidth-2),
		body,
		footer,
	)
}

func (a *App) roleLabel() string {
	role := a.opts.Store.Auth.State().Session.Role
	if role == "" {
		return "admin"
	}
	return role
}

func (a *App) sidebar() string {
	var sb strings.Builder
	for i, r := range menu() {
		line := fmt.Sprintf("%s %s", menuKey(i), r.Title)
		if r.Path == a.current {
			sb.WriteString(a.styles.Selected.Render(line))
		} else {
			sb.WriteString(a.styles.Body.Render(line))
		}
		sb.WriteString("\n")
	}
	return a.styles.Sidebar.Width(SidebarWidth).Render(sb.String())
}

func (a *App) footer(page Page, logged bool) string {
	var parts []string
	if page.Loading() {
		parts = append(parts, a.spinner.View()+" loading")
	}
	if a.status != "" {
		parts = append(parts, a.status)
	}
	switch {
	case a.current == router.Login:
		parts = append(parts, "tab switch field • enter sign in • ctrl+c quit")
	case page.Capturing():
		parts = append(parts, "esc stop typing • ctrl+c quit")
	case logged:
		parts = append(parts, "1-0 navigate • t language • x sign out • q quit")
	default:
		parts = append(parts, "q quit")
	}
	return a.styles.Footer.Render(strings.Join(parts, "  │  "))
}
