package ui

import (
	"context"
	"fmt"
	"strings"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const dashboardPageID = "dashboard"

// DashboardPage shows the record totals.
type DashboardPage struct {
	dash    *views.Dashboard
	busy    bool
	failure string

	ctx    context.Context
	styles Styles
}

// NewDashboardPage creates the landing page.
func NewDashboardPage(ctx context.Context, dash *views.Dashboard, styles Styles) *DashboardPage {
	return &DashboardPage{dash: dash, ctx: ctx, styles: styles}
}

func (p *DashboardPage) Mount() tea.Cmd {
	p.busy = true
	p.failure = ""
	return run(p.ctx, dashboardPageID, "load", p.dash.Mount)
}

func (p *DashboardPage) Capturing() bool { return false }

func (p *DashboardPage) Loading() bool { return p.busy }

func (p *DashboardPage) SetStyles(s Styles) { p.styles = s }

func (p *DashboardPage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.page != dashboardPageID {
			return p, nil
		}
		p.busy = false
		if msg.err != nil {
			p.failure = api.AsFailure(msg.err).Message
		}
	case tea.KeyMsg:
		if msg.String() == "r" && !p.busy {
			return p, p.Mount()
		}
	}
	return p, nil
}

func (p *DashboardPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Dashboard"))
	sb.WriteString("\n")

	cards := p.dash.Cards()
	switch {
	case cards == nil && p.failure != "":
		sb.WriteString(p.styles.Error.Render(p.failure))
		sb.WriteString("\n")
	case cards == nil:
		sb.WriteString(p.styles.Muted.Render("Loading totals..."))
		sb.WriteString("\n")
	default:
		boxes := make([]string, 0, len(cards))
		for _, c := range cards {
			boxes = append(boxes, p.styles.Card.Render(
				p.styles.Bold.Render(fmt.Sprintf("%d", c.Count))+"\n"+p.styles.Muted.Render(c.Label)))
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes[:3]...))
		sb.WriteString("\n")
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes[3:]...))
		sb.WriteString("\n\n")

		sb.WriteString(p.styles.Body.Render(fmt.Sprintf("Total records: %d", p.dash.TotalRecords())))
		if t := p.dash.LastUpdated(); !t.IsZero() {
			sb.WriteString(p.styles.Muted.Render("   last updated " + t.Local().Format("2006-01-02 15:04")))
		}
		sb.WriteString("\n")
		if p.failure != "" {
			sb.WriteString(p.styles.Error.Render(p.failure) + "\n")
		}
	}
	sb.WriteString("\n" + p.styles.Muted.Render("r refresh"))
	return sb.String()
}

// NotFoundPage is shown for unknown paths.
type NotFoundPage struct {
	path   string
	styles Styles
}

// NewNotFoundPage creates the not-found page.
func NewNotFoundPage(styles Styles) *NotFoundPage {
	return &NotFoundPage{styles: styles}
}

// SetPath records the unknown path that was requested.
func (p *NotFoundPage) SetPath(path string) { p.path = path }

func (p *NotFoundPage) Mount() tea.Cmd                 { return nil }
func (p *NotFoundPage) Capturing() bool                { return false }
func (p *NotFoundPage) Loading() bool                  { return false }
func (p *NotFoundPage) SetStyles(s Styles)             { p.styles = s }
func (p *NotFoundPage) Update(tea.Msg) (Page, tea.Cmd) { return p, nil }

func (p *NotFoundPage) View() string {
	return p.styles.Title.Render("404") + "\n" +
		p.styles.Body.Render("Page not found: "+p.path) + "\n\n" +
		p.styles.Muted.Render("press 1 for the dashboard")
}
