package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Page is one routed screen. Pages use pointer receivers and return
// themselves from Update.
type Page interface {
	// Mount loads the page data when it becomes current.
	Mount() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
	// Capturing reports whether the page wants every key, e.g. while a
	// text field has focus. Global shortcuts are suspended while it does.
	Capturing() bool
	Loading() bool
	SetStyles(s Styles)
}

// Unmounter is implemented by pages that release state when they stop
// being current.
type Unmounter interface {
	Unmount()
}

// resultMsg reports the end of an async page operation.
type resultMsg struct {
	page string
	op   string
	err  error
}

// run executes fn off the event loop and reports its result to page.
func run(ctx context.Context, page, op string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{page: page, op: op, err: fn(ctx)}
	}
}

// ThemeMsg switches the colour scheme at runtime.
type ThemeMsg struct {
	Dark bool
}
