package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"takeoffadmin/cmd/takeoff/ui"
	"takeoffadmin/internal/config"
	"takeoffadmin/internal/store"
	"takeoffadmin/internal/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// dashboardCmd prints the record totals
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show record totals per content type",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

// syncCmd refreshes every collection at once
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the dashboard and every collection concurrently",
	Long: `Fetch the dashboard and all five collections in parallel and report
how many records each returned. One failing fetch does not stop the others.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.requireSession(); err != nil {
		return err
	}

	ctx, cancel := c.context()
	defer cancel()
	dash := views.NewDashboard(c.store.Dashboard)
	if err := dash.Mount(ctx); err != nil {
		return describe(cmd, err)
	}

	table := ui.NewSimpleTable("Dashboard", []string{"Content", "Records"})
	for _, card := range dash.Cards() {
		table.AddRow(card.Label, strconv.Itoa(card.Count))
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, table.View(cliStyles(c)))
	fmt.Fprintf(out, "\nTotal records: %d\n", dash.TotalRecords())
	if last := dash.LastUpdated(); !last.IsZero() {
		fmt.Fprintf(out, "Last updated:  %s\n", last.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.requireSession(); err != nil {
		return err
	}

	off := c.store.OnDispatch(func(a store.Action) {
		logger.Debug("action", zap.String("type", a.Type()), zap.Error(a.Err))
	})
	defer off()

	ctx, cancel := c.context()
	defer cancel()
	syncErr := c.store.RefreshAll(ctx)

	s := c.store
	counts := map[string]int{
		"Banners":              len(s.Banners.State().Items),
		"Events":               len(s.Events.State().Items),
		"Founder Profiles":     len(s.Founders.State().Items),
		"Verified Members":     len(s.Members.State().Items),
		"Membership Enquiries": len(s.Memberships.State().Items),
	}
	table := ui.NewSimpleTable("Sync", []string{"Collection", "Fetched"})
	for _, name := range sortedKeys(counts) {
		table.AddRow(name, strconv.Itoa(counts[name]))
	}
	fmt.Fprint(cmd.OutOrStdout(), table.View(cliStyles(c)))
	if syncErr != nil {
		return fmt.Errorf("sync incomplete: %w", syncErr)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()

	app := ui.NewApp(ui.Options{
		Store:    c.store,
		Gate:     c.gate,
		Router:   c.router,
		PageSize: c.cfg.GetPageSize(),
		Dark:     cliStyles(c).Theme.IsDark,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Theme edits in the config file apply without a restart.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watcher, err := config.NewWatcher(c.cfgPath, func(cfg *config.Config) {
		p.Send(ui.ThemeMsg{Dark: cfg.UI.DarkMode})
	})
	if err == nil {
		if err := watcher.Start(ctx); err != nil {
			logger.Debug("config watcher not started", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	_, err = p.Run()
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
