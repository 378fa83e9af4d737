package main

import (
	"bufio"
	"fmt"
	"strings"
	"unicode"

	"takeoffadmin/cmd/takeoff/ui"
	"takeoffadmin/internal/api"
	"takeoffadmin/internal/forms"
	"takeoffadmin/internal/models"
	"takeoffadmin/internal/store"
	"takeoffadmin/internal/views"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resource describes one content type for the generated subcommands.
// newDraft and fields are nil for read-only resources.
type resource[T models.Record, D forms.Draft] struct {
	use        string
	short      string
	spec       ui.ListSpec[T]
	collection func(*store.Store) *store.Collection[T]
	newDraft   func() D
	fields     func(D) []ui.Field
}

var bannersCmd = newResourceCmd(resource[models.Banner, *forms.Banner]{
	use:        "banners",
	short:      "Manage homepage banners",
	spec:       ui.BannerList(),
	collection: func(s *store.Store) *store.Collection[models.Banner] { return s.Banners },
	newDraft:   func() *forms.Banner { return &forms.Banner{} },
	fields:     ui.BannerFields,
})

var eventsCmd = newResourceCmd(resource[models.Event, *forms.Event]{
	use:        "events",
	short:      "Manage events",
	spec:       ui.EventList(),
	collection: func(s *store.Store) *store.Collection[models.Event] { return s.Events },
	newDraft:   func() *forms.Event { return &forms.Event{} },
	fields:     ui.EventFields,
})

var foundersCmd = newResourceCmd(resource[models.FounderProfile, *forms.Founder]{
	use:        "founders",
	short:      "Manage founder profiles",
	spec:       ui.FounderList(),
	collection: func(s *store.Store) *store.Collection[models.FounderProfile] { return s.Founders },
	newDraft:   func() *forms.Founder { return &forms.Founder{Achievements: []string{""}} },
	fields:     ui.FounderFields,
})

var membersCmd = newResourceCmd(resource[models.VerifiedMember, *forms.Member]{
	use:        "members",
	short:      "Manage verified members",
	spec:       ui.MemberList(),
	collection: func(s *store.Store) *store.Collection[models.VerifiedMember] { return s.Members },
	newDraft:   func() *forms.Member { return &forms.Member{} },
	fields:     ui.MemberFields,
})

var membershipsCmd = newResourceCmd(resource[models.MembershipEnquiry, forms.Draft]{
	use:        "memberships",
	short:      "Browse membership enquiries (read-only)",
	spec:       ui.MembershipList(),
	collection: func(s *store.Store) *store.Collection[models.MembershipEnquiry] { return s.Memberships },
})

func newResourceCmd[T models.Record, D forms.Draft](r resource[T, D]) *cobra.Command {
	parent := &cobra.Command{
		Use:   r.use,
		Short: r.short,
		Args:  cobra.NoArgs,
		RunE:  r.runList,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", r.spec.Title),
		Args:  cobra.NoArgs,
		RunE:  r.runList,
	}
	get := &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s", r.spec.Noun),
		Args:  cobra.ExactArgs(1),
		RunE:  r.runGet,
	}
	parent.AddCommand(list, get)

	for _, c := range []*cobra.Command{parent, list} {
		c.Flags().Int("page", 1, "Page number (paginated lists only)")
	}
	if r.spec.ReadOnly {
		return parent
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", r.spec.Noun),
		Args:  cobra.ExactArgs(1),
		RunE:  r.runDelete,
	}
	del.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	add := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s", r.spec.Noun),
		Args:  cobra.NoArgs,
		RunE:  r.runAdd,
	}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s; only the given flags change", r.spec.Noun),
		Args:  cobra.ExactArgs(1),
		RunE:  r.runUpdate,
	}
	for _, f := range r.fields(r.newDraft()) {
		usage := f.Label
		if f.Hint != "" {
			usage = fmt.Sprintf("%s (%s)", f.Label, f.Hint)
		}
		add.Flags().String(flagName(f.Key), "", usage)
		update.Flags().String(flagName(f.Key), "", f.Label)
	}

	parent.AddCommand(add, update, del)
	return parent
}

func (r resource[T, D]) runList(cmd *cobra.Command, args []string) error {
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

	list := views.NewList(r.collection(c.store), views.ListOptions{Noun: r.spec.Noun, PageSize: c.cfg.GetPageSize()})
	page, _ := cmd.Flags().GetInt("page")
	if page > 1 {
		err = list.SetPage(ctx, page)
	} else {
		err = list.Mount(ctx)
	}
	if err != nil {
		return describe(cmd, err)
	}

	state := list.State()
	table := ui.NewSimpleTable(r.spec.Title, append([]string{"ID"}, r.spec.Headers...))
	for _, item := range state.Items {
		table.AddRow(append([]string{item.Key()}, r.spec.Row(item)...)...)
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, table.View(cliStyles(c)))
	if label := list.RangeLabel(); label != "" {
		fmt.Fprintf(out, "\n%s (page %d)\n", label, list.Page())
	}
	logger.Debug("listed", zap.String("resource", r.use), zap.Int("count", len(state.Items)))
	return nil
}

func (r resource[T, D]) runGet(cmd *cobra.Command, args []string) error {
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
	item, err := r.collection(c.store).Get(ctx, args[0])
	if err != nil {
		return describe(cmd, err)
	}

	renderer := ui.NewDetailRenderer(cliStyles(c).Theme.IsDark)
	fmt.Fprintln(cmd.OutOrStdout(), renderer.Render(r.spec.Detail(item.Value)))
	return nil
}

func (r resource[T, D]) runDelete(cmd *cobra.Command, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.requireSession(); err != nil {
		return err
	}

	confirm := views.AlwaysConfirm
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		in := bufio.NewReader(cmd.InOrStdin())
		confirm = func(question string) bool {
			answer := prompt(cmd, in, question+" (y/n) ")
			return ui.ParseYes(answer)
		}
	}

	ctx, cancel := c.context()
	defer cancel()
	list := views.NewList(r.collection(c.store), views.ListOptions{
		Noun: r.spec.Noun, PageSize: c.cfg.GetPageSize(), Confirm: confirm,
	})
	ok, err := list.Delete(ctx, args[0])
	if !ok {
		if err != nil {
			return describe(cmd, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", list.Notice())
	if err != nil {
		// The delete went through; only the refresh failed.
		logger.Warn("refresh after delete failed", zap.Error(err))
	}
	return nil
}

func (r resource[T, D]) runAdd(cmd *cobra.Command, args []string) error {
	c, err := openClient()
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.requireSession(); err != nil {
		return err
	}

	form := views.NewForm(r.collection(c.store), r.newDraft())
	applyFlags(cmd, r.fields(form.Draft))

	ctx, cancel := c.context()
	defer cancel()
	if err := form.Submit(ctx); err != nil {
		return describe(cmd, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", form.Message())
	if cur := r.collection(c.store).State().Current; cur != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "  id: %s\n", (*cur).Key())
	}
	return nil
}

func (r resource[T, D]) runUpdate(cmd *cobra.Command, args []string) error {
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

	col := r.collection(c.store)
	item, err := col.Get(ctx, args[0])
	if err != nil {
		return describe(cmd, err)
	}
	draft, fields := r.spec.Edit(item.Value)
	if applyFlags(cmd, fields) == 0 {
		return fmt.Errorf("nothing to update: pass at least one field flag")
	}

	list := views.NewList(col, views.ListOptions{Noun: r.spec.Noun, PageSize: c.cfg.GetPageSize()})
	if err := list.Update(ctx, args[0], draft); err != nil {
		if list.Notice() == "" {
			return describe(cmd, err)
		}
		logger.Warn("refresh after update failed", zap.Error(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", list.Notice())
	return nil
}

// applyFlags copies every changed field flag into its draft field and
// returns how many were applied.
func applyFlags(cmd *cobra.Command, fields []ui.Field) int {
	n := 0
	for _, f := range fields {
		name := flagName(f.Key)
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, _ := cmd.Flags().GetString(name)
		f.Set(v)
		n++
	}
	return n
}

// describe prints field errors of a validation failure and returns err
// with the user-facing message.
func describe(cmd *cobra.Command, err error) error {
	f := api.AsFailure(err)
	if f == nil {
		return err
	}
	for _, name := range sortedKeys(f.Fields) {
		fmt.Fprintf(cmd.ErrOrStderr(), "  --%s: %s\n", flagName(name), f.Fields[name])
	}
	return fmt.Errorf("%s", f.Message)
}

// flagName turns a field key like "fullName" into "full-name".
func flagName(key string) string {
	var sb strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func cliStyles(c *adminClient) ui.Styles {
	if c.cfg.UI.DarkMode {
		return ui.NewStyles(ui.DarkTheme())
	}
	return ui.NewStyles(ui.DetectTheme())
}
