package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/api/apitest"
	"takeoffadmin/internal/auth"
	"takeoffadmin/internal/forms"
	"takeoffadmin/internal/models"
	"takeoffadmin/internal/router"
	"takeoffadmin/internal/session"
	"takeoffadmin/internal/storage"
	"takeoffadmin/internal/store"
	"takeoffadmin/internal/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	app    *App
	srv    *apitest.Server
	store  *store.Store
	repo   *session.Repository
	router *router.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("TAKEOFF_DARK_MODE", "")
	srv := apitest.New(t, apitest.WithAuth())
	c, err := api.New(api.Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	repo := session.NewRepository(storage.NewMemory())
	st := store.New(c, repo)
	r := router.New(st.Auth)
	gate := auth.NewGate(st, repo, r, c)

	app := NewApp(Options{Store: st, Gate: gate, Router: r, PageSize: 10})
	app.sync()
	return &harness{app: app, srv: srv, store: st, repo: repo, router: r}
}

// collect runs cmd and flattens batches. Only call it with commands that
// return immediately.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle feeds async results back into the app until none are left.
func (h *harness) settle(cmd tea.Cmd) {
	for i := 0; i < 10 && cmd != nil; i++ {
		var next []tea.Cmd
		for _, msg := range collect(cmd) {
			switch msg.(type) {
			case resultMsg, submittedMsg, signedOutMsg:
				_, c := h.app.Update(msg)
				next = append(next, c)
			}
		}
		cmd = nil
		if len(next) > 0 {
			cmd = tea.Batch(next...)
		}
	}
}

func (h *harness) press(key string) tea.Cmd {
	_, cmd := h.app.Update(keyMsg(key))
	return cmd
}

func (h *harness) typeText(s string) {
	h.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	h.typeText(apitest.AdminEmail)
	h.press("enter")
	h.typeText(apitest.AdminPassword)
	h.settle(h.press("enter"))
	require.Equal(t, router.Dashboard, h.app.Current())
}

var ansiSeq = regexp.MustCompile("\x1b\\[[0-9;]*[a-zA-Z]")

func stripANSI(s string) string {
	return ansiSeq.ReplaceAllString(s, "")
}

func bannerWithImage(url string) models.Banner {
	return models.Banner{ID: "b1", Heading: "h", Description: "d", Image: url}
}

func TestAppStartsOnSignIn(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, router.Login, h.app.Current())
	assert.Contains(t, h.app.View(), "Sign in to your admin account")

	// digits are typed into the email field, not used for navigation
	h.press("3")
	assert.Equal(t, router.Login, h.app.Current())
}

func TestSignInFailureStaysOnLogin(t *testing.T) {
	h := newHarness(t)
	h.typeText(apitest.AdminEmail)
	h.press("enter")
	h.typeText("wrong")
	h.settle(h.press("enter"))

	assert.Equal(t, router.Login, h.app.Current())
	login := h.app.Page(router.Login).(*LoginPage)
	assert.Equal(t, "Invalid email or password", login.Failure())
	assert.False(t, h.store.Auth.IsLogged())
}

func TestSignInRequiresBothFields(t *testing.T) {
	h := newHarness(t)
	h.press("enter")
	h.settle(h.press("enter"))

	login := h.app.Page(router.Login).(*LoginPage)
	assert.Equal(t, "Email is required", login.Errors()["email"])
	assert.Equal(t, "Password is required", login.Errors()["password"])
	assert.Zero(t, h.srv.CallCount("POST", "/admin/login"))
}

func TestSignInNavigateDeleteSignOut(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed("banner", map[string]interface{}{"heading": "Spring launch", "description": "New season"})
	h.signIn(t)

	assert.Contains(t, h.app.Page(router.Dashboard).View(), "Total records: 1")

	h.settle(h.press("8"))
	require.Equal(t, router.Banners, h.app.Current())
	page := h.app.Page(router.Banners).(*ListPage[models.Banner])
	assert.Contains(t, page.View(), "Spring launch")

	h.press("d")
	assert.NotEmpty(t, page.Confirming())
	assert.Contains(t, page.View(), "Are you sure you want to delete this banner? (y/n)")

	h.settle(h.press("y"))
	assert.Empty(t, h.srv.Records("banner"))
	assert.Contains(t, page.View(), "Banner deleted successfully!")

	h.settle(h.press("x"))
	assert.Equal(t, router.Login, h.app.Current())
	assert.False(t, h.store.Auth.IsLogged())
	_, err := h.repo.Load()
	assert.True(t, errors.Is(err, session.ErrNoSession))
}

func TestLeavingListResetsSlice(t *testing.T) {
	h := newHarness(t)
	id := h.srv.Seed("banner", map[string]interface{}{"heading": "Spring launch", "description": "New season"})
	h.signIn(t)
	h.settle(h.press("8"))
	page := h.app.Page(router.Banners).(*ListPage[models.Banner])

	h.srv.FailNext(http.MethodDelete, "/admin/delete-banner/"+id, http.StatusInternalServerError, `{"message":"locked"}`)
	h.press("d")
	h.settle(h.press("y"))

	// the page shows the failure and the slice lets go of it
	assert.Contains(t, page.View(), "locked")
	assert.NoError(t, h.store.Banners.State().Err)
	assert.NotEmpty(t, h.store.Banners.State().Last)

	h.settle(h.press("1"))
	require.Equal(t, router.Dashboard, h.app.Current())
	st := h.store.Banners.State()
	assert.NoError(t, st.Err)
	assert.Empty(t, st.Last)
	assert.Nil(t, st.Current)
	assert.Empty(t, st.Message)
	assert.Len(t, st.Items, 1, "the collection survives teardown")

	h.settle(h.press("8"))
	assert.NotContains(t, page.View(), "locked")
	assert.Contains(t, page.View(), "Spring launch")
}

func TestNoticeIsNotShownTwice(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed("event", map[string]interface{}{"title": "Summit", "eventDate": "2026-03-03", "location": "Doha"})
	h.signIn(t)
	h.settle(h.press("6"))
	page := h.app.Page(router.Events).(*ListPage[models.Event])

	h.press("d")
	h.settle(h.press("y"))
	assert.Contains(t, page.View(), "Event deleted successfully!")
	assert.Empty(t, h.store.Events.State().Message)

	h.settle(h.press("1"))
	h.settle(h.press("6"))
	assert.NotContains(t, page.View(), "Event deleted successfully!")
}

func TestLeavingFormForgetsSubmit(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.settle(h.press("2"))
	form := h.app.Page(router.AddMember).(*FormPage)

	h.settle(h.press("ctrl+s"))
	require.NotEmpty(t, form.Errors())
	assert.NoError(t, h.store.Members.State().Err, "the slice error is cleared once shown")

	h.press("esc")
	h.settle(h.press("1"))
	h.settle(h.press("2"))
	assert.Empty(t, form.Errors())
	assert.Empty(t, form.Failure())
	assert.NotContains(t, form.View(), "Name is required")
}

func TestRestoredAppMakesNoRequests(t *testing.T) {
	srv := apitest.New(t, apitest.WithAuth())
	c, err := api.New(api.Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	repo := session.NewRepository(storage.NewMemory())
	require.NoError(t, repo.Save(store.Session{IsLogged: true, Role: "admin", Status: "succeeded"}))
	require.NoError(t, repo.SaveLanguage("Arabic"))

	st := store.New(c, repo)
	r := router.New(st.Auth)
	gate := auth.NewGate(st, repo, r, c)
	require.True(t, gate.Restore())
	r.Navigate(router.Dashboard)

	app := NewApp(Options{Store: st, Gate: gate, Router: r, PageSize: 10})
	app.sync()
	view := app.View()

	assert.Equal(t, router.Dashboard, app.Current())
	assert.Contains(t, view, "Arabic")
	assert.Contains(t, view, "admin")
	assert.Empty(t, srv.Calls(), "restoring and drawing the app must not touch the network")
}

func TestDeclinedDeleteSendsNothing(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed("event", map[string]interface{}{"title": "Summit", "eventDate": "2026-03-03", "location": "Doha"})
	h.signIn(t)
	h.settle(h.press("6"))
	h.srv.ResetCalls()

	page := h.app.Page(router.Events).(*ListPage[models.Event])
	h.press("d")
	h.press("n")
	assert.Empty(t, page.Confirming())
	assert.Empty(t, h.srv.Calls())
	assert.Len(t, h.srv.Records("event"), 1)
}

func TestMemberPagingKeys(t *testing.T) {
	h := newHarness(t)
	for i := 1; i <= 15; i++ {
		h.srv.Seed("member", map[string]interface{}{"name": fmt.Sprintf("Member %02d", i)})
	}
	h.signIn(t)
	h.settle(h.press("3"))

	page := h.app.Page(router.Members).(*ListPage[models.VerifiedMember])
	assert.Contains(t, page.View(), "1 - 10 of 15")

	h.settle(h.press("]"))
	assert.Contains(t, page.View(), "11 - 15 of 15")
	assert.Contains(t, page.View(), "Member 15")

	h.settle(h.press("["))
	assert.Contains(t, page.View(), "1 - 10 of 15")
}

func TestExpandRendersDetail(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed("founderProfile", map[string]interface{}{
		"fullName": "Sara", "badge": "Founder", "achievements": []string{"Raised seed"},
	})
	h.signIn(t)
	h.settle(h.press("0"))

	page := h.app.Page(router.Founders).(*ListPage[models.FounderProfile])
	h.press("enter")
	assert.Contains(t, stripANSI(page.View()), "Raised seed")
	h.press("enter")
	assert.NotContains(t, stripANSI(page.View()), "Raised seed")
}

func TestMembershipListIsReadOnly(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed("membership", map[string]interface{}{
		"personalInfo": map[string]interface{}{"firstName": "Omar", "lastName": "Ali"},
	})
	h.signIn(t)
	h.settle(h.press("4"))

	page := h.app.Page(router.Memberships).(*ListPage[models.MembershipEnquiry])
	assert.Contains(t, page.View(), "Omar Ali")
	h.press("d")
	h.press("e")
	assert.Empty(t, page.Confirming())
	assert.False(t, page.Editing())
}

func TestEditMember(t *testing.T) {
	h := newHarness(t)
	h.srv.Seed("member", map[string]interface{}{
		"name": "Ali", "title": "CTO", "company": "Acme", "industry": "Tech", "location": "Riyadh",
		"email": "ali@acme.sa", "phone": "+966 55 123", "discount": "10%",
	})
	h.signIn(t)
	h.settle(h.press("3"))

	page := h.app.Page(router.Members).(*ListPage[models.VerifiedMember])
	h.press("e")
	require.True(t, page.Editing())

	h.typeText(" Hassan")
	h.settle(h.press("ctrl+s"))
	assert.False(t, page.Editing())
	assert.Equal(t, "Ali Hassan", h.srv.Records("member")[0]["name"])
	assert.Contains(t, page.View(), "Member updated successfully!")
}

func TestAddFormShowsFieldErrors(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.settle(h.press("2"))
	require.Equal(t, router.AddMember, h.app.Current())

	h.settle(h.press("ctrl+s"))
	form := h.app.Page(router.AddMember).(*FormPage)
	assert.Equal(t, "Name is required", form.Errors()["name"])
	assert.Zero(t, h.srv.CallCount("POST", "/admin/add-member"))
	assert.Contains(t, form.View(), "Name is required")
}

func TestNotFoundPage(t *testing.T) {
	h := newHarness(t)
	h.app.Navigate("/nope")
	assert.Equal(t, notFoundKey, h.app.Current())
	assert.Contains(t, h.app.View(), "Page not found: /nope")
}

func TestMenuKeys(t *testing.T) {
	assert.Equal(t, router.Dashboard, menuRoute("1"))
	assert.Equal(t, router.Founders, menuRoute("0"))
	assert.Empty(t, menuRoute("q"))
}

func TestThemeMsgRestylesPages(t *testing.T) {
	h := newHarness(t)
	h.app.Update(ThemeMsg{Dark: true})
	assert.True(t, h.app.styles.Theme.IsDark)
}

func TestFormPageStandalone(t *testing.T) {
	srv := apitest.New(t)
	c, err := api.New(api.Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	st := store.New(c, session.NewRepository(storage.NewMemory()))

	form := views.NewForm(st.Events, &forms.Event{})
	page := NewFormPage(context.Background(), FormSpec{
		ID: "add-event", Title: "Add Event", Fields: EventFields(form.Draft),
		Submit: submitter(form),
	}, nil, DefaultStyles())

	page.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Summit")})
	for _, f := range []string{"", "", "", "2026-03-03", "", "Doha"} {
		page.Update(tea.KeyMsg{Type: tea.KeyTab})
		if f != "" {
			page.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(f)})
		}
	}

	_, cmd := page.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	for _, msg := range collect(cmd) {
		page.Update(msg)
	}
	require.Empty(t, page.Errors())
	assert.Equal(t, "Event added successfully!", page.Message())
	assert.True(t, page.Succeeded())
	require.Len(t, srv.Records("event"), 1)
	assert.True(t, strings.HasPrefix(srv.Records("event")[0]["eventDate"].(string), "2026-03-03"))
}
