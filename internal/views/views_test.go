package views

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/api/apitest"
	"takeoffadmin/internal/forms"
	"takeoffadmin/internal/session"
	"takeoffadmin/internal/storage"
	"takeoffadmin/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*store.Store, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	c, err := api.New(api.Options{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return store.New(c, session.NewRepository(storage.NewMemory())), srv
}

func seedMembers(srv *apitest.Server, n int) {
	for i := 1; i <= n; i++ {
		srv.Seed("member", map[string]interface{}{
			"name":  fmt.Sprintf("Member %02d", i),
			"email": fmt.Sprintf("m%02d@takeoff.test", i),
		})
	}
}

func TestMemberPagination(t *testing.T) {
	st, srv := setup(t)
	seedMembers(srv, 25)
	ctx := context.Background()

	list := NewList(st.Members, ListOptions{Noun: "member", PageSize: 10})
	require.NoError(t, list.Mount(ctx))

	assert.Equal(t, "1 - 10 of 25", list.RangeLabel())
	assert.False(t, list.CanPrev())
	assert.True(t, list.CanNext())

	require.NoError(t, list.NextPage(ctx))
	assert.Equal(t, 2, list.Page())
	assert.Equal(t, "11 - 20 of 25", list.RangeLabel())
	assert.True(t, list.CanPrev())
	assert.True(t, list.CanNext())

	require.NoError(t, list.NextPage(ctx))
	assert.Equal(t, "21 - 25 of 25", list.RangeLabel())
	assert.Len(t, list.State().Items, 5)
	assert.False(t, list.CanNext())

	srv.ResetCalls()
	require.NoError(t, list.NextPage(ctx))
	assert.Empty(t, srv.Calls(), "next on the last page is a no-op")

	require.NoError(t, list.PrevPage(ctx))
	assert.Equal(t, 2, list.Page())
	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "limit=10&page=2", calls[0].Query)
}

func TestSetPageCollapsesExpandedRow(t *testing.T) {
	st, srv := setup(t)
	seedMembers(srv, 12)
	ctx := context.Background()

	list := NewList(st.Members, ListOptions{})
	require.NoError(t, list.Mount(ctx))
	id := list.State().Items[0].ID

	list.Toggle(id)
	assert.Equal(t, id, list.Expanded())
	require.NoError(t, list.SetPage(ctx, 2))
	assert.Empty(t, list.Expanded())
}

func TestToggleKeepsOneExpanded(t *testing.T) {
	st, _ := setup(t)
	list := NewList(st.Banners, ListOptions{})

	list.Toggle("a")
	list.Toggle("b")
	assert.Equal(t, "b", list.Expanded())
	list.Toggle("b")
	assert.Empty(t, list.Expanded())
}

func TestUnpaginatedListHasNoControls(t *testing.T) {
	st, srv := setup(t)
	srv.Seed("banner", map[string]interface{}{"heading": "h", "description": "d"})

	list := NewList(st.Banners, ListOptions{})
	require.NoError(t, list.Mount(context.Background()))

	assert.Empty(t, list.RangeLabel())
	assert.False(t, list.CanPrev())
	assert.False(t, list.CanNext())
	assert.Empty(t, srv.Calls()[0].Query)
}

func TestDeleteFlow(t *testing.T) {
	st, srv := setup(t)
	id := srv.Seed("event", map[string]interface{}{"title": "Old", "eventDate": "2026-01-01", "location": "x"})
	srv.Seed("event", map[string]interface{}{"title": "New", "eventDate": "2026-02-01", "location": "y"})
	ctx := context.Background()

	var prompts []string
	answer := false
	list := NewList(st.Events, ListOptions{Noun: "event", Confirm: func(p string) bool {
		prompts = append(prompts, p)
		return answer
	}})
	require.NoError(t, list.Mount(ctx))
	srv.ResetCalls()

	deleted, err := list.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, srv.Calls(), "declined confirm sends nothing")
	assert.Equal(t, []string{"Are you sure you want to delete this event?"}, prompts)

	answer = true
	deleted, err = list.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	calls := srv.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "DELETE /admin/delete-event/"+id, calls[0].String())
	assert.Equal(t, "GET /admin/get-events", calls[1].String())

	items := list.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, "New", items[0].Title)
	assert.Equal(t, "Event deleted successfully!", list.Notice())
	assert.Empty(t, list.State().Message, "the re-fetch clears the slice message")
}

func TestDeleteFailureDoesNotRefetch(t *testing.T) {
	st, srv := setup(t)
	id := srv.Seed("banner", map[string]interface{}{"heading": "h", "description": "d"})
	ctx := context.Background()

	list := NewList(st.Banners, ListOptions{})
	require.NoError(t, list.Mount(ctx))
	srv.ResetCalls()

	srv.FailNext(http.MethodDelete, "/admin/delete-banner/"+id, http.StatusInternalServerError, `{"message":"locked"}`)
	deleted, err := list.Delete(ctx, id)
	require.Error(t, err)
	assert.False(t, deleted)

	assert.Len(t, srv.Calls(), 1)
	assert.Len(t, list.State().Items, 1, "row stays until the server agrees")
	assert.Equal(t, "locked", api.AsFailure(list.State().Err).Message)
}

func TestUpdateThenRefetch(t *testing.T) {
	st, srv := setup(t)
	id := srv.Seed("founderProfile", map[string]interface{}{"fullName": "Sara", "badge": "Founder"})
	ctx := context.Background()

	list := NewList(st.Founders, ListOptions{})
	require.NoError(t, list.Mount(ctx))
	srv.ResetCalls()

	draft := forms.FounderFrom(list.State().Items[0])
	draft.Badge = "Serial founder"
	require.NoError(t, list.Update(ctx, id, draft))

	calls := srv.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.Equal(t, http.MethodGet, calls[1].Method)
	assert.Equal(t, "Serial founder", list.State().Items[0].Badge)
	assert.Equal(t, "Founder profile updated successfully!", list.Notice())

	srv.ResetCalls()
	draft.FullName = ""
	err := list.Update(ctx, id, draft)
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindValidation))
	assert.Empty(t, srv.Calls())
}

func TestMemberFormValidationBlocksDispatch(t *testing.T) {
	st, srv := setup(t)
	ctx := context.Background()

	var dispatched []string
	defer st.OnDispatch(func(a store.Action) { dispatched = append(dispatched, a.Type()) })()

	form := NewForm(st.Members, &forms.Member{
		Name: "Ali", Title: "CTO", Company: "Acme", Industry: "Tech",
		Location: "Riyadh", Email: "not-an-email", Phone: "+966 55 123", Discount: "10%",
	})

	err := form.Submit(ctx)
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindValidation))
	assert.Equal(t, "Invalid email format", form.Errors()["email"])
	assert.Empty(t, dispatched)
	assert.Zero(t, srv.CallCount(http.MethodPost, "/admin/add-member"))

	form.Draft.Email = "ali@acme.sa"
	require.NoError(t, form.Submit(ctx))

	assert.Equal(t, []string{"member/create/pending", "member/create/fulfilled"}, dispatched)
	assert.Equal(t, 1, srv.CallCount(http.MethodPost, "/admin/add-member"))
	assert.Empty(t, form.Errors())
	assert.Equal(t, "Member added successfully!", form.Message())
	assert.Equal(t, forms.Member{}, *form.Draft, "draft resets after success")
}

func TestFormKeepsDraftOnServerFailure(t *testing.T) {
	st, srv := setup(t)
	srv.FailNext(http.MethodPost, "/admin/add-event", http.StatusBadRequest, `{"message":"Duplicate event"}`)

	draft := &forms.Event{Title: "Summit", EventDate: "2026-03-03", Location: "Doha"}
	form := NewForm(st.Events, draft)

	err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Duplicate event", api.AsFailure(err).Message)
	assert.Equal(t, "Summit", form.Draft.Title)
	assert.Empty(t, form.Message())
}

func TestBannerRoundTrip(t *testing.T) {
	st, srv := setup(t)
	ctx := context.Background()

	form := NewForm(st.Banners, &forms.Banner{Heading: "Launch", Description: "New season"})
	require.Error(t, form.Submit(ctx), "image is required on create")

	form.Draft.Image = writeImage(t)
	require.NoError(t, form.Submit(ctx))

	list := NewList(st.Banners, ListOptions{Noun: "banner"})
	require.NoError(t, list.Mount(ctx))
	items := list.State().Items
	require.Len(t, items, 1)
	assert.Equal(t, "Launch", items[0].Heading)
	assert.Contains(t, items[0].Image, "hero.png")
	require.Len(t, srv.Records("banner"), 1)
}

func TestDashboardCards(t *testing.T) {
	st, srv := setup(t)
	srv.Seed("banner", map[string]interface{}{"heading": "h", "description": "d"})
	srv.Seed("membership", map[string]interface{}{})

	d := NewDashboard(st.Dashboard)
	assert.Nil(t, d.Cards())
	assert.True(t, d.LastUpdated().IsZero())

	require.NoError(t, d.Mount(context.Background()))
	cards := d.Cards()
	require.Len(t, cards, 5)
	assert.Equal(t, Card{Label: "Banners", Count: 1}, cards[0])
	assert.Equal(t, Card{Label: "Membership Enquiries", Count: 1}, cards[3])
	assert.Equal(t, 2, d.TotalRecords())
	assert.False(t, d.LastUpdated().IsZero())
}
