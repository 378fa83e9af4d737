package views

import (
	"context"
	"time"

	"takeoffadmin/internal/models"
	"takeoffadmin/internal/store"
)

// Card is one dashboard total.
type Card struct {
	Label string
	Count int
}

// Dashboard is the landing page.
type Dashboard struct {
	slice *store.DashboardSlice
}

// NewDashboard creates the dashboard page.
func NewDashboard(slice *store.DashboardSlice) *Dashboard {
	return &Dashboard{slice: slice}
}

// Mount fetches the summary.
func (d *Dashboard) Mount(ctx context.Context) error {
	_, err := d.slice.Fetch(ctx)
	return err
}

// State is the dashboard slice state.
func (d *Dashboard) State() store.State[models.Dashboard] {
	return d.slice.State()
}

// Cards returns the totals in display order, or nil before the first fetch.
func (d *Dashboard) Cards() []Card {
	cur := d.slice.State().Current
	if cur == nil || cur.Totals == nil {
		return nil
	}
	t := cur.Totals
	return []Card{
		{Label: "Banners", Count: t.Banners},
		{Label: "Events", Count: t.Events},
		{Label: "Founder Profiles", Count: t.FounderProfiles},
		{Label: "Membership Enquiries", Count: t.Memberships},
		{Label: "Verified Members", Count: t.VerifiedMemberships},
	}
}

// TotalRecords returns the summary total.
func (d *Dashboard) TotalRecords() int {
	cur := d.slice.State().Current
	if cur == nil || cur.Summary == nil {
		return 0
	}
	return cur.Summary.TotalRecords
}

// LastUpdated returns when the backend computed the summary, or the zero time.
func (d *Dashboard) LastUpdated() time.Time {
	cur := d.slice.State().Current
	if cur == nil || cur.Summary == nil {
		return time.Time{}
	}
	return cur.Summary.LastUpdated.Time
}
