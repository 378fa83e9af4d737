package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"takeoffadmin/internal/actions"
	"takeoffadmin/internal/api"
	"takeoffadmin/internal/logging"
	"takeoffadmin/internal/models"

	"golang.org/x/sync/errgroup"
)

var (
	bannerMessages = Messages{
		OpCreate: "Banner added successfully!",
		OpUpdate: "Banner updated successfully!",
		OpDelete: "Banner deleted successfully!",
	}
	eventMessages = Messages{
		OpCreate: "Event added successfully!",
		OpUpdate: "Event updated successfully!",
		OpDelete: "Event deleted successfully!",
	}
	founderMessages = Messages{
		OpCreate: "Founder profile added successfully!",
		OpUpdate: "Founder profile updated successfully!",
		OpDelete: "Founder profile deleted successfully!",
	}
	memberMessages = Messages{
		OpCreate: "Member added successfully!",
		OpUpdate: "Member updated successfully!",
		OpDelete: "Member deleted successfully!",
	}
)

// Store composes every slice of the admin client.
type Store struct {
	Auth        *AuthSlice
	Language    *LanguageSlice
	Dashboard   *DashboardSlice
	Banners     *Collection[models.Banner]
	Events      *Collection[models.Event]
	Founders    *Collection[models.FounderProfile]
	Members     *Collection[models.VerifiedMember]
	Memberships *Collection[models.MembershipEnquiry]

	mu        sync.RWMutex
	listeners map[int]func(Action)
	nextID    int
}

// New builds the store on top of client. langs persists the language preference.
func New(client *api.Client, langs actions.LanguageStore) *Store {
	s := &Store{listeners: make(map[int]func(Action))}

	s.Auth = NewAuthSlice(actions.NewAuth(client), s.dispatch)
	s.Language = NewLanguageSlice(langs, s.dispatch)
	s.Dashboard = NewDashboardSlice(actions.NewDashboard(client), s.dispatch)
	s.Banners = NewCollection(actions.NewBanners(client), bannerMessages, s.dispatch)
	s.Events = NewCollection(actions.NewEvents(client), eventMessages, s.dispatch)
	s.Founders = NewCollection(actions.NewFounderProfiles(client), founderMessages, s.dispatch)
	s.Members = NewCollection(actions.NewMembers(client), memberMessages, s.dispatch)
	s.Memberships = NewCollection(actions.NewMemberships(client), nil, s.dispatch)

	return s
}

// OnDispatch registers fn for every published action. The returned func unregisters it.
func (s *Store) OnDispatch(fn func(Action)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) dispatch(a Action) {
	if a.Err != nil {
		logging.Store("%s: %v", a.Type(), a.Err)
	} else {
		logging.StoreDebug("%s", a.Type())
	}
	audit(a)

	s.mu.RLock()
	fns := make([]func(Action), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(a)
	}
}

var auditEvents = map[Op]logging.AuditEventType{
	OpCreate: logging.AuditRecordCreate,
	OpUpdate: logging.AuditRecordUpdate,
	OpDelete: logging.AuditRecordDelete,
}

// audit records settled mutations in the audit trail.
func audit(a Action) {
	if a.Phase == Pending {
		return
	}
	if ev, ok := auditEvents[a.Op]; ok {
		logging.AuditFor(a.Slice).Mutation(ev, a.Type(), a.Err)
	}
}

// RefreshAll fetches the dashboard and every collection concurrently.
// A failed fetch is recorded on its own slice and never cancels the others;
// the returned error joins all failures.
func (s *Store) RefreshAll(ctx context.Context) error {
	timer := logging.StartTimer(logging.CategoryStore, "RefreshAll")
	defer timer.Stop()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	record := func(name string, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
		mu.Unlock()
	}

	g.Go(func() error {
		_, err := s.Dashboard.Fetch(ctx)
		record("dashboard", err)
		return nil
	})
	g.Go(func() error {
		_, err := s.Banners.List(ctx, actions.ListParams{})
		record("banners", err)
		return nil
	})
	g.Go(func() error {
		_, err := s.Events.List(ctx, actions.ListParams{})
		record("events", err)
		return nil
	})
	g.Go(func() error {
		_, err := s.Founders.List(ctx, actions.ListParams{})
		record("founder profiles", err)
		return nil
	})
	g.Go(func() error {
		_, err := s.Members.List(ctx, actions.ListParams{})
		record("members", err)
		return nil
	})
	g.Go(func() error {
		_, err := s.Memberships.List(ctx, actions.ListParams{})
		record("memberships", err)
		return nil
	})
	_ = g.Wait()

	return errors.Join(errs...)
}
