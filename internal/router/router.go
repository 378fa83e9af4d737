// Package router maps view paths to pages and guards protected ones.
package router

import (
	"slices"
	"strings"
	"sync"

	"takeoffadmin/internal/logging"
)

// Paths of every view.
const (
	Login           = "/login"
	Dashboard       = "/"
	AddMember       = "/add-member"
	Members         = "/get-members"
	Memberships     = "/membership-list"
	AddEvent        = "/add-event"
	Events          = "/list-events"
	AddBanner       = "/add-banner"
	Banners         = "/list-banner"
	AddFounder      = "/add-founderProfile"
	Founders        = "/list-founderProfile"
	NotFoundTitle   = "Not Found"
	notFoundPathKey = "*"
)

// Route is one known view.
type Route struct {
	Path      string
	Title     string
	Protected bool
}

// Routes lists every view in navigation order.
var Routes = []Route{
	{Path: Login, Title: "Sign In"},
	{Path: Dashboard, Title: "Dashboard", Protected: true},
	{Path: AddMember, Title: "Add Member", Protected: true},
	{Path: Members, Title: "Verified Members", Protected: true},
	{Path: Memberships, Title: "Membership Enquiries", Protected: true},
	{Path: AddEvent, Title: "Add Event", Protected: true},
	{Path: Events, Title: "Events", Protected: true},
	{Path: AddBanner, Title: "Add Banner", Protected: true},
	{Path: Banners, Title: "Banners", Protected: true},
	{Path: AddFounder, Title: "Add Founder Profile", Protected: true},
	{Path: Founders, Title: "Founder Profiles", Protected: true},
}

var byPath = func() map[string]Route {
	m := make(map[string]Route, len(Routes))
	for _, r := range Routes {
		m[r.Path] = r
	}
	return m
}()

// Guard reports whether a session is active.
type Guard interface {
	IsLogged() bool
}

// Resolution is the outcome of resolving a path.
type Resolution struct {
	Requested  string
	Route      Route
	Redirected bool
	NotFound   bool
}

// Router resolves paths against the guard and tracks the current view.
type Router struct {
	guard Guard

	mu        sync.RWMutex
	current   Resolution
	listeners []func(Resolution)
}

// New creates a router positioned at the sign-in view.
func New(guard Guard) *Router {
	return &Router{
		guard:   guard,
		current: Resolution{Requested: Login, Route: byPath[Login]},
	}
}

// Resolve maps path to a view without side effects. It reads only the
// in-memory logged-in flag.
func (r *Router) Resolve(path string) Resolution {
	path = normalize(path)
	res := Resolution{Requested: path}

	route, ok := byPath[path]
	if !ok {
		res.Route = Route{Path: notFoundPathKey, Title: NotFoundTitle}
		res.NotFound = true
		return res
	}

	logged := r.guard.IsLogged()
	switch {
	case route.Protected && !logged:
		res.Route = byPath[Login]
		res.Redirected = true
	case route.Path == Login && logged:
		res.Route = byPath[Dashboard]
		res.Redirected = true
	default:
		res.Route = route
	}
	return res
}

// Navigate resolves path, makes it the current view and notifies listeners.
func (r *Router) Navigate(path string) Resolution {
	res := r.Resolve(path)
	if res.Redirected {
		logging.UIDebug("navigate %s -> %s", res.Requested, res.Route.Path)
	}

	r.mu.Lock()
	r.current = res
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(res)
	}
	return res
}

// Current returns the last navigation result.
func (r *Router) Current() Resolution {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// OnNavigate registers fn to run after every Navigate.
func (r *Router) OnNavigate(fn func(Resolution)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return Dashboard
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = Dashboard
		}
	}
	return path
}
