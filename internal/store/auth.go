package store

import (
	"context"
	"encoding/json"
	"sync"

	"takeoffadmin/internal/actions"
	"takeoffadmin/internal/logging"
	"takeoffadmin/internal/models"
)

// StatusSignedIn is recorded in the session after a successful login.
const StatusSignedIn = "succeeded"

// Session is the in-memory authentication state that is mirrored to durable storage.
type Session struct {
	IsLogged    bool
	Role        string
	User        json.RawMessage
	Status      string
	AccessToken string
}

// AuthState is a snapshot of the auth slice.
type AuthState struct {
	Session
	Loading bool
	Err     error
	Message string
}

// AuthSlice tracks who is signed in. It never reads or writes storage;
// Hydrate is the explicit restore step.
type AuthSlice struct {
	act     *actions.Auth
	publish func(Action)

	mu    sync.RWMutex
	state AuthState
}

// NewAuthSlice creates a signed-out auth slice.
func NewAuthSlice(act *actions.Auth, publish func(Action)) *AuthSlice {
	if publish == nil {
		publish = func(Action) {}
	}
	return &AuthSlice{act: act, publish: publish}
}

// State returns a copy of the auth state.
func (a *AuthSlice) State() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// IsLogged reports the in-memory logged-in flag.
func (a *AuthSlice) IsLogged() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.IsLogged
}

// Hydrate replaces the session with one restored from storage.
func (a *AuthSlice) Hydrate(s Session) {
	a.mu.Lock()
	a.state = AuthState{Session: s}
	a.mu.Unlock()
}

// ClearSession drops the in-memory session.
func (a *AuthSlice) ClearSession() {
	a.mu.Lock()
	a.state.Session = Session{}
	a.state.Loading = false
	a.mu.Unlock()
}

// Login dispatches the login action.
func (a *AuthSlice) Login(ctx context.Context, creds actions.Credentials) (actions.LoginResult, error) {
	return Dispatch(a, OpLogin,
		func() (actions.LoginResult, error) { return a.act.Login(ctx, creds) },
		func(res actions.LoginResult) {
			a.mu.Lock()
			a.state = AuthState{
				Session: Session{
					IsLogged:    true,
					Role:        res.Role,
					User:        res.User,
					Status:      StatusSignedIn,
					AccessToken: res.AccessToken,
				},
				Message: res.Message,
			}
			a.mu.Unlock()
			a.publish(Action{Slice: "auth", Op: OpLogin, Phase: Fulfilled})
		})
}

// Logout dispatches the logout action. On success the session is cleared;
// on failure the session is kept and the error recorded.
func (a *AuthSlice) Logout(ctx context.Context) (json.RawMessage, error) {
	return Dispatch(a, OpLogout,
		func() (json.RawMessage, error) { return a.act.Logout(ctx) },
		func(json.RawMessage) {
			a.mu.Lock()
			a.state = AuthState{}
			a.mu.Unlock()
			a.publish(Action{Slice: "auth", Op: OpLogout, Phase: Fulfilled})
		})
}

func (a *AuthSlice) begin(op Op) {
	a.mu.Lock()
	a.state.Loading = true
	a.state.Err = nil
	a.state.Message = ""
	a.mu.Unlock()
	a.publish(Action{Slice: "auth", Op: op, Phase: Pending})
}

func (a *AuthSlice) fail(op Op, err error) {
	a.mu.Lock()
	a.state.Loading = false
	a.state.Err = err
	if op == OpLogin {
		a.state.User = nil
		a.state.Role = ""
	}
	a.mu.Unlock()
	a.publish(Action{Slice: "auth", Op: op, Phase: Rejected, Err: err})
}

// LanguageState is a snapshot of the language slice.
type LanguageState struct {
	Language string
	Loading  bool
	Err      error
}

// LanguageSlice holds the admin's UI language.
type LanguageSlice struct {
	repo    actions.LanguageStore
	publish func(Action)

	mu    sync.RWMutex
	state LanguageState
}

// NewLanguageSlice creates a language slice set to the default language.
func NewLanguageSlice(repo actions.LanguageStore, publish func(Action)) *LanguageSlice {
	if publish == nil {
		publish = func(Action) {}
	}
	return &LanguageSlice{
		repo:    repo,
		publish: publish,
		state:   LanguageState{Language: actions.DefaultLanguage},
	}
}

// State returns a copy of the language state.
func (l *LanguageSlice) State() LanguageState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Hydrate sets the language restored from storage. Empty keeps the default.
func (l *LanguageSlice) Hydrate(lang string) {
	if lang == "" {
		return
	}
	l.mu.Lock()
	l.state.Language = lang
	l.mu.Unlock()
}

// Change dispatches the language change action.
func (l *LanguageSlice) Change(lang string) (string, error) {
	saved, err := Dispatch(l, OpChange,
		func() (string, error) { return actions.ChangeLanguage(l.repo, lang) },
		func(saved string) {
			l.mu.Lock()
			l.state = LanguageState{Language: saved}
			l.mu.Unlock()
			l.publish(Action{Slice: "language", Op: OpChange, Phase: Fulfilled})
		})
	logging.Audit().LanguageChange(lang, err)
	return saved, err
}

func (l *LanguageSlice) begin(op Op) {
	l.mu.Lock()
	l.state.Loading = true
	l.state.Err = nil
	l.mu.Unlock()
	l.publish(Action{Slice: "language", Op: op, Phase: Pending})
}

func (l *LanguageSlice) fail(op Op, err error) {
	l.mu.Lock()
	l.state.Loading = false
	l.state.Err = err
	l.mu.Unlock()
	l.publish(Action{Slice: "language", Op: op, Phase: Rejected, Err: err})
}

// DashboardSlice holds the dashboard summary in Current.
type DashboardSlice struct {
	*Slice[models.Dashboard]
	act *actions.Dashboard
}

// NewDashboardSlice creates an empty dashboard slice.
func NewDashboardSlice(act *actions.Dashboard, publish func(Action)) *DashboardSlice {
	return &DashboardSlice{
		Slice: NewSlice[models.Dashboard]("dashboard", nil, publish),
		act:   act,
	}
}

// Fetch dispatches the dashboard fetch.
func (d *DashboardSlice) Fetch(ctx context.Context) (actions.Item[models.Dashboard], error) {
	return Dispatch(d.Slice, OpGet,
		func() (actions.Item[models.Dashboard], error) { return d.act.Fetch(ctx) },
		d.fulfillGet)
}
