// Package auth is the sign-in gate: it drives the auth slice, mirrors the
// session to durable storage and moves the router.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"takeoffadmin/internal/actions"
	"takeoffadmin/internal/api"
	"takeoffadmin/internal/logging"
	"takeoffadmin/internal/router"
	"takeoffadmin/internal/session"
	"takeoffadmin/internal/store"
)

// Navigator moves the UI to a path.
type Navigator interface {
	Navigate(path string) router.Resolution
}

// TokenSetter receives the bearer token for subsequent requests.
type TokenSetter interface {
	SetToken(token string)
}

// Gate wires sign-in and sign-out.
type Gate struct {
	Store  *store.Store
	Repo   *session.Repository
	Nav    Navigator
	Tokens TokenSetter

	// DefaultLanguage applies while no preference is stored. Empty means
	// actions.DefaultLanguage.
	DefaultLanguage string

	now func() time.Time
}

// NewGate creates a gate. tokens may be nil.
func NewGate(st *store.Store, repo *session.Repository, nav Navigator, tokens TokenSetter) *Gate {
	return &Gate{Store: st, Repo: repo, Nav: nav, Tokens: tokens, now: time.Now}
}

// SignIn logs in and, on success, persists the session and navigates to the
// dashboard. On failure the view stays on sign-in and the failure is returned.
func (g *Gate) SignIn(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		fields := map[string]string{}
		if email == "" {
			fields["email"] = "Email is required"
		}
		if password == "" {
			fields["password"] = "Password is required"
		}
		return api.NewValidationFailure(fields)
	}

	res, err := g.Store.Auth.Login(ctx, actions.Credentials{Email: email, Password: password})
	logging.Audit().SignIn(email, err)
	if err != nil {
		logging.AuthWarn("sign-in failed for %s: %v", email, err)
		return err
	}

	g.setToken(res.AccessToken)
	if err := g.Repo.Save(g.Store.Auth.State().Session); err != nil {
		// The in-memory session still works for this run.
		logging.Get(logging.CategoryAuth).Error("persist session: %v", err)
	}
	logging.Auth("signed in as %s (role=%s)", email, res.Role)

	g.Nav.Navigate(router.Dashboard)
	return nil
}

// SignOut ends the session. Local state is cleared even when the server
// call fails; that failure is logged and returned so the view can show it.
func (g *Gate) SignOut(ctx context.Context) error {
	_, logoutErr := g.Store.Auth.Logout(ctx)
	if logoutErr != nil {
		logging.AuthWarn("server logout failed, clearing local session anyway: %v", logoutErr)
	}

	if err := g.Repo.Clear(); err != nil {
		logging.Get(logging.CategoryAuth).Error("clear stored session: %v", err)
		logoutErr = errors.Join(logoutErr, err)
	}
	g.Store.Auth.ClearSession()
	g.Store.Language.Hydrate(g.defaultLanguage())
	g.setToken("")
	logging.Auth("signed out")
	logging.Audit().SignOut(logoutErr)

	g.Nav.Navigate(router.Login)
	return logoutErr
}

// Restore hydrates the auth and language slices from storage once at
// startup. It makes no network call and reports whether a session was restored.
// A session whose access token has expired is discarded.
func (g *Gate) Restore() bool {
	lang := g.Repo.LoadLanguage(g.defaultLanguage())
	g.Store.Language.Hydrate(lang)

	s, err := g.Repo.Load()
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			logging.SessionWarn("restore session: %v", err)
		}
		return false
	}

	if session.Expired(s, g.now()) {
		logging.SessionWarn("stored access token expired, discarding session")
		if err := g.Repo.Clear(); err != nil {
			logging.SessionWarn("clear expired session: %v", err)
		}
		if lang != g.defaultLanguage() {
			_ = g.Repo.SaveLanguage(lang)
		}
		return false
	}

	g.Store.Auth.Hydrate(s)
	g.setToken(s.AccessToken)
	logging.Session("session restored (role=%s)", s.Role)
	return true
}

func (g *Gate) defaultLanguage() string {
	if g.DefaultLanguage == "" {
		return actions.DefaultLanguage
	}
	return g.DefaultLanguage
}

func (g *Gate) setToken(token string) {
	if g.Tokens != nil {
		g.Tokens.SetToken(token)
	}
}
