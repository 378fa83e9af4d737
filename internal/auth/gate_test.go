package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"takeoffadmin/internal/actions"
	"takeoffadmin/internal/api"
	"takeoffadmin/internal/api/apitest"
	"takeoffadmin/internal/router"
	"takeoffadmin/internal/session"
	"takeoffadmin/internal/storage"
	"takeoffadmin/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

// recordingNav is a router that also records every path it was asked for.
type recordingNav struct {
	*router.Router
	paths []string
}

func (n *recordingNav) Navigate(path string) router.Resolution {
	n.paths = append(n.paths, path)
	return n.Router.Navigate(path)
}

type GateSuite struct {
	suite.Suite
	srv    *apitest.Server
	client *api.Client
	st     storage.Storage
	repo   *session.Repository
	store  *store.Store
	nav    *recordingNav
	gate   *Gate
}

func (s *GateSuite) SetupTest() {
	s.srv = apitest.New(s.T(), apitest.WithAuth())
	client, err := api.New(api.Options{BaseURL: s.srv.URL, Timeout: 2 * time.Second})
	s.Require().NoError(err)
	s.client = client
	s.st = storage.NewMemory()
	s.repo = session.NewRepository(s.st)
	s.store = store.New(client, s.repo)
	s.nav = &recordingNav{Router: router.New(s.store.Auth)}
	s.gate = NewGate(s.store, s.repo, s.nav, client)
}

func (s *GateSuite) signIn() {
	s.Require().NoError(s.gate.SignIn(context.Background(), apitest.AdminEmail, apitest.AdminPassword))
}

func (s *GateSuite) TestSignInPersistsAndNavigates() {
	s.signIn()

	s.True(s.store.Auth.IsLogged())
	s.Equal([]string{router.Dashboard}, s.nav.paths)
	s.Equal(router.Dashboard, s.nav.Current().Route.Path)
	s.NotEmpty(s.client.Token())

	stored, err := s.repo.Load()
	s.Require().NoError(err)
	s.Equal("admin", stored.Role)
	s.Equal(s.client.Token(), stored.AccessToken)

	// The session cookie from login authorises later calls.
	_, err = s.store.Banners.List(context.Background(), actions.ListParams{})
	s.NoError(err)
}

func (s *GateSuite) TestSignInFailureStaysOnLogin() {
	err := s.gate.SignIn(context.Background(), apitest.AdminEmail, "wrong")
	s.Require().Error(err)
	s.True(api.IsKind(err, api.KindServer))
	s.False(s.store.Auth.IsLogged())
	s.Empty(s.nav.paths)

	_, err = s.repo.Load()
	s.ErrorIs(err, session.ErrNoSession)
}

func (s *GateSuite) TestSignInRequiresBothFields() {
	err := s.gate.SignIn(context.Background(), " ", "")
	s.Require().Error(err)
	f := api.AsFailure(err)
	s.Equal(api.KindValidation, f.Kind)
	s.Contains(f.Fields, "email")
	s.Contains(f.Fields, "password")
	s.Zero(s.srv.CallCount(http.MethodPost, "/admin/login"))
}

func (s *GateSuite) TestSignOutClearsEverything() {
	s.signIn()
	s.Require().NoError(s.repo.SaveLanguage("Arabic"))

	s.Require().NoError(s.gate.SignOut(context.Background()))

	s.False(s.store.Auth.IsLogged())
	s.Empty(s.client.Token())
	keys, err := s.st.Keys()
	s.Require().NoError(err)
	s.Empty(keys)
	s.Equal(actions.DefaultLanguage, s.store.Language.State().Language)
	s.Equal(router.Login, s.nav.Current().Route.Path)
}

func (s *GateSuite) TestSignOutClearsLocallyWhenServerFails() {
	s.signIn()
	s.srv.FailNext(http.MethodDelete, "/admin/logout", http.StatusInternalServerError, `{"message":"logout broke"}`)

	err := s.gate.SignOut(context.Background())
	s.Require().Error(err)
	s.Contains(err.Error(), "logout broke")

	s.False(s.store.Auth.IsLogged())
	_, err = s.repo.Load()
	s.ErrorIs(err, session.ErrNoSession)
	s.Equal(router.Login, s.nav.Current().Route.Path)
}

func (s *GateSuite) TestRestoreAfterRestart() {
	s.signIn()
	s.Require().NoError(s.repo.SaveLanguage("Arabic"))

	// A fresh store and gate over the same storage stand in for a restart.
	client, err := api.New(api.Options{BaseURL: s.srv.URL})
	s.Require().NoError(err)
	fresh := store.New(client, s.repo)
	nav := &recordingNav{Router: router.New(fresh.Auth)}
	gate := NewGate(fresh, s.repo, nav, client)

	s.srv.ResetCalls()
	s.True(gate.Restore())
	s.Empty(s.srv.Calls(), "restore must not touch the network")

	s.True(fresh.Auth.IsLogged())
	s.Equal("admin", fresh.Auth.State().Role)
	s.Equal("Arabic", fresh.Language.State().Language)
	s.Equal(s.client.Token(), client.Token())
	s.Equal(router.Banners, nav.Resolve(router.Banners).Route.Path)
}

func (s *GateSuite) TestRestoreWithoutSession() {
	s.False(s.gate.Restore())
	s.False(s.store.Auth.IsLogged())
	s.Equal(router.Login, s.nav.Resolve(router.Dashboard).Route.Path)
}

func (s *GateSuite) TestRestoreDiscardsExpiredToken() {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Save(store.Session{IsLogged: true, Role: "admin", AccessToken: tok}))
	s.Require().NoError(s.repo.SaveLanguage("Arabic"))

	s.False(s.gate.Restore())
	s.False(s.store.Auth.IsLogged())
	_, err = s.repo.Load()
	s.ErrorIs(err, session.ErrNoSession)
	s.Equal("Arabic", s.repo.LoadLanguage(""))
}

func (s *GateSuite) TestConfiguredDefaultLanguage() {
	s.gate.DefaultLanguage = "Arabic"

	s.False(s.gate.Restore())
	s.Equal("Arabic", s.store.Language.State().Language)

	// A stored preference wins over the configured default.
	s.Require().NoError(s.repo.SaveLanguage("English"))
	s.gate.Restore()
	s.Equal("English", s.store.Language.State().Language)

	s.signIn()
	s.Require().NoError(s.gate.SignOut(context.Background()))
	s.Equal("Arabic", s.store.Language.State().Language)
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}
