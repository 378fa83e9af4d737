package session

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"takeoffadmin/internal/actions"
	"takeoffadmin/internal/storage"
	"takeoffadmin/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "admin"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, driver := range []string{"memory", "file", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			st, err := storage.Open(driver, filepath.Join(t.TempDir(), "storage"))
			require.NoError(t, err)
			defer st.Close()
			repo := NewRepository(st)

			want := store.Session{
				IsLogged:    true,
				Role:        "admin",
				User:        json.RawMessage(`{"email":"admin@takeoff.test"}`),
				Status:      store.StatusSignedIn,
				AccessToken: "tok",
			}
			require.NoError(t, repo.Save(want))

			got, err := repo.Load()
			require.NoError(t, err)
			assert.Equal(t, want.Role, got.Role)
			assert.Equal(t, want.Status, got.Status)
			assert.Equal(t, want.AccessToken, got.AccessToken)
			assert.True(t, got.IsLogged)
			assert.JSONEq(t, string(want.User), string(got.User))
		})
	}
}

func TestStoredValuesAreJSON(t *testing.T) {
	st := storage.NewMemory()
	repo := NewRepository(st)
	require.NoError(t, repo.Save(store.Session{IsLogged: true, Role: "admin"}))

	v, err := st.GetItem(KeyIsLogged)
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	v, err = st.GetItem(KeyRole)
	require.NoError(t, err)
	assert.Equal(t, `"admin"`, v)

	v, err = st.GetItem(KeyUser)
	require.NoError(t, err)
	assert.Equal(t, "null", v)
}

func TestLoadWithoutSession(t *testing.T) {
	tests := []struct {
		name  string
		items map[string]string
	}{
		{"empty", nil},
		{"logged out", map[string]string{KeyIsLogged: "false", KeyRole: `"admin"`}},
		{"corrupt marker", map[string]string{KeyIsLogged: "{oops"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := storage.NewMemory()
			for k, v := range tt.items {
				require.NoError(t, st.SetItem(k, v))
			}
			_, err := NewRepository(st).Load()
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestLoadFallsBackOnCorruptFields(t *testing.T) {
	st := storage.NewMemory()
	require.NoError(t, st.SetItem(KeyIsLogged, "true"))
	require.NoError(t, st.SetItem(KeyRole, "admin"))
	require.NoError(t, st.SetItem(KeyUser, "{broken"))

	s, err := NewRepository(st).Load()
	require.NoError(t, err)
	assert.True(t, s.IsLogged)
	assert.Empty(t, s.Role)
	assert.Nil(t, s.User)
}

func TestClearRemovesLanguageToo(t *testing.T) {
	st := storage.NewMemory()
	repo := NewRepository(st)
	require.NoError(t, repo.Save(store.Session{IsLogged: true}))
	require.NoError(t, repo.SaveLanguage("Arabic"))
	assert.Equal(t, "Arabic", repo.LoadLanguage(""))

	require.NoError(t, repo.Clear())

	keys, err := st.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, actions.DefaultLanguage, repo.LoadLanguage(""))
	assert.Equal(t, "Arabic", repo.LoadLanguage("Arabic"))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, err := TokenExpiry(signed(t, exp))
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))

	got, err = TokenExpiry(signed(t, time.Time{}))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = TokenExpiry("not-a-jwt")
	assert.Error(t, err)
}

func TestExpired(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		s    store.Session
		want bool
	}{
		{"no token", store.Session{IsLogged: true}, false},
		{"garbage token", store.Session{AccessToken: "abc"}, false},
		{"valid", store.Session{AccessToken: signed(t, now.Add(time.Hour))}, false},
		{"expired", store.Session{AccessToken: signed(t, now.Add(-time.Minute))}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expired(tt.s, now))
		})
	}
}
