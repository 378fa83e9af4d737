// Package session persists the signed-in session and the language preference
// to durable storage so they survive a restart.
//
// Values are stored JSON-encoded under fixed keys:
//
//	role, isLogged, user, status, token, adminLanguage
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"takeoffadmin/internal/actions"
	"takeoffadmin/internal/logging"
	"takeoffadmin/internal/storage"
	"takeoffadmin/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

const (
	KeyRole     = "role"
	KeyIsLogged = "isLogged"
	KeyUser     = "user"
	KeyStatus   = "status"
	KeyToken    = "token"
	KeyLanguage = "adminLanguage"
)

// ErrNoSession is returned by Load when nothing usable is stored.
var ErrNoSession = errors.New("session: no stored session")

// Repository reads and writes the session through a storage.Storage.
type Repository struct {
	st storage.Storage
}

// NewRepository wraps st.
func NewRepository(st storage.Storage) *Repository {
	return &Repository{st: st}
}

// Load reads the stored session. A missing or unparsable isLogged marker,
// or isLogged=false, yields ErrNoSession. Other unparsable values fall back
// to their zero value.
func (r *Repository) Load() (store.Session, error) {
	var logged bool
	if err := r.get(KeyIsLogged, &logged); err != nil || !logged {
		return store.Session{}, ErrNoSession
	}

	s := store.Session{IsLogged: true}
	_ = r.get(KeyRole, &s.Role)
	_ = r.get(KeyStatus, &s.Status)
	_ = r.get(KeyToken, &s.AccessToken)

	if raw, err := r.st.GetItem(KeyUser); err == nil && json.Valid([]byte(raw)) && raw != "null" {
		s.User = json.RawMessage(raw)
	}
	return s, nil
}

// Save writes every session key.
func (r *Repository) Save(s store.Session) error {
	user := s.User
	if len(user) == 0 {
		user = json.RawMessage("null")
	}
	values := []struct {
		key string
		v   interface{}
	}{
		{KeyRole, s.Role},
		{KeyIsLogged, s.IsLogged},
		{KeyUser, user},
		{KeyStatus, s.Status},
		{KeyToken, s.AccessToken},
	}
	for _, kv := range values {
		if err := r.set(kv.key, kv.v); err != nil {
			return err
		}
	}
	logging.Session("session saved (role=%s)", s.Role)
	return nil
}

// Clear removes everything from storage, the language preference included.
func (r *Repository) Clear() error {
	if err := r.st.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	logging.Session("session cleared")
	return nil
}

// SaveLanguage stores the UI language.
func (r *Repository) SaveLanguage(lang string) error {
	return r.set(KeyLanguage, lang)
}

// LoadLanguage returns the stored UI language, or fallback when none is
// stored. An empty fallback means actions.DefaultLanguage.
func (r *Repository) LoadLanguage(fallback string) string {
	if fallback == "" {
		fallback = actions.DefaultLanguage
	}
	var lang string
	if err := r.get(KeyLanguage, &lang); err != nil || lang == "" {
		return fallback
	}
	return lang
}

func (r *Repository) get(key string, v interface{}) error {
	raw, err := r.st.GetItem(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logging.SessionWarn("ignoring unparsable %s value: %v", key, err)
		return err
	}
	return nil
}

func (r *Repository) set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.st.SetItem(key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// TokenExpiry reads the exp claim of an access token without verifying its
// signature; the client never holds the signing key. A token without exp
// returns the zero time.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// Expired reports whether s carries an access token whose exp is before now.
// Sessions without a token, or with an unreadable one, are not expired.
func Expired(s store.Session, now time.Time) bool {
	if s.AccessToken == "" {
		return false
	}
	exp, err := TokenExpiry(s.AccessToken)
	if err != nil || exp.IsZero() {
		return false
	}
	return now.After(exp)
}
