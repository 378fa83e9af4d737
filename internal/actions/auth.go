package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/models"
)

// Credentials are posted to /admin/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the decoded login response.
type LoginResult struct {
	Role        string
	Message     string
	User        json.RawMessage
	AccessToken string
	Raw         json.RawMessage
}

// Auth is the authentication action group.
type Auth struct {
	client *api.Client
}

// NewAuth returns the auth action group.
func NewAuth(c *api.Client) *Auth {
	return &Auth{client: c}
}

// Login posts credentials. A body without success:true is a failure.
func (a *Auth) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	raw, err := a.client.Post(ctx, "/admin/login", api.JSON(creds))
	if err != nil {
		return LoginResult{}, err
	}

	var body struct {
		Success     *bool           `json:"success"`
		Role        string          `json:"role"`
		Message     string          `json:"message"`
		User        json.RawMessage `json:"user"`
		AccessToken string          `json:"accessToken"`
		Token       string          `json:"token"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return LoginResult{}, api.NewMalformedFailure(raw, "login: %v", err)
	}
	if body.Success == nil {
		return LoginResult{}, api.NewMalformedFailure(raw, "login: response has no success flag")
	}
	if !*body.Success {
		return LoginResult{}, api.NewServerFailure(200, raw)
	}

	res := LoginResult{
		Role:        body.Role,
		Message:     body.Message,
		User:        body.User,
		AccessToken: body.AccessToken,
		Raw:         raw,
	}
	if res.AccessToken == "" {
		res.AccessToken = body.Token
	}
	if isNull(res.User) {
		res.User = raw
	}
	return res, nil
}

// Logout ends the server session.
func (a *Auth) Logout(ctx context.Context) (json.RawMessage, error) {
	return a.client.Delete(ctx, "/admin/logout")
}

// Dashboard is the dashboard action group.
type Dashboard struct {
	client *api.Client
}

// NewDashboard returns the dashboard action group.
func NewDashboard(c *api.Client) *Dashboard {
	return &Dashboard{client: c}
}

// Fetch loads the dashboard summary. The body may carry it at the top level or under data.
func (d *Dashboard) Fetch(ctx context.Context) (Item[models.Dashboard], error) {
	raw, err := d.client.Get(ctx, "/admin/get-dashboard", nil)
	if err != nil {
		return Item[models.Dashboard]{}, err
	}
	env, err := decodeEnvelope(raw)
	if err != nil {
		return Item[models.Dashboard]{}, err
	}

	body := json.RawMessage(raw)
	if _, ok := env["totals"]; !ok {
		if v, ok := env["data"]; ok && !isNull(v) {
			body = v
		}
	}

	var dash models.Dashboard
	if err := json.Unmarshal(body, &dash); err != nil {
		return Item[models.Dashboard]{}, api.NewMalformedFailure(raw, "dashboard: %v", err)
	}
	if err := dash.Validate(); err != nil {
		return Item[models.Dashboard]{}, api.NewMalformedFailure(raw, "%v", err)
	}
	return Item[models.Dashboard]{Value: dash, Raw: raw}, nil
}

// DefaultLanguage is used until the admin picks another one.
const DefaultLanguage = "English"

// LanguageStore persists the language preference.
type LanguageStore interface {
	SaveLanguage(lang string) error
}

// ChangeLanguage persists lang. It is the only action that performs no network call.
func ChangeLanguage(store LanguageStore, lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "", api.NewValidationFailure(map[string]string{"language": "Language is required"})
	}
	if err := store.SaveLanguage(lang); err != nil {
		return "", api.NewTransportFailure(fmt.Errorf("save language: %w", err))
	}
	return lang, nil
}
