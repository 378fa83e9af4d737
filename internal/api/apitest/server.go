// Package apitest runs an in-memory fake of the takeoff admin REST API for tests.
//
// It implements every /admin endpoint the client calls, assigns identifiers,
// parses JSON and multipart bodies, paginates the member list and records
// each request so tests can assert on call order.
package apitest

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

const (
	// AdminEmail and AdminPassword are the credentials the fake accepts.
	AdminEmail    = "admin@takeoff.test"
	AdminPassword = "s3cret-pass"

	sessionCookie = "takeoff_session"
)

// Call is one request received by the fake.
type Call struct {
	Method string
	Path   string
	Query  string
}

func (c Call) String() string {
	return c.Method + " " + c.Path
}

type failure struct {
	status int
	body   string
}

type resource struct {
	singular  string
	label     string
	create    string
	list      string
	get       string
	update    string
	del       string
	imageKey  string
	paginated bool
}

var resources = []resource{
	{singular: "banner", label: "Banner", create: "/admin/add-banner", list: "/admin/get-banner", get: "/admin/get-banner/{id}", update: "/admin/update-banner/{id}", del: "/admin/delete-banner/{id}", imageKey: "image"},
	{singular: "event", label: "Event", create: "/admin/add-event", list: "/admin/get-events", get: "/admin/get-event/{id}", update: "/admin/update-eventById/{id}", del: "/admin/delete-event/{id}", imageKey: "imageUrl"},
	{singular: "founderProfile", label: "Founder profile", create: "/admin/add-founderProfile", list: "/admin/get-founderProfiles", get: "/admin/get-founderProfile/{id}", update: "/admin/update-founderProfile/{id}", del: "/admin/delete-founderProfile/{id}", imageKey: "imageUrl"},
	{singular: "member", label: "Member", create: "/admin/add-member", list: "/admin/get-member", get: "/admin/get-memberbyid/{id}", update: "/admin/update-member/{id}", del: "/admin/delete-member/{id}", paginated: true},
	{singular: "membership", label: "Membership", create: "/admin/add-membership", list: "/admin/get-membership", get: "/admin/get-membershipById/{id}", update: "/admin/update-membershipById/{id}", del: "/admin/delete-membershipById/{id}"},
}

// multipart text fields the backend stores as structured JSON
var jsonFields = map[string]bool{"achievements": true, "socialLinks": true}

// multipart text fields the backend stores as booleans
var boolFields = map[string]bool{"isRegular": true}

// Option configures the fake.
type Option func(*Server)

// WithAuth makes every endpoint except login require the session cookie
// or the bearer token issued at login.
func WithAuth() Option {
	return func(s *Server) { s.requireAuth = true }
}

// Server is the running fake.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	calls       []Call
	records     map[string][]map[string]interface{}
	failures    map[string][]failure
	requireAuth bool
	hash        []byte
	cookies     *securecookie.SecureCookie
	signingKey  []byte
	tokenTTL    time.Duration
}

// New starts a fake server and closes it when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("apitest: hash password: %v", err)
	}

	s := &Server{
		records:    make(map[string][]map[string]interface{}),
		failures:   make(map[string][]failure),
		hash:       hash,
		cookies:    securecookie.New(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32)),
		signingKey: securecookie.GenerateRandomKey(32),
		tokenTTL:   time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Post("/admin/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Delete("/admin/logout", s.handleLogout)
		r.Get("/admin/get-dashboard", s.handleDashboard)

		for _, res := range resources {
			res := res
			r.Post(res.create, s.handleCreate(res))
			r.Get(res.list, s.handleList(res))
			r.Get(res.get, s.handleGet(res))
			r.Put(res.update, s.handleUpdate(res))
			r.Delete(res.del, s.handleDelete(res))
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Route not found"})
	})
	return r
}

// =============================================================================
// Test helpers
// =============================================================================

// Calls returns every request received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many requests matched method and path exactly.
func (s *Server) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// ResetCalls forgets recorded calls.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

// FailNext makes the next request to method+path answer with status and body.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// Seed inserts a record for a resource ("banner", "event", "founderProfile",
// "member", "membership") and returns its identifier.
func (s *Server) Seed(singular string, fields map[string]interface{}) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(singular, fields)
}

// Records returns a copy of the stored records for a resource.
func (s *Server) Records(singular string) []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]interface{}, 0, len(s.records[singular]))
	for _, rec := range s.records[singular] {
		out = append(out, cloneRecord(rec))
	}
	return out
}

// SetTokenTTL changes the lifetime of issued access tokens.
func (s *Server) SetTokenTTL(d time.Duration) {
	s.mu.Lock()
	s.tokenTTL = d
	s.mu.Unlock()
}

func (s *Server) insert(singular string, fields map[string]interface{}) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:24]
	now := time.Now().UTC().Format(time.RFC3339)
	rec := cloneRecord(fields)
	rec["_id"] = id
	rec["createdAt"] = now
	rec["updatedAt"] = now
	s.records[singular] = append(s.records[singular], rec)
	return id
}

func (s *Server) find(singular, id string) (int, map[string]interface{}) {
	for i, rec := range s.records[singular] {
		if rec["_id"] == id {
			return i, rec
		}
	}
	return -1, nil
}

// =============================================================================
// Middleware
// =============================================================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery})
		key := r.Method + " " + r.URL.Path
		var injected *failure
		if queue := s.failures[key]; len(queue) > 0 {
			injected = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if injected != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(injected.status)
			_, _ = w.Write([]byte(injected.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.requireAuth {
			next.ServeHTTP(w, r)
			return
		}
		if s.validBearer(r) {
			next.ServeHTTP(w, r)
			return
		}
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Unauthorized"})
			return
		}
		var session map[string]string
		if err := s.cookies.Decode(sessionCookie, c.Value, &session); err != nil || session["role"] != "admin" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validBearer accepts an unexpired access token issued by handleLogin.
func (s *Server) validBearer(r *http.Request) bool {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return false
	}
	tok, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err == nil && tok.Valid
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "Invalid request body"})
		return
	}
	if creds.Email != AdminEmail || bcrypt.CompareHashAndPassword(s.hash, []byte(creds.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid email or password"})
		return
	}

	encoded, err := s.cookies.Encode(sessionCookie, map[string]string{"email": creds.Email, "role": "admin"})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: encoded, Path: "/", HttpOnly: true})

	s.mu.Lock()
	ttl := s.tokenTTL
	s.mu.Unlock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  creds.Email,
		"role": "admin",
		"exp":  time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Login successful",
		"role":        "admin",
		"user":        map[string]interface{}{"email": creds.Email, "name": "Admin"},
		"accessToken": signed,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Logged out successfully"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	totals := map[string]int{
		"banners":             len(s.records["banner"]),
		"events":              len(s.records["event"]),
		"founderProfiles":     len(s.records["founderProfile"]),
		"memberships":         len(s.records["membership"]),
		"verifiedMemberships": len(s.records["member"]),
	}
	s.mu.Unlock()

	total := 0
	for _, n := range totals {
		total += n
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totals": totals,
		"summary": map[string]interface{}{
			"totalRecords": total,
			"lastUpdated":  time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleCreate(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, err := decodeFields(r, res)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
			return
		}

		s.mu.Lock()
		id := s.insert(res.singular, fields)
		_, rec := s.find(res.singular, id)
		rec = cloneRecord(rec)
		s.mu.Unlock()

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success":    true,
			"message":    res.label + " added successfully",
			res.singular: rec,
		})
	}
}

func (s *Server) handleList(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := s.Records(res.singular)

		if !res.paginated {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": all})
			return
		}

		page := atoiDefault(r.URL.Query().Get("page"), 1)
		limit := atoiDefault(r.URL.Query().Get("limit"), 10)
		start := (page - 1) * limit
		if start > len(all) {
			start = len(all)
		}
		end := start + limit
		if end > len(all) {
			end = len(all)
		}
		totalPages := int(math.Ceil(float64(len(all)) / float64(limit)))
		if totalPages == 0 {
			totalPages = 1
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    all[start:end],
			"pagination": map[string]int{
				"total":      len(all),
				"page":       page,
				"limit":      limit,
				"totalPages": totalPages,
			},
		})
	}
}

func (s *Server) handleGet(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		_, rec := s.find(res.singular, id)
		rec = cloneRecord(rec)
		s.mu.Unlock()

		if rec == nil {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": res.label + " not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": rec})
	}
}

func (s *Server) handleUpdate(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		fields, err := decodeFields(r, res)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": err.Error()})
			return
		}

		s.mu.Lock()
		_, rec := s.find(res.singular, id)
		if rec != nil {
			for k, v := range fields {
				rec[k] = v
			}
			rec["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
			rec = cloneRecord(rec)
		}
		s.mu.Unlock()

		if rec == nil {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": res.label + " not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"message":    res.label + " updated successfully",
			res.singular: rec,
		})
	}
}

func (s *Server) handleDelete(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		i, rec := s.find(res.singular, id)
		if rec != nil {
			list := s.records[res.singular]
			s.records[res.singular] = append(list[:i:i], list[i+1:]...)
		}
		s.mu.Unlock()

		if rec == nil {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": res.label + " not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": res.label + " deleted successfully"})
	}
}

// =============================================================================
// Encoding
// =============================================================================

func decodeFields(r *http.Request, res resource) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		for key, values := range r.MultipartForm.Value {
			if len(values) == 0 {
				continue
			}
			v := values[0]
			switch {
			case jsonFields[key]:
				var decoded interface{}
				if err := json.Unmarshal([]byte(v), &decoded); err != nil {
					return nil, fmt.Errorf("field %s: %w", key, err)
				}
				fields[key] = decoded
			case boolFields[key]:
				fields[key] = v == "true"
			default:
				fields[key] = v
			}
		}
		if files := r.MultipartForm.File["image"]; len(files) > 0 && res.imageKey != "" {
			fields[res.imageKey] = "https://cdn.takeoff.test/uploads/" + files[0].Filename
		}
		return fields, nil
	}

	if r.ContentLength == 0 {
		return fields, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", err)
	}
	delete(fields, "_id")
	return fields, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cloneRecord(rec map[string]interface{}) map[string]interface{} {
	if rec == nil {
		return nil
	}
	out := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
