// Package models defines the admin API record types and their response-schema checks.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is implemented by every resource record type.
type Record interface {
	// Key returns the backend-assigned identifier.
	Key() string
	// Validate rejects records that do not satisfy the response schema.
	Validate() error
}

// ErrMissingID is returned by Validate when the backend omitted _id.
var ErrMissingID = errors.New("record has no _id")

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: %w", kind, ErrMissingID)
	}
	return nil
}

// Flag is a boolean that also decodes from the strings "true"/"false",
// which is how multipart submissions reach the backend.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flag: expected bool or string, got %s", data)
	}
	if s == "" {
		*f = false
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("flag: %w", err)
	}
	*f = Flag(b)
	return nil
}

// Strings is a list of strings that also decodes from a JSON-encoded string
// holding the array.
type Strings []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Strings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("strings: expected array or string, got %s", data)
	}
	if strings.TrimSpace(encoded) == "" {
		*s = nil
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &list); err != nil {
		// A single plain value rather than an encoded array.
		*s = Strings{encoded}
		return nil
	}
	*s = list
	return nil
}

// Timestamp parses the backend's RFC 3339 timestamps, tolerating empty values.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			return nil
		}
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Pagination is the block the paginated member list returns.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Range returns the 1-based first and last item numbers shown on this page.
func (p Pagination) Range() (start, end int) {
	if p.Total == 0 || p.Limit <= 0 {
		return 0, 0
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	start = (page-1)*p.Limit + 1
	end = page * p.Limit
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

// Label renders "start - end of total".
func (p Pagination) Label() string {
	start, end := p.Range()
	return fmt.Sprintf("%d - %d of %d", start, end, p.Total)
}

// Pages returns TotalPages, deriving it from Total and Limit when absent.
func (p Pagination) Pages() int {
	if p.TotalPages > 0 {
		return p.TotalPages
	}
	if p.Limit <= 0 {
		return 1
	}
	pages := (p.Total + p.Limit - 1) / p.Limit
	if pages < 1 {
		return 1
	}
	return pages
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool {
	return p.Page < p.Pages()
}
