package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Banner is a homepage banner.
type Banner struct {
	ID          string    `json:"_id"`
	Heading     string    `json:"heading"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

func (b Banner) Key() string { return b.ID }

// Validate implements Record.
func (b Banner) Validate() error {
	return requireID("banner", b.ID)
}

// Event is a network event.
type Event struct {
	ID          string    `json:"_id"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	DateLabel   string    `json:"dateLabel"`
	EventDate   string    `json:"eventDate"`
	EventTime   string    `json:"eventTime"`
	Location    string    `json:"location"`
	IsRegular   Flag      `json:"isRegular"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

func (e Event) Key() string { return e.ID }

// Validate implements Record.
func (e Event) Validate() error {
	return requireID("event", e.ID)
}

// Date parses EventDate as a calendar date or an RFC 3339 timestamp.
func (e Event) Date() (time.Time, error) {
	s := strings.TrimSpace(e.EventDate)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("event date %q: %w", e.EventDate, err)
	}
	return t, nil
}

// SocialLinks holds a founder's social profiles.
type SocialLinks struct {
	LinkedIn string `json:"linkedIn"`
}

// UnmarshalJSON accepts an object or a JSON-encoded string holding one.
func (s *SocialLinks) UnmarshalJSON(data []byte) error {
	type plain SocialLinks
	var p plain
	if err := json.Unmarshal(data, &p); err == nil {
		*s = SocialLinks(p)
		return nil
	}
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("socialLinks: expected object or string")
	}
	if strings.TrimSpace(encoded) == "" {
		*s = SocialLinks{}
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &p); err != nil {
		return fmt.Errorf("socialLinks: %w", err)
	}
	*s = SocialLinks(p)
	return nil
}

// FounderProfile is a founder's public profile.
type FounderProfile struct {
	ID           string      `json:"_id"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	Badge        string      `json:"badge"`
	FullName     string      `json:"fullName"`
	Role         string      `json:"role"`
	Summary      string      `json:"summary"`
	Achievements Strings     `json:"achievements"`
	SocialLinks  SocialLinks `json:"socialLinks"`
	CreatedAt    Timestamp   `json:"createdAt"`
	UpdatedAt    Timestamp   `json:"updatedAt"`
}

func (f FounderProfile) Key() string { return f.ID }

// Validate implements Record.
func (f FounderProfile) Validate() error {
	return requireID("founderProfile", f.ID)
}

// VerifiedMember is a member listed in the verified directory.
type VerifiedMember struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Industry string `json:"industry"`
	Location string `json:"location"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Website  string `json:"website"`
	LinkedIn string `json:"linkedIn"`
	Discount string `json:"discount"`
}

func (m VerifiedMember) Key() string { return m.ID }

// Validate implements Record.
func (m VerifiedMember) Validate() error {
	return requireID("member", m.ID)
}
