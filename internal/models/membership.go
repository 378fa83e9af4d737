package models

import (
	"errors"
	"strings"
)

// PersonalInfo is the applicant section of a membership enquiry.
type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality"`
	LinkedIn    string `json:"linkedin"`
}

// FullName joins first and last name.
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// BusinessInfo is the company section of a membership enquiry.
type BusinessInfo struct {
	CompanyName        string `json:"companyName"`
	Position           string `json:"position"`
	CompanySize        string `json:"companySize"`
	BusinessType       string `json:"businessType"`
	CompanyDescription string `json:"companyDescription"`
	CompanyWebsite     string `json:"companyWebsite"`
	Industry           string `json:"industry"`
	PrimaryLocation    string `json:"primaryLocation"`
}

// Interests is the programme section of a membership enquiry.
type Interests struct {
	ProgramInterests       Strings `json:"programInterests"`
	BusinessGoals          string  `json:"businessGoals"`
	ReferralSource         string  `json:"referralSource"`
	VolunteeringInterested Flag    `json:"volunteeringInterested"`
	ContributionIdeas      string  `json:"contributionIdeas,omitempty"`
}

// MembershipEnquiry is a submitted membership application. Read-only in this client.
type MembershipEnquiry struct {
	ID           string       `json:"_id"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	BusinessInfo BusinessInfo `json:"businessInfo"`
	Interests    Interests    `json:"interests"`
	CreatedAt    Timestamp    `json:"createdAt"`
}

func (m MembershipEnquiry) Key() string { return m.ID }

// Validate implements Record.
func (m MembershipEnquiry) Validate() error {
	return requireID("membership", m.ID)
}

// DashboardTotals counts records per resource.
type DashboardTotals struct {
	Banners             int `json:"banners"`
	Events              int `json:"events"`
	FounderProfiles     int `json:"founderProfiles"`
	Memberships         int `json:"memberships"`
	VerifiedMemberships int `json:"verifiedMemberships"`
}

// DashboardSummary is the overall record count.
type DashboardSummary struct {
	TotalRecords int       `json:"totalRecords"`
	LastUpdated  Timestamp `json:"lastUpdated"`
}

// Dashboard is the derived aggregate shown on the landing view.
type Dashboard struct {
	Totals  *DashboardTotals  `json:"totals"`
	Summary *DashboardSummary `json:"summary"`
}

// Key implements Record; the dashboard is a singleton.
func (d Dashboard) Key() string { return "dashboard" }

// Validate implements Record.
func (d Dashboard) Validate() error {
	if d.Totals == nil {
		return errors.New("dashboard: missing totals")
	}
	if d.Summary == nil {
		return errors.New("dashboard: missing summary")
	}
	return nil
}
