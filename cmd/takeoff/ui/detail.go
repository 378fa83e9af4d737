package ui

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"takeoffadmin/internal/logging"
	"takeoffadmin/internal/models"

	"github.com/charmbracelet/glamour"
)

// DetailRenderer turns record markdown into styled terminal output.
// Rendered output is cached by content hash since expanded rows are redrawn
// on every frame.
type DetailRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	dark     bool
	cache    map[uint64]string
	maxSize  int
}

// NewDetailRenderer creates a renderer for the given theme.
func NewDetailRenderer(dark bool) *DetailRenderer {
	d := &DetailRenderer{maxSize: 64}
	d.SetDark(dark)
	return d
}

// SetDark switches the glamour style and drops cached output.
func (d *DetailRenderer) SetDark(dark bool) {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(DetailWrapWidth),
	)
	if err != nil {
		logging.UIDebug("glamour renderer unavailable, falling back to plain text: %v", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.renderer = r
	d.dark = dark
	d.cache = make(map[uint64]string)
}

// Render renders md, returning md unchanged if glamour fails.
func (d *DetailRenderer) Render(md string) string {
	h := fnv.New64a()
	h.Write([]byte(md))
	key := h.Sum64()

	d.mu.Lock()
	defer d.mu.Unlock()
	if out, ok := d.cache[key]; ok {
		return out
	}
	if d.renderer == nil {
		return md
	}
	out, err := d.renderer.Render(md)
	if err != nil {
		logging.UIDebug("render detail: %v", err)
		return md
	}
	out = strings.TrimRight(out, "\n")
	if len(d.cache) >= d.maxSize {
		d.cache = make(map[uint64]string)
	}
	d.cache[key] = out
	return out
}

// Len returns the number of cached renders.
func (d *DetailRenderer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cache)
}

func field(sb *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(sb, "- **%s:** %s\n", label, value)
}

func stamp(t models.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// BannerMarkdown is the expanded view of a banner.
func BannerMarkdown(b models.Banner) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n%s\n\n", b.Heading, b.Description)
	field(&sb, "Image", b.Image)
	field(&sb, "Created", stamp(b.CreatedAt))
	field(&sb, "Updated", stamp(b.UpdatedAt))
	return sb.String()
}

// EventMarkdown is the expanded view of an event.
func EventMarkdown(e models.Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", e.Title)
	if e.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", e.Description)
	}
	field(&sb, "Type", e.Type)
	field(&sb, "Date", eventDate(e))
	field(&sb, "Date label", e.DateLabel)
	field(&sb, "Time", e.EventTime)
	field(&sb, "Location", e.Location)
	field(&sb, "Regular", yesNo(bool(e.IsRegular)))
	field(&sb, "Image", e.ImageURL)
	return sb.String()
}

// FounderMarkdown is the expanded view of a founder profile.
func FounderMarkdown(f models.FounderProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", f.FullName)
	field(&sb, "Badge", f.Badge)
	field(&sb, "Role", f.Role)
	field(&sb, "LinkedIn", f.SocialLinks.LinkedIn)
	field(&sb, "Image", f.ImageURL)
	if f.Summary != "" {
		fmt.Fprintf(&sb, "\n%s\n", f.Summary)
	}
	if len(f.Achievements) > 0 {
		sb.WriteString("\n### Achievements\n\n")
		for _, a := range f.Achievements {
			fmt.Fprintf(&sb, "- %s\n", a)
		}
	}
	return sb.String()
}

// MemberMarkdown is the expanded view of a verified member.
func MemberMarkdown(m models.VerifiedMember) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", m.Name)
	field(&sb, "Title", m.Title)
	field(&sb, "Company", m.Company)
	field(&sb, "Industry", m.Industry)
	field(&sb, "Location", m.Location)
	field(&sb, "Email", m.Email)
	field(&sb, "Phone", m.Phone)
	field(&sb, "Website", m.Website)
	field(&sb, "LinkedIn", m.LinkedIn)
	field(&sb, "Discount", m.Discount)
	return sb.String()
}

// MembershipMarkdown is the expanded view of a membership enquiry.
func MembershipMarkdown(m models.MembershipEnquiry) string {
	p, b, in := m.PersonalInfo, m.BusinessInfo, m.Interests
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n### Personal\n\n", p.FullName())
	field(&sb, "Email", p.Email)
	field(&sb, "Phone", p.Phone)
	field(&sb, "Nationality", p.Nationality)
	field(&sb, "LinkedIn", p.LinkedIn)

	sb.WriteString("\n### Business\n\n")
	field(&sb, "Company", b.CompanyName)
	field(&sb, "Position", b.Position)
	field(&sb, "Size", b.CompanySize)
	field(&sb, "Type", b.BusinessType)
	field(&sb, "Industry", b.Industry)
	field(&sb, "Location", b.PrimaryLocation)
	field(&sb, "Website", b.CompanyWebsite)
	if b.CompanyDescription != "" {
		fmt.Fprintf(&sb, "\n%s\n", b.CompanyDescription)
	}

	sb.WriteString("\n### Interests\n\n")
	field(&sb, "Programs", strings.Join(in.ProgramInterests, ", "))
	field(&sb, "Goals", in.BusinessGoals)
	field(&sb, "Referral", in.ReferralSource)
	field(&sb, "Volunteering", yesNo(bool(in.VolunteeringInterested)))
	field(&sb, "Contribution ideas", in.ContributionIdeas)
	field(&sb, "Submitted", stamp(m.CreatedAt))
	return sb.String()
}

func eventDate(e models.Event) string {
	if t, err := e.Date(); err == nil {
		return t.Format("2006-01-02")
	}
	return e.EventDate
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
