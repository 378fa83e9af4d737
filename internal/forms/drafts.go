package forms

import (
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"takeoffadmin/internal/api"
	"takeoffadmin/internal/models"
)

// Draft is an editable form.
type Draft interface {
	// Validate returns the field errors for mode; empty means submittable.
	Validate(mode Mode) FieldErrors
	// Body builds the request payload. Call only after Validate passes.
	Body(mode Mode) (api.Body, error)
	// Reset clears the draft back to an empty form.
	Reset()
}

// imageFile attaches the file at path to field, if a path was chosen.
func imageFile(m *api.Multipart, field, path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	m.Attach(api.File{
		Field:    field,
		Path:     path,
		MimeType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
	})
}

func requireImage(errs FieldErrors, mode Mode, path string) {
	if mode == Create && strings.TrimSpace(path) == "" {
		errs["image"] = "Image is required"
	}
}

// Banner is the banner form. Image is a local file path.
type Banner struct {
	Heading     string `json:"heading" label:"Heading" validate:"notblank"`
	Description string `json:"description" label:"Description" validate:"notblank"`
	Image       string `json:"image"`

	// CurrentImage is the stored image URL when editing.
	CurrentImage string `json:"-"`
}

// BannerFrom prefills an edit form.
func BannerFrom(b models.Banner) *Banner {
	return &Banner{Heading: b.Heading, Description: b.Description, CurrentImage: b.Image}
}

func (d *Banner) Validate(mode Mode) FieldErrors {
	errs := check(d)
	requireImage(errs, mode, d.Image)
	return errs
}

func (d *Banner) Body(mode Mode) (api.Body, error) {
	m := api.NewMultipart().
		Set("heading", strings.TrimSpace(d.Heading)).
		Set("description", strings.TrimSpace(d.Description))
	imageFile(m, "image", d.Image)
	return m, nil
}

func (d *Banner) Reset() { *d = Banner{} }

// Event is the event form. EventDate is YYYY-MM-DD.
type Event struct {
	Title       string `json:"title" label:"Title" validate:"notblank"`
	Type        string `json:"type"`
	Description string `json:"description"`
	DateLabel   string `json:"dateLabel"`
	EventDate   string `json:"eventDate" label:"Event date" validate:"notblank,datetime=2006-01-02"`
	EventTime   string `json:"eventTime"`
	Location    string `json:"location" label:"Location" validate:"notblank"`
	IsRegular   bool   `json:"isRegular"`
	Image       string `json:"image"`

	CurrentImage string `json:"-"`
}

// EventFrom prefills an edit form. Timestamps are cut to their date.
func EventFrom(e models.Event) *Event {
	date := e.EventDate
	if t, err := e.Date(); err == nil {
		date = t.Format("2006-01-02")
	}
	return &Event{
		Title:        e.Title,
		Type:         e.Type,
		Description:  e.Description,
		DateLabel:    e.DateLabel,
		EventDate:    date,
		EventTime:    e.EventTime,
		Location:     e.Location,
		IsRegular:    bool(e.IsRegular),
		CurrentImage: e.ImageURL,
	}
}

func (d *Event) Validate(mode Mode) FieldErrors {
	return check(d)
}

func (d *Event) Body(mode Mode) (api.Body, error) {
	m := api.NewMultipart().
		Set("dateLabel", strings.TrimSpace(d.DateLabel)).
		Set("isRegular", strconv.FormatBool(d.IsRegular)).
		Set("title", strings.TrimSpace(d.Title)).
		Set("type", strings.TrimSpace(d.Type)).
		Set("description", strings.TrimSpace(d.Description)).
		Set("eventDate", strings.TrimSpace(d.EventDate)).
		Set("eventTime", strings.TrimSpace(d.EventTime)).
		Set("location", strings.TrimSpace(d.Location))
	imageFile(m, "image", d.Image)
	return m, nil
}

func (d *Event) Reset() { *d = Event{} }

// Founder is the founder-profile form.
type Founder struct {
	Badge        string   `json:"badge" label:"Badge" validate:"notblank"`
	FullName     string   `json:"fullName" label:"Full name" validate:"notblank"`
	Role         string   `json:"role"`
	Summary      string   `json:"summary"`
	Achievements []string `json:"achievements"`
	LinkedIn     string   `json:"linkedIn" label:"LinkedIn" validate:"omitempty,httpurl"`
	Image        string   `json:"image"`

	CurrentImage string `json:"-"`
}

// FounderFrom prefills an edit form.
func FounderFrom(f models.FounderProfile) *Founder {
	return &Founder{
		Badge:        f.Badge,
		FullName:     f.FullName,
		Role:         f.Role,
		Summary:      f.Summary,
		Achievements: append([]string(nil), f.Achievements...),
		LinkedIn:     f.SocialLinks.LinkedIn,
		CurrentImage: f.ImageURL,
	}
}

// AddAchievement appends an empty achievement row.
func (d *Founder) AddAchievement() {
	d.Achievements = append(d.Achievements, "")
}

// RemoveAchievement drops row i. The last remaining row is kept.
func (d *Founder) RemoveAchievement(i int) {
	if len(d.Achievements) <= 1 || i < 0 || i >= len(d.Achievements) {
		return
	}
	d.Achievements = append(d.Achievements[:i], d.Achievements[i+1:]...)
}

// FilledAchievements returns the non-blank achievements, trimmed.
func (d *Founder) FilledAchievements() []string {
	out := []string{}
	for _, a := range d.Achievements {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (d *Founder) Validate(mode Mode) FieldErrors {
	errs := check(d)
	requireImage(errs, mode, d.Image)
	return errs
}

func (d *Founder) Body(mode Mode) (api.Body, error) {
	m := api.NewMultipart().
		Set("badge", strings.TrimSpace(d.Badge)).
		Set("fullName", strings.TrimSpace(d.FullName)).
		Set("role", strings.TrimSpace(d.Role)).
		Set("summary", strings.TrimSpace(d.Summary))
	if err := m.SetJSON("achievements", d.FilledAchievements()); err != nil {
		return nil, err
	}
	if err := m.SetJSON("socialLinks", models.SocialLinks{LinkedIn: strings.TrimSpace(d.LinkedIn)}); err != nil {
		return nil, err
	}
	imageFile(m, "image", d.Image)
	return m, nil
}

func (d *Founder) Reset() { *d = Founder{Achievements: []string{""}} }

// Member is the verified-member form. It is submitted as JSON.
type Member struct {
	Name     string `json:"name" label:"Name" validate:"notblank"`
	Title    string `json:"title" label:"Title" validate:"notblank"`
	Company  string `json:"company" label:"Company" validate:"notblank"`
	Industry string `json:"industry" label:"Industry" validate:"notblank"`
	Location string `json:"location" label:"Location" validate:"notblank"`
	Email    string `json:"email" label:"Email" validate:"notblank,emailaddr"`
	Phone    string `json:"phone" label:"Phone" validate:"notblank,phone"`
	Website  string `json:"website" label:"website" validate:"omitempty,httpurl"`
	LinkedIn string `json:"linkedIn" label:"LinkedIn" validate:"omitempty,httpurl"`
	Discount string `json:"discount" label:"Discount" validate:"notblank"`
}

// MemberFrom prefills an edit form.
func MemberFrom(m models.VerifiedMember) *Member {
	return &Member{
		Name:     m.Name,
		Title:    m.Title,
		Company:  m.Company,
		Industry: m.Industry,
		Location: m.Location,
		Email:    m.Email,
		Phone:    m.Phone,
		Website:  m.Website,
		LinkedIn: m.LinkedIn,
		Discount: m.Discount,
	}
}

func (d *Member) Validate(mode Mode) FieldErrors {
	return check(d)
}

func (d *Member) Body(mode Mode) (api.Body, error) {
	trimmed := Member{
		Name:     strings.TrimSpace(d.Name),
		Title:    strings.TrimSpace(d.Title),
		Company:  strings.TrimSpace(d.Company),
		Industry: strings.TrimSpace(d.Industry),
		Location: strings.TrimSpace(d.Location),
		Email:    strings.TrimSpace(d.Email),
		Phone:    strings.TrimSpace(d.Phone),
		Website:  strings.TrimSpace(d.Website),
		LinkedIn: strings.TrimSpace(d.LinkedIn),
		Discount: strings.TrimSpace(d.Discount),
	}
	return api.JSON(trimmed), nil
}

func (d *Member) Reset() { *d = Member{} }
