package ui

import (
	"strings"

	"takeoffadmin/internal/forms"
)

// Field binds one text input to a draft field. Key matches the field error
// keys produced by validation.
type Field struct {
	Key   string
	Label string
	Hint  string
	Get   func() string
	Set   func(string)
}

func text(key, label string, p *string) Field {
	return Field{Key: key, Label: label, Get: func() string { return *p }, Set: func(v string) { *p = v }}
}

func hinted(f Field, hint string) Field {
	f.Hint = hint
	return f
}

func flag(key, label string, p *bool) Field {
	return Field{
		Key:   key,
		Label: label,
		Hint:  "y/n",
		Get: func() string {
			if *p {
				return "y"
			}
			return "n"
		},
		Set: func(v string) { *p = ParseYes(v) },
	}
}

// ParseYes reads y, yes, true and 1 as true.
func ParseYes(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

// AchievementSeparator joins achievement rows in a single input. A bar
// inside an achievement is written as \| and a backslash as \\.
const AchievementSeparator = " | "

var achievementEscaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`)

// JoinAchievements renders rows as one input, escaping bars inside them.
func JoinAchievements(rows []string) string {
	escaped := make([]string, len(rows))
	for i, r := range rows {
		escaped[i] = achievementEscaper.Replace(r)
	}
	return strings.Join(escaped, AchievementSeparator)
}

// SplitAchievements splits a joined input back into rows, honouring \| and
// \\ escapes. At least one row is always returned.
func SplitAchievements(v string) []string {
	var rows []string
	var cur strings.Builder
	escaped := false
	for _, r := range v {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			rows = append(rows, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if escaped {
		cur.WriteRune('\\')
	}
	return append(rows, strings.TrimSpace(cur.String()))
}

// BannerFields binds the banner form.
func BannerFields(d *forms.Banner) []Field {
	return []Field{
		text("heading", "Heading", &d.Heading),
		text("description", "Description", &d.Description),
		hinted(text("image", "Image", &d.Image), imageHint(d.CurrentImage)),
	}
}

// EventFields binds the event form.
func EventFields(d *forms.Event) []Field {
	return []Field{
		text("title", "Title", &d.Title),
		text("type", "Type", &d.Type),
		text("description", "Description", &d.Description),
		hinted(text("dateLabel", "Date label", &d.DateLabel), "e.g. Every Thursday"),
		hinted(text("eventDate", "Event date", &d.EventDate), "YYYY-MM-DD"),
		hinted(text("eventTime", "Event time", &d.EventTime), "e.g. 18:30"),
		text("location", "Location", &d.Location),
		flag("isRegular", "Regular event", &d.IsRegular),
		hinted(text("image", "Image", &d.Image), imageHint(d.CurrentImage)),
	}
}

// FounderFields binds the founder-profile form. Achievements share one
// input, separated by "|" (see SplitAchievements for escaping).
func FounderFields(d *forms.Founder) []Field {
	return []Field{
		text("badge", "Badge", &d.Badge),
		text("fullName", "Full name", &d.FullName),
		text("role", "Role", &d.Role),
		text("summary", "Summary", &d.Summary),
		{
			Key:   "achievements",
			Label: "Achievements",
			Hint:  `separate with |, write \| for a literal bar`,
			Get:   func() string { return JoinAchievements(d.FilledAchievements()) },
			Set:   func(v string) { d.Achievements = SplitAchievements(v) },
		},
		hinted(text("linkedIn", "LinkedIn", &d.LinkedIn), "https://..."),
		hinted(text("image", "Image", &d.Image), imageHint(d.CurrentImage)),
	}
}

// MemberFields binds the verified-member form.
func MemberFields(d *forms.Member) []Field {
	return []Field{
		text("name", "Name", &d.Name),
		text("title", "Title", &d.Title),
		text("company", "Company", &d.Company),
		text("industry", "Industry", &d.Industry),
		text("location", "Location", &d.Location),
		text("email", "Email", &d.Email),
		text("phone", "Phone", &d.Phone),
		hinted(text("website", "Website", &d.Website), "https://..."),
		hinted(text("linkedIn", "LinkedIn", &d.LinkedIn), "https://..."),
		text("discount", "Discount", &d.Discount),
	}
}

func imageHint(current string) string {
	if current == "" {
		return "path to an image file"
	}
	return "leave empty to keep " + current
}
