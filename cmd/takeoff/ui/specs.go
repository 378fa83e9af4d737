package ui

import (
	"strings"

	"takeoffadmin/internal/forms"
	"takeoffadmin/internal/models"
	"takeoffadmin/internal/router"
)

// BannerList is the banner list page.
func BannerList() ListSpec[models.Banner] {
	return ListSpec[models.Banner]{
		ID:      router.Banners,
		Title:   "Banners",
		Noun:    "banner",
		Headers: []string{"Heading", "Description", "Updated"},
		Row: func(b models.Banner) []string {
			return []string{b.Heading, b.Description, stamp(b.UpdatedAt)}
		},
		Detail: BannerMarkdown,
		Edit: func(b models.Banner) (forms.Draft, []Field) {
			d := forms.BannerFrom(b)
			return d, BannerFields(d)
		},
	}
}

// EventList is the event list page.
func EventList() ListSpec[models.Event] {
	return ListSpec[models.Event]{
		ID:      router.Events,
		Title:   "Events",
		Noun:    "event",
		Headers: []string{"Title", "Date", "Location", "Regular"},
		Row: func(e models.Event) []string {
			return []string{e.Title, eventDate(e), e.Location, yesNo(bool(e.IsRegular))}
		},
		Detail: EventMarkdown,
		Edit: func(e models.Event) (forms.Draft, []Field) {
			d := forms.EventFrom(e)
			return d, EventFields(d)
		},
	}
}

// FounderList is the founder-profile list page.
func FounderList() ListSpec[models.FounderProfile] {
	return ListSpec[models.FounderProfile]{
		ID:      router.Founders,
		Title:   "Founder Profiles",
		Noun:    "founder profile",
		Headers: []string{"Name", "Badge", "Role"},
		Row: func(f models.FounderProfile) []string {
			return []string{f.FullName, f.Badge, f.Role}
		},
		Detail: FounderMarkdown,
		Edit: func(f models.FounderProfile) (forms.Draft, []Field) {
			d := forms.FounderFrom(f)
			if len(d.Achievements) == 0 {
				d.AddAchievement()
			}
			return d, FounderFields(d)
		},
	}
}

// MemberList is the paginated verified-member list page.
func MemberList() ListSpec[models.VerifiedMember] {
	return ListSpec[models.VerifiedMember]{
		ID:      router.Members,
		Title:   "Verified Members",
		Noun:    "member",
		Headers: []string{"Name", "Company", "Industry", "Discount"},
		Row: func(m models.VerifiedMember) []string {
			return []string{m.Name, m.Company, m.Industry, m.Discount}
		},
		Detail: MemberMarkdown,
		Edit: func(m models.VerifiedMember) (forms.Draft, []Field) {
			d := forms.MemberFrom(m)
			return d, MemberFields(d)
		},
	}
}

// MembershipList is the read-only membership-enquiry list page.
func MembershipList() ListSpec[models.MembershipEnquiry] {
	return ListSpec[models.MembershipEnquiry]{
		ID:      router.Memberships,
		Title:   "Membership Enquiries",
		Noun:    "membership enquiry",
		Headers: []string{"Applicant", "Company", "Programs", "Submitted"},
		Row: func(m models.MembershipEnquiry) []string {
			return []string{
				m.PersonalInfo.FullName(),
				m.BusinessInfo.CompanyName,
				strings.Join(m.Interests.ProgramInterests, ", "),
				stamp(m.CreatedAt),
			}
		},
		Detail:   MembershipMarkdown,
		ReadOnly: true,
	}
}
