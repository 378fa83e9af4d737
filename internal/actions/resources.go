package actions

import (
	"takeoffadmin/internal/api"
	"takeoffadmin/internal/models"
)

// MemberPageSize is the default page size of the verified-member list.
const MemberPageSize = 10

// NewBanners returns the banner action group.
func NewBanners(c *api.Client) *Resource[models.Banner] {
	return &Resource[models.Banner]{
		client:   c,
		name:     "banner",
		singular: "banner",
		plural:   "banners",
		endpoints: Endpoints{
			Create: "/admin/add-banner",
			List:   "/admin/get-banner",
			Get:    "/admin/get-banner/%s",
			Update: "/admin/update-banner/%s",
			Delete: "/admin/delete-banner/%s",
		},
	}
}

// NewEvents returns the event action group.
func NewEvents(c *api.Client) *Resource[models.Event] {
	return &Resource[models.Event]{
		client:   c,
		name:     "event",
		singular: "event",
		plural:   "events",
		endpoints: Endpoints{
			Create: "/admin/add-event",
			List:   "/admin/get-events",
			Get:    "/admin/get-event/%s",
			Update: "/admin/update-eventById/%s",
			Delete: "/admin/delete-event/%s",
		},
	}
}

// NewFounderProfiles returns the founder-profile action group.
func NewFounderProfiles(c *api.Client) *Resource[models.FounderProfile] {
	return &Resource[models.FounderProfile]{
		client:   c,
		name:     "founderProfile",
		singular: "founderProfile",
		plural:   "founderProfiles",
		endpoints: Endpoints{
			Create: "/admin/add-founderProfile",
			List:   "/admin/get-founderProfiles",
			Get:    "/admin/get-founderProfile/%s",
			Update: "/admin/update-founderProfile/%s",
			Delete: "/admin/delete-founderProfile/%s",
		},
	}
}

// NewMembers returns the verified-member action group. Lists default to page 1, limit 10.
func NewMembers(c *api.Client) *Resource[models.VerifiedMember] {
	return &Resource[models.VerifiedMember]{
		client:   c,
		name:     "member",
		singular: "member",
		plural:   "members",
		endpoints: Endpoints{
			Create: "/admin/add-member",
			List:   "/admin/get-member",
			Get:    "/admin/get-memberbyid/%s",
			Update: "/admin/update-member/%s",
			Delete: "/admin/delete-member/%s",
		},
		defaultPage: ListParams{Page: 1, Limit: MemberPageSize},
	}
}

// NewMemberships returns the membership-enquiry action group.
func NewMemberships(c *api.Client) *Resource[models.MembershipEnquiry] {
	return &Resource[models.MembershipEnquiry]{
		client:   c,
		name:     "membership",
		singular: "membership",
		plural:   "memberships",
		endpoints: Endpoints{
			Create: "/admin/add-membership",
			List:   "/admin/get-membership",
			Get:    "/admin/get-membershipById/%s",
			Update: "/admin/update-membershipById/%s",
			Delete: "/admin/delete-membershipById/%s",
		},
	}
}
