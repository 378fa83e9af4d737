package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name  string
		p     Pagination
		label string
		prev  bool
		next  bool
	}{
		{"middle page", Pagination{Total: 25, Page: 2, Limit: 10}, "11 - 20 of 25", true, true},
		{"last page", Pagination{Total: 25, Page: 3, Limit: 10}, "21 - 25 of 25", true, false},
		{"first page", Pagination{Total: 25, Page: 1, Limit: 10, TotalPages: 3}, "1 - 10 of 25", false, true},
		{"single page", Pagination{Total: 4, Page: 1, Limit: 10, TotalPages: 1}, "1 - 4 of 4", false, false},
		{"empty", Pagination{Total: 0, Page: 1, Limit: 10}, "0 - 0 of 0", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.label, tt.p.Label())
			assert.Equal(t, tt.prev, tt.p.HasPrev())
			assert.Equal(t, tt.next, tt.p.HasNext())
		})
	}
}

func TestEvent_DecodesMultipartShapes(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id": "e1", "title": "Summit", "isRegular": "true",
		"eventDate": "2025-03-14", "createdAt": "2025-01-02T03:04:05Z"
	}`), &e))

	assert.True(t, bool(e.IsRegular))
	d, err := e.Date()
	require.NoError(t, err)
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 2025, e.CreatedAt.Year())
	require.NoError(t, e.Validate())

	e.EventDate = "2025-03-14T09:00:00.000Z"
	_, err = e.Date()
	assert.NoError(t, err)

	e.EventDate = "next tuesday"
	_, err = e.Date()
	assert.Error(t, err)
}

func TestFlag(t *testing.T) {
	for input, want := range map[string]bool{
		`true`: true, `false`: false, `"true"`: true, `"false"`: false, `""`: false, `null`: false,
	} {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(input), &f), input)
		assert.Equal(t, want, bool(f), input)
	}
	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &f))
}

func TestFounderProfile_DecodesEncodedFields(t *testing.T) {
	var fromStrings, fromStructured FounderProfile
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id": "f1", "fullName": "Ada",
		"achievements": "[\"Founded X\",\"Raised Y\"]",
		"socialLinks": "{\"linkedIn\":\"https://linkedin.com/in/ada\"}"
	}`), &fromStrings))
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id": "f1", "fullName": "Ada",
		"achievements": ["Founded X", "Raised Y"],
		"socialLinks": {"linkedIn": "https://linkedin.com/in/ada"}
	}`), &fromStructured))

	if diff := cmp.Diff(fromStructured, fromStrings); diff != "" {
		t.Errorf("decoded profiles differ (-structured +strings):\n%s", diff)
	}
	assert.Equal(t, Strings{"Founded X", "Raised Y"}, fromStrings.Achievements)
}

func TestStrings_SingleValue(t *testing.T) {
	var s Strings
	require.NoError(t, json.Unmarshal([]byte(`"Mentoring"`), &s))
	assert.Equal(t, Strings{"Mentoring"}, s)
}

func TestValidateRequiresID(t *testing.T) {
	records := []Record{Banner{}, Event{}, FounderProfile{}, VerifiedMember{}, MembershipEnquiry{}}
	for _, r := range records {
		assert.ErrorIs(t, r.Validate(), ErrMissingID)
	}
}

func TestDashboardValidate(t *testing.T) {
	var d Dashboard
	require.NoError(t, json.Unmarshal([]byte(`{
		"totals": {"banners": 2, "events": 3, "founderProfiles": 1, "memberships": 4, "verifiedMemberships": 5},
		"summary": {"totalRecords": 15, "lastUpdated": "2025-06-01T10:00:00Z"}
	}`), &d))
	require.NoError(t, d.Validate())
	assert.Equal(t, 5, d.Totals.VerifiedMemberships)
	assert.Equal(t, 15, d.Summary.TotalRecords)

	assert.Error(t, Dashboard{}.Validate())
	assert.Error(t, Dashboard{Totals: &DashboardTotals{}}.Validate())
}

func TestMembershipEnquiry(t *testing.T) {
	var m MembershipEnquiry
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id": "m1",
		"personalInfo": {"firstName": "Sam", "lastName": "Lee", "email": "sam@x.com"},
		"businessInfo": {"companyName": "Acme", "companySize": "11-50"},
		"interests": {"programInterests": ["Mentorship"], "volunteeringInterested": true}
	}`), &m))
	assert.Equal(t, "Sam Lee", m.PersonalInfo.FullName())
	assert.Equal(t, "Acme", m.BusinessInfo.CompanyName)
	assert.True(t, bool(m.Interests.VolunteeringInterested))
	assert.Equal(t, "m1", m.Key())
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := Timestamp{Time: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
	data, err := json.Marshal(ts)
	require.NoError(t, err)

	var back Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, ts.Equal(back.Time))

	data, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(data))
}
