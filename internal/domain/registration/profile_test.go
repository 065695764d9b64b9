package registration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFromStringAcceptsBothForms(t *testing.T) {
	cases := map[string]Profile{
		"all_access":     ProfileAllAccess,
		"All Access":     ProfileAllAccess,
		"technical_crew": ProfileTechnicalCrew,
		"Technical Crew": ProfileTechnicalCrew,
		"press":          ProfilePress,
		"PRESS":          ProfilePress,
		"presse":         ProfilePress,
		"staff":          ProfileStaff,
		"vip":            ProfileVIP,
		"  VIP  ":        ProfileVIP,
	}

	for input, want := range cases {
		got, ok := ProfileFromString(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}

	_, ok := ProfileFromString("journalist")
	assert.False(t, ok)
}

func TestProfileLabels(t *testing.T) {
	assert.Equal(t, "all_access", ProfileAllAccess.String())
	assert.Equal(t, "All Access", ProfileAllAccess.Label())
	assert.Equal(t, "Press", ProfilePress.Label())
}

func TestProfileJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(ProfileTechnicalCrew)
	require.NoError(t, err)
	assert.Equal(t, `"technical_crew"`, string(data))

	var profile Profile
	require.NoError(t, json.Unmarshal([]byte(`"vip"`), &profile))
	assert.Equal(t, ProfileVIP, profile)
}

func TestProfileAccessZones(t *testing.T) {
	assert.Contains(t, ProfileAllAccess.AccessZones(), "backstage")
	assert.Contains(t, ProfilePress.AccessZones(), "press_room")
	assert.NotContains(t, ProfileStaff.AccessZones(), "vip_lounge")

	// every profile grants the public zone
	for _, p := range []Profile{ProfileAllAccess, ProfileTechnicalCrew, ProfilePress, ProfileStaff, ProfileVIP} {
		assert.Contains(t, p.AccessZones(), "public")
	}
}

func TestProfileSQLScan(t *testing.T) {
	var profile Profile
	require.NoError(t, profile.Scan("press"))
	assert.Equal(t, ProfilePress, profile)

	require.NoError(t, profile.Scan([]byte("staff")))
	assert.Equal(t, ProfileStaff, profile)

	assert.Error(t, profile.Scan("journalist"))
}
