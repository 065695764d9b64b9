package registration

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Profile is the accreditation category requested by a registrant. The
// category drives badge template selection and the access zones printed
// on the issued badge.
type Profile byte

const (
	ProfileAllAccess Profile = iota
	ProfileTechnicalCrew
	ProfilePress
	ProfileStaff
	ProfileVIP
)

func (p Profile) String() string {
	switch p {
	case ProfileAllAccess:
		return "all_access"
	case ProfileTechnicalCrew:
		return "technical_crew"
	case ProfilePress:
		return "press"
	case ProfileStaff:
		return "staff"
	case ProfileVIP:
		return "vip"
	default:
		return "unknown"
	}
}

// Label returns the human-readable category name used on letters and badges.
func (p Profile) Label() string {
	switch p {
	case ProfileAllAccess:
		return "All Access"
	case ProfileTechnicalCrew:
		return "Technical Crew"
	case ProfilePress:
		return "Press"
	case ProfileStaff:
		return "Staff"
	case ProfileVIP:
		return "VIP"
	default:
		return "General Attendee"
	}
}

// Valid reports whether the profile is one of the enumerated categories.
func (p Profile) Valid() bool {
	return p <= ProfileVIP
}

// MarshalJSON implements the json.Marshaler interface
func (p Profile) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (p *Profile) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	profile, valid := ProfileFromString(str)
	if !valid {
		return fmt.Errorf("invalid profile: %s", str)
	}
	*p = profile
	return nil
}

// ProfileFromString converts a string to a Profile. It accepts both the
// wire form ("technical_crew") and the display form ("Technical Crew"),
// case-insensitively, since public submissions arrive in either shape.
func ProfileFromString(s string) (Profile, bool) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "all_access":
		return ProfileAllAccess, true
	case "technical_crew":
		return ProfileTechnicalCrew, true
	case "press", "presse":
		return ProfilePress, true
	case "staff":
		return ProfileStaff, true
	case "vip":
		return ProfileVIP, true
	default:
		return ProfileAllAccess, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (p *Profile) Scan(value interface{}) error {
	if value == nil {
		*p = ProfileAllAccess
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Profile", value)
	}

	profile, valid := ProfileFromString(str)
	if !valid {
		return fmt.Errorf("invalid profile value: %s", str)
	}
	*p = profile
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (p Profile) Value() (driver.Value, error) {
	return p.String(), nil
}

// AccessZones lists the festival zones the profile grants access to.
// Stored on the issued badge alongside its access level.
func (p Profile) AccessZones() []string {
	switch p {
	case ProfileAllAccess:
		return []string{"public", "backstage", "production", "press_room", "vip_lounge"}
	case ProfileTechnicalCrew:
		return []string{"public", "backstage", "production"}
	case ProfilePress:
		return []string{"public", "press_room"}
	case ProfileStaff:
		return []string{"public", "production"}
	case ProfileVIP:
		return []string{"public", "vip_lounge"}
	default:
		return []string{"public"}
	}
}
