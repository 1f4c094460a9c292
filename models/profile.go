package models

import "strings"

// Gender values stored on a profile.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// Gender preference values. PreferenceBoth applies no gender filter.
const (
	PreferenceMen   = "M"
	PreferenceWomen = "W"
	PreferenceBoth  = "B"
)

// Location modes for candidate discovery.
const (
	LocationModeLocal  = "local"
	LocationModeGlobal = "global"
)

// Profile defines the structure for user profiles. The core treats it as
// read-only; writes belong to the profile CRUD surface outside this service.
type Profile struct {
	ProfileID         string   `dynamodbav:"profileId" json:"profileId"`
	DisplayName       string   `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	Gender            string   `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	GenderPreference  string   `dynamodbav:"genderPreference,omitempty" json:"genderPreference,omitempty"`
	Keywords          []string `dynamodbav:"keywords,omitempty" json:"keywords,omitempty"`
	RelationshipTypes []string `dynamodbav:"relationshipTypes,omitempty" json:"relationshipTypes,omitempty"`
	Latitude          *float64 `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude         *float64 `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	LocationMode      string   `dynamodbav:"locationMode,omitempty" json:"locationMode,omitempty"`
	IsHidden          bool     `dynamodbav:"isHidden" json:"isHidden"`
	PushToken         string   `dynamodbav:"pushToken,omitempty" json:"-"`
	PremiumExpiry     string   `dynamodbav:"premiumExpiry,omitempty" json:"-"` // RFC3339
}

// ProfilesTable is the DynamoDB table name for user profiles
const ProfilesTable = "Profiles"

// HasCoordinates reports whether the profile carries a usable location.
func (p *Profile) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// NormalizeKeywordSet trims, case-folds and de-duplicates a keyword list so
// the ranker never has to coerce loosely-typed input. Order of first
// occurrence is preserved.
func NormalizeKeywordSet(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, kw := range raw {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
