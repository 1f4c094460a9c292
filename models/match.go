package models

// Match statuses. StatusNone is the explicit "no row yet" variant so the
// ledger's transition table is total; it is never persisted.
const (
	StatusNone      = "none"
	StatusPending   = "pending"
	StatusLiked     = "liked"
	StatusDisliked  = "disliked"
	StatusMatched   = "matched"
	StatusUnmatched = "unmatched"
)

// Match is the single row per unordered profile pair. ProfileA is always the
// lesser id so a lookup is one equality query instead of an OR of both
// orderings.
type Match struct {
	PairKey     string  `dynamodbav:"pairKey" json:"-"` // Partition key
	MatchID     string  `dynamodbav:"matchId" json:"matchId"`
	ProfileA    string  `dynamodbav:"profileA" json:"profileA"`
	ProfileB    string  `dynamodbav:"profileB" json:"profileB"`
	Status      string  `dynamodbav:"status" json:"status"`
	ALiked      bool    `dynamodbav:"aLiked" json:"aLiked"`
	BLiked      bool    `dynamodbav:"bLiked" json:"bLiked"`
	ADisliked   bool    `dynamodbav:"aDisliked" json:"-"`
	BDisliked   bool    `dynamodbav:"bDisliked" json:"-"`
	MatchedAt   *string `dynamodbav:"matchedAt,omitempty" json:"matchedAt,omitempty"` // RFC3339
	Version     int64   `dynamodbav:"version" json:"-"`
	CreatedAt   string  `dynamodbav:"createdAt" json:"createdAt"`
	LastUpdated string  `dynamodbav:"lastUpdated" json:"lastUpdated"`
}

// MatchesTable is the DynamoDB table name for match rows
const MatchesTable = "Matches"

// GSI names used when a match must be found by id or by either party.
const (
	MatchIDIndex  = "matchId-index"
	ProfileAIndex = "profileA-index"
	ProfileBIndex = "profileB-index"
)

// CanonicalPair orders two profile ids so that the first return value is
// always the lesser one.
func CanonicalPair(x, y string) (string, string) {
	if x < y {
		return x, y
	}
	return y, x
}

// PairKeyFor builds the partition key for the canonical pair of x and y.
func PairKeyFor(x, y string) string {
	a, b := CanonicalPair(x, y)
	return "PAIR#" + a + "|" + b
}

// FlagFor returns the liked flag belonging to profileID on this row.
func (m *Match) FlagFor(profileID string) bool {
	if profileID == m.ProfileA {
		return m.ALiked
	}
	return m.BLiked
}

// SetFlag sets the liked flag belonging to profileID.
func (m *Match) SetFlag(profileID string, liked bool) {
	if profileID == m.ProfileA {
		m.ALiked = liked
		return
	}
	m.BLiked = liked
}

// DislikedBy reports whether profileID has explicitly disliked the other
// side. Kept per side so the candidate exclusion stays asymmetric: a dislike
// hides the target from the actor only, never the actor from the target.
func (m *Match) DislikedBy(profileID string) bool {
	if profileID == m.ProfileA {
		return m.ADisliked
	}
	return m.BDisliked
}

// SetDislike records or clears profileID's explicit dislike marker.
func (m *Match) SetDislike(profileID string, disliked bool) {
	if profileID == m.ProfileA {
		m.ADisliked = disliked
		return
	}
	m.BDisliked = disliked
}

// IsParty reports whether profileID is one of the two sides of the row.
func (m *Match) IsParty(profileID string) bool {
	return profileID == m.ProfileA || profileID == m.ProfileB
}

// OtherParty returns the opposite side of the pair relative to profileID.
func (m *Match) OtherParty(profileID string) string {
	if profileID == m.ProfileA {
		return m.ProfileB
	}
	return m.ProfileA
}
