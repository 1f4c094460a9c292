package models

// MatchParty identifies one side of a freshly formed match for delivery
// purposes.
type MatchParty struct {
	ProfileID   string `json:"profileId"`
	DisplayName string `json:"displayName"`
	PushToken   string `json:"pushToken,omitempty"`
}

// MatchNotificationEvent is emitted exactly once per transition into
// "matched". The core's obligation ends at producing it; delivery and
// delivery-level de-duplication belong to the notifier boundary.
type MatchNotificationEvent struct {
	MatchID   string        `json:"matchId"`
	MatchedAt string        `json:"matchedAt"` // RFC3339
	Parties   [2]MatchParty `json:"parties"`
	// InitiatorID is the party whose like completed the match; the realtime
	// payload uses it to tell "you matched" apart from "they matched you".
	InitiatorID string `json:"initiatorId"`
}
