package models

// FreeDailyLikeLimit is the number of likes a free-tier user gets per
// calendar day.
const FreeDailyLikeLimit = 10

// UnlimitedLikes is the sentinel returned as "remaining" for premium users.
// Downstream code must never compare it against a numeric ceiling.
const UnlimitedLikes = -1

// LikeQuota tracks a user's daily like consumption. The counter resets
// lazily on the first access of a new calendar day, not via a background
// job.
type LikeQuota struct {
	ProfileID      string `dynamodbav:"profileId" json:"profileId"` // Partition key
	DailyLikesUsed int    `dynamodbav:"dailyLikesUsed" json:"dailyLikesUsed"`
	LastResetDate  string `dynamodbav:"lastResetDate" json:"lastResetDate"` // YYYY-MM-DD, server-local
	Version        int64  `dynamodbav:"version" json:"-"`
}

// LikeQuotasTable is the DynamoDB table name for like quotas
const LikeQuotasTable = "LikeQuotas"
