package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"emberly_server/models"
)

// QuotaStore is the persistence seam for like quota rows.
type QuotaStore interface {
	Get(ctx context.Context, profileID string) (*models.LikeQuota, error)
	Put(ctx context.Context, quota *models.LikeQuota, expectedVersion int64) error
}

// QuotaDecision is what the caller needs to gate a like and render a
// precise quota message. Remaining is models.UnlimitedLikes for premium
// users; it is a sentinel, never a ceiling to compare against.
type QuotaDecision struct {
	Allowed   bool
	Remaining int
	Limit     int
	IsPremium bool
}

// QuotaService enforces the daily like quota: free tier gets
// models.FreeDailyLikeLimit likes per server-local calendar day, premium is
// unlimited. The counter resets lazily on the first access of a new day.
type QuotaService struct {
	Quotas   QuotaStore
	Profiles ProfileReader
	now      func() time.Time
}

func NewQuotaService(quotas QuotaStore, profiles ProfileReader) *QuotaService {
	return &QuotaService{
		Quotas:   quotas,
		Profiles: profiles,
		now:      time.Now,
	}
}

// Check reports whether the user may like right now, without consuming
// anything. Consume must only be called after the like transition itself
// succeeded, so a failed match lookup never burns a like.
func (qsvc *QuotaService) Check(ctx context.Context, profileID string) (QuotaDecision, error) {
	profile, err := qsvc.Profiles.GetProfile(ctx, profileID)
	if err != nil {
		return QuotaDecision{}, err
	}

	if IsPremiumActive(profile, qsvc.now()) {
		return QuotaDecision{
			Allowed:   true,
			Remaining: models.UnlimitedLikes,
			Limit:     models.FreeDailyLikeLimit,
			IsPremium: true,
		}, nil
	}

	used, _, _, err := qsvc.effectiveUsage(ctx, profileID)
	if err != nil {
		return QuotaDecision{}, err
	}

	remaining := models.FreeDailyLikeLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaDecision{
		Allowed:   remaining > 0,
		Remaining: remaining,
		Limit:     models.FreeDailyLikeLimit,
	}, nil
}

// Consume burns one like for a free-tier user and returns the remaining
// count for the day. Premium users are a no-op returning the unlimited
// sentinel. A concurrent consumer is retried once via the version check; a
// race that exhausts the quota in between surfaces as QuotaExceededError.
func (qsvc *QuotaService) Consume(ctx context.Context, profileID string) (int, error) {
	profile, err := qsvc.Profiles.GetProfile(ctx, profileID)
	if err != nil {
		return 0, err
	}
	if IsPremiumActive(profile, qsvc.now()) {
		return models.UnlimitedLikes, nil
	}

	for attempt := 0; attempt < writeAttempts; attempt++ {
		used, version, today, err := qsvc.effectiveUsage(ctx, profileID)
		if err != nil {
			return 0, err
		}

		if used >= models.FreeDailyLikeLimit {
			return 0, &QuotaExceededError{
				Remaining: 0,
				Limit:     models.FreeDailyLikeLimit,
			}
		}

		quota := &models.LikeQuota{
			ProfileID:      profileID,
			DailyLikesUsed: used + 1,
			LastResetDate:  today,
			Version:        version + 1,
		}
		if err := qsvc.Quotas.Put(ctx, quota, version); err != nil {
			if errors.Is(err, ErrVersionMismatch) {
				continue
			}
			return 0, fmt.Errorf("persist quota: %v: %w", err, ErrDependency)
		}
		return models.FreeDailyLikeLimit - quota.DailyLikesUsed, nil
	}

	return 0, fmt.Errorf("consume like for '%s': %w", profileID, ErrConflict)
}

// effectiveUsage reads the quota row and applies the lazy calendar-day
// reset: a row from any earlier local date counts as zero used, no matter
// how many days elapsed.
func (qsvc *QuotaService) effectiveUsage(ctx context.Context, profileID string) (used int, version int64, today string, err error) {
	today = qsvc.now().Format("2006-01-02")

	quota, err := qsvc.Quotas.Get(ctx, profileID)
	if err != nil {
		return 0, 0, "", fmt.Errorf("read quota: %v: %w", err, ErrDependency)
	}
	if quota == nil {
		return 0, 0, today, nil
	}
	if quota.LastResetDate != today {
		return 0, quota.Version, today, nil
	}
	return quota.DailyLikesUsed, quota.Version, today, nil
}
