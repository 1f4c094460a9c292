package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"emberly_server/models"
	"emberly_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ProfileReader is the read-only boundary to profile data. Profile writes
// belong to the profile CRUD surface outside this service.
type ProfileReader interface {
	GetProfile(ctx context.Context, profileID string) (*models.Profile, error)
	ListVisibleCandidates(ctx context.Context, requesterID string) ([]models.Profile, error)
}

// ProfileService implements ProfileReader over DynamoDB.
type ProfileService struct {
	Dynamo *DynamoService
}

// GetProfile fetches one profile. Missing profiles surface as ErrNotFound;
// store failures as ErrDependency.
func (ps *ProfileService) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	if profileID == "" {
		return nil, fmt.Errorf("empty profile id: %w", ErrValidation)
	}

	key := map[string]types.AttributeValue{
		"profileId": &types.AttributeValueMemberS{Value: profileID},
	}
	item, err := ps.Dynamo.GetItem(ctx, models.ProfilesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("profile '%s': %w", profileID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch profile '%s': %v: %w", profileID, err, ErrDependency)
	}

	var profile models.Profile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile '%s': %v: %w", profileID, err, ErrDependency)
	}

	normalizeProfileSets(&profile)
	return &profile, nil
}

// ListVisibleCandidates returns every non-hidden profile except the
// requester's own. Interaction-history exclusion is the ranker's job, not
// the store's.
func (ps *ProfileService) ListVisibleCandidates(ctx context.Context, requesterID string) ([]models.Profile, error) {
	var profiles []models.Profile
	err := ps.Dynamo.ScanWithFilter(ctx, models.ProfilesTable,
		func(item map[string]types.AttributeValue) bool {
			if utils.ExtractBool(item, "isHidden") {
				return false
			}
			return utils.ExtractString(item, "profileId") != requesterID
		},
		"", nil, &profiles)
	if err != nil {
		return nil, fmt.Errorf("scan candidate profiles: %v: %w", err, ErrDependency)
	}

	for i := range profiles {
		normalizeProfileSets(&profiles[i])
	}
	return profiles, nil
}

// normalizeProfileSets cleans the loosely-typed set fields once, at the
// store boundary, so the ranker never coerces.
func normalizeProfileSets(p *models.Profile) {
	p.Keywords = models.NormalizeKeywordSet(p.Keywords)
	p.RelationshipTypes = models.NormalizeKeywordSet(p.RelationshipTypes)
}

// IsPremiumActive reports whether the profile's premium entitlement has not
// expired as of now. An unparsable expiry counts as inactive.
func IsPremiumActive(p *models.Profile, now time.Time) bool {
	if p == nil || p.PremiumExpiry == "" {
		return false
	}
	expiry, err := time.Parse(time.RFC3339, p.PremiumExpiry)
	if err != nil {
		return false
	}
	return expiry.After(now)
}
