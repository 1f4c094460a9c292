package services

import (
	"context"
	"errors"
	"fmt"

	"emberly_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Store-level race signals. The ledger re-reads and retries once on either.
var (
	ErrPairExists      = errors.New("pair row already exists")
	ErrVersionMismatch = errors.New("row version mismatch")
)

// DynamoMatchStore persists Match rows keyed by the canonical pair.
type DynamoMatchStore struct {
	Dynamo *DynamoService
}

// GetByPair returns the row for the unordered pair (x, y), or nil when the
// pair has never interacted.
func (ms *DynamoMatchStore) GetByPair(ctx context.Context, x, y string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: models.PairKeyFor(x, y)},
	}
	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch match row: %w", err)
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("unmarshal match row: %w", err)
	}
	return &match, nil
}

// GetByID looks a match up through the matchId GSI, or nil when absent.
func (ms *DynamoMatchStore) GetByID(ctx context.Context, matchID string) (*models.Match, error) {
	items, err := ms.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, models.MatchIDIndex,
		"matchId = :matchId",
		map[string]types.AttributeValue{
			":matchId": &types.AttributeValueMemberS{Value: matchID},
		}, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("query match by id: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(items[0], &match); err != nil {
		return nil, fmt.Errorf("unmarshal match row: %w", err)
	}
	return &match, nil
}

// Create inserts a fresh pair row. The attribute_not_exists guard is what
// keeps two simultaneous first likes from both sides down to a single row.
func (ms *DynamoMatchStore) Create(ctx context.Context, match *models.Match) error {
	err := ms.Dynamo.PutItemWithCondition(ctx, models.MatchesTable, match,
		"attribute_not_exists(pairKey)", nil)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return ErrPairExists
		}
		return fmt.Errorf("create match row: %w", err)
	}
	return nil
}

// Update replaces the row only if nobody else bumped the version since the
// caller's read.
func (ms *DynamoMatchStore) Update(ctx context.Context, match *models.Match, expectedVersion int64) error {
	err := ms.Dynamo.PutItemWithCondition(ctx, models.MatchesTable, match,
		"version = :expected",
		map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
		})
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return ErrVersionMismatch
		}
		return fmt.Errorf("update match row: %w", err)
	}
	return nil
}

// ListByProfile returns every pair row the profile is a side of, querying
// both party GSIs since the profile may sit on either side of the canonical
// ordering.
func (ms *DynamoMatchStore) ListByProfile(ctx context.Context, profileID string) ([]models.Match, error) {
	var rows []models.Match
	for _, index := range []struct {
		name string
		attr string
	}{
		{models.ProfileAIndex, "profileA"},
		{models.ProfileBIndex, "profileB"},
	} {
		items, err := ms.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, index.name,
			fmt.Sprintf("%s = :profileId", index.attr),
			map[string]types.AttributeValue{
				":profileId": &types.AttributeValueMemberS{Value: profileID},
			}, nil, 500)
		if err != nil {
			return nil, fmt.Errorf("query matches via %s: %w", index.name, err)
		}

		var batch []models.Match
		if err := attributevalue.UnmarshalListOfMaps(items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal match rows: %w", err)
		}
		rows = append(rows, batch...)
	}
	return rows, nil
}
