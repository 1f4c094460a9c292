package services

import (
	"context"
	"errors"
	"fmt"

	"emberly_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoQuotaStore persists per-user like quota rows.
type DynamoQuotaStore struct {
	Dynamo *DynamoService
}

// Get returns the quota row for profileID, or nil when the user has never
// consumed a like.
func (qs *DynamoQuotaStore) Get(ctx context.Context, profileID string) (*models.LikeQuota, error) {
	key := map[string]types.AttributeValue{
		"profileId": &types.AttributeValueMemberS{Value: profileID},
	}
	item, err := qs.Dynamo.GetItem(ctx, models.LikeQuotasTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch quota row: %w", err)
	}

	var quota models.LikeQuota
	if err := attributevalue.UnmarshalMap(item, &quota); err != nil {
		return nil, fmt.Errorf("unmarshal quota row: %w", err)
	}
	return &quota, nil
}

// Put writes the quota row with an optimistic guard: expectedVersion 0
// demands a fresh row, anything else must match the stored version. A lost
// race surfaces as ErrVersionMismatch.
func (qs *DynamoQuotaStore) Put(ctx context.Context, quota *models.LikeQuota, expectedVersion int64) error {
	var err error
	if expectedVersion == 0 {
		err = qs.Dynamo.PutItemWithCondition(ctx, models.LikeQuotasTable, quota,
			"attribute_not_exists(profileId)", nil)
	} else {
		err = qs.Dynamo.PutItemWithCondition(ctx, models.LikeQuotasTable, quota,
			"version = :expected",
			map[string]types.AttributeValue{
				":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
			})
	}
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return ErrVersionMismatch
		}
		return fmt.Errorf("write quota row: %w", err)
	}
	return nil
}
