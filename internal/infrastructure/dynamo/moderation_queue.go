package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/carmarket-api/internal/domain"
)

// ModerationQueueRepo provides typed DynamoDB operations for the
// moderation_queue table.
type ModerationQueueRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewModerationQueueRepo(client *dynamodb.Client, tableName string) *ModerationQueueRepo {
	return &ModerationQueueRepo{client: client, tableName: tableName}
}

func (r *ModerationQueueRepo) Put(ctx context.Context, item *domain.ModerationQueueItem) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal queue item: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	return err
}

func (r *ModerationQueueRepo) Get(ctx context.Context, itemID string) (*domain.ModerationQueueItem, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("item_id", itemID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("queue item not found: %w", domain.ErrNotFound)
	}
	var item domain.ModerationQueueItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// QueryByStatus pages queue items in a given status, oldest first so the
// review backlog is worked FIFO.
func (r *ModerationQueueRepo) QueryByStatus(ctx context.Context, status string, limit int, cursor string) ([]domain.ModerationQueueItem, string, error) {
	startKey, err := decodeLastKey(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", domain.ErrBadRequest)
	}
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("status-created_at-index"),
		KeyConditionExpression: aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: status},
		},
		ScanIndexForward:  aws.Bool(true),
		Limit:             aws.Int32(int32(limit)),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return nil, "", err
	}
	var items []domain.ModerationQueueItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, "", err
	}
	next, err := encodeLastKey(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", err
	}
	return items, next, nil
}

// Complete marks the queue item done and stamps completion time.
func (r *ModerationQueueRepo) Complete(ctx context.Context, itemID, adminID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("item_id", itemID),
		UpdateExpression: aws.String("SET #s = :s, assigned_to = :a, completed_at = :t"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: domain.ModerationStatusCompleted},
			":a": &types.AttributeValueMemberS{Value: adminID},
			":t": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	return err
}

// CompleteByTarget closes any open queue entries pointing at the target.
// Used when a review decision lands before the queue item was picked up.
func (r *ModerationQueueRepo) CompleteByTarget(ctx context.Context, kind domain.ModerationItemKind, targetID, adminID string) error {
	for _, status := range []string{domain.ModerationStatusPending, domain.ModerationStatusInReview} {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String("status-created_at-index"),
			KeyConditionExpression: aws.String("#s = :s"),
			FilterExpression:       aws.String("kind = :k AND target_id = :t"),
			ExpressionAttributeNames: map[string]string{
				"#s": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":s": &types.AttributeValueMemberS{Value: status},
				":k": &types.AttributeValueMemberS{Value: string(kind)},
				":t": &types.AttributeValueMemberS{Value: targetID},
			},
		})
		if err != nil {
			return err
		}
		var items []domain.ModerationQueueItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return err
		}
		for _, item := range items {
			if err := r.Complete(ctx, item.ItemID, adminID); err != nil {
				return err
			}
		}
	}
	return nil
}

// CountByStatus returns the number of queue items in a status. Select COUNT
// keeps the payload small for dashboard cards.
func (r *ModerationQueueRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("status-created_at-index"),
		KeyConditionExpression: aws.String("#s = :s"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: status},
		},
		Select: types.SelectCount,
	})
	if err != nil {
		return 0, err
	}
	return int(out.Count), nil
}
