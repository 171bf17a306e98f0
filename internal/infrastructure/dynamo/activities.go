package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/carmarket-api/internal/domain"
)

// ActivityRepo provides typed DynamoDB operations for the admin_activities
// audit table. Entries are append-only.
type ActivityRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewActivityRepo(client *dynamodb.Client, tableName string) *ActivityRepo {
	return &ActivityRepo{client: client, tableName: tableName}
}

func (r *ActivityRepo) Put(ctx context.Context, a *domain.AdminActivity) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ActivityRepo) QueryByAdmin(ctx context.Context, adminID string, limit int, cursor string) ([]domain.AdminActivity, string, error) {
	startKey, err := decodeLastKey(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", domain.ErrBadRequest)
	}
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("admin_id-created_at-index"),
		KeyConditionExpression: aws.String("admin_id = :a"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":a": &types.AttributeValueMemberS{Value: adminID},
		},
		ScanIndexForward:  aws.Bool(false),
		Limit:             aws.Int32(int32(limit)),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return nil, "", err
	}
	var activities []domain.AdminActivity
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &activities); err != nil {
		return nil, "", err
	}
	next, err := encodeLastKey(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", err
	}
	return activities, next, nil
}
