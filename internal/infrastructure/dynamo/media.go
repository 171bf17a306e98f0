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

// MediaRepo provides typed DynamoDB operations for the car_media table.
type MediaRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMediaRepo(client *dynamodb.Client, tableName string) *MediaRepo {
	return &MediaRepo{client: client, tableName: tableName}
}

func (r *MediaRepo) Put(ctx context.Context, m *domain.CarMedia) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal media: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *MediaRepo) Get(ctx context.Context, mediaID string) (*domain.CarMedia, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("media_id", mediaID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("media not found: %w", domain.ErrNotFound)
	}
	var m domain.CarMedia
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MediaRepo) ListByCar(ctx context.Context, carID string) ([]domain.CarMedia, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("car_id-index"),
		KeyConditionExpression: aws.String("car_id = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: carID},
		},
	})
	if err != nil {
		return nil, err
	}
	var media []domain.CarMedia
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &media); err != nil {
		return nil, err
	}
	return media, nil
}

// Update applies a partial SET update and stamps updated_at.
func (r *MediaRepo) Update(ctx context.Context, mediaID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("media_id", mediaID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *MediaRepo) Delete(ctx context.Context, mediaID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("media_id", mediaID),
	})
	return err
}
