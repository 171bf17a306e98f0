package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/carmarket-api/internal/domain"
)

// CarModelRepo provides typed DynamoDB operations for the car_models table.
// Keyed by brand_id + name, matching the brand-scoped uniqueness rule.
type CarModelRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCarModelRepo(client *dynamodb.Client, tableName string) *CarModelRepo {
	return &CarModelRepo{client: client, tableName: tableName}
}

func (r *CarModelRepo) GetByName(ctx context.Context, brandID, name string) (*domain.CarModel, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("brand_id", brandID, "name", name),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("car model not found: %w", domain.ErrNotFound)
	}
	var m domain.CarModel
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *CarModelRepo) Create(ctx context.Context, m *domain.CarModel) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal car model: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#n)"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("car model %q already exists: %w", m.Name, domain.ErrConflict)
	}
	return err
}

func (r *CarModelRepo) ListByBrand(ctx context.Context, brandID string) ([]domain.CarModel, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("brand_id = :b"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":b": &types.AttributeValueMemberS{Value: brandID}},
	})
	if err != nil {
		return nil, err
	}
	var models []domain.CarModel
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &models); err != nil {
		return nil, err
	}
	return models, nil
}
