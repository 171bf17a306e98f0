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

// CarVariantRepo provides typed DynamoDB operations for the car_variants
// table. Keyed by model_id + name.
type CarVariantRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCarVariantRepo(client *dynamodb.Client, tableName string) *CarVariantRepo {
	return &CarVariantRepo{client: client, tableName: tableName}
}

func (r *CarVariantRepo) GetByName(ctx context.Context, modelID, name string) (*domain.CarVariant, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("model_id", modelID, "name", name),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("car variant not found: %w", domain.ErrNotFound)
	}
	var v domain.CarVariant
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *CarVariantRepo) Create(ctx context.Context, v *domain.CarVariant) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal car variant: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#n)"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("car variant %q already exists: %w", v.Name, domain.ErrConflict)
	}
	return err
}
