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

// BrandRepo provides typed DynamoDB operations for the car_brands table.
// The table is keyed by brand name, so uniqueness is enforced by the store.
type BrandRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBrandRepo(client *dynamodb.Client, tableName string) *BrandRepo {
	return &BrandRepo{client: client, tableName: tableName}
}

func (r *BrandRepo) GetByName(ctx context.Context, name string) (*domain.Brand, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("name", name),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("brand not found: %w", domain.ErrNotFound)
	}
	var b domain.Brand
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts the brand only if no row with the same name exists.
// Returns domain.ErrConflict when a concurrent writer won the race; callers
// should re-read and adopt the existing row.
func (r *BrandRepo) Create(ctx context.Context, b *domain.Brand) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal brand: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#n)"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("brand %q already exists: %w", b.Name, domain.ErrConflict)
	}
	return err
}

func (r *BrandRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("slug-index"),
		KeyConditionExpression:    aws.String("slug = :s"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":s": &types.AttributeValueMemberS{Value: slug}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(out.Items) > 0, nil
}

func (r *BrandRepo) Scan(ctx context.Context) ([]domain.Brand, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          aws.String("is_active = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":t": &types.AttributeValueMemberBOOL{Value: true}},
	})
	if err != nil {
		return nil, err
	}
	var brands []domain.Brand
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}
