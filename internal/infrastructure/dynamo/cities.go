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

// CityRepo provides typed DynamoDB operations for the cities table.
// Keyed by name + state.
type CityRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCityRepo(client *dynamodb.Client, tableName string) *CityRepo {
	return &CityRepo{client: client, tableName: tableName}
}

func (r *CityRepo) GetByName(ctx context.Context, name, state string) (*domain.City, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("name", name, "state", state),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("city not found: %w", domain.ErrNotFound)
	}
	var c domain.City
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CityRepo) Create(ctx context.Context, c *domain.City) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal city: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#n)"),
		ExpressionAttributeNames: map[string]string{"#n": "name"},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("city %q already exists: %w", c.Name, domain.ErrConflict)
	}
	return err
}

func (r *CityRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
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

func (r *CityRepo) Scan(ctx context.Context) ([]domain.City, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          aws.String("is_active = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":t": &types.AttributeValueMemberBOOL{Value: true}},
	})
	if err != nil {
		return nil, err
	}
	var cities []domain.City
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// AddCarCount adjusts the cached count of live listings for a city.
func (r *CityRepo) AddCarCount(ctx context.Context, name, state string, delta int) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       compositeKey("name", name, "state", state),
		UpdateExpression:          aws.String("ADD car_count :d"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":d": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", delta)}},
	})
	return err
}
