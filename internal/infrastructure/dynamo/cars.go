package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/carmarket-api/internal/domain"
)

// MediaAssociation links an uploaded media row to a listing during creation.
// Object keys stay in the temp area here; the relocation pass moves them.
type MediaAssociation struct {
	MediaID   string
	Order     int
	IsPrimary bool
}

// CarRepo provides typed DynamoDB operations for the cars table. It also
// holds the media table name so listing creation can associate uploads in
// the same transaction.
type CarRepo struct {
	client         *dynamodb.Client
	tableName      string
	mediaTableName string
}

func NewCarRepo(client *dynamodb.Client, tableName, mediaTableName string) *CarRepo {
	return &CarRepo{client: client, tableName: tableName, mediaTableName: mediaTableName}
}

func (r *CarRepo) Put(ctx context.Context, c *domain.Car) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal car: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// CreateWithMedia writes the listing and claims its uploaded media rows in a
// single transaction, so a crash cannot leave a listing without its images.
func (r *CarRepo) CreateWithMedia(ctx context.Context, c *domain.Car, assocs []MediaAssociation) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal car: %w", err)
	}
	writes := []types.TransactWriteItem{
		{Put: &types.Put{TableName: aws.String(r.tableName), Item: item}},
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, a := range assocs {
		writes = append(writes, types.TransactWriteItem{
			Update: &types.Update{
				TableName:        aws.String(r.mediaTableName),
				Key:              strKey("media_id", a.MediaID),
				UpdateExpression: aws.String("SET car_id = :c, display_order = :o, is_primary = :p, updated_at = :now"),
				// Claiming an already-claimed upload aborts the whole transaction.
				ConditionExpression: aws.String("attribute_exists(media_id) AND (attribute_not_exists(car_id) OR car_id = :empty)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":c":     &types.AttributeValueMemberS{Value: c.CarID},
					":o":     &types.AttributeValueMemberN{Value: strconv.Itoa(a.Order)},
					":p":     &types.AttributeValueMemberBOOL{Value: a.IsPrimary},
					":now":   &types.AttributeValueMemberS{Value: now},
					":empty": &types.AttributeValueMemberS{Value: ""},
				},
			},
		})
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	})
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		return fmt.Errorf("media already attached to another listing: %w", domain.ErrConflict)
	}
	return err
}

func (r *CarRepo) Get(ctx context.Context, carID string) (*domain.Car, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("car_id", carID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("car not found: %w", domain.ErrNotFound)
	}
	var c domain.Car
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update applies a partial SET update and stamps updated_at.
func (r *CarRepo) Update(ctx context.Context, carID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC()
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("car_id", carID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}

func (r *CarRepo) SoftDelete(ctx context.Context, carID string) error {
	return r.Update(ctx, carID, map[string]interface{}{
		"status": domain.CarStatusInactive,
	})
}

// AddToCounter atomically bumps one of the listing counters
// (views_count, inquiries_count, favorites_count).
func (r *CarRepo) AddToCounter(ctx context.Context, carID, field string, delta int) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey("car_id", carID),
		UpdateExpression:         aws.String("ADD #f :d"),
		ExpressionAttributeNames: map[string]string{"#f": field},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": &types.AttributeValueMemberN{Value: strconv.Itoa(delta)},
		},
	})
	return err
}

// QueryByStatus pages listings in a given status, newest first, with
// optional attribute filters applied server-side.
func (r *CarRepo) QueryByStatus(ctx context.Context, status string, filter domain.CarFilter, limit int, cursor string) ([]domain.Car, string, error) {
	startKey, err := decodeLastKey(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", domain.ErrBadRequest)
	}

	names := map[string]string{"#s": "status"}
	values := map[string]types.AttributeValue{
		":s": &types.AttributeValueMemberS{Value: status},
	}
	var filters []string
	addEq := func(attr, val string) {
		if val == "" {
			return
		}
		alias := "#" + strings.ReplaceAll(attr, "_", "")
		names[alias] = attr
		values[":"+attr] = &types.AttributeValueMemberS{Value: val}
		filters = append(filters, fmt.Sprintf("%s = :%s", alias, attr))
	}
	addEq("brand_name", filter.Brand)
	addEq("city_name", filter.City)
	addEq("fuel_type", filter.FuelType)
	addEq("transmission", filter.Transmission)
	if filter.MinPrice > 0 {
		values[":minp"] = &types.AttributeValueMemberN{Value: strconv.Itoa(filter.MinPrice)}
		filters = append(filters, "price >= :minp")
	}
	if filter.MaxPrice > 0 {
		values[":maxp"] = &types.AttributeValueMemberN{Value: strconv.Itoa(filter.MaxPrice)}
		filters = append(filters, "price <= :maxp")
	}
	if filter.MinYear > 0 {
		values[":miny"] = &types.AttributeValueMemberN{Value: strconv.Itoa(filter.MinYear)}
		filters = append(filters, "#y >= :miny")
		names["#y"] = "year"
	}
	if filter.MaxYear > 0 {
		values[":maxy"] = &types.AttributeValueMemberN{Value: strconv.Itoa(filter.MaxYear)}
		filters = append(filters, "#y <= :maxy")
		names["#y"] = "year"
	}
	if filter.Search != "" {
		names["#t"] = "title"
		values[":q"] = &types.AttributeValueMemberS{Value: filter.Search}
		filters = append(filters, "contains(#t, :q)")
	}

	in := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("status-created_at-index"),
		KeyConditionExpression:    aws.String("#s = :s"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(int32(limit)),
		ExclusiveStartKey:         startKey,
	}
	if len(filters) > 0 {
		in.FilterExpression = aws.String(strings.Join(filters, " AND "))
	}

	out, err := r.client.Query(ctx, in)
	if err != nil {
		return nil, "", err
	}
	var cars []domain.Car
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &cars); err != nil {
		return nil, "", err
	}
	next, err := encodeLastKey(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", err
	}
	return cars, next, nil
}

// QueryBySeller pages a seller's own listings, newest first, across all
// statuses.
func (r *CarRepo) QueryBySeller(ctx context.Context, sellerID string, limit int, cursor string) ([]domain.Car, string, error) {
	startKey, err := decodeLastKey(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", domain.ErrBadRequest)
	}
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("seller_id-created_at-index"),
		KeyConditionExpression: aws.String("seller_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: sellerID},
		},
		ScanIndexForward:  aws.Bool(false),
		Limit:             aws.Int32(int32(limit)),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return nil, "", err
	}
	var cars []domain.Car
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &cars); err != nil {
		return nil, "", err
	}
	next, err := encodeLastKey(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", err
	}
	return cars, next, nil
}
