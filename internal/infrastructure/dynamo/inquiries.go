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

// InquiryRepo provides typed DynamoDB operations for the inquiries table.
type InquiryRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewInquiryRepo(client *dynamodb.Client, tableName string) *InquiryRepo {
	return &InquiryRepo{client: client, tableName: tableName}
}

func (r *InquiryRepo) Put(ctx context.Context, inq *domain.Inquiry) error {
	item, err := attributevalue.MarshalMap(inq)
	if err != nil {
		return fmt.Errorf("marshal inquiry: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *InquiryRepo) Get(ctx context.Context, inquiryID string) (*domain.Inquiry, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("inquiry_id", inquiryID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("inquiry not found: %w", domain.ErrNotFound)
	}
	var inq domain.Inquiry
	if err := attributevalue.UnmarshalMap(out.Item, &inq); err != nil {
		return nil, err
	}
	return &inq, nil
}

func (r *InquiryRepo) QueryBySeller(ctx context.Context, sellerID string, limit int, cursor string) ([]domain.Inquiry, string, error) {
	return r.query(ctx, "seller_id-created_at-index", "seller_id", sellerID, limit, cursor)
}

func (r *InquiryRepo) QueryByCar(ctx context.Context, carID string, limit int, cursor string) ([]domain.Inquiry, string, error) {
	return r.query(ctx, "car_id-created_at-index", "car_id", carID, limit, cursor)
}

func (r *InquiryRepo) query(ctx context.Context, index, keyAttr, keyVal string, limit int, cursor string) ([]domain.Inquiry, string, error) {
	startKey, err := decodeLastKey(cursor)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", domain.ErrBadRequest)
	}
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(keyAttr + " = :k"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": &types.AttributeValueMemberS{Value: keyVal},
		},
		ScanIndexForward:  aws.Bool(false),
		Limit:             aws.Int32(int32(limit)),
		ExclusiveStartKey: startKey,
	})
	if err != nil {
		return nil, "", err
	}
	var inquiries []domain.Inquiry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &inquiries); err != nil {
		return nil, "", err
	}
	next, err := encodeLastKey(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", err
	}
	return inquiries, next, nil
}

// MarkResponded records the seller's reply and flips the status.
func (r *InquiryRepo) MarkResponded(ctx context.Context, inquiryID, response string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("inquiry_id", inquiryID),
		UpdateExpression: aws.String("SET #s = :s, response_message = :m, responded_at = :t"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: domain.InquiryStatusResponded},
			":m": &types.AttributeValueMemberS{Value: response},
			":t": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	return err
}

func (r *InquiryRepo) UpdateStatus(ctx context.Context, inquiryID, status string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("inquiry_id", inquiryID),
		UpdateExpression: aws.String("SET #s = :s"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: status},
		},
	})
	return err
}
