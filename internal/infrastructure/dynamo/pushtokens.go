package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/moim/ledger-notify/internal/domain"
)

// PushTokenRepo provides typed DynamoDB operations for the push_tokens table.
// One record per user; Put overwrites unconditionally (last write wins).
type PushTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPushTokenRepo(client *dynamodb.Client, tableName string) *PushTokenRepo {
	return &PushTokenRepo{client: client, tableName: tableName}
}

func (r *PushTokenRepo) Put(ctx context.Context, t *domain.PushToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal push token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Get returns the user's current push token, or domain.ErrNotFound when the
// user never registered a device. A store-level failure is returned as-is so
// callers can tell "absent" from "store down".
func (r *PushTokenRepo) Get(ctx context.Context, userID string) (*domain.PushToken, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("push token not found: %w", domain.ErrNotFound)
	}
	var t domain.PushToken
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes the user's token, used when the gateway reports the endpoint
// as permanently dead.
func (r *PushTokenRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	return err
}
