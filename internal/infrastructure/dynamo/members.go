package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/moim/ledger-notify/internal/domain"
)

// MemberRepo provides typed DynamoDB operations for the group_members table.
// The table is owned by the group service; this service only reads it.
type MemberRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMemberRepo(client *dynamodb.Client, tableName string) *MemberRepo {
	return &MemberRepo{client: client, tableName: tableName}
}

// ListByGroup returns every member of the group. An empty group yields an
// empty slice, not an error.
func (r *MemberRepo) ListByGroup(ctx context.Context, groupID string) ([]domain.Member, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("group_id = :gid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":gid": &types.AttributeValueMemberS{Value: groupID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query group members: %w", err)
	}
	var members []domain.Member
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &members); err != nil {
		return nil, fmt.Errorf("unmarshal group members: %w", err)
	}
	return members, nil
}
