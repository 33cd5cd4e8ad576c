package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tonearc/tonearc/internal/keys"
	"github.com/tonearc/tonearc/internal/model"
)

// CreateUser writes the user's canonical metadata record. The put is
// conditional on the key not existing, so a duplicate registration
// surfaces as ErrConflict instead of silently overwriting.
func (s *Store) CreateUser(ctx context.Context, userID, email, username string) (*model.User, error) {
	user := model.User{
		UserID:    userID,
		Email:     email,
		Username:  username,
		CreatedAt: nowISO(),
	}

	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: keys.UserPK(userID)}
	item["SK"] = &types.AttributeValueMemberS{Value: keys.MetadataSK}
	item["entity_type"] = &types.AttributeValueMemberS{Value: model.TypeUser}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.TableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return &user, nil
}

// GetUser retrieves a user's metadata record, returning ErrNotFound if absent.
func (s *Store) GetUser(ctx context.Context, userID string) (*model.User, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: keys.UserPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: keys.MetadataSK},
		},
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var user model.User
	if err := attributevalue.UnmarshalMap(result.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}
