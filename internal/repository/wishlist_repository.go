package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/threadcart/commerce-service/internal/domain"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

type WishlistRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewWishlistRepository(client *dynamodb.Client, tableName string) *WishlistRepository {
	return &WishlistRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *WishlistRepository) PutItem(ctx context.Context, item *domain.WishlistItem) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal wishlist item: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put wishlist item: %w", err)
	}
	return nil
}

func (r *WishlistRepository) ListByUser(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	keyCond := expression.Key("user_id").Equal(expression.Value(userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, err
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(userIndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}

	var items []domain.WishlistItem
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wishlist items: %w", err)
	}
	return items, nil
}

func (r *WishlistRepository) DeleteItem(ctx context.Context, wishlistID, userID string) error {
	condition := expression.Equal(expression.Name("user_id"), expression.Value(userID))
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return err
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"wishlist_id": &types.AttributeValueMemberS{Value: wishlistID},
		},
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrWishlistItemNotFound
		}
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	return nil
}
