package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/threadcart/commerce-service/internal/domain"
)

// CategoryRepository stores categories and subcategories in one table,
// discriminated by key prefix. Both entity sets are tiny and read-mostly.
type CategoryRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewCategoryRepository(client *dynamodb.Client, tableName string) *CategoryRepository {
	return &CategoryRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	av, err := attributevalue.MarshalMap(category)
	if err != nil {
		return fmt.Errorf("failed to marshal category: %w", err)
	}
	av["entry_id"] = mustMarshalString("category#" + category.CategoryID)

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) CreateSubcategory(ctx context.Context, sub *domain.Subcategory) error {
	av, err := attributevalue.MarshalMap(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal subcategory: %w", err)
	}
	av["entry_id"] = mustMarshalString("subcategory#" + sub.SubcategoryID)

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put subcategory: %w", err)
	}
	return nil
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	items, err := r.scanPrefix(ctx, "category#")
	if err != nil {
		return nil, err
	}

	var categories []domain.Category
	if err := attributevalue.UnmarshalListOfMaps(items, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) ListSubcategories(ctx context.Context) ([]domain.Subcategory, error) {
	items, err := r.scanPrefix(ctx, "subcategory#")
	if err != nil {
		return nil, err
	}

	var subs []domain.Subcategory
	if err := attributevalue.UnmarshalListOfMaps(items, &subs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subcategories: %w", err)
	}
	return subs, nil
}

func (r *CategoryRepository) scanPrefix(ctx context.Context, prefix string) ([]map[string]types.AttributeValue, error) {
	filter := expression.BeginsWith(expression.Name("entry_id"), prefix)
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan categories: %w", err)
		}
		items = append(items, result.Items...)

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return items, nil
}

func mustMarshalString(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}
