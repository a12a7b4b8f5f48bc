package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/threadcart/commerce-service/internal/domain"
	"github.com/threadcart/commerce-service/pkg/cache"
	pkgconfig "github.com/threadcart/commerce-service/pkg/config"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockShortfallError is returned when a reservation loses the stock
// condition. Available carries the variant's stock as the store saw it when it
// rejected the write, or -1 when the rejected item could not be read back.
type StockShortfallError struct {
	Requested int
	Available int
}

func (e *StockShortfallError) Error() string {
	if e.Available < 0 {
		return fmt.Sprintf("insufficient stock: requested %d", e.Requested)
	}
	return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
}

func (e *StockShortfallError) Unwrap() error { return ErrInsufficientStock }

const productCacheTTL = 5 * time.Minute

type ProductRepository struct {
	client    *dynamodb.Client
	tableName string
	cache     cache.Client
}

func NewDynamoDBClient(cfg *pkgconfig.Config) (*dynamodb.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsCfg), nil
}

// NewProductRepository wires the repository over DynamoDB; cacheClient may be
// nil to disable the read-through cache.
func NewProductRepository(client *dynamodb.Client, tableName string, cacheClient cache.Client) *ProductRepository {
	return &ProductRepository{
		client:    client,
		tableName: tableName,
		cache:     cacheClient,
	}
}

func productCacheKey(productID string) string {
	return "product:" + productID
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	av, err := attributevalue.MarshalMap(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}

	r.invalidate(ctx, product.ProductID)
	return nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if r.cache != nil {
		if raw, err := r.cache.Get(ctx, productCacheKey(productID)); err == nil {
			var cached domain.Product
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if result.Item == nil {
		return nil, ErrProductNotFound
	}

	var product domain.Product
	if err := attributevalue.UnmarshalMap(result.Item, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	if r.cache != nil {
		if raw, err := json.Marshal(&product); err == nil {
			_ = r.cache.Set(ctx, productCacheKey(productID), string(raw), productCacheTTL)
		}
	}

	return &product, nil
}

func (r *ProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}

		var page []domain.Product
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products: %w", err)
		}
		products = append(products, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return products, nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	result, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if result.Attributes == nil {
		return ErrProductNotFound
	}

	r.invalidate(ctx, productID)
	return nil
}

// variantPath addresses one size node inside the stored variant tree.
func variantPath(ref domain.VariantRef, field string) string {
	return fmt.Sprintf("color_options[%d].size_options[%d].%s", ref.ColorIndex, ref.SizeIndex, field)
}

// ReserveStock decrements the variant's stock by qty as a single conditional
// update: the write only lands if the addressed node still carries the
// requested color_id and size label and has at least qty in stock. Two
// concurrent reservations can therefore never decrement past zero, even
// across server instances.
func (r *ProductRepository) ReserveStock(ctx context.Context, ref domain.VariantRef, qty int) error {
	stockPath := variantPath(ref, "stock")

	update := expression.Set(
		expression.Name(stockPath),
		expression.Minus(
			expression.Name(stockPath),
			expression.Value(qty),
		),
	).Set(
		expression.Name("updated_at"),
		expression.Value(time.Now()),
	)

	condition := expression.Equal(
		expression.Name(fmt.Sprintf("color_options[%d].color_id", ref.ColorIndex)),
		expression.Value(ref.ColorID),
	).And(expression.Equal(
		expression.Name(variantPath(ref, "size")),
		expression.Value(ref.Size),
	)).And(expression.GreaterThanEqual(
		expression.Name(stockPath),
		expression.Value(qty),
	))

	if err := r.applyStockDelta(ctx, ref, update, condition); err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return &StockShortfallError{
				Requested: qty,
				Available: liveStock(ccf.Item, ref),
			}
		}
		return err
	}
	return nil
}

// liveStock digs the variant's stock out of the item the failed condition
// check returned. It reports -1 when the item is missing or the variant no
// longer resolves, so callers can fall back to their own read.
func liveStock(item map[string]types.AttributeValue, ref domain.VariantRef) int {
	if len(item) == 0 {
		return -1
	}
	var product domain.Product
	if err := attributevalue.UnmarshalMap(item, &product); err != nil {
		return -1
	}
	_, _, sizeOpt, err := product.ResolveVariant(ref.ColorID, ref.Size)
	if err != nil {
		return -1
	}
	return sizeOpt.Stock
}

// ReleaseStock adds qty back to the variant's stock. Only the identity of the
// addressed node is checked; increments commute, so there is no stock
// condition.
func (r *ProductRepository) ReleaseStock(ctx context.Context, ref domain.VariantRef, qty int) error {
	stockPath := variantPath(ref, "stock")

	update := expression.Set(
		expression.Name(stockPath),
		expression.Plus(
			expression.Name(stockPath),
			expression.Value(qty),
		),
	).Set(
		expression.Name("updated_at"),
		expression.Value(time.Now()),
	)

	condition := expression.Equal(
		expression.Name(fmt.Sprintf("color_options[%d].color_id", ref.ColorIndex)),
		expression.Value(ref.ColorID),
	).And(expression.Equal(
		expression.Name(variantPath(ref, "size")),
		expression.Value(ref.Size),
	))

	return r.applyStockDelta(ctx, ref, update, condition)
}

func (r *ProductRepository) applyStockDelta(ctx context.Context, ref domain.VariantRef, update expression.UpdateBuilder, condition expression.ConditionBuilder) error {
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(condition).
		Build()
	if err != nil {
		return err
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: ref.ProductID},
		},
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ReturnValues:              types.ReturnValueNone,
		// On a condition failure the rejected item rides along in the
		// exception, so the caller can report live stock without a re-read.
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, ref.ProductID)
	return nil
}

func (r *ProductRepository) invalidate(ctx context.Context, productID string) {
	if r.cache != nil {
		_ = r.cache.Delete(ctx, productCacheKey(productID))
	}
}
