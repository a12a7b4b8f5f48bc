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

var ErrContactNotFound = errors.New("contact not found")

type ContactRepository struct {
	client    *dynamodb.Client
	tableName string
}

func NewContactRepository(client *dynamodb.Client, tableName string) *ContactRepository {
	return &ContactRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *ContactRepository) PutContact(ctx context.Context, contact *domain.Contact) error {
	av, err := attributevalue.MarshalMap(contact)
	if err != nil {
		return fmt.Errorf("failed to marshal contact: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) GetContact(ctx context.Context, contactID string) (*domain.Contact, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"contact_id": &types.AttributeValueMemberS{Value: contactID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if result.Item == nil {
		return nil, ErrContactNotFound
	}

	var contact domain.Contact
	if err := attributevalue.UnmarshalMap(result.Item, &contact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact: %w", err)
	}
	return &contact, nil
}

// FindByEmail returns the contact holding the address, or ErrContactNotFound.
// The contact book is small, so a filtered scan beats maintaining an index.
func (r *ContactRepository) FindByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	filter := expression.Equal(expression.Name("email"), expression.Value(email))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, err
	}

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
			return nil, fmt.Errorf("failed to scan contacts: %w", err)
		}

		if len(result.Items) > 0 {
			var contact domain.Contact
			if err := attributevalue.UnmarshalMap(result.Items[0], &contact); err != nil {
				return nil, fmt.Errorf("failed to unmarshal contact: %w", err)
			}
			return &contact, nil
		}

		if result.LastEvaluatedKey == nil {
			return nil, ErrContactNotFound
		}
		startKey = result.LastEvaluatedKey
	}
}

func (r *ContactRepository) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	var contacts []domain.Contact
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan contacts: %w", err)
		}

		var page []domain.Contact
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contacts: %w", err)
		}
		contacts = append(contacts, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return contacts, nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, contactID string) error {
	result, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"contact_id": &types.AttributeValueMemberS{Value: contactID},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if result.Attributes == nil {
		return ErrContactNotFound
	}
	return nil
}
