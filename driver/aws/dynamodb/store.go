// Package dynamodb provides an implementation of [kv.Store] backed by an AWS
// DynamoDB table.
package dynamodb

import (
	"bytes"
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/storagekit/internal/awsx"
	"github.com/dogmatiq/storagekit/kv"
)

// Store is an implementation of [kv.Store] that stores key/value pairs in a
// DynamoDB table.
//
// Many stores can share the same table. Each is identified by its name, which
// is used as the partition key.
type Store struct {
	// Client is the DynamoDB client to use.
	Client *dynamodb.Client

	// Table is the name of the DynamoDB table.
	Table string

	// Name is the name of the store within the table.
	Name string

	// DecorateGetItem is an optional function that is called before each
	// DynamoDB "GetItem" request.
	//
	// It may modify the API input in-place. It returns options that will be
	// applied to the request.
	DecorateGetItem func(*dynamodb.GetItemInput) []func(*dynamodb.Options)

	// DecorateQuery is an optional function that is called before each DynamoDB
	// "Query" request.
	//
	// It may modify the API input in-place. It returns options that will be
	// applied to the request.
	DecorateQuery func(*dynamodb.QueryInput) []func(*dynamodb.Options)

	// DecoratePutItem is an optional function that is called before each
	// DynamoDB "PutItem" request.
	//
	// It may modify the API input in-place. It returns options that will be
	// applied to the request.
	DecoratePutItem func(*dynamodb.PutItemInput) []func(*dynamodb.Options)

	// DecorateDeleteItem is an optional function that is called before each
	// DynamoDB "DeleteItem" request.
	//
	// It may modify the API input in-place. It returns options that will be
	// applied to the request.
	DecorateDeleteItem func(*dynamodb.DeleteItemInput) []func(*dynamodb.Options)
}

const (
	storeAttr = "Store"
	keyAttr   = "Key"
	valueAttr = "Value"
)

// sortKey returns the value of the sort key attribute for k.
//
// DynamoDB does not allow empty binary key attributes, so every key is
// preceded by a zero byte. This does not change the order of keys.
func sortKey(k []byte) *types.AttributeValueMemberB {
	v := make([]byte, len(k)+1)
	copy(v[1:], k)
	return &types.AttributeValueMemberB{Value: v}
}

func (s *Store) primaryKey(k []byte) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		storeAttr: &types.AttributeValueMemberS{Value: s.Name},
		keyAttr:   sortKey(k),
	}
}

// Get returns the value associated with k.
func (s *Store) Get(ctx context.Context, k []byte) ([]byte, bool, error) {
	out, err := awsx.Do(
		ctx,
		s.Client.GetItem,
		s.DecorateGetItem,
		&dynamodb.GetItemInput{
			TableName:            aws.String(s.Table),
			Key:                  s.primaryKey(k),
			ConsistentRead:       aws.Bool(true),
			ProjectionExpression: aws.String(`#V`),
			ExpressionAttributeNames: map[string]string{
				"#V": valueAttr,
			},
		},
	)
	if err != nil || out.Item == nil {
		return nil, false, err
	}

	v, err := getAttr[*types.AttributeValueMemberB](out.Item, valueAttr)
	if err != nil {
		return nil, false, err
	}

	if v.Value == nil {
		return []byte{}, true, nil
	}

	return v.Value, true, nil
}

// Has returns true if k is present in the store.
func (s *Store) Has(ctx context.Context, k []byte) (bool, error) {
	out, err := awsx.Do(
		ctx,
		s.Client.GetItem,
		s.DecorateGetItem,
		&dynamodb.GetItemInput{
			TableName:      aws.String(s.Table),
			Key:            s.primaryKey(k),
			ConsistentRead: aws.Bool(true),
			// Request only the key to avoid fetching the value.
			ProjectionExpression: aws.String(`#K`),
			ExpressionAttributeNames: map[string]string{
				"#K": keyAttr,
			},
		},
	)
	if err != nil {
		return false, err
	}

	return out.Item != nil, nil
}

// Set associates a value with k.
func (s *Store) Set(ctx context.Context, k, v []byte) error {
	if v == nil {
		v = []byte{}
	}

	item := s.primaryKey(k)
	item[valueAttr] = &types.AttributeValueMemberB{Value: v}

	_, err := awsx.Do(
		ctx,
		s.Client.PutItem,
		s.DecoratePutItem,
		&dynamodb.PutItemInput{
			TableName: aws.String(s.Table),
			Item:      item,
		},
	)

	return err
}

// Delete removes k from the store.
func (s *Store) Delete(ctx context.Context, k []byte) error {
	_, err := awsx.Do(
		ctx,
		s.Client.DeleteItem,
		s.DecorateDeleteItem,
		&dynamodb.DeleteItemInput{
			TableName: aws.String(s.Table),
			Key:       s.primaryKey(k),
		},
	)

	return err
}

// Range invokes fn for each key in [start, end).
func (s *Store) Range(
	ctx context.Context,
	start, end []byte,
	o kv.Order,
	fn kv.RangeFunc,
) error {
	if start != nil && end != nil && bytes.Compare(start, end) >= 0 {
		return nil
	}

	in := &dynamodb.QueryInput{
		TableName:            aws.String(s.Table),
		ConsistentRead:       aws.Bool(true),
		ScanIndexForward:     aws.Bool(o == kv.Ascending),
		ProjectionExpression: aws.String("#K, #V"),
		ExpressionAttributeNames: map[string]string{
			"#S": storeAttr,
			"#K": keyAttr,
			"#V": valueAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":S": &types.AttributeValueMemberS{Value: s.Name},
		},
	}

	var excluded []byte

	switch {
	case start != nil && end != nil:
		// DynamoDB has no half-open key condition, the end key is removed
		// below.
		in.KeyConditionExpression = aws.String(`#S = :S AND #K BETWEEN :A AND :B`)
		in.ExpressionAttributeValues[":A"] = sortKey(start)
		in.ExpressionAttributeValues[":B"] = sortKey(end)
		excluded = sortKey(end).Value
	case start != nil:
		in.KeyConditionExpression = aws.String(`#S = :S AND #K >= :A`)
		in.ExpressionAttributeValues[":A"] = sortKey(start)
	case end != nil:
		in.KeyConditionExpression = aws.String(`#S = :S AND #K < :B`)
		in.ExpressionAttributeValues[":B"] = sortKey(end)
	default:
		in.KeyConditionExpression = aws.String(`#S = :S`)
	}

	for {
		out, err := awsx.Do(
			ctx,
			s.Client.Query,
			s.DecorateQuery,
			in,
		)
		if err != nil {
			return err
		}

		for _, item := range out.Items {
			key, err := getAttr[*types.AttributeValueMemberB](item, keyAttr)
			if err != nil {
				return err
			}

			if excluded != nil && bytes.Equal(key.Value, excluded) {
				continue
			}

			value, err := getAttr[*types.AttributeValueMemberB](item, valueAttr)
			if err != nil {
				return err
			}

			v := value.Value
			if v == nil {
				v = []byte{}
			}

			ok, err := fn(ctx, key.Value[1:], v)
			if !ok || err != nil {
				return err
			}
		}

		if out.LastEvaluatedKey == nil {
			return nil
		}

		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// CreateTable creates a DynamoDB table for use with [Store].
//
// It is not an error if the table already exists.
func CreateTable(
	ctx context.Context,
	client *dynamodb.Client,
	table string,
	decorators ...func(*dynamodb.CreateTableInput) []func(*dynamodb.Options),
) error {
	_, err := awsx.Do(
		ctx,
		client.CreateTable,
		func(in *dynamodb.CreateTableInput) []func(*dynamodb.Options) {
			var options []func(*dynamodb.Options)
			for _, dec := range decorators {
				options = append(options, dec(in)...)
			}

			return options
		},
		&dynamodb.CreateTableInput{
			TableName: aws.String(table),
			AttributeDefinitions: []types.AttributeDefinition{
				{
					AttributeName: aws.String(storeAttr),
					AttributeType: types.ScalarAttributeTypeS,
				},
				{
					AttributeName: aws.String(keyAttr),
					AttributeType: types.ScalarAttributeTypeB,
				},
			},
			KeySchema: []types.KeySchemaElement{
				{
					AttributeName: aws.String(storeAttr),
					KeyType:       types.KeyTypeHash,
				},
				{
					AttributeName: aws.String(keyAttr),
					KeyType:       types.KeyTypeRange,
				},
			},
			BillingMode: types.BillingModePayPerRequest,
		},
	)

	if errors.As(err, new(*types.ResourceInUseException)) {
		return nil
	}

	return err
}

// DeleteTable deletes a DynamoDB table created by [CreateTable].
//
// It is not an error if the table does not exist.
func DeleteTable(
	ctx context.Context,
	client *dynamodb.Client,
	table string,
) error {
	_, err := client.DeleteTable(
		ctx,
		&dynamodb.DeleteTableInput{
			TableName: aws.String(table),
		},
	)

	if errors.As(err, new(*types.ResourceNotFoundException)) {
		return nil
	}

	return err
}
