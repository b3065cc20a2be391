package storage

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/ballothub/election-backend/logging"
)

// kvItem is the single-table layout: one item per namespaced key.
type kvItem struct {
	Key   string `dynamodbav:"PK"`
	Value []byte `dynamodbav:"Value"`
}

type DynamoStore struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoStore) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := attributevalue.MarshalMap(map[string]string{"PK": key})
	if err != nil {
		logging.Log.Errorf("STORE: failed to marshal key %s: %v", key, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       k,
	})
	if err != nil {
		logging.Log.Errorf("STORE: GetItem for %s failed: %v", key, err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrKeyNotFound
	}

	var item kvItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		logging.Log.Errorf("STORE: failed to unmarshal item %s: %v", key, err)
		return nil, err
	}
	return item.Value, nil
}

func (s *DynamoStore) Set(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(&kvItem{Key: key, Value: value})
	if err != nil {
		logging.Log.Errorf("STORE: failed to marshal item %s: %v", key, err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("STORE: PutItem for %s failed: %v", key, err)
		return err
	}
	return nil
}

// SetMulti writes every pair inside one TransactWriteItems call. The vote
// commit relies on this: the vote list and the voter latch land together or
// not at all.
func (s *DynamoStore) SetMulti(ctx context.Context, values map[string][]byte) error {
	writes := make([]types.TransactWriteItem, 0, len(values))
	for key, value := range values {
		item, err := attributevalue.MarshalMap(&kvItem{Key: key, Value: value})
		if err != nil {
			logging.Log.Errorf("STORE: failed to marshal item %s: %v", key, err)
			return err
		}
		writes = append(writes, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(s.TableName),
				Item:      item,
			},
		})
	}

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: writes,
	})
	if err != nil {
		logging.Log.Errorf("STORE: transactional write of %d keys failed: %v", len(values), err)
		return err
	}
	return nil
}

func (s *DynamoStore) Remove(ctx context.Context, key string) error {
	k, err := attributevalue.MarshalMap(map[string]string{"PK": key})
	if err != nil {
		logging.Log.Errorf("STORE: failed to marshal delete key %s: %v", key, err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       k,
	})
	if err != nil {
		logging.Log.Errorf("STORE: DeleteItem for %s failed: %v", key, err)
		return err
	}
	return nil
}

func (s *DynamoStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            &s.TableName,
			ExclusiveStartKey:    lastEvaluatedKey,
			ProjectionExpression: aws.String("PK"),
		})
		if err != nil {
			logging.Log.Errorf("STORE: scan for prefix %s failed: %v", prefix, err)
			return nil, err
		}

		var items []kvItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			logging.Log.Errorf("STORE: failed to unmarshal key list: %v", err)
			return nil, err
		}
		for _, item := range items {
			if strings.HasPrefix(item.Key, prefix) {
				keys = append(keys, item.Key)
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}

	return keys, nil
}
