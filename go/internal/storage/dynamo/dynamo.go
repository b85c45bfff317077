// Package dynamo keeps slot values as items of a DynamoDB table keyed by slotKey.
package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/matchbook/go/internal/storage"
)

// Config holds dynamodb driver settings
type Config struct {
	Table  string `yaml:"table"`
	Region string `yaml:"region"`
}

func init() {
	storage.MustRegister("dynamodb", storage.DriverFunc(func(ctx context.Context, settings storage.Settings) (storage.Slot, error) {
		cfg := Config{Table: "MatchSlots"}
		if err := settings.Decode(&cfg); err != nil {
			return nil, err
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return New(dynamodb.NewFromConfig(awsCfg), cfg.Table), nil
	}))
}

// API is the subset of the DynamoDB client the slot calls
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type slotItem struct {
	SlotKey   string `dynamodbav:"slotKey"`
	Value     string `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

// Slot implements storage.Slot on a DynamoDB table
type Slot struct {
	client API
	table  string
}

func New(client API, table string) *Slot {
	return &Slot{client: client, table: table}
}

func (s *Slot) key(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"slotKey": &types.AttributeValueMemberS{Value: key},
	}
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            s.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", s.table, err)
	}
	if out.Item == nil {
		return nil, storage.ErrNotFound
	}

	var item slotItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return []byte(item.Value), nil
}

func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	item, err := attributevalue.MarshalMap(slotItem{
		SlotKey:   key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", s.table, err)
	}

	log.Debug().Str("table", s.table).Str("key", key).Msg("slot item stored")
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       s.key(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", s.table, err)
	}
	return nil
}

func (s *Slot) Close() error { return nil }
