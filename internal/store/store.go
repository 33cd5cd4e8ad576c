// Package store implements the single-table data access layer for the
// music library. Every record lives in one DynamoDB table under a
// composite PK/SK pair; artist and genre lookups go through the GSI1
// and GSI2 projections.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Client is the subset of the DynamoDB API the store depends on.
// *dynamodb.Client satisfies it; tests substitute a mock.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Config holds configuration for the Store.
type Config struct {
	// TableName is the name of the library table.
	// Default: "music_library"
	TableName string

	// GSI1Name is the artist/title index. Default: "GSI1"
	GSI1Name string

	// GSI2Name is the genre index. Default: "GSI2"
	GSI2Name string
}

// DefaultConfig returns the default table and index names.
func DefaultConfig() Config {
	return Config{
		TableName: "music_library",
		GSI1Name:  "GSI1",
		GSI2Name:  "GSI2",
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "music_library"
	}
	if c.GSI1Name == "" {
		c.GSI1Name = "GSI1"
	}
	if c.GSI2Name == "" {
		c.GSI2Name = "GSI2"
	}
}

// Store provides the entity operations over the library table.
type Store struct {
	client Client
	config Config
}

// New creates a new Store instance. The client is injected so callers
// own its construction and tests can substitute a mock.
func New(client Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// nowISO returns the current UTC time in the stored timestamp format.
func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// queryAll drains all pages of a query.
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// isConditionalCheckFailed reports whether err is a DynamoDB condition
// expression failure.
func isConditionalCheckFailed(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	return errors.As(err, &condErr)
}
