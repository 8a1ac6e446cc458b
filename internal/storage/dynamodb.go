package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dennisdiepolder/monti/recovery/internal/types"
	"github.com/rs/zerolog"
)

// batchWriteLimit is the DynamoDB maximum number of requests per BatchWriteItem
const batchWriteLimit = 25

// DynamoDBStore implements ReadWriter using AWS DynamoDB. Both tables are
// partitioned by DateKey (YYYY-MM-DD, UTC).
type DynamoDBStore struct {
	client *dynamodb.Client
	config DynamoConfig
	logger zerolog.Logger
}

// NewDynamoDBStore creates a new DynamoDB store
func NewDynamoDBStore(ctx context.Context, cfg DynamoConfig, logger zerolog.Logger) (*DynamoDBStore, error) {
	var client *dynamodb.Client

	if cfg.Mode == DynamoModeLocal {
		// For local mode, build the client directly without LoadDefaultConfig.
		// LoadDefaultConfig probes the EC2 IMDS endpoint which hangs on EC2
		// instances when static credentials are intended.
		client = dynamodb.New(dynamodb.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = dynamodb.NewFromConfig(awsCfg)
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	store := &DynamoDBStore{
		client: client,
		config: cfg,
		logger: logger,
	}

	// Create tables in local mode
	if cfg.Mode == DynamoModeLocal {
		if err := CreateTablesIfNotExist(ctx, client, cfg, logger); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("region", cfg.Region).
		Int("page_size", cfg.PageSize).
		Msg("DynamoDB store initialized")

	return store, nil
}

// FetchLeads drains every lead partition of the range
func (s *DynamoDBStore) FetchLeads(ctx context.Context, rng types.DayRange) ([]types.RawLead, error) {
	return DrainPages(ctx, CollectionLeads, s.config.PageSize, queryPages[types.RawLead](s.client, s.config.LeadsTable, rng.DateKeys()))
}

// FetchCalls drains every call partition of the range
func (s *DynamoDBStore) FetchCalls(ctx context.Context, rng types.DayRange) ([]types.RawCall, error) {
	return DrainPages(ctx, CollectionCalls, s.config.PageSize, queryPages[types.RawCall](s.client, s.config.CallsTable, rng.DateKeys()))
}

// queryPages walks the DateKey partitions in order. Each call fills one page
// of up to size records, continuing across partitions and LastEvaluatedKey
// boundaries; only the final page comes back short.
func queryPages[T any](client *dynamodb.Client, table string, dateKeys []string) PageFunc[T] {
	i := 0
	var lastKey map[string]dbtypes.AttributeValue

	return func(ctx context.Context, _, size int) ([]T, error) {
		page := make([]T, 0, size)
		for len(page) < size && i < len(dateKeys) {
			keyCond := expression.Key("DateKey").Equal(expression.Value(dateKeys[i]))
			expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
			if err != nil {
				return nil, fmt.Errorf("failed to build expression: %w", err)
			}

			result, err := client.Query(ctx, &dynamodb.QueryInput{
				TableName:                 aws.String(table),
				KeyConditionExpression:    expr.KeyCondition(),
				ExpressionAttributeNames:  expr.Names(),
				ExpressionAttributeValues: expr.Values(),
				ExclusiveStartKey:         lastKey,
				Limit:                     aws.Int32(int32(size - len(page))),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to query %s for %s: %w", table, dateKeys[i], err)
			}

			var items []T
			if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
				return nil, fmt.Errorf("failed to unmarshal %s items: %w", table, err)
			}
			page = append(page, items...)

			lastKey = result.LastEvaluatedKey
			if len(lastKey) == 0 {
				lastKey = nil
				i++
			}
		}
		return page, nil
	}
}

func (s *DynamoDBStore) SaveLeads(ctx context.Context, leads []types.RawLead) error {
	return saveAll(ctx, s.client, s.config.LeadsTable, leads)
}

func (s *DynamoDBStore) SaveCalls(ctx context.Context, calls []types.RawCall) error {
	return saveAll(ctx, s.client, s.config.CallsTable, calls)
}

func saveAll[T any](ctx context.Context, client *dynamodb.Client, table string, records []T) error {
	for i := 0; i < len(records); i += batchWriteLimit {
		end := i + batchWriteLimit
		if end > len(records) {
			end = len(records)
		}

		requests := make([]dbtypes.WriteRequest, 0, end-i)
		for _, r := range records[i:end] {
			item, err := attributevalue.MarshalMap(r)
			if err != nil {
				return fmt.Errorf("failed to marshal %s item: %w", table, err)
			}
			requests = append(requests, dbtypes.WriteRequest{PutRequest: &dbtypes.PutRequest{Item: item}})
		}

		pending := map[string][]dbtypes.WriteRequest{table: requests}
		for len(pending) > 0 {
			out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("failed to save %s items: %w", table, err)
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}

// TruncateAll deletes all items from both DynamoDB tables (scan + batch delete)
func (s *DynamoDBStore) TruncateAll(ctx context.Context) error {
	tables := []struct {
		name string
		pk   string
		sk   string
	}{
		{s.config.LeadsTable, "DateKey", "LeadID"},
		{s.config.CallsTable, "DateKey", "CallID"},
	}

	for _, table := range tables {
		if err := s.truncateTable(ctx, table.name, table.pk, table.sk); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table.name, err)
		}
	}
	return nil
}

func (s *DynamoDBStore) truncateTable(ctx context.Context, tableName, pk, sk string) error {
	var lastKey map[string]dbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:            aws.String(tableName),
			ProjectionExpression: aws.String("#pk, #sk"),
			ExpressionAttributeNames: map[string]string{
				"#pk": pk,
				"#sk": sk,
			},
			Limit: aws.Int32(500),
		}
		if lastKey != nil {
			input.ExclusiveStartKey = lastKey
		}

		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return err
		}

		for i := 0; i < len(result.Items); i += batchWriteLimit {
			end := i + batchWriteLimit
			if end > len(result.Items) {
				end = len(result.Items)
			}

			requests := make([]dbtypes.WriteRequest, 0, end-i)
			for _, item := range result.Items[i:end] {
				requests = append(requests, dbtypes.WriteRequest{
					DeleteRequest: &dbtypes.DeleteRequest{
						Key: map[string]dbtypes.AttributeValue{
							pk: item[pk],
							sk: item[sk],
						},
					},
				})
			}

			_, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]dbtypes.WriteRequest{
					tableName: requests,
				},
			})
			if err != nil {
				return err
			}
		}

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	s.logger.Info().Str("table", tableName).Msg("table truncated")
	return nil
}
