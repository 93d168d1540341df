package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/vignesh-goutham/tradelog/pkg/store"
	"github.com/vignesh-goutham/tradelog/pkg/types"
)

// Only write when neither key attribute exists on the target item
const insertOnlyCondition = "attribute_not_exists(#pk) AND attribute_not_exists(#sk)"

// API is the subset of the DynamoDB client used by Service
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Service handles trade table operations on DynamoDB
type Service struct {
	client    API
	tableName string
	keys      types.KeySchema
}

// NewService creates a new DynamoDB service instance. endpoint may be empty; it is
// only set when pointing at DynamoDB Local.
func NewService(ctx context.Context, region, endpoint, tableName string, keys types.KeySchema) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return NewServiceWithClient(client, tableName, keys), nil
}

// NewServiceWithClient wraps an existing client
func NewServiceWithClient(client API, tableName string, keys types.KeySchema) *Service {
	return &Service{
		client:    client,
		tableName: tableName,
		keys:      keys,
	}
}

// PutTrade writes a trade only if its composite key is not already taken
func (d *Service) PutTrade(ctx context.Context, record types.TradeRecord) error {
	item, err := d.marshalTrade(record)
	if err != nil {
		return &store.BackendError{Code: "SerializationError", Message: err.Error(), Err: err}
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(d.tableName),
		Item:                item,
		ConditionExpression: aws.String(insertOnlyCondition),
		ExpressionAttributeNames: map[string]string{
			"#pk": d.keys.PartitionKey,
			"#sk": d.keys.SortKey,
		},
	}

	if _, err := d.client.PutItem(ctx, input); err != nil {
		return translateError(record, err)
	}

	return nil
}

// ListTrades queries every trade under a partition key
func (d *Service) ListTrades(ctx context.Context, partitionKey string) ([]types.TradeRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(d.tableName),
		KeyConditionExpression: aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": d.keys.PartitionKey,
		},
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":pk": &dynamodbtypes.AttributeValueMemberS{Value: partitionKey},
		},
	}

	var trades []types.TradeRecord
	paginator := dynamodb.NewQueryPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query trades: %w", translateError(types.TradeRecord{}, err))
		}

		for _, item := range page.Items {
			record, err := d.unmarshalTrade(item)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal trade: %w", err)
			}
			trades = append(trades, record)
		}
	}

	return trades, nil
}

func (d *Service) Close() error {
	return nil
}

func (d *Service) marshalTrade(record types.TradeRecord) (map[string]dynamodbtypes.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}

	item[d.keys.PartitionKey] = &dynamodbtypes.AttributeValueMemberS{Value: record.PartitionKey}
	item[d.keys.SortKey] = &dynamodbtypes.AttributeValueMemberS{Value: record.SortKey}
	return item, nil
}

func (d *Service) unmarshalTrade(item map[string]dynamodbtypes.AttributeValue) (types.TradeRecord, error) {
	var record types.TradeRecord
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return record, err
	}
	if av, ok := item[d.keys.PartitionKey]; ok {
		if err := attributevalue.Unmarshal(av, &record.PartitionKey); err != nil {
			return record, err
		}
	}
	if av, ok := item[d.keys.SortKey]; ok {
		if err := attributevalue.Unmarshal(av, &record.SortKey); err != nil {
			return record, err
		}
	}
	return record, nil
}

// translateError maps DynamoDB errors onto the store error taxonomy
func translateError(record types.TradeRecord, err error) error {
	var conditionFailed *dynamodbtypes.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return store.Conflict(record)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &store.BackendError{Code: apiErr.ErrorCode(), Message: apiErr.ErrorMessage(), Err: err}
	}

	return &store.BackendError{Code: "ServerError", Message: err.Error(), Err: err}
}
