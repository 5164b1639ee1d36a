// Package dynamo serves the Resource API straight from DynamoDB tables, one table per
// section named after the section's endpoint ("/devices" -> "devices").
package dynamo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"admintui/internal/api"
	"admintui/internal/record"
)

// MaxBatchWrite is the most items DynamoDB accepts in one BatchWriteItem call.
const MaxBatchWrite = 25

// Client is the part of *dynamodb.Client the backend uses.
type Client interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	ListTables(ctx context.Context, in *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
}

// Backend implements api.ResourceAPI over DynamoDB.
type Backend struct {
	client Client
	prefix string
	newID  func() string
	logger *zap.Logger
}

var _ api.ResourceAPI = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithTablePrefix prepends prefix to every table name.
func WithTablePrefix(prefix string) Option {
	return func(b *Backend) { b.prefix = prefix }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// WithIDs replaces the uuid generator for new records.
func WithIDs(next func() string) Option {
	return func(b *Backend) { b.newID = next }
}

// New wraps an existing client.
func New(client Client, opts ...Option) *Backend {
	b := &Backend{client: client, newID: uuid.NewString, logger: zap.NewNop()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// NewFromConfig loads credentials from the standard AWS chain (env vars, shared
// config, instance role) for region.
func NewFromConfig(ctx context.Context, region string, opts ...Option) (*Backend, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(dynamodb.NewFromConfig(cfg), opts...), nil
}

func (b *Backend) table(base string) string {
	return b.prefix + strings.Trim(base, "/")
}

// MissingTables reports which of the sections' tables do not exist in the account.
func (b *Backend) MissingTables(ctx context.Context, bases []string) ([]string, error) {
	existing := map[string]bool{}
	var start *string
	for {
		resp, err := b.client.ListTables(ctx, &dynamodb.ListTablesInput{
			ExclusiveStartTableName: start,
			Limit:                   aws.Int32(100), // max is 100
		})
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		for _, name := range resp.TableNames {
			existing[name] = true
		}
		if aws.ToString(resp.LastEvaluatedTableName) == "" {
			break
		}
		start = resp.LastEvaluatedTableName
	}

	var missing []string
	for _, base := range bases {
		if t := b.table(base); !existing[t] {
			missing = append(missing, t)
		}
	}
	return missing, nil
}

// List scans the whole table.
func (b *Backend) List(ctx context.Context, base string) ([]record.Record, error) {
	table := b.table(base)
	p := dynamodb.NewScanPaginator(b.client, &dynamodb.ScanInput{TableName: aws.String(table)})

	var out []record.Record
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, b.fail(http.MethodGet, base, err)
		}
		for _, item := range page.Items {
			r, err := fromItem(item)
			if err != nil {
				return nil, fmt.Errorf("scan %s: %w", table, err)
			}
			out = append(out, r)
		}
	}
	b.logger.Debug("scanned", zap.String("table", table), zap.Int("items", len(out)))
	return out, nil
}

// Create stores draft under a fresh uuid.
func (b *Backend) Create(ctx context.Context, base string, draft record.Draft) (api.Result, error) {
	item, r, err := toItem(b.newID(), draft)
	if err != nil {
		return api.Result{}, err
	}
	_, err = b.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(b.table(base)),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return api.Result{}, b.fail(http.MethodPost, base, err)
	}
	return api.Result{Record: r}, nil
}

// Update replaces the item with id. A missing item is a 404.
func (b *Backend) Update(ctx context.Context, base, id string, draft record.Draft) (api.Result, error) {
	item, r, err := toItem(id, draft)
	if err != nil {
		return api.Result{}, err
	}
	_, err = b.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(b.table(base)),
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		return api.Result{}, b.fail(http.MethodPut, base+"/"+id, err)
	}
	return api.Result{Record: r}, nil
}

// Delete removes the item with id. A missing item is a 404.
func (b *Backend) Delete(ctx context.Context, base, id string) (api.Result, error) {
	_, err := b.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(b.table(base)),
		Key:                 map[string]types.AttributeValue{record.IDField: &types.AttributeValueMemberS{Value: id}},
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		return api.Result{}, b.fail(http.MethodDelete, base+"/"+id, err)
	}
	return api.Result{}, nil
}

// BatchCreate writes drafts in chunks of MaxBatchWrite. Items DynamoDB hands back as
// unprocessed are not retried and are not counted.
func (b *Backend) BatchCreate(ctx context.Context, base, _ string, drafts []record.Draft) (int, error) {
	table := b.table(base)
	created := 0
	for start := 0; start < len(drafts); start += MaxBatchWrite {
		chunk := drafts[start:min(start+MaxBatchWrite, len(drafts))]
		reqs := make([]types.WriteRequest, 0, len(chunk))
		for _, d := range chunk {
			item, _, err := toItem(b.newID(), d)
			if err != nil {
				return created, err
			}
			reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}
		out, err := b.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{table: reqs},
		})
		if err != nil {
			return created, b.fail(http.MethodPost, base+"/batch", err)
		}
		unprocessed := len(out.UnprocessedItems[table])
		if unprocessed > 0 {
			b.logger.Warn("unprocessed batch items", zap.String("table", table), zap.Int("unprocessed", unprocessed))
		}
		created += len(reqs) - unprocessed
	}
	return created, nil
}

func (b *Backend) fail(method, path string, err error) error {
	b.logger.Warn("dynamodb call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
	var cond *types.ConditionalCheckFailedException
	if errors.As(err, &cond) {
		if method == http.MethodPost {
			return &api.APIError{Method: method, Path: path, Status: http.StatusConflict, Message: "Record already exists"}
		}
		return &api.APIError{Method: method, Path: path, Status: http.StatusNotFound, Message: "Record not found"}
	}
	var missing *types.ResourceNotFoundException
	if errors.As(err, &missing) {
		return &api.APIError{Method: method, Path: path, Status: http.StatusNotFound, Message: "table not found: " + strings.Trim(path, "/")}
	}
	return &api.NetworkError{Method: method, URL: "dynamodb:" + path, Err: err}
}

// toItem marshals a draft plus its id. The returned record mirrors what was stored.
func toItem(id string, draft record.Draft) (map[string]types.AttributeValue, record.Record, error) {
	values := map[string]string{record.IDField: id}
	r := record.New(record.Field{Name: record.IDField, Value: id})
	for _, name := range draft.Names() {
		v, _ := draft.Get(name)
		values[name] = v
		r.Set(name, v)
	}
	item, err := attributevalue.MarshalMap(values)
	if err != nil {
		return nil, record.Record{}, fmt.Errorf("marshal item: %w", err)
	}
	return item, r, nil
}

func fromItem(item map[string]types.AttributeValue) (record.Record, error) {
	m := make(map[string]any, len(item))
	for k, av := range item {
		v, err := scalar(av)
		if err != nil {
			return record.Record{}, fmt.Errorf("attribute %q: %w", k, err)
		}
		m[k] = v
	}
	return record.FromMap(m, []string{record.IDField}), nil
}

// scalar converts an attribute to a record value. Maps, lists and sets are kept as
// their compact JSON text.
func scalar(av types.AttributeValue) (any, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		return json.Number(v.Value), nil
	case *types.AttributeValueMemberBOOL:
		return v.Value, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	}
	var nested any
	if err := attributevalue.Unmarshal(av, &nested); err != nil {
		return nil, err
	}
	b, err := json.Marshal(nested)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
