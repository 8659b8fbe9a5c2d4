package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/pawtrail/internal/metrics"
	"github.com/jacentio/pawtrail/model"
)

// API is the subset of the DynamoDB client the Store uses.
// *dynamodb.Client satisfies it.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ API = (*dynamodb.Client)(nil)

// Store reads and writes walkers in DynamoDB.
type Store struct {
	client  API
	config  Config
	metrics *metrics.Metrics
}

// New creates a new Store instance.
func New(client API, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// NewWithMetrics creates a new Store that records every round trip in m.
func NewWithMetrics(client API, config Config, m *metrics.Metrics) *Store {
	config.validate()
	return &Store{
		client:  client,
		config:  config,
		metrics: m,
	}
}

// TableName returns the walker table name in use.
func (s *Store) TableName() string {
	return s.config.TableName
}

func (s *Store) observe(op string, err error) {
	s.metrics.Observe(metrics.StoreDocument, op, err)
}

// FindAll scans the whole walker table in the store's natural order.
func (s *Store) FindAll(ctx context.Context) ([]model.Walker, error) {
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:      aws.String(s.config.TableName),
		ConsistentRead: aws.Bool(s.config.ConsistentRead),
		Limit:          aws.Int32(s.config.PageSize),
	})

	walkers := []model.Walker{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		s.observe("scan", err)
		if err != nil {
			return nil, mapReadError("scan walkers", err)
		}
		for _, raw := range page.Items {
			w, err := unmarshalWalker(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
			}
			walkers = append(walkers, w)
		}
	}

	return walkers, nil
}

// FindByID retrieves a walker by id, returning model.ErrNotFound if missing.
func (s *Store) FindByID(ctx context.Context, id model.WalkerID) (model.Walker, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.TableName),
		Key:            walkerKey(id),
		ConsistentRead: aws.Bool(s.config.ConsistentRead),
	})
	s.observe("get", err)
	if err != nil {
		return model.Walker{}, mapReadError("get walker", err)
	}
	if result.Item == nil {
		return model.Walker{}, model.ErrNotFound
	}

	w, err := unmarshalWalker(result.Item)
	if err != nil {
		return model.Walker{}, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}
	return w, nil
}

// Insert creates a walker with a generated id and no animals.
func (s *Store) Insert(ctx context.Context, name string) (model.Walker, error) {
	id := model.NewWalkerID()
	nowISO := time.Now().UTC().Format(time.RFC3339)

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.TableName),
		Item:                newWalkerItem(id, name, nowISO),
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	s.observe("put", err)
	if err != nil {
		return model.Walker{}, mapWriteError("insert walker", err, errIDCollision)
	}

	return model.Walker{ID: id, Name: name, AnimalIDs: []int64{}}, nil
}

// AppendAnimalID adds animalID to the end of the walker's animal id list in a
// single conditional update. It is not idempotent: calling it twice with the
// same id stores the id twice.
func (s *Store) AppendAnimalID(ctx context.Context, walkerID model.WalkerID, animalID int64) error {
	ids, err := attributevalue.MarshalList([]int64{animalID})
	if err != nil {
		return fmt.Errorf("marshal animal id: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       walkerKey(walkerID),
		UpdateExpression: aws.String(
			"SET #animal_ids = list_append(if_not_exists(#animal_ids, :empty), :ids), " +
				"#updated_at = :now, #version = if_not_exists(#version, :zero) + :one"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{
			"#animal_ids": attrAnimalIDs,
			"#updated_at": attrUpdatedAt,
			"#version":    attrVersion,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ids":   &types.AttributeValueMemberL{Value: ids},
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":now":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
			":zero":  &types.AttributeValueMemberN{Value: "0"},
			":one":   &types.AttributeValueMemberN{Value: "1"},
		},
	})
	s.observe("append", err)

	return mapWriteError(fmt.Sprintf("append animal %d to walker %s", animalID, walkerID), err, model.ErrNotFound)
}
