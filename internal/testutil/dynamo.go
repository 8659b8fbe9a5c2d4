// Package testutil provides in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// FakeDynamo is an in-memory stand-in for the DynamoDB calls docstore issues.
//
// It keys items on the "id" string attribute, scans in insertion order, and
// understands the list_append update shape docstore uses: the ":ids" list value
// is appended to "animal_ids". Condition expressions are honoured only for the
// attribute_exists(id) / attribute_not_exists(id) forms.
type FakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	order []string
	calls map[string]int
	table string

	// Fail, when set, is consulted before every call; a non-nil result is
	// returned as the call's error without touching state.
	Fail func(op string) error
}

// NewFakeDynamo returns an empty fake table.
func NewFakeDynamo() *FakeDynamo {
	return &FakeDynamo{
		items: make(map[string]map[string]types.AttributeValue),
		calls: make(map[string]int),
	}
}

// Calls returns how many times op ("GetItem", "PutItem", "UpdateItem", "Scan") was invoked.
func (f *FakeDynamo) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Item returns a copy of the stored item with the given id, or nil.
func (f *FakeDynamo) Item(id string) map[string]types.AttributeValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return nil
	}
	return copyItem(item)
}

// Put stores an item directly, bypassing conditions and failure injection.
func (f *FakeDynamo) Put(item map[string]types.AttributeValue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := stringAttr(item, "id")
	if _, ok := f.items[id]; !ok {
		f.order = append(f.order, id)
	}
	f.items[id] = copyItem(item)
}

func (f *FakeDynamo) begin(op string) error {
	f.calls[op]++
	if f.Fail != nil {
		return f.Fail(op)
	}
	return nil
}

// GetItem implements docstore.API.
func (f *FakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("GetItem"); err != nil {
		return nil, err
	}
	item, ok := f.items[stringAttr(in.Key, "id")]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

// PutItem implements docstore.API.
func (f *FakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("PutItem"); err != nil {
		return nil, err
	}
	id := stringAttr(in.Item, "id")
	_, exists := f.items[id]
	if exists && in.ConditionExpression != nil && *in.ConditionExpression == "attribute_not_exists(id)" {
		return nil, &types.ConditionalCheckFailedException{Message: strPtr("item exists")}
	}
	if !exists {
		f.order = append(f.order, id)
	}
	f.items[id] = copyItem(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// UpdateItem implements docstore.API.
func (f *FakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("UpdateItem"); err != nil {
		return nil, err
	}
	item, ok := f.items[stringAttr(in.Key, "id")]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{Message: strPtr("item missing")}
	}

	var current []types.AttributeValue
	if l, ok := item["animal_ids"].(*types.AttributeValueMemberL); ok {
		current = append(current, l.Value...)
	}
	if l, ok := in.ExpressionAttributeValues[":ids"].(*types.AttributeValueMemberL); ok {
		current = append(current, l.Value...)
	}
	item["animal_ids"] = &types.AttributeValueMemberL{Value: current}

	if now, ok := in.ExpressionAttributeValues[":now"]; ok {
		item["updated_at"] = now
	}
	var version int64
	if v, ok := item["version"].(*types.AttributeValueMemberN); ok {
		version, _ = strconv.ParseInt(v.Value, 10, 64)
	}
	item["version"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(version+1, 10)}

	return &dynamodb.UpdateItemOutput{}, nil
}

// Scan implements docstore.API. It honours Limit and ExclusiveStartKey so
// paginators see more than one page.
func (f *FakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Scan"); err != nil {
		return nil, err
	}

	start := 0
	if in.ExclusiveStartKey != nil {
		after := stringAttr(in.ExclusiveStartKey, "id")
		for i, id := range f.order {
			if id == after {
				start = i + 1
				break
			}
		}
	}

	limit := len(f.order)
	if in.Limit != nil && int(*in.Limit) > 0 {
		limit = int(*in.Limit)
	}

	out := &dynamodb.ScanOutput{}
	end := start
	for end < len(f.order) && len(out.Items) < limit {
		out.Items = append(out.Items, copyItem(f.items[f.order[end]]))
		end++
	}
	if end < len(f.order) && len(out.Items) > 0 {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: f.order[end-1]},
		}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

// CreateTable implements docstore.TableAPI. The fake holds a single table.
func (f *FakeDynamo) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("CreateTable"); err != nil {
		return nil, err
	}
	if f.table != "" {
		return nil, &types.ResourceInUseException{Message: strPtr("table exists")}
	}
	f.table = *in.TableName
	return &dynamodb.CreateTableOutput{TableDescription: f.describe()}, nil
}

// DescribeTable implements docstore.TableAPI. Created tables are immediately active.
func (f *FakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("DescribeTable"); err != nil {
		return nil, err
	}
	if f.table == "" || f.table != *in.TableName {
		return nil, &types.ResourceNotFoundException{Message: strPtr("table not found")}
	}
	return &dynamodb.DescribeTableOutput{Table: f.describe()}, nil
}

func (f *FakeDynamo) describe() *types.TableDescription {
	name := f.table
	return &types.TableDescription{TableName: &name, TableStatus: types.TableStatusActive}
}

// FailOn returns a Fail hook that errors only for the named operation.
func FailOn(op string, err error) func(string) error {
	return func(got string) error {
		if got == op {
			return fmt.Errorf("fake %s: %w", op, err)
		}
		return nil
	}
}

func stringAttr(item map[string]types.AttributeValue, key string) string {
	if v, ok := item[key].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		if l, ok := v.(*types.AttributeValueMemberL); ok {
			out[k] = &types.AttributeValueMemberL{Value: append([]types.AttributeValue{}, l.Value...)}
			continue
		}
		out[k] = v
	}
	return out
}

func strPtr(s string) *string { return &s }
