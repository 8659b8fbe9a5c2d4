package docstore

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/jacentio/pawtrail/model"
)

// --- Config Tests ---

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected Config
	}{
		{
			name:     "empty gets defaults",
			cfg:      Config{},
			expected: Config{TableName: "walkers", PageSize: 100},
		},
		{
			name:     "page size capped",
			cfg:      Config{TableName: "t", PageSize: 5000},
			expected: Config{TableName: "t", PageSize: 1000},
		},
		{
			name:     "negative page size reset",
			cfg:      Config{TableName: "t", PageSize: -1, ConsistentRead: true},
			expected: Config{TableName: "t", PageSize: 100, ConsistentRead: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.validate()
			if cfg != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, cfg)
			}
		})
	}
}

// --- unmarshalWalker Tests ---

func TestUnmarshalWalker_Full(t *testing.T) {
	id := model.NewWalkerID()
	raw := map[string]types.AttributeValue{
		"id":   &types.AttributeValueMemberS{Value: id.String()},
		"name": &types.AttributeValueMemberS{Value: "Alice"},
		"animal_ids": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberN{Value: "3"},
			&types.AttributeValueMemberN{Value: "1"},
		}},
		"version":    &types.AttributeValueMemberN{Value: "2"},
		"created_at": &types.AttributeValueMemberS{Value: "2024-01-01T00:00:00Z"},
	}

	w, err := unmarshalWalker(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID != id {
		t.Errorf("expected ID %q, got %q", id, w.ID)
	}
	if w.Name != "Alice" {
		t.Errorf("expected Name 'Alice', got %q", w.Name)
	}
	if len(w.AnimalIDs) != 2 || w.AnimalIDs[0] != 3 || w.AnimalIDs[1] != 1 {
		t.Errorf("expected AnimalIDs [3 1], got %v", w.AnimalIDs)
	}
}

func TestUnmarshalWalker_MissingAnimalIDs(t *testing.T) {
	raw := map[string]types.AttributeValue{
		"id":   &types.AttributeValueMemberS{Value: model.NewWalkerID().String()},
		"name": &types.AttributeValueMemberS{Value: "Bob"},
	}

	w, err := unmarshalWalker(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.AnimalIDs == nil || len(w.AnimalIDs) != 0 {
		t.Errorf("expected empty non-nil AnimalIDs, got %#v", w.AnimalIDs)
	}
}

func TestUnmarshalWalker_InvalidID(t *testing.T) {
	raw := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: "W1"},
	}

	_, err := unmarshalWalker(raw)
	if !errors.Is(err, model.ErrInvalidWalkerID) {
		t.Errorf("expected ErrInvalidWalkerID, got %v", err)
	}
}

func TestNewWalkerItem(t *testing.T) {
	id := model.NewWalkerID()
	item := newWalkerItem(id, "Alice", "2024-01-01T00:00:00Z")

	if v, ok := item["id"].(*types.AttributeValueMemberS); !ok || v.Value != id.String() {
		t.Error("expected id attribute")
	}
	l, ok := item["animal_ids"].(*types.AttributeValueMemberL)
	if !ok {
		t.Fatal("expected animal_ids list attribute")
	}
	if len(l.Value) != 0 {
		t.Errorf("expected empty animal_ids, got %d entries", len(l.Value))
	}
	if v, ok := item["version"].(*types.AttributeValueMemberN); !ok || v.Value != "1" {
		t.Error("expected version 1")
	}
}

// --- Error Mapping Tests ---

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    error
		missing bool
	}{
		{
			name:    "conditional check",
			err:     &types.ConditionalCheckFailedException{},
			kind:    model.ErrWriteRejected,
			missing: true,
		},
		{
			name: "validation",
			err:  &smithy.GenericAPIError{Code: "ValidationException", Message: "item too large"},
			kind: model.ErrWriteRejected,
		},
		{
			name: "throttling",
			err:  &smithy.GenericAPIError{Code: "ThrottlingException"},
			kind: model.ErrStoreUnavailable,
		},
		{
			name: "transport",
			err:  errors.New("dial tcp: connection refused"),
			kind: model.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapWriteError("op", tt.err, model.ErrNotFound)
			if !errors.Is(got, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, got)
			}
			if errors.Is(got, model.ErrNotFound) != tt.missing {
				t.Errorf("expected ErrNotFound wrapped=%v, got %v", tt.missing, got)
			}
		})
	}
}

func TestMapWriteError_Nil(t *testing.T) {
	if err := mapWriteError("op", nil, model.ErrNotFound); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := mapReadError("op", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
