package docstore

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/pawtrail/model"
)

// Attribute names of a walker item.
const (
	attrID        = "id"
	attrName      = "name"
	attrAnimalIDs = "animal_ids"
	attrVersion   = "version"
	attrCreatedAt = "created_at"
	attrUpdatedAt = "updated_at"
)

// walkerItem is the stored shape of a walker.
type walkerItem struct {
	ID        string  `dynamodbav:"id"`
	Name      string  `dynamodbav:"name"`
	AnimalIDs []int64 `dynamodbav:"animal_ids"`
	Version   int64   `dynamodbav:"version"`
	CreatedAt string  `dynamodbav:"created_at"`
	UpdatedAt string  `dynamodbav:"updated_at"`
}

// walkerKey returns the primary key for a walker.
func walkerKey(id model.WalkerID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID: &types.AttributeValueMemberS{Value: id.String()},
	}
}

// newWalkerItem builds the item written on insert. animal_ids starts as an
// empty list rather than absent so list_append never sees a missing attribute.
func newWalkerItem(id model.WalkerID, name, nowISO string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID:        &types.AttributeValueMemberS{Value: id.String()},
		attrName:      &types.AttributeValueMemberS{Value: name},
		attrAnimalIDs: &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		attrVersion:   &types.AttributeValueMemberN{Value: "1"},
		attrCreatedAt: &types.AttributeValueMemberS{Value: nowISO},
		attrUpdatedAt: &types.AttributeValueMemberS{Value: nowISO},
	}
}

// unmarshalWalker converts a raw DynamoDB item to a Walker.
func unmarshalWalker(raw map[string]types.AttributeValue) (model.Walker, error) {
	var item walkerItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return model.Walker{}, fmt.Errorf("unmarshal walker: %w", err)
	}
	id, err := model.ParseWalkerID(item.ID)
	if err != nil {
		return model.Walker{}, fmt.Errorf("unmarshal walker: %w", err)
	}
	ids := item.AnimalIDs
	if ids == nil {
		ids = []int64{}
	}
	return model.Walker{ID: id, Name: item.Name, AnimalIDs: ids}, nil
}
