package docstore

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/jacentio/pawtrail/model"
)

// mapReadError wraps a DynamoDB read failure as ErrStoreUnavailable.
func mapReadError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", model.ErrStoreUnavailable, op, err)
}

// mapWriteError maps DynamoDB write errors onto the model error kinds.
// missing is returned (wrapped as a rejected write) when the condition
// expression fails.
func mapWriteError(op string, err, missing error) error {
	if err == nil {
		return nil
	}

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return fmt.Errorf("%w: %s: %w", model.ErrWriteRejected, op, missing)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationException" {
		return fmt.Errorf("%w: %s: %w", model.ErrWriteRejected, op, err)
	}

	return fmt.Errorf("%w: %s: %w", model.ErrStoreUnavailable, op, err)
}

// errIDCollision is reported when a freshly generated id already exists.
var errIDCollision = errors.New("walker id already exists")
