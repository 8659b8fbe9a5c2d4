// Package stream provides DynamoDB Streams handlers for the walker table.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/jacentio/pawtrail/model"
	"github.com/jacentio/pawtrail/refsync"
)

// WalkerChecker compares a walker's animal id list with the animals table.
// *refsync.Synchronizer satisfies it.
type WalkerChecker interface {
	CheckWalker(ctx context.Context, walkerID model.WalkerID, animalIDs []int64) ([]refsync.Issue, error)
}

// Handler processes walker table stream events. It only reports; nothing is
// repaired.
type Handler struct {
	checker WalkerChecker
	logger  *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(checker WalkerChecker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		checker: checker,
		logger:  logger,
	}
}

// HandleWalkerChanges checks every inserted or modified walker whose animal id
// list changed. This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleWalkerChanges(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord processes a single DynamoDB stream record.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	if record.EventName != "INSERT" && record.EventName != "MODIFY" {
		return nil
	}

	newIDs := getNumberListAttr(record.Change.NewImage, "animal_ids")
	if record.EventName == "MODIFY" && equalIDs(getNumberListAttr(record.Change.OldImage, "animal_ids"), newIDs) {
		return nil
	}

	rawID := getStringAttr(record.Change.NewImage, "id")
	walkerID, err := model.ParseWalkerID(rawID)
	if err != nil {
		// Retrying cannot fix a malformed id.
		h.logger.Warn("skipping walker with malformed id",
			"eventID", record.EventID,
			"walkerID", rawID,
		)
		return nil
	}

	issues, err := h.checker.CheckWalker(ctx, walkerID, newIDs)
	if err != nil {
		return fmt.Errorf("check walker %s: %w", walkerID, err)
	}

	for _, issue := range issues {
		h.logger.Warn("walker references inconsistent animal",
			"walkerID", walkerID.String(),
			"animalID", issue.AnimalID,
			"problem", string(issue.Problem),
		)
	}

	h.logger.Info("walker change checked",
		"walkerID", walkerID.String(),
		"version", getNumberAttr(record.Change.NewImage, "version"),
		"animalIDs", len(newIDs),
		"issues", len(issues),
	)

	return nil
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}

// getNumberAttr extracts a number attribute from a DynamoDB stream image.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) int64 {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeNumber {
			n, _ := strconv.ParseInt(v.Number(), 10, 64)
			return n
		}
	}
	return 0
}

// getNumberListAttr extracts the integer elements of a list attribute from a
// DynamoDB stream image. Non-numeric elements are skipped.
func getNumberListAttr(image map[string]events.DynamoDBAttributeValue, key string) []int64 {
	v, ok := image[key]
	if !ok || v.DataType() != events.DataTypeList {
		return nil
	}
	var result []int64
	for _, item := range v.List() {
		if item.DataType() != events.DataTypeNumber {
			continue
		}
		n, err := strconv.ParseInt(item.Number(), 10, 64)
		if err != nil {
			continue
		}
		result = append(result, n)
	}
	return result
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
