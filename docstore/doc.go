// Package docstore provides the DynamoDB data access layer for walkers.
//
// Each walker is a single item keyed by its [model.WalkerID]. The item carries
// the ordered list of animal ids referencing rows in the relational store; the
// list is only ever grown, through [Store.AppendAnimalID].
//
// # Configuration
//
// Use [DefaultConfig] for the conventional table name:
//
//	cfg := docstore.DefaultConfig()
//	cfg.TableName = "walkers-staging"
//	s := docstore.New(dynamoClient, cfg)
//
// # Errors
//
// All failures are wrapped in one of the model error kinds:
//
//   - [model.ErrNotFound] - FindByID miss
//   - [model.ErrWriteRejected] - conditional check or validation failure
//   - [model.ErrStoreUnavailable] - any other DynamoDB error
package docstore
