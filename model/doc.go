// Package model holds the domain types shared by both stores and the resolver layer.
//
// Walkers live in the document store, animals in the relational store. The only
// link between them is a [WalkerID] kept on each side: the walker's AnimalIDs list
// and the animal's WalkerID column.
//
// # Errors
//
//   - [ErrStoreUnavailable] - connectivity or unexpected store failure
//   - [ErrWriteRejected] - constraint or shape violation on write
//   - [ErrNotFound] - keyed lookup miss
//   - [ErrPartialWrite] - animal inserted but walker reference not appended
//   - [ErrInvalidWalkerID] - malformed walker id text
package model
