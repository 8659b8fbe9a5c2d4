package model

import "errors"

var (
	// ErrStoreUnavailable is returned when a backing store cannot be reached or fails
	// for reasons unrelated to the request itself.
	ErrStoreUnavailable = errors.New("pawtrail: store unavailable")

	// ErrWriteRejected is returned when a store refuses a write (constraint or shape violation).
	ErrWriteRejected = errors.New("pawtrail: write rejected")

	// ErrNotFound is returned when a keyed lookup misses.
	ErrNotFound = errors.New("pawtrail: entity not found")

	// ErrPartialWrite is returned when an animal row was inserted but its walker
	// could not be updated to reference it.
	ErrPartialWrite = errors.New("pawtrail: partial write, walker reference missing")

	// ErrInvalidWalkerID is returned when text does not parse as a walker id.
	ErrInvalidWalkerID = errors.New("pawtrail: invalid walker id")
)

// Kind names reported to callers alongside field errors.
const (
	KindStoreUnavailable = "STORE_UNAVAILABLE"
	KindWriteRejected    = "WRITE_REJECTED"
	KindNotFound         = "NOT_FOUND"
	KindPartialWrite     = "PARTIAL_WRITE"
	KindInternal         = "INTERNAL"
)

// KindOf classifies err into one of the Kind constants.
// Partial writes win over the underlying cause so callers know the row exists.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPartialWrite):
		return KindPartialWrite
	case errors.Is(err, ErrWriteRejected), errors.Is(err, ErrInvalidWalkerID):
		return KindWriteRejected
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
