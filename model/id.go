package model

import (
	"fmt"

	"github.com/google/uuid"
)

// WalkerID identifies a walker across both stores.
//
// The document store generates it and the relational store keeps it as text in
// the animals."walkerId" column. Construct values with [NewWalkerID] or
// [ParseWalkerID]; the zero value is not a valid id.
type WalkerID string

// NewWalkerID returns a fresh random walker id.
func NewWalkerID() WalkerID {
	return WalkerID(uuid.New().String())
}

// ParseWalkerID validates s and returns it as a WalkerID.
// Only the canonical lowercase hyphenated UUID form is accepted so the same
// walker never appears under two spellings in the relational column.
func ParseWalkerID(s string) (WalkerID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidWalkerID, s)
	}
	if u.String() != s {
		return "", fmt.Errorf("%w: %q is not canonical", ErrInvalidWalkerID, s)
	}
	return WalkerID(s), nil
}

// String returns the canonical text form.
func (id WalkerID) String() string { return string(id) }

// IsZero reports whether id is unset.
func (id WalkerID) IsZero() bool { return id == "" }

// Ptr returns a pointer to a copy of id, or nil when id is zero.
func (id WalkerID) Ptr() *WalkerID {
	if id.IsZero() {
		return nil
	}
	return &id
}

// MarshalText implements encoding.TextMarshaler.
func (id WalkerID) MarshalText() ([]byte, error) {
	return []byte(id), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and validates the input.
func (id *WalkerID) UnmarshalText(b []byte) error {
	parsed, err := ParseWalkerID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
