package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed indicates a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, NewNameBasedUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies entities and aggregates. It wraps github.com/google/uuid so the
// domain never passes raw library values around, and its zero value is invalid.
//
//	shipmentID := kernel.NewUUID()
//	itemID := kernel.NewNameBasedUUID(shipmentID, "0:SKU-1")
//	parsed, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) UUID.
func NewUUID() UUID {
	return UUID{
		id: uuid.New(),
	}
}

// NewNameBasedUUID derives a stable (version 5) UUID from a parent id and a name.
// The same inputs always produce the same id, which lets rebuilt child rows keep
// their identity across re-runs.
func NewNameBasedUUID(parent UUID, name string) UUID {
	return UUID{
		id: uuid.NewSHA1(parent.id, []byte(name)),
	}
}

// UUIDFromString parses any format accepted by uuid.Parse.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes builds a UUID from its 16-byte form and rejects the nil UUID.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying uuid.UUID value, mainly for persistence mapping.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Compare orders UUIDs by their canonical string form.
func (u UUID) Compare(other UUID) int {
	return strings.Compare(u.String(), other.String())
}

// Validate returns ErrUUIDIsNotConstructed for the nil UUID.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
