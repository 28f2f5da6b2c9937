package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Entry is one collection bucket of a signature.
type Entry struct {
	CollectionID kernel.UUID
	Quantity     int
}

// Signature is the collection histogram of a shipment, sorted by collection id.
// Two shipments with equal histograms have equal signatures regardless of SKU,
// variant or line order.
type Signature struct {
	entries []Entry
}

// NewSignature builds a signature from per-collection quantities.
func NewSignature(quantities map[kernel.UUID]int) (Signature, error) {
	if len(quantities) == 0 {
		return Signature{}, errs.NewValueIsRequiredError("signature")
	}

	entries := make([]Entry, 0, len(quantities))
	for id, qty := range quantities {
		if err := id.Validate(); err != nil {
			return Signature{}, err
		}
		if qty <= 0 {
			return Signature{}, errs.NewValueIsInvalidErrorWithCause("signature",
				fmt.Errorf("collection %s has quantity %d", id, qty))
		}
		entries = append(entries, Entry{CollectionID: id, Quantity: qty})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return a.CollectionID.Compare(b.CollectionID) })

	return Signature{entries: entries}, nil
}

// SignatureFromMap restores a signature persisted as collection id -> quantity.
func SignatureFromMap(m map[string]int) (Signature, error) {
	quantities := make(map[kernel.UUID]int, len(m))
	for raw, qty := range m {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return Signature{}, err
		}
		quantities[id] = qty
	}
	return NewSignature(quantities)
}

func (s Signature) Entries() []Entry { return slices.Clone(s.entries) }
func (s Signature) IsEmpty() bool    { return len(s.entries) == 0 }

// Canonical is the serialized form that is hashed: "<collectionId>:<qty>" joined by "|".
func (s Signature) Canonical() string {
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = e.CollectionID.String() + ":" + strconv.Itoa(e.Quantity)
	}
	return strings.Join(parts, "|")
}

// Hash is the hex SHA-256 of the canonical form.
func (s Signature) Hash() string {
	sum := sha256.Sum256([]byte(s.Canonical()))
	return hex.EncodeToString(sum[:])
}

func (s Signature) TotalItems() int {
	total := 0
	for _, e := range s.entries {
		total += e.Quantity
	}
	return total
}

// Map exports the signature for jsonb storage.
func (s Signature) Map() map[string]int {
	m := make(map[string]int, len(s.entries))
	for _, e := range s.entries {
		m[e.CollectionID.String()] = e.Quantity
	}
	return m
}
