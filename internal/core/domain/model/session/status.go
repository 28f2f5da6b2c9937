package session

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a fulfillment session.
//
// State transitions:
//
//	Draft <──> Ready ──> Picking ──> Packing ──> Completed
//	  │          │          │           │
//	  └──────────┴──────────┴───────────┴──> Cancelled
//
// Completed and Cancelled are final.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Draft is the status of every newly built session. Its shipments are
	// reserved but nothing has been released to the floor.
	Draft

	// Ready sessions have been released and wait for a picker.
	Ready

	// Picking indicates items are being pulled from the shelves.
	Picking

	// Packing indicates the picked items are at the station.
	Packing

	// Completed is the final state of a fully packed session.
	Completed

	// Cancelled sessions released their shipments back to ready_to_session.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Draft:     "draft",
		Ready:     "ready",
		Picking:   "picking",
		Packing:   "packing",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// ParseStatus converts a stored or requested status name to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid. Unknown (0) is invalid.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsOpen reports whether the session still holds its shipments.
func (s Status) IsOpen() bool {
	return s == Draft || s == Ready || s == Picking || s == Packing
}

// TransitionTo returns target when the move from s is allowed.
//
// Valid transitions:
//   - Draft -> Ready (release)
//   - Ready -> Draft (pull back)
//   - Ready -> Picking
//   - Picking -> Packing
//   - Packing -> Completed
//   - any open status -> Cancelled
func (s Status) TransitionTo(target Status) (Status, error) {
	allowed := false
	switch target {
	case Ready:
		allowed = s == Draft
	case Draft:
		allowed = s == Ready
	case Picking:
		allowed = s == Ready
	case Packing:
		allowed = s == Picking
	case Completed:
		allowed = s == Packing
	case Cancelled:
		allowed = s.IsOpen()
	}

	if !allowed {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot move from %s to %s", s, target),
		)
	}
	return target, nil
}
