package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "object not found",
			err:  errs.NewObjectNotFoundError("sessionID", "5d1c"),
			want: "object not found: sessionID 5d1c",
		},
		{
			name: "object not found with numeric id",
			err:  errs.NewObjectNotFoundError("sequenceNumber", 1042),
			want: "object not found: sequenceNumber 1042",
		},
		{
			name: "invalid",
			err:  errs.NewValueIsInvalidError("station type"),
			want: "value is invalid: station type",
		},
		{
			name: "invalid with cause",
			err:  errs.NewValueIsInvalidErrorWithCause("status", errors.New("cannot move from draft to completed")),
			want: "value is invalid: status (cause: cannot move from draft to completed)",
		},
		{
			name: "out of range",
			err:  errs.NewValueIsOutOfRangeError("order count", 30, 0, 25),
			want: "value is out of range: order count is 30, allowed 0..25",
		},
		{
			name: "required",
			err:  errs.NewValueIsRequiredError("sku"),
			want: "value is required: sku",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestValuesAreRenderedOnOneLine(t *testing.T) {
	err := errs.NewObjectNotFoundError("orderNumber", "  A-1\n\tB ")

	assert.Equal(t, "object not found: orderNumber A-1 B", err.Error())
}

func TestErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
	}{
		{errs.NewObjectNotFoundError("fingerprintID", "x"), errs.ErrObjectNotFound},
		{errs.NewValueIsInvalidError("weight"), errs.ErrValueIsInvalid},
		{errs.NewValueIsOutOfRangeError("spot", 0, 1, 25), errs.ErrValueIsOutOfRange},
		{errs.NewValueIsRequiredError("actor"), errs.ErrValueIsRequired},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("assign packaging: %w", tt.err)

		assert.ErrorIs(t, wrapped, tt.sentinel)
		for _, other := range []error{errs.ErrObjectNotFound, errs.ErrValueIsInvalid, errs.ErrValueIsOutOfRange, errs.ErrValueIsRequired} {
			if other != tt.sentinel {
				assert.NotErrorIs(t, wrapped, other)
			}
		}
	}
}

func TestJoinedValidationErrorsKeepEverySentinel(t *testing.T) {
	err := errors.Join(
		errs.NewValueIsRequiredError("sku"),
		errs.NewValueIsInvalidError("weight unit"),
	)

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.NotErrorIs(t, err, errs.ErrObjectNotFound)
}
