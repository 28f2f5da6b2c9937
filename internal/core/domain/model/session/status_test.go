package session_test

import (
	"fmt"
	"testing"

	"fulfillment/internal/core/domain/model/session"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	assert.Equal(t, 0, int(session.Unknown))
	assert.Equal(t, 1, int(session.Draft))
	assert.Equal(t, 6, int(session.Cancelled))
}

func TestParseStatus(t *testing.T) {
	for _, name := range []string{"draft", "ready", "picking", "packing", "completed", "cancelled"} {
		t.Run(name, func(t *testing.T) {
			st, err := session.ParseStatus(name)

			require.NoError(t, err)
			assert.Equal(t, name, st.String())
		})
	}

	t.Run("rejects unknown", func(t *testing.T) {
		_, err := session.ParseStatus("unknown")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, session.Ready.Validate())
	require.Error(t, session.Unknown.Validate())
	require.Error(t, session.Status(99).Validate())
	assert.Equal(t, "unknown", session.Status(99).String())
}

func TestStatus_TransitionTo(t *testing.T) {
	allowed := map[session.Status][]session.Status{
		session.Draft:     {session.Ready, session.Cancelled},
		session.Ready:     {session.Draft, session.Picking, session.Cancelled},
		session.Picking:   {session.Packing, session.Cancelled},
		session.Packing:   {session.Completed, session.Cancelled},
		session.Completed: {},
		session.Cancelled: {},
	}
	all := []session.Status{session.Draft, session.Ready, session.Picking, session.Packing, session.Completed, session.Cancelled}

	for from, targets := range allowed {
		for _, to := range all {
			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				next, err := from.TransitionTo(to)

				if contains(targets, to) {
					require.NoError(t, err)
					assert.Equal(t, to, next)
					return
				}
				require.Error(t, err)
				assert.Contains(t, err.Error(), fmt.Sprintf("cannot move from %s to %s", from, to))
			})
		}
	}
}

func contains(list []session.Status, s session.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
