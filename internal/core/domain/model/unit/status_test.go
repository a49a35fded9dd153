package unit_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/unit"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("valid statuses pass", func(t *testing.T) {
		for _, s := range []unit.Status{unit.Available, unit.Reserved, unit.Rented, unit.Maintenance, unit.Lost} {
			require.NoError(t, s.Validate())
		}
	})

	t.Run("unknown and out of range fail", func(t *testing.T) {
		require.ErrorIs(t, unit.Unknown.Validate(), errs.ErrValueIsInvalid)
		require.ErrorIs(t, unit.Status(99).Validate(), errs.ErrValueIsInvalid)
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Available", unit.Available.String())
	assert.Equal(t, "Reserved", unit.Reserved.String())
	assert.Equal(t, "Rented", unit.Rented.String())
	assert.Equal(t, "Maintenance", unit.Maintenance.String())
	assert.Equal(t, "Lost", unit.Lost.String())
	assert.Equal(t, "Unknown", unit.Status(42).String())
}

func TestStatus_TransitionTo(t *testing.T) {
	allowed := []struct{ from, to unit.Status }{
		{unit.Available, unit.Reserved},
		{unit.Reserved, unit.Available},
		{unit.Reserved, unit.Rented},
		{unit.Rented, unit.Available},
		{unit.Rented, unit.Maintenance},
		{unit.Rented, unit.Lost},
		{unit.Maintenance, unit.Available},
	}
	for _, tc := range allowed {
		t.Run(tc.from.String()+"_to_"+tc.to.String(), func(t *testing.T) {
			next, err := tc.from.TransitionTo(tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.to, next)
		})
	}

	forbidden := []struct{ from, to unit.Status }{
		{unit.Available, unit.Rented},
		{unit.Available, unit.Lost},
		{unit.Reserved, unit.Maintenance},
		{unit.Lost, unit.Available},
		{unit.Maintenance, unit.Rented},
	}
	for _, tc := range forbidden {
		t.Run(tc.from.String()+"_to_"+tc.to.String()+"_forbidden", func(t *testing.T) {
			_, err := tc.from.TransitionTo(tc.to)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}
}

func TestStatus_RequiresOrder(t *testing.T) {
	assert.True(t, unit.Reserved.RequiresOrder())
	assert.True(t, unit.Rented.RequiresOrder())
	assert.False(t, unit.Available.RequiresOrder())
	assert.False(t, unit.Maintenance.RequiresOrder())
	assert.False(t, unit.Lost.RequiresOrder())
}
