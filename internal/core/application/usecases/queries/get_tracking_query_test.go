package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetTrackingQuery_Valid(t *testing.T) {
	query, err := queries.NewGetTrackingQuery("TRK-64S36D1N6R")
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, "TRK-64S36D1N6R", query.TrackingCode().String())
}

func TestNewGetTrackingQuery_MalformedCode(t *testing.T) {
	testCases := []string{
		"",
		"64S36D1N6R",
		"TRK-",
		"TRK-TOOSHORT",
		"trk-64s36d1n6r-extra",
	}

	for _, code := range testCases {
		_, err := queries.NewGetTrackingQuery(code)
		require.Error(t, err, "code %q", code)
	}
}

func TestGetTrackingQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetTrackingQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetTrackingQueryIsNotConstructed)
}
