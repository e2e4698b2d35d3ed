package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGRVStatusJSON(t *testing.T) {
	data, err := json.Marshal(GRVStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, `"confirmed"`, string(data))

	var s GRVStatus
	require.NoError(t, json.Unmarshal([]byte(`"cancelled"`), &s))
	assert.Equal(t, GRVStatusCancelled, s)

	require.NoError(t, json.Unmarshal([]byte(`0`), &s))
	assert.Equal(t, GRVStatusPending, s)

	assert.Error(t, json.Unmarshal([]byte(`"archived"`), &s))
}

func TestGRVStatusTerminal(t *testing.T) {
	assert.False(t, GRVStatusPending.IsTerminal())
	assert.True(t, GRVStatusConfirmed.IsTerminal())
	assert.True(t, GRVStatusCancelled.IsTerminal())
}

func TestUnitTypeIsValid(t *testing.T) {
	for _, u := range []UnitType{UnitTypeKG, UnitTypeLTRS, UnitTypeEACH, UnitTypePACK} {
		assert.True(t, u.IsValid(), u)
	}
	assert.False(t, UnitType("GRAMS").IsValid())
	assert.False(t, UnitType("kg").IsValid())
}
