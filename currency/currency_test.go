package currency

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRupees(t *testing.T) {
	assert.Equal(t, Paise(129900), FromRupees(1299))
	assert.Equal(t, Paise(129950), FromRupees(1299.50))
	assert.Equal(t, Paise(1), FromRupees(0.005)) // half-up
	assert.Equal(t, Paise(0), FromRupees(0))
}

func TestPercentHalfUp(t *testing.T) {
	// 18% of ₹2000 = ₹360 exactly
	assert.Equal(t, Paise(36000), PercentHalfUp(Paise(200000), 18))
	// 18% of 3 paise = 0.54 paise -> 1 paisa
	assert.Equal(t, Paise(1), PercentHalfUp(Paise(3), 18))
	// 18% of 2 paise = 0.36 paise -> 0
	assert.Equal(t, Paise(0), PercentHalfUp(Paise(2), 18))
}

func TestJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Paise(129900))
	require.NoError(t, err)
	assert.Equal(t, "1299.00", string(b))

	var p Paise
	require.NoError(t, json.Unmarshal([]byte("12999"), &p))
	assert.Equal(t, Paise(1299900), p)

	require.NoError(t, json.Unmarshal([]byte("49.99"), &p))
	assert.Equal(t, Paise(4999), p)
}
