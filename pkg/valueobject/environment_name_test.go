package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvironmentNameAcceptsValidNames(t *testing.T) {
	for _, s := range []string{"a", "prod", "my-tracker-01", "a23456789012345678901234567890123456789012345678901234567890ab"} {
		n, err := NewEnvironmentName(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, n.String())
	}
}

func TestNewEnvironmentNameRejectsInvalidNames(t *testing.T) {
	cases := []string{"", "-leading", "trailing-", "Has-Upper", "has_underscore", "has space"}
	for _, s := range cases {
		_, err := NewEnvironmentName(s)
		assert.Error(t, err, s)
	}
}

func TestEnvironmentNameRejectsTooLong(t *testing.T) {
	long := ""
	for i := 0; i < 64; i++ {
		long += "a"
	}
	_, err := NewEnvironmentName(long)
	assert.Error(t, err)
}

func TestEnvironmentNameJSONRoundTrip(t *testing.T) {
	n, err := NewEnvironmentName("staging-01")
	require.NoError(t, err)

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `"staging-01"`, string(data))

	var decoded EnvironmentName
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, n, decoded)
}

func TestEnvironmentNameUnmarshalRejectsInvalid(t *testing.T) {
	var n EnvironmentName
	err := json.Unmarshal([]byte(`"Bad Name"`), &n)
	assert.Error(t, err)
}
