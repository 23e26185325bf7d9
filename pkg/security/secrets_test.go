package security

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretRedactsOnString(t *testing.T) {
	s := NewSecret("super-secret-token")
	assert.Equal(t, "***REDACTED***", s.String())
	assert.Equal(t, "***REDACTED***", fmt.Sprintf("%s", s))
}

func TestSecretEmptyStringIsNotRedacted(t *testing.T) {
	var s Secret
	assert.Equal(t, "", s.String())
	assert.True(t, s.IsEmpty())
}

func TestSecretExposeReturnsPlaintext(t *testing.T) {
	s := NewSecret("super-secret-token")
	assert.Equal(t, PlainSecret("super-secret-token"), s.Expose())
}

func TestSecretJSONRoundTripPreservesPlaintext(t *testing.T) {
	s := NewSecret("super-secret-token")

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `"super-secret-token"`, string(data))

	var decoded Secret
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s, decoded)
}

func TestSecretGoStringRedacts(t *testing.T) {
	s := NewSecret("super-secret-token")
	assert.NotContains(t, fmt.Sprintf("%#v", s), "super-secret-token")
}

func TestGenerateTokenIsRandomAndCorrectLength(t *testing.T) {
	a, err := GenerateToken(16)
	require.NoError(t, err)
	b, err := GenerateToken(16)
	require.NoError(t, err)

	assert.Len(t, a, 32) // hex-encoded
	assert.NotEqual(t, a, b)
}
