package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceEndpointRequiresAbsoluteURL(t *testing.T) {
	_, err := NewServiceEndpoint("not-a-url", 443)
	assert.Error(t, err)
}

func TestNewServiceEndpointRequiresNonZeroPort(t *testing.T) {
	_, err := NewServiceEndpoint("https://tracker.example.com", 0)
	assert.Error(t, err)
}

func TestNewServiceEndpointRoundTrip(t *testing.T) {
	e, err := NewServiceEndpoint("https://tracker.example.com/announce", 443)
	require.NoError(t, err)
	assert.Equal(t, uint16(443), e.Port())

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded ServiceEndpoint
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, e.String(), decoded.String())
	assert.Equal(t, e.Port(), decoded.Port())
}

func TestNewBindingAddressValidatesProtocol(t *testing.T) {
	_, err := NewBindingAddress("0.0.0.0", 6969, "sctp")
	assert.Error(t, err)
}

func TestBindingAddressIsLocalhost(t *testing.T) {
	b, err := NewBindingAddress("127.0.0.1", 6969, ProtocolUDP)
	require.NoError(t, err)
	assert.True(t, b.IsLocalhost())

	b2, err := NewBindingAddress("0.0.0.0", 6969, ProtocolUDP)
	require.NoError(t, err)
	assert.False(t, b2.IsLocalhost())
}

func TestBindingAddressKeyIdentifiesProtocolPortPair(t *testing.T) {
	a, err := NewBindingAddress("0.0.0.0", 6969, ProtocolUDP)
	require.NoError(t, err)
	b, err := NewBindingAddress("10.0.0.5", 6969, ProtocolUDP)
	require.NoError(t, err)
	c, err := NewBindingAddress("0.0.0.0", 6969, ProtocolTCP)
	require.NoError(t, err)

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
