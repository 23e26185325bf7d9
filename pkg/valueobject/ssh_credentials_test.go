package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSshCredentialsDefaultsPort(t *testing.T) {
	user, err := NewUsername("deploy")
	require.NoError(t, err)

	creds, err := NewSshCredentials("/keys/id_ed25519", "/keys/id_ed25519.pub", user, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSSHPort, creds.Port)
}

func TestNewSshCredentialsDoesNotValidatePathsExist(t *testing.T) {
	user, err := NewUsername("deploy")
	require.NoError(t, err)

	_, err = NewSshCredentials("/does/not/exist", "/also/missing.pub", user, 22)
	assert.NoError(t, err)
}

func TestNewSshCredentialsRequiresUsername(t *testing.T) {
	_, err := NewSshCredentials("/keys/id_ed25519", "/keys/id_ed25519.pub", Username{}, 22)
	assert.Error(t, err)
}

func TestNewUsernameRejectsUppercase(t *testing.T) {
	_, err := NewUsername("Deploy")
	assert.Error(t, err)
}

func TestNewDomainNameRequiresTwoLabels(t *testing.T) {
	_, err := NewDomainName("localhost")
	assert.Error(t, err)

	d, err := NewDomainName("tracker.example.com")
	require.NoError(t, err)
	assert.Equal(t, "tracker.example.com", d.String())
}
