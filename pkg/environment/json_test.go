package environment

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/valueobject"
)

func buildEnv(t *testing.T) Environment {
	t.Helper()
	name, err := valueobject.NewEnvironmentName("roundtrip")
	require.NoError(t, err)
	username, err := valueobject.NewUsername("deploy")
	require.NoError(t, err)
	creds, err := valueobject.NewSshCredentials("/k", "/k.pub", username, 0)
	require.NoError(t, err)

	inputs := UserInputs{
		Name:           name,
		SSHCredentials: creds,
		Provider:       config.HetznerProviderConfig{ServerType: "cx22", Region: "fsn1"},
		Tracker: config.TrackerConfig{
			Core: config.CoreConfig{Database: config.DatabaseConfig{Type: "sqlite", Path: "t.db"}},
		},
	}
	internal := DeriveInternalConfig("/ws", name, "")
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	env := New(inputs, internal, now)
	env, err = env.BeginProvisioning(now)
	require.NoError(t, err)
	env, err = env.CompleteProvisioning(net.ParseIP("10.0.0.5"), now)
	require.NoError(t, err)
	return env
}

func TestEnvironmentJSONRoundTrip(t *testing.T) {
	env := buildEnv(t)

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var restored Environment
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, env.State, restored.State)
	assert.Equal(t, env.UserInputs.Name, restored.UserInputs.Name)
	assert.True(t, env.RuntimeOutputs.InstanceIP.Equal(restored.RuntimeOutputs.InstanceIP))

	hetzner, ok := restored.UserInputs.Provider.(config.HetznerProviderConfig)
	require.True(t, ok)
	assert.Equal(t, "cx22", hetzner.ServerType)
}

func TestEnvironmentJSONPreservesFailureContext(t *testing.T) {
	env := buildEnv(t)
	now := time.Date(2026, 3, 4, 5, 7, 0, 0, time.UTC)
	env, err := env.BeginConfiguring(now)
	require.NoError(t, err)
	env = env.FailConfiguring(FailureContext{Step: "install_container_runtime", ErrorKind: "external_tool", TraceID: "trace-1", Timestamp: now}, now)

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var restored Environment
	require.NoError(t, json.Unmarshal(data, &restored))
	require.NotNil(t, restored.LastFailure)
	assert.Equal(t, Step("install_container_runtime"), restored.LastFailure.Step)
	assert.Equal(t, "trace-1", restored.LastFailure.TraceID)
	assert.Equal(t, StateConfigureFailed, restored.State)
}
