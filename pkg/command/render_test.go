package command

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/repository"
	"github.com/torrust/tracker-deployer/pkg/security"
)

func minimalConfigFile(t *testing.T, dir string) string {
	t.Helper()
	pubKey := filepath.Join(dir, "id.pub")
	require.NoError(t, os.WriteFile(pubKey, []byte("ssh-ed25519 AAAA test"), 0o600))
	privKey := filepath.Join(dir, "id")
	require.NoError(t, os.WriteFile(privKey, []byte("fake-key"), 0o600))

	cfg := config.Config{
		Environment:    config.EnvironmentSection{Name: "render-me"},
		SSHCredentials: config.SSHCredentialsSection{PrivateKeyPath: privKey, PublicKeyPath: pubKey, Username: "deploy"},
		Provider:       config.LXDProviderConfig{ProfileName: "default"},
		Tracker: config.TrackerConfig{
			Core:        config.CoreConfig{Database: config.DatabaseConfig{Type: "sqlite", Path: "tracker.db"}},
			UDPTrackers: []config.UDPTrackerConfig{{BindAddress: "0.0.0.0:6969"}},
			HTTPAPI:     config.HTTPAPIConfig{BindAddress: "127.0.0.1:1212", AccessToken: security.NewSecret("token")},
			HealthCheckAPI: config.HealthCheckAPIConfig{BindAddress: "127.0.0.1:1313"},
		},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(dir, "env.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRenderFromEnvFileWritesReleaseArtifacts(t *testing.T) {
	dir := t.TempDir()
	configPath := minimalConfigFile(t, dir)
	outputDir := filepath.Join(dir, "out")

	cmd := NewRenderCommand(Deps{Repository: repository.New(t.TempDir())})
	err := cmd.Execute(context.Background(), RenderOptions{ConfigPath: configPath, OutputDir: outputDir})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(outputDir, "release", "tracker.toml"))
	assert.FileExists(t, filepath.Join(outputDir, "release", "docker-compose.yml"))
}

func TestRenderRefusesNonEmptyOutputDirWithoutForce(t *testing.T) {
	dir := t.TempDir()
	configPath := minimalConfigFile(t, dir)
	outputDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "stale.txt"), []byte("x"), 0o600))

	cmd := NewRenderCommand(Deps{Repository: repository.New(t.TempDir())})
	err := cmd.Execute(context.Background(), RenderOptions{ConfigPath: configPath, OutputDir: outputDir})
	require.Error(t, err)
}
