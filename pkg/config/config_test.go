package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfigJSON() string {
	return `{
		"environment": {"name": "staging-01"},
		"ssh_credentials": {
			"ssh_priv_key_path": "/keys/id_ed25519",
			"ssh_pub_key_path": "/keys/id_ed25519.pub",
			"ssh_username": "deploy"
		},
		"provider": {"type": "lxd", "profile_name": "default"},
		"tracker": {
			"core": {"database": {"type": "sqlite", "path": "tracker.db"}, "private": false},
			"udp_trackers": [{"bind_address": "0.0.0.0:6969"}],
			"http_trackers": [{"bind_address": "0.0.0.0:7070"}],
			"http_api": {"bind_address": "127.0.0.1:1212", "access_token": "secret-token"},
			"health_check_api": {"bind_address": "127.0.0.1:1313"}
		}
	}`
}

func TestLoadParsesValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(validConfigJSON()), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "staging-01", cfg.Environment.Name)
	assert.Equal(t, "torrust-tracker-vm-staging-01", cfg.Environment.InstanceNameOrDefault())

	lxd, ok := cfg.Provider.(LXDProviderConfig)
	require.True(t, ok)
	assert.Equal(t, "default", lxd.ProfileName)
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadFailsOnMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsDuplicateBindingPair(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(validConfigJSON()), &cfg))
	cfg.Tracker.HTTPTrackers = append(cfg.Tracker.HTTPTrackers, HTTPTrackerConfig{BindAddress: "0.0.0.0:7070"})

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestValidateRejectsHTTPSWithoutHTTPSurface(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(validConfigJSON()), &cfg))
	cfg.Tracker.HTTPTrackers = nil
	cfg.Tracker.HTTPAPI.BindAddress = ""
	cfg.HTTPS = &HTTPSConfig{Domain: "tracker.example.com", Email: "ops@example.com"}

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestValidateAcceptsHTTPSWithAPISurface(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(validConfigJSON()), &cfg))
	cfg.Tracker.HTTPTrackers = nil
	cfg.HTTPS = &HTTPSConfig{Domain: "tracker.example.com", Email: "ops@example.com"}

	assert.NoError(t, Validate(cfg))
}

func TestValidateRejectsZeroRetentionDays(t *testing.T) {
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(validConfigJSON()), &cfg))
	cfg.Backup = &BackupConfig{Schedule: "0 3 * * *"}

	err := Validate(cfg)
	assert.Error(t, err)
}

func TestProviderConfigRoundTripsHetzner(t *testing.T) {
	raw := `{"type": "hetzner", "api_token": "hetzner-token", "server_type": "cx22", "region": "fsn1"}`
	provider, err := UnmarshalProviderConfig([]byte(raw))
	require.NoError(t, err)

	hetzner, ok := provider.(HetznerProviderConfig)
	require.True(t, ok)
	assert.Equal(t, "cx22", hetzner.ServerType)

	data, err := MarshalProviderConfig(provider)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"hetzner"`)
}
