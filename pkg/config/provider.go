package config

import (
	"encoding/json"
	"fmt"

	"github.com/torrust/tracker-deployer/pkg/security"
)

// ProviderConfig is the tagged union of supported virtualization
// providers, serialized with a "type" discriminator field — the same
// discriminated-union JSON shape the teacher uses for its own resource
// manifests.
type ProviderConfig interface {
	providerType() string
}

// LXDProviderConfig targets a local LXD container via a named profile.
type LXDProviderConfig struct {
	ProfileName string
}

func (LXDProviderConfig) providerType() string { return "lxd" }

// HetznerProviderConfig targets a Hetzner Cloud VM.
type HetznerProviderConfig struct {
	APIToken   security.Secret
	ServerType string
	Region     string
}

func (HetznerProviderConfig) providerType() string { return "hetzner" }

type providerEnvelope struct {
	Type        string          `json:"type"`
	ProfileName string          `json:"profile_name,omitempty"`
	APIToken    security.Secret `json:"api_token,omitempty"`
	ServerType  string          `json:"server_type,omitempty"`
	Region      string          `json:"region,omitempty"`
}

// MarshalProviderConfig serializes p with its discriminator. ProviderConfig
// is exposed as an interface so Config can hold either provider directly;
// since Go has no sum-type marshaling, Config.MarshalJSON/UnmarshalJSON
// delegate to these two free functions.
func MarshalProviderConfig(p ProviderConfig) ([]byte, error) {
	switch v := p.(type) {
	case LXDProviderConfig:
		return json.Marshal(providerEnvelope{Type: "lxd", ProfileName: v.ProfileName})
	case HetznerProviderConfig:
		return json.Marshal(providerEnvelope{
			Type:       "hetzner",
			APIToken:   v.APIToken,
			ServerType: v.ServerType,
			Region:     v.Region,
		})
	default:
		return nil, fmt.Errorf("config: unknown provider type %T", p)
	}
}

// UnmarshalProviderConfig parses data's "type" discriminator and returns
// the matching concrete ProviderConfig.
func UnmarshalProviderConfig(data []byte) (ProviderConfig, error) {
	var env providerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Type {
	case "lxd":
		return LXDProviderConfig{ProfileName: env.ProfileName}, nil
	case "hetzner":
		return HetznerProviderConfig{
			APIToken:   env.APIToken,
			ServerType: env.ServerType,
			Region:     env.Region,
		}, nil
	case "":
		return nil, fmt.Errorf("config: provider.type is required")
	default:
		return nil, fmt.Errorf("config: unknown provider type %q", env.Type)
	}
}

// MarshalJSON implements json.Marshaler on Config's behalf for the
// provider field.
func (c Config) MarshalJSON() ([]byte, error) {
	providerJSON, err := MarshalProviderConfig(c.Provider)
	if err != nil {
		return nil, err
	}

	type alias struct {
		Environment    EnvironmentSection    `json:"environment"`
		SSHCredentials SSHCredentialsSection `json:"ssh_credentials"`
		Provider       json.RawMessage       `json:"provider"`
		Tracker        TrackerConfig         `json:"tracker"`
		HTTPS          *HTTPSConfig          `json:"https,omitempty"`
		Prometheus     *PrometheusConfig     `json:"prometheus,omitempty"`
		Grafana        *GrafanaConfig        `json:"grafana,omitempty"`
		Backup         *BackupConfig         `json:"backup,omitempty"`
	}
	return json.Marshal(alias{
		Environment:    c.Environment,
		SSHCredentials: c.SSHCredentials,
		Provider:       providerJSON,
		Tracker:        c.Tracker,
		HTTPS:          c.HTTPS,
		Prometheus:     c.Prometheus,
		Grafana:        c.Grafana,
		Backup:         c.Backup,
	})
}

// UnmarshalJSON implements json.Unmarshaler, resolving the provider's
// tagged union via its "type" discriminator.
func (c *Config) UnmarshalJSON(data []byte) error {
	type alias struct {
		Environment    EnvironmentSection    `json:"environment"`
		SSHCredentials SSHCredentialsSection `json:"ssh_credentials"`
		Provider       json.RawMessage       `json:"provider"`
		Tracker        TrackerConfig         `json:"tracker"`
		HTTPS          *HTTPSConfig          `json:"https,omitempty"`
		Prometheus     *PrometheusConfig     `json:"prometheus,omitempty"`
		Grafana        *GrafanaConfig        `json:"grafana,omitempty"`
		Backup         *BackupConfig         `json:"backup,omitempty"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	provider, err := UnmarshalProviderConfig(a.Provider)
	if err != nil {
		return err
	}
	c.Environment = a.Environment
	c.SSHCredentials = a.SSHCredentials
	c.Provider = provider
	c.Tracker = a.Tracker
	c.HTTPS = a.HTTPS
	c.Prometheus = a.Prometheus
	c.Grafana = a.Grafana
	c.Backup = a.Backup
	return nil
}
