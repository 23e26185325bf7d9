// Package config defines the on-disk schema of the user-authored
// environment configuration file (a single JSON document) and the
// loader that turns it into validated pkg/valueobject and pkg/environment
// types.
package config

import (
	"fmt"

	"github.com/torrust/tracker-deployer/pkg/security"
)

// Config is the root of the JSON configuration document.
type Config struct {
	Environment    EnvironmentSection    `json:"environment"`
	SSHCredentials SSHCredentialsSection `json:"ssh_credentials"`
	Provider       ProviderConfig        `json:"provider"`
	Tracker        TrackerConfig         `json:"tracker"`
	HTTPS          *HTTPSConfig          `json:"https,omitempty"`
	Prometheus     *PrometheusConfig     `json:"prometheus,omitempty"`
	Grafana        *GrafanaConfig        `json:"grafana,omitempty"`
	Backup         *BackupConfig         `json:"backup,omitempty"`
}

// EnvironmentSection names the environment and optionally overrides its
// derived instance name.
type EnvironmentSection struct {
	Name         string `json:"name"`
	InstanceName string `json:"instance_name,omitempty"`
}

// InstanceNameOrDefault returns InstanceName, or the conventional
// "torrust-tracker-vm-<name>" default when unset.
func (e EnvironmentSection) InstanceNameOrDefault() string {
	if e.InstanceName != "" {
		return e.InstanceName
	}
	return fmt.Sprintf("torrust-tracker-vm-%s", e.Name)
}

// SSHCredentialsSection is the user-authored shape of SSH access; it
// becomes a valueobject.SshCredentials once validated.
type SSHCredentialsSection struct {
	PrivateKeyPath string `json:"ssh_priv_key_path"`
	PublicKeyPath  string `json:"ssh_pub_key_path"`
	Username       string `json:"ssh_username"`
	Port           uint16 `json:"ssh_port,omitempty"`
}

// HTTPSConfig enables an ACME-issued certificate in front of the HTTP
// surfaces.
type HTTPSConfig struct {
	Domain string `json:"domain"`
	Email  string `json:"email"`
}

// PrometheusConfig enables scraping of the tracker's metrics endpoint.
type PrometheusConfig struct {
	BindAddress string `json:"bind_address"`
}

// GrafanaConfig enables a bundled Grafana instance pre-wired to the
// Prometheus datasource.
type GrafanaConfig struct {
	BindAddress  string        `json:"bind_address"`
	AdminSecret  security.Secret `json:"admin_password"`
}

// BackupConfig is supplemented from original_source: a scheduled backup
// of the tracker's database.
type BackupConfig struct {
	RetentionDays int    `json:"retention_days"`
	Schedule      string `json:"schedule"`
	RemoteTarget  string `json:"remote_target,omitempty"`
}

// DatabaseConfig is a tagged union: SQLite (a filename) or MySQL (a DSN).
type DatabaseConfig struct {
	Type     string `json:"type"` // "sqlite" | "mysql"
	Path     string `json:"path,omitempty"`
	DSN      string `json:"dsn,omitempty"`
}

// CoreConfig mirrors original_source's tracker core section.
type CoreConfig struct {
	Database DatabaseConfig `json:"database"`
	Private  bool           `json:"private"`
}

// UDPTrackerConfig is one UDP tracker listener.
type UDPTrackerConfig struct {
	BindAddress    string `json:"bind_address"`
	AnnouncePolicy string `json:"announce_policy,omitempty"`
}

// TLSConfig is the optional per-listener TLS material, distinct from the
// top-level HTTPS/ACME configuration (a listener can terminate TLS with
// its own cert even without the reverse proxy).
type TLSConfig struct {
	CertPath string `json:"cert_path"`
	KeyPath  string `json:"key_path"`
}

// HTTPTrackerConfig is one HTTP tracker listener.
type HTTPTrackerConfig struct {
	BindAddress string     `json:"bind_address"`
	Policies    string     `json:"policies,omitempty"`
	TLS         *TLSConfig `json:"tls,omitempty"`
}

// HTTPAPIConfig is the tracker's management API.
type HTTPAPIConfig struct {
	BindAddress string        `json:"bind_address"`
	AccessToken security.Secret `json:"access_token"`
	TLS         *TLSConfig    `json:"tls,omitempty"`
}

// HealthCheckAPIConfig is the tracker's unauthenticated health endpoint.
type HealthCheckAPIConfig struct {
	BindAddress string `json:"bind_address"`
}

// TrackerConfig is the tracker application's own configuration, nested
// verbatim from original_source's config/tracker shape.
type TrackerConfig struct {
	Core           CoreConfig           `json:"core"`
	UDPTrackers    []UDPTrackerConfig   `json:"udp_trackers"`
	HTTPTrackers   []HTTPTrackerConfig  `json:"http_trackers"`
	HTTPAPI        HTTPAPIConfig        `json:"http_api"`
	HealthCheckAPI HealthCheckAPIConfig `json:"health_check_api"`
}
