package template

import (
	"net"

	"github.com/torrust/tracker-deployer/pkg/apperror"
)

// AnsibleHost wraps a validated instance IP address the same way the
// spec's IpAddr-wrapping context fields do, so a context can never be
// built carrying an empty or malformed host.
type AnsibleHost struct {
	value string
}

// NewAnsibleHost validates ip as a parseable address.
func NewAnsibleHost(ip string) (AnsibleHost, error) {
	if net.ParseIP(ip) == nil {
		return AnsibleHost{}, apperror.New(apperror.KindTemplateRender, "template.NewAnsibleHost: not a valid IP address")
	}
	return AnsibleHost{value: ip}, nil
}

func (h AnsibleHost) String() string { return h.value }

// SshPrivateKeyFile wraps a path to the private key Ansible authenticates
// with; only non-emptiness is checked here, matching SshCredentials'
// own deferred existence validation.
type SshPrivateKeyFile struct {
	path string
}

// NewSshPrivateKeyFile validates path is non-empty.
func NewSshPrivateKeyFile(path string) (SshPrivateKeyFile, error) {
	if path == "" {
		return SshPrivateKeyFile{}, apperror.New(apperror.KindTemplateRender, "template.NewSshPrivateKeyFile: empty path")
	}
	return SshPrivateKeyFile{path: path}, nil
}

func (f SshPrivateKeyFile) String() string { return f.path }

// AnsibleInventoryContext parameterizes the Ansible inventory.yml
// template rendered after the instance IP is known.
type AnsibleInventoryContext struct {
	Host           AnsibleHost
	Username       string
	PrivateKeyFile SshPrivateKeyFile
	Port           uint16
}

// NewAnsibleInventoryContext validates every field is present before
// returning a usable context.
func NewAnsibleInventoryContext(host AnsibleHost, username string, keyFile SshPrivateKeyFile, port uint16) (AnsibleInventoryContext, error) {
	if username == "" {
		return AnsibleInventoryContext{}, apperror.New(apperror.KindTemplateRender, "template.NewAnsibleInventoryContext: username required")
	}
	if port == 0 {
		port = 22
	}
	return AnsibleInventoryContext{Host: host, Username: username, PrivateKeyFile: keyFile, Port: port}, nil
}

// CloudInitContext parameterizes the cloud-init user-data rendered at
// provision start, before any instance IP is known.
type CloudInitContext struct {
	InstanceName  string
	SshPublicKey  string
	Username      string
}

// NewCloudInitContext validates the fields cloud-init needs to create the
// deploy user and authorize its key.
func NewCloudInitContext(instanceName, sshPublicKey, username string) (CloudInitContext, error) {
	if instanceName == "" {
		return CloudInitContext{}, apperror.New(apperror.KindTemplateRender, "template.NewCloudInitContext: instance name required")
	}
	if sshPublicKey == "" {
		return CloudInitContext{}, apperror.New(apperror.KindTemplateRender, "template.NewCloudInitContext: ssh public key required")
	}
	if username == "" {
		return CloudInitContext{}, apperror.New(apperror.KindTemplateRender, "template.NewCloudInitContext: username required")
	}
	return CloudInitContext{InstanceName: instanceName, SshPublicKey: sshPublicKey, Username: username}, nil
}

// TofuVariablesContext parameterizes the provider-specific *.tfvars
// rendered at provision start.
type TofuVariablesContext struct {
	InstanceName string
	ProfileName  string // LXD only
	ServerType   string // Hetzner only
	Region       string // Hetzner only
}

// NewTofuVariablesContext validates instanceName is present; provider-
// specific fields are cross-checked by the caller against which provider
// is active, since exactly one of (ProfileName) or (ServerType, Region)
// applies.
func NewTofuVariablesContext(instanceName string) (TofuVariablesContext, error) {
	if instanceName == "" {
		return TofuVariablesContext{}, apperror.New(apperror.KindTemplateRender, "template.NewTofuVariablesContext: instance name required")
	}
	return TofuVariablesContext{InstanceName: instanceName}, nil
}

// UDPTrackerContext mirrors config.UDPTrackerConfig for template use.
type UDPTrackerContext struct {
	BindAddress string
}

// HTTPTrackerContext mirrors config.HTTPTrackerConfig for template use.
type HTTPTrackerContext struct {
	BindAddress string
}

// TrackerTomlContext parameterizes the tracker application's own
// tracker.toml, rendered at release time from the validated
// config.TrackerConfig carried on the environment's UserInputs.
type TrackerTomlContext struct {
	Private                bool
	DatabaseDriver          string
	DatabasePath            string
	DatabaseDSN             string
	UDPTrackers             []UDPTrackerContext
	HTTPTrackers            []HTTPTrackerContext
	HTTPAPIBindAddress      string
	HTTPAPIAccessToken      string
	HealthCheckBindAddress  string
}

// NewTrackerTomlContext validates the fields required for the tracker to
// start: at least one listener bound, and the management API configured.
func NewTrackerTomlContext(
	private bool,
	databaseDriver, databasePath, databaseDSN string,
	udpTrackers []UDPTrackerContext,
	httpTrackers []HTTPTrackerContext,
	httpAPIBindAddress, httpAPIAccessToken, healthCheckBindAddress string,
) (TrackerTomlContext, error) {
	if databaseDriver == "" {
		return TrackerTomlContext{}, apperror.New(apperror.KindTemplateRender, "template.NewTrackerTomlContext: database driver required")
	}
	if len(udpTrackers) == 0 && len(httpTrackers) == 0 {
		return TrackerTomlContext{}, apperror.New(apperror.KindTemplateRender, "template.NewTrackerTomlContext: at least one udp or http tracker listener required")
	}
	if httpAPIBindAddress == "" {
		return TrackerTomlContext{}, apperror.New(apperror.KindTemplateRender, "template.NewTrackerTomlContext: http_api bind address required")
	}
	if healthCheckBindAddress == "" {
		return TrackerTomlContext{}, apperror.New(apperror.KindTemplateRender, "template.NewTrackerTomlContext: health_check_api bind address required")
	}
	return TrackerTomlContext{
		Private:                private,
		DatabaseDriver:         databaseDriver,
		DatabasePath:           databasePath,
		DatabaseDSN:            databaseDSN,
		UDPTrackers:            udpTrackers,
		HTTPTrackers:           httpTrackers,
		HTTPAPIBindAddress:     httpAPIBindAddress,
		HTTPAPIAccessToken:     httpAPIAccessToken,
		HealthCheckBindAddress: healthCheckBindAddress,
	}, nil
}

// ComposeContext parameterizes the docker-compose.yml the release step
// uploads and the run step brings up.
type ComposeContext struct {
	TrackerImage          string
	PublishedPorts        []string
	PrometheusEnabled     bool
	PrometheusBindAddress string
	GrafanaEnabled        bool
	GrafanaBindAddress    string
	GrafanaAdminPassword  string
}

// NewComposeContext validates an image reference is set; the rest are
// optional toggles mirroring the environment's optional config sections.
func NewComposeContext(trackerImage string, publishedPorts []string) (ComposeContext, error) {
	if trackerImage == "" {
		return ComposeContext{}, apperror.New(apperror.KindTemplateRender, "template.NewComposeContext: tracker image required")
	}
	return ComposeContext{TrackerImage: trackerImage, PublishedPorts: publishedPorts}, nil
}

// CaddyContext parameterizes the reverse-proxy Caddyfile rendered when
// HTTPS is configured.
type CaddyContext struct {
	Domain      string
	Email       string
	UpstreamURL string
}

// NewCaddyContext validates all three fields are present — Caddy's ACME
// issuance needs a domain and an email, and the config is meaningless
// without an upstream to proxy to.
func NewCaddyContext(domain, email, upstreamURL string) (CaddyContext, error) {
	if domain == "" || email == "" || upstreamURL == "" {
		return CaddyContext{}, apperror.New(apperror.KindTemplateRender, "template.NewCaddyContext: domain, email, and upstream URL are all required")
	}
	return CaddyContext{Domain: domain, Email: email, UpstreamURL: upstreamURL}, nil
}
