package valueobject

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/torrust/tracker-deployer/pkg/apperror"
)

// ServiceEndpoint is a validated URL plus the port it was declared
// against — used for the HTTP tracker, HTTP API, health-check API, and
// Grafana/Prometheus dashboards once provisioned.
type ServiceEndpoint struct {
	url  *url.URL
	port uint16
}

// NewServiceEndpoint parses rawURL and validates it carries an explicit,
// non-zero port matching port.
func NewServiceEndpoint(rawURL string, port uint16) (ServiceEndpoint, error) {
	if port == 0 {
		return ServiceEndpoint{}, apperror.New(apperror.KindConfiguration, "valueobject.NewServiceEndpoint: port must be non-zero")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ServiceEndpoint{}, apperror.Wrap(apperror.KindConfiguration, "valueobject.NewServiceEndpoint", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return ServiceEndpoint{}, apperror.New(apperror.KindConfiguration, "valueobject.NewServiceEndpoint: URL must be absolute")
	}
	return ServiceEndpoint{url: parsed, port: port}, nil
}

func (e ServiceEndpoint) String() string {
	if e.url == nil {
		return ""
	}
	return e.url.String()
}

func (e ServiceEndpoint) Port() uint16 {
	return e.port
}

func (e ServiceEndpoint) IsZero() bool {
	return e.url == nil
}

func (e ServiceEndpoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		URL  string `json:"url"`
		Port uint16 `json:"port"`
	}{URL: e.String(), Port: e.port})
}

func (e *ServiceEndpoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		URL  string `json:"url"`
		Port uint16 `json:"port"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewServiceEndpoint(raw.URL, raw.Port)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Protocol is the transport-layer tag for a BindingAddress.
type Protocol string

const (
	ProtocolUDP Protocol = "udp"
	ProtocolTCP Protocol = "tcp"
)

// BindingAddress is a validated host:port pair tagged with the protocol
// it is bound under, used for tracker UDP/HTTP listeners and the API
// binds. Every environment's set of bindings must be unique per
// (protocol, port) pair — that invariant is enforced by the environment
// aggregate, not here, since it's a cross-binding constraint.
type BindingAddress struct {
	host     string
	port     uint16
	protocol Protocol
}

// NewBindingAddress validates host and port and tags the result with
// protocol.
func NewBindingAddress(host string, port uint16, protocol Protocol) (BindingAddress, error) {
	if host == "" {
		return BindingAddress{}, apperror.New(apperror.KindConfiguration, "valueobject.NewBindingAddress: empty host")
	}
	if port == 0 {
		return BindingAddress{}, apperror.New(apperror.KindConfiguration, "valueobject.NewBindingAddress: port must be non-zero")
	}
	switch protocol {
	case ProtocolUDP, ProtocolTCP:
	default:
		return BindingAddress{}, apperror.New(apperror.KindConfiguration, fmt.Sprintf("valueobject.NewBindingAddress: unknown protocol %q", protocol))
	}
	return BindingAddress{host: host, port: port, protocol: protocol}, nil
}

func (b BindingAddress) Host() string {
	return b.host
}

func (b BindingAddress) Port() uint16 {
	return b.port
}

func (b BindingAddress) Protocol() Protocol {
	return b.protocol
}

// IsLocalhost reports whether the binding's host resolves to the local
// loopback interface, used by steps that decide whether a firewall rule
// is needed at all.
func (b BindingAddress) IsLocalhost() bool {
	switch b.host {
	case "127.0.0.1", "::1", "localhost":
		return true
	default:
		return false
	}
}

func (b BindingAddress) String() string {
	return fmt.Sprintf("%s://%s:%d", b.protocol, b.host, b.port)
}

// Key identifies the (protocol, port) pair used to enforce the
// at-most-one-binding-per-pair invariant.
func (b BindingAddress) Key() string {
	return fmt.Sprintf("%s/%d", b.protocol, b.port)
}

func (b BindingAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Host     string   `json:"host"`
		Port     uint16   `json:"port"`
		Protocol Protocol `json:"protocol"`
	}{Host: b.host, Port: b.port, Protocol: b.protocol})
}

func (b *BindingAddress) UnmarshalJSON(data []byte) error {
	var raw struct {
		Host     string   `json:"host"`
		Port     uint16   `json:"port"`
		Protocol Protocol `json:"protocol"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewBindingAddress(raw.Host, raw.Port, raw.Protocol)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
