package valueobject

import (
	"github.com/torrust/tracker-deployer/pkg/apperror"
)

// DefaultSSHPort is used when a config omits an explicit port.
const DefaultSSHPort uint16 = 22

// SshCredentials is private-key path + public-key path + username + port.
// Paths are intentionally not checked against the filesystem at
// construction — templates referencing the key paths must be renderable
// before the keys themselves are generated.
type SshCredentials struct {
	PrivateKeyPath string
	PublicKeyPath  string
	Username       Username
	Port           uint16
}

// NewSshCredentials validates the username and fills in DefaultSSHPort
// when port is zero.
func NewSshCredentials(privateKeyPath, publicKeyPath string, username Username, port uint16) (SshCredentials, error) {
	if privateKeyPath == "" {
		return SshCredentials{}, apperror.New(apperror.KindConfiguration, "valueobject.NewSshCredentials: empty private key path")
	}
	if publicKeyPath == "" {
		return SshCredentials{}, apperror.New(apperror.KindConfiguration, "valueobject.NewSshCredentials: empty public key path")
	}
	if username.IsZero() {
		return SshCredentials{}, apperror.New(apperror.KindConfiguration, "valueobject.NewSshCredentials: username required")
	}
	if port == 0 {
		port = DefaultSSHPort
	}
	return SshCredentials{
		PrivateKeyPath: privateKeyPath,
		PublicKeyPath:  publicKeyPath,
		Username:       username,
		Port:           port,
	}, nil
}
