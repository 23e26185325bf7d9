package environment

import "github.com/torrust/tracker-deployer/pkg/config"

// providerTypeOf returns the discriminator string for a provider config,
// used for the list command's lightweight Summary projection.
func providerTypeOf(p config.ProviderConfig) string {
	switch p.(type) {
	case config.LXDProviderConfig:
		return "lxd"
	case config.HetznerProviderConfig:
		return "hetzner"
	default:
		return "unknown"
	}
}
