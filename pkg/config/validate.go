package config

import (
	"fmt"

	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/valueobject"
)

// Validate runs post-parse domain validation over cfg: value shapes
// (environment name, username), the HTTPS-requires-an-HTTP-surface
// invariant, and the at-most-one-binding-per-(protocol,port) invariant.
// Every failure is wrapped as KindConfiguration naming the offending
// field path, matching the spec's CreateConfigError contract.
func Validate(cfg Config) error {
	if _, err := valueobject.NewEnvironmentName(cfg.Environment.Name); err != nil {
		return fieldErr("environment.name", err)
	}
	if _, err := valueobject.NewUsername(cfg.SSHCredentials.Username); err != nil {
		return fieldErr("ssh_credentials.ssh_username", err)
	}
	if cfg.Provider == nil {
		return apperror.New(apperror.KindConfiguration, "config.Validate: provider is required")
	}

	if err := validateBindingUniqueness(cfg.Tracker); err != nil {
		return err
	}

	if cfg.HTTPS != nil {
		if _, err := valueobject.NewDomainName(cfg.HTTPS.Domain); err != nil {
			return fieldErr("https.domain", err)
		}
		if len(cfg.Tracker.HTTPTrackers) == 0 && cfg.Tracker.HTTPAPI.BindAddress == "" {
			return apperror.New(apperror.KindConfiguration,
				"config.Validate: https is configured but no http_trackers or http_api are defined to terminate it")
		}
	}

	if cfg.Backup != nil && cfg.Backup.RetentionDays == 0 {
		return fieldErr("backup.retention_days", apperror.New(apperror.KindConfiguration, "must be non-zero"))
	}

	return nil
}

func validateBindingUniqueness(t TrackerConfig) error {
	seen := make(map[string]string) // key -> field path that first claimed it

	claim := func(protocol valueobject.Protocol, addr, fieldPath string) error {
		binding, err := parseBindAddress(addr, protocol)
		if err != nil {
			return fieldErr(fieldPath, err)
		}
		key := binding.Key()
		if prior, ok := seen[key]; ok {
			return apperror.New(apperror.KindConfiguration,
				fmt.Sprintf("config.Validate: %s and %s both bind %s", prior, fieldPath, key))
		}
		seen[key] = fieldPath
		return nil
	}

	for i, u := range t.UDPTrackers {
		if err := claim(valueobject.ProtocolUDP, u.BindAddress, fmt.Sprintf("tracker.udp_trackers[%d].bind_address", i)); err != nil {
			return err
		}
	}
	for i, h := range t.HTTPTrackers {
		if err := claim(valueobject.ProtocolTCP, h.BindAddress, fmt.Sprintf("tracker.http_trackers[%d].bind_address", i)); err != nil {
			return err
		}
	}
	if t.HTTPAPI.BindAddress != "" {
		if err := claim(valueobject.ProtocolTCP, t.HTTPAPI.BindAddress, "tracker.http_api.bind_address"); err != nil {
			return err
		}
	}
	if t.HealthCheckAPI.BindAddress != "" {
		if err := claim(valueobject.ProtocolTCP, t.HealthCheckAPI.BindAddress, "tracker.health_check_api.bind_address"); err != nil {
			return err
		}
	}
	return nil
}

func fieldErr(path string, cause error) error {
	return apperror.Wrap(apperror.KindConfiguration, "config.Validate: "+path, cause)
}
