package environment

import (
	"encoding/json"

	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/valueobject"
)

// userInputsEnvelope mirrors UserInputs for JSON purposes, substituting a
// raw provider field so MarshalProviderConfig/UnmarshalProviderConfig can
// resolve its tagged union the same way config.Config's own
// MarshalJSON/UnmarshalJSON do.
type userInputsEnvelope struct {
	Name           valueobject.EnvironmentName `json:"name"`
	SSHCredentials valueobject.SshCredentials  `json:"ssh_credentials"`
	Provider       json.RawMessage             `json:"provider"`
	Tracker        config.TrackerConfig        `json:"tracker"`
	HTTPS          *config.HTTPSConfig         `json:"https,omitempty"`
	Prometheus     *config.PrometheusConfig    `json:"prometheus,omitempty"`
	Grafana        *config.GrafanaConfig       `json:"grafana,omitempty"`
	Backup         *config.BackupConfig        `json:"backup,omitempty"`
}

// environmentEnvelope is the on-disk shape of data/<env-name>/state.json
// (spec §6.2): name, state (with failure context folded into
// last_failure), user_inputs verbatim, internal_config, runtime_outputs.
type environmentEnvelope struct {
	UserInputs     userInputsEnvelope `json:"user_inputs"`
	InternalConfig InternalConfig     `json:"internal_config"`
	RuntimeOutputs RuntimeOutputs     `json:"runtime_outputs"`
	State          State              `json:"state"`
	LastFailure    *FailureContext    `json:"last_failure,omitempty"`
}

// MarshalJSON implements json.Marshaler, resolving the provider tagged
// union the same way config.Config does.
func (e Environment) MarshalJSON() ([]byte, error) {
	providerJSON, err := config.MarshalProviderConfig(e.UserInputs.Provider)
	if err != nil {
		return nil, err
	}
	env := environmentEnvelope{
		UserInputs: userInputsEnvelope{
			Name:           e.UserInputs.Name,
			SSHCredentials: e.UserInputs.SSHCredentials,
			Provider:       providerJSON,
			Tracker:        e.UserInputs.Tracker,
			HTTPS:          e.UserInputs.HTTPS,
			Prometheus:     e.UserInputs.Prometheus,
			Grafana:        e.UserInputs.Grafana,
			Backup:         e.UserInputs.Backup,
		},
		InternalConfig: e.InternalConfig,
		RuntimeOutputs: e.RuntimeOutputs,
		State:          e.State,
		LastFailure:    e.LastFailure,
	}
	return json.Marshal(env)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Environment) UnmarshalJSON(data []byte) error {
	var env environmentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	provider, err := config.UnmarshalProviderConfig(env.UserInputs.Provider)
	if err != nil {
		return err
	}
	e.UserInputs = UserInputs{
		Name:           env.UserInputs.Name,
		SSHCredentials: env.UserInputs.SSHCredentials,
		Provider:       provider,
		Tracker:        env.UserInputs.Tracker,
		HTTPS:          env.UserInputs.HTTPS,
		Prometheus:     env.UserInputs.Prometheus,
		Grafana:        env.UserInputs.Grafana,
		Backup:         env.UserInputs.Backup,
	}
	e.InternalConfig = env.InternalConfig
	e.RuntimeOutputs = env.RuntimeOutputs
	e.State = env.State
	e.LastFailure = env.LastFailure
	return nil
}
