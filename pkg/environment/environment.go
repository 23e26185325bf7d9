package environment

import (
	"fmt"
	"net"

	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/valueobject"
)

// UserInputs is the immutable-after-creation part of the aggregate,
// carried verbatim from the parsed configuration file.
type UserInputs struct {
	Name           valueobject.EnvironmentName
	SSHCredentials valueobject.SshCredentials
	Provider       config.ProviderConfig
	Tracker        config.TrackerConfig
	HTTPS          *config.HTTPSConfig
	Prometheus     *config.PrometheusConfig
	Grafana        *config.GrafanaConfig
	Backup         *config.BackupConfig
}

// InternalConfig is derived once at creation from the workspace root and
// the environment name; it is never accepted as user input.
type InternalConfig struct {
	BuildDir     string
	DataDir      string
	InstanceName string
}

// DeriveInternalConfig computes build_dir/data_dir/instance_name from
// workspaceRoot, name, and the optional instance-name override.
func DeriveInternalConfig(workspaceRoot string, name valueobject.EnvironmentName, instanceNameOverride string) InternalConfig {
	instanceName := instanceNameOverride
	if instanceName == "" {
		instanceName = fmt.Sprintf("torrust-tracker-vm-%s", name.String())
	}
	return InternalConfig{
		BuildDir:     workspaceRoot + "/build/" + name.String(),
		DataDir:      workspaceRoot + "/data/" + name.String(),
		InstanceName: instanceName,
	}
}

// RuntimeOutputs is populated as the lifecycle progresses.
type RuntimeOutputs struct {
	InstanceIP        net.IP // nil until State.AtLeastProvisioned()
	CreatedAt         UtcTimestamp
	LastTransitionAt  UtcTimestamp
	FailedTransitions []FailureContext
}

// Environment is the aggregate root: user inputs, internal config,
// runtime outputs, and the current State, plus the failure context of
// the most recent failed transition (if State.IsFailure()).
type Environment struct {
	UserInputs     UserInputs
	InternalConfig InternalConfig
	RuntimeOutputs RuntimeOutputs
	State          State
	LastFailure    *FailureContext
}

// New constructs a freshly Created environment. It is the only
// constructor that does not require an existing Environment to
// transition from — every other state is reached via a transition
// method.
func New(inputs UserInputs, internalConfig InternalConfig, now UtcTimestamp) Environment {
	return Environment{
		UserInputs:     inputs,
		InternalConfig: internalConfig,
		State:          StateCreated,
		RuntimeOutputs: RuntimeOutputs{
			CreatedAt:        now,
			LastTransitionAt: now,
		},
	}
}

// transitionTo stamps now and moves to target, clearing any stale
// failure context on a successful-path transition.
func (e Environment) transitionTo(target State, now UtcTimestamp) Environment {
	e.State = target
	e.RuntimeOutputs.LastTransitionAt = now
	if !target.IsFailure() {
		e.LastFailure = nil
	}
	return e
}

// BeginProvisioning moves Created|ProvisionFailed -> Provisioning.
func (e Environment) BeginProvisioning(now UtcTimestamp) (Environment, error) {
	if err := requireOneOf(e.State, StateCreated, StateProvisionFailed); err != nil {
		return e, err
	}
	return e.transitionTo(StateProvisioning, now), nil
}

// CompleteProvisioning moves Provisioning -> Provisioned, recording the
// instance IP the IaC adapter reported.
func (e Environment) CompleteProvisioning(instanceIP net.IP, now UtcTimestamp) (Environment, error) {
	if err := requireOneOf(e.State, StateProvisioning); err != nil {
		return e, err
	}
	e.RuntimeOutputs.InstanceIP = instanceIP
	return e.transitionTo(StateProvisioned, now), nil
}

// FailProvisioning moves Provisioning -> ProvisionFailed, recording fc.
func (e Environment) FailProvisioning(fc FailureContext, now UtcTimestamp) Environment {
	e.LastFailure = &fc
	e.RuntimeOutputs.FailedTransitions = append(e.RuntimeOutputs.FailedTransitions, fc)
	return e.transitionTo(StateProvisionFailed, now)
}

// Register moves Created -> Provisioned directly, attaching an
// already-existing instance IP instead of running the provision steps.
// A register'ed environment that later needs re-provisioning must be
// destroyed first; ProvisionCommand's precondition set does not accept
// an environment reached via Register.
func (e Environment) Register(instanceIP net.IP, now UtcTimestamp) (Environment, error) {
	if err := requireOneOf(e.State, StateCreated); err != nil {
		return e, err
	}
	e.RuntimeOutputs.InstanceIP = instanceIP
	return e.transitionTo(StateProvisioned, now), nil
}

// FailRegister moves Created -> ProvisionFailed, matching §3.2's note
// that register's failure target is ProvisionFailed too.
func (e Environment) FailRegister(fc FailureContext, now UtcTimestamp) Environment {
	e.LastFailure = &fc
	e.RuntimeOutputs.FailedTransitions = append(e.RuntimeOutputs.FailedTransitions, fc)
	return e.transitionTo(StateProvisionFailed, now)
}

// BeginConfiguring moves Provisioned|ConfigureFailed -> Configuring.
func (e Environment) BeginConfiguring(now UtcTimestamp) (Environment, error) {
	if err := requireOneOf(e.State, StateProvisioned, StateConfigureFailed); err != nil {
		return e, err
	}
	return e.transitionTo(StateConfiguring, now), nil
}

// CompleteConfiguring moves Configuring -> Configured.
func (e Environment) CompleteConfiguring(now UtcTimestamp) (Environment, error) {
	if err := requireOneOf(e.State, StateConfiguring); err != nil {
		return e, err
	}
	return e.transitionTo(StateConfigured, now), nil
}

// FailConfiguring moves Configuring -> ConfigureFailed.
func (e Environment) FailConfiguring(fc FailureContext, now UtcTimestamp) Environment {
	e.LastFailure = &fc
	e.RuntimeOutputs.FailedTransitions = append(e.RuntimeOutputs.FailedTransitions, fc)
	return e.transitionTo(StateConfigureFailed, now)
}

// BeginReleasing moves Configured|ReleaseFailed -> Releasing.
func (e Environment) BeginReleasing(now UtcTimestamp) (Environment, error) {
	if err := requireOneOf(e.State, StateConfigured, StateReleaseFailed); err != nil {
		return e, err
	}
	return e.transitionTo(StateReleasing, now), nil
}

// CompleteReleasing moves Releasing -> Released.
func (e Environment) CompleteReleasing(now UtcTimestamp) (Environment, error) {
	if err := requireOneOf(e.State, StateReleasing); err != nil {
		return e, err
	}
	return e.transitionTo(StateReleased, now), nil
}

// FailReleasing moves Releasing -> ReleaseFailed.
func (e Environment) FailReleasing(fc FailureContext, now UtcTimestamp) Environment {
	e.LastFailure = &fc
	e.RuntimeOutputs.FailedTransitions = append(e.RuntimeOutputs.FailedTransitions, fc)
	return e.transitionTo(StateReleaseFailed, now)
}

// BeginRunning is a no-op state-preserving validation step: run has no
// "...ing" intermediate per §3.2's table (Released|RunFailed -> Running
// directly), kept as a method for symmetry with the other commands'
// precondition checks.
func (e Environment) BeginRunning(now UtcTimestamp) (Environment, error) {
	if err := requireOneOf(e.State, StateReleased, StateRunFailed); err != nil {
		return e, err
	}
	return e, nil
}

// CompleteRunning moves Released|RunFailed -> Running.
func (e Environment) CompleteRunning(now UtcTimestamp) (Environment, error) {
	if err := requireOneOf(e.State, StateReleased, StateRunFailed); err != nil {
		return e, err
	}
	return e.transitionTo(StateRunning, now), nil
}

// FailRunning moves Released|RunFailed -> RunFailed.
func (e Environment) FailRunning(fc FailureContext, now UtcTimestamp) Environment {
	e.LastFailure = &fc
	e.RuntimeOutputs.FailedTransitions = append(e.RuntimeOutputs.FailedTransitions, fc)
	return e.transitionTo(StateRunFailed, now)
}

// BeginDestroying moves any state -> Destroying; destroy is allowed from
// every state per §3.2's table.
func (e Environment) BeginDestroying(now UtcTimestamp) Environment {
	return e.transitionTo(StateDestroying, now)
}

// CompleteDestroying moves Destroying -> Destroyed. The record itself is
// retained; only purge removes it.
func (e Environment) CompleteDestroying(now UtcTimestamp) (Environment, error) {
	if err := requireOneOf(e.State, StateDestroying); err != nil {
		return e, err
	}
	e.RuntimeOutputs.InstanceIP = nil
	return e.transitionTo(StateDestroyed, now), nil
}

// FailDestroying moves Destroying -> DestroyFailed.
func (e Environment) FailDestroying(fc FailureContext, now UtcTimestamp) Environment {
	e.LastFailure = &fc
	e.RuntimeOutputs.FailedTransitions = append(e.RuntimeOutputs.FailedTransitions, fc)
	return e.transitionTo(StateDestroyFailed, now)
}

// CanTest reports whether the environment is in a state test may run
// against (any state reachable only after Provisioned).
func (e Environment) CanTest() bool {
	return e.State.AtLeastProvisioned()
}
