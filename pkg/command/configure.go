package command

import (
	"context"
	"path/filepath"

	"github.com/torrust/tracker-deployer/pkg/adapter/cm"
	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/step"
)

// ConfigureCommand installs the container runtime and orchestrator on the
// provisioned instance, then runs the firewall and security-updates
// playbooks, plus the backup-crontab playbook when a backup section is
// present.
type ConfigureCommand struct {
	Deps
}

func NewConfigureCommand(deps Deps) *ConfigureCommand {
	return &ConfigureCommand{Deps: deps}
}

func inventoryFile(env environment.Environment) string {
	return filepath.Join(env.InternalConfig.BuildDir, "ansible", "inventory.yml")
}

func (c *ConfigureCommand) configureSteps(env environment.Environment) []step.Step {
	client := cm.New(ansibleWorkingDir(env))
	inventory := inventoryFile(env)

	// install_container_runtime and install_orchestrator are mandatory;
	// firewall and security-updates hardening always run since every
	// provider exposes at least the tracker's own ports; backup-crontab
	// only runs when the environment actually configured a backup
	// schedule, since the playbook needs its retention/schedule values.
	steps := []step.Step{
		step.NewInstallContainerRuntimeStep(client, inventory),
		step.NewInstallOrchestratorStep(client, inventory),
		step.NewConfigureFirewallStep(client, inventory),
		step.NewConfigureSecurityUpdatesStep(client, inventory),
	}
	if env.UserInputs.Backup != nil {
		steps = append(steps, step.NewConfigureBackupCrontabStep(client, inventory, env.UserInputs.Backup.RetentionDays, env.UserInputs.Backup.Schedule))
	}
	return steps
}

// Execute transitions Provisioned|ConfigureFailed -> Configuring, runs the
// configuration playbooks in order, and persists Configured or
// ConfigureFailed.
func (c *ConfigureCommand) Execute(ctx context.Context, name string) (environment.Environment, error) {
	env, err := c.Repository.Load(ctx, name)
	if err != nil {
		return environment.Environment{}, err
	}

	now := c.Clock.Now()
	configuring, err := env.BeginConfiguring(now)
	if err != nil {
		return environment.Environment{}, invalidTransitionError("configure", env.State, environment.StateProvisioned, environment.StateConfigureFailed)
	}
	if err := c.Repository.Save(ctx, configuring); err != nil {
		return environment.Environment{}, err
	}

	listener := c.listener()
	steps := c.configureSteps(configuring)

	listener.OnCommandStarted("configure", len(steps))
	failedStep, stepErr := runSteps(ctx, listener, steps)
	if stepErr != nil {
		wrapped := persistFailure(ctx, c.Deps, configuring, failedStep, stepErr, configuring.FailConfiguring)
		listener.OnCommandFailed("configure", string(apperror.KindOf(stepErr)), 0)
		return environment.Environment{}, wrapped
	}

	completedAt := c.Clock.Now()
	configured, err := configuring.CompleteConfiguring(completedAt)
	if err != nil {
		return environment.Environment{}, err
	}
	if err := c.Repository.Save(ctx, configured); err != nil {
		return environment.Environment{}, err
	}
	listener.OnCommandCompleted("configure", 0)
	return configured, nil
}
