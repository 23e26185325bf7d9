package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/torrust/tracker-deployer/pkg/adapter/iac"
	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/step"
	"github.com/torrust/tracker-deployer/pkg/template"
)

// ProvisionCommand runs the IaC lifecycle: render templates, init,
// validate, plan, apply, read the instance IP, then render the
// CM templates and wait for SSH and cloud-init — spec §4.4's canonical
// execution pattern, illustrated there by this very command.
type ProvisionCommand struct {
	Deps
}

func NewProvisionCommand(deps Deps) *ProvisionCommand {
	return &ProvisionCommand{Deps: deps}
}

func tofuWorkingDir(env environment.Environment) (string, error) {
	switch env.UserInputs.Provider.(type) {
	case config.LXDProviderConfig:
		return filepath.Join(env.InternalConfig.BuildDir, "tofu", "lxd"), nil
	case config.HetznerProviderConfig:
		return filepath.Join(env.InternalConfig.BuildDir, "tofu", "hetzner"), nil
	default:
		return "", apperror.New(apperror.KindConfiguration, fmt.Sprintf("provision: unknown provider %T", env.UserInputs.Provider))
	}
}

func ansibleWorkingDir(env environment.Environment) string {
	return filepath.Join(env.InternalConfig.BuildDir, "ansible")
}

func (c *ProvisionCommand) provisionSteps(env environment.Environment, outputs *iac.InstanceOutputs) ([]step.Step, error) {
	workingDir, err := tofuWorkingDir(env)
	if err != nil {
		return nil, err
	}
	// iac.New rejects a missing working directory; the templates are only
	// rendered into it by the first step.
	if err := os.MkdirAll(workingDir, 0o755); err != nil {
		return nil, apperror.Wrap(apperror.KindTemplateRender, "provision: create IaC working directory", err)
	}
	iacClient, err := iac.New(workingDir, c.execPath())
	if err != nil {
		return nil, err
	}
	engine := template.New(env.InternalConfig.BuildDir)

	return []step.Step{
		step.RenderIaCTemplatesStep{
			Engine:           engine,
			Provider:         env.UserInputs.Provider,
			InstanceName:     env.InternalConfig.InstanceName,
			Username:         env.UserInputs.SSHCredentials.Username.String(),
			SSHPublicKeyPath: env.UserInputs.SSHCredentials.PublicKeyPath,
		},
		step.NewIaCInitStep(iacClient),
		step.NewIaCValidateStep(iacClient),
		step.NewIaCPlanStep(iacClient),
		step.NewIaCApplyStep(iacClient),
		step.NewReadInstanceIPStep(iacClient, outputs),
		step.RenderCMTemplatesStep{
			Engine:         engine,
			Outputs:        outputs,
			Username:       env.UserInputs.SSHCredentials.Username.String(),
			PrivateKeyPath: env.UserInputs.SSHCredentials.PrivateKeyPath,
			Port:           env.UserInputs.SSHCredentials.Port,
		},
		step.CopyAnsiblePlaybooksStep{Engine: engine},
		step.WaitSSHStep{SSHConfig: pendingSSHConfig(env, outputs)},
		step.WaitCloudInitStep{SSHConfig: pendingSSHConfig(env, outputs)},
	}, nil
}

// pendingSSHConfig builds a step.PendingSSHConfig that resolves its Host
// from outputs at Execute time, once ReadInstanceIPStep (earlier in the
// same sequence) has populated it.
func pendingSSHConfig(env environment.Environment, outputs *iac.InstanceOutputs) step.PendingSSHConfig {
	return step.PendingSSHConfig{
		Outputs:        outputs,
		Port:           env.UserInputs.SSHCredentials.Port,
		Username:       env.UserInputs.SSHCredentials.Username.String(),
		PrivateKeyPath: env.UserInputs.SSHCredentials.PrivateKeyPath,
	}
}

// Execute loads name, transitions Created|ProvisionFailed -> Provisioning,
// runs the provision step sequence, and persists Provisioned (with the
// instance IP) or ProvisionFailed.
func (c *ProvisionCommand) Execute(ctx context.Context, name string) (environment.Environment, error) {
	env, err := c.Repository.Load(ctx, name)
	if err != nil {
		return environment.Environment{}, err
	}

	now := c.Clock.Now()
	provisioning, err := env.BeginProvisioning(now)
	if err != nil {
		return environment.Environment{}, invalidTransitionError("provision", env.State, environment.StateCreated, environment.StateProvisionFailed)
	}
	if err := c.Repository.Save(ctx, provisioning); err != nil {
		return environment.Environment{}, err
	}

	listener := c.listener()
	var outputs iac.InstanceOutputs
	steps, err := c.provisionSteps(provisioning, &outputs)
	if err != nil {
		return environment.Environment{}, err
	}

	listener.OnCommandStarted("provision", len(steps))
	failedStep, stepErr := runSteps(ctx, listener, steps)
	if stepErr != nil {
		wrapped := persistFailure(ctx, c.Deps, provisioning, failedStep, stepErr, provisioning.FailProvisioning)
		listener.OnCommandFailed("provision", string(apperror.KindOf(stepErr)), 0)
		return environment.Environment{}, wrapped
	}

	completedAt := c.Clock.Now()
	provisioned, err := provisioning.CompleteProvisioning(outputs.InstanceIP, completedAt)
	if err != nil {
		return environment.Environment{}, err
	}
	if err := c.Repository.Save(ctx, provisioned); err != nil {
		return environment.Environment{}, err
	}
	listener.OnCommandCompleted("provision", 0)
	return provisioned, nil
}
