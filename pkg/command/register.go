package command

import (
	"context"
	"net"

	"github.com/torrust/tracker-deployer/pkg/adapter/iac"
	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/step"
	"github.com/torrust/tracker-deployer/pkg/template"
)

// RegisterCommand attaches an already-running instance to a Created
// environment, moving it directly to Provisioned: it reuses provision's
// tail (everything after `tofu apply`), since rendering the CM inventory
// and waiting for SSH/cloud-init both depend only on the instance IP, not
// on how that IP was obtained.
type RegisterCommand struct {
	Deps
}

func NewRegisterCommand(deps Deps) *RegisterCommand {
	return &RegisterCommand{Deps: deps}
}

func (c *RegisterCommand) registerSteps(env environment.Environment, outputs *iac.InstanceOutputs) []step.Step {
	engine := template.New(env.InternalConfig.BuildDir)
	return []step.Step{
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
	}
}

// Execute registers instanceIP against name: Created -> Provisioned on
// success, Created -> ProvisionFailed on failure (spec §3.2's note that
// register's failure target matches provision's).
func (c *RegisterCommand) Execute(ctx context.Context, name, instanceIP string) (environment.Environment, error) {
	ip := net.ParseIP(instanceIP)
	if ip == nil {
		return environment.Environment{}, apperror.New(apperror.KindConfiguration, "register: invalid instance IP "+instanceIP)
	}

	env, err := c.Repository.Load(ctx, name)
	if err != nil {
		return environment.Environment{}, err
	}
	if env.State != environment.StateCreated {
		return environment.Environment{}, invalidTransitionError("register", env.State, environment.StateCreated)
	}

	listener := c.listener()
	outputs := iac.InstanceOutputs{InstanceIP: ip}
	steps := c.registerSteps(env, &outputs)

	listener.OnCommandStarted("register", len(steps))
	failedStep, stepErr := runSteps(ctx, listener, steps)
	if stepErr != nil {
		wrapped := persistFailure(ctx, c.Deps, env, failedStep, stepErr, env.FailRegister)
		listener.OnCommandFailed("register", string(apperror.KindOf(stepErr)), 0)
		return environment.Environment{}, wrapped
	}

	now := c.Clock.Now()
	registered, err := env.Register(ip, now)
	if err != nil {
		return environment.Environment{}, err
	}
	if err := c.Repository.Save(ctx, registered); err != nil {
		return environment.Environment{}, err
	}
	listener.OnCommandCompleted("register", 0)
	return registered, nil
}
