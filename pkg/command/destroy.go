package command

import (
	"context"

	"github.com/torrust/tracker-deployer/pkg/adapter/iac"
	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/step"
	"github.com/torrust/tracker-deployer/pkg/template"
)

// DestroyCommand tears down the provisioned infrastructure (if any) and
// always clears the build directory. It is allowed from every state
// (spec §3.2's table) and is idempotent: destroying an environment that
// was never provisioned just clears its (possibly already empty) build
// directory.
type DestroyCommand struct {
	Deps
}

func NewDestroyCommand(deps Deps) *DestroyCommand {
	return &DestroyCommand{Deps: deps}
}

func (c *DestroyCommand) destroySteps(env environment.Environment) ([]step.Step, error) {
	engine := template.New(env.InternalConfig.BuildDir)
	steps := make([]step.Step, 0, 2)

	if env.State.AtLeastProvisioned() {
		workingDir, err := tofuWorkingDir(env)
		if err != nil {
			return nil, err
		}
		iacClient, err := iac.New(workingDir, c.execPath())
		if err != nil {
			return nil, err
		}
		steps = append(steps, step.NewIaCDestroyStep(iacClient, nil))
	}
	steps = append(steps, step.ClearBuildDirStep{Engine: engine})
	return steps, nil
}

// Execute moves env to Destroying, runs the destroy steps, and persists
// Destroyed or DestroyFailed. The record itself is retained; only purge
// removes it.
func (c *DestroyCommand) Execute(ctx context.Context, name string) (environment.Environment, error) {
	env, err := c.Repository.Load(ctx, name)
	if err != nil {
		return environment.Environment{}, err
	}

	now := c.Clock.Now()
	destroying := env.BeginDestroying(now)
	if err := c.Repository.Save(ctx, destroying); err != nil {
		return environment.Environment{}, err
	}

	listener := c.listener()
	// The IaC step depends on the state destroy started from: the
	// Destroying copy always reports AtLeastProvisioned.
	steps, err := c.destroySteps(env)
	if err != nil {
		wrapped := persistFailure(ctx, c.Deps, destroying, "iac_destroy", err, destroying.FailDestroying)
		listener.OnCommandFailed("destroy", string(apperror.KindOf(err)), 0)
		return environment.Environment{}, wrapped
	}

	listener.OnCommandStarted("destroy", len(steps))
	failedStep, stepErr := runSteps(ctx, listener, steps)
	if stepErr != nil {
		wrapped := persistFailure(ctx, c.Deps, destroying, failedStep, stepErr, destroying.FailDestroying)
		listener.OnCommandFailed("destroy", string(apperror.KindOf(stepErr)), 0)
		return environment.Environment{}, wrapped
	}

	completedAt := c.Clock.Now()
	destroyed, err := destroying.CompleteDestroying(completedAt)
	if err != nil {
		return environment.Environment{}, err
	}
	if err := c.Repository.Save(ctx, destroyed); err != nil {
		return environment.Environment{}, err
	}
	listener.OnCommandCompleted("destroy", 0)
	return destroyed, nil
}
