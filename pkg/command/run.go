package command

import (
	"context"

	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/step"
)

// RunCommand starts the orchestrated service via `docker compose up -d`.
// Like register, run has no "...ing" intermediate state (spec §3.2's
// table): Released|RunFailed -> Running directly.
type RunCommand struct {
	Deps
}

func NewRunCommand(deps Deps) *RunCommand {
	return &RunCommand{Deps: deps}
}

// Execute runs the single start_service step and persists Running or
// RunFailed.
func (c *RunCommand) Execute(ctx context.Context, name string) (environment.Environment, error) {
	env, err := c.Repository.Load(ctx, name)
	if err != nil {
		return environment.Environment{}, err
	}
	if _, err := env.BeginRunning(c.Clock.Now()); err != nil {
		return environment.Environment{}, invalidTransitionError("run", env.State, environment.StateReleased, environment.StateRunFailed)
	}

	listener := c.listener()
	steps := []step.Step{
		step.StartServiceStep{SSHConfig: sshConfigFor(env), ComposeDir: "/opt/torrust"},
	}

	listener.OnCommandStarted("run", len(steps))
	failedStep, stepErr := runSteps(ctx, listener, steps)
	if stepErr != nil {
		wrapped := persistFailure(ctx, c.Deps, env, failedStep, stepErr, env.FailRunning)
		listener.OnCommandFailed("run", string(apperror.KindOf(stepErr)), 0)
		return environment.Environment{}, wrapped
	}

	completedAt := c.Clock.Now()
	running, err := env.CompleteRunning(completedAt)
	if err != nil {
		return environment.Environment{}, err
	}
	if err := c.Repository.Save(ctx, running); err != nil {
		return environment.Environment{}, err
	}
	listener.OnCommandCompleted("run", 0)
	return running, nil
}
