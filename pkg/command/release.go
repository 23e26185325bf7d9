package command

import (
	"context"
	"path/filepath"

	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/step"
	"github.com/torrust/tracker-deployer/pkg/template"
)

// ReleaseCommand renders the tracker's compose file and application
// config, then uploads both to the instance over SSH.
type ReleaseCommand struct {
	Deps
}

func NewReleaseCommand(deps Deps) *ReleaseCommand {
	return &ReleaseCommand{Deps: deps}
}

func releaseDir(env environment.Environment) string {
	return filepath.Join(env.InternalConfig.BuildDir, "release")
}

func (c *ReleaseCommand) releaseSteps(env environment.Environment) []step.Step {
	engine := template.New(env.InternalConfig.BuildDir)
	dir := releaseDir(env)
	sshCfg := sshConfigFor(env)

	return []step.Step{
		step.RenderReleaseTemplatesStep{
			Engine:     engine,
			Tracker:    env.UserInputs.Tracker,
			Prometheus: env.UserInputs.Prometheus,
			Grafana:    env.UserInputs.Grafana,
		},
		step.TransferComposeFilesStep{
			SSHConfig: sshCfg,
			Files: []step.FileTransfer{
				{LocalPath: filepath.Join(dir, "docker-compose.yml"), RemotePath: "/opt/torrust/docker-compose.yml"},
				{LocalPath: filepath.Join(dir, "tracker.toml"), RemotePath: "/opt/torrust/tracker.toml"},
			},
		},
	}
}

// Execute transitions Configured|ReleaseFailed -> Releasing, renders and
// uploads the release artifacts, and persists Released or ReleaseFailed.
func (c *ReleaseCommand) Execute(ctx context.Context, name string) (environment.Environment, error) {
	env, err := c.Repository.Load(ctx, name)
	if err != nil {
		return environment.Environment{}, err
	}

	now := c.Clock.Now()
	releasing, err := env.BeginReleasing(now)
	if err != nil {
		return environment.Environment{}, invalidTransitionError("release", env.State, environment.StateConfigured, environment.StateReleaseFailed)
	}
	if err := c.Repository.Save(ctx, releasing); err != nil {
		return environment.Environment{}, err
	}

	listener := c.listener()
	steps := c.releaseSteps(releasing)

	listener.OnCommandStarted("release", len(steps))
	failedStep, stepErr := runSteps(ctx, listener, steps)
	if stepErr != nil {
		wrapped := persistFailure(ctx, c.Deps, releasing, failedStep, stepErr, releasing.FailReleasing)
		listener.OnCommandFailed("release", string(apperror.KindOf(stepErr)), 0)
		return environment.Environment{}, wrapped
	}

	completedAt := c.Clock.Now()
	released, err := releasing.CompleteReleasing(completedAt)
	if err != nil {
		return environment.Environment{}, err
	}
	if err := c.Repository.Save(ctx, released); err != nil {
		return environment.Environment{}, err
	}
	listener.OnCommandCompleted("release", 0)
	return released, nil
}
