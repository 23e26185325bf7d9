package command

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/torrust/tracker-deployer/pkg/adapter/iac"
	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/step"
	"github.com/torrust/tracker-deployer/pkg/template"
	"github.com/torrust/tracker-deployer/pkg/valueobject"
)

// RenderCommand renders every template (IaC, CM, release) into an
// arbitrary output directory without running any infrastructure
// operation — useful for inspecting what a command run would produce.
type RenderCommand struct {
	Deps
}

func NewRenderCommand(deps Deps) *RenderCommand {
	return &RenderCommand{Deps: deps}
}

// RenderOptions configures a render run: exactly one of EnvName or ConfigPath
// must be set, OutputDir is where artifacts land, Force allows rendering
// into a non-empty directory (resetting it first), and InstanceIP, if
// set, additionally renders the CM inventory (which needs a known host).
type RenderOptions struct {
	EnvName     string
	ConfigPath  string
	OutputDir   string
	Force       bool
	InstanceIP  string
}

func (c *RenderCommand) resolveEnvironment(ctx context.Context, opts RenderOptions) (environment.Environment, error) {
	if opts.EnvName != "" {
		return c.Repository.Load(ctx, opts.EnvName)
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return environment.Environment{}, err
	}
	name, err := valueobject.NewEnvironmentName(cfg.Environment.Name)
	if err != nil {
		return environment.Environment{}, err
	}
	username, err := valueobject.NewUsername(cfg.SSHCredentials.Username)
	if err != nil {
		return environment.Environment{}, err
	}
	creds, err := valueobject.NewSshCredentials(cfg.SSHCredentials.PrivateKeyPath, cfg.SSHCredentials.PublicKeyPath, username, cfg.SSHCredentials.Port)
	if err != nil {
		return environment.Environment{}, err
	}
	inputs := environment.UserInputs{
		Name:           name,
		SSHCredentials: creds,
		Provider:       cfg.Provider,
		Tracker:        cfg.Tracker,
		HTTPS:          cfg.HTTPS,
		Prometheus:     cfg.Prometheus,
		Grafana:        cfg.Grafana,
		Backup:         cfg.Backup,
	}
	internal := environment.DeriveInternalConfig(opts.OutputDir, name, cfg.Environment.InstanceName)
	internal.BuildDir = opts.OutputDir
	now := time.Now().UTC()
	if c.Clock != nil {
		now = c.Clock.Now()
	}
	return environment.New(inputs, internal, now), nil
}

// Execute renders templates into opts.OutputDir. Re-rendering into a
// non-empty directory fails unless opts.Force is set, which resets the
// directory first (spec's supplemented render --force semantics).
func (c *RenderCommand) Execute(ctx context.Context, opts RenderOptions) error {
	env, err := c.resolveEnvironment(ctx, opts)
	if err != nil {
		return err
	}
	env.InternalConfig.BuildDir = opts.OutputDir

	engine := template.New(opts.OutputDir)
	entries, statErr := os.ReadDir(opts.OutputDir)
	nonEmpty := statErr == nil && len(entries) > 0
	if nonEmpty && !opts.Force {
		return apperror.New(apperror.KindConfiguration, "render: output directory is not empty; pass --force to overwrite")
	}
	if nonEmpty && opts.Force {
		if err := engine.ResetBuildDir(); err != nil {
			return err
		}
	}

	steps := []step.Step{
		step.RenderIaCTemplatesStep{
			Engine:           engine,
			Provider:         env.UserInputs.Provider,
			InstanceName:     env.InternalConfig.InstanceName,
			Username:         env.UserInputs.SSHCredentials.Username.String(),
			SSHPublicKeyPath: env.UserInputs.SSHCredentials.PublicKeyPath,
		},
		step.RenderReleaseTemplatesStep{
			Engine:     engine,
			Tracker:    env.UserInputs.Tracker,
			Prometheus: env.UserInputs.Prometheus,
			Grafana:    env.UserInputs.Grafana,
		},
	}
	if opts.InstanceIP != "" {
		ip := net.ParseIP(opts.InstanceIP)
		if ip == nil {
			return apperror.New(apperror.KindConfiguration, "render: invalid --instance-ip "+opts.InstanceIP)
		}
		outputs := iac.InstanceOutputs{InstanceIP: ip}
		steps = append(steps, step.RenderCMTemplatesStep{
			Engine:         engine,
			Outputs:        &outputs,
			Username:       env.UserInputs.SSHCredentials.Username.String(),
			PrivateKeyPath: env.UserInputs.SSHCredentials.PrivateKeyPath,
			Port:           env.UserInputs.SSHCredentials.Port,
		})
	}

	listener := c.listener()
	listener.OnCommandStarted("render", len(steps))
	if _, err := runSteps(ctx, listener, steps); err != nil {
		listener.OnCommandFailed("render", string(apperror.KindOf(err)), 0)
		return err
	}
	listener.OnCommandCompleted("render", 0)
	return nil
}
