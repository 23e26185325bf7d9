package command

import (
	"context"
	"fmt"
	"time"

	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/security"
	"github.com/torrust/tracker-deployer/pkg/valueobject"
)

// AlreadyExistsError is CreateCommand's dedicated failure for creating an
// environment name the repository already has a record for (spec §8,
// E2: CreateError::EnvironmentAlreadyExists).
type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("environment %q already exists", e.Name)
}

// CreateCommand builds a new Created environment from a parsed
// configuration document. It is the only command with no "allowed
// source states" — it always starts from nothing.
type CreateCommand struct {
	Deps
	WorkspaceRoot string
}

// NewCreateCommand constructs a CreateCommand.
func NewCreateCommand(deps Deps, workspaceRoot string) *CreateCommand {
	return &CreateCommand{Deps: deps, WorkspaceRoot: workspaceRoot}
}

// Execute validates cfg, rejects a duplicate name, and persists the new
// Created environment.
func (c *CreateCommand) Execute(ctx context.Context, cfg config.Config) (environment.Environment, error) {
	if err := config.Validate(cfg); err != nil {
		return environment.Environment{}, err
	}

	name, err := valueobject.NewEnvironmentName(cfg.Environment.Name)
	if err != nil {
		return environment.Environment{}, err
	}

	if c.Repository.Exists(name.String()) {
		return environment.Environment{}, apperror.Wrap(apperror.KindConfiguration, "create", &AlreadyExistsError{Name: name.String()})
	}

	username, err := valueobject.NewUsername(cfg.SSHCredentials.Username)
	if err != nil {
		return environment.Environment{}, err
	}
	creds, err := valueobject.NewSshCredentials(cfg.SSHCredentials.PrivateKeyPath, cfg.SSHCredentials.PublicKeyPath, username, cfg.SSHCredentials.Port)
	if err != nil {
		return environment.Environment{}, err
	}

	if cfg.Tracker.HTTPAPI.AccessToken.IsEmpty() {
		token, err := security.GenerateToken(32)
		if err != nil {
			return environment.Environment{}, apperror.Wrap(apperror.KindInternal, "create: generate http api access token", err)
		}
		cfg.Tracker.HTTPAPI.AccessToken = security.NewSecret(token)
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
	internal := environment.DeriveInternalConfig(c.WorkspaceRoot, name, cfg.Environment.InstanceName)

	now := c.clockNow()
	env := environment.New(inputs, internal, now)

	listener := c.listener()
	listener.OnCommandStarted("create", 0)
	if err := c.Repository.Save(ctx, env); err != nil {
		listener.OnCommandFailed("create", string(apperror.KindOf(err)), 0)
		return environment.Environment{}, err
	}
	listener.OnCommandCompleted("create", 0)
	return env, nil
}

func (c *CreateCommand) clockNow() time.Time {
	if c.Clock == nil {
		return time.Now().UTC()
	}
	return c.Clock.Now()
}
