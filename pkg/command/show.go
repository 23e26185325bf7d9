package command

import (
	"context"

	"github.com/torrust/tracker-deployer/pkg/environment"
)

// PrometheusInfo is ShowResult's optional Prometheus section, present only
// when the environment configured scraping.
type PrometheusInfo struct {
	Endpoint string
}

// GrafanaInfo is ShowResult's optional Grafana section.
type GrafanaInfo struct {
	Endpoint string
}

// BackupInfo is ShowResult's optional backup-schedule section.
type BackupInfo struct {
	RetentionDays int
	Schedule      string
	RemoteTarget  string
}

// ShowResult is show's read model: the loaded Environment plus optional
// Prometheus, Grafana, and backup info sections, present only when their
// corresponding config section was set (spec's supplemented show detail).
type ShowResult struct {
	Environment environment.Environment
	Prometheus  *PrometheusInfo
	Grafana     *GrafanaInfo
	Backup      *BackupInfo
}

// ShowCommand is a read-only handler: load and project, no state change,
// no progress listener.
type ShowCommand struct {
	Deps
}

func NewShowCommand(deps Deps) *ShowCommand {
	return &ShowCommand{Deps: deps}
}

func (c *ShowCommand) Execute(ctx context.Context, name string) (ShowResult, error) {
	env, err := c.Repository.Load(ctx, name)
	if err != nil {
		return ShowResult{}, err
	}

	result := ShowResult{Environment: env}
	if env.UserInputs.Prometheus != nil {
		result.Prometheus = &PrometheusInfo{Endpoint: env.UserInputs.Prometheus.BindAddress}
	}
	if env.UserInputs.Grafana != nil {
		result.Grafana = &GrafanaInfo{Endpoint: env.UserInputs.Grafana.BindAddress}
	}
	if env.UserInputs.Backup != nil {
		result.Backup = &BackupInfo{
			RetentionDays: env.UserInputs.Backup.RetentionDays,
			Schedule:      env.UserInputs.Backup.Schedule,
			RemoteTarget:  env.UserInputs.Backup.RemoteTarget,
		}
	}
	return result, nil
}
