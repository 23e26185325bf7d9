package step

import (
	"context"
	"fmt"

	"github.com/torrust/tracker-deployer/pkg/adapter/ssh"
	"github.com/torrust/tracker-deployer/pkg/config"
	"github.com/torrust/tracker-deployer/pkg/template"
)

// defaultTrackerImage is the published image the rendered compose file
// pulls; overridable per environment is a Non-goal for now (spec carries
// no per-environment image override field).
const defaultTrackerImage = "torrust/tracker:latest"

// RenderReleaseTemplatesStep renders the tracker's tracker.toml
// and the docker-compose.yml that runs it, into build/<env>/release/, from
// the environment's validated Tracker/Prometheus/Grafana configuration.
type RenderReleaseTemplatesStep struct {
	Engine     *template.Engine
	Tracker    config.TrackerConfig
	Prometheus *config.PrometheusConfig
	Grafana    *config.GrafanaConfig
}

func (s RenderReleaseTemplatesStep) Name() string { return "render_release_templates" }

func (s RenderReleaseTemplatesStep) Execute(ctx context.Context) error {
	udpTrackers := make([]template.UDPTrackerContext, 0, len(s.Tracker.UDPTrackers))
	for _, u := range s.Tracker.UDPTrackers {
		udpTrackers = append(udpTrackers, template.UDPTrackerContext{BindAddress: u.BindAddress})
	}
	httpTrackers := make([]template.HTTPTrackerContext, 0, len(s.Tracker.HTTPTrackers))
	ports := make([]string, 0, len(s.Tracker.UDPTrackers)+len(s.Tracker.HTTPTrackers)+2)
	for _, h := range s.Tracker.HTTPTrackers {
		httpTrackers = append(httpTrackers, template.HTTPTrackerContext{BindAddress: h.BindAddress})
		ports = append(ports, fmt.Sprintf("%s:%s", h.BindAddress, h.BindAddress))
	}
	for _, u := range s.Tracker.UDPTrackers {
		ports = append(ports, fmt.Sprintf("%s:%s/udp", u.BindAddress, u.BindAddress))
	}
	ports = append(ports, fmt.Sprintf("%s:%s", s.Tracker.HTTPAPI.BindAddress, s.Tracker.HTTPAPI.BindAddress))

	trackerCtx, err := template.NewTrackerTomlContext(
		s.Tracker.Core.Private,
		s.Tracker.Core.Database.Type, s.Tracker.Core.Database.Path, s.Tracker.Core.Database.DSN,
		udpTrackers, httpTrackers,
		s.Tracker.HTTPAPI.BindAddress, string(s.Tracker.HTTPAPI.AccessToken.Expose()),
		s.Tracker.HealthCheckAPI.BindAddress,
	)
	if err != nil {
		return err
	}
	if err := s.Engine.Render("tracker-toml", template.TrackerTomlTemplate, trackerCtx, "release", "tracker.toml"); err != nil {
		return err
	}

	composeCtx, err := template.NewComposeContext(defaultTrackerImage, ports)
	if err != nil {
		return err
	}
	if s.Prometheus != nil {
		composeCtx.PrometheusEnabled = true
		composeCtx.PrometheusBindAddress = s.Prometheus.BindAddress
	}
	if s.Grafana != nil {
		composeCtx.GrafanaEnabled = true
		composeCtx.GrafanaBindAddress = s.Grafana.BindAddress
		composeCtx.GrafanaAdminPassword = string(s.Grafana.AdminSecret.Expose())
	}
	return s.Engine.Render("docker-compose", template.ComposeTemplate, composeCtx, "release", "docker-compose.yml")
}

// FileTransfer names a local file and the remote path it is uploaded to.
type FileTransfer struct {
	LocalPath  string
	RemotePath string
}

// TransferComposeFilesStep uploads the release phase's compose file and
// any sibling config files (rendered earlier into build/<env>/) to the
// instance over an SSH connection the step dials for itself.
type TransferComposeFilesStep struct {
	SSHConfig ssh.Config
	Files     []FileTransfer
}

func (s TransferComposeFilesStep) Name() string { return "transfer_compose_files" }

func (s TransferComposeFilesStep) Execute(ctx context.Context) error {
	client := ssh.New(s.SSHConfig)
	if err := client.Dial(); err != nil {
		return err
	}
	defer client.Close()

	for _, f := range s.Files {
		if err := client.Upload(ctx, f.LocalPath, f.RemotePath); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Step = RenderReleaseTemplatesStep{}
	_ Step = TransferComposeFilesStep{}
)
