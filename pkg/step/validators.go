package step

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/torrust/tracker-deployer/pkg/adapter/ssh"
	"github.com/torrust/tracker-deployer/pkg/apperror"
)

// Advisory is a validator's non-fatal findings — spec §4.4's "test"
// command "collect[s] per-validator DNS resolution warnings as advisory
// output" without failing the command.
type Advisory struct {
	Warnings []string
}

// Validator is the `test` command's building block: unlike Step, its
// failure doesn't transition any state (spec §3.2: test never
// transitions), so it reports a hard error only for conditions the
// caller truly cannot proceed past, folding everything else into
// Advisory.Warnings.
type Validator interface {
	Name() string
	Validate(ctx context.Context) (Advisory, error)
}

type remoteCommandValidator struct {
	name      string
	sshConfig ssh.Config
	command   string
	host      string
}

func (v remoteCommandValidator) Name() string { return v.name }

func (v remoteCommandValidator) Validate(ctx context.Context) (Advisory, error) {
	var advisory Advisory
	if _, err := net.LookupHost(v.host); err != nil {
		advisory.Warnings = append(advisory.Warnings, fmt.Sprintf("%s: DNS resolution for %q failed: %v", v.name, v.host, err))
	}

	client := ssh.New(v.sshConfig)
	if err := client.Dial(); err != nil {
		return advisory, err
	}
	defer client.Close()

	stdout, exitCode, err := client.RunCommand(ctx, v.command)
	if err != nil {
		return advisory, err
	}
	if exitCode != 0 {
		return advisory, apperror.New(apperror.KindExternalTool, fmt.Sprintf("%s: %s exited %d: %s", v.name, v.command, exitCode, strings.TrimSpace(stdout)))
	}
	return advisory, nil
}

// NewCloudInitValidator checks cloud-init finished successfully.
func NewCloudInitValidator(cfg ssh.Config, host string) Validator {
	return remoteCommandValidator{name: "cloud_init", sshConfig: cfg, command: "cloud-init status", host: host}
}

// NewContainerRuntimeValidator checks the container runtime is installed
// and responsive.
func NewContainerRuntimeValidator(cfg ssh.Config, host string) Validator {
	return remoteCommandValidator{name: "container_runtime", sshConfig: cfg, command: "docker --version", host: host}
}

// NewOrchestratorValidator checks the orchestrator (docker compose) is
// installed and responsive.
func NewOrchestratorValidator(cfg ssh.Config, host string) Validator {
	return remoteCommandValidator{name: "orchestrator", sshConfig: cfg, command: "docker compose version", host: host}
}

var _ Validator = remoteCommandValidator{}
