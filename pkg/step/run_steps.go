package step

import (
	"context"
	"strings"

	"github.com/torrust/tracker-deployer/pkg/adapter/ssh"
	"github.com/torrust/tracker-deployer/pkg/apperror"
)

// StartServiceStep runs `docker compose up -d` in the remote compose
// directory, bringing the orchestrated tracker service online.
type StartServiceStep struct {
	SSHConfig    ssh.Config
	ComposeDir   string
}

func (s StartServiceStep) Name() string { return "start_service" }

func (s StartServiceStep) Execute(ctx context.Context) error {
	client := ssh.New(s.SSHConfig)
	if err := client.Dial(); err != nil {
		return err
	}
	defer client.Close()

	command := "cd " + s.ComposeDir + " && docker compose up -d"
	stdout, exitCode, err := client.RunCommand(ctx, command)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		return apperror.New(apperror.KindExternalTool, "start_service: "+strings.TrimSpace(stdout))
	}
	return nil
}

var _ Step = StartServiceStep{}
