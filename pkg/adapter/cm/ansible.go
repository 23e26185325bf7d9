// Package cm wraps the configuration-management agent (ansible-playbook)
// as a subprocess, exposing a semantic Run operation rather than a raw
// exec.Cmd. It follows the same capture-and-truncate shape the deployer
// uses for every other subprocess-backed adapter: stdout/stderr are
// captured in full for the caller but truncated in error messages.
package cm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/torrust/tracker-deployer/pkg/apperror"
)

const maxErrorOutput = 2000

// Client shells out to ansible-playbook in a per-environment working
// directory.
type Client struct {
	// BinaryPath is the ansible-playbook executable, overridable for
	// tests or alternate installs. Defaults to "ansible-playbook".
	BinaryPath string
	// WorkingDir is the environment's ansible subsystem directory
	// (build/<env-name>/ansible).
	WorkingDir string
}

// New returns a Client rooted at workingDir using the ansible-playbook
// binary found on PATH.
func New(workingDir string) *Client {
	return &Client{BinaryPath: "ansible-playbook", WorkingDir: workingDir}
}

// RunResult carries a playbook run's captured output.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunPlaybook executes playbookFile against inventoryFile with the given
// extra `--extra-vars key=value` pairs, in WorkingDir. A non-zero exit is
// reported as a KindExternalTool error carrying the invoked argv, exit
// code, and truncated stderr.
func (c *Client) RunPlaybook(ctx context.Context, playbookFile, inventoryFile string, extraVars map[string]string) (RunResult, error) {
	args := []string{playbookFile, "-i", inventoryFile}
	for k, v := range extraVars {
		args = append(args, "--extra-vars", fmt.Sprintf("%s=%s", k, v))
	}

	cmd := exec.CommandContext(ctx, c.BinaryPath, args...)
	cmd.Dir = c.WorkingDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	result := RunResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if runErr != nil {
		return result, apperror.Wrap(apperror.KindExternalTool,
			fmt.Sprintf("cm.RunPlaybook: %s %s", c.BinaryPath, strings.Join(args, " ")),
			fmt.Errorf("exit %d: %s", result.ExitCode, truncate(result.Stderr, maxErrorOutput)))
	}
	return result, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
