package wait

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Runner executes one remote or local command and reports its outcome.
// adapter/ssh.Client.Run satisfies this signature, which keeps this package
// decoupled from any particular transport: the cloud-init wait step builds
// a CommandPoller around the Runner of the SSH client it has open.
type Runner func(ctx context.Context) (stdout string, exitCode int, err error)

// CommandPoller reports readiness once Run succeeds with exit code 0.
type CommandPoller struct {
	// Description names what is being waited for, for Result messages
	// (e.g. "cloud-init status --wait").
	Description string
	Run         Runner
	Timeout     time.Duration
}

// NewCommandPoller creates a poller with a 10 second per-attempt timeout.
func NewCommandPoller(description string, run Runner) *CommandPoller {
	return &CommandPoller{Description: description, Run: run, Timeout: 10 * time.Second}
}

func (c *CommandPoller) Poll(ctx context.Context) Result {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	stdout, exitCode, err := c.Run(runCtx)
	if err != nil {
		return Result{
			Ready:     false,
			Message:   fmt.Sprintf("%s: %v", c.Description, err),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}

	if exitCode != 0 {
		return Result{
			Ready:     false,
			Message:   fmt.Sprintf("%s: exit code %d: %s", c.Description, exitCode, truncate(stdout, 200)),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}

	return Result{
		Ready:     true,
		Message:   fmt.Sprintf("%s: %s", c.Description, truncate(stdout, 200)),
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}

// WithTimeout sets the per-attempt timeout and returns the poller for chaining.
func (c *CommandPoller) WithTimeout(timeout time.Duration) *CommandPoller {
	c.Timeout = timeout
	return c
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
