// Package command implements the top-level orchestrators spec §4.4
// names: one handler per lifecycle transition (create, provision,
// register, configure, release, run, test, destroy, purge) plus the
// read-only handlers (show, list, exists, validate, render). Each
// handler is built via constructor injection of its collaborators
// (repository, clock, progress listener, adapters) — grounded on the
// teacher's NewMetricsCollector/NewBoltStore-style constructor
// injection — and follows the canonical execution pattern of spec §4.4:
// load, check precondition, transition to the "...ing" state, persist,
// run steps in order, and persist the terminal state (success or
// failure) before returning.
package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/torrust/tracker-deployer/pkg/adapter/ssh"
	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/clock"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/progress"
	"github.com/torrust/tracker-deployer/pkg/repository"
	"github.com/torrust/tracker-deployer/pkg/step"
)

// Deps are the collaborators every mutating command handler needs.
// IaCExecPath is the OpenTofu/Terraform-compatible binary invoked by
// every pkg/adapter/iac.Client this package constructs.
type Deps struct {
	Repository  *repository.Repository
	Clock       clock.Clock
	Listener    progress.Listener
	IaCExecPath string
}

func (d Deps) listener() progress.Listener {
	if d.Listener == nil {
		return progress.NullListener{}
	}
	return d.Listener
}

func (d Deps) execPath() string {
	if d.IaCExecPath == "" {
		return "tofu"
	}
	return d.IaCExecPath
}

// newTraceID mints an opaque identifier for a failed transition, usable
// to correlate logs (spec glossary: "Trace ID") — grounded on the
// teacher's uuid.New().String() convention for task/service IDs.
func newTraceID() string {
	return uuid.New().String()
}

// runSteps executes steps strictly in order (spec §5: "Step N does not
// start until step N-1 has returned success"), notifying listener at
// each boundary, and stops at the first failure.
func runSteps(ctx context.Context, listener progress.Listener, steps []step.Step) (failedStepName string, err error) {
	for i, s := range steps {
		listener.OnStepStarted(i, s.Name())
		start := time.Now()
		if stepErr := s.Execute(ctx); stepErr != nil {
			listener.OnStepFailed(i, s.Name(), string(apperror.KindOf(stepErr)), time.Since(start))
			return s.Name(), stepErr
		}
		listener.OnStepCompleted(i, s.Name(), time.Since(start))
	}
	return "", nil
}

// sshConfigFor builds the SSH dial configuration for an environment that
// has reached at least Provisioned (so RuntimeOutputs.InstanceIP is
// populated).
func sshConfigFor(env environment.Environment) ssh.Config {
	return ssh.Config{
		Host:           env.RuntimeOutputs.InstanceIP.String(),
		Port:           env.UserInputs.SSHCredentials.Port,
		Username:       env.UserInputs.SSHCredentials.Username.String(),
		PrivateKeyPath: env.UserInputs.SSHCredentials.PrivateKeyPath,
	}
}

// persistFailure builds a FailureContext for the given step/error pair,
// moves env to its failure state via transition, and saves it — the
// shared tail of every mutating handler's error path.
func persistFailure(
	ctx context.Context,
	deps Deps,
	env environment.Environment,
	failedStep string,
	stepErr error,
	transition func(environment.FailureContext, environment.UtcTimestamp) environment.Environment,
) error {
	now := deps.Clock.Now()
	fc := environment.FailureContext{
		Step:      environment.Step(failedStep),
		ErrorKind: string(apperror.KindOf(stepErr)),
		TraceID:   newTraceID(),
		Timestamp: now,
	}
	failed := transition(fc, now)
	if saveErr := deps.Repository.Save(ctx, failed); saveErr != nil {
		return saveErr
	}
	return apperror.Wrap(apperror.KindOf(stepErr), "command: step "+failedStep, stepErr).WithTraceID(fc.TraceID)
}

// invalidTransitionError builds the InvalidStateTransition error spec §7
// names, carrying the current and required states.
func invalidTransitionError(op string, current environment.State, required ...environment.State) error {
	return apperror.New(apperror.KindInvalidStateTransition, op+": current state "+current.String()+", required one of "+statesString(required))
}

func statesString(states []environment.State) string {
	out := ""
	for i, s := range states {
		if i > 0 {
			out += "|"
		}
		out += s.String()
	}
	return out
}
