package command

import (
	"context"

	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/environment"
	"github.com/torrust/tracker-deployer/pkg/step"
)

// TestResult is the `test` command's outcome: every validator's advisory
// warnings, concatenated. A hard error (not returned per-validator, but
// as TestCommand.Execute's error return) stops the run early when a
// validator cannot connect, its command fails to run, or the command
// exits non-zero — DNS resolution issues are always advisory, never fatal.
type TestResult struct {
	Warnings []string
}

// TestCommand runs read-only validators against a provisioned instance.
// Unlike every mutating command, it never transitions state — it is
// allowed from any state reachable only after Provisioned.
type TestCommand struct {
	Deps
}

func NewTestCommand(deps Deps) *TestCommand {
	return &TestCommand{Deps: deps}
}

// Execute loads name and runs the cloud-init, container-runtime, and
// orchestrator validators against its stored instance IP.
func (c *TestCommand) Execute(ctx context.Context, name string) (TestResult, error) {
	env, err := c.Repository.Load(ctx, name)
	if err != nil {
		return TestResult{}, err
	}
	if !env.CanTest() {
		return TestResult{}, invalidTransitionError("test", env.State, environment.StateProvisioned)
	}

	sshCfg := sshConfigFor(env)
	host := env.RuntimeOutputs.InstanceIP.String()
	validators := []step.Validator{
		step.NewCloudInitValidator(sshCfg, host),
		step.NewContainerRuntimeValidator(sshCfg, host),
		step.NewOrchestratorValidator(sshCfg, host),
	}

	listener := c.listener()
	listener.OnCommandStarted("test", len(validators))

	var result TestResult
	for i, v := range validators {
		listener.OnStepStarted(i, v.Name())
		advisory, err := v.Validate(ctx)
		result.Warnings = append(result.Warnings, advisory.Warnings...)
		if err != nil {
			listener.OnStepFailed(i, v.Name(), string(apperror.KindOf(err)), 0)
			listener.OnCommandFailed("test", string(apperror.KindOf(err)), 0)
			return result, err
		}
		listener.OnStepCompleted(i, v.Name(), 0)
	}

	listener.OnCommandCompleted("test", 0)
	return result, nil
}
