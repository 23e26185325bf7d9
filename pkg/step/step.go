// Package step implements the mid-level operations spec §4.5/§4.4
// compose into each command handler's sequence: render templates, drive
// the IaC engine through its init/validate/plan/apply cycle, wait for
// network readiness, run the CM agent, transfer files, and the
// destroy/clear-build-dir pair. Steps never touch the repository or the
// progress listener — the handler threads those through, attributing
// each step's success or failure to itself.
package step

import "context"

// Step is a single named, ordered operation within a command. Grounded
// on the teacher's pkg/health checkers (Check(ctx) Result): small,
// context-aware, no side channel beyond its own Execute return.
type Step interface {
	// Name identifies the step for progress reporting and for the
	// FailureContext.Step recorded if it fails.
	Name() string
	Execute(ctx context.Context) error
}

// Func adapts a plain name + function into a Step, for steps simple
// enough not to need their own named type.
type Func struct {
	StepName string
	Run      func(ctx context.Context) error
}

func (f Func) Name() string                    { return f.StepName }
func (f Func) Execute(ctx context.Context) error { return f.Run(ctx) }

var _ Step = Func{}
