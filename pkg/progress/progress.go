// Package progress defines the capability command handlers use to report
// step start/complete/fail events during long-running workflows. It makes
// no ordering guarantees across command instances; within a single
// command, events arrive in program order on the calling goroutine,
// matching spec §4.3.
package progress

import "time"

// Listener is the capability a command handler is injected with. Every
// callback is synchronous and must not block the caller for long —
// ZerologListener just logs; a CLI-facing implementation (a themed
// progress bar) is an external collaborator outside this package's scope.
type Listener interface {
	OnCommandStarted(command string, totalSteps int)
	OnStepStarted(stepIndex int, stepName string)
	OnStepCompleted(stepIndex int, stepName string, elapsed time.Duration)
	OnStepFailed(stepIndex int, stepName string, errorKind string, elapsed time.Duration)
	OnCommandCompleted(command string, elapsed time.Duration)
	OnCommandFailed(command string, errorKind string, elapsed time.Duration)
}

// NullListener discards every event. It is the default for callers (tests,
// the `show`/`list`/`exists` read-only commands) that have no interest in
// progress reporting.
type NullListener struct{}

func (NullListener) OnCommandStarted(string, int)                          {}
func (NullListener) OnStepStarted(int, string)                             {}
func (NullListener) OnStepCompleted(int, string, time.Duration)            {}
func (NullListener) OnStepFailed(int, string, string, time.Duration)       {}
func (NullListener) OnCommandCompleted(string, time.Duration)              {}
func (NullListener) OnCommandFailed(string, string, time.Duration)         {}

var _ Listener = NullListener{}
