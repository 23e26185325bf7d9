package progress

import "time"

// Event is one recorded callback, captured by Recorder for assertions in
// command-handler tests that need to verify step ordering and failure
// attribution without parsing log output.
type Event struct {
	Kind      string // "command_started" | "step_started" | "step_completed" | "step_failed" | "command_completed" | "command_failed"
	Name      string // command name or step name
	Index     int
	ErrorKind string
	Elapsed   time.Duration
}

// Recorder is a test double that appends every callback to Events in
// program order, letting a test assert exact step sequencing (testable
// property: "within a single command, events arrive in program order").
type Recorder struct {
	Events []Event
}

func (r *Recorder) OnCommandStarted(command string, totalSteps int) {
	r.Events = append(r.Events, Event{Kind: "command_started", Name: command, Index: totalSteps})
}

func (r *Recorder) OnStepStarted(stepIndex int, stepName string) {
	r.Events = append(r.Events, Event{Kind: "step_started", Name: stepName, Index: stepIndex})
}

func (r *Recorder) OnStepCompleted(stepIndex int, stepName string, elapsed time.Duration) {
	r.Events = append(r.Events, Event{Kind: "step_completed", Name: stepName, Index: stepIndex, Elapsed: elapsed})
}

func (r *Recorder) OnStepFailed(stepIndex int, stepName string, errorKind string, elapsed time.Duration) {
	r.Events = append(r.Events, Event{Kind: "step_failed", Name: stepName, Index: stepIndex, ErrorKind: errorKind, Elapsed: elapsed})
}

func (r *Recorder) OnCommandCompleted(command string, elapsed time.Duration) {
	r.Events = append(r.Events, Event{Kind: "command_completed", Name: command, Elapsed: elapsed})
}

func (r *Recorder) OnCommandFailed(command string, errorKind string, elapsed time.Duration) {
	r.Events = append(r.Events, Event{Kind: "command_failed", Name: command, ErrorKind: errorKind, Elapsed: elapsed})
}

var _ Listener = (*Recorder)(nil)
