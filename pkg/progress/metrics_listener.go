package progress

import (
	"time"

	"github.com/torrust/tracker-deployer/pkg/metrics"
)

// MetricsListener drives pkg/metrics' command/step counters and
// histograms from command lifecycle events, the same role the teacher's
// metrics_collector.go plays for its own Raft/scheduler metrics: the
// collaborator is a progress.Listener, metrics stay a dumb counter bag.
type MetricsListener struct{}

func (MetricsListener) OnCommandStarted(string, int) {}

func (MetricsListener) OnStepStarted(int, string) {}

func (MetricsListener) OnStepCompleted(_ int, stepName string, elapsed time.Duration) {
	metrics.StepsTotal.WithLabelValues(stepName, "success").Inc()
	metrics.StepDuration.WithLabelValues(stepName).Observe(elapsed.Seconds())
}

func (MetricsListener) OnStepFailed(_ int, stepName string, _ string, elapsed time.Duration) {
	metrics.StepsTotal.WithLabelValues(stepName, "failure").Inc()
	metrics.StepDuration.WithLabelValues(stepName).Observe(elapsed.Seconds())
}

func (MetricsListener) OnCommandCompleted(command string, elapsed time.Duration) {
	metrics.CommandsTotal.WithLabelValues(command, "success").Inc()
	metrics.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (MetricsListener) OnCommandFailed(command string, _ string, elapsed time.Duration) {
	metrics.CommandsTotal.WithLabelValues(command, "failure").Inc()
	metrics.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

var _ Listener = MetricsListener{}

// MultiListener fans every event out to each of its members in order,
// letting a command handler report through both the console/log
// listener and MetricsListener without either knowing about the other.
type MultiListener []Listener

func (m MultiListener) OnCommandStarted(command string, totalSteps int) {
	for _, l := range m {
		l.OnCommandStarted(command, totalSteps)
	}
}

func (m MultiListener) OnStepStarted(stepIndex int, stepName string) {
	for _, l := range m {
		l.OnStepStarted(stepIndex, stepName)
	}
}

func (m MultiListener) OnStepCompleted(stepIndex int, stepName string, elapsed time.Duration) {
	for _, l := range m {
		l.OnStepCompleted(stepIndex, stepName, elapsed)
	}
}

func (m MultiListener) OnStepFailed(stepIndex int, stepName string, errorKind string, elapsed time.Duration) {
	for _, l := range m {
		l.OnStepFailed(stepIndex, stepName, errorKind, elapsed)
	}
}

func (m MultiListener) OnCommandCompleted(command string, elapsed time.Duration) {
	for _, l := range m {
		l.OnCommandCompleted(command, elapsed)
	}
}

func (m MultiListener) OnCommandFailed(command string, errorKind string, elapsed time.Duration) {
	for _, l := range m {
		l.OnCommandFailed(command, errorKind, elapsed)
	}
}

var _ Listener = MultiListener{}
