package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CommandsTotal counts command handler executions by command name and outcome.
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_deployer_commands_total",
			Help: "Total number of command executions by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_deployer_command_duration_seconds",
			Help:    "Command execution duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"command"},
	)

	StepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_deployer_steps_total",
			Help: "Total number of step executions by step and outcome",
		},
		[]string{"step", "outcome"},
	)

	StepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_deployer_step_duration_seconds",
			Help:    "Step execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	LockWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tracker_deployer_lock_wait_seconds",
			Help:    "Time spent waiting to acquire the repository file lock",
			Buckets: prometheus.DefBuckets,
		},
	)

	EnvironmentsByState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tracker_deployer_environments",
			Help: "Number of environments currently in each state, refreshed on list",
		},
		[]string{"state"},
	)
)

func init() {
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(CommandDuration)
	prometheus.MustRegister(StepsTotal)
	prometheus.MustRegister(StepDuration)
	prometheus.MustRegister(LockWaitDuration)
	prometheus.MustRegister(EnvironmentsByState)
}

// Handler returns the Prometheus HTTP handler, for callers that expose a
// metrics endpoint alongside the CLI (e.g. the --metrics-addr flag).
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer, starting now.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
