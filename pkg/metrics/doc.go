/*
Package metrics exposes Prometheus counters and histograms for the
deployer's command/step lifecycle: counts and durations by command
name and outcome, step-level counts and durations, repository lock
wait time, and a per-state environment gauge refreshed by list.

These are optional: nothing in pkg/command requires a metrics server
to be running. A progress.Listener implementation (see pkg/progress)
is what actually drives these from command/step start and completion
events.
*/
package metrics
