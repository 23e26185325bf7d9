// Package wait implements bounded-deadline polling for the network-bound
// steps in the provisioning lifecycle: waiting for SSH connectivity and
// waiting for cloud-init to finish on a freshly provisioned instance.
//
// Pollers are deliberately small (Poll once, report a Result) so the
// retry/deadline policy lives in one place, WaitFor, rather than being
// reimplemented per caller.
package wait

import (
	"context"
	"fmt"
	"time"
)

// Result is the outcome of a single poll attempt.
type Result struct {
	Ready     bool
	Message   string
	CheckedAt time.Time
	Duration  time.Duration
}

// Poller performs one readiness check.
type Poller interface {
	Poll(ctx context.Context) Result
}

// PollerFunc adapts a plain function to the Poller interface.
type PollerFunc func(ctx context.Context) Result

func (f PollerFunc) Poll(ctx context.Context) Result { return f(ctx) }

// Config bounds a WaitFor call.
type Config struct {
	// Timeout is the total deadline for the operation, starting from the
	// first call to WaitFor.
	Timeout time.Duration

	// Interval is the delay between poll attempts.
	Interval time.Duration
}

// TimeoutError is returned by WaitFor when the deadline expires before the
// poller reports readiness. It carries enough detail for the caller to
// build a step-local error that maps to apperror.KindTimeout.
type TimeoutError struct {
	Operation string
	Elapsed   time.Duration
	LastError string
}

func (e *TimeoutError) Error() string {
	if e.LastError != "" {
		return fmt.Sprintf("timed out waiting for %s after %s: %s", e.Operation, e.Elapsed, e.LastError)
	}
	return fmt.Sprintf("timed out waiting for %s after %s", e.Operation, e.Elapsed)
}

// WaitFor polls p at cfg.Interval until it reports Ready, ctx is canceled,
// or cfg.Timeout elapses. On success it returns the final Result and a nil
// error. On deadline expiry it returns the last Result seen and a
// *TimeoutError naming operation.
func WaitFor(ctx context.Context, operation string, p Poller, cfg Config) (Result, error) {
	start := time.Now()
	deadline := start.Add(cfg.Timeout)

	var last Result
	for {
		last = p.Poll(ctx)
		if last.Ready {
			return last, nil
		}

		if time.Now().After(deadline) {
			return last, &TimeoutError{Operation: operation, Elapsed: time.Since(start), LastError: last.Message}
		}

		timer := time.NewTimer(cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last, &TimeoutError{Operation: operation, Elapsed: time.Since(start), LastError: ctx.Err().Error()}
		case <-timer.C:
		}

		if time.Now().After(deadline) {
			return last, &TimeoutError{Operation: operation, Elapsed: time.Since(start), LastError: last.Message}
		}
	}
}

// SSHConnectivityConfig returns the spec-mandated default deadline/interval
// for waiting on SSH reachability: 30s timeout, 5s interval.
func SSHConnectivityConfig() Config {
	return Config{Timeout: 30 * time.Second, Interval: 5 * time.Second}
}

// CloudInitConfig returns the default deadline/interval for waiting on
// cloud-init completion. Cloud-init can take substantially longer than an
// SSH handshake, so the deadline is longer and the poll interval coarser.
func CloudInitConfig() Config {
	return Config{Timeout: 5 * time.Minute, Interval: 10 * time.Second}
}
