// Package apperror defines the deployer's error taxonomy: a closed set of
// Kinds shared by every command handler, step, and adapter, each carrying
// enough context (operation, trace ID, wrapped cause) to build an
// actionable Help() message and to let callers branch on errors.Is/As
// without string-matching messages.
package apperror

import (
	"errors"
	"fmt"
)

// Kind is a closed tag naming the category of failure. New values are
// never added ad hoc; every error everywhere in the deployer maps onto one
// of these.
type Kind string

const (
	KindConfiguration         Kind = "configuration"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindLockContention        Kind = "lock_contention"
	KindPersistence           Kind = "persistence"
	KindExternalTool          Kind = "external_tool"
	KindParse                Kind = "parse"
	KindNetwork               Kind = "network"
	KindTimeout               Kind = "timeout"
	KindTemplateRender        Kind = "template_render"
	KindNotFound              Kind = "not_found"
	KindInternal              Kind = "internal"
)

// Error is the concrete error type returned by every handler-facing
// operation in the deployer.
type Error struct {
	Kind    Kind
	Op      string // the operation that failed, e.g. "provision.render_iac_templates"
	Cause   error
	TraceID string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Help returns a user-actionable explanation: what happened, the likely
// cause, and the suggested next action. CLI output formatting (views) is
// explicitly out of this package's scope; Help just supplies the text.
func (e *Error) Help() string {
	switch e.Kind {
	case KindConfiguration:
		return "The environment configuration is invalid or incomplete. Re-check the env-file against the documented schema and re-run `validate`."
	case KindInvalidStateTransition:
		return "This command cannot run from the environment's current state. Run `show` to see the current state, or `destroy` to reset it."
	case KindLockContention:
		return "Another process is currently mutating this environment. Wait for it to finish, or check for a stale lock file if none is running."
	case KindPersistence:
		return "The environment record could not be read or written. Check filesystem permissions and available disk space under the workspace's data directory."
	case KindExternalTool:
		return "An external tool (the IaC engine, the CM agent) exited with a non-zero status. Re-run with higher verbosity to see its full output."
	case KindParse:
		return "An external tool produced output this deployer could not interpret. This usually means the tool's version is newer or older than expected."
	case KindNetwork:
		return "A network operation failed. Check connectivity to the provisioned instance and any configured firewall rules."
	case KindTimeout:
		return "An operation did not complete within its deadline. Re-running the same command resumes from the failed step."
	case KindTemplateRender:
		return "A template could not be rendered, usually because a required configuration value is missing. Check the env-file against the template's expected context."
	case KindNotFound:
		return "No environment with this name exists in the workspace. Run `list` to see what's available."
	default:
		return "An internal invariant was violated. This is a bug; please report it with the trace ID above."
	}
}

// New constructs an Error with no wrapped cause.
func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op}
}

// Wrap constructs an Error wrapping cause. If cause is already an *Error,
// its Kind is preserved unless the caller's kind differs, in which case
// the caller's kind wins (an adapter re-wrapping a lower-level error in a
// more specific taxonomy).
func Wrap(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Cause: cause}
}

// WithTraceID returns a copy of e carrying traceID, for attaching to a
// persisted failure state.
func (e *Error) WithTraceID(traceID string) *Error {
	cp := *e
	cp.TraceID = traceID
	return &cp
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error, and
// KindInternal otherwise — callers that need a Kind unconditionally (e.g.
// to pick an exit code) use this instead of a type-asserting switch.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
