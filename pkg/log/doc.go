/*
Package log provides structured logging for the deployer, built on zerolog.

A single package-level logger is configured once via Init and read
everywhere else through the global Logger or one of the With* helpers,
which attach the environment name, command, step, or trace ID that a
log line belongs to. Secrets are never passed to these helpers directly:
callers pass the redacting wrappers from pkg/security, whose String and
GoString methods elide the plaintext. Their MarshalJSON does not: it
emits the plaintext so the on-disk record keeps it, so a Secret is never
logged as a JSON-marshaled field.

Console output is for interactive use; JSON output is for piping into
log aggregation when the deployer runs as part of CI.
*/
package log
