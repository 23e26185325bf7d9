/*
Package security implements the deployer's Secret/PlainSecret pair and its
random-token generator.

A Secret never prints its plaintext: String, GoString, and anything that
funnels through fmt redact to "***REDACTED***". The plaintext still
round-trips through JSON, because the on-disk environment record is
specified to preserve secrets verbatim — only display and log paths
redact. Getting the plaintext back out for template rendering requires an
explicit Expose call, which returns the distinct PlainSecret type so the
two can't be mixed up by accident.

GenerateToken produces random hex tokens, e.g. for default access tokens.
The trace IDs attached to failed transitions are UUIDs minted in
pkg/command, not tokens from this package.
*/
package security
