// Package valueobject holds the deployer's validated primitive types:
// EnvironmentName, DomainName, Username, ServiceEndpoint, BindingAddress,
// and SshCredentials. Each is constructor-only — there is no exported
// zero-value-safe way to build one that skips validation — so a value of
// these types appearing anywhere in the environment aggregate is already
// known-good.
package valueobject
