package security

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

const redacted = "***REDACTED***"

// PlainSecret is a secret value with no redaction: it exists only to let a
// value flow into a rendered template (Ansible vars, a .tfvars file) where
// the real value is required. Converting a Secret to a PlainSecret is an
// explicit, one-directional "expose" call; there is no implicit conversion
// back the other way.
type PlainSecret string

// Secret wraps a sensitive value (an API token, a database password) so
// that logging or debug-printing it can never leak the plaintext. The
// plaintext is still what gets persisted to the environment record
// (spec: "preserved in the file") via MarshalJSON/UnmarshalJSON; only
// String/GoString redact.
type Secret struct {
	value string
}

// NewSecret wraps a plaintext value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Expose returns the plaintext value for template interpolation. The name
// is deliberately loud: every call site is a place a reviewer should check
// the value isn't then logged or displayed.
func (s Secret) Expose() PlainSecret {
	return PlainSecret(s.value)
}

// IsEmpty reports whether no value was ever set.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}

// String implements fmt.Stringer, redacting the value.
func (s Secret) String() string {
	if s.value == "" {
		return ""
	}
	return redacted
}

// GoString implements fmt.GoStringer so that %#v (used by some logging
// shims and test failure output) also redacts.
func (s Secret) GoString() string {
	return fmt.Sprintf("security.Secret{%s}", s.String())
}

// MarshalJSON persists the plaintext value. The repository's on-disk record
// is explicitly specified to preserve secrets verbatim (spec §6.2); only
// display/log paths redact.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

// UnmarshalJSON restores the plaintext value from the on-disk record.
func (s *Secret) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("secret: %w", err)
	}
	s.value = value
	return nil
}

// GenerateToken returns a cryptographically random hex token of the given
// byte length, used for the HTTP API access token `create` generates
// when the config leaves one unset.
func GenerateToken(byteLen int) (string, error) {
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
