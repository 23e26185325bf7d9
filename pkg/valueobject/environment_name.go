package valueobject

import (
	"encoding/json"
	"regexp"

	"github.com/torrust/tracker-deployer/pkg/apperror"
)

var environmentNamePattern = regexp.MustCompile(`^[a-z0-9-]{1,63}$`)

// EnvironmentName is a validated DNS-label-shaped identifier: 1-63
// characters, lowercase alphanumerics and hyphens, no leading or trailing
// hyphen. It doubles as the repository's directory name, so its shape is
// enforced at construction rather than left to callers.
type EnvironmentName struct {
	value string
}

// NewEnvironmentName validates s and returns an EnvironmentName, or a
// KindConfiguration error naming the violated rule.
func NewEnvironmentName(s string) (EnvironmentName, error) {
	if s == "" {
		return EnvironmentName{}, apperror.New(apperror.KindConfiguration, "valueobject.NewEnvironmentName: empty name")
	}
	if len(s) > 63 {
		return EnvironmentName{}, apperror.New(apperror.KindConfiguration, "valueobject.NewEnvironmentName: longer than 63 characters")
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return EnvironmentName{}, apperror.New(apperror.KindConfiguration, "valueobject.NewEnvironmentName: leading or trailing hyphen")
	}
	if !environmentNamePattern.MatchString(s) {
		return EnvironmentName{}, apperror.New(apperror.KindConfiguration, "valueobject.NewEnvironmentName: must match [a-z0-9-]")
	}
	return EnvironmentName{value: s}, nil
}

// String returns the underlying name.
func (n EnvironmentName) String() string {
	return n.value
}

// IsZero reports whether n was never constructed via NewEnvironmentName.
func (n EnvironmentName) IsZero() bool {
	return n.value == ""
}

// MarshalJSON implements json.Marshaler.
func (n EnvironmentName) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}

// UnmarshalJSON implements json.Unmarshaler, re-running validation so a
// hand-edited environment record can't smuggle in an invalid name.
func (n *EnvironmentName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewEnvironmentName(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
