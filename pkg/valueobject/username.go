package valueobject

import (
	"encoding/json"
	"regexp"

	"github.com/torrust/tracker-deployer/pkg/apperror"
)

var usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

// Username is a validated POSIX-shaped login name, used both for the SSH
// credentials and for the remote system user the CM agent provisions.
type Username struct {
	value string
}

// NewUsername validates s against the POSIX login-name convention (lower
// case, starts with a letter or underscore, at most 32 characters).
func NewUsername(s string) (Username, error) {
	if !usernamePattern.MatchString(s) {
		return Username{}, apperror.New(apperror.KindConfiguration, "valueobject.NewUsername: invalid username shape")
	}
	return Username{value: s}, nil
}

func (u Username) String() string {
	return u.value
}

func (u Username) IsZero() bool {
	return u.value == ""
}

func (u Username) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.value)
}

func (u *Username) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewUsername(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
