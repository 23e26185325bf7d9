package valueobject

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/torrust/tracker-deployer/pkg/apperror"
)

var domainLabelPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// DomainName is a validated fully-qualified domain name used for the
// optional HTTPS/ACME configuration.
type DomainName struct {
	value string
}

// NewDomainName validates s as a dotted sequence of DNS labels.
func NewDomainName(s string) (DomainName, error) {
	if s == "" {
		return DomainName{}, apperror.New(apperror.KindConfiguration, "valueobject.NewDomainName: empty domain")
	}
	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return DomainName{}, apperror.New(apperror.KindConfiguration, "valueobject.NewDomainName: must have at least two labels")
	}
	for _, label := range labels {
		if !domainLabelPattern.MatchString(label) {
			return DomainName{}, apperror.New(apperror.KindConfiguration, "valueobject.NewDomainName: invalid label %q")
		}
	}
	return DomainName{value: s}, nil
}

func (d DomainName) String() string {
	return d.value
}

func (d DomainName) IsZero() bool {
	return d.value == ""
}

func (d DomainName) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value)
}

func (d *DomainName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewDomainName(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
