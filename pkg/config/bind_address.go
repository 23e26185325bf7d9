package config

import (
	"net"
	"strconv"

	"github.com/torrust/tracker-deployer/pkg/apperror"
	"github.com/torrust/tracker-deployer/pkg/valueobject"
)

// parseBindAddress splits a "host:port" string from the config file into
// a valueobject.BindingAddress tagged with protocol.
func parseBindAddress(addr string, protocol valueobject.Protocol) (valueobject.BindingAddress, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return valueobject.BindingAddress{}, apperror.Wrap(apperror.KindConfiguration, "config.parseBindAddress", err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return valueobject.BindingAddress{}, apperror.Wrap(apperror.KindConfiguration, "config.parseBindAddress: invalid port", err)
	}
	return valueobject.NewBindingAddress(host, uint16(port), protocol)
}
