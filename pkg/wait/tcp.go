package wait

import (
	"context"
	"fmt"
	"net"
	"time"
)

// TCPPoller reports readiness once a TCP connection to Address succeeds.
// Used to probe SSH (port 22 by default) before a step attempts to open a
// session.
type TCPPoller struct {
	Address string
	Timeout time.Duration
}

// NewTCPPoller creates a poller with a 5 second dial timeout.
func NewTCPPoller(address string) *TCPPoller {
	return &TCPPoller{Address: address, Timeout: 5 * time.Second}
}

func (t *TCPPoller) Poll(ctx context.Context) Result {
	start := time.Now()

	dialer := &net.Dialer{Timeout: t.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.Address)
	if err != nil {
		return Result{
			Ready:     false,
			Message:   fmt.Sprintf("connection to %s failed: %v", t.Address, err),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}
	defer conn.Close()

	return Result{
		Ready:     true,
		Message:   fmt.Sprintf("tcp connection to %s succeeded", t.Address),
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}

// WithTimeout sets the dial timeout and returns the poller for chaining.
func (t *TCPPoller) WithTimeout(timeout time.Duration) *TCPPoller {
	t.Timeout = timeout
	return t
}
