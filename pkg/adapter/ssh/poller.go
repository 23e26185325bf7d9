package ssh

import (
	"context"
	"fmt"
	"time"

	"github.com/torrust/tracker-deployer/pkg/wait"
)

// ConnectivityPoller reports readiness once a full SSH dial (TCP connect
// plus key handshake) succeeds, closing the probe connection afterward —
// it does not keep the dialed Client for reuse, since the provision
// step's actual session is opened fresh once connectivity is confirmed.
type ConnectivityPoller struct {
	Config Config
}

// NewConnectivityPoller builds a poller around cfg.
func NewConnectivityPoller(cfg Config) *ConnectivityPoller {
	return &ConnectivityPoller{Config: cfg}
}

// Poll implements wait.Poller.
func (p *ConnectivityPoller) Poll(ctx context.Context) wait.Result {
	start := time.Now()
	client := New(p.Config)

	if err := client.Dial(); err != nil {
		return wait.Result{
			Ready:     false,
			Message:   fmt.Sprintf("ssh connect to %s:%d: %v", p.Config.Host, p.Config.Port, err),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}
	defer client.Close()

	return wait.Result{
		Ready:     true,
		Message:   fmt.Sprintf("ssh connected to %s:%d", p.Config.Host, p.Config.Port),
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}
