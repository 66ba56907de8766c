// Package network provides network reachability and terminal prompt
// adapters used by the retry gate.
package network

import (
	"context"
	"net"
	"time"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// DefaultEndpoint is the known-reachable endpoint used to decide
// whether the network is up. DNS over TCP keeps the probe cheap and
// avoids HTTP captive-portal false positives.
const DefaultEndpoint = "1.1.1.1:443"

// DialProber probes reachability by opening a TCP connection.
type DialProber struct {
	endpoint string
	timeout  time.Duration
}

// NewDialProber creates a prober against the given host:port endpoint.
// Empty endpoint uses DefaultEndpoint.
func NewDialProber(endpoint string, timeout time.Duration) *DialProber {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &DialProber{endpoint: endpoint, timeout: timeout}
}

// Reachable reports whether the endpoint accepts a connection.
func (p *DialProber) Reachable(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", p.endpoint)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Ensure DialProber implements ports.NetworkProber.
var _ ports.NetworkProber = (*DialProber)(nil)
