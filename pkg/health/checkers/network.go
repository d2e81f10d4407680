package checkers

import (
	"context"
	"net"
	"time"
)

// NetworkChecker reports whether outbound network access is available by
// opening a TCP connection to a well-known address.
type NetworkChecker struct {
	addr    string
	timeout time.Duration
	dial    func(ctx context.Context, network, addr string) (net.Conn, error)
}

func NewNetworkChecker(addr string, timeout time.Duration) *NetworkChecker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	d := &net.Dialer{}
	return &NetworkChecker{addr: addr, timeout: timeout, dial: d.DialContext}
}

func (c *NetworkChecker) Name() string { return "network" }

// Check succeeds trivially when no probe address is configured.
func (c *NetworkChecker) Check(ctx context.Context) error {
	if c.addr == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	conn, err := c.dial(ctx, "tcp", c.addr)
	if err != nil {
		return err
	}
	return conn.Close()
}
