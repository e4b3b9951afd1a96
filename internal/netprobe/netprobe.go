// Package netprobe holds the two network reachability checks the
// orchestrator depends on: a nameserver ping and a hostname resolution
// probe.
package netprobe

import (
	"context"
	"net"
	"os/exec"
	"time"
)

// Prober answers the orchestrator's two network questions.
type Prober interface {
	// Reachable reports whether the host answers a single ping.
	Reachable(ctx context.Context, addr string) bool
	// Resolves reports whether the fully qualified name already resolves.
	Resolves(fqdn string) bool
	// OwnAddress returns the local address used to reach target, or ""
	// when it cannot be determined.
	OwnAddress(target string) string
}

// System probes the real network via ping and the system resolver.
type System struct {
	// Timeout bounds a single probe. Defaults to 5s.
	Timeout time.Duration
}

// NewSystem returns a prober using the host network stack.
func NewSystem() *System {
	return &System{Timeout: 5 * time.Second}
}

// Reachable implements Prober.
func (s *System) Reachable(ctx context.Context, addr string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	cmd := exec.CommandContext(ctx, "ping", "-c", "1", "-W", "2", addr)
	return cmd.Run() == nil
}

// Resolves implements Prober.
func (s *System) Resolves(fqdn string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()
	addrs, err := net.DefaultResolver.LookupHost(ctx, fqdn)
	return err == nil && len(addrs) > 0
}

// OwnAddress implements Prober. No packet is sent; the kernel picks the
// route and local address for a connected UDP socket.
func (s *System) OwnAddress(target string) string {
	conn, err := net.Dial("udp", net.JoinHostPort(target, "53"))
	if err != nil {
		return ""
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return ""
}

func (s *System) timeout() time.Duration {
	if s.Timeout <= 0 {
		return 5 * time.Second
	}
	return s.Timeout
}
