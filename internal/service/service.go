// Package service abstracts host service lifecycle management. The
// orchestrator only ever needs start, best-effort stop, and an
// is-active poll.
package service

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Controller manages named host services.
type Controller interface {
	// Start starts the service.
	Start(ctx context.Context, name string) error
	// Stop stops the service. Callers treat failures as best-effort.
	Stop(ctx context.Context, name string) error
	// Restart restarts the service.
	Restart(ctx context.Context, name string) error
	// IsActive reports whether the service is currently active.
	IsActive(ctx context.Context, name string) bool
}

// Systemd controls services through systemctl.
type Systemd struct{}

// NewSystemd returns a systemctl-backed controller.
func NewSystemd() *Systemd {
	return &Systemd{}
}

// Start implements Controller.
func (s *Systemd) Start(ctx context.Context, name string) error {
	return s.run(ctx, "start", name)
}

// Stop implements Controller.
func (s *Systemd) Stop(ctx context.Context, name string) error {
	return s.run(ctx, "stop", name)
}

// Restart implements Controller.
func (s *Systemd) Restart(ctx context.Context, name string) error {
	return s.run(ctx, "restart", name)
}

// IsActive implements Controller.
func (s *Systemd) IsActive(ctx context.Context, name string) bool {
	cmd := exec.CommandContext(ctx, "systemctl", "is-active", "--quiet", name)
	return cmd.Run() == nil
}

func (s *Systemd) run(ctx context.Context, verb, name string) error {
	cmd := exec.CommandContext(ctx, "systemctl", verb, name)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("systemctl %s %s: %w: %s", verb, name, err, output)
	}
	return nil
}

// WaitActive polls IsActive at the given interval until the service is
// active or the context is cancelled. There is deliberately no timeout:
// the service either comes up shortly or the operator intervenes.
func WaitActive(ctx context.Context, ctl Controller, name string, interval time.Duration) error {
	for {
		if ctl.IsActive(ctx, name) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", name, ctx.Err())
		case <-time.After(interval):
		}
	}
}
