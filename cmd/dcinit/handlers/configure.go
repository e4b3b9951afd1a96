// Package handlers implements the business logic for CLI commands.
//
// Handler functions are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/dcinit/internal/config"
	"github.com/imamik/dcinit/internal/netprobe"
	"github.com/imamik/dcinit/internal/prompt"
	"github.com/imamik/dcinit/internal/run"
	"github.com/imamik/dcinit/internal/service"
	"github.com/imamik/dcinit/internal/session"
	"github.com/imamik/dcinit/internal/validate"
)

// backTitle heads every interactive prompt.
const backTitle = "dcinit - first boot configuration"

// ConfigureOptions carries the flag-supplied parameters.
type ConfigureOptions struct {
	Password       string
	Realm          string
	Domain         string
	JoinNameserver string
	Hostname       string
}

// configureSession matches session.Session for testing.
type configureSession interface {
	Run(ctx context.Context) error
}

// Factory function variables - can be replaced in tests.
var (
	// isTerminal reports whether stdin is an interactive terminal.
	isTerminal = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	// newSession assembles the provisioning session.
	newSession = func(req *config.Request, provider prompt.Provider) configureSession {
		return session.New(req, config.DefaultPaths(), provider,
			run.NewExecRunner(), service.NewSystemd(), netprobe.NewSystem())
	}
)

// Configure resolves the execution mode from the supplied flags and runs
// one provisioning session to completion.
//
// The session is interactive when any required parameter is missing, when
// a supplied join nameserver or hostname is invalid, or when the
// first-boot environment demands it. A fully specified invocation runs
// without prompts and fails hard on the first problem.
func Configure(ctx context.Context, opts ConfigureOptions) error {
	req := &config.Request{
		Realm:          opts.Realm,
		Domain:         opts.Domain,
		AdminPassword:  opts.Password,
		JoinNameserver: opts.JoinNameserver,
		Hostname:       opts.Hostname,
	}
	if opts.JoinNameserver != "" || opts.Hostname != "" {
		req.Mode = config.ModeJoin
	}

	req.Interactive = needsInteraction(req, opts)
	if req.Mode == "" && !req.Interactive {
		req.Mode = config.ModeCreate
	}

	var provider prompt.Provider
	if req.Interactive {
		if !isTerminal() {
			return fmt.Errorf("interactive input required but stdin is not a terminal")
		}
		provider = prompt.NewConsole(backTitle)
	} else {
		provider = prompt.NewNonInteractive()
	}

	err := newSession(req, provider).Run(ctx)
	if errors.Is(err, session.ErrDeclined) {
		fmt.Println("Keeping the current configuration.")
		return nil
	}
	return err
}

// needsInteraction applies the interactive-forcing rules.
func needsInteraction(req *config.Request, opts ConfigureOptions) bool {
	if config.ForcedInteractive() {
		return true
	}
	if opts.Password == "" || opts.Realm == "" || opts.Domain == "" {
		return true
	}
	if req.Joining() {
		if _, err := validate.IPv4(opts.JoinNameserver); err != nil {
			return true
		}
		if _, err := validate.Hostname(opts.Hostname, opts.Realm, config.ReservedHostname, nil); err != nil {
			return true
		}
	}
	return false
}
