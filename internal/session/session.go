// Package session drives one domain-controller provisioning run through
// an explicit state machine: collect parameters, validate, mutate system
// files under backup, execute the provisioning commands, then finalize on
// success or roll back and re-prompt on failure.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/imamik/dcinit/internal/config"
	"github.com/imamik/dcinit/internal/netprobe"
	"github.com/imamik/dcinit/internal/prompt"
	"github.com/imamik/dcinit/internal/run"
	"github.com/imamik/dcinit/internal/service"
	"github.com/imamik/dcinit/internal/sysfiles"
)

// ErrDeclined is returned when the operator declines the initial
// reconfiguration confirmation. The process exits zero.
var ErrDeclined = errors.New("reconfiguration declined")

// pollInterval is the delay between domain-controller active checks
// during finalization.
const pollInterval = time.Second

// Factory function variables - can be replaced in tests.
var (
	osHostname = os.Hostname
	chownFile  = os.Chown
)

// Session owns one provisioning run. Interactive defaults remembered
// across retries live here, never in package state.
type Session struct {
	Request  *config.Request
	Paths    config.Paths
	Prompt   prompt.Provider
	Runner   run.Runner
	Services service.Controller
	Probe    netprobe.Prober
	Observer Observer

	// Remembered prompt defaults, updated after each failed attempt.
	defaultRealm      string
	defaultDomain     string
	defaultNameserver string
	defaultHostname   string

	// modeFixed is set when flags or non-interactive operation already
	// decided between create and join.
	modeFixed bool

	state   State
	backup  *sysfiles.Backup
	failure *run.StepError
}

// New assembles a session around a resolved-so-far request.
func New(req *config.Request, paths config.Paths, provider prompt.Provider, runner run.Runner, services service.Controller, probe netprobe.Prober) *Session {
	return &Session{
		Request:           req,
		Paths:             paths,
		Prompt:            provider,
		Runner:            runner,
		Services:          services,
		Probe:             probe,
		Observer:          NewConsoleObserver(),
		defaultRealm:      config.DefaultRealm,
		defaultDomain:     config.DefaultDomain,
		defaultHostname:   config.DefaultJoinHostname,
		modeFixed:         req.Mode != "",
		backup:            sysfiles.NewBackup(),
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Run drives the state machine to a terminal outcome. The returned error
// is nil on success, ErrDeclined when the operator opted out, and a fatal
// error otherwise.
func (s *Session) Run(ctx context.Context) error {
	if config.ForcedInteractive() {
		proceed, err := s.Prompt.AskYesNo(
			"Reconfigure domain controller?",
			"This will erase the current domain configuration and start over.",
			"Reconfigure", "Quit")
		if err != nil {
			return err
		}
		if !proceed {
			return ErrDeclined
		}
	}

	s.state = StateCollecting
	for !s.state.terminal() {
		s.Observer.Printf("[%s] entering", s.state)
		next, err := s.step(ctx)
		if err != nil {
			s.state = StateFailedFatal
			return err
		}
		s.state = next
	}
	return nil
}

// step runs the current state's work and returns the next state. A
// non-nil error is fatal.
func (s *Session) step(ctx context.Context) (State, error) {
	switch s.state {
	case StateCollecting:
		return s.collect()
	case StateValidating:
		return s.validateAll()
	case StateMutating:
		return s.mutate(ctx)
	case StateExecuting:
		return s.execute(ctx)
	case StateFailedRetryable:
		return s.recover(ctx)
	default:
		return s.state, fmt.Errorf("no transition from state %s", s.state)
	}
}

// execute runs the mode-specific command sequence and finalizes on
// success. Command failures are logged and either retried (interactive)
// or fatal.
func (s *Session) execute(ctx context.Context) (State, error) {
	req := s.Request

	var steps []run.Step
	if req.Joining() {
		steps = run.JoinSteps(req, s.Paths)
	} else {
		steps = run.CreateSteps(req, s.Paths)
	}

	err := run.All(ctx, s.Runner, steps)
	if err == nil {
		if err := s.finalize(ctx); err != nil {
			return StateFailedFatal, err
		}
		return StateFinalized, nil
	}

	var stepErr *run.StepError
	if !errors.As(err, &stepErr) {
		return StateFailedFatal, err
	}

	if logErr := s.logFailure(stepErr); logErr != nil {
		s.Observer.Printf("could not write failure log: %v", logErr)
	}

	if !req.Interactive {
		return StateFailedFatal, fmt.Errorf("%s failed:\n%s",
			stepErr.Step.Label, stepErr.Result.CombinedOutput)
	}

	s.failure = stepErr
	return StateFailedRetryable, nil
}

// shortHostname returns this host's short name for the create-mode hosts
// rewrite.
func shortHostname() (string, error) {
	name, err := osHostname()
	if err != nil {
		return "", fmt.Errorf("determine hostname: %w", err)
	}
	short, _, _ := strings.Cut(name, ".")
	return short, nil
}
