// Package run executes the ordered external command sequences that
// provision or join a domain, capturing combined output and stopping at
// the first failure.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Step is one external command in a provisioning sequence.
type Step struct {
	// Label names the step in logs and failure reports.
	Label string
	// Argv is the full command line, program first.
	Argv []string
	// Stdin, when non-empty, is written to the process's input stream.
	// Steps with input do not stream output live; the combined output is
	// read once the process exits.
	Stdin string
}

// Result captures the outcome of one executed step.
type Result struct {
	ExitCode       int
	CombinedOutput []byte
}

// Runner executes a single step. Implementations must merge stderr into
// stdout. A non-zero exit is reported via Result, not via error; error is
// reserved for spawn failures.
type Runner interface {
	Run(ctx context.Context, step Step) (Result, error)
}

// StepError reports the first failed step of a sequence.
type StepError struct {
	Step   Step
	Result Result
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Step.Label, e.Result.ExitCode)
}

// All executes steps in order, halting at the first non-zero exit. The
// returned error is a *StepError for command failures and a plain error
// for spawn failures.
func All(ctx context.Context, runner Runner, steps []Step) error {
	for _, step := range steps {
		result, err := runner.Run(ctx, step)
		if err != nil {
			return fmt.Errorf("%s: %w", step.Label, err)
		}
		if result.ExitCode != 0 {
			return &StepError{Step: step, Result: result}
		}
	}
	return nil
}

// ExecRunner runs steps as real subprocesses. Output is streamed to
// Console while being buffered for later inspection.
type ExecRunner struct {
	// Console receives live combined output. Defaults to os.Stdout.
	Console io.Writer
}

// NewExecRunner returns a runner streaming to standard output.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Console: os.Stdout}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, step Step) (Result, error) {
	if len(step.Argv) == 0 {
		return Result{}, errors.New("empty argv")
	}

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, step.Argv[0], step.Argv[1:]...) // #nosec G204 - argv is built from validated parameters

	if step.Stdin != "" {
		cmd.Stdin = bytes.NewBufferString(step.Stdin)
		cmd.Stdout = &buf
	} else {
		console := r.Console
		if console == nil {
			console = os.Stdout
		}
		cmd.Stdout = io.MultiWriter(console, &buf)
	}
	cmd.Stderr = cmd.Stdout

	err := cmd.Run()
	result := Result{CombinedOutput: buf.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	default:
		return result, fmt.Errorf("failed to start %s: %w", step.Argv[0], err)
	}
}
