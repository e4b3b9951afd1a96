package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imamik/dcinit/internal/config"
	"github.com/imamik/dcinit/internal/run"
)

// passwordMask replaces the administrator password wherever it appears in
// logged command lines.
const passwordMask = "********"

// failureRecord is one YAML document in the failure log.
type failureRecord struct {
	Time     time.Time `yaml:"time"`
	Step     string    `yaml:"step"`
	Argv     []string  `yaml:"argv"`
	ExitCode int       `yaml:"exit_code"`
	Output   string    `yaml:"output"`
}

// logFailure appends the failed step, with redacted argv and full
// captured output, to the failure log, creating its directory on demand.
func (s *Session) logFailure(stepErr *run.StepError) error {
	record := failureRecord{
		Time:     time.Now(),
		Step:     stepErr.Step.Label,
		Argv:     redactArgv(stepErr.Step.Argv, s.Request.AdminPassword),
		ExitCode: stepErr.Result.ExitCode,
		Output:   string(stepErr.Result.CombinedOutput),
	}

	if err := os.MkdirAll(filepath.Dir(s.Paths.FailureLog), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode failure record: %w", err)
	}

	f, err := os.OpenFile(s.Paths.FailureLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open failure log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "---\n%s", data); err != nil {
		return fmt.Errorf("append failure record: %w", err)
	}
	return nil
}

// redactArgv masks the password in every argument that contains it.
func redactArgv(argv []string, password string) []string {
	out := make([]string, len(argv))
	for i, arg := range argv {
		if password != "" {
			arg = strings.ReplaceAll(arg, password, passwordMask)
		}
		out[i] = arg
	}
	return out
}

// recover handles a retryable command failure: report a condensed error,
// reset the fields needing re-entry (remembering them as new defaults),
// restore the mutated files, and return to collection.
func (s *Session) recover(ctx context.Context) (State, error) {
	req := s.Request

	message := Condense(string(s.failure.Result.CombinedOutput))
	message += fmt.Sprintf("\n\nFull output logged to %s", s.Paths.FailureLog)
	s.Prompt.ShowError(message)
	s.failure = nil

	if req.Realm != "" {
		s.defaultRealm = req.Realm
	}
	if req.Domain != "" {
		s.defaultDomain = req.Domain
	}
	if req.JoinNameserver != "" {
		s.defaultNameserver = req.JoinNameserver
	}
	if req.Hostname != "" {
		s.defaultHostname = req.Hostname
	}
	req.Realm = ""
	req.Domain = ""
	req.AdminPassword = ""
	req.JoinNameserver = ""
	req.Hostname = ""

	if err := s.backup.Restore(); err != nil {
		return StateFailedFatal, err
	}
	if err := s.Services.Restart(ctx, config.ResolverService); err != nil {
		s.Observer.Printf("restart %s after rollback: %v (ignored)", config.ResolverService, err)
	}

	return StateCollecting, nil
}

// Output markers recognized by Condense.
const (
	markerBind    = "Failed to bind"
	markerConnect = "Failed to connect"
	markerError   = "ERROR"
)

// Condense reduces raw provisioning-tool output to an operator-readable
// message. Bind/connect failures contribute their first two
// hyphen-delimited segments; an ERROR line contributes its summary and
// suppresses everything after it; other lines pass through until
// suppression begins.
func Condense(output string) string {
	var kept []string
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, markerBind), strings.HasPrefix(trimmed, markerConnect):
			kept = append(kept, truncateSegments(trimmed))
		case strings.HasPrefix(trimmed, markerError):
			kept = append(kept, truncateSegments(trimmed))
			return strings.Join(kept, "\n")
		default:
			kept = append(kept, line)
		}
	}
	return strings.TrimRight(strings.Join(kept, "\n"), "\n")
}

// truncateSegments keeps the first two " - " separated segments of a line.
func truncateSegments(line string) string {
	segments := strings.Split(line, " - ")
	if len(segments) <= 2 {
		return line
	}
	return strings.Join(segments[:2], " - ")
}
