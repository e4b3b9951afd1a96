package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/dcinit/internal/config"
	"github.com/imamik/dcinit/internal/run"
)

// fakePrompt serves scripted answers and records what was shown.
type fakePrompt struct {
	t         *testing.T
	yesNos    []bool
	inputs    []string
	passwords []string
	errors    []string
	infos     []string
}

func (p *fakePrompt) AskYesNo(string, string, string, string) (bool, error) {
	if len(p.yesNos) == 0 {
		return false, fmt.Errorf("unexpected yes/no prompt")
	}
	answer := p.yesNos[0]
	p.yesNos = p.yesNos[1:]
	return answer, nil
}

func (p *fakePrompt) AskInput(title, _, initial string) (string, error) {
	if len(p.inputs) == 0 {
		return "", fmt.Errorf("unexpected input prompt: %s", title)
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	if answer == "" {
		return initial, nil
	}
	return answer, nil
}

func (p *fakePrompt) AskPassword(title string, _ string, _, _ int) (string, error) {
	if len(p.passwords) == 0 {
		return "", fmt.Errorf("unexpected password prompt: %s", title)
	}
	answer := p.passwords[0]
	p.passwords = p.passwords[1:]
	return answer, nil
}

func (p *fakePrompt) ShowError(text string) { p.errors = append(p.errors, text) }
func (p *fakePrompt) ShowInfo(text string)  { p.infos = append(p.infos, text) }

// fakeRunner returns scripted exit codes per label, in call order.
type fakeRunner struct {
	exits   map[string][]int
	outputs map[string]string
	ran     []string
}

func (f *fakeRunner) Run(_ context.Context, step run.Step) (run.Result, error) {
	f.ran = append(f.ran, step.Label)
	code := 0
	if queue := f.exits[step.Label]; len(queue) > 0 {
		code = queue[0]
		f.exits[step.Label] = queue[1:]
	}
	return run.Result{
		ExitCode:       code,
		CombinedOutput: []byte(f.outputs[step.Label]),
	}, nil
}

// fakeServices records lifecycle calls and is always active.
type fakeServices struct {
	started   []string
	stopped   []string
	restarted []string
}

func (f *fakeServices) Start(_ context.Context, name string) error {
	f.started = append(f.started, name)
	return nil
}

func (f *fakeServices) Stop(_ context.Context, name string) error {
	f.stopped = append(f.stopped, name)
	return nil
}

func (f *fakeServices) Restart(_ context.Context, name string) error {
	f.restarted = append(f.restarted, name)
	return nil
}

func (f *fakeServices) IsActive(context.Context, string) bool { return true }

type fakeProbe struct {
	unreachable map[string]bool
	resolvable  map[string]bool
	ownAddr     string
}

func (f *fakeProbe) Reachable(_ context.Context, addr string) bool { return !f.unreachable[addr] }
func (f *fakeProbe) Resolves(fqdn string) bool                     { return f.resolvable[fqdn] }
func (f *fakeProbe) OwnAddress(string) string                      { return f.ownAddr }

// testPaths builds a full temp-directory file layout for one session.
func testPaths(t *testing.T) config.Paths {
	t.Helper()
	dir := t.TempDir()
	paths := config.Paths{
		ResolverHead:  filepath.Join(dir, "resolv-head"),
		Hosts:         filepath.Join(dir, "hosts"),
		SambaConf:     filepath.Join(dir, "smb.conf"),
		Krb5Conf:      filepath.Join(dir, "krb5.conf"),
		SambaKrb5Conf: filepath.Join(dir, "samba-krb5.conf"),
		Keytab:        filepath.Join(dir, "krb5.keytab"),
		StateDirs:     []string{filepath.Join(dir, "state")},
		FailureLog:    filepath.Join(dir, "log", "failures.yaml"),
	}
	require.NoError(t, os.Mkdir(paths.StateDirs[0], 0755))
	write := func(path, content string) {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write(paths.ResolverHead, "nameserver 8.8.8.8\nsearch old.lan\n")
	write(paths.Hosts, "127.0.0.1\tlocalhost\n127.0.1.1\tdc1.old.lan dc1\n")
	write(paths.SambaConf, "[global]\n")
	write(paths.Krb5Conf, "old krb5\n")
	write(paths.SambaKrb5Conf, "[libdefaults]\ndefault_realm = EXAMPLE.LAN\n")
	write(paths.Keytab, "keytab")
	require.NoError(t, os.WriteFile(filepath.Join(paths.StateDirs[0], "sam.ldb"), []byte("x"), 0600))
	return paths
}

func newTestSession(t *testing.T, req *config.Request, paths config.Paths, p *fakePrompt, r *fakeRunner) (*Session, *fakeServices) {
	t.Helper()
	services := &fakeServices{}
	sess := New(req, paths, p, r, services, &fakeProbe{ownAddr: "192.168.1.50"})
	sess.Observer = nopObserver{}
	return sess, services
}

// stubSyscalls replaces the chown/hostname seams for the duration of one
// test. Tests using it must not run in parallel.
func stubSyscalls(t *testing.T) {
	t.Helper()
	origChown, origHostname := chownFile, osHostname
	chownFile = func(string, int, int) error { return nil }
	osHostname = func() (string, error) { return "dc1", nil }
	t.Cleanup(func() {
		chownFile = origChown
		osHostname = origHostname
	})
}

func TestRun_CreateNonInteractive(t *testing.T) {
	stubSyscalls(t)
	paths := testPaths(t)
	req := &config.Request{
		Realm:         "example.lan",
		Domain:        "example",
		AdminPassword: "Sup3rSecret!",
		Mode:          config.ModeCreate,
	}
	runner := &fakeRunner{}
	p := &fakePrompt{t: t}
	sess, services := newTestSession(t, req, paths, p, runner)

	err := sess.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateFinalized, sess.State())
	assert.Equal(t, []string{
		"provision domain",
		"disable password expiry",
		"export keytab",
		"acquire administrator ticket",
	}, runner.ran)

	assert.Equal(t, "EXAMPLE.LAN", req.Realm)
	assert.Equal(t, "EXAMPLE", req.Domain)

	info, statErr := os.Stat(paths.Keytab)
	require.NoError(t, statErr)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	resolver, readErr := os.ReadFile(paths.ResolverHead)
	require.NoError(t, readErr)
	assert.Contains(t, string(resolver), "nameserver 127.0.0.1")
	assert.Contains(t, string(resolver), "search example.lan")

	hosts, readErr := os.ReadFile(paths.Hosts)
	require.NoError(t, readErr)
	assert.Contains(t, string(hosts), "127.0.1.1\tdc1.example.lan dc1")

	krb5, readErr := os.ReadFile(paths.Krb5Conf)
	require.NoError(t, readErr)
	assert.Contains(t, string(krb5), "default_realm = EXAMPLE.LAN")

	assert.Contains(t, services.started, config.DCService)
	assert.Contains(t, services.stopped, "smbd")

	_, statErr = os.Stat(paths.ResolverHead + ".bak")
	assert.True(t, os.IsNotExist(statErr), "backups are deleted on success")

	_, statErr = os.Stat(filepath.Join(paths.StateDirs[0], "sam.ldb"))
	assert.True(t, os.IsNotExist(statErr), "state databases are purged")

	require.NotEmpty(t, p.infos)
	assert.Contains(t, p.infos[0], "static IP")
}

func TestRun_JoinInteractiveBadNameserver(t *testing.T) {
	stubSyscalls(t)
	paths := testPaths(t)
	req := &config.Request{
		Realm:          "example.lan",
		Domain:         "example",
		AdminPassword:  "Sup3rSecret!",
		Mode:           config.ModeJoin,
		JoinNameserver: "999.999.999.999",
		Interactive:    true,
	}
	// The hostname is prompted during the first collection pass; the
	// nameserver re-prompt follows once validation rejects the flag value.
	p := &fakePrompt{t: t, inputs: []string{"dc2", "192.168.1.10"}}
	runner := &fakeRunner{}
	sess, _ := newTestSession(t, req, paths, p, runner)

	err := sess.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "192.168.1.10", req.JoinNameserver)
	assert.Equal(t, "dc2", req.Hostname)
	require.NotEmpty(t, p.errors, "invalid nameserver reported before re-prompt")
	assert.Contains(t, p.errors[0], "dotted-quad")
	assert.Equal(t, []string{
		"acquire initial credential",
		"join domain",
		"export keytab",
		"acquire administrator ticket",
	}, runner.ran)

	hosts, readErr := os.ReadFile(paths.Hosts)
	require.NoError(t, readErr)
	assert.Contains(t, string(hosts), "127.0.1.1\tdc2.example.lan dc2")
	assert.Contains(t, string(hosts), "192.168.1.50\tdc2.example.lan dc2")
}

func TestRun_CreateFailingProvisionRetries(t *testing.T) {
	stubSyscalls(t)
	paths := testPaths(t)
	req := &config.Request{
		Realm:         "example.lan",
		Domain:        "example",
		AdminPassword: "Sup3rSecret!",
		Mode:          config.ModeCreate,
		Interactive:   true,
	}
	runner := &fakeRunner{
		exits:   map[string][]int{"provision domain": {1, 0}},
		outputs: map[string]string{"provision domain": "ERROR(ldb): provision failed - bad forest - details\nstack trace line"},
	}
	// Re-entry after the failure: realm, domain (empty accepts the
	// remembered defaults), then the password.
	p := &fakePrompt{
		t:         t,
		inputs:    []string{"", ""},
		passwords: []string{"Sup3rSecret!"},
	}
	sess, _ := newTestSession(t, req, paths, p, runner)

	err := sess.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateFinalized, sess.State())

	// The failed attempt was logged with full output.
	logData, readErr := os.ReadFile(paths.FailureLog)
	require.NoError(t, readErr)
	assert.Contains(t, string(logData), "provision domain")
	assert.Contains(t, string(logData), "stack trace line")
	assert.NotContains(t, string(logData), "Sup3rSecret!", "password never reaches the failure log")

	// Condensed report shown, pointing at the log.
	require.NotEmpty(t, p.errors)
	assert.Contains(t, p.errors[0], "ERROR(ldb): provision failed - bad forest")
	assert.NotContains(t, p.errors[0], "stack trace line")
	assert.Contains(t, p.errors[0], paths.FailureLog)

	// Defaults were re-offered from the failed attempt's values.
	assert.Equal(t, "EXAMPLE.LAN", req.Realm)
	assert.Equal(t, "EXAMPLE", req.Domain)

	// Provision ran twice, everything after it once.
	provisionRuns := 0
	for _, label := range runner.ran {
		if label == "provision domain" {
			provisionRuns++
		}
	}
	assert.Equal(t, 2, provisionRuns)
}

func TestRun_NonInteractiveCommandFailureIsFatal(t *testing.T) {
	stubSyscalls(t)
	paths := testPaths(t)
	req := &config.Request{
		Realm:         "example.lan",
		Domain:        "example",
		AdminPassword: "Sup3rSecret!",
		Mode:          config.ModeCreate,
	}
	runner := &fakeRunner{
		exits:   map[string][]int{"provision domain": {1}},
		outputs: map[string]string{"provision domain": "boom"},
	}
	sess, _ := newTestSession(t, req, paths, &fakePrompt{t: t}, runner)

	err := sess.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateFailedFatal, sess.State())
	assert.Contains(t, err.Error(), "boom")

	_, statErr := os.Stat(paths.FailureLog)
	assert.NoError(t, statErr, "failure is logged even when fatal")
}

func TestRun_NonInteractiveMissingFieldIsFatal(t *testing.T) {
	stubSyscalls(t)
	paths := testPaths(t)
	req := &config.Request{
		Realm:  "example.lan",
		Domain: "example",
		Mode:   config.ModeCreate,
	}
	sess, _ := newTestSession(t, req, paths, &fakePrompt{t: t}, &fakeRunner{})

	err := sess.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, StateFailedFatal, sess.State())
}

func TestRun_NonInteractiveInvalidRealmIsFatal(t *testing.T) {
	stubSyscalls(t)
	paths := testPaths(t)
	req := &config.Request{
		Realm:         "a..b",
		Domain:        "example",
		AdminPassword: "Sup3rSecret!",
		Mode:          config.ModeCreate,
	}
	sess, _ := newTestSession(t, req, paths, &fakePrompt{t: t}, &fakeRunner{})

	err := sess.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "label")
}

func TestRun_UnreachableNameserverRepromptsWhenInteractive(t *testing.T) {
	stubSyscalls(t)
	paths := testPaths(t)
	req := &config.Request{
		Realm:          "example.lan",
		Domain:         "example",
		AdminPassword:  "Sup3rSecret!",
		Mode:           config.ModeJoin,
		JoinNameserver: "192.168.1.99",
		Hostname:       "dc2",
		Interactive:    true,
	}
	probe := &fakeProbe{
		unreachable: map[string]bool{"192.168.1.99": true},
		ownAddr:     "192.168.1.50",
	}
	p := &fakePrompt{t: t, inputs: []string{"192.168.1.10"}}
	runner := &fakeRunner{}
	services := &fakeServices{}
	sess := New(req, paths, p, runner, services, probe)
	sess.Observer = nopObserver{}

	err := sess.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "192.168.1.10", req.JoinNameserver)
	require.NotEmpty(t, p.errors)
	assert.Contains(t, p.errors[0], "unreachable")
}

func TestRun_ForcedInteractiveDecline(t *testing.T) {
	t.Setenv(config.InteractiveEnv, "1")
	paths := testPaths(t)
	req := &config.Request{Interactive: true}
	p := &fakePrompt{t: t, yesNos: []bool{false}}
	sess, _ := newTestSession(t, req, paths, p, &fakeRunner{})

	err := sess.Run(context.Background())

	assert.ErrorIs(t, err, ErrDeclined)
}

func TestRun_InteractiveModeQuestion(t *testing.T) {
	stubSyscalls(t)
	paths := testPaths(t)
	req := &config.Request{
		Realm:         "example.lan",
		Domain:        "example",
		AdminPassword: "Sup3rSecret!",
		Interactive:   true,
	}
	// Answer "no" to joining: create mode, no further prompts needed.
	p := &fakePrompt{t: t, yesNos: []bool{false}}
	runner := &fakeRunner{}
	sess, _ := newTestSession(t, req, paths, p, runner)

	err := sess.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, config.ModeCreate, req.Mode)
	assert.Contains(t, runner.ran, "provision domain")
}
