package session

import (
	"context"
	"fmt"

	"github.com/imamik/dcinit/internal/config"
	"github.com/imamik/dcinit/internal/sysfiles"
)

// loopbackNameserver is what a freshly created controller resolves
// against: itself.
const loopbackNameserver = "127.0.0.1"

// mutate tears down prior domain state and rewrites the resolver head and
// hosts files under backup. File-system errors are fatal; an unreachable
// nameserver blocks the update and re-prompts when interactive.
func (s *Session) mutate(ctx context.Context) (State, error) {
	req := s.Request

	for _, name := range config.StopBeforeProvision {
		if err := s.Services.Stop(ctx, name); err != nil {
			s.Observer.Printf("stop %s: %v (ignored)", name, err)
		}
	}

	if err := sysfiles.RemoveConfigs(s.Paths.SambaConf, s.Paths.Krb5Conf); err != nil {
		return StateFailedFatal, err
	}
	if err := sysfiles.PurgeStateDBs(s.Paths.StateDirs...); err != nil {
		return StateFailedFatal, err
	}

	nameserver := loopbackNameserver
	if req.Joining() {
		nameserver = req.JoinNameserver
	}

	if !s.Probe.Reachable(ctx, nameserver) {
		err := fmt.Errorf("nameserver %s is unreachable", nameserver)
		if !req.Interactive {
			return StateFailedFatal, err
		}
		s.Prompt.ShowError(err.Error())
		if req.Joining() {
			s.defaultNameserver = req.JoinNameserver
			req.JoinNameserver = ""
		}
		return StateCollecting, nil
	}

	if err := s.backup.Save(s.Paths.ResolverHead); err != nil {
		return StateFailedFatal, err
	}
	if err := sysfiles.UpdateResolver(s.Paths.ResolverHead, nameserver, req.Realm); err != nil {
		return StateFailedFatal, err
	}
	if err := s.Services.Restart(ctx, config.ResolverService); err != nil {
		return StateFailedFatal, err
	}

	hostname := req.Hostname
	if !req.Joining() {
		short, err := shortHostname()
		if err != nil {
			return StateFailedFatal, err
		}
		hostname = short
	}

	if err := s.backup.Save(s.Paths.Hosts); err != nil {
		return StateFailedFatal, err
	}
	realIP := s.Probe.OwnAddress(nameserver)
	if err := sysfiles.UpdateHosts(s.Paths.Hosts, hostname, req.Realm, realIP); err != nil {
		return StateFailedFatal, err
	}

	return StateExecuting, nil
}
