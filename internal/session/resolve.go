package session

import (
	"fmt"
	"strings"

	"github.com/imamik/dcinit/internal/config"
	"github.com/imamik/dcinit/internal/validate"
)

// collect fills every missing request field, prompting when interactive.
// Values entered here are raw; normalization and rejection happen in the
// validating state, which loops back on bad input.
func (s *Session) collect() (State, error) {
	req := s.Request

	if !s.modeFixed {
		if !req.Interactive {
			req.Mode = config.ModeCreate
		} else {
			joining, err := s.Prompt.AskYesNo(
				"Domain controller role",
				"Join an existing domain instead of creating a new one?",
				"Join existing", "Create new")
			if err != nil {
				return StateFailedFatal, err
			}
			if joining {
				req.Mode = config.ModeJoin
			} else {
				req.Mode = config.ModeCreate
			}
		}
		s.modeFixed = true
	}

	type field struct {
		value   *string
		needed  bool
		ask     func() (string, error)
	}

	fields := []field{
		{&req.Realm, true, func() (string, error) {
			return s.Prompt.AskInput("Realm",
				"Enter the Kerberos realm (DNS domain) for the directory.",
				s.defaultRealm)
		}},
		{&req.Domain, true, func() (string, error) {
			return s.Prompt.AskInput("NetBIOS domain",
				"Enter the short domain (workgroup) name.",
				s.defaultDomain)
		}},
		{&req.AdminPassword, true, func() (string, error) {
			return s.Prompt.AskPassword("Administrator password",
				fmt.Sprintf("Enter new password for the %q account.", config.AdminUser),
				validate.MinPasswordLength, validate.MinPasswordComplexity)
		}},
		{&req.JoinNameserver, req.Joining(), func() (string, error) {
			return s.Prompt.AskInput("Domain nameserver",
				"Enter the IPv4 address of the existing domain's nameserver.",
				s.defaultNameserver)
		}},
		{&req.Hostname, req.Joining(), func() (string, error) {
			return s.Prompt.AskInput("New hostname",
				"Enter a new short hostname for this domain controller.",
				s.defaultHostname)
		}},
	}

	for _, f := range fields {
		if !f.needed || *f.value != "" {
			continue
		}
		if !req.Interactive {
			return StateFailedFatal, fmt.Errorf("missing required parameter in non-interactive mode")
		}
		value, err := f.ask()
		if err != nil {
			return StateFailedFatal, err
		}
		*f.value = value
	}
	return StateValidating, nil
}

// validateAll normalizes every field and rejects invalid values. In
// interactive mode a rejected field is cleared (remembering the entry as
// the new default) and collection restarts; in non-interactive mode the
// first rejection is fatal.
func (s *Session) validateAll() (State, error) {
	req := s.Request

	req.Realm = applySentinel(req.Realm, config.DefaultRealm)
	req.Domain = applySentinel(req.Domain, config.DefaultDomain)

	realm, err := validate.Realm(req.Realm)
	if err != nil {
		return s.rejectField(&req.Realm, &s.defaultRealm, err)
	}
	req.Realm = realm

	domain, err := validate.Netbios(req.Domain)
	if err != nil {
		return s.rejectField(&req.Domain, &s.defaultDomain, err)
	}
	req.Domain = domain

	if err := validate.CheckPassword(req.AdminPassword, 1, 0); err != nil {
		// Flag-supplied passwords bypass the interactive policy but must
		// still be non-empty and parenthesis-free.
		var noDefault string
		return s.rejectField(&req.AdminPassword, &noDefault, err)
	}

	if req.Joining() {
		ns, err := validate.IPv4(req.JoinNameserver)
		if err != nil {
			return s.rejectField(&req.JoinNameserver, &s.defaultNameserver, err)
		}
		req.JoinNameserver = ns

		hostname, err := validate.Hostname(req.Hostname, req.Realm,
			config.ReservedHostname, s.Probe.Resolves)
		if err != nil {
			return s.rejectField(&req.Hostname, &s.defaultHostname, err)
		}
		req.Hostname = hostname
	}

	return StateMutating, nil
}

// rejectField handles one invalid value: fatal when non-interactive,
// otherwise clear it, remember the entry as the next prompt default, and
// return to collection.
func (s *Session) rejectField(value, remembered *string, cause error) (State, error) {
	if !s.Request.Interactive {
		return StateFailedFatal, cause
	}
	s.Prompt.ShowError(cause.Error())
	if *value != "" {
		*remembered = *value
	}
	*value = ""
	return StateCollecting, nil
}

// applySentinel resolves the literal DEFAULT entry to the built-in value.
func applySentinel(input, fallback string) string {
	if strings.EqualFold(input, config.DefaultSentinel) {
		return fallback
	}
	return input
}
