package run

import (
	"fmt"
	"strings"

	"github.com/imamik/dcinit/internal/config"
)

// CreateSteps returns the fixed command sequence for provisioning a new
// domain: provision, remove the administrator password expiry, export the
// keytab.
func CreateSteps(req *config.Request, paths config.Paths) []Step {
	return []Step{
		{
			Label: "provision domain",
			Argv: []string{
				"samba-tool", "domain", "provision",
				"--realm=" + req.Realm,
				"--domain=" + req.Domain,
				"--adminpass=" + req.AdminPassword,
				"--server-role=dc",
				"--dns-backend=SAMBA_INTERNAL",
				"--use-rfc2307",
			},
		},
		{
			Label: "disable password expiry",
			Argv: []string{
				"samba-tool", "user", "setexpiry",
				config.AdminUser, "--noexpiry",
			},
		},
		{
			Label: "export keytab",
			Argv:  []string{"samba-tool", "domain", "exportkeytab", paths.Keytab},
		},
	}
}

// JoinSteps returns the fixed command sequence for joining an existing
// domain: acquire an initial credential (password on stdin), join as a
// domain controller, export the keytab.
func JoinSteps(req *config.Request, paths config.Paths) []Step {
	principal := fmt.Sprintf("%s@%s", config.AdminUser, req.Realm)
	return []Step{
		{
			Label: "acquire initial credential",
			Argv:  []string{"kinit", principal},
			Stdin: req.AdminPassword + "\n",
		},
		{
			Label: "join domain",
			Argv: []string{
				"samba-tool", "domain", "join",
				strings.ToLower(req.Realm), "DC",
				fmt.Sprintf("-U%s\\%s", req.Domain, config.AdminUser),
				"--password=" + req.AdminPassword,
				"--dns-backend=SAMBA_INTERNAL",
			},
		},
		{
			Label: "export keytab",
			Argv:  []string{"samba-tool", "domain", "exportkeytab", paths.Keytab},
		},
	}
}

// KinitStep returns the credential-acquisition step used by the finalizer
// after the domain controller is up.
func KinitStep(req *config.Request) Step {
	return Step{
		Label: "acquire administrator ticket",
		Argv:  []string{"kinit", fmt.Sprintf("%s@%s", config.AdminUser, req.Realm)},
		Stdin: req.AdminPassword + "\n",
	}
}
