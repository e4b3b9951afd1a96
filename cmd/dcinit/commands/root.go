// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dcinit/cmd/dcinit/handlers"
)

// Root returns the root command for the dcinit CLI. The root command
// itself performs the configuration; any parameter left unset is gathered
// interactively.
func Root() *cobra.Command {
	var opts handlers.ConfigureOptions

	cmd := &cobra.Command{
		Use:   "dcinit",
		Short: "Configure this host as a domain controller",
		Long: `Configure this host as an Active Directory domain controller.

dcinit either provisions a brand-new domain or joins this host into an
existing one as an additional controller. Parameters not supplied as
flags are asked interactively; supplying --pass, --realm and --domain
(plus --join_ns and --hostname when joining) runs without prompts.

A failed provisioning attempt is rolled back: mutated system files are
restored from their backups and the parameters are asked again.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Configure(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Password, "pass", "", "Administrator password")
	cmd.Flags().StringVar(&opts.Realm, "realm", "", "Kerberos realm (DNS domain), e.g. EXAMPLE.LAN")
	cmd.Flags().StringVar(&opts.Domain, "domain", "", "NetBIOS domain (workgroup) name")
	cmd.Flags().StringVar(&opts.JoinNameserver, "join_ns", "", "IPv4 nameserver of the existing domain to join")
	cmd.Flags().StringVar(&opts.Hostname, "hostname", "", "New hostname when joining an existing domain")

	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
