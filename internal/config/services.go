package config

// Host services managed during provisioning.
const (
	// DCService is the domain-controller service started on success and
	// polled until active.
	DCService = "samba-ad-dc"
	// ResolverService applies resolver-head changes.
	ResolverService = "resolvconf"
)

// StopBeforeProvision lists the file/name services stopped best-effort
// before any destructive action.
var StopBeforeProvision = []string{DCService, "smbd", "nmbd", "winbind"}
