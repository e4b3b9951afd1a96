package config

// Paths collects every file and directory dcinit touches. Tests point the
// fields at temp directories; production code uses DefaultPaths.
type Paths struct {
	// ResolverHead is the resolvconf head file rewritten with the
	// domain nameserver and search domain.
	ResolverHead string
	// Hosts is the system hosts file.
	Hosts string
	// SambaConf is the domain configuration removed before provisioning.
	SambaConf string
	// Krb5Conf is the system Kerberos client configuration.
	Krb5Conf string
	// SambaKrb5Conf is the Kerberos configuration samba-tool generates
	// during provisioning, copied over Krb5Conf on success.
	SambaKrb5Conf string
	// Keytab is the exported keytab file, locked to root 0600 on success.
	Keytab string
	// StateDirs hold the directory databases purged before an attempt.
	StateDirs []string
	// FailureLog is the structured log appended to on command failure.
	FailureLog string
}

// DefaultPaths returns the production file layout.
func DefaultPaths() Paths {
	return Paths{
		ResolverHead:  "/etc/resolvconf/resolv.conf.d/head",
		Hosts:         "/etc/hosts",
		SambaConf:     "/etc/samba/smb.conf",
		Krb5Conf:      "/etc/krb5.conf",
		SambaKrb5Conf: "/var/lib/samba/private/krb5.conf",
		Keytab:        "/etc/krb5.keytab",
		StateDirs: []string{
			"/var/lib/samba",
			"/var/lib/samba/private",
			"/var/cache/samba",
		},
		FailureLog: "/var/log/dcinit/failures.yaml",
	}
}
