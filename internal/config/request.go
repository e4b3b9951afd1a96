// Package config defines the provisioning request, the built-in defaults,
// and the system paths dcinit reads and mutates.
package config

import "os"

// Mode selects between creating a new forest and joining an existing one.
type Mode string

const (
	// ModeCreate provisions a brand-new domain.
	ModeCreate Mode = "create"
	// ModeJoin registers this host as an additional controller in an
	// existing domain.
	ModeJoin Mode = "join"
)

// Built-in defaults offered in interactive prompts.
const (
	DefaultRealm        = "DOMAIN.LAN"
	DefaultDomain       = "DOMAIN"
	DefaultJoinHostname = "dc2"

	// ReservedHostname is the hostname the appliance image ships with.
	// A joining controller must pick a different one.
	ReservedHostname = "dc1"

	// DefaultSentinel, entered literally, resolves to the built-in
	// default for the field.
	DefaultSentinel = "DEFAULT"
)

// AdminUser is the directory account every provisioning and join
// operation authenticates as.
const AdminUser = "administrator"

// InteractiveEnv forces interactive mode when set to a non-empty value,
// and adds an initial reconfiguration confirmation. Set by the first-boot
// environment.
const InteractiveEnv = "DCINIT_INTERACTIVE"

// Request carries the parameters of one provisioning run. Fields are
// resolved one at a time and may be cleared and re-resolved after a
// failed attempt.
type Request struct {
	Realm          string
	Domain         string
	AdminPassword  string
	Mode           Mode
	JoinNameserver string
	Hostname       string
	Interactive    bool
}

// Joining reports whether this request joins an existing domain.
func (r *Request) Joining() bool {
	return r.Mode == ModeJoin
}

// ForcedInteractive reports whether the execution environment demands
// interactive mode regardless of supplied flags.
func ForcedInteractive() bool {
	return os.Getenv(InteractiveEnv) != ""
}
