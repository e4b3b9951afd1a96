// Package validate implements the syntactic rules for realm, NetBIOS
// domain, hostname, IPv4 address, and administrator password values.
//
// All functions are pure except Hostname, which takes a name-resolution
// probe so callers can reject hostnames already present on the network.
package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// Error describes a single rejected field value.
type Error struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func errf(field, format string, v ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, v...)}
}

// Realm validates a Kerberos/DNS realm and returns it normalized to
// uppercase with surrounding dots stripped.
func Realm(input string) (string, error) {
	realm := strings.Trim(input, ".")
	if realm == "" {
		return "", errf("realm", "realm must not be empty")
	}
	if len(realm) > 255 {
		return "", errf("realm", "realm must not exceed 255 characters")
	}
	for _, label := range strings.Split(realm, ".") {
		if err := checkLabel("realm", label, 63); err != nil {
			return "", err
		}
	}
	return strings.ToUpper(realm), nil
}

// Netbios validates a NetBIOS domain name and returns it uppercased.
func Netbios(input string) (string, error) {
	if input == "" {
		return "", errf("domain", "domain must not be empty")
	}
	if len(input) > 15 {
		return "", errf("domain", "domain must not exceed 15 characters")
	}
	if err := checkLabel("domain", input, 15); err != nil {
		return "", err
	}
	return strings.ToUpper(input), nil
}

// checkLabel enforces the shared label rule: 1..max characters,
// alphanumeric, starting with a letter.
func checkLabel(field, label string, max int) error {
	if label == "" {
		return errf(field, "empty label (consecutive or leading dots)")
	}
	if len(label) > max {
		return errf(field, "label %q exceeds %d characters", label, max)
	}
	if !isLetter(rune(label[0])) {
		return errf(field, "label %q must start with a letter", label)
	}
	for _, r := range label {
		if !isLetter(r) && !isDigit(r) {
			return errf(field, "label %q must be alphanumeric", label)
		}
	}
	return nil
}

// Hostname validates the short hostname of a joining controller. The
// resolves probe reports whether a fully qualified name already resolves
// on the network; realm is used to form that probe name.
func Hostname(input, realm, reserved string, resolves func(fqdn string) bool) (string, error) {
	if input == "" {
		return "", errf("hostname", "hostname must not be empty")
	}
	if strings.EqualFold(input, reserved) {
		return "", errf("hostname", "%q is reserved, choose a different hostname", reserved)
	}
	if strings.Contains(input, ".") {
		return "", errf("hostname", "enter the short hostname only, without domain")
	}
	for _, r := range input {
		if !isLetter(r) && !isDigit(r) && r != '_' && r != '-' {
			return "", errf("hostname", "hostname may only contain letters, digits, '_' and '-'")
		}
	}
	if resolves != nil {
		fqdn := strings.ToLower(input + "." + realm)
		if resolves(fqdn) {
			return "", errf("hostname", "%s already resolves on the network, choose a different hostname", fqdn)
		}
	}
	return input, nil
}

// IPv4 validates a strict dotted-quad address and returns its canonical
// form (no leading zeros).
func IPv4(input string) (string, error) {
	octets := strings.Split(input, ".")
	if len(octets) != 4 {
		return "", errf("address", "%q is not a dotted-quad IPv4 address", input)
	}
	canon := make([]string, 4)
	for i, o := range octets {
		if o == "" || len(o) > 3 {
			return "", errf("address", "%q is not a dotted-quad IPv4 address", input)
		}
		for _, r := range o {
			if !isDigit(r) {
				return "", errf("address", "%q is not a dotted-quad IPv4 address", input)
			}
		}
		n, err := strconv.Atoi(o)
		if err != nil || n > 255 {
			return "", errf("address", "octet %q is out of range", o)
		}
		canon[i] = strconv.Itoa(n)
	}
	return strings.Join(canon, "."), nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
