package sysfiles

import (
	"fmt"
	"os"
	"strings"
)

// loopbackAlias is the conventional Debian host-alias address.
const loopbackAlias = "127.0.1.1"

// UpdateHosts rewrites the hosts file so the loopback alias maps to the
// host's fully qualified and short names. When realIP is non-empty and
// distinct from the alias, a line for it is ensured as well, replacing any
// pre-existing entry for that address. Every other line, comments
// included, passes through verbatim. The operation is idempotent.
func UpdateHosts(path, hostname, realm, realIP string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hosts file: %w", err)
	}

	short := strings.ToLower(hostname)
	fqdn := short + "." + strings.ToLower(realm)
	aliasLine := fmt.Sprintf("%s\t%s %s", loopbackAlias, fqdn, short)

	var out []string
	aliasSeen := false
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			out = append(out, line)
			continue
		}
		switch fields[0] {
		case loopbackAlias:
			if !aliasSeen {
				out = append(out, aliasLine)
				aliasSeen = true
			}
		case realIP:
			// dropped, re-added below
		default:
			out = append(out, line)
		}
	}
	if !aliasSeen {
		out = append(out, aliasLine)
	}

	if realIP != "" && realIP != loopbackAlias {
		out = appendHostLine(out, fmt.Sprintf("%s\t%s %s", realIP, fqdn, short))
	}

	if err := writeLines(path, out); err != nil {
		return fmt.Errorf("write hosts file: %w", err)
	}
	return nil
}

// appendHostLine inserts a line before the trailing blank lines so the
// file keeps its final newline shape across repeated applications.
func appendHostLine(lines []string, line string) []string {
	i := len(lines)
	for i > 0 && strings.TrimSpace(lines[i-1]) == "" {
		i--
	}
	out := append([]string{}, lines[:i]...)
	out = append(out, line)
	return append(out, lines[i:]...)
}
