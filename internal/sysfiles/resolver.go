package sysfiles

import (
	"fmt"
	"os"
	"strings"
)

// UpdateResolver rewrites the resolver head file so nameserver, search and
// domain lines point at the given nameserver and realm. All other lines
// pass through unchanged. The file must already be covered by a backup.
func UpdateResolver(path, nameserver, realm string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read resolver config: %w", err)
	}

	domain := strings.ToLower(realm)
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "nameserver":
			lines[i] = "nameserver " + nameserver
		case "search":
			lines[i] = "search " + domain
		case "domain":
			lines[i] = "domain " + domain
		}
	}

	if err := writeLines(path, lines); err != nil {
		return fmt.Errorf("write resolver config: %w", err)
	}
	return nil
}

func writeLines(path string, lines []string) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), perm)
}
