package sysfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/bitfield/script"
)

// stateDBPattern matches the directory databases samba leaves behind.
var stateDBPattern = regexp.MustCompile(`\.(tdb|ldb)$`)

// RemoveConfigs deletes the given configuration files before a fresh
// provisioning attempt. Files that do not exist are ignored.
func RemoveConfigs(paths ...string) error {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

// PurgeStateDBs deletes stale *.tdb and *.ldb database files from the
// given directories. Missing directories are ignored.
func PurgeStateDBs(dirs ...string) error {
	for _, dir := range dirs {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		files, err := script.ListFiles(dir).MatchRegexp(stateDBPattern).Slice()
		if err != nil {
			return fmt.Errorf("list state databases in %s: %w", dir, err)
		}
		for _, f := range files {
			if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("purge %s: %w", f, err)
			}
		}
	}
	return nil
}
