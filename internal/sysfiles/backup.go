// Package sysfiles performs backup-guarded mutation of the host network
// identity files (resolver head, hosts) and the pre-provisioning purge of
// stale domain state.
//
// Every mutation copies the live file to a .bak sibling first. A failed
// attempt restores the .bak files; a successful attempt deletes them.
package sysfiles

import (
	"fmt"
	"os"
)

// BackupSuffix is appended to a file path to form its backup path.
const BackupSuffix = ".bak"

// Backup records the files backed up during one provisioning attempt, in
// mutation order. Restore consumes the records; Cleanup discards them.
type Backup struct {
	paths []string
}

// NewBackup returns an empty backup set.
func NewBackup() *Backup {
	return &Backup{}
}

// Paths returns the live paths currently covered by a backup.
func (b *Backup) Paths() []string {
	out := make([]string, len(b.paths))
	copy(out, b.paths)
	return out
}

// Save copies path to path.bak and records it. Saving the same path twice
// in one attempt keeps the first copy, so a restore always returns to the
// pre-attempt content.
func (b *Backup) Save(path string) error {
	for _, p := range b.paths {
		if p == path {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}

	if err := os.WriteFile(path+BackupSuffix, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}

	b.paths = append(b.paths, path)
	return nil
}

// Restore moves every .bak file back over its live file, in reverse
// mutation order, and empties the set. Restoring is only valid with
// backups taken in the same attempt.
func (b *Backup) Restore() error {
	for i := len(b.paths) - 1; i >= 0; i-- {
		path := b.paths[i]
		if err := os.Rename(path+BackupSuffix, path); err != nil {
			return fmt.Errorf("restore %s: %w", path, err)
		}
	}
	b.paths = nil
	return nil
}

// Cleanup deletes the retained .bak files after a successful attempt.
// Missing backups are ignored.
func (b *Backup) Cleanup() {
	for _, path := range b.paths {
		_ = os.Remove(path + BackupSuffix)
	}
	b.paths = nil
}
