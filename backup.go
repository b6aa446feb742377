package envelope

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BackupDirName is the subdirectory of a budget directory that holds
// snapshots, one directory per stamp.
const BackupDirName = "backups"

// Backup copies the books, audit journals and settings file of a budget
// directory into backups/<stamp> and returns the snapshot path. Snapshots
// are plain files, restoring one is copying its files back.
func Backup(dir, stamp string) (string, error) {
	if strings.TrimSpace(stamp) == "" {
		return "", Validationf("backup stamp cannot be empty")
	}
	if strings.ContainsAny(stamp, `/\`) {
		return "", Validationf("backup stamp %q cannot contain path separators", stamp)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("could not read budget directory %q: %w", dir, err)
	}

	target := filepath.Join(dir, BackupDirName, stamp)
	if _, err := os.Stat(target); err == nil {
		return "", Conflictf("backup %q already exists", stamp)
	}
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", fmt.Errorf("could not create backup directory %q: %w", target, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".jsonl") && name != SettingsFilename {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("could not read %q: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(target, name), data, 0644); err != nil {
			return "", fmt.Errorf("could not write backup of %q: %w", name, err)
		}
	}
	return target, nil
}

// ListBackups returns the snapshot stamps found in a budget directory,
// oldest first. Stamps sort lexically, timestamps keep that order.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(dir, BackupDirName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read backup directory: %w", err)
	}
	var stamps []string
	for _, e := range entries {
		if e.IsDir() {
			stamps = append(stamps, e.Name())
		}
	}
	sort.Strings(stamps)
	return stamps, nil
}

// PruneBackups removes the oldest snapshots beyond keep and returns the
// stamps it removed. Zero or negative keeps everything.
func PruneBackups(dir string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	stamps, err := ListBackups(dir)
	if err != nil || len(stamps) <= keep {
		return nil, err
	}
	var removed []string
	for _, stamp := range stamps[:len(stamps)-keep] {
		if err := os.RemoveAll(filepath.Join(dir, BackupDirName, stamp)); err != nil {
			return removed, fmt.Errorf("could not remove backup %q: %w", stamp, err)
		}
		removed = append(removed, stamp)
	}
	return removed, nil
}
