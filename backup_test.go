package envelope

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// seedBudgetDir writes a minimal budget directory: a settings file, two
// books, one audit journal and a stray file backups must not pick up.
func seedBudgetDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := []struct{ name, content string }{
		{SettingsFilename, "book = \"budget\"\n"},
		{"budget.jsonl", "{\"kind\":\"account\"}\n"},
		{"vacation.jsonl", "{\"kind\":\"account\"}\n"},
		{"budget.audit.jsonl", "{\"at\":\"2025-08-25\"}\n"},
		{"notes.txt", "not part of the book\n"},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(f.content), 0644); err != nil {
			t.Fatalf("WriteFile(%s): %v", f.name, err)
		}
	}
	return dir
}

func TestBackup(t *testing.T) {
	dir := seedBudgetDir(t)

	target, err := Backup(dir, "20250825-100000")
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if want := filepath.Join(dir, BackupDirName, "20250825-100000"); target != want {
		t.Errorf("Backup path = %q, want %q", target, want)
	}

	for _, name := range []string{SettingsFilename, "budget.jsonl", "vacation.jsonl", "budget.audit.jsonl"} {
		if _, err := os.Stat(filepath.Join(target, name)); err != nil {
			t.Errorf("snapshot misses %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(target, "notes.txt")); !os.IsNotExist(err) {
		t.Errorf("snapshot copied notes.txt, want only books and settings")
	}

	// The snapshot directory must not look like more books.
	books, err := ListBooks(dir)
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if want := []string{"budget", "vacation"}; !reflect.DeepEqual(books, want) {
		t.Errorf("ListBooks after backup = %v, want %v", books, want)
	}
}

func TestBackupGuards(t *testing.T) {
	dir := seedBudgetDir(t)
	if _, err := Backup(dir, "stamp-1"); err != nil {
		t.Fatalf("Backup: %v", err)
	}

	if _, err := Backup(dir, "stamp-1"); !errors.Is(err, ErrConflict) {
		t.Errorf("Backup with an existing stamp = %v, want conflict", err)
	}
	if _, err := Backup(dir, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("Backup with empty stamp = %v, want validation error", err)
	}
	if _, err := Backup(dir, "a/b"); !errors.Is(err, ErrValidation) {
		t.Errorf("Backup with path separator = %v, want validation error", err)
	}
}

func TestPruneBackups(t *testing.T) {
	dir := seedBudgetDir(t)
	for _, stamp := range []string{"20250821", "20250822", "20250823", "20250824"} {
		if _, err := Backup(dir, stamp); err != nil {
			t.Fatalf("Backup(%s): %v", stamp, err)
		}
	}

	removed, err := PruneBackups(dir, 2)
	if err != nil {
		t.Fatalf("PruneBackups: %v", err)
	}
	if want := []string{"20250821", "20250822"}; !reflect.DeepEqual(removed, want) {
		t.Errorf("PruneBackups removed %v, want %v", removed, want)
	}
	left, err := ListBackups(dir)
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if want := []string{"20250823", "20250824"}; !reflect.DeepEqual(left, want) {
		t.Errorf("remaining backups = %v, want %v", left, want)
	}

	// Zero keeps everything, and pruning below the count does nothing.
	if removed, err := PruneBackups(dir, 0); err != nil || removed != nil {
		t.Errorf("PruneBackups(0) = %v, %v, want no removals", removed, err)
	}
	if removed, err := PruneBackups(dir, 5); err != nil || removed != nil {
		t.Errorf("PruneBackups(5) = %v, %v, want no removals", removed, err)
	}
}

func TestListBackupsEmpty(t *testing.T) {
	stamps, err := ListBackups(t.TempDir())
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if stamps != nil {
		t.Errorf("ListBackups on a fresh directory = %v, want none", stamps)
	}
}
