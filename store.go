package envelope

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store persists a whole ledger. Save must be atomic: after a crash the
// book on disk is either the previous state or the new one, never a torn
// write.
type Store interface {
	Load() (*Ledger, error)
	Save(l *Ledger) error
}

// FileStore keeps the book in a single JSONL file. Saves go through a
// temporary file in the same directory followed by a rename, so a crash
// mid-write cannot corrupt the book.
type FileStore struct {
	path string
	name string
}

// NewFileStore creates a store for the book file at path. The book name is
// derived from the file name.
func NewFileStore(path string) *FileStore {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext == ".jsonl" {
		name = name[:len(name)-len(ext)]
	}
	return &FileStore{path: path, name: name}
}

// Path returns the book file path.
func (s *FileStore) Path() string { return s.path }

// Load reads and decodes the book file. A missing file yields an empty
// ledger, so a fresh directory works without an explicit create step.
func (s *FileStore) Load() (*Ledger, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			l := NewLedger()
			l.name = s.name
			return l, nil
		}
		return nil, fmt.Errorf("could not open book file %q: %w", s.path, err)
	}
	defer f.Close()

	ledger, err := DecodeBook(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode book file %q: %w", s.path, err)
	}
	ledger.name = s.name
	return ledger, nil
}

// Save encodes the ledger and atomically replaces the book file.
func (s *FileStore) Save(l *Ledger) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create book directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temporary book file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeBook(tmp, l); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("could not flush book file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temporary book file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace book file %q: %w", s.path, err)
	}
	return nil
}

// Backup copies the current book file next to itself with a suffix, and
// returns the backup path. Backing up a book that was never saved is an
// error.
func (s *FileStore) Backup(suffix string) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("could not read book file %q: %w", s.path, err)
	}
	backup := fmt.Sprintf("%s.%s.bak", s.path, suffix)
	if err := os.WriteFile(backup, data, 0644); err != nil {
		return "", fmt.Errorf("could not write backup %q: %w", backup, err)
	}
	return backup, nil
}
