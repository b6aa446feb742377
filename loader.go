package envelope

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultBook is the book name used when none is given.
const DefaultBook = "budget"

// FindBook resolves a book by name inside a budget directory and returns
// its ledger together with the store backing it. An empty name means the
// default book. A book that does not exist yet resolves to an empty ledger
// whose first save creates the file.
func FindBook(dir, name string) (*Ledger, *FileStore, error) {
	if name == "" {
		name = DefaultBook
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, nil, Validationf("book name %q cannot contain path separators", name)
	}
	store := NewFileStore(filepath.Join(dir, name+".jsonl"))
	ledger, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	return ledger, store, nil
}

// ListBooks scans a budget directory and returns the book names found in
// it, the .jsonl files without their extension. Audit journals are not
// books.
func ListBooks(dir string) ([]string, error) {
	var books []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(p, ".jsonl") && !strings.HasSuffix(p, ".audit.jsonl") {
			books = append(books, strings.TrimSuffix(filepath.Base(p), ".jsonl"))
		}
		return nil
	})
	return books, err
}
