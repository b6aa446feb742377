package envelope

import (
	"encoding/json"
	"time"

	"github.com/phuslu/log"
)

// ChangeEvent describes one mutation of the book: which operation ran, the
// entity it touched, and JSON snapshots of the entity before and after.
// Reason carries the user-supplied justification when one is required, as
// for unlocking a reconciled transaction.
type ChangeEvent struct {
	Op     string
	Entity string
	ID     string
	Before string
	After  string
	Reason string
}

// AuditSink receives a ChangeEvent for every mutating operation. Sinks are
// best effort: a failing sink is reported to the caller as a warning and
// never rolls back the mutation it describes.
type AuditSink interface {
	Record(e ChangeEvent) error
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Record(ChangeEvent) error { return nil }

// JournalSink appends events as JSON lines to an audit file next to the
// book.
type JournalSink struct {
	logger log.Logger
	writer *log.FileWriter
}

// NewJournalSink opens (or creates) the audit journal at path.
func NewJournalSink(path string) *JournalSink {
	w := &log.FileWriter{Filename: path, EnsureFolder: true}
	return &JournalSink{
		logger: log.Logger{
			Level:      log.InfoLevel,
			TimeField:  "at",
			TimeFormat: time.RFC3339,
			Writer:     w,
		},
		writer: w,
	}
}

func (s *JournalSink) Record(e ChangeEvent) error {
	entry := s.logger.Info().
		Str("op", e.Op).
		Str("entity", e.Entity).
		Str("id", e.ID)
	if e.Before != "" {
		entry = entry.RawJSON("before", []byte(e.Before))
	}
	if e.After != "" {
		entry = entry.RawJSON("after", []byte(e.After))
	}
	if e.Reason != "" {
		entry = entry.Str("reason", e.Reason)
	}
	entry.Msg("change")
	return nil
}

// Close flushes and closes the underlying journal file.
func (s *JournalSink) Close() error { return s.writer.Close() }

// auditSnapshot renders an entity for a ChangeEvent. Snapshots are
// informational, a value that cannot marshal is recorded as null.
func auditSnapshot(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
