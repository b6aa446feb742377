package envelope

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// SettingsFilename is the per-directory configuration file, next to the
// books.
const SettingsFilename = "settings.toml"

// Settings configure a budget directory. Command-line flags override them,
// they override the built-in defaults.
type Settings struct {
	Book               string `toml:"book"`                // default book name
	Currency           string `toml:"currency"`            // ISO 4217 display currency
	Period             string `toml:"period"`              // default period kind: monthly, weekly, biweekly
	AllowNegativeATB   bool   `toml:"allow_negative_atb"`  // permit deficit budgeting without the per-command override
	AdjustmentCategory string `toml:"adjustment_category"` // category absorbing reconciliation write-offs
	Audit              bool   `toml:"audit"`               // keep the audit journal
	BackupKeep         int    `toml:"backup_keep"`         // snapshots the backup command keeps, 0 keeps all
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Book:       DefaultBook,
		Currency:   "USD",
		Period:     "monthly",
		Audit:      true,
		BackupKeep: 10,
	}
}

// LoadSettings reads settings.toml from a budget directory, falling back to
// defaults for a missing file, then applies ENVELOPE_* environment
// overrides.
func LoadSettings(dir string) (*Settings, error) {
	s := DefaultSettings()

	path := filepath.Join(dir, SettingsFilename)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fresh directory, defaults apply
	case err != nil:
		return nil, fmt.Errorf("could not read settings file %q: %w", path, err)
	default:
		if err := toml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("could not parse settings file %q: %w", path, err)
		}
	}

	if v := os.Getenv("ENVELOPE_BOOK"); v != "" {
		s.Book = v
	}
	if v := os.Getenv("ENVELOPE_CURRENCY"); v != "" {
		s.Currency = strings.ToUpper(v)
	}
	if v := os.Getenv("ENVELOPE_PERIOD"); v != "" {
		s.Period = v
	}
	return s, nil
}

// Save writes the settings file into a budget directory.
func (s *Settings) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create budget directory %q: %w", dir, err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode settings: %w", err)
	}
	path := filepath.Join(dir, SettingsFilename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write settings file %q: %w", path, err)
	}
	return nil
}

// PeriodKind parses the configured default period kind, Monthly when the
// value is missing or unknown.
func (s *Settings) PeriodKind() PeriodKind {
	kind, err := ParsePeriodKind(s.Period)
	if err != nil {
		return Monthly
	}
	return kind
}
