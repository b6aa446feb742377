package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
)

type settingsCmd struct {
	book       string
	currency   string
	period     string
	negative   string
	adjustment string
	audit      string
	backups    string
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "show or change the budget directory settings" }
func (*settingsCmd) Usage() string {
	return `envelope settings [-book <name>] [-currency <code>] [-period <kind>] [-negative-atb <on|off>] [-adjustment <category>] [-audit <on|off>] [-backups <count>]

  Without flags, prints the settings in effect for the budget directory.
  With flags, changes them and writes settings.toml back.
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.book, "book", "", "Default book name")
	f.StringVar(&c.currency, "currency", "", "Display currency, ISO 4217 code")
	f.StringVar(&c.period, "period", "", "Default period kind: monthly, weekly or biweekly")
	f.StringVar(&c.negative, "negative-atb", "", "Permit budgeting past the available amount: on or off")
	f.StringVar(&c.adjustment, "adjustment", "", "Category absorbing reconciliation adjustments")
	f.StringVar(&c.audit, "audit", "", "Keep the audit journal: on or off")
	f.StringVar(&c.backups, "backups", "", "Snapshots the backup command keeps, 0 keeps all")
}

func parseOnOff(name, value string) (bool, error) {
	switch value {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid -%s %q: want on or off", name, value)
}

func (c *settingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}

	changed := false
	if c.book != "" {
		settings.Book = c.book
		changed = true
	}
	if c.currency != "" {
		settings.Currency = c.currency
		changed = true
	}
	if c.period != "" {
		settings.Period = c.period
		changed = true
	}
	if c.negative != "" {
		if settings.AllowNegativeATB, err = parseOnOff("negative-atb", c.negative); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		changed = true
	}
	if c.adjustment != "" {
		settings.AdjustmentCategory = c.adjustment
		changed = true
	}
	if c.audit != "" {
		if settings.Audit, err = parseOnOff("audit", c.audit); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		changed = true
	}
	if c.backups != "" {
		keep, err := strconv.Atoi(c.backups)
		if err != nil || keep < 0 {
			fmt.Fprintf(os.Stderr, "Error: invalid -backups %q: want a count\n", c.backups)
			return subcommands.ExitUsageError
		}
		settings.BackupKeep = keep
		changed = true
	}

	if changed {
		if err := settings.Save(*budgetDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	fmt.Printf("book:                %s\n", settings.Book)
	fmt.Printf("currency:            %s\n", settings.Currency)
	fmt.Printf("period:              %s\n", settings.Period)
	fmt.Printf("negative atb:        %s\n", onOff(settings.AllowNegativeATB))
	fmt.Printf("adjustment category: %s\n", settings.AdjustmentCategory)
	fmt.Printf("audit:               %s\n", onOff(settings.Audit))
	fmt.Printf("backups kept:        %d\n", settings.BackupKeep)
	return subcommands.ExitSuccess
}
