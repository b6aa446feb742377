package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/google/subcommands"
)

type backupCmd struct {
	stamp string
	keep  int
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "snapshot the budget directory" }
func (*backupCmd) Usage() string {
	return `envelope backup [-stamp <name>] [-keep <count>]

  Copies the books, audit journals and settings into backups/<stamp> under
  the budget directory, then prunes the oldest snapshots past the retention
  count. Restoring is copying a snapshot's files back by hand.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.stamp, "stamp", "", "Snapshot name, defaults to the current time")
	f.IntVar(&c.keep, "keep", 0, "Snapshots to keep, 0 uses the settings value")
}

func (c *backupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		return subcommands.ExitFailure
	}
	stamp := c.stamp
	if stamp == "" {
		stamp = time.Now().Format("20060102-150405")
	}
	keep := c.keep
	if keep == 0 {
		keep = settings.BackupKeep
	}

	target, err := envelope.Backup(*budgetDir, stamp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error backing up: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Backed up to %s.\n", target)

	removed, err := envelope.PruneBackups(*budgetDir, keep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not prune old backups: %v\n", err)
		return subcommands.ExitSuccess
	}
	if len(removed) > 0 {
		fmt.Printf("Pruned %d old snapshots.\n", len(removed))
	}
	return subcommands.ExitSuccess
}
