package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/KayleeBeyene/EnvelopeCLI/renderer"
	"github.com/google/subcommands"
)

type networthCmd struct {
	date string
}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string { return "show assets, debts and net worth" }
func (*networthCmd) Usage() string {
	return `envelope networth [-d <date>]

  Shows every account balance as of a date, budget accounts first and
  tracking accounts after, with the resulting net worth.
`
}

func (c *networthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", envelope.Today().String(), "Valuation date")
}

func (c *networthCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := envelope.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	sys, _, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.NetWorthMarkdown(sys.NewNetWorthReport(on)))
	return subcommands.ExitSuccess
}
