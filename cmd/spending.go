package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/KayleeBeyene/EnvelopeCLI/renderer"
	"github.com/google/subcommands"
)

type spendingCmd struct {
	period string
}

func (*spendingCmd) Name() string     { return "spending" }
func (*spendingCmd) Synopsis() string { return "break down spending by category and payee" }
func (*spendingCmd) Usage() string {
	return `envelope spending [-p <period>]

  Breaks down the period's spending by category and by payee, with each
  category's share of the total.
`
}

func (c *spendingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Budget period, defaults to the current one")
}

func (c *spendingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sys, settings, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := parsePeriodFlag(settings, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.SpendingMarkdown(sys.NewSpendingReport(p)))
	return subcommands.ExitSuccess
}
