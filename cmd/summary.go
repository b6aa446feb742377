package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/KayleeBeyene/EnvelopeCLI/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	period string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the budget summary for a period" }
func (*summaryCmd) Usage() string {
	return `envelope summary [-p <period>]

  Shows every category with its carryover, budgeted amount, activity and
  available balance for a period, the amount available to budget, and any
  overspending.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Budget period, defaults to the current one")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.SummaryMarkdown(sys.NewSummary(p)))
	return subcommands.ExitSuccess
}
