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

type historyCmd struct {
	from string
	to   string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show budget totals across a range of periods" }
func (*historyCmd) Usage() string {
	return `envelope history [-from <period>] [-to <period>]

  Shows income, budgeted, spending, savings rate and net worth for each
  period in a range. Defaults to the last six periods.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First period, defaults to five before -to")
	f.StringVar(&c.to, "to", "", "Last period, defaults to the current one")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sys, settings, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	last, err := parsePeriodFlag(settings, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	var first envelope.Period
	if c.from == "" {
		first = last
		for i := 0; i < 5; i++ {
			prev, err := first.Prev()
			if err != nil {
				break
			}
			first = prev
		}
	} else if first, err = parsePeriodFlag(settings, c.from); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}

	report, err := sys.NewHistory(first, last)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building history: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HistoryMarkdown(report))
	return subcommands.ExitSuccess
}
