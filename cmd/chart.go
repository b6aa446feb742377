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

type chartCmd struct {
	output string
	from   string
	to     string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render a chart to a PNG file" }
func (*chartCmd) Usage() string {
	return `envelope chart [-o <file>] [-from <period>] [-to <period>] <networth|spending>

  Renders a chart as a PNG image. "networth" draws the net worth line over a
  range of periods, "spending" a bar chart of the last period's spending by
  category.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "chart.png", "Output file")
	f.StringVar(&c.from, "from", "", "First period, defaults to five before -to")
	f.StringVar(&c.to, "to", "", "Last period, defaults to the current one")
}

func (c *chartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	kind := f.Arg(0)

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

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	switch kind {
	case "networth":
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
		if err := renderer.NetWorthChart(out, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			return subcommands.ExitFailure
		}
	case "spending":
		if err := renderer.SpendingChart(out, sys.NewSpendingReport(last)); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering chart: %v\n", err)
			return subcommands.ExitFailure
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown chart %q, want networth or spending\n", kind)
		return subcommands.ExitUsageError
	}

	fmt.Printf("Wrote %s chart to %s.\n", kind, c.output)
	return subcommands.ExitSuccess
}
