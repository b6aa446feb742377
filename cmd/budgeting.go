package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/google/subcommands"
)

// parsePeriodFlag resolves a -p flag against the book's period kind,
// defaulting to the current period when empty.
func parsePeriodFlag(settings *envelope.Settings, value string) (envelope.Period, error) {
	kind := settings.PeriodKind()
	if value == "" {
		return envelope.CurrentPeriod(kind), nil
	}
	return envelope.ParsePeriod(value, kind)
}

// --- Assign Command ---

type assignCmd struct {
	category string
	amount   string
	period   string
	force    bool
}

func (*assignCmd) Name() string     { return "assign" }
func (*assignCmd) Synopsis() string { return "assign money from available to budget to a category" }
func (*assignCmd) Usage() string {
	return `envelope assign -c <category> -a <amount> [-p <period>] [-force]

  Sets the budgeted amount for a category in a period. Assigning draws down
  the amount available to budget; by default it refuses to assign more than
  is available. A negative amount unassigns money back.
`
}

func (c *assignCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "Category to fund")
	f.StringVar(&c.amount, "a", "", "Amount to budget")
	f.StringVar(&c.period, "p", "", "Budget period, defaults to the current one")
	f.BoolVar(&c.force, "force", false, "Allow the available to budget to go negative")
}

func (c *assignCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.category == "" || c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	amount, err := envelope.ParseMoney(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	sys, settings, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := parsePeriodFlag(settings, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	category, err := resolveCategory(sys, c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	alloc, err := sys.Assign(category, p, amount, c.force || settings.AllowNegativeATB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error assigning: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Budgeted %s for %s in %s. Available to budget: %s.\n",
		alloc.Budgeted, c.category, p, sys.AvailableToBudget(p).SignedString())
	return subcommands.ExitSuccess
}

// --- Move Command ---

type moveCmd struct {
	from   string
	to     string
	amount string
	period string
}

func (*moveCmd) Name() string     { return "move" }
func (*moveCmd) Synopsis() string { return "move budgeted money between two categories" }
func (*moveCmd) Usage() string {
	return `envelope move -from <category> -to <category> -a <amount> [-p <period>]

  Moves already-budgeted money from one category to another within a period.
  The total budgeted and the available to budget are unchanged. This is the
  usual way to cover an overspent category.
`
}

func (c *moveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source category")
	f.StringVar(&c.to, "to", "", "Destination category")
	f.StringVar(&c.amount, "a", "", "Amount to move, positive")
	f.StringVar(&c.period, "p", "", "Budget period, defaults to the current one")
}

func (c *moveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" || c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	amount, err := envelope.ParseMoney(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	sys, settings, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	p, err := parsePeriodFlag(settings, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	from, err := resolveCategory(sys, c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	to, err := resolveCategory(sys, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := sys.MoveFunds(from, to, amount, p); err != nil {
		fmt.Fprintf(os.Stderr, "Error moving funds: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Moved %s from %s to %s in %s.\n", amount, c.from, c.to, p)
	return subcommands.ExitSuccess
}

// --- Rollover Command ---

type rolloverCmd struct {
	from string
	to   string
}

func (*rolloverCmd) Name() string     { return "rollover" }
func (*rolloverCmd) Synopsis() string { return "carry period-end balances into the next period" }
func (*rolloverCmd) Usage() string {
	return `envelope rollover [-from <period>] [-to <period>]

  Carries each category's end-of-period available balance into the next
  period, and resets overspent categories to zero. Running it again for the
  same pair of periods recomputes the carryover rather than doubling it.
`
}

func (c *rolloverCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Closing period, defaults to the current one")
	f.StringVar(&c.to, "to", "", "Opening period, defaults to the one after -from")
}

func (c *rolloverCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sys, settings, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	from, err := parsePeriodFlag(settings, c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	var to envelope.Period
	if c.to == "" {
		if to, err = from.Next(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	} else if to, err = parsePeriodFlag(settings, c.to); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}

	allocs, err := sys.ApplyRollover(from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rolling over: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Rolled %s into %s, %d categories carried over.\n", from, to, len(allocs))
	for _, o := range sys.OverspentCategories(from) {
		fmt.Printf("  note: %s closed %s overspent by %s\n", o.Category, from, o.Available)
	}
	return subcommands.ExitSuccess
}

// --- Atb Command ---

type atbCmd struct {
	period string
}

func (*atbCmd) Name() string     { return "atb" }
func (*atbCmd) Synopsis() string { return "print the amount available to budget" }
func (*atbCmd) Usage() string {
	return `envelope atb [-p <period>]

  Prints the amount of income not yet assigned to any category as of the end
  of a period. Negative means more has been budgeted than earned.
`
}

func (c *atbCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Budget period, defaults to the current one")
}

func (c *atbCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	fmt.Printf("Available to budget in %s: %s\n", p, sys.AvailableToBudget(p).SignedString())
	return subcommands.ExitSuccess
}

// --- Overspent Command ---

type overspentCmd struct {
	period string
}

func (*overspentCmd) Name() string     { return "overspent" }
func (*overspentCmd) Synopsis() string { return "list the categories spent past their envelope" }
func (*overspentCmd) Usage() string {
	return `envelope overspent [-p <period>]

  Lists the categories whose available money went negative in a period.
  Overspending is a state to fix with assign or move, not an error, so the
  command succeeds either way.
`
}

func (c *overspentCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Budget period, defaults to the current one")
}

func (c *overspentCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	overspent := sys.OverspentCategories(p)
	if len(overspent) == 0 {
		fmt.Printf("Nothing overspent in %s.\n", p)
		return subcommands.ExitSuccess
	}
	sys.View(func(l *envelope.Ledger) error {
		fmt.Printf("%-24s %12s\n", "Category", "Available")
		for _, o := range overspent {
			name := o.Category
			if cat := l.Categories().Get(o.Category); cat != nil {
				name = cat.Name
			}
			fmt.Printf("%-24s %12s\n", name, o.Available.SignedString())
		}
		return nil
	})
	return subcommands.ExitSuccess
}
