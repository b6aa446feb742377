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

// --- Targets Report Command ---

type targetsCmd struct {
	period string
}

func (*targetsCmd) Name() string     { return "targets" }
func (*targetsCmd) Synopsis() string { return "show target progress for a period" }
func (*targetsCmd) Usage() string {
	return `envelope targets [-p <period>]

  Shows every active target with its suggested amount for the period, what
  has been budgeted so far, and how far along it is.
`
}

func (c *targetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Budget period, defaults to the current one")
}

func (c *targetsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.TargetsMarkdown(sys.NewTargetsReport(p)))
	return subcommands.ExitSuccess
}

// --- Target Command Group ---

// targetCmd is a container for target subcommands.
type targetCmd struct {
}

func (*targetCmd) Name() string     { return "target" }
func (*targetCmd) Synopsis() string { return "manage category funding targets" }
func (*targetCmd) Usage() string {
	return `envelope target <subcommand> [args]

Commands:
  set  - set or replace the target on a category.
  drop - deactivate the target on a category.
  fill - budget the suggested amounts for a period.
`
}

func (c *targetCmd) SetFlags(f *flag.FlagSet) {}
func (c *targetCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "target")
	commander.Register(&targetSetCmd{}, "")
	commander.Register(&targetDropCmd{}, "")
	commander.Register(&targetFillCmd{}, "")
	return commander.Execute(ctx, args...)
}

// --- Target Set Command ---

type targetSetCmd struct {
	category string
	amount   string
	cadence  string
	notes    string
}

func (*targetSetCmd) Name() string     { return "set" }
func (*targetSetCmd) Synopsis() string { return "set or replace the target on a category" }
func (*targetSetCmd) Usage() string {
	return `envelope target set -c <category> -a <amount> -cadence <cadence> [-n <notes>]

  Declares how a category should be funded. Cadences: weekly, monthly,
  yearly, every N days ("45d"), or a goal date ("by 2026-06-01"). Setting a
  target on a category replaces its previous one.
`
}

func (c *targetSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "Category to target")
	f.StringVar(&c.amount, "a", "", "Amount per cadence, or total for a goal date")
	f.StringVar(&c.cadence, "cadence", "monthly", "Funding cadence")
	f.StringVar(&c.notes, "n", "", "Optional notes")
}

func (c *targetSetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.category == "" || c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	amount, err := envelope.ParseMoney(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	cadence, err := envelope.ParseCadence(c.cadence)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing cadence: %v\n", err)
		return subcommands.ExitUsageError
	}
	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	category, err := resolveCategory(sys, c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	t := &envelope.BudgetTarget{Category: category, Amount: amount, Cadence: cadence, Notes: c.notes}
	if err := sys.SetTarget(t); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting target: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Target on %s: %s %s (%s).\n", c.category, t.Amount, t.Cadence, t.ID)
	return subcommands.ExitSuccess
}

// --- Target Drop Command ---

type targetDropCmd struct {
	category string
}

func (*targetDropCmd) Name() string     { return "drop" }
func (*targetDropCmd) Synopsis() string { return "deactivate the target on a category" }
func (*targetDropCmd) Usage() string {
	return `envelope target drop -c <category>

  Deactivates the category's target. Past allocations are untouched.
`
}

func (c *targetDropCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "Category whose target to drop")
}

func (c *targetDropCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.category == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	category, err := resolveCategory(sys, c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	var id string
	err = sys.View(func(l *envelope.Ledger) error {
		t := l.TargetFor(category)
		if t == nil {
			return envelope.NotFoundf("category %q has no active target", c.category)
		}
		id = t.ID
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := sys.DropTarget(id); err != nil {
		fmt.Fprintf(os.Stderr, "Error dropping target: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Dropped target on %s.\n", c.category)
	return subcommands.ExitSuccess
}

// --- Target Fill Command ---

type targetFillCmd struct {
	category string
	period   string
	force    bool
}

func (*targetFillCmd) Name() string     { return "fill" }
func (*targetFillCmd) Synopsis() string { return "budget the suggested amounts for a period" }
func (*targetFillCmd) Usage() string {
	return `envelope target fill [-c <category>] [-p <period>] [-force]

  Budgets each targeted category up to its suggested amount for the period.
  With -c only that category is filled. Categories already at or above the
  suggestion are left alone.
`
}

func (c *targetFillCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "Only fill this category")
	f.StringVar(&c.period, "p", "", "Budget period, defaults to the current one")
	f.BoolVar(&c.force, "force", false, "Allow the available to budget to go negative")
}

func (c *targetFillCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	allowNegative := c.force || settings.AllowNegativeATB

	if c.category != "" {
		category, err := resolveCategory(sys, c.category)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		alloc, err := sys.AutoFill(category, p, allowNegative)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error filling: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Budgeted %s for %s in %s.\n", alloc.Budgeted, c.category, p)
		return subcommands.ExitSuccess
	}

	allocs, err := sys.AutoFillAll(p, allowNegative)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error filling: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Filled %d categories in %s. Available to budget: %s.\n",
		len(allocs), p, sys.AvailableToBudget(p).SignedString())
	return subcommands.ExitSuccess
}
