package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/google/subcommands"
)

type initCmd struct {
	currency string
	period   string
	seed     bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a budget directory with settings and a book" }
func (*initCmd) Usage() string {
	return `envelope init [-currency <code>] [-period <kind>] [-seed]

  Creates the budget directory with a settings file and an empty book.
  With -seed, a small starter set of categories is created as well.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "USD", "Display currency (ISO 4217 code)")
	f.StringVar(&c.period, "period", "monthly", "Budget period kind (monthly, weekly, biweekly)")
	f.BoolVar(&c.seed, "seed", false, "Create a starter set of categories")
}

// seedCategories is the starter set created by init -seed.
var seedCategories = []*envelope.Category{
	{Name: "Rent", Group: "Bills"},
	{Name: "Utilities", Group: "Bills"},
	{Name: "Internet", Group: "Bills"},
	{Name: "Groceries", Group: "Everyday"},
	{Name: "Dining Out", Group: "Everyday"},
	{Name: "Transport", Group: "Everyday"},
	{Name: "Emergency Fund", Group: "Goals"},
	{Name: "Vacation", Group: "Goals"},
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := envelope.ParsePeriodKind(c.period); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	settings := envelope.DefaultSettings()
	settings.Currency = c.currency
	settings.Period = c.period
	if *bookFlag != "" {
		settings.Book = *bookFlag
	}
	if err := settings.Save(*budgetDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing settings: %v\n", err)
		return subcommands.ExitFailure
	}

	ledger, store, err := envelope.FindBook(*budgetDir, settings.Book)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating book: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := store.Save(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving book: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.seed {
		sys, _, err := openBook()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reopening book: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, cat := range seedCategories {
			if err := sys.CreateCategory(&envelope.Category{Name: cat.Name, Group: cat.Group}); err != nil {
				fmt.Fprintf(os.Stderr, "Error seeding category %q: %v\n", cat.Name, err)
				return subcommands.ExitFailure
			}
		}
		fmt.Printf("Seeded %d categories.\n", len(seedCategories))
	}

	fmt.Printf("Initialized budget in %s with book %q.\n", *budgetDir, settings.Book)
	return subcommands.ExitSuccess
}
