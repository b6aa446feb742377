package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/google/subcommands"
)

// --- New Account Command ---

type newAccountCmd struct {
	name     string
	kind     string
	tracking bool
	balance  string
	date     string
}

func (*newAccountCmd) Name() string     { return "new-account" }
func (*newAccountCmd) Synopsis() string { return "create an account in the book" }
func (*newAccountCmd) Usage() string {
	return `envelope new-account -n <name> [-kind <kind>] [-tracking] [-balance <amount>] [-d <date>]

  Creates an account. Tracking accounts are shown apart from budget accounts
  in listings and net worth.
`
}

func (c *newAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Account name")
	f.StringVar(&c.kind, "kind", "checking", "Account kind (checking, savings, cash, credit)")
	f.BoolVar(&c.tracking, "tracking", false, "Keep the account off budget")
	f.StringVar(&c.balance, "balance", "0", "Starting balance")
	f.StringVar(&c.date, "d", envelope.Today().String(), "Starting date")
}

func (c *newAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	kind, err := envelope.ParseAccountKind(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	balance, err := envelope.ParseMoney(c.balance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing balance: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := envelope.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	a := &envelope.Account{
		Name:            c.name,
		Kind:            kind,
		OnBudget:        !c.tracking,
		StartingBalance: balance,
		StartingDate:    on,
	}
	if err := sys.CreateAccount(a); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating account: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created account %q (%s).\n", a.Name, a.ID)
	return subcommands.ExitSuccess
}

// --- New Category Command ---

type newCategoryCmd struct {
	name  string
	group string
}

func (*newCategoryCmd) Name() string     { return "new-category" }
func (*newCategoryCmd) Synopsis() string { return "create a budget category" }
func (*newCategoryCmd) Usage() string {
	return `envelope new-category -n <name> [-g <group>]

  Creates a category, the envelope money is assigned into.
`
}

func (c *newCategoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Category name")
	f.StringVar(&c.group, "g", "", "Category group for display")
}

func (c *newCategoryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	cat := &envelope.Category{Name: c.name, Group: c.group}
	if err := sys.CreateCategory(cat); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating category: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created category %q (%s).\n", cat.Name, cat.ID)
	return subcommands.ExitSuccess
}

// --- New Payee Command ---

type newPayeeCmd struct {
	name string
}

func (*newPayeeCmd) Name() string     { return "new-payee" }
func (*newPayeeCmd) Synopsis() string { return "create a payee" }
func (*newPayeeCmd) Usage() string {
	return `envelope new-payee -n <name>

  Creates a payee. Payees are also created on first use by add and import.
`
}

func (c *newPayeeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Payee name")
}

func (c *newPayeeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	p := &envelope.Payee{Name: c.name}
	if err := sys.CreatePayee(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating payee: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created payee %q (%s).\n", p.Name, p.ID)
	return subcommands.ExitSuccess
}

// --- Accounts Command ---

type accountsCmd struct {
	all bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts with their balances" }
func (*accountsCmd) Usage() string {
	return `envelope accounts [-all]

  Lists accounts with their current balances. Archived accounts are hidden
  unless -all is given.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Include archived accounts")
}

func (c *accountsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sys, _, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	today := envelope.Today()
	sys.View(func(l *envelope.Ledger) error {
		fmt.Printf("%-12s %-24s %-9s %-8s %12s\n", "Id", "Name", "Kind", "Budget", "Balance")
		for _, a := range l.Accounts().All() {
			if a.Archived && !c.all {
				continue
			}
			budget := "on"
			if !a.OnBudget {
				budget = "off"
			}
			name := a.Name
			if a.Archived {
				name += " (archived)"
			}
			fmt.Printf("%-12s %-24s %-9s %-8s %12s\n", a.ID, name, a.Kind, budget, l.AccountBalance(a.ID, today))
		}
		return nil
	})
	return subcommands.ExitSuccess
}

// --- Categories Command ---

type categoriesCmd struct {
	all bool
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list budget categories" }
func (*categoriesCmd) Usage() string {
	return `envelope categories [-all]

  Lists categories grouped as they appear in the budget. Archived categories
  are hidden unless -all is given.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Include archived categories")
}

func (c *categoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sys, _, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	sys.View(func(l *envelope.Ledger) error {
		fmt.Printf("%-12s %-24s %s\n", "Id", "Name", "Group")
		for _, cat := range l.Categories().All() {
			if cat.Archived && !c.all {
				continue
			}
			name := cat.Name
			if cat.Archived {
				name += " (archived)"
			}
			fmt.Printf("%-12s %-24s %s\n", cat.ID, name, cat.Group)
		}
		return nil
	})
	return subcommands.ExitSuccess
}

// --- Payees Command ---

type payeesCmd struct{}

func (*payeesCmd) Name() string     { return "payees" }
func (*payeesCmd) Synopsis() string { return "list payees" }
func (*payeesCmd) Usage() string {
	return `envelope payees

  Lists the payees of the book. Payees accumulate on first use by add and
  import, so the list doubles as a spell check of their names.
`
}

func (c *payeesCmd) SetFlags(f *flag.FlagSet) {}

func (c *payeesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sys, _, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	sys.View(func(l *envelope.Ledger) error {
		fmt.Printf("%-12s %s\n", "Id", "Name")
		for _, p := range l.Payees().All() {
			fmt.Printf("%-12s %s\n", p.ID, p.Name)
		}
		return nil
	})
	return subcommands.ExitSuccess
}
