// Package cmd implements the CLI application to manage a budget book.
package cmd

import (
	"flag"
	"os"
	"path/filepath"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "book")
	c.Register(&booksCmd{}, "book")
	c.Register(&settingsCmd{}, "book")
	c.Register(&backupCmd{}, "book")
	c.Register(&fmtCmd{}, "book")

	c.Register(&newAccountCmd{}, "setup")
	c.Register(&newCategoryCmd{}, "setup")
	c.Register(&newPayeeCmd{}, "setup")
	c.Register(&accountsCmd{}, "setup")
	c.Register(&categoriesCmd{}, "setup")
	c.Register(&payeesCmd{}, "setup")

	c.Register(&addCmd{}, "transactions")
	c.Register(&incomeCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&editCmd{}, "transactions")
	c.Register(&deleteCmd{}, "transactions")
	c.Register(&statusCmd{}, "transactions")
	c.Register(&logCmd{}, "transactions")

	c.Register(&assignCmd{}, "budgeting")
	c.Register(&moveCmd{}, "budgeting")
	c.Register(&rolloverCmd{}, "budgeting")
	c.Register(&atbCmd{}, "budgeting")
	c.Register(&overspentCmd{}, "budgeting")
	c.Register(&targetCmd{}, "budgeting")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&targetsCmd{}, "reports")
	c.Register(&registerCmd{}, "reports")
	c.Register(&spendingCmd{}, "reports")
	c.Register(&networthCmd{}, "reports")
	c.Register(&chartCmd{}, "reports")

	c.Register(&reconcileCmd{}, "reconciliation")
	c.Register(&unlockCmd{}, "reconciliation")

	c.Register(&importCmd{}, "exchange")
	c.Register(&exportCmd{}, "exchange")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var budgetDir = flag.String("dir", envOr("ENVELOPE_DIR", "."), "Path to the budget directory holding books and settings")
var bookFlag = flag.String("book", "", "Book to use. Defaults to the book named in settings.")

// envOr returns the environment value when set, the fallback otherwise.
func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// loadSettings reads the directory settings and applies the display currency.
func loadSettings() (*envelope.Settings, error) {
	settings, err := envelope.LoadSettings(*budgetDir)
	if err != nil {
		return nil, err
	}
	envelope.SetDisplayCurrency(settings.Currency)
	return settings, nil
}

// bookName returns the book name in effect: the -book flag, then settings.
func bookName(settings *envelope.Settings) string {
	if *bookFlag != "" {
		return *bookFlag
	}
	return settings.Book
}

// openBook loads the settings and the book, and wires the audit journal when
// settings enable it. Every command that touches the book goes through here.
func openBook() (*envelope.BudgetSystem, *envelope.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	name := bookName(settings)
	ledger, store, err := envelope.FindBook(*budgetDir, name)
	if err != nil {
		return nil, nil, err
	}
	var sink envelope.AuditSink
	if settings.Audit {
		sink = envelope.NewJournalSink(filepath.Join(*budgetDir, name+".audit.jsonl"))
	}
	return envelope.NewBudgetSystem(ledger, store, sink), settings, nil
}

// openForReading is openBook without the audit journal, for commands that
// only render reports.
func openForReading() (*envelope.BudgetSystem, *envelope.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	ledger, store, err := envelope.FindBook(*budgetDir, bookName(settings))
	if err != nil {
		return nil, nil, err
	}
	return envelope.NewBudgetSystem(ledger, store, nil), settings, nil
}

// resolveAccount turns an account id or name into the account id.
func resolveAccount(sys *envelope.BudgetSystem, ref string) (string, error) {
	var id string
	err := sys.View(func(l *envelope.Ledger) error {
		a := l.Accounts().Find(ref)
		if a == nil {
			return envelope.NotFoundf("unknown account %q", ref)
		}
		id = a.ID
		return nil
	})
	return id, err
}

// resolveCategory turns a category id or name into the category id.
func resolveCategory(sys *envelope.BudgetSystem, ref string) (string, error) {
	var id string
	err := sys.View(func(l *envelope.Ledger) error {
		c := l.Categories().Find(ref)
		if c == nil {
			return envelope.NotFoundf("unknown category %q", ref)
		}
		id = c.ID
		return nil
	})
	return id, err
}

// resolvePayee turns a payee id or name into the payee id, creating the
// payee on first use.
func resolvePayee(sys *envelope.BudgetSystem, ref string) (string, error) {
	var id string
	err := sys.View(func(l *envelope.Ledger) error {
		if p := l.Payees().Find(ref); p != nil {
			id = p.ID
		}
		return nil
	})
	if err != nil || id != "" {
		return id, err
	}
	p := &envelope.Payee{Name: ref}
	if err := sys.CreatePayee(p); err != nil {
		return "", err
	}
	return p.ID, nil
}
