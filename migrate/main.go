// Command migrate converts budgets kept in the legacy per-entity layout,
// a directory of accounts.json, categories.json, transactions.json,
// budgets.json and targets.json files with floating point amounts, into a
// single envelope book.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

func main() {
	// The migrate tool needs its own set of flags, independent of the main envelope tool.
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	commander := subcommands.NewCommander(flag.CommandLine, "migrate")
	commander.Register(&bookCmd{}, "")
	commander.Register(&checkCmd{}, "")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// --- Legacy Format ---

// Legacy files carry amounts as floats of major units and reference
// everything by name. Missing files are treated as empty.

type legacyAccount struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Balance  float64 `json:"balance"`
	Opened   string  `json:"opened"`
	Tracking bool    `json:"tracking"`
	Closed   bool    `json:"closed"`
}

type legacyCategory struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

type legacyTransaction struct {
	Date     string  `json:"date"`
	Account  string  `json:"account"`
	Payee    string  `json:"payee"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Memo     string  `json:"memo"`
	Cleared  bool    `json:"cleared"`
}

type legacyBudget struct {
	Month    string  `json:"month"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type legacyTarget struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Every    string  `json:"every"`
}

type legacyBudgetDir struct {
	accounts     []legacyAccount
	categories   []legacyCategory
	transactions []legacyTransaction
	budgets      []legacyBudget
	targets      []legacyTarget
}

// --- bookCmd ---

type bookCmd struct {
	in   string
	out  string
	name string
}

func (*bookCmd) Name() string { return "book" }
func (*bookCmd) Synopsis() string {
	return "converts a legacy budget directory into an envelope book"
}
func (*bookCmd) Usage() string {
	return `migrate book -in <legacy_dir> -out <budget_dir> [-name <book>]

Reads the legacy per-entity JSON files and writes a single book. The input and output directories must differ to prevent accidental data loss.
`
}
func (c *bookCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "The legacy budget directory holding the per-entity JSON files.")
	f.StringVar(&c.out, "out", "", "The budget directory where the book will be written.")
	f.StringVar(&c.name, "name", envelope.DefaultBook, "The name of the book to create.")
}

func (c *bookCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in == "" || c.out == "" {
		fmt.Fprintln(os.Stderr, "Error: -in and -out flags are required.")
		return subcommands.ExitUsageError
	}
	if filepath.Clean(c.in) == filepath.Clean(c.out) {
		fmt.Fprintln(os.Stderr, "Error: -in and -out must not be the same directory.")
		return subcommands.ExitUsageError
	}

	legacy, err := decodeLegacyDir(c.in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading legacy budget: %v\n", err)
		return subcommands.ExitFailure
	}

	ledger, err := convert(legacy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := os.MkdirAll(c.out, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		return subcommands.ExitFailure
	}
	store := envelope.NewFileStore(filepath.Join(c.out, c.name+".jsonl"))
	if err := store.Save(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing book: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Migrated %d accounts, %d categories and %d transactions into %s\n",
		ledger.Accounts().Len(), ledger.Categories().Len(), countTransactions(ledger),
		filepath.Join(c.out, c.name+".jsonl"))
	return subcommands.ExitSuccess
}

// convert builds a ledger from the legacy entities. References are by name
// in the legacy files; categories named only by transactions are created in
// an "Imported" group. Allocations are copied as-is, a legacy budget that
// overspent its income stays overspent.
func convert(legacy *legacyBudgetDir) (*envelope.Ledger, error) {
	l := envelope.NewLedger()
	// A memory-only system mints ids and validates, the caller saves once.
	sys := envelope.NewBudgetSystem(l, nil, nil)

	for _, la := range legacy.accounts {
		kind, err := envelope.ParseAccountKind(la.Type)
		if err != nil {
			log.Printf("account %q: unknown type %q, keeping checking", la.Name, la.Type)
			kind = envelope.Checking
		}
		opened, err := envelope.ParseDate(la.Opened)
		if err != nil {
			return nil, fmt.Errorf("account %q: invalid opened date %q", la.Name, la.Opened)
		}
		a := &envelope.Account{
			Name:            la.Name,
			Kind:            kind,
			OnBudget:        !la.Tracking,
			StartingBalance: cents(la.Balance),
			StartingDate:    opened,
			Archived:        la.Closed,
		}
		if err := sys.CreateAccount(a); err != nil {
			return nil, err
		}
	}

	for _, lc := range legacy.categories {
		if err := sys.CreateCategory(&envelope.Category{Name: lc.Name, Group: lc.Group}); err != nil {
			return nil, err
		}
	}
	category := func(name string) (string, error) {
		if name == "" {
			return "", nil
		}
		if c := l.Categories().Find(name); c != nil {
			return c.ID, nil
		}
		log.Printf("category %q not declared, creating it in group Imported", name)
		c := &envelope.Category{Name: name, Group: "Imported"}
		if err := sys.CreateCategory(c); err != nil {
			return "", err
		}
		return c.ID, nil
	}

	for _, lt := range legacy.transactions {
		on, err := envelope.ParseDate(lt.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction on %q: %w", lt.Date, err)
		}
		a := l.Accounts().Find(lt.Account)
		if a == nil {
			return nil, fmt.Errorf("transaction on %q: unknown account %q", lt.Date, lt.Account)
		}
		tx := &envelope.Transaction{
			Date:    on,
			Account: a.ID,
			Amount:  cents(lt.Amount),
			Memo:    lt.Memo,
		}
		if tx.Category, err = category(lt.Category); err != nil {
			return nil, err
		}
		if lt.Payee != "" {
			tx.Payee = l.Payees().FindOrCreate(lt.Payee).ID
		}
		if lt.Cleared {
			tx.Status = envelope.Cleared
		}
		if err := l.AddTransaction(tx); err != nil {
			return nil, fmt.Errorf("transaction on %q: %w", lt.Date, err)
		}
	}

	for _, lb := range legacy.budgets {
		p, err := envelope.ParsePeriod(lb.Month, envelope.Monthly)
		if err != nil {
			return nil, fmt.Errorf("budget for %q: %w", lb.Month, err)
		}
		id, err := category(lb.Category)
		if err != nil {
			return nil, err
		}
		alloc := &envelope.CategoryAllocation{Category: id, Period: p, Budgeted: cents(lb.Amount)}
		if err := l.SetAllocation(alloc); err != nil {
			return nil, fmt.Errorf("budget for %q: %w", lb.Month, err)
		}
	}

	for _, lt := range legacy.targets {
		cadence, err := envelope.ParseCadence(lt.Every)
		if err != nil {
			return nil, fmt.Errorf("target for %q: %w", lt.Category, err)
		}
		id, err := category(lt.Category)
		if err != nil {
			return nil, err
		}
		t := &envelope.BudgetTarget{Category: id, Amount: cents(lt.Amount), Cadence: cadence}
		if err := l.SetTarget(t); err != nil {
			return nil, fmt.Errorf("target for %q: %w", lt.Category, err)
		}
	}

	return l, nil
}

// --- checkCmd ---

type checkCmd struct {
	in   string
	book string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verifies a migration by comparing balances" }
func (*checkCmd) Usage() string {
	return `migrate check -in <legacy_dir> -book <book_file>

Recomputes each account balance from the migrated book and compares it with the balance implied by the legacy files.
`
}
func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "The legacy budget directory.")
	f.StringVar(&c.book, "book", "", "The migrated book file.")
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in == "" || c.book == "" {
		fmt.Fprintln(os.Stderr, "Error: -in and -book flags are required.")
		return subcommands.ExitUsageError
	}

	legacy, errA := decodeLegacyDir(c.in)
	ledger, errB := envelope.NewFileStore(c.book).Load()
	if err := errors.Join(errA, errB); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading data: %v\n", err)
		return subcommands.ExitFailure
	}

	// Balance each legacy account implies: opening plus its transactions.
	implied := make(map[string]float64)
	for _, la := range legacy.accounts {
		implied[la.Name] = la.Balance
	}
	for _, lt := range legacy.transactions {
		implied[lt.Account] += lt.Amount
	}

	fmt.Println(" Account              |      Legacy |        Book")
	fmt.Println("-----------------------------------------------")
	status := subcommands.ExitSuccess
	on := ledger.NewestTransactionDate()
	for _, la := range legacy.accounts {
		a := ledger.Accounts().Find(la.Name)
		if a == nil {
			fmt.Printf("%-21s| missing from the book\n", la.Name)
			status = subcommands.ExitFailure
			continue
		}
		got := ledger.AccountBalance(a.ID, on).Decimal().InexactFloat64()
		want := implied[la.Name]
		if !almostEqual(want, got, 0.005) {
			fmt.Printf("%-21s| %11.2f | %11.2f\n", la.Name, want, got)
			status = subcommands.ExitFailure
		}
	}
	if status == subcommands.ExitSuccess {
		fmt.Println("All account balances match.")
	}
	return status
}

// --- Helper Functions ---

// decodeLegacyDir reads the legacy files, treating missing ones as empty.
func decodeLegacyDir(dir string) (*legacyBudgetDir, error) {
	legacy := &legacyBudgetDir{}
	steps := []struct {
		file string
		into any
	}{
		{"accounts.json", &legacy.accounts},
		{"categories.json", &legacy.categories},
		{"transactions.json", &legacy.transactions},
		{"budgets.json", &legacy.budgets},
		{"targets.json", &legacy.targets},
	}
	for _, step := range steps {
		if err := decodeFile(filepath.Join(dir, step.file), step.into); err != nil {
			return nil, err
		}
	}
	if len(legacy.accounts) == 0 {
		return nil, fmt.Errorf("no accounts found in %q, is it a legacy budget directory?", dir)
	}
	return legacy, nil
}

func decodeFile(path string, into any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read %q: %w", path, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("could not parse %q: %w", path, err)
	}
	return nil
}

// cents converts a legacy float amount of major units without accumulating
// binary float error.
func cents(amount float64) envelope.Money {
	d := decimal.NewFromFloat(amount).Mul(decimal.New(1, 2)).Round(0)
	return envelope.Cents(d.IntPart())
}

func countTransactions(l *envelope.Ledger) int {
	n := 0
	for range l.Transactions() {
		n++
	}
	return n
}

// almostEqual compares two floats for approximate equality using an absolute tolerance.
func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
