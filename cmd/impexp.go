package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/google/subcommands"
)

// --- Import Command Group ---

// importCmd is a container for import subcommands.
type importCmd struct {
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from bank exports" }
func (*importCmd) Usage() string {
	return `envelope import <subcommand> [args]

Commands:
  csv  - import a CSV bank export.
  json - import a JSON or JSONL bank export.
  pdf  - import a PDF account statement.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {}
func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "import")
	commander.Register(&importCSVCmd{}, "")
	commander.Register(&importJSONCmd{}, "")
	commander.Register(&importPDFCmd{}, "")
	return commander.Execute(ctx, args...)
}

func printImportResult(result *envelope.ImportResult) {
	fmt.Printf("Imported %d transactions (%d duplicates skipped).\n", len(result.Added), result.Skipped)
}

// --- Import CSV Command ---

type importCSVCmd struct {
	account    string
	date       string
	amount     string
	payee      string
	memo       string
	category   string
	dateLayout string
}

func (*importCSVCmd) Name() string     { return "csv" }
func (*importCSVCmd) Synopsis() string { return "import a CSV bank export" }
func (*importCSVCmd) Usage() string {
	return `envelope import csv -on <account> <file>

  Reads a CSV export with a header row and records each row on the account.
  Rows already imported are recognized by date, amount and payee and skipped,
  so re-importing an overlapping export is safe. Use the column flags when
  the bank's headers differ from date, amount, payee, memo, category.
`
}

func (c *importCSVCmd) SetFlags(f *flag.FlagSet) {
	m := envelope.DefaultCSVMapping()
	f.StringVar(&c.account, "on", "", "Account the rows post to")
	f.StringVar(&c.date, "date", m.Date, "Date column header")
	f.StringVar(&c.amount, "amount", m.Amount, "Amount column header")
	f.StringVar(&c.payee, "payee", m.Payee, "Payee column header")
	f.StringVar(&c.memo, "memo", m.Memo, "Memo column header")
	f.StringVar(&c.category, "category", m.Category, "Category column header")
	f.StringVar(&c.dateLayout, "date-layout", "", "Date layout when not ISO, e.g. 01/02/2006")
}

func (c *importCSVCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	in, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	account, err := resolveAccount(sys, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	m := envelope.ImportMapping{
		Date: c.date, Amount: c.amount, Payee: c.payee,
		Memo: c.memo, Category: c.category, DateLayout: c.dateLayout,
	}
	result, err := sys.ImportCSV(account, in, m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}
	printImportResult(result)
	return subcommands.ExitSuccess
}

// --- Import JSON Command ---

type importJSONCmd struct {
	account    string
	date       string
	amount     string
	payee      string
	memo       string
	category   string
	dateLayout string
}

func (*importJSONCmd) Name() string     { return "json" }
func (*importJSONCmd) Synopsis() string { return "import a JSON or JSONL bank export" }
func (*importJSONCmd) Usage() string {
	return `envelope import json -on <account> <file>

  Reads an array of objects, or one object per line, and records each on the
  account. Field flags take JSONPath-style dotted paths, so nested exports
  like -amount '$.details.amount' work. Duplicates are skipped like csv.
`
}

func (c *importJSONCmd) SetFlags(f *flag.FlagSet) {
	m := envelope.DefaultJSONMapping()
	f.StringVar(&c.account, "on", "", "Account the rows post to")
	f.StringVar(&c.date, "date", m.Date, "Path to the date field")
	f.StringVar(&c.amount, "amount", m.Amount, "Path to the amount field")
	f.StringVar(&c.payee, "payee", m.Payee, "Path to the payee field")
	f.StringVar(&c.memo, "memo", m.Memo, "Path to the memo field")
	f.StringVar(&c.category, "category", m.Category, "Path to the category field")
	f.StringVar(&c.dateLayout, "date-layout", "", "Date layout when not ISO")
}

func (c *importJSONCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	in, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	account, err := resolveAccount(sys, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	m := envelope.ImportMapping{
		Date: c.date, Amount: c.amount, Payee: c.payee,
		Memo: c.memo, Category: c.category, DateLayout: c.dateLayout,
	}
	result, err := sys.ImportJSON(account, in, m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}
	printImportResult(result)
	return subcommands.ExitSuccess
}

// --- Import PDF Command ---

type importPDFCmd struct {
	account string
}

func (*importPDFCmd) Name() string     { return "pdf" }
func (*importPDFCmd) Synopsis() string { return "import a PDF account statement" }
func (*importPDFCmd) Usage() string {
	return `envelope import pdf -on <account> <file>

  Extracts transaction lines from a PDF statement and records them on the
  account. Statement layouts vary; check the register afterwards.
`
}

func (c *importPDFCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "on", "", "Account the statement belongs to")
}

func (c *importPDFCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	account, err := resolveAccount(sys, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	result, err := sys.ImportPDF(account, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}
	printImportResult(result)
	return subcommands.ExitSuccess
}

// --- Export Command Group ---

// exportCmd is a container for export subcommands.
type exportCmd struct {
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export transactions or statements" }
func (*exportCmd) Usage() string {
	return `envelope export <subcommand> [args]

Commands:
  csv       - write the register as CSV.
  jsonl     - write the register as JSON lines.
  statement - write a PDF statement for an account and period.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {}
func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "export")
	commander.Register(&exportCSVCmd{}, "")
	commander.Register(&exportJSONLCmd{}, "")
	commander.Register(&exportStatementCmd{}, "")
	return commander.Execute(ctx, args...)
}

// exportFilters builds the shared -on and -period transaction filters.
func exportFilters(sys *envelope.BudgetSystem, settings *envelope.Settings, account, period string) ([]func(*envelope.Transaction) bool, error) {
	var filters []func(*envelope.Transaction) bool
	if account != "" {
		id, err := resolveAccount(sys, account)
		if err != nil {
			return nil, err
		}
		filters = append(filters, envelope.ByAccount(id))
	}
	if period != "" {
		p, err := parsePeriodFlag(settings, period)
		if err != nil {
			return nil, err
		}
		filters = append(filters, envelope.InPeriod(p))
	}
	return filters, nil
}

// exportOut opens the -o target, os.Stdout when empty.
func exportOut(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// --- Export CSV Command ---

type exportCSVCmd struct {
	output  string
	account string
	period  string
}

func (*exportCSVCmd) Name() string     { return "csv" }
func (*exportCSVCmd) Synopsis() string { return "write the register as CSV" }
func (*exportCSVCmd) Usage() string {
	return `envelope export csv [-o <file>] [-on <account>] [-p <period>]

  Writes transactions as CSV with resolved names, to stdout unless -o.
`
}

func (c *exportCSVCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, stdout when empty")
	f.StringVar(&c.account, "on", "", "Only transactions on this account")
	f.StringVar(&c.period, "p", "", "Only transactions dated in this period")
}

func (c *exportCSVCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sys, settings, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	filters, err := exportFilters(sys, settings, c.account, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	out, done, err := exportOut(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	defer done()

	err = sys.View(func(l *envelope.Ledger) error {
		return envelope.ExportCSV(out, l, filters...)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- Export JSONL Command ---

type exportJSONLCmd struct {
	output  string
	account string
	period  string
}

func (*exportJSONLCmd) Name() string     { return "jsonl" }
func (*exportJSONLCmd) Synopsis() string { return "write the register as JSON lines" }
func (*exportJSONLCmd) Usage() string {
	return `envelope export jsonl [-o <file>] [-on <account>] [-p <period>]

  Writes one transaction per line in the book's own format, to stdout
  unless -o.
`
}

func (c *exportJSONLCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, stdout when empty")
	f.StringVar(&c.account, "on", "", "Only transactions on this account")
	f.StringVar(&c.period, "p", "", "Only transactions dated in this period")
}

func (c *exportJSONLCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sys, settings, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	filters, err := exportFilters(sys, settings, c.account, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	out, done, err := exportOut(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	defer done()

	err = sys.View(func(l *envelope.Ledger) error {
		return envelope.ExportJSONL(out, l, filters...)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- Export Statement Command ---

type exportStatementCmd struct {
	output  string
	account string
	period  string
}

func (*exportStatementCmd) Name() string     { return "statement" }
func (*exportStatementCmd) Synopsis() string { return "write a PDF statement for an account and period" }
func (*exportStatementCmd) Usage() string {
	return `envelope export statement -on <account> [-p <period>] [-o <file>]

  Writes a PDF statement: opening balance, the period's transactions, and
  the closing balance.
`
}

func (c *exportStatementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "statement.pdf", "Output file")
	f.StringVar(&c.account, "on", "", "Account to produce the statement for")
	f.StringVar(&c.period, "p", "", "Statement period, defaults to the current one")
}

func (c *exportStatementCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
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
	account, err := resolveAccount(sys, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	err = sys.View(func(l *envelope.Ledger) error {
		return envelope.ExportStatementPDF(out, l, account, p)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote statement to %s.\n", c.output)
	return subcommands.ExitSuccess
}
