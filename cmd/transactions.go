package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/google/subcommands"
)

// parseSplits parses the -split flag: "groceries:-30,household:-15.30".
// Category references are resolved against the book.
func parseSplits(sys *envelope.BudgetSystem, spec string) ([]envelope.Split, error) {
	var splits []envelope.Split
	for _, part := range strings.Split(spec, ",") {
		ref, amountText, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, envelope.Validationf("invalid split %q: want category:amount", part)
		}
		category, err := resolveCategory(sys, ref)
		if err != nil {
			return nil, err
		}
		amount, err := envelope.ParseMoney(amountText)
		if err != nil {
			return nil, envelope.Validationf("invalid split amount %q: %v", amountText, err)
		}
		splits = append(splits, envelope.Split{Category: category, Amount: amount})
	}
	return splits, nil
}

// --- Add Command ---

type addCmd struct {
	date     string
	account  string
	payee    string
	category string
	amount   string
	memo     string
	split    string
	cleared  bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction on an account" }
func (*addCmd) Usage() string {
	return `envelope add -on <account> -a <amount> [-p <payee>] [-c <category>] [-d <date>] [-m <memo>] [-split <cat:amt,...>] [-cleared]

  Records a transaction. A negative amount is an outflow, a positive amount
  an inflow. An inflow with no category is income and feeds the amount
  available to budget. The payee is created on first use.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", envelope.Today().String(), "Transaction date")
	f.StringVar(&c.account, "on", "", "Account the transaction posts to")
	f.StringVar(&c.payee, "p", "", "Payee name")
	f.StringVar(&c.category, "c", "", "Category the amount comes out of")
	f.StringVar(&c.amount, "a", "", "Signed amount, negative for spending")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
	f.StringVar(&c.split, "split", "", "Split the amount over categories: cat:amt,cat:amt")
	f.BoolVar(&c.cleared, "cleared", false, "Record the transaction as already cleared")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := envelope.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := envelope.ParseMoney(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}

	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	tx := &envelope.Transaction{Date: on, Amount: amount, Memo: c.memo}
	if tx.Account, err = resolveAccount(sys, c.account); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.category != "" {
		if tx.Category, err = resolveCategory(sys, c.category); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.payee != "" {
		if tx.Payee, err = resolvePayee(sys, c.payee); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.split != "" {
		if tx.Splits, err = parseSplits(sys, c.split); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.cleared {
		tx.Status = envelope.Cleared
	}

	if err := sys.AddTransaction(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added %s on %s (%s).\n", tx.Amount.SignedString(), c.account, tx.ID)
	return subcommands.ExitSuccess
}

// --- Income Command ---

type incomeCmd struct {
	date    string
	account string
	payee   string
	amount  string
	memo    string
	cleared bool
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record income to budget" }
func (*incomeCmd) Usage() string {
	return `envelope income -on <account> -a <amount> [-p <payee>] [-d <date>] [-m <memo>] [-cleared]

  Records an inflow with no category. The amount lands in the available to
  budget, waiting to be assigned.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", envelope.Today().String(), "Income date")
	f.StringVar(&c.account, "on", "", "Account the income posts to")
	f.StringVar(&c.payee, "p", "", "Payee name, the employer for a paycheck")
	f.StringVar(&c.amount, "a", "", "Amount received, positive")
	f.StringVar(&c.memo, "m", "", "An optional note")
	f.BoolVar(&c.cleared, "cleared", false, "Record the income as already cleared")
}

func (c *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := envelope.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := envelope.ParseMoney(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	if !amount.IsPositive() {
		fmt.Fprintf(os.Stderr, "Error: income must be positive, got %s\n", amount)
		return subcommands.ExitUsageError
	}

	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	tx := &envelope.Transaction{Date: on, Amount: amount, Memo: c.memo}
	if tx.Account, err = resolveAccount(sys, c.account); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.payee != "" {
		if tx.Payee, err = resolvePayee(sys, c.payee); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.cleared {
		tx.Status = envelope.Cleared
	}

	if err := sys.AddTransaction(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding income: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s of income on %s (%s).\n", tx.Amount, c.account, tx.ID)
	return subcommands.ExitSuccess
}

// --- Transfer Command ---

type transferCmd struct {
	date   string
	from   string
	to     string
	amount string
	memo   string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `envelope transfer -from <account> -to <account> -a <amount> [-d <date>] [-m <memo>]

  Records the two linked halves of a transfer. Transfers move money between
  accounts and never touch a category.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", envelope.Today().String(), "Transfer date")
	f.StringVar(&c.from, "from", "", "Source account")
	f.StringVar(&c.to, "to", "", "Destination account")
	f.StringVar(&c.amount, "a", "", "Amount to move, positive")
	f.StringVar(&c.memo, "m", "", "An optional note")
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" || c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := envelope.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := envelope.ParseMoney(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}

	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	from, err := resolveAccount(sys, c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	to, err := resolveAccount(sys, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, in, err := sys.AddTransfer(on, from, to, amount, c.memo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording transfer: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Transferred %s from %s to %s (%s, %s).\n", amount, c.from, c.to, out.ID, in.ID)
	return subcommands.ExitSuccess
}

// --- Edit Command ---

type editCmd struct {
	date     string
	payee    string
	category string
	amount   string
	memo     string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change fields of an existing transaction" }
func (*editCmd) Usage() string {
	return `envelope edit [-d <date>] [-p <payee>] [-c <category>] [-a <amount>] [-m <memo>] <transaction-id>

  Changes the given fields and leaves the rest alone. Pass "-" to clear the
  payee, category or memo. Reconciled transactions must be unlocked first.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "New date")
	f.StringVar(&c.payee, "p", "", "New payee, - to clear")
	f.StringVar(&c.category, "c", "", "New category, - to clear")
	f.StringVar(&c.amount, "a", "", "New signed amount")
	f.StringVar(&c.memo, "m", "", "New memo, - to clear")
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}

	var tx envelope.Transaction
	err = sys.View(func(l *envelope.Ledger) error {
		existing := l.Transaction(id)
		if existing == nil {
			return envelope.NotFoundf("unknown transaction %q", id)
		}
		tx = *existing
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.date != "" {
		if tx.Date, err = envelope.ParseDate(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if c.amount != "" {
		if tx.Amount, err = envelope.ParseMoney(c.amount); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	switch c.payee {
	case "":
	case "-":
		tx.Payee = ""
	default:
		if tx.Payee, err = resolvePayee(sys, c.payee); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	switch c.category {
	case "":
	case "-":
		tx.Category = ""
	default:
		if tx.Category, err = resolveCategory(sys, c.category); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	switch c.memo {
	case "":
	case "-":
		tx.Memo = ""
	default:
		tx.Memo = c.memo
	}

	if err := sys.UpdateTransaction(&tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated %s.\n", tx.ID)
	return subcommands.ExitSuccess
}

// --- Delete Command ---

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "remove a transaction from the book" }
func (*deleteCmd) Usage() string {
	return `envelope delete <transaction-id>...

  Removes transactions. Reconciled transactions must be unlocked first.
`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {}

func (c *deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, id := range f.Args() {
		if err := sys.DeleteTransaction(id); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting %s: %v\n", id, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Deleted %s.\n", id)
	}
	return subcommands.ExitSuccess
}

// --- Status Command ---

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "mark a transaction pending or cleared" }
func (*statusCmd) Usage() string {
	return `envelope status <transaction-id> <pending|cleared>

  Moves a transaction between pending and cleared. Transactions become
  reconciled by completing a reconciliation, and leave that state through
  unlock.
`
}

func (c *statusCmd) SetFlags(f *flag.FlagSet) {}

func (c *statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	status, err := envelope.ParseTransactionStatus(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	sys, _, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := sys.SetStatus(f.Arg(0), status); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Marked %s %s.\n", f.Arg(0), status)
	return subcommands.ExitSuccess
}

// --- Log Command ---

type logCmd struct {
	count  int
	period string
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "show the latest transactions" }
func (*logCmd) Usage() string {
	return `envelope log [-n <count>] [-p <period>]

  Shows the latest transactions across all accounts, oldest first, with
  their ids for edit, delete and status. The register command gives the
  same data filtered and totaled.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.count, "n", 15, "How many transactions to show, 0 for all")
	f.StringVar(&c.period, "p", "", "Only transactions dated in this period")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sys, settings, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	var filters []func(*envelope.Transaction) bool
	if c.period != "" {
		p, err := parsePeriodFlag(settings, c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, envelope.InPeriod(p))
	}

	sys.View(func(l *envelope.Ledger) error {
		var txs []*envelope.Transaction
		for _, tx := range l.Transactions(filters...) {
			txs = append(txs, tx)
		}
		if c.count > 0 && len(txs) > c.count {
			txs = txs[len(txs)-c.count:]
		}
		fmt.Printf("%-12s %-10s %-16s %-20s %-20s %12s %s\n", "Id", "Date", "Account", "Payee", "Category", "Amount", "Status")
		for _, tx := range txs {
			account := ""
			if a := l.Accounts().Get(tx.Account); a != nil {
				account = a.Name
			}
			payee := ""
			if p := l.Payees().Get(tx.Payee); p != nil {
				payee = p.Name
			}
			category := ""
			switch {
			case len(tx.Splits) > 0:
				category = "(split)"
			case tx.Category != "":
				if cat := l.Categories().Get(tx.Category); cat != nil {
					category = cat.Name
				}
			case tx.IsIncome():
				category = "(to budget)"
			}
			fmt.Printf("%-12s %-10s %-16s %-20s %-20s %12s %s\n", tx.ID, tx.Date, account, payee, category, tx.Amount.SignedString(), tx.Status)
		}
		return nil
	})
	return subcommands.ExitSuccess
}
