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

// --- Reconcile Command Group ---

// reconcileCmd is a container for reconcile subcommands.
type reconcileCmd struct {
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "reconcile an account against a statement" }
func (*reconcileCmd) Usage() string {
	return `envelope reconcile <subcommand> [args]

Commands:
  start  - open a session against a statement balance.
  toggle - mark transactions cleared or pending within the session.
  status - show the session and the remaining difference.
  done   - lock the cleared transactions, difference must be zero.
  adjust - record an adjustment for the difference, then lock.
  abort  - discard the session.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {}
func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "reconcile")
	commander.Register(&reconcileStartCmd{}, "")
	commander.Register(&reconcileToggleCmd{}, "")
	commander.Register(&reconcileStatusCmd{}, "")
	commander.Register(&reconcileDoneCmd{}, "")
	commander.Register(&reconcileAdjustCmd{}, "")
	commander.Register(&reconcileAbortCmd{}, "")
	return commander.Execute(ctx, args...)
}

// reconcileReport prints the session status shared by the reconcile
// subcommands.
func reconcileReport(sys *envelope.BudgetSystem, name, account string) subcommands.ExitStatus {
	st, err := sys.ReconciliationStatus(account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ReconcileMarkdown(name, st))
	return subcommands.ExitSuccess
}

// --- Reconcile Start Command ---

type reconcileStartCmd struct {
	account string
	date    string
	balance string
}

func (*reconcileStartCmd) Name() string     { return "start" }
func (*reconcileStartCmd) Synopsis() string { return "open a session against a statement balance" }
func (*reconcileStartCmd) Usage() string {
	return `envelope reconcile start -on <account> -balance <amount> [-d <date>]

  Opens a reconciliation session recording the statement's closing balance.
  One session per account at a time.
`
}

func (c *reconcileStartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "on", "", "Account to reconcile")
	f.StringVar(&c.date, "d", envelope.Today().String(), "Statement closing date")
	f.StringVar(&c.balance, "balance", "", "Statement closing balance")
}

func (c *reconcileStartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.balance == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	on, err := envelope.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	balance, err := envelope.ParseMoney(c.balance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing balance: %v\n", err)
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
	if _, err := sys.StartReconciliation(account, on, balance); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting reconciliation: %v\n", err)
		return subcommands.ExitFailure
	}
	return reconcileReport(sys, c.account, account)
}

// --- Reconcile Toggle Command ---

type reconcileToggleCmd struct {
	account string
}

func (*reconcileToggleCmd) Name() string     { return "toggle" }
func (*reconcileToggleCmd) Synopsis() string { return "mark transactions cleared or pending" }
func (*reconcileToggleCmd) Usage() string {
	return `envelope reconcile toggle -on <account> <transaction-id>...

  Flips transactions between cleared and pending within the open session,
  matching them off against the statement.
`
}

func (c *reconcileToggleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "on", "", "Account under reconciliation")
}

func (c *reconcileToggleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || f.NArg() == 0 {
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
	for _, id := range f.Args() {
		if err := sys.ToggleCleared(account, id); err != nil {
			fmt.Fprintf(os.Stderr, "Error toggling %s: %v\n", id, err)
			return subcommands.ExitFailure
		}
	}
	return reconcileReport(sys, c.account, account)
}

// --- Reconcile Status Command ---

type reconcileStatusCmd struct {
	account string
}

func (*reconcileStatusCmd) Name() string     { return "status" }
func (*reconcileStatusCmd) Synopsis() string { return "show the session and the remaining difference" }
func (*reconcileStatusCmd) Usage() string {
	return `envelope reconcile status -on <account>

  Shows the open session: the statement balance, the cleared total, and the
  difference still to explain.
`
}

func (c *reconcileStatusCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "on", "", "Account under reconciliation")
}

func (c *reconcileStatusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	sys, _, err := openForReading()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	account, err := resolveAccount(sys, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return reconcileReport(sys, c.account, account)
}

// --- Reconcile Done Command ---

type reconcileDoneCmd struct {
	account string
}

func (*reconcileDoneCmd) Name() string     { return "done" }
func (*reconcileDoneCmd) Synopsis() string { return "lock the cleared transactions" }
func (*reconcileDoneCmd) Usage() string {
	return `envelope reconcile done -on <account>

  Completes the session. The cleared total must match the statement balance
  exactly; otherwise use adjust, or keep toggling.
`
}

func (c *reconcileDoneCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "on", "", "Account under reconciliation")
}

func (c *reconcileDoneCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
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
	if err := sys.CompleteReconciliation(account); err != nil {
		fmt.Fprintf(os.Stderr, "Error completing reconciliation: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Reconciled %s.\n", c.account)
	return subcommands.ExitSuccess
}

// --- Reconcile Adjust Command ---

type reconcileAdjustCmd struct {
	account  string
	category string
	memo     string
}

func (*reconcileAdjustCmd) Name() string     { return "adjust" }
func (*reconcileAdjustCmd) Synopsis() string { return "record an adjustment for the difference, then lock" }
func (*reconcileAdjustCmd) Usage() string {
	return `envelope reconcile adjust -on <account> [-c <category>] [-m <memo>]

  Records a transaction for the unexplained difference and completes the
  session. The category defaults to the adjustment category from settings.
`
}

func (c *reconcileAdjustCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "on", "", "Account under reconciliation")
	f.StringVar(&c.category, "c", "", "Category for the adjustment")
	f.StringVar(&c.memo, "m", "Reconciliation adjustment", "Memo for the adjustment")
}

func (c *reconcileAdjustCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	sys, settings, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening book: %v\n", err)
		return subcommands.ExitFailure
	}
	account, err := resolveAccount(sys, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ref := c.category
	if ref == "" {
		ref = settings.AdjustmentCategory
	}
	category := ""
	if ref != "" {
		if category, err = resolveCategory(sys, ref); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	tx, err := sys.CompleteWithAdjustment(account, category, c.memo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error completing reconciliation: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Reconciled %s with a %s adjustment (%s).\n", c.account, tx.Amount.SignedString(), tx.ID)
	return subcommands.ExitSuccess
}

// --- Reconcile Abort Command ---

type reconcileAbortCmd struct {
	account string
}

func (*reconcileAbortCmd) Name() string     { return "abort" }
func (*reconcileAbortCmd) Synopsis() string { return "discard the session" }
func (*reconcileAbortCmd) Usage() string {
	return `envelope reconcile abort -on <account>

  Discards the open session. Status changes made through toggle are kept.
`
}

func (c *reconcileAbortCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "on", "", "Account under reconciliation")
}

func (c *reconcileAbortCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
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
	if err := sys.AbortReconciliation(account); err != nil {
		fmt.Fprintf(os.Stderr, "Error aborting reconciliation: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Aborted reconciliation of %s.\n", c.account)
	return subcommands.ExitSuccess
}

// --- Unlock Command ---

type unlockCmd struct {
	reason string
}

func (*unlockCmd) Name() string     { return "unlock" }
func (*unlockCmd) Synopsis() string { return "unlock a reconciled transaction for editing" }
func (*unlockCmd) Usage() string {
	return `envelope unlock -reason <text> <transaction-id>...

  Moves reconciled transactions back to cleared so they can be edited or
  deleted. The unlock and its reason land in the audit journal.
`
}

func (c *unlockCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.reason, "reason", "", "Why the transaction is being unlocked")
}

func (c *unlockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		if err := sys.Unlock(id, c.reason); err != nil {
			fmt.Fprintf(os.Stderr, "Error unlocking %s: %v\n", id, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Unlocked %s.\n", id)
	}
	return subcommands.ExitSuccess
}
