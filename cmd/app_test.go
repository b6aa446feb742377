package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	envelope "github.com/KayleeBeyene/EnvelopeCLI"
	"github.com/google/subcommands"
)

// useBudgetDir points the global -dir flag at a fresh directory and pins
// today, so period defaults stay stable.
func useBudgetDir(t *testing.T) string {
	t.Helper()
	t.Setenv("ENVELOPE_TESTING_TODAY", "2025-08-25")
	t.Setenv("ENVELOPE_BOOK", "")
	t.Setenv("ENVELOPE_CURRENCY", "")
	t.Setenv("ENVELOPE_PERIOD", "")
	dir := t.TempDir()
	old := *budgetDir
	*budgetDir = dir
	t.Cleanup(func() { *budgetDir = old })
	return dir
}

// run executes a command the way the commander would: fresh flag set,
// defaults applied, then the given arguments.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("parsing %s flags: %v", cmd.Name(), err)
	}
	return cmd.Execute(context.Background(), f)
}

// reload reads the default book back from disk.
func reload(t *testing.T, dir string) *envelope.Ledger {
	t.Helper()
	ledger, _, err := envelope.FindBook(dir, "budget")
	if err != nil {
		t.Fatalf("FindBook: %v", err)
	}
	return ledger
}

func TestInitCreatesDirectory(t *testing.T) {
	dir := useBudgetDir(t)

	if got := run(t, &initCmd{}, "-currency", "EUR", "-seed"); got != subcommands.ExitSuccess {
		t.Fatalf("init = %v, want ExitSuccess", got)
	}

	settings, err := envelope.LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if settings.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", settings.Currency)
	}
	if settings.Book != "budget" {
		t.Errorf("Book = %q, want budget", settings.Book)
	}

	ledger := reload(t, dir)
	if got := len(ledger.Categories().All()); got != len(seedCategories) {
		t.Errorf("seeded %d categories, want %d", got, len(seedCategories))
	}

	if got := run(t, &initCmd{}, "-period", "quarterly"); got != subcommands.ExitUsageError {
		t.Errorf("init with bad period = %v, want ExitUsageError", got)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	dir := useBudgetDir(t)

	if got := run(t, &initCmd{}); got != subcommands.ExitSuccess {
		t.Fatalf("init = %v", got)
	}
	if got := run(t, &newAccountCmd{}, "-n", "Checking", "-balance", "500", "-d", "2025-08-01"); got != subcommands.ExitSuccess {
		t.Fatalf("new-account = %v", got)
	}
	if got := run(t, &newCategoryCmd{}, "-n", "Groceries", "-g", "Everyday"); got != subcommands.ExitSuccess {
		t.Fatalf("new-category = %v", got)
	}
	if got := run(t, &addCmd{}, "-on", "Checking", "-a", "2500"); got != subcommands.ExitSuccess {
		t.Fatalf("add income = %v", got)
	}
	if got := run(t, &addCmd{}, "-on", "Checking", "-a", "-84.15", "-c", "Groceries", "-p", "Acme Grocers", "-cleared", "-d", "2025-08-09"); got != subcommands.ExitSuccess {
		t.Fatalf("add spend = %v", got)
	}
	if got := run(t, &assignCmd{}, "-c", "Groceries", "-a", "400"); got != subcommands.ExitSuccess {
		t.Fatalf("assign = %v", got)
	}

	ledger := reload(t, dir)
	account := ledger.Accounts().Find("Checking")
	if account == nil {
		t.Fatal("account did not persist")
	}
	if !account.OnBudget {
		t.Error("account should be on budget without -tracking")
	}
	today := envelope.NewDate(2025, 8, 25)
	if got := ledger.AccountBalance(account.ID, today); !got.Equal(envelope.MustMoney("2915.85")) {
		t.Errorf("balance = %s, want $2,915.85", got)
	}
	if p := ledger.Payees().Find("Acme Grocers"); p == nil {
		t.Error("payee was not created on first use")
	}

	var spend *envelope.Transaction
	for _, tx := range ledger.Transactions() {
		if tx.Amount.Equal(envelope.MustMoney("-84.15")) {
			spend = tx
		}
	}
	if spend == nil {
		t.Fatal("spend transaction did not persist")
	}
	if spend.Status != envelope.Cleared {
		t.Errorf("spend status = %s, want cleared", spend.Status)
	}

	august := envelope.MustPeriod("2025-08")
	category := ledger.Categories().Find("Groceries")
	if category == nil {
		t.Fatal("category did not persist")
	}
	alloc := ledger.Allocation(category.ID, august)
	if alloc == nil || !alloc.Budgeted.Equal(envelope.MustMoney("400.00")) {
		t.Errorf("allocation = %+v, want $400.00 budgeted", alloc)
	}
	sys := envelope.NewBudgetSystem(ledger, nil, nil)
	if got := sys.AvailableToBudget(august); !got.Equal(envelope.MustMoney("2100.00")) {
		t.Errorf("available to budget = %s, want $2,100.00", got)
	}

	// Assigning past the available amount fails without -force.
	if got := run(t, &assignCmd{}, "-c", "Groceries", "-a", "5000"); got != subcommands.ExitFailure {
		t.Errorf("overassign = %v, want ExitFailure", got)
	}
	if got := run(t, &assignCmd{}, "-c", "Groceries", "-a", "5000", "-force"); got != subcommands.ExitSuccess {
		t.Errorf("overassign -force = %v, want ExitSuccess", got)
	}

	if got := run(t, &statusCmd{}, spend.ID, "pending"); got != subcommands.ExitSuccess {
		t.Fatalf("status = %v", got)
	}
	if got := reload(t, dir).Transaction(spend.ID); got.Status != envelope.Pending {
		t.Errorf("status after flip = %s, want pending", got.Status)
	}

	if got := run(t, &deleteCmd{}, spend.ID); got != subcommands.ExitSuccess {
		t.Fatalf("delete = %v", got)
	}
	if got := reload(t, dir).Transaction(spend.ID); got != nil {
		t.Errorf("transaction %s still in the book after delete", spend.ID)
	}
}

func TestTransferCommand(t *testing.T) {
	dir := useBudgetDir(t)

	run(t, &initCmd{})
	run(t, &newAccountCmd{}, "-n", "Checking", "-balance", "500", "-d", "2025-08-01")
	run(t, &newAccountCmd{}, "-n", "Savings", "-kind", "savings", "-d", "2025-08-01")

	if got := run(t, &transferCmd{}, "-from", "Checking", "-to", "Savings", "-a", "200"); got != subcommands.ExitSuccess {
		t.Fatalf("transfer = %v", got)
	}

	ledger := reload(t, dir)
	today := envelope.NewDate(2025, 8, 25)
	checking := ledger.Accounts().Find("Checking")
	savings := ledger.Accounts().Find("Savings")
	if got := ledger.AccountBalance(checking.ID, today); !got.Equal(envelope.MustMoney("300.00")) {
		t.Errorf("checking = %s, want $300.00", got)
	}
	if got := ledger.AccountBalance(savings.ID, today); !got.Equal(envelope.MustMoney("200.00")) {
		t.Errorf("savings = %s, want $200.00", got)
	}

	if got := run(t, &transferCmd{}, "-from", "Checking", "-to", "Checking", "-a", "50"); got != subcommands.ExitFailure {
		t.Errorf("self transfer = %v, want ExitFailure", got)
	}
}

func TestSettingsCommand(t *testing.T) {
	dir := useBudgetDir(t)
	run(t, &initCmd{})

	if got := run(t, &settingsCmd{}, "-currency", "GBP", "-negative-atb", "on"); got != subcommands.ExitSuccess {
		t.Fatalf("settings = %v", got)
	}
	settings, err := envelope.LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if settings.Currency != "GBP" {
		t.Errorf("Currency = %q, want GBP", settings.Currency)
	}
	if !settings.AllowNegativeATB {
		t.Error("AllowNegativeATB was not switched on")
	}

	if got := run(t, &settingsCmd{}, "-audit", "sideways"); got != subcommands.ExitUsageError {
		t.Errorf("bad -audit value = %v, want ExitUsageError", got)
	}
}

func TestIncomeAndOverspent(t *testing.T) {
	dir := useBudgetDir(t)

	run(t, &initCmd{})
	run(t, &newAccountCmd{}, "-n", "Checking", "-d", "2025-08-01")
	run(t, &newCategoryCmd{}, "-n", "Groceries", "-g", "Everyday")

	if got := run(t, &incomeCmd{}, "-on", "Checking", "-a", "1000", "-p", "Initech", "-d", "2025-08-01"); got != subcommands.ExitSuccess {
		t.Fatalf("income = %v", got)
	}
	if got := run(t, &incomeCmd{}, "-on", "Checking", "-a", "-5"); got != subcommands.ExitUsageError {
		t.Errorf("negative income = %v, want ExitUsageError", got)
	}

	ledger := reload(t, dir)
	var inflow *envelope.Transaction
	for _, tx := range ledger.Transactions() {
		if tx.Amount.Equal(envelope.MustMoney("1000.00")) {
			inflow = tx
		}
	}
	if inflow == nil {
		t.Fatal("income did not persist")
	}
	if inflow.Category != "" || !inflow.IsIncome() {
		t.Errorf("inflow = %+v, want an uncategorized income transaction", inflow)
	}

	run(t, &assignCmd{}, "-c", "Groceries", "-a", "100")
	if got := run(t, &addCmd{}, "-on", "Checking", "-a", "-120", "-c", "Groceries", "-d", "2025-08-10"); got != subcommands.ExitSuccess {
		t.Fatalf("add spend = %v", got)
	}
	// Overspending is a state to report, not a failure.
	if got := run(t, &overspentCmd{}); got != subcommands.ExitSuccess {
		t.Errorf("overspent = %v, want ExitSuccess", got)
	}
	sys := envelope.NewBudgetSystem(reload(t, dir), nil, nil)
	overspent := sys.OverspentCategories(envelope.MustPeriod("2025-08"))
	if len(overspent) != 1 || !overspent[0].Available.Equal(envelope.MustMoney("-20.00")) {
		t.Errorf("OverspentCategories = %+v, want groceries at -$20.00", overspent)
	}

	if got := run(t, &payeesCmd{}); got != subcommands.ExitSuccess {
		t.Errorf("payees = %v", got)
	}
	if got := run(t, &logCmd{}, "-n", "2"); got != subcommands.ExitSuccess {
		t.Errorf("log = %v", got)
	}
}

func TestBackupCommand(t *testing.T) {
	dir := useBudgetDir(t)
	run(t, &initCmd{})
	run(t, &newAccountCmd{}, "-n", "Checking", "-d", "2025-08-01")

	for _, stamp := range []string{"s1", "s2", "s3"} {
		if got := run(t, &backupCmd{}, "-stamp", stamp); got != subcommands.ExitSuccess {
			t.Fatalf("backup %s = %v", stamp, got)
		}
	}
	if got := run(t, &backupCmd{}, "-stamp", "s4", "-keep", "2"); got != subcommands.ExitSuccess {
		t.Fatalf("backup s4 = %v", got)
	}
	stamps, err := envelope.ListBackups(dir)
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if want := []string{"s3", "s4"}; !reflect.DeepEqual(stamps, want) {
		t.Errorf("backups after prune = %v, want %v", stamps, want)
	}
	if _, err := os.Stat(filepath.Join(dir, envelope.BackupDirName, "s4", "budget.jsonl")); err != nil {
		t.Errorf("snapshot misses the book: %v", err)
	}

	if got := run(t, &backupCmd{}, "-stamp", "s4"); got != subcommands.ExitFailure {
		t.Errorf("duplicate stamp = %v, want ExitFailure", got)
	}

	if got := run(t, &fmtCmd{}); got != subcommands.ExitSuccess {
		t.Errorf("fmt = %v", got)
	}
	if reload(t, dir).Accounts().Find("Checking") == nil {
		t.Error("the book lost the account after fmt")
	}
}
