package envelope

import (
	"testing"
	"time"
)

// Shared fixtures for the engine tests. Systems built here are memory only:
// nil store, nil audit sink.

var (
	august    = MustPeriod("2025-08")
	september = MustPeriod("2025-09")
)

// usd builds exact cent Money from a literal like "12.34" or "-0.50".
func usd(s string) Money { return MustMoney(s) }

// aug returns a date in August 2025, the month most scenarios run in.
func aug(day int) Date { return NewDate(2025, time.August, day) }

// newTestBook builds a system with one checking account holding $500 since
// August 1st and the groceries and rent categories.
func newTestBook(t *testing.T) *BudgetSystem {
	t.Helper()
	sys := NewBudgetSystem(NewLedger(), nil, nil)
	if err := sys.CreateAccount(&Account{ID: "checking", Name: "Checking", StartingBalance: usd("500.00"), StartingDate: aug(1)}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	for _, c := range []*Category{
		{ID: "groceries", Name: "Groceries", Group: "Everyday"},
		{ID: "rent", Name: "Rent", Group: "Bills"},
	} {
		if err := sys.CreateCategory(c); err != nil {
			t.Fatalf("CreateCategory(%s): %v", c.Name, err)
		}
	}
	return sys
}

// income posts an uncategorized inflow on checking, the kind that feeds
// available to budget.
func income(t *testing.T, sys *BudgetSystem, on Date, amount string) *Transaction {
	t.Helper()
	tx := &Transaction{Date: on, Account: "checking", Amount: usd(amount)}
	if err := sys.AddTransaction(tx); err != nil {
		t.Fatalf("AddTransaction(income %s): %v", amount, err)
	}
	return tx
}

// spend posts a categorized outflow on checking. The amount is given
// positive and posted negative.
func spend(t *testing.T, sys *BudgetSystem, on Date, category, amount string) *Transaction {
	t.Helper()
	tx := &Transaction{Date: on, Account: "checking", Category: category, Amount: usd(amount).Neg()}
	if err := sys.AddTransaction(tx); err != nil {
		t.Fatalf("AddTransaction(%s %s): %v", category, amount, err)
	}
	return tx
}

// ledgerOf returns the system's ledger for direct assertions. Engine tests
// live in the package, reading it after a mutation is fine.
func ledgerOf(sys *BudgetSystem) *Ledger {
	var l *Ledger
	sys.View(func(inner *Ledger) error { l = inner; return nil })
	return l
}
