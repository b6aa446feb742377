package envelope

import (
	"testing"
	"time"
)

func sep(day int) Date { return NewDate(2025, time.September, day) }

func TestAccountBalance(t *testing.T) {
	sys := newTestBook(t)
	income(t, sys, aug(5), "2000.00")
	spend(t, sys, aug(9), "groceries", "84.15")
	spend(t, sys, aug(20), "rent", "1400.00")
	l := ledgerOf(sys)

	testCases := []struct {
		name    string
		account string
		on      Date
		want    string
	}{
		{"before the starting date", "checking", NewDate(2025, time.July, 31), "0.00"},
		{"on the starting date", "checking", aug(1), "500.00"},
		{"before the first transaction", "checking", aug(4), "500.00"},
		{"on the income day", "checking", aug(5), "2500.00"},
		{"after groceries", "checking", aug(9), "2415.85"}, // 2500 - 84.15
		{"between transactions", "checking", aug(19), "2415.85"},
		{"after rent", "checking", aug(20), "1015.85"}, // 2415.85 - 1400
		{"well after the last transaction", "checking", sep(30), "1015.85"},
		{"unknown account", "nowhere", sep(30), "0.00"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := l.AccountBalance(tc.account, tc.on)
			if !got.Equal(usd(tc.want)) {
				t.Errorf("AccountBalance(%q, %s) = %s, want %s", tc.account, tc.on, got, tc.want)
			}
		})
	}
}

func TestClearedAndReconciledBalance(t *testing.T) {
	sys := newTestBook(t)
	in := income(t, sys, aug(5), "2000.00")
	if err := sys.SetStatus(in.ID, Cleared); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	addStatus(t, sys, aug(9), "100.00", Pending)
	addStatus(t, sys, aug(10), "50.00", Reconciled)
	l := ledgerOf(sys)

	if got := l.AccountBalance("checking", aug(15)); !got.Equal(usd("2350.00")) {
		t.Errorf("AccountBalance = %s, want 2350.00", got) // 500 + 2000 - 100 - 50
	}
	if got := l.ClearedBalance("checking", aug(15)); !got.Equal(usd("2450.00")) {
		t.Errorf("ClearedBalance = %s, want 2450.00", got) // pending 100 excluded
	}
	if got := l.ReconciledBalance("checking"); !got.Equal(usd("450.00")) {
		t.Errorf("ReconciledBalance = %s, want 450.00", got) // 500 - 50
	}
}

func TestActivity(t *testing.T) {
	sys := newTestBook(t)
	spend(t, sys, aug(9), "groceries", "84.15")
	split := &Transaction{Date: aug(12), Account: "checking", Amount: usd("-20.00"), Splits: []Split{
		{Category: "groceries", Amount: usd("-15.00")},
		{Category: "rent", Amount: usd("-5.00")},
	}}
	if err := sys.AddTransaction(split); err != nil {
		t.Fatalf("AddTransaction(split): %v", err)
	}
	refund := &Transaction{Date: aug(18), Account: "checking", Category: "groceries", Amount: usd("10.00")}
	if err := sys.AddTransaction(refund); err != nil {
		t.Fatalf("AddTransaction(refund): %v", err)
	}
	spend(t, sys, sep(2), "groceries", "30.00")
	l := ledgerOf(sys)

	testCases := []struct {
		name     string
		category string
		period   Period
		want     string
	}{
		{"outflows netted against refunds", "groceries", august, "-89.15"}, // -84.15 - 15 + 10
		{"split share only", "rent", august, "-5.00"},
		{"next period stands alone", "groceries", september, "-30.00"},
		{"category with no activity", "rent", september, "0.00"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := l.Activity(tc.category, tc.period)
			if !got.Equal(usd(tc.want)) {
				t.Errorf("Activity(%q, %s) = %s, want %s", tc.category, tc.period, got, tc.want)
			}
		})
	}

	// TotalActivity sums every posting in the period, refunds included.
	if got := l.TotalActivity(august); !got.Equal(usd("-94.15")) {
		t.Errorf("TotalActivity = %s, want -94.15", got) // -84.15 - 20 + 10
	}
}

func TestPaidBefore(t *testing.T) {
	sys := newTestBook(t)
	spend(t, sys, aug(9), "groceries", "84.15")
	split := &Transaction{Date: aug(12), Account: "checking", Amount: usd("-20.00"), Splits: []Split{
		{Category: "groceries", Amount: usd("-15.00")},
		{Category: "rent", Amount: usd("-5.00")},
	}}
	if err := sys.AddTransaction(split); err != nil {
		t.Fatalf("AddTransaction(split): %v", err)
	}
	refund := &Transaction{Date: aug(18), Account: "checking", Category: "groceries", Amount: usd("10.00")}
	if err := sys.AddTransaction(refund); err != nil {
		t.Fatalf("AddTransaction(refund): %v", err)
	}
	l := ledgerOf(sys)

	testCases := []struct {
		name   string
		cutoff Date
		want   string
	}{
		{"before anything was paid", aug(9), "0.00"},
		{"cutoff excludes its own day", aug(12), "84.15"},
		{"split share counted", aug(13), "99.15"}, // 84.15 + 15
		{"refunds never reduce paid", sep(1), "99.15"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := l.PaidBefore("groceries", tc.cutoff)
			if !got.Equal(usd(tc.want)) {
				t.Errorf("PaidBefore(groceries, %s) = %s, want %s", tc.cutoff, got, tc.want)
			}
		})
	}
}

func TestIncome(t *testing.T) {
	sys := newTestBook(t)
	if err := sys.CreateAccount(&Account{ID: "savings", Name: "Savings", StartingDate: aug(1)}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	income(t, sys, aug(5), "2000.00")
	income(t, sys, aug(25), "500.00")
	income(t, sys, sep(5), "1000.00")
	// Refunds and transfers look like inflows but are not income.
	refund := &Transaction{Date: aug(18), Account: "checking", Category: "groceries", Amount: usd("10.00")}
	if err := sys.AddTransaction(refund); err != nil {
		t.Fatalf("AddTransaction(refund): %v", err)
	}
	if _, _, err := sys.AddTransfer(aug(20), "savings", "checking", usd("300.00"), ""); err != nil {
		t.Fatalf("AddTransfer: %v", err)
	}
	l := ledgerOf(sys)

	if got := l.Income(august); !got.Equal(usd("2500.00")) {
		t.Errorf("Income(%s) = %s, want 2500.00", august, got)
	}
	if got := l.Income(september); !got.Equal(usd("1000.00")) {
		t.Errorf("Income(%s) = %s, want 1000.00", september, got)
	}

	testCases := []struct {
		name    string
		through Date
		want    string
	}{
		{"before any income", aug(4), "0.00"},
		{"through August", aug(31), "2500.00"},
		{"through September", sep(30), "3500.00"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := l.CumulativeIncome(tc.through)
			if !got.Equal(usd(tc.want)) {
				t.Errorf("CumulativeIncome(%s) = %s, want %s", tc.through, got, tc.want)
			}
		})
	}
}

func TestAvailable(t *testing.T) {
	sys := newTestBook(t)
	income(t, sys, aug(1), "2000.00")
	if _, err := sys.Assign("groceries", august, usd("400.00"), false); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	spend(t, sys, aug(9), "groceries", "84.15")
	l := ledgerOf(sys)

	if got := l.Available("groceries", august); !got.Equal(usd("315.85")) {
		t.Errorf("Available = %s, want 315.85", got) // 400 - 84.15
	}
	// Carryover joins budgeted and activity.
	a := l.Allocation("groceries", august)
	a.CarryoverIn = usd("50.00")
	if err := l.SetAllocation(a); err != nil {
		t.Fatalf("SetAllocation: %v", err)
	}
	if got := l.Available("groceries", august); !got.Equal(usd("365.85")) {
		t.Errorf("Available with carryover = %s, want 365.85", got)
	}
	// A category with no allocation still reports its activity.
	spend(t, sys, aug(10), "rent", "25.00")
	if got := l.Available("rent", august); !got.Equal(usd("-25.00")) {
		t.Errorf("Available without allocation = %s, want -25.00", got)
	}
}

func TestBudgetedThrough(t *testing.T) {
	sys := newTestBook(t)
	income(t, sys, aug(1), "5000.00")
	if _, err := sys.Assign("groceries", august, usd("400.00"), false); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := sys.Assign("groceries", september, usd("450.00"), false); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	l := ledgerOf(sys)

	if got := l.BudgetedThrough("groceries", august); !got.Equal(usd("400.00")) {
		t.Errorf("BudgetedThrough(%s) = %s, want 400.00", august, got)
	}
	if got := l.BudgetedThrough("groceries", september); !got.Equal(usd("850.00")) {
		t.Errorf("BudgetedThrough(%s) = %s, want 850.00", september, got)
	}
	if got := l.TotalBudgeted(august); !got.Equal(usd("400.00")) {
		t.Errorf("TotalBudgeted(%s) = %s, want 400.00", august, got)
	}
}

func TestNetWorth(t *testing.T) {
	sys := newTestBook(t)
	accounts := []*Account{
		{ID: "savings", Name: "Savings", Kind: Savings, StartingBalance: usd("250.00"), StartingDate: aug(10)},
		{ID: "visa", Name: "Visa", Kind: Credit, StartingBalance: usd("-120.00"), StartingDate: aug(12)},
	}
	for _, a := range accounts {
		if err := sys.CreateAccount(a); err != nil {
			t.Fatalf("CreateAccount(%s): %v", a.Name, err)
		}
	}
	l := ledgerOf(sys)

	testCases := []struct {
		name string
		on   Date
		want string
	}{
		{"checking only", aug(5), "500.00"},
		{"savings joins", aug(10), "750.00"},
		{"credit debt subtracts", aug(15), "630.00"}, // 500 + 250 - 120
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := l.NetWorth(tc.on)
			if !got.Equal(usd(tc.want)) {
				t.Errorf("NetWorth(%s) = %s, want %s", tc.on, got, tc.want)
			}
		})
	}
}
