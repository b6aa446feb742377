package envelope

import (
	"errors"
	"slices"
	"testing"
)

func TestRegisterStaysSorted(t *testing.T) {
	sys := newTestBook(t)
	late := income(t, sys, aug(20), "10.00")
	early := income(t, sys, aug(5), "20.00")
	mid := income(t, sys, aug(12), "30.00")

	var got []string
	for _, tx := range ledgerOf(sys).Transactions() {
		got = append(got, tx.ID)
	}
	want := []string{early.ID, mid.ID, late.ID}
	if !slices.Equal(got, want) {
		t.Errorf("register order = %v, want %v", got, want)
	}

	// Same-day transactions keep their insertion order.
	first := income(t, sys, aug(12), "1.00")
	second := income(t, sys, aug(12), "2.00")
	got = got[:0]
	for _, tx := range ledgerOf(sys).Transactions(InPeriod(august)) {
		got = append(got, tx.ID)
	}
	want = []string{early.ID, mid.ID, first.ID, second.ID, late.ID}
	if !slices.Equal(got, want) {
		t.Errorf("register order = %v, want %v", got, want)
	}
}

func TestLedgerOldestNewest(t *testing.T) {
	l := NewLedger()
	if !l.OldestTransactionDate().IsZero() || !l.NewestTransactionDate().IsZero() {
		t.Error("empty register should have zero boundary dates")
	}

	sys := newTestBook(t)
	income(t, sys, aug(20), "10.00")
	income(t, sys, aug(5), "20.00")
	ll := ledgerOf(sys)
	if got := ll.OldestTransactionDate(); got != aug(5) {
		t.Errorf("OldestTransactionDate = %s, want 2025-08-05", got)
	}
	if got := ll.NewestTransactionDate(); got != aug(20) {
		t.Errorf("NewestTransactionDate = %s, want 2025-08-20", got)
	}
}

func TestAddTransactionRejectsDuplicateID(t *testing.T) {
	sys := newTestBook(t)
	tx := &Transaction{ID: "txn-fixed", Date: aug(5), Account: "checking", Amount: usd("10.00")}
	if err := sys.AddTransaction(tx); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	dup := &Transaction{ID: "txn-fixed", Date: aug(6), Account: "checking", Amount: usd("20.00")}
	if err := sys.AddTransaction(dup); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate id = %v, want conflict", err)
	}
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	sys := newTestBook(t)
	tx := spend(t, sys, aug(9), "groceries", "84.15")

	edited := *tx
	edited.Amount = usd("-90.00")
	edited.Memo = "corrected"
	if err := sys.UpdateTransaction(&edited); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	got := ledgerOf(sys).Transaction(tx.ID)
	if !got.Amount.Equal(usd("-90.00")) || got.Memo != "corrected" {
		t.Errorf("updated transaction = %+v", got)
	}

	missing := *tx
	missing.ID = "txn-missing"
	if err := sys.UpdateTransaction(&missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTransaction unknown = %v, want not found", err)
	}

	if err := sys.DeleteTransaction(tx.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if ledgerOf(sys).Transaction(tx.ID) != nil {
		t.Error("deleted transaction still in the register")
	}
	if err := sys.DeleteTransaction(tx.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteTransaction = %v, want not found", err)
	}
}

func TestSetStatus(t *testing.T) {
	sys := newTestBook(t)
	tx := spend(t, sys, aug(9), "groceries", "10.00")

	if err := sys.SetStatus(tx.ID, Cleared); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if tx.Status != Cleared {
		t.Errorf("Status = %s, want cleared", tx.Status)
	}
	if err := sys.SetStatus(tx.ID, Pending); err != nil {
		t.Fatalf("SetStatus back: %v", err)
	}

	// Reconciled is earned by completing a reconciliation, never set
	// directly.
	if err := sys.SetStatus(tx.ID, Reconciled); !errors.Is(err, ErrValidation) {
		t.Errorf("SetStatus(reconciled) = %v, want validation error", err)
	}
	if err := sys.SetStatus("txn-missing", Cleared); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetStatus unknown = %v, want not found", err)
	}
}

func TestTransactionFilters(t *testing.T) {
	sys := newTestBook(t)
	if err := sys.CreateAccount(&Account{ID: "savings", Name: "Savings", StartingDate: aug(1)}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if err := sys.CreatePayee(&Payee{ID: "acme", Name: "Acme Corp"}); err != nil {
		t.Fatalf("CreatePayee: %v", err)
	}

	txs := []*Transaction{
		{Date: aug(5), Account: "checking", Payee: "acme", Amount: usd("2000.00"), Status: Cleared},
		{Date: aug(9), Account: "checking", Category: "groceries", Amount: usd("-84.15")},
		{Date: aug(10), Account: "savings", Category: "rent", Amount: usd("-10.00")},
		{Date: MustParse("2025-09-02"), Account: "checking", Amount: usd("-20.00"), Splits: []Split{
			{Category: "groceries", Amount: usd("-15.00")},
			{Category: "rent", Amount: usd("-5.00")},
		}},
	}
	for _, tx := range txs {
		if err := sys.AddTransaction(tx); err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}
	l := ledgerOf(sys)

	count := func(filters ...func(*Transaction) bool) int {
		n := 0
		for range l.Transactions(filters...) {
			n++
		}
		return n
	}
	testCases := []struct {
		name   string
		filter func(*Transaction) bool
		want   int
	}{
		{"by account", ByAccount("checking"), 3},
		{"by category matches splits too", ByCategory("groceries"), 2},
		{"by payee", ByPayee("acme"), 1},
		{"by status", ByStatus(Cleared), 1},
		{"in period", InPeriod(august), 3},
		{"in range", InRange(NewRange(aug(9), aug(10))), 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := count(tc.filter); got != tc.want {
				t.Errorf("count = %d, want %d", got, tc.want)
			}
		})
	}

	// Filters combine with and.
	if got := count(ByAccount("checking"), InPeriod(august)); got != 2 {
		t.Errorf("combined count = %d, want 2", got)
	}
}

func TestHasImportID(t *testing.T) {
	sys := newTestBook(t)
	tx := &Transaction{Date: aug(5), Account: "checking", Amount: usd("10.00"), ImportID: "imp-abcdef123456"}
	if err := sys.AddTransaction(tx); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	l := ledgerOf(sys)
	if !l.HasImportID("imp-abcdef123456") {
		t.Error("HasImportID missed an imported transaction")
	}
	if l.HasImportID("imp-000000000000") {
		t.Error("HasImportID matched an absent fingerprint")
	}
	// The blank fingerprint of manual entries never matches.
	if l.HasImportID("") {
		t.Error("HasImportID matched the empty fingerprint")
	}
}

func TestAllocationsThrough(t *testing.T) {
	sys := newTestBook(t)
	income(t, sys, aug(1), "5000.00")
	for _, step := range []struct {
		category string
		period   Period
		amount   string
	}{
		{"rent", august, "1400.00"},
		{"groceries", september, "450.00"},
		{"groceries", august, "400.00"},
	} {
		if _, err := sys.Assign(step.category, step.period, usd(step.amount), false); err != nil {
			t.Fatalf("Assign(%s, %s): %v", step.category, step.period, err)
		}
	}
	l := ledgerOf(sys)

	// Through August only the August pair, ordered by period then category.
	var got []string
	for a := range l.AllocationsThrough(august) {
		got = append(got, a.Category+"@"+a.Period.String())
	}
	want := []string{"groceries@2025-08", "rent@2025-08"}
	if !slices.Equal(got, want) {
		t.Errorf("AllocationsThrough(%s) = %v, want %v", august, got, want)
	}

	got = got[:0]
	for a := range l.AllocationsThrough(september) {
		got = append(got, a.Category+"@"+a.Period.String())
	}
	want = []string{"groceries@2025-08", "rent@2025-08", "groceries@2025-09"}
	if !slices.Equal(got, want) {
		t.Errorf("AllocationsThrough(%s) = %v, want %v", september, got, want)
	}
}
