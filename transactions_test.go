package envelope

import (
	"errors"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	sys := newTestBook(t)
	l := ledgerOf(sys)

	testCases := []struct {
		name string
		tx   Transaction
		want error
	}{
		{
			name: "no id",
			tx:   Transaction{Date: aug(5), Account: "checking", Amount: usd("1.00")},
			want: ErrValidation,
		},
		{
			name: "no account",
			tx:   Transaction{ID: "txn-1", Date: aug(5), Amount: usd("1.00")},
			want: ErrValidation,
		},
		{
			name: "unknown account",
			tx:   Transaction{ID: "txn-1", Date: aug(5), Account: "nowhere", Amount: usd("1.00")},
			want: ErrNotFound,
		},
		{
			name: "unknown payee",
			tx:   Transaction{ID: "txn-1", Date: aug(5), Account: "checking", Payee: "ghost", Amount: usd("1.00")},
			want: ErrNotFound,
		},
		{
			name: "unknown category",
			tx:   Transaction{ID: "txn-1", Date: aug(5), Account: "checking", Category: "yachts", Amount: usd("-1.00")},
			want: ErrNotFound,
		},
		{
			name: "categorized and split at once",
			tx: Transaction{ID: "txn-1", Date: aug(5), Account: "checking", Category: "groceries", Amount: usd("-2.00"),
				Splits: []Split{{Category: "groceries", Amount: usd("-2.00")}}},
			want: ErrValidation,
		},
		{
			name: "categorized transfer",
			tx:   Transaction{ID: "txn-1", Date: aug(5), Account: "checking", Category: "groceries", Amount: usd("-2.00"), TransferID: "tfr-1"},
			want: ErrValidation,
		},
		{
			name: "unknown split category",
			tx: Transaction{ID: "txn-1", Date: aug(5), Account: "checking", Amount: usd("-2.00"),
				Splits: []Split{{Category: "yachts", Amount: usd("-2.00")}}},
			want: ErrNotFound,
		},
		{
			name: "splits do not sum to amount",
			tx: Transaction{ID: "txn-1", Date: aug(5), Account: "checking", Amount: usd("-10.00"),
				Splits: []Split{{Category: "groceries", Amount: usd("-6.00")}, {Category: "rent", Amount: usd("-3.00")}}},
			want: ErrValidation,
		},
		{
			name: "valid split",
			tx: Transaction{ID: "txn-1", Date: aug(5), Account: "checking", Amount: usd("-10.00"),
				Splits: []Split{{Category: "groceries", Amount: usd("-6.00")}, {Category: "rent", Amount: usd("-4.00")}}},
			want: nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tx.Validate(l)
			if tc.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateDefaultsDate(t *testing.T) {
	t.Setenv("ENVELOPE_TESTING_TODAY", "2025-08-15")
	sys := newTestBook(t)
	tx := Transaction{ID: "txn-1", Account: "checking", Amount: usd("1.00")}
	if err := tx.Validate(ledgerOf(sys)); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if tx.Date != aug(15) {
		t.Errorf("defaulted date = %s, want 2025-08-15", tx.Date)
	}
}

func TestIsIncome(t *testing.T) {
	testCases := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{"uncategorized inflow", Transaction{Amount: usd("100.00")}, true},
		{"categorized inflow is a refund", Transaction{Amount: usd("100.00"), Category: "groceries"}, false},
		{"outflow", Transaction{Amount: usd("-100.00")}, false},
		{"zero amount", Transaction{}, false},
		{"transfer half", Transaction{Amount: usd("100.00"), TransferID: "tfr-1"}, false},
		{"split inflow", Transaction{Amount: usd("100.00"), Splits: []Split{{Category: "groceries", Amount: usd("100.00")}}}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tx.IsIncome(); got != tc.want {
				t.Errorf("IsIncome() = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestCategoryAmounts(t *testing.T) {
	collect := func(tx Transaction) map[string]Money {
		got := make(map[string]Money)
		for c, m := range tx.CategoryAmounts {
			got[c] = got[c].Add(m)
		}
		return got
	}

	single := Transaction{Category: "groceries", Amount: usd("-20.00")}
	if got := collect(single); len(got) != 1 || !got["groceries"].Equal(usd("-20.00")) {
		t.Errorf("single posting = %v", got)
	}

	split := Transaction{Amount: usd("-20.00"), Splits: []Split{
		{Category: "groceries", Amount: usd("-15.00")},
		{Category: "rent", Amount: usd("-5.00")},
	}}
	got := collect(split)
	if !got["groceries"].Equal(usd("-15.00")) || !got["rent"].Equal(usd("-5.00")) {
		t.Errorf("split postings = %v", got)
	}

	// Income and transfers post to no category.
	if got := collect(Transaction{Amount: usd("100.00")}); len(got) != 0 {
		t.Errorf("income posted %v", got)
	}
	if got := collect(Transaction{Amount: usd("50.00"), TransferID: "tfr-1"}); len(got) != 0 {
		t.Errorf("transfer posted %v", got)
	}
}

func TestAddTransfer(t *testing.T) {
	sys := newTestBook(t)
	if err := sys.CreateAccount(&Account{ID: "savings", Name: "Savings", StartingDate: aug(1)}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	out, in, err := sys.AddTransfer(aug(10), "checking", "savings", usd("200.00"), "stash")
	if err != nil {
		t.Fatalf("AddTransfer: %v", err)
	}
	if !out.Amount.Equal(usd("-200.00")) || out.Account != "checking" {
		t.Errorf("out half = %s on %s", out.Amount, out.Account)
	}
	if !in.Amount.Equal(usd("200.00")) || in.Account != "savings" {
		t.Errorf("in half = %s on %s", in.Amount, in.Account)
	}
	if out.TransferID == "" || out.TransferID != in.TransferID {
		t.Errorf("halves not linked: %q vs %q", out.TransferID, in.TransferID)
	}
	if in.IsIncome() {
		t.Error("transfer inflow counted as income")
	}

	l := ledgerOf(sys)
	if !l.AccountBalance("checking", aug(10)).Equal(usd("300.00")) {
		t.Errorf("checking = %s, want 300.00", l.AccountBalance("checking", aug(10)))
	}
	if !l.AccountBalance("savings", aug(10)).Equal(usd("200.00")) {
		t.Errorf("savings = %s, want 200.00", l.AccountBalance("savings", aug(10)))
	}
}

func TestAddTransferGuards(t *testing.T) {
	sys := newTestBook(t)

	if _, _, err := sys.AddTransfer(aug(10), "checking", "checking", usd("50.00"), ""); !errors.Is(err, ErrValidation) {
		t.Errorf("self transfer = %v, want validation error", err)
	}
	if _, _, err := sys.AddTransfer(aug(10), "checking", "savings", usd("-50.00"), ""); !errors.Is(err, ErrValidation) {
		t.Errorf("negative transfer = %v, want validation error", err)
	}

	// When the inbound half fails the outbound half must not linger.
	if _, _, err := sys.AddTransfer(aug(10), "checking", "nowhere", usd("50.00"), ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown destination = %v, want not found", err)
	}
	n := 0
	for range ledgerOf(sys).Transactions() {
		n++
	}
	if n != 0 {
		t.Errorf("register holds %d transactions after failed transfer, want 0", n)
	}
}

func TestParseTransactionStatus(t *testing.T) {
	testCases := []struct {
		in   string
		want TransactionStatus
	}{
		{"pending", Pending},
		{" Cleared ", Cleared},
		{"RECONCILED", Reconciled},
	}
	for _, tc := range testCases {
		got, err := ParseTransactionStatus(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseTransactionStatus(%q) = %v, %v, want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseTransactionStatus("archived"); err == nil {
		t.Error("ParseTransactionStatus(archived) accepted an unknown status")
	}
}
