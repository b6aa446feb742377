package envelope

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const bankCSV = `date,payee,memo,amount,category
2025-08-04,Acme Grocers,weekly run,-84.15,Groceries
2025-08-05,,paycheck,2000.00,
2025-08-07,Acme Grocers,,-12.50,groceries
`

func TestImportCSV(t *testing.T) {
	sys := newTestBook(t)
	result, err := sys.ImportCSV("checking", strings.NewReader(bankCSV), DefaultCSVMapping())
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(result.Added) != 3 || result.Skipped != 0 {
		t.Fatalf("ImportCSV added %d skipped %d, want 3 and 0", len(result.Added), result.Skipped)
	}

	l := ledgerOf(sys)
	first := result.Added[0]
	if first.Date != aug(4) || !first.Amount.Equal(usd("-84.15")) || first.Memo != "weekly run" {
		t.Errorf("first row = %+v", first)
	}
	// Category names resolve case-insensitively to the same id.
	if first.Category != "groceries" || result.Added[2].Category != "groceries" {
		t.Errorf("categories = %q and %q, want groceries", first.Category, result.Added[2].Category)
	}
	if !strings.HasPrefix(first.ImportID, "imp-") {
		t.Errorf("ImportID = %q, want an imp- fingerprint", first.ImportID)
	}
	// Both Acme rows share one payee record.
	if n := l.Payees().Len(); n != 1 {
		t.Errorf("payees created = %d, want 1", n)
	}
	if result.Added[1].Payee != "" {
		t.Errorf("paycheck row got payee %q, want none", result.Added[1].Payee)
	}

	// Importing the same file again is harmless.
	again, err := sys.ImportCSV("checking", strings.NewReader(bankCSV), DefaultCSVMapping())
	if err != nil {
		t.Fatalf("second ImportCSV: %v", err)
	}
	if len(again.Added) != 0 || again.Skipped != 3 {
		t.Errorf("second import added %d skipped %d, want 0 and 3", len(again.Added), again.Skipped)
	}
}

func TestImportCSVRejectsWholeFileOnBadRow(t *testing.T) {
	sys := newTestBook(t)
	bad := `date,payee,memo,amount
2025-08-04,Acme,,-10.00
2025-08-05,Acme,,not-money
`
	if _, err := sys.ImportCSV("checking", strings.NewReader(bad), DefaultCSVMapping()); err == nil {
		t.Fatal("ImportCSV accepted a file with a bad amount")
	}
	n := 0
	for range ledgerOf(sys).Transactions() {
		n++
	}
	if n != 0 {
		t.Errorf("register holds %d transactions after rejected import, want 0", n)
	}
}

func TestImportCSVErrors(t *testing.T) {
	sys := newTestBook(t)
	testCases := []struct {
		name string
		csv  string
		want error
	}{
		{
			name: "missing amount column",
			csv:  "date,payee\n2025-08-04,Acme\n",
			want: ErrValidation,
		},
		{
			name: "unknown category",
			csv:  "date,amount,category\n2025-08-04,-10.00,Yachts\n",
			want: ErrNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sys.ImportCSV("checking", strings.NewReader(tc.csv), DefaultCSVMapping())
			if !errors.Is(err, tc.want) {
				t.Errorf("ImportCSV = %v, want %v", err, tc.want)
			}
		})
	}
	if _, err := sys.ImportCSV("nowhere", strings.NewReader(bankCSV), DefaultCSVMapping()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown account = %v, want not found", err)
	}
}

func TestImportCSVCustomMapping(t *testing.T) {
	sys := newTestBook(t)
	statement := `Transaction Date,Description,Debit Amount
08/04/2025,COFFEE SHOP,-4.50
`
	m := ImportMapping{Date: "transaction date", Amount: "Debit Amount", Payee: "Description", DateLayout: "01/02/2006"}
	result, err := sys.ImportCSV("checking", strings.NewReader(statement), m)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(result.Added) != 1 {
		t.Fatalf("added %d rows, want 1", len(result.Added))
	}
	tx := result.Added[0]
	if tx.Date != aug(4) || !tx.Amount.Equal(usd("-4.50")) {
		t.Errorf("imported row = %s %s", tx.Date, tx.Amount)
	}
	if p := ledgerOf(sys).Payee(tx.Payee); p == nil || p.Name != "COFFEE SHOP" {
		t.Errorf("payee = %v, want COFFEE SHOP", p)
	}
}

func TestImportJSONArray(t *testing.T) {
	sys := newTestBook(t)
	payload := `[
	{"when":"2025-08-04","details":{"amount":-84.15},"who":"Acme Grocers"},
	{"when":"2025-08-05","details":{"amount":2000},"who":""}
]`
	m := ImportMapping{Date: "$.when", Amount: "$.details.amount", Payee: "$.who"}
	result, err := sys.ImportJSON("checking", strings.NewReader(payload), m)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(result.Added) != 2 {
		t.Fatalf("added %d records, want 2", len(result.Added))
	}
	if !result.Added[0].Amount.Equal(usd("-84.15")) || !result.Added[1].Amount.Equal(usd("2000.00")) {
		t.Errorf("amounts = %s and %s", result.Added[0].Amount, result.Added[1].Amount)
	}
}

func TestImportJSONLines(t *testing.T) {
	sys := newTestBook(t)
	payload := `{"date":"2025-08-04","amount":"-84.15","payee":"Acme Grocers","memo":"weekly run","category":"Groceries"}
{"date":"2025-08-05","amount":"2000.00"}
`
	result, err := sys.ImportJSON("checking", strings.NewReader(payload), DefaultJSONMapping())
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(result.Added) != 2 {
		t.Fatalf("added %d records, want 2", len(result.Added))
	}
	if result.Added[0].Category != "groceries" || result.Added[0].Memo != "weekly run" {
		t.Errorf("first record = %+v", result.Added[0])
	}

	// A bad record anywhere rejects the whole stream.
	bad := `{"date":"2025-08-06","amount":"5.00"}
{"date":"soon","amount":"1.00"}
`
	if _, err := sys.ImportJSON("checking", strings.NewReader(bad), DefaultJSONMapping()); err == nil {
		t.Fatal("ImportJSON accepted a stream with a bad date")
	}
	n := 0
	for range ledgerOf(sys).Transactions() {
		n++
	}
	if n != 2 {
		t.Errorf("register holds %d transactions, want the 2 from the good import", n)
	}
}

func TestExportCSV(t *testing.T) {
	sys := newTestBook(t)
	if err := sys.CreatePayee(&Payee{ID: "acme", Name: "Acme Grocers"}); err != nil {
		t.Fatalf("CreatePayee: %v", err)
	}
	txs := []*Transaction{
		{Date: aug(4), Account: "checking", Payee: "acme", Category: "groceries", Amount: usd("-84.15"), Memo: "weekly run"},
		{Date: aug(5), Account: "checking", Amount: usd("2000.00"), Status: Cleared, Memo: "paycheck"},
	}
	for _, tx := range txs {
		if err := sys.AddTransaction(tx); err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, ledgerOf(sys)); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	want := `date,account,payee,category,amount,status,memo
2025-08-04,Checking,Acme Grocers,Groceries,-84.15,pending,weekly run
2025-08-05,Checking,,,2000.00,cleared,paycheck
`
	if got := buf.String(); got != want {
		t.Errorf("ExportCSV =\n%s\nwant\n%s", got, want)
	}
}

func TestExportJSONLRoundTrip(t *testing.T) {
	sys := newTestBook(t)
	spend(t, sys, aug(4), "groceries", "84.15")
	income(t, sys, aug(5), "2000.00")

	var buf bytes.Buffer
	if err := ExportJSONL(&buf, ledgerOf(sys)); err != nil {
		t.Fatalf("ExportJSONL: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !strings.HasPrefix(line, `{"kind":"transaction"`) {
			t.Fatalf("line %q does not start with the transaction kind", line)
		}
	}

	decoded, err := DecodeBook(&buf)
	if err != nil {
		t.Fatalf("DecodeBook: %v", err)
	}
	var got []Money
	for _, tx := range decoded.Transactions() {
		got = append(got, tx.Amount)
	}
	if len(got) != 2 || !got[0].Equal(usd("-84.15")) || !got[1].Equal(usd("2000.00")) {
		t.Errorf("round trip amounts = %v", got)
	}
}
