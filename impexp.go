package envelope

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// This file contains functions to move transactions in and out of a book.
// Imports parse the whole source before touching the ledger, so a bad row
// rejects the file without leaving half of it behind. Imported rows are
// fingerprinted so re-importing the same bank export is harmless: rows
// already in the register are skipped, not duplicated.

// ImportMapping tells an importer where the transaction fields live in the
// source. For CSV the values are header names, for JSON they are jsonpath
// expressions.
type ImportMapping struct {
	Date       string
	Amount     string
	Payee      string
	Memo       string
	Category   string // optional, resolved by name
	DateLayout string // Go time layout, ISO dates always accepted
}

// DefaultCSVMapping reads the conventional bank export headers.
func DefaultCSVMapping() ImportMapping {
	return ImportMapping{Date: "date", Amount: "amount", Payee: "payee", Memo: "memo", Category: "category"}
}

// DefaultJSONMapping reads flat objects with conventional keys.
func DefaultJSONMapping() ImportMapping {
	return ImportMapping{Date: "$.date", Amount: "$.amount", Payee: "$.payee", Memo: "$.memo", Category: "$.category"}
}

// ImportResult reports what an import did.
type ImportResult struct {
	Added   []*Transaction
	Skipped int // rows already present, matched by fingerprint
}

// stagedRow is a parsed source row, not yet in the ledger.
type stagedRow struct {
	date     Date
	amount   Money
	payee    string // name, created on apply
	memo     string
	category string // id, resolved on parse
	importID string
}

// importFingerprint derives a stable import id from the row's identifying
// fields.
func importFingerprint(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "imp-" + hex.EncodeToString(h[:])[:12]
}

// parseImportDate accepts ISO dates always, plus the mapping's layout when
// one is set. Banks rarely agree on a date format.
func parseImportDate(text, layout string) (Date, error) {
	if on, err := ParseDate(text); err == nil {
		return on, nil
	}
	if layout != "" {
		if t, err := time.Parse(layout, text); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("not a date")
}

// parseRow validates one source row and stages it. Nothing is written to
// the ledger here.
func parseRow(l *Ledger, layout, account, dateText, amountText, payeeName, memo, categoryName string) (stagedRow, error) {
	var row stagedRow
	on, err := parseImportDate(dateText, layout)
	if err != nil {
		return row, fmt.Errorf("bad date %q: %w", dateText, err)
	}
	amount, err := ParseMoney(amountText)
	if err != nil {
		return row, fmt.Errorf("bad amount %q: %w", amountText, err)
	}
	row = stagedRow{
		date:     on,
		amount:   amount,
		payee:    payeeName,
		memo:     memo,
		importID: importFingerprint(account, on.String(), amountText, payeeName, memo),
	}
	if categoryName != "" {
		c := l.categories.Find(categoryName)
		if c == nil {
			return row, NotFoundf("unknown category %q", categoryName)
		}
		row.category = c.ID
	}
	return row, nil
}

// applyRows adds the staged rows to the account, skipping fingerprints
// already in the register.
func applyRows(l *Ledger, account string, rows []stagedRow) (*ImportResult, error) {
	result := &ImportResult{}
	for _, row := range rows {
		if l.HasImportID(row.importID) {
			result.Skipped++
			continue
		}
		tx := &Transaction{
			Date:     row.date,
			Account:  account,
			Category: row.category,
			Amount:   row.amount,
			Memo:     row.memo,
			ImportID: row.importID,
		}
		if row.payee != "" {
			tx.Payee = l.payees.FindOrCreate(row.payee).ID
		}
		if err := l.AddTransaction(tx); err != nil {
			return result, err
		}
		result.Added = append(result.Added, tx)
	}
	return result, nil
}

// ImportCSV reads bank rows from a CSV stream into an account. The first
// row is the header; the mapping names the columns to use. Unknown columns
// are ignored.
func ImportCSV(l *Ledger, account string, r io.Reader, m ImportMapping) (*ImportResult, error) {
	a := l.accounts.Find(account)
	if a == nil {
		return nil, NotFoundf("unknown account %q", account)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[foldName(name)] = i
	}
	field := func(record []string, name string) string {
		if name == "" {
			return ""
		}
		i, ok := col[foldName(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	if _, ok := col[foldName(m.Date)]; !ok {
		return nil, Validationf("CSV has no %q column", m.Date)
	}
	if _, ok := col[foldName(m.Amount)]; !ok {
		return nil, Validationf("CSV has no %q column", m.Amount)
	}

	var rows []stagedRow
	n := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		n++
		if err != nil {
			return nil, fmt.Errorf("CSV error on row %d: %w", n, err)
		}
		row, err := parseRow(l, m.DateLayout, a.ID,
			field(record, m.Date),
			field(record, m.Amount),
			field(record, m.Payee),
			field(record, m.Memo),
			field(record, m.Category))
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: %w", n, err)
		}
		rows = append(rows, row)
	}
	return applyRows(l, a.ID, rows)
}

// ImportJSON reads transactions from a JSON stream into an account. The
// stream is either an array of objects or JSONL; mapping fields are
// jsonpath expressions evaluated against each object.
func ImportJSON(l *Ledger, account string, r io.Reader, m ImportMapping) (*ImportResult, error) {
	a := l.accounts.Find(account)
	if a == nil {
		return nil, NotFoundf("unknown account %q", account)
	}

	dec := json.NewDecoder(r)
	var objects []any
	var first any
	if err := dec.Decode(&first); err != nil {
		return nil, fmt.Errorf("cannot parse JSON import: %w", err)
	}
	if list, ok := first.([]any); ok {
		objects = list
	} else {
		objects = append(objects, first)
		// JSONL: keep decoding objects until the stream ends.
		for {
			var next any
			if err := dec.Decode(&next); err == io.EOF {
				break
			} else if err != nil {
				return nil, fmt.Errorf("cannot parse JSON import: %w", err)
			}
			objects = append(objects, next)
		}
	}

	var rows []stagedRow
	for i, jobj := range objects {
		row, err := parseRow(l, m.DateLayout, a.ID,
			jsonField(jobj, m.Date),
			jsonField(jobj, m.Amount),
			jsonField(jobj, m.Payee),
			jsonField(jobj, m.Memo),
			jsonField(jobj, m.Category))
		if err != nil {
			return nil, fmt.Errorf("JSON record %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return applyRows(l, a.ID, rows)
}

// jsonField evaluates a jsonpath expression against an object and renders
// the result as text. Missing fields are empty.
func jsonField(jobj any, path string) string {
	if path == "" {
		return ""
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return ""
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer, keep the first one if any.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return ""
		}
		jval = jlist[0]
	}
	switch v := jval.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ExportCSV writes transactions as CSV with resolved account, payee and
// category names, one row per transaction.
func ExportCSV(w io.Writer, l *Ledger, filters ...func(*Transaction) bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "account", "payee", "category", "amount", "status", "memo"}); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}
	accountName := func(id string) string {
		if a := l.Account(id); a != nil {
			return a.Name
		}
		return id
	}
	payeeName := func(id string) string {
		if p := l.Payee(id); p != nil {
			return p.Name
		}
		return id
	}
	categoryName := func(id string) string {
		if c := l.Category(id); c != nil {
			return c.Name
		}
		return id
	}
	for _, tx := range l.Transactions(filters...) {
		record := []string{
			tx.Date.String(),
			accountName(tx.Account),
			payeeName(tx.Payee),
			categoryName(tx.Category),
			tx.Amount.Decimal().StringFixed(2),
			tx.Status.String(),
			tx.Memo,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportJSONL writes transactions as book records, one JSON object per
// line, ready to re-import with the book codec.
func ExportJSONL(w io.Writer, l *Ledger, filters ...func(*Transaction) bool) error {
	for _, tx := range l.Transactions(filters...) {
		if err := encodeRecord(w, kindTransaction, tx); err != nil {
			return err
		}
	}
	return nil
}

// ImportCSV imports bank rows into an account, saves the book and audits
// the batch.
func (bs *BudgetSystem) ImportCSV(account string, r io.Reader, m ImportMapping) (*ImportResult, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	result, err := ImportCSV(bs.ledger, account, r, m)
	if err != nil {
		return nil, err
	}
	return result, bs.finishImport("import.csv", account, result)
}

// ImportJSON imports transactions into an account, saves the book and
// audits the batch.
func (bs *BudgetSystem) ImportJSON(account string, r io.Reader, m ImportMapping) (*ImportResult, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	result, err := ImportJSON(bs.ledger, account, r, m)
	if err != nil {
		return nil, err
	}
	return result, bs.finishImport("import.json", account, result)
}

func (bs *BudgetSystem) finishImport(op, account string, result *ImportResult) error {
	ids := make([]string, 0, len(result.Added))
	for _, tx := range result.Added {
		ids = append(ids, tx.ID)
	}
	bs.record(ChangeEvent{
		Op:     op,
		Entity: "transaction",
		ID:     account,
		After:  auditSnapshot(map[string]any{"added": ids, "skipped": result.Skipped}),
	})
	if len(result.Added) == 0 {
		return nil
	}
	return bs.save()
}
